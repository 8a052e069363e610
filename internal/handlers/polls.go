package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/store"
	"github.com/jjenkins/civic/internal/telemetry"
)

type createPollRequest struct {
	Title               string     `json:"title" validate:"required,max=200"`
	Description         string     `json:"description" validate:"max=2000"`
	Options             []string   `json:"options" validate:"required,min=2,max=20,dive,required,max=200"`
	AllowMultipleChoice bool       `json:"allowMultipleChoice"`
	EndDate             *time.Time `json:"endDate"`
	CreatedBy           string     `json:"createdBy"`
}

type votePollRequest struct {
	SelectedOptions []int  `json:"selectedOptions" validate:"required,min=1,dive,min=0"`
	UserID          string `json:"userId"`
}

func PollsHandler(polls *store.PollStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageParams(c)
		list, total := polls.List(store.PollFilter{
			ActiveOnly: c.QueryBool("active", false),
			Query:      c.Query("query"),
		}, limit, offset)
		return c.JSON(fiber.Map{"polls": list, "total": total})
	}
}

func CreatePollHandler(polls *store.PollStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createPollRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		poll, err := polls.Create(model.Poll{
			Title:               req.Title,
			Description:         req.Description,
			Options:             req.Options,
			AllowMultipleChoice: req.AllowMultipleChoice,
			IsActive:            true,
			EndDate:             req.EndDate,
			CreatedBy:           req.CreatedBy,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(poll)
	}
}

func PollHandler(polls *store.PollStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		poll, ok := polls.Get(c.Params("id"))
		if !ok {
			return notFound(c, "poll")
		}
		return c.JSON(poll)
	}
}

func PollResultsHandler(polls *store.PollStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		results, err := polls.Results(c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(results)
	}
}

// VotePollHandler records a ballot. Anonymous ballots are keyed by the client address.
func VotePollHandler(polls *store.PollStore, metrics *telemetry.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req votePollRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		vote, err := polls.Vote(model.PollVote{
			PollID:          c.Params("id"),
			SelectedOptions: req.SelectedOptions,
			UserID:          req.UserID,
			IPAddress:       c.IP(),
		})
		metrics.Vote("poll", voteOutcome(err))
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(vote)
	}
}

func UpdatePollHandler(polls *store.PollStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch model.PollPatch
		if err := c.BodyParser(&patch); err != nil {
			return badRequest(c, "invalid request body")
		}

		poll, err := polls.Update(c.Params("id"), patch)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(poll)
	}
}

func DeletePollHandler(polls *store.PollStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := polls.Delete(c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func voteOutcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, store.ErrDuplicateVote):
		return "duplicate"
	}
	return "rejected"
}
