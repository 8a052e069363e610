package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/store"
	"github.com/jjenkins/civic/internal/telemetry"
)

type createFeedbackRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
	Category    string `json:"category" validate:"max=50"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Location    string `json:"location"`
	SubmittedBy string `json:"submittedBy"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type voteFeedbackRequest struct {
	VoteType string `json:"voteType" validate:"required,oneof=up down"`
	UserID   string `json:"userId"`
}

type createCommentRequest struct {
	Content         string `json:"content" validate:"required,max=2000"`
	ParentCommentID string `json:"parentCommentId"`
	AuthorName      string `json:"authorName"`
	UserID          string `json:"userId"`
	IsOfficial      bool   `json:"isOfficial"`
}

func FeedbackListHandler(feedback *store.FeedbackStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := model.FeedbackStatus(c.Query("status"))
		if status != "" && !status.Valid() {
			return badRequest(c, "unknown feedback status")
		}

		limit, offset := pageParams(c)
		list, total := feedback.List(store.FeedbackFilter{
			Category: c.Query("category"),
			Status:   status,
			Query:    c.Query("query"),
		}, limit, offset)
		return c.JSON(fiber.Map{"feedback": list, "total": total})
	}
}

func CreateFeedbackHandler(feedback *store.FeedbackStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createFeedbackRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		fb, err := feedback.Create(model.FeedbackSubmission{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Priority:    req.Priority,
			Location:    req.Location,
			SubmittedBy: req.SubmittedBy,
			IsAnonymous: req.IsAnonymous,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fb)
	}
}

func FeedbackHandler(feedback *store.FeedbackStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fb, ok := feedback.Get(c.Params("id"))
		if !ok {
			return notFound(c, "feedback")
		}
		return c.JSON(fb)
	}
}

func UpdateFeedbackHandler(feedback *store.FeedbackStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch model.FeedbackPatch
		if err := c.BodyParser(&patch); err != nil {
			return badRequest(c, "invalid request body")
		}

		fb, err := feedback.Update(c.Params("id"), patch)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fb)
	}
}

// VoteFeedbackHandler records an up or down vote and returns the new tallies
func VoteFeedbackHandler(feedback *store.FeedbackStore, metrics *telemetry.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req voteFeedbackRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		fb, err := feedback.Vote(model.FeedbackVote{
			FeedbackID: c.Params("id"),
			VoteType:   model.VoteType(req.VoteType),
			UserID:     req.UserID,
			IPAddress:  c.IP(),
		})
		metrics.Vote("feedback", voteOutcome(err))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"feedbackId": fb.ID,
			"upvotes":    fb.Upvotes,
			"downvotes":  fb.Downvotes,
		})
	}
}

func CommentsHandler(feedback *store.FeedbackStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		comments, err := feedback.Comments(c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"comments": comments})
	}
}

func CreateCommentHandler(feedback *store.FeedbackStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createCommentRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		comment, err := feedback.AddComment(model.FeedbackComment{
			FeedbackID:      c.Params("id"),
			ParentCommentID: req.ParentCommentID,
			Content:         req.Content,
			AuthorName:      req.AuthorName,
			UserID:          req.UserID,
			IsOfficial:      req.IsOfficial,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	}
}
