package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/store"
	"github.com/jjenkins/civic/internal/telemetry"
)

type createEventRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description" validate:"max=5000"`
	Date         *time.Time `json:"date" validate:"required"`
	Location     string     `json:"location" validate:"required"`
	Level        string     `json:"level" validate:"omitempty,oneof=federal state local"`
	EventType    string     `json:"eventType"`
	MaxAttendees *int       `json:"maxAttendees" validate:"omitempty,min=1"`
	Organizer    string     `json:"organizer"`
	IsVirtual    bool       `json:"isVirtual"`
	MeetingURL   string     `json:"meetingUrl" validate:"omitempty,url"`
}

type rsvpRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Email  string `json:"email" validate:"required,email"`
	UserID string `json:"userId"`
}

func EventsHandler(events *store.EventStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		level := model.Jurisdiction(c.Query("level"))
		if level != "" && !level.Valid() {
			return badRequest(c, "level must be one of federal, state, local")
		}

		limit, offset := pageParams(c)
		list, total := events.List(store.EventFilter{
			Level:    level,
			Upcoming: c.QueryBool("upcoming", false),
			Query:    c.Query("query"),
		}, limit, offset)
		return c.JSON(fiber.Map{"events": list, "total": total})
	}
}

func CreateEventHandler(events *store.EventStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createEventRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		e, err := events.Create(model.CivicEvent{
			Title:        req.Title,
			Description:  req.Description,
			Date:         req.Date.UTC(),
			Location:     req.Location,
			Level:        model.Jurisdiction(req.Level),
			EventType:    req.EventType,
			MaxAttendees: req.MaxAttendees,
			Organizer:    req.Organizer,
			IsVirtual:    req.IsVirtual,
			MeetingURL:   req.MeetingURL,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(e)
	}
}

func EventHandler(events *store.EventStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, ok := events.Get(c.Params("id"))
		if !ok {
			return notFound(c, "event")
		}
		return c.JSON(e)
	}
}

func UpdateEventHandler(events *store.EventStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch model.EventPatch
		if err := c.BodyParser(&patch); err != nil {
			return badRequest(c, "invalid request body")
		}

		e, err := events.Update(c.Params("id"), patch)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(e)
	}
}

func DeleteEventHandler(events *store.EventStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := events.Delete(c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RSVPHandler registers an attendee. Once the event is full new RSVPs are waitlisted.
func RSVPHandler(events *store.EventStore, metrics *telemetry.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req rsvpRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		rsvp, err := events.RSVP(c.Params("id"), model.EventRsvp{
			Name:   req.Name,
			Email:  req.Email,
			UserID: req.UserID,
		})
		if err != nil {
			return writeError(c, err)
		}
		metrics.RSVP(string(rsvp.Status))
		return c.Status(fiber.StatusCreated).JSON(rsvp)
	}
}

func RSVPsHandler(events *store.EventStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rsvps, err := events.RSVPs(c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"rsvps": rsvps})
	}
}

func CancelRSVPHandler(events *store.EventStore, metrics *telemetry.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rsvp, err := events.CancelRSVP(c.Params("id"), c.Params("rsvpId"))
		if err != nil {
			return writeError(c, err)
		}
		metrics.RSVP(string(rsvp.Status))
		return c.JSON(rsvp)
	}
}
