package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/civic/internal/service"
)

// EngagementHandler reports live participation figures
func EngagementHandler(metrics *service.MetricsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(metrics.Current())
	}
}

// EngagementHistoryHandler lists the recorded values of one metric, or the
// latest value of every metric when none is named
func EngagementHistoryHandler(metrics *service.MetricsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Query("metric")
		if name == "" {
			latest, err := metrics.Latest(c.UserContext())
			if err != nil {
				return writeError(c, err)
			}
			return c.JSON(fiber.Map{"latest": latest, "persisted": metrics.HasSink()})
		}

		points, err := metrics.History(c.UserContext(), name, c.QueryInt("limit", 30))
		if errors.Is(err, service.ErrNoMetricsSink) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(errorResponse{Error: err.Error()})
		}
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"metric": name, "history": points})
	}
}
