package handlers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jjenkins/civic/internal/service"
	"github.com/jjenkins/civic/internal/templates"
)

func HomeHandler(metrics *service.MetricsService, status templates.AdapterStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := templates.Home(templates.HomeMetrics{
			Engagement: metrics.Current(),
			Adapters:   status,
		})
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}

func HealthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
