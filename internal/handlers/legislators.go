package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/civic/internal/service"
)

func LegislatorsHandler(legislators *service.LegislatorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		listing := legislators.List(c.UserContext(), c.Query("state"), c.Query("district"), c.QueryInt("limit", 0))
		return c.JSON(fiber.Map{
			"legislators": listing.Legislators,
			"source":      listing.Source,
		})
	}
}

func LegislatorDetailHandler(legislators *service.LegislatorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, ok := legislators.Get(c.Params("id"))
		if !ok {
			return notFound(c, "legislator")
		}
		return c.JSON(l)
	}
}
