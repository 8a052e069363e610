package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/service"
)

func NewsHandler(news *service.NewsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := model.NewsCategory(c.Query("category"))
		if category != "" && !category.Valid() {
			return badRequest(c, "category must be one of breaking, local, national, explainer")
		}

		res := news.Search(c.UserContext(), service.NewsQuery{
			Query:    c.Query("query"),
			Category: category,
			PageSize: c.QueryInt("pageSize", 20),
			Page:     c.QueryInt("page", 1),
		})
		return c.JSON(fiber.Map{
			"articles": res.Data.Articles,
			"total":    res.Data.Total,
			"source":   res.Source,
		})
	}
}

func BreakingNewsHandler(news *service.NewsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := news.Breaking(c.UserContext())
		return c.JSON(fiber.Map{"articles": res.Data, "source": res.Source})
	}
}

func LocalNewsHandler(news *service.NewsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := news.Local(c.UserContext(), c.Query("location"))
		return c.JSON(fiber.Map{"articles": res.Data, "source": res.Source})
	}
}
