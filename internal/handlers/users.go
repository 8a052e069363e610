package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/store"
)

type createUserRequest struct {
	Username          string `json:"username" validate:"required,min=3,max=50"`
	Email             string `json:"email" validate:"omitempty,email"`
	PreferredLanguage string `json:"preferredLanguage" validate:"omitempty,oneof=en es"`
	ZipCode           string `json:"zipCode" validate:"omitempty,numeric,len=5"`
}

type bookmarkRequest struct {
	ItemType string `json:"itemType" validate:"required,oneof=bill news event"`
	ItemID   string `json:"itemId" validate:"required"`
}

func CreateUserHandler(users *store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createUserRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		u, err := users.Create(model.User{
			Username:          req.Username,
			Email:             req.Email,
			PreferredLanguage: req.PreferredLanguage,
			ZipCode:           req.ZipCode,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

func UserHandler(users *store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := users.Get(c.Params("id"))
		if !ok {
			return notFound(c, "user")
		}
		return c.JSON(u)
	}
}

func UpdateUserHandler(users *store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch model.UserPatch
		if err := c.BodyParser(&patch); err != nil {
			return badRequest(c, "invalid request body")
		}

		u, err := users.Update(c.Params("id"), patch)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(u)
	}
}

func BookmarksHandler(users *store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bookmarks, err := users.ListBookmarks(c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"bookmarks": bookmarks})
	}
}

func CreateBookmarkHandler(users *store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req bookmarkRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		b, err := users.AddBookmark(model.Bookmark{
			UserID:   c.Params("id"),
			ItemType: req.ItemType,
			ItemID:   req.ItemID,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(b)
	}
}

func DeleteBookmarkHandler(users *store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := users.RemoveBookmark(c.Params("id"), c.Params("bookmarkId")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
