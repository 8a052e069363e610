package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/service"
	"github.com/jjenkins/civic/internal/store"
)

type createSessionRequest struct {
	UserID   string `json:"userId"`
	Language string `json:"language" validate:"omitempty,oneof=en es"`
}

type chatRequest struct {
	Message   string `json:"message" validate:"required,max=4000"`
	SessionID string `json:"sessionId"`
	Language  string `json:"language" validate:"omitempty,oneof=en es"`
}

type translateRequest struct {
	Content        string `json:"content" validate:"required,max=10000"`
	TargetLanguage string `json:"targetLanguage" validate:"required,oneof=en es"`
	Context        string `json:"context"`
}

type contactTemplateRequest struct {
	BillTitle      string `json:"billTitle" validate:"required"`
	Position       string `json:"position" validate:"required,oneof=support oppose"`
	Language       string `json:"language" validate:"omitempty,oneof=en es"`
	LegislatorName string `json:"legislatorName"`
}

func CreateChatSessionHandler(chats *store.ChatStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createSessionRequest
		if len(c.Body()) > 0 {
			if err := parseBody(c, &req); err != nil {
				return writeError(c, err)
			}
		}

		session := chats.Create(model.ChatSession{UserID: req.UserID, Language: req.Language})
		return c.Status(fiber.StatusCreated).JSON(session)
	}
}

func ChatSessionHandler(chats *store.ChatStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := chats.Get(c.Params("id"))
		if !ok {
			return notFound(c, "chat session")
		}
		return c.JSON(session)
	}
}

// ChatHandler answers a message. With a session id the exchange is appended
// to that session and its transcript is given to the assistant as context.
func ChatHandler(chats *store.ChatStore, assistant *service.Assistant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		var history []model.ChatMessage
		if req.SessionID != "" {
			session, ok := chats.Get(req.SessionID)
			if !ok {
				return notFound(c, "chat session")
			}
			history = session.Messages
			if req.Language == "" {
				req.Language = session.Language
			}
		}

		res := assistant.Chat(c.UserContext(), history, req.Message, req.Language)

		if req.SessionID != "" {
			_, err := chats.AppendMessages(req.SessionID,
				model.ChatMessage{Role: "user", Content: req.Message},
				model.ChatMessage{Role: "assistant", Content: res.Data.Response},
			)
			if err != nil {
				return writeError(c, err)
			}
		}

		return c.JSON(fiber.Map{
			"response":   res.Data.Response,
			"confidence": res.Data.Confidence,
			"sources":    res.Data.Sources,
			"source":     res.Source,
		})
	}
}

func TranslateHandler(assistant *service.Assistant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req translateRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		res := assistant.Translate(c.UserContext(), req.Content, req.TargetLanguage, req.Context)
		return c.JSON(res.Data)
	}
}

func ContactTemplateHandler(assistant *service.Assistant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req contactTemplateRequest
		if err := parseBody(c, &req); err != nil {
			return writeError(c, err)
		}

		res := assistant.ContactTemplate(c.UserContext(), service.ContactRequest{
			BillTitle:      req.BillTitle,
			Position:       req.Position,
			Language:       req.Language,
			LegislatorName: req.LegislatorName,
		})
		return c.JSON(fiber.Map{"template": res.Data})
	}
}
