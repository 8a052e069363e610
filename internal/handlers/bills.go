package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/service"
	"github.com/jjenkins/civic/internal/store"
)

type billsResponse struct {
	Bills  []model.Bill   `json:"bills"`
	Total  int            `json:"total"`
	Source service.Source `json:"source"`
	Reason string         `json:"reason,omitempty"`
}

func BillsHandler(bills *service.BillService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		jurisdiction := model.Jurisdiction(c.Query("jurisdiction"))
		if jurisdiction != "" && !jurisdiction.Valid() {
			return badRequest(c, "jurisdiction must be one of federal, state, local")
		}
		status := model.BillStatus(c.Query("status"))
		if status != "" && !status.Valid() {
			return badRequest(c, "unknown bill status")
		}

		filter := store.BillFilter{
			Query:        c.Query("query"),
			Status:       status,
			Jurisdiction: jurisdiction,
			Category:     c.Query("category"),
		}
		limit, offset := pageParams(c)

		listing := bills.List(c.UserContext(), filter, limit, offset)
		return c.JSON(billsResponse{
			Bills:  listing.Bills,
			Total:  listing.Total,
			Source: listing.Source,
			Reason: listing.Reason,
		})
	}
}

func BillDetailHandler(bills *store.BillStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bill, ok := bills.Get(c.Params("id"))
		if !ok {
			return notFound(c, "bill")
		}
		return c.JSON(bill)
	}
}

func UpdateBillHandler(bills *store.BillStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch model.BillPatch
		if err := c.BodyParser(&patch); err != nil {
			return badRequest(c, "invalid request body")
		}

		bill, err := bills.Update(c.Params("id"), patch)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(bill)
	}
}

// BillSummaryHandler returns a plain-language summary of a cached bill
func BillSummaryHandler(bills *store.BillStore, assistant *service.Assistant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bill, ok := bills.Get(c.Params("id"))
		if !ok {
			return notFound(c, "bill")
		}

		text := bill.Title
		if bill.Summary != "" {
			text += "\n\n" + bill.Summary
		}
		language := c.Query("language", "en")

		res := assistant.Summarize(c.UserContext(), text, language)
		return c.JSON(fiber.Map{
			"billId":   bill.ID,
			"summary":  res.Data,
			"language": language,
			"source":   res.Source,
		})
	}
}
