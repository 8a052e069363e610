package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/civic/internal/service"
	"github.com/jjenkins/civic/internal/store"
	"github.com/jjenkins/civic/internal/telemetry"
)

// Deps is everything the route layer reads from or writes to
type Deps struct {
	Stores      *store.Stores
	Bills       *service.BillService
	Legislators *service.LegislatorService
	News        *service.NewsService
	Assistant   *service.Assistant
	Engagement  *service.MetricsService
	Telemetry   *telemetry.Metrics
}

// RegisterRoutes mounts the JSON API on r, normally the /api group
func RegisterRoutes(r fiber.Router, d *Deps) {
	s := d.Stores

	r.Get("/bills", BillsHandler(d.Bills))
	r.Get("/bills/:id", BillDetailHandler(s.Bills))
	r.Patch("/bills/:id", UpdateBillHandler(s.Bills))
	r.Get("/bills/:id/summary", BillSummaryHandler(s.Bills, d.Assistant))

	r.Get("/legislators", LegislatorsHandler(d.Legislators))
	r.Get("/legislators/:id", LegislatorDetailHandler(d.Legislators))

	r.Get("/news", NewsHandler(d.News))
	r.Get("/news/breaking", BreakingNewsHandler(d.News))
	r.Get("/news/local", LocalNewsHandler(d.News))

	r.Post("/chat/sessions", CreateChatSessionHandler(s.Chats))
	r.Get("/chat/sessions/:id", ChatSessionHandler(s.Chats))
	r.Post("/chat", ChatHandler(s.Chats, d.Assistant))
	r.Post("/translate", TranslateHandler(d.Assistant))
	r.Post("/contact-template", ContactTemplateHandler(d.Assistant))

	r.Get("/polls", PollsHandler(s.Polls))
	r.Post("/polls", CreatePollHandler(s.Polls))
	r.Get("/polls/:id", PollHandler(s.Polls))
	r.Patch("/polls/:id", UpdatePollHandler(s.Polls))
	r.Delete("/polls/:id", DeletePollHandler(s.Polls))
	r.Get("/polls/:id/results", PollResultsHandler(s.Polls))
	r.Post("/polls/:id/vote", VotePollHandler(s.Polls, d.Telemetry))

	r.Get("/feedback", FeedbackListHandler(s.Feedback))
	r.Post("/feedback", CreateFeedbackHandler(s.Feedback))
	r.Get("/feedback/:id", FeedbackHandler(s.Feedback))
	r.Patch("/feedback/:id", UpdateFeedbackHandler(s.Feedback))
	r.Post("/feedback/:id/vote", VoteFeedbackHandler(s.Feedback, d.Telemetry))
	r.Get("/feedback/:id/comments", CommentsHandler(s.Feedback))
	r.Post("/feedback/:id/comments", CreateCommentHandler(s.Feedback))

	r.Get("/events", EventsHandler(s.Events))
	r.Post("/events", CreateEventHandler(s.Events))
	r.Get("/events/:id", EventHandler(s.Events))
	r.Patch("/events/:id", UpdateEventHandler(s.Events))
	r.Delete("/events/:id", DeleteEventHandler(s.Events))
	r.Get("/events/:id/rsvps", RSVPsHandler(s.Events))
	r.Post("/events/:id/rsvp", RSVPHandler(s.Events, d.Telemetry))
	r.Delete("/events/:id/rsvp/:rsvpId", CancelRSVPHandler(s.Events, d.Telemetry))

	r.Post("/users", CreateUserHandler(s.Users))
	r.Get("/users/:id", UserHandler(s.Users))
	r.Patch("/users/:id", UpdateUserHandler(s.Users))
	r.Get("/users/:id/bookmarks", BookmarksHandler(s.Users))
	r.Post("/users/:id/bookmarks", CreateBookmarkHandler(s.Users))
	r.Delete("/users/:id/bookmarks/:bookmarkId", DeleteBookmarkHandler(s.Users))

	r.Get("/engagement", EngagementHandler(d.Engagement))
	r.Get("/engagement/history", EngagementHistoryHandler(d.Engagement))
}
