package templates

import "github.com/jjenkins/civic/internal/store"

// AdapterStatus records which upstream integrations are configured
type AdapterStatus struct {
	NewsAPI      bool
	OpenAI       bool
	Feeds        int
	MetricsStore bool
}

// HomeMetrics is the data shown on the status page
type HomeMetrics struct {
	Engagement store.Engagement
	Adapters   AdapterStatus
}

type statRow struct {
	Label string
	Value int
}

func participationRows(e store.Engagement) []statRow {
	return []statRow{
		{"Bills tracked", e.Bills},
		{"Legislators", e.Legislators},
		{"News articles", e.NewsArticles},
		{"Active polls", e.ActivePolls},
		{"Poll ballots", e.PollVotes},
		{"Open feedback", e.OpenFeedback},
		{"Upcoming events", e.UpcomingEvents},
		{"Confirmed RSVPs", e.ConfirmedRsvps},
		{"Registered users", e.Users},
	}
}

func mode(live bool) string {
	if live {
		return "live"
	}
	return "fallback data"
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
