package store

import "github.com/jjenkins/civic/internal/model"

// Engagement summarizes resident participation across the tables
type Engagement struct {
	Counts
	ActivePolls      int    `json:"activePolls"`
	OpenFeedback     int    `json:"openFeedback"`
	UpcomingEvents   int    `json:"upcomingEvents"`
	ConfirmedRsvps   int    `json:"confirmedRsvps"`
	WaitlistedRsvps  int    `json:"waitlistedRsvps"`
	TopPoll          string `json:"topPoll,omitempty"`
	TopPollVotes     int    `json:"topPollVotes"`
	TopFeedback      string `json:"topFeedback,omitempty"`
	TopFeedbackScore int    `json:"topFeedbackScore"`
}

// Engagement computes participation figures in one consistent read
func (db *DB) Engagement() Engagement {
	counts := db.Counts()

	db.mu.RLock()
	defer db.mu.RUnlock()

	now := db.now()
	e := Engagement{Counts: counts}

	ballots := make(map[string]int)
	for _, r := range db.pollVotes.rows {
		ballots[r.val.PollID]++
	}
	for _, r := range db.polls.scan(nil) {
		if r.Open(now) {
			e.ActivePolls++
		}
		if n := ballots[r.ID]; n > e.TopPollVotes {
			e.TopPoll, e.TopPollVotes = r.Title, n
		}
	}

	first := true
	for _, fb := range db.feedback.scan(nil) {
		if fb.Status == model.FeedbackOpen {
			e.OpenFeedback++
		}
		if score := fb.Upvotes - fb.Downvotes; first || score > e.TopFeedbackScore {
			e.TopFeedback, e.TopFeedbackScore = fb.Title, score
			first = false
		}
	}

	for _, r := range db.events.rows {
		if r.val.Date.After(now) {
			e.UpcomingEvents++
		}
	}
	for _, r := range db.rsvps.rows {
		switch r.val.Status {
		case model.RsvpConfirmed:
			e.ConfirmedRsvps++
		case model.RsvpWaitlist:
			e.WaitlistedRsvps++
		}
	}
	return e
}
