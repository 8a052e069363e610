package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jjenkins/civic/internal/store"
	"github.com/jjenkins/civic/internal/telemetry"
	"go.uber.org/zap"
)

// ErrNoMetricsSink is returned by history queries when no database is configured
var ErrNoMetricsSink = errors.New("metrics database not configured")

// MetricsService calculates engagement metrics, publishes them to Prometheus
// and, when a sink is configured, records their history in Postgres
type MetricsService struct {
	db      *store.DB
	sink    *store.MetricsStore
	metrics *telemetry.Metrics
	logger  *zap.Logger
}

// NewMetricsService creates a new MetricsService. sink may be nil.
func NewMetricsService(db *store.DB, sink *store.MetricsStore, metrics *telemetry.Metrics, logger *zap.Logger) *MetricsService {
	return &MetricsService{db: db, sink: sink, metrics: metrics, logger: logger.Named("metrics")}
}

// HasSink reports whether metric history is persisted
func (m *MetricsService) HasSink() bool {
	return m.sink != nil
}

// Current returns the live engagement figures and refreshes the row gauges
func (m *MetricsService) Current() store.Engagement {
	e := m.db.Engagement()
	for table, n := range tableRows(e.Counts) {
		m.metrics.SetTableRows(table, n)
	}
	return e
}

// CalculateAndStore calculates engagement metrics and stores the changed ones
func (m *MetricsService) CalculateAndStore(ctx context.Context) (store.Engagement, error) {
	e := m.Current()
	if m.sink == nil {
		return e, nil
	}

	written, err := m.sink.SaveSnapshot(ctx, metricValues(e), time.Now().UTC())
	if err != nil {
		return e, err
	}
	m.logger.Debug("stored engagement metrics", zap.Int("changed", written))
	return e, nil
}

// Latest retrieves the most recently stored value of every metric. Without a
// sink it reports the current values.
func (m *MetricsService) Latest(ctx context.Context) (map[string]string, error) {
	if m.sink == nil {
		return metricValues(m.Current()), nil
	}
	return m.sink.Latest(ctx)
}

// History retrieves stored values of one metric, newest first
func (m *MetricsService) History(ctx context.Context, name string, limit int) ([]store.MetricPoint, error) {
	if m.sink == nil {
		return nil, ErrNoMetricsSink
	}
	return m.sink.History(ctx, name, limit)
}

// Run recalculates metrics every interval until ctx is done
func (m *MetricsService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := m.CalculateAndStore(ctx); err != nil && ctx.Err() == nil {
			m.logger.Warn("failed to store engagement metrics", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func tableRows(c store.Counts) map[string]int {
	return map[string]int{
		"bills":          c.Bills,
		"legislators":    c.Legislators,
		"news":           c.NewsArticles,
		"polls":          c.Polls,
		"poll_votes":     c.PollVotes,
		"feedback":       c.Feedback,
		"feedback_votes": c.FeedbackVotes,
		"comments":       c.Comments,
		"events":         c.Events,
		"rsvps":          c.Rsvps,
		"users":          c.Users,
		"bookmarks":      c.Bookmarks,
		"chat_sessions":  c.ChatSessions,
	}
}

func metricValues(e store.Engagement) map[string]string {
	values := map[string]string{
		"active_polls":       strconv.Itoa(e.ActivePolls),
		"open_feedback":      strconv.Itoa(e.OpenFeedback),
		"upcoming_events":    strconv.Itoa(e.UpcomingEvents),
		"confirmed_rsvps":    strconv.Itoa(e.ConfirmedRsvps),
		"waitlisted_rsvps":   strconv.Itoa(e.WaitlistedRsvps),
		"top_poll":           e.TopPoll,
		"top_poll_votes":     strconv.Itoa(e.TopPollVotes),
		"top_feedback":       e.TopFeedback,
		"top_feedback_score": strconv.Itoa(e.TopFeedbackScore),
	}
	for table, n := range tableRows(e.Counts) {
		values["total_"+table] = strconv.Itoa(n)
	}
	return values
}
