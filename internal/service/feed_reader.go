package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/jjenkins/civic/internal/config"
	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/telemetry"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const adapterRSS = "rss"

// FeedReader serves local news from the configured RSS feeds
type FeedReader struct {
	feeds   []config.FeedConfig
	parser  *gofeed.Parser
	text    *Parser
	cache   *cache.Cache
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewFeedReader creates a FeedReader over feeds
func NewFeedReader(feeds []config.FeedConfig, text *Parser, c *cache.Cache, logger *zap.Logger, metrics *telemetry.Metrics) *FeedReader {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 15 * time.Second}
	parser.UserAgent = "civic-feed-reader/1.0"

	return &FeedReader{
		feeds:   feeds,
		parser:  parser,
		text:    text,
		cache:   c,
		logger:  logger.Named(adapterRSS),
		metrics: metrics,
	}
}

// Local returns articles from every feed, newest first. When location is set,
// only items whose feed location, title or description mention it are kept.
// A feed that fails is skipped; if all of them fail the fallback set is served.
func (r *FeedReader) Local(ctx context.Context, location string) Result[[]model.NewsArticle] {
	if len(r.feeds) == 0 {
		r.metrics.AdapterCall(adapterRSS, string(SourceFallback))
		return Fallback(fallbackNews(), "no feeds configured")
	}

	var (
		articles []model.NewsArticle
		failures []string
	)
	for _, f := range r.feeds {
		items, err := r.fetchFeed(ctx, f)
		if err != nil {
			r.logger.Warn("failed to read feed", zap.String("feed", f.Name), zap.Error(err))
			failures = append(failures, f.Name)
			continue
		}
		articles = append(articles, items...)
	}

	if len(failures) == len(r.feeds) {
		r.metrics.AdapterCall(adapterRSS, string(SourceFallback))
		return Fallback(fallbackNews(), fmt.Sprintf("all feeds failed: %s", strings.Join(failures, ", ")))
	}

	if location != "" {
		loc := strings.ToLower(location)
		kept := articles[:0]
		for _, a := range articles {
			if strings.Contains(strings.ToLower(a.Location+" "+a.Title+" "+a.Description), loc) {
				kept = append(kept, a)
			}
		}
		articles = kept
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})

	r.metrics.AdapterCall(adapterRSS, string(SourceLive))
	if articles == nil {
		articles = []model.NewsArticle{}
	}
	return Live(articles)
}

// fetchFeed parses one feed, consulting the response cache first
func (r *FeedReader) fetchFeed(ctx context.Context, f config.FeedConfig) ([]model.NewsArticle, error) {
	key := "rss:" + f.URL
	if cached, ok := r.cache.Get(key); ok {
		return cached.([]model.NewsArticle), nil
	}

	feed, err := r.parser.ParseURLWithContext(f.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", f.URL, err)
	}

	source := f.Name
	if source == "" {
		source = feed.Title
	}

	articles := make([]model.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if a, ok := r.convertItem(item, source, f.Location); ok {
			articles = append(articles, a)
		}
	}

	r.cache.SetDefault(key, articles)
	return articles, nil
}

// convertItem maps a feed item to an article; items without a link or date are dropped
func (r *FeedReader) convertItem(item *gofeed.Item, source, location string) (model.NewsArticle, bool) {
	var publishedAt time.Time
	switch {
	case item.PublishedParsed != nil:
		publishedAt = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		publishedAt = *item.UpdatedParsed
	default:
		return model.NewsArticle{}, false
	}
	if item.Link == "" {
		return model.NewsArticle{}, false
	}

	description := r.text.Clean(item.Description)
	content := r.text.Clean(item.Content)
	if description == "" && content != "" {
		description = excerpt(content, 500)
	}

	a := model.NewsArticle{
		ID:          "rss-" + Checksum(item.Link)[:16],
		Title:       item.Title,
		Description: description,
		Content:     content,
		URL:         item.Link,
		Source:      source,
		Category:    model.NewsLocal,
		Location:    location,
		PublishedAt: publishedAt.UTC(),
	}
	if item.Image != nil {
		a.ImageURL = item.Image.URL
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		a.Author = item.Authors[0].Name
	}
	return a, true
}
