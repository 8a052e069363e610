package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jjenkins/civic/internal/config"
	"github.com/jjenkins/civic/internal/model"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const newsJSON = `{
	"status": "ok",
	"totalResults": 42,
	"articles": [
		{
			"source": {"name": "Capitol Wire"},
			"author": "R. Reporter",
			"title": "Senate passes infrastructure bill",
			"description": "<p>The Senate voted <b>69-30</b> on Tuesday.</p>",
			"url": "https://example.com/senate-infrastructure",
			"urlToImage": "https://example.com/img.jpg",
			"publishedAt": "2025-03-04T15:30:00Z",
			"content": "Full text"
		},
		{
			"source": {"name": "Removed"},
			"title": "[Removed]",
			"url": "https://removed.com"
		}
	]
}`

func newTestNewsClient(t *testing.T, key string, handler http.HandlerFunc) *NewsClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.NewsAPIConfig{APIKey: config.Secret(key), BaseURL: srv.URL, Country: "us", Timeout: 5 * time.Second}
	c := NewNewsClient(cfg, NewParser(), cache.New(time.Minute, time.Minute), zap.NewNop(), nil)
	c.fetch.backoff = time.Millisecond
	return c
}

func TestNewsClient_NoAPIKey(t *testing.T) {
	var hits atomic.Int32
	c := newTestNewsClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	res := c.Search(context.Background(), NewsQuery{Query: "budget"})
	assert.True(t, res.IsFallback())
	assert.Equal(t, reasonNoAPIKey, res.Reason)
	assert.NotEmpty(t, res.Data.Articles)
	assert.Zero(t, hits.Load())
}

func TestNewsClient_Search(t *testing.T) {
	c := newTestNewsClient(t, "secret-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "budget AND local", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
		w.Write([]byte(newsJSON))
	})

	res := c.Search(context.Background(), NewsQuery{Query: "budget", Category: model.NewsLocal, PageSize: 10})
	require.False(t, res.IsFallback())
	assert.Equal(t, 42, res.Data.Total)
	require.Len(t, res.Data.Articles, 1)

	a := res.Data.Articles[0]
	assert.Equal(t, "newsapi-"+Checksum("https://example.com/senate-infrastructure")[:16], a.ID)
	assert.Equal(t, model.NewsLocal, a.Category)
	assert.Equal(t, "Capitol Wire", a.Source)
	assert.Contains(t, a.Description, "69-30")
	assert.NotContains(t, a.Description, "<p>")
	assert.Equal(t, time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC), a.PublishedAt)
}

func TestNewsClient_DefaultQuery(t *testing.T) {
	c := newTestNewsClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, civicQuery, r.URL.Query().Get("q"))
		w.Write([]byte(newsJSON))
	})

	res := c.Search(context.Background(), NewsQuery{})
	require.False(t, res.IsFallback())
	assert.Equal(t, model.NewsNational, res.Data.Articles[0].Category)
}

func TestNewsClient_Breaking(t *testing.T) {
	c := newTestNewsClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/top-headlines", r.URL.Path)
		assert.Equal(t, "us", r.URL.Query().Get("country"))
		w.Write([]byte(newsJSON))
	})

	res := c.Search(context.Background(), NewsQuery{Category: model.NewsBreaking})
	require.False(t, res.IsFallback())
	require.Len(t, res.Data.Articles, 1)
	assert.Equal(t, model.NewsBreaking, res.Data.Articles[0].Category)
	assert.Equal(t, 1, res.Data.Total)
}

func TestNewsClient_ErrorResponses(t *testing.T) {
	t.Run("api error body", func(t *testing.T) {
		c := newTestNewsClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "error", "code": "apiKeyInvalid", "message": "Your API key is invalid"}`))
		})
		res := c.Breaking(context.Background())
		assert.True(t, res.IsFallback())
		assert.Contains(t, res.Reason, "apiKeyInvalid")
	})

	t.Run("unauthorized", func(t *testing.T) {
		c := newTestNewsClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		res := c.Breaking(context.Background())
		assert.True(t, res.IsFallback())
		assert.Contains(t, res.Reason, "rejected")
		assert.Equal(t, fallbackNews(), res.Data)
	})
}
