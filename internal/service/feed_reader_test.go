package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jjenkins/civic/internal/config"
	"github.com/jjenkins/civic/internal/model"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const rssTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>%[1]s</title>
	<link>https://example.com</link>
	<description>Local news</description>
	<item>
		<title>%[1]s council approves budget</title>
		<link>https://example.com/%[2]s/budget</link>
		<description>&lt;p&gt;The council voted 5-2.&lt;/p&gt;</description>
		<pubDate>Mon, 03 Mar 2025 10:00:00 GMT</pubDate>
	</item>
	<item>
		<title>%[1]s library extends hours</title>
		<link>https://example.com/%[2]s/library</link>
		<description>Open until 9pm on weekdays.</description>
		<pubDate>Tue, 04 Mar 2025 10:00:00 GMT</pubDate>
	</item>
	<item>
		<title>Undated item</title>
		<link>https://example.com/%[2]s/undated</link>
	</item>
</channel>
</rss>`

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/springfield.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, rssTemplate, "Springfield", "springfield")
	})
	mux.HandleFunc("/shelbyville.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, rssTemplate, "Shelbyville", "shelbyville")
	})
	mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestFeedReader(feeds []config.FeedConfig) *FeedReader {
	return NewFeedReader(feeds, NewParser(), cache.New(time.Minute, time.Minute), zap.NewNop(), nil)
}

func TestFeedReader_Local(t *testing.T) {
	srv := feedServer(t)
	r := newTestFeedReader([]config.FeedConfig{
		{Name: "Springfield Gazette", URL: srv.URL + "/springfield.xml", Location: "Springfield"},
		{Name: "Shelbyville Times", URL: srv.URL + "/shelbyville.xml", Location: "Shelbyville"},
		{Name: "Broken", URL: srv.URL + "/broken.xml"},
	})

	res := r.Local(context.Background(), "")
	require.False(t, res.IsFallback())
	require.Len(t, res.Data, 4)
	for i := 1; i < len(res.Data); i++ {
		assert.False(t, res.Data[i].PublishedAt.After(res.Data[i-1].PublishedAt))
	}

	a := res.Data[0]
	assert.Equal(t, model.NewsLocal, a.Category)
	assert.Contains(t, a.Title, "library extends hours")
	assert.Equal(t, "rss-"+Checksum(a.URL)[:16], a.ID)

	filtered := r.Local(context.Background(), "shelbyville")
	require.False(t, filtered.IsFallback())
	require.Len(t, filtered.Data, 2)
	for _, a := range filtered.Data {
		assert.Equal(t, "Shelbyville Times", a.Source)
		assert.Equal(t, "Shelbyville", a.Location)
	}

	none := r.Local(context.Background(), "Ogdenville")
	assert.False(t, none.IsFallback())
	assert.NotNil(t, none.Data)
	assert.Empty(t, none.Data)
}

func TestFeedReader_CleansDescriptions(t *testing.T) {
	srv := feedServer(t)
	r := newTestFeedReader([]config.FeedConfig{{Name: "Springfield Gazette", URL: srv.URL + "/springfield.xml"}})

	res := r.Local(context.Background(), "budget")
	require.Len(t, res.Data, 1)
	assert.Contains(t, res.Data[0].Description, "The council voted")
	assert.NotContains(t, res.Data[0].Description, "<p>")
}

func TestFeedReader_Fallbacks(t *testing.T) {
	t.Run("no feeds", func(t *testing.T) {
		res := newTestFeedReader(nil).Local(context.Background(), "")
		assert.True(t, res.IsFallback())
		assert.Equal(t, fallbackNews(), res.Data)
	})

	t.Run("all feeds failing", func(t *testing.T) {
		srv := feedServer(t)
		res := newTestFeedReader([]config.FeedConfig{{Name: "Broken", URL: srv.URL + "/broken.xml"}}).Local(context.Background(), "")
		assert.True(t, res.IsFallback())
		assert.Contains(t, res.Reason, "Broken")
	})
}
