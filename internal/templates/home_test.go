package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/jjenkins/civic/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome(t *testing.T) {
	var buf bytes.Buffer
	err := Home(HomeMetrics{
		Engagement: store.Engagement{
			Counts:       store.Counts{Bills: 12, Users: 3},
			ActivePolls:  2,
			TopPoll:      "Parks & <Recreation>",
			TopPollVotes: 7,
		},
		Adapters: AdapterStatus{OpenAI: true, Feeds: 2},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<h1>Civic Engagement API</h1>")
	assert.Contains(t, html, `<tr><td>Bills tracked</td><td class="n">12</td></tr>`)
	assert.Contains(t, html, "Parks &amp; &lt;Recreation&gt;")
	assert.Contains(t, html, "(7 ballots)")
	assert.Contains(t, html, "NewsAPI: fallback data")
	assert.Contains(t, html, "OpenAI assistant: live")
	assert.Contains(t, html, "RSS feeds: 2")
	assert.Contains(t, html, "Metrics history: disabled")
}

func TestHome_NoTopPoll(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Home(HomeMetrics{}).Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "Most popular poll")
}
