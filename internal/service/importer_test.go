package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jjenkins/civic/internal/config"
	"github.com/jjenkins/civic/internal/store"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestImporter_Import(t *testing.T) {
	gt := newTestGovTrack(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bill":
			w.Write([]byte(billsJSON))
		case "/role":
			if r.URL.Query().Get("state") == "TX" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"objects": [{"person": {"id": 1, "name": "Sen. A"}, "state": "CA", "role_type": "senator"}]}`))
		}
	})
	srv := feedServer(t)

	stores := store.NewStores(store.NewDB())
	c := cache.New(time.Minute, time.Minute)
	news := NewNewsService(
		NewNewsClient(config.NewsAPIConfig{}, NewParser(), c, zap.NewNop(), nil),
		NewFeedReader([]config.FeedConfig{{Name: "Springfield", URL: srv.URL + "/springfield.xml"}}, NewParser(), c, zap.NewNop(), nil),
		stores.News,
	)
	imp := NewImporter(
		NewBillService(gt, stores.Bills, zap.NewNop()),
		NewLegislatorService(gt, stores.Legislators, zap.NewNop()),
		news,
		zap.NewNop(),
	)

	stats, err := imp.Import(context.Background(), ImportOptions{BillLimit: 10, States: []string{"ca", "TX", "California"}})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Sources)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 2+1+2, stats.Fetched)
	assert.Equal(t, 5, stats.Inserted)
	assert.Zero(t, stats.Refreshed)

	counts := stores.DB.Counts()
	assert.Equal(t, 2, counts.Bills)
	assert.Equal(t, 1, counts.Legislators)
	assert.Equal(t, 2, counts.NewsArticles)

	// a second run refreshes rather than inserts
	stats, err = imp.Import(context.Background(), ImportOptions{BillLimit: 10, SkipNews: true})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Refreshed)
	assert.Zero(t, stats.Inserted)
	imp.PrintSummary(stats)
}

func TestImporter_Cancelled(t *testing.T) {
	gt := newTestGovTrack(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(billsJSON))
	})
	stores := store.NewStores(store.NewDB())
	imp := NewImporter(NewBillService(gt, stores.Bills, zap.NewNop()), NewLegislatorService(gt, stores.Legislators, zap.NewNop()), nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := imp.Import(ctx, ImportOptions{States: []string{"CA"}, SkipNews: true})
	assert.ErrorIs(t, err, context.Canceled)
}
