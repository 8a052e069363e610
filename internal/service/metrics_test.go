package service

import (
	"context"
	"testing"

	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/store"
	"github.com/jjenkins/civic/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsService_WithoutSink(t *testing.T) {
	stores := store.NewStores(store.NewDB())
	_, err := stores.Polls.Create(model.Poll{Title: "Extend library hours?", Options: []string{"Yes", "No"}, IsActive: true})
	require.NoError(t, err)
	stores.Bills.Upsert(model.Bill{ID: "b1", Title: "Bill"})

	tm := telemetry.New()
	m := NewMetricsService(stores.DB, nil, tm, zap.NewNop())
	assert.False(t, m.HasSink())

	e, err := m.CalculateAndStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, e.ActivePolls)
	count, err := testutil.GatherAndCount(tm.Registry(), "civic_store_rows")
	require.NoError(t, err)
	assert.Equal(t, 13, count)

	latest, err := m.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", latest["total_polls"])
	assert.Equal(t, "1", latest["active_polls"])

	_, err = m.History(context.Background(), "total_polls", 10)
	assert.ErrorIs(t, err, ErrNoMetricsSink)
}
