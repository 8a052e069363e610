package store

import (
	"testing"
	"time"

	"github.com/jjenkins/civic/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsStore_ListNewestFirst(t *testing.T) {
	s := NewNewsStore(newTestDB(t))
	s.UpsertMany([]model.NewsArticle{
		{ID: "old", Title: "Council approves budget", Category: model.NewsLocal, Location: "Santa Fe, NM", PublishedAt: testEpoch},
		{ID: "new", Title: "Senate passes bill", Category: model.NewsNational, PublishedAt: testEpoch.Add(time.Hour)},
		{ID: "mid", Title: "Explaining the budget", Category: model.NewsExplainer, PublishedAt: testEpoch.Add(time.Minute)},
	})

	all, total := s.List(NewsFilter{}, 0, 0)
	require.Len(t, all, 3)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{all[0].ID, all[1].ID, all[2].ID})

	budget, _ := s.List(NewsFilter{Query: "BUDGET"}, 0, 0)
	assert.Len(t, budget, 2)

	local, _ := s.List(NewsFilter{Location: "santa fe"}, 0, 0)
	require.Len(t, local, 1)
	assert.Equal(t, "old", local[0].ID)

	national, _ := s.List(NewsFilter{Category: model.NewsNational}, 0, 0)
	require.Len(t, national, 1)
	assert.Equal(t, "new", national[0].ID)
}

func TestNewsStore_UpsertAndDelete(t *testing.T) {
	s := NewNewsStore(newTestDB(t))
	a := model.NewsArticle{ID: "a", Title: "Story", PublishedAt: testEpoch}

	assert.Equal(t, 1, s.UpsertMany([]model.NewsArticle{a}))
	assert.Equal(t, 0, s.UpsertMany([]model.NewsArticle{a}))

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, a, got)

	require.NoError(t, s.Delete("a"))
	assert.ErrorIs(t, s.Delete("a"), ErrNotFound)
}
