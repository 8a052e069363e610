package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jjenkins/civic/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestDB returns a DB whose clock advances one second per reading and whose
// ids are sequential, so ordering assertions are deterministic.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	var mu sync.Mutex
	now := testEpoch
	n := 0
	return NewDB(
		WithClock(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(time.Second)
			return now
		}),
		WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("id-%03d", n)
		}),
	)
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		name   string
		limit  int
		offset int
		want   []int
	}{
		{"first page", 3, 0, []int{0, 1, 2}},
		{"middle page", 3, 3, []int{3, 4, 5}},
		{"short last page", 3, 9, []int{9}},
		{"offset past end", 3, 10, []int{}},
		{"negative offset", 2, -5, []int{0, 1}},
		{"zero limit uses default", 0, 0, items},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(items, tt.limit, tt.offset, DefaultLimit))
		})
	}
}

func TestNormalizePage(t *testing.T) {
	limit, offset := NormalizePage(500, -1, DefaultLimit)
	assert.Equal(t, MaxLimit, limit)
	assert.Equal(t, 0, offset)

	limit, _ = NormalizePage(-3, 0, DefaultLegislatorLimit)
	assert.Equal(t, DefaultLegislatorLimit, limit)
}

func TestTableKeepsInsertionOrder(t *testing.T) {
	tbl := newTable[string]()
	assert.True(t, tbl.put("c", "third"))
	assert.True(t, tbl.put("a", "first"))
	assert.True(t, tbl.put("b", "second"))

	// replacing keeps the original slot
	assert.False(t, tbl.put("c", "THIRD"))

	assert.Equal(t, []string{"THIRD", "first", "second"}, tbl.scan(nil))
	assert.True(t, tbl.remove("a"))
	assert.False(t, tbl.remove("a"))
	assert.Equal(t, []string{"THIRD", "second"}, tbl.scan(nil))
}

func TestCounts(t *testing.T) {
	db := newTestDB(t)
	stores := NewStores(db)

	stores.Bills.Upsert(model.Bill{ID: "b1", Title: "Clean Water Act"})
	_, err := stores.Polls.Create(model.Poll{Title: "Park hours", Options: []string{"Later", "Same"}, IsActive: true})
	require.NoError(t, err)
	stores.Chats.Create(model.ChatSession{})

	counts := db.Counts()
	assert.Equal(t, 1, counts.Bills)
	assert.Equal(t, 1, counts.Polls)
	assert.Equal(t, 1, counts.ChatSessions)
	assert.Equal(t, 0, counts.PollVotes)
}
