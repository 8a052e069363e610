package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/jjenkins/civic/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBills(t *testing.T, s *BillStore, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		s.Upsert(model.Bill{
			ID:             fmt.Sprintf("bill-%02d", i),
			BillNumber:     fmt.Sprintf("H.R. %d", 100+i),
			Title:          fmt.Sprintf("Bill number %d", i),
			Status:         model.BillIntroduced,
			Jurisdiction:   model.Federal,
			LastActionDate: testEpoch.Add(time.Duration(i) * time.Hour),
			Categories:     []string{"budget"},
		})
	}
}

func TestBillStore_UpsertIsIdempotent(t *testing.T) {
	s := NewBillStore(newTestDB(t))
	bill := model.Bill{ID: "govtrack-1", Title: "Infrastructure Act", Status: model.BillCommittee, Categories: []string{"transport"}}

	first := s.Upsert(bill)
	second := s.Upsert(bill)

	assert.Equal(t, first, second)
	got, ok := s.Get("govtrack-1")
	require.True(t, ok)
	assert.Equal(t, first, got)

	_, total := s.List(BillFilter{}, 0, 0)
	assert.Equal(t, 1, total)
}

func TestBillStore_UpsertManyCountsNewRows(t *testing.T) {
	s := NewBillStore(newTestDB(t))
	bills := []model.Bill{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}

	assert.Equal(t, 2, s.UpsertMany(bills))
	assert.Equal(t, 0, s.UpsertMany(bills))
}

func TestBillStore_GetReturnsCopy(t *testing.T) {
	s := NewBillStore(newTestDB(t))
	s.Upsert(model.Bill{ID: "a", Categories: []string{"health"}})

	got, _ := s.Get("a")
	got.Categories[0] = "mutated"

	again, _ := s.Get("a")
	assert.Equal(t, []string{"health"}, again.Categories)
}

func TestBillStore_ListFilters(t *testing.T) {
	s := NewBillStore(newTestDB(t))
	s.Upsert(model.Bill{ID: "1", Title: "School Lunch Program", Status: model.BillPassedHouse, Jurisdiction: model.Federal, Categories: []string{"Education"}})
	s.Upsert(model.Bill{ID: "2", Title: "Highway Funding", Status: model.BillIntroduced, Jurisdiction: model.State, Categories: []string{"transport"}})
	s.Upsert(model.Bill{ID: "3", Title: "Library Hours", Summary: "extends school library access", Status: model.BillIntroduced, Jurisdiction: model.Local})

	tests := []struct {
		name   string
		filter BillFilter
		want   []string
	}{
		{"query matches title and summary", BillFilter{Query: "SCHOOL"}, []string{"1", "3"}},
		{"status", BillFilter{Status: model.BillIntroduced}, []string{"2", "3"}},
		{"jurisdiction", BillFilter{Jurisdiction: model.State}, []string{"2"}},
		{"category ignores case", BillFilter{Category: "education"}, []string{"1"}},
		{"all filters must match", BillFilter{Query: "school", Jurisdiction: model.State}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bills, total := s.List(tt.filter, 0, 0)
			var ids []string
			for _, b := range bills {
				ids = append(ids, b.ID)
			}
			assert.ElementsMatch(t, tt.want, ids)
			assert.Equal(t, len(tt.want), total)
		})
	}
}

func TestBillStore_ListPagesAreDisjoint(t *testing.T) {
	s := NewBillStore(newTestDB(t))
	seedBills(t, s, 25)

	page1, total := s.List(BillFilter{}, 10, 0)
	page2, _ := s.List(BillFilter{}, 10, 10)
	page3, _ := s.List(BillFilter{}, 10, 20)

	assert.Equal(t, 25, total)
	require.Len(t, page1, 10)
	require.Len(t, page2, 10)
	require.Len(t, page3, 5)

	// most recent action first
	assert.Equal(t, "bill-24", page1[0].ID)
	assert.Equal(t, "bill-14", page2[0].ID)

	seen := map[string]bool{}
	for _, page := range [][]model.Bill{page1, page2, page3} {
		for _, b := range page {
			assert.False(t, seen[b.ID], "bill %s appeared twice", b.ID)
			seen[b.ID] = true
		}
	}
}

func TestBillStore_ListDefaultsAndCap(t *testing.T) {
	s := NewBillStore(newTestDB(t))
	seedBills(t, s, 120)

	bills, total := s.List(BillFilter{}, 0, 0)
	assert.Len(t, bills, DefaultLimit)
	assert.Equal(t, 120, total)

	bills, _ = s.List(BillFilter{}, 1000, 0)
	assert.Len(t, bills, MaxLimit)

	bills, _ = s.List(BillFilter{}, 10, 500)
	assert.NotNil(t, bills)
	assert.Empty(t, bills)
}

func TestBillStore_Update(t *testing.T) {
	s := NewBillStore(newTestDB(t))
	created := s.Upsert(model.Bill{ID: "a", Title: "Old", Status: model.BillIntroduced})

	status := model.BillSigned
	updated, err := s.Update("a", model.BillPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.BillSigned, updated.Status)
	assert.Equal(t, "Old", updated.Title)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	bogus := model.BillStatus("tabled")
	_, err = s.Update("a", model.BillPatch{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	_, err = s.Update("missing", model.BillPatch{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBillStore_Delete(t *testing.T) {
	s := NewBillStore(newTestDB(t))
	s.Upsert(model.Bill{ID: "a"})

	require.NoError(t, s.Delete("a"))
	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.ErrorIs(t, s.Delete("a"), ErrNotFound)
}
