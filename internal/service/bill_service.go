package service

import (
	"context"

	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/store"
	"go.uber.org/zap"
)

// maxUpstreamPage is the largest page GovTrack is asked for
const maxUpstreamPage = 100

// BillListing is a page of bills plus where they came from
type BillListing struct {
	Bills  []model.Bill
	Total  int
	Source Source
	Reason string
}

// BillService merges GovTrack data into the bill table
type BillService struct {
	govtrack *GovTrackClient
	bills    *store.BillStore
	logger   *zap.Logger
}

// NewBillService creates a new BillService
func NewBillService(govtrack *GovTrackClient, bills *store.BillStore, logger *zap.Logger) *BillService {
	return &BillService{govtrack: govtrack, bills: bills, logger: logger}
}

// List serves a page of bills. Federal and unspecified jurisdictions refresh the
// table from GovTrack first; state and local bills are read straight from the table.
func (s *BillService) List(ctx context.Context, f store.BillFilter, limit, offset int) BillListing {
	limit, offset = store.NormalizePage(limit, offset, store.DefaultLimit)

	if f.Jurisdiction == model.State || f.Jurisdiction == model.Local {
		bills, total := s.bills.List(f, limit, offset)
		return BillListing{Bills: bills, Total: total, Source: SourceLive}
	}

	// GovTrack pages on its own ordering, so pull everything up to the end of the
	// requested window and let the table apply the offset.
	window := limit + offset
	if window > maxUpstreamPage {
		window = maxUpstreamPage
	}
	res := s.govtrack.Bills(ctx, BillQuery{Query: f.Query, Status: f.Status, Limit: window})

	if !res.IsFallback() {
		inserted := s.bills.UpsertMany(res.Data.Bills)
		s.logger.Debug("cached govtrack bills", zap.Int("fetched", len(res.Data.Bills)), zap.Int("new", inserted))
		bills, total := s.bills.List(f, limit, offset)
		return BillListing{Bills: bills, Total: total, Source: SourceLive}
	}

	// Previously cached bills beat the static set
	if bills, total := s.bills.List(f, limit, offset); total > 0 {
		return BillListing{Bills: bills, Total: total, Source: SourceFallback, Reason: res.Reason}
	}

	matched := make([]model.Bill, 0, len(res.Data.Bills))
	for _, b := range res.Data.Bills {
		if f.Match(b) {
			matched = append(matched, b)
		}
	}
	return BillListing{
		Bills:  store.Paginate(matched, limit, offset, store.DefaultLimit),
		Total:  len(matched),
		Source: SourceFallback,
		Reason: res.Reason,
	}
}

// Get returns a cached bill
func (s *BillService) Get(id string) (model.Bill, bool) {
	return s.bills.Get(id)
}

// Warm loads the most recent federal bills into the table
func (s *BillService) Warm(ctx context.Context, limit int) (fetched, inserted int, err error) {
	bills, _, err := s.govtrack.FetchBills(ctx, BillQuery{Limit: limit})
	if err != nil {
		return 0, 0, err
	}
	return len(bills), s.bills.UpsertMany(bills), nil
}
