package service

import (
	"context"

	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/store"
	"go.uber.org/zap"
)

// LegislatorListing is a page of legislators plus where they came from
type LegislatorListing struct {
	Legislators []model.Legislator
	Source      Source
	Reason      string
}

// LegislatorService merges GovTrack roles into the legislator table
type LegislatorService struct {
	govtrack    *GovTrackClient
	legislators *store.LegislatorStore
	logger      *zap.Logger
}

// NewLegislatorService creates a new LegislatorService
func NewLegislatorService(govtrack *GovTrackClient, legislators *store.LegislatorStore, logger *zap.Logger) *LegislatorService {
	return &LegislatorService{govtrack: govtrack, legislators: legislators, logger: logger}
}

// List returns current legislators for a state and optional district
func (s *LegislatorService) List(ctx context.Context, state, district string, limit int) LegislatorListing {
	res := s.govtrack.Legislators(ctx, state, district, limit)
	if res.IsFallback() {
		return LegislatorListing{Legislators: store.Paginate(res.Data, limit, 0, store.DefaultLegislatorLimit), Source: SourceFallback, Reason: res.Reason}
	}

	s.legislators.UpsertMany(res.Data)
	legislators, _ := s.legislators.List(store.LegislatorFilter{State: state, District: district}, limit, 0)
	return LegislatorListing{Legislators: legislators, Source: SourceLive}
}

// Get returns a cached legislator
func (s *LegislatorService) Get(id string) (model.Legislator, bool) {
	return s.legislators.Get(id)
}

// Warm loads the delegation of each state into the table
func (s *LegislatorService) Warm(ctx context.Context, states []string) (fetched, inserted int, err error) {
	for _, st := range states {
		legislators, err := s.govtrack.FetchLegislators(ctx, st, "", 0)
		if err != nil {
			return fetched, inserted, err
		}
		fetched += len(legislators)
		inserted += s.legislators.UpsertMany(legislators)
	}
	return fetched, inserted, nil
}
