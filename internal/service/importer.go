package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ImportStats tracks import statistics
type ImportStats struct {
	Sources   int
	Fetched   int
	Inserted  int
	Refreshed int
	Skipped   int
	Failed    int
}

func (s *ImportStats) add(fetched, inserted int) {
	s.Fetched += fetched
	s.Inserted += inserted
	s.Refreshed += fetched - inserted
}

// ImportOptions selects what an import run loads
type ImportOptions struct {
	BillLimit int
	States    []string
	SkipNews  bool
}

// Importer warms the in-memory tables from the upstream APIs
type Importer struct {
	bills       *BillService
	legislators *LegislatorService
	news        *NewsService
	logger      *zap.SugaredLogger
}

// NewImporter creates a new Importer
func NewImporter(bills *BillService, legislators *LegislatorService, news *NewsService, logger *zap.Logger) *Importer {
	return &Importer{
		bills:       bills,
		legislators: legislators,
		news:        news,
		logger:      logger.Named("import").Sugar(),
	}
}

// Import loads recent federal bills, each state's delegation and current news.
// A failing source is counted and skipped; only cancellation aborts the run.
func (i *Importer) Import(ctx context.Context, opts ImportOptions) (*ImportStats, error) {
	stats := &ImportStats{}
	if opts.BillLimit <= 0 {
		opts.BillLimit = maxUpstreamPage
	}

	i.logger.Infof("Fetching up to %d federal bills from GovTrack...", opts.BillLimit)
	stats.Sources++
	fetched, inserted, err := i.bills.Warm(ctx, opts.BillLimit)
	if err != nil {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		i.logger.Errorf("Failed to import bills: %v", err)
		stats.Failed++
	} else {
		i.logger.Infof("  %d bills (%d new)", fetched, inserted)
		stats.add(fetched, inserted)
	}

	for idx, st := range opts.States {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		progress := fmt.Sprintf("[%d/%d]", idx+1, len(opts.States))
		st = strings.ToUpper(strings.TrimSpace(st))
		if len(st) != 2 {
			i.logger.Infof("%s Skipping state %q (not a postal code)", progress, st)
			stats.Skipped++
			continue
		}

		i.logger.Infof("%s Importing legislators for %s...", progress, st)
		stats.Sources++
		fetched, inserted, err := i.legislators.Warm(ctx, []string{st})
		if err != nil {
			i.logger.Errorf("Failed to import legislators for %s: %v", st, err)
			stats.Failed++
			continue
		}
		stats.add(fetched, inserted)
	}

	if !opts.SkipNews {
		i.logger.Info("Fetching breaking and local news...")
		stats.Sources++
		fetched, inserted := i.news.Warm(ctx)
		i.logger.Infof("  %d articles (%d new)", fetched, inserted)
		stats.add(fetched, inserted)
	}

	return stats, nil
}

// PrintSummary logs the import statistics
func (i *Importer) PrintSummary(stats *ImportStats) {
	i.logger.Info("=== Import Summary ===")
	i.logger.Infof("Sources:         %d", stats.Sources)
	i.logger.Infof("Records fetched: %d", stats.Fetched)
	i.logger.Infof("New:             %d", stats.Inserted)
	i.logger.Infof("Refreshed:       %d", stats.Refreshed)
	i.logger.Infof("Skipped:         %d", stats.Skipped)
	i.logger.Infof("Failed:          %d", stats.Failed)

	if stats.Sources > 0 {
		successRate := float64(stats.Sources-stats.Failed) / float64(stats.Sources) * 100
		i.logger.Infof("Success rate:    %.1f%%", successRate)
	}
}
