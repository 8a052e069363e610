package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importStates    []string
	importBillLimit int
	importSkipNews  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Fetch bills, legislators and news from the upstream APIs",
	Long: `Import fetches recent federal bills from GovTrack, the congressional
delegation of each requested state, and breaking and local news. It is a dry
run of the server's warm start: it reports what each upstream returned and,
when DATABASE_URL is set, records an engagement metrics snapshot.

Examples:
  # Import the default bill window and the states from config
  ./civic import

  # Import 50 bills and the California and Texas delegations, skipping news
  ./civic import --limit 50 --states CA,TX --skip-news`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringSliceVarP(&importStates, "states", "s", nil, "Two-letter state codes to import legislators for (default from config)")
	importCmd.Flags().IntVarP(&importBillLimit, "limit", "l", 0, "Maximum number of federal bills to fetch (max 100)")
	importCmd.Flags().BoolVar(&importSkipNews, "skip-news", false, "Skip the news import")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", zap.Error(err))
		return err
	}
	defer app.Close()

	opts := app.importOptions()
	opts.BillLimit = importBillLimit
	opts.SkipNews = importSkipNews
	if len(importStates) > 0 {
		opts.States = importStates
	}

	log := logger.Sugar()
	stats, err := app.importer.Import(ctx, opts)
	if err != nil {
		if ctx.Err() != nil {
			log.Info("Import cancelled")
		}
		app.importer.PrintSummary(stats)
		return err
	}
	app.importer.PrintSummary(stats)

	engagement := app.deps.Engagement
	if engagement.HasSink() {
		log.Info("Calculating engagement metrics...")
		e, err := engagement.CalculateAndStore(ctx)
		if err != nil {
			log.Warnf("Failed to store metrics: %v", err)
		} else {
			log.Info("=== Stored Metrics ===")
			log.Infof("Bills:        %d", e.Bills)
			log.Infof("Legislators:  %d", e.Legislators)
			log.Infof("News:         %d", e.NewsArticles)
		}
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d sources failed", stats.Failed, stats.Sources)
	}
	return nil
}
