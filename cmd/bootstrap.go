package cmd

import (
	"context"
	"database/sql"
	"time"

	"github.com/jjenkins/civic/internal/config"
	"github.com/jjenkins/civic/internal/handlers"
	"github.com/jjenkins/civic/internal/logging"
	"github.com/jjenkins/civic/internal/service"
	"github.com/jjenkins/civic/internal/store"
	"github.com/jjenkins/civic/internal/telemetry"
	"github.com/jjenkins/civic/internal/templates"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// application holds everything a command needs, wired from one Config
type application struct {
	cfg      *config.Config
	logger   *zap.Logger
	deps     *handlers.Deps
	importer *service.Importer
	status   templates.AdapterStatus
	pg       *sql.DB
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		Production: cfg.IsProduction(),
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newApplication builds stores, adapters and services. The Postgres metrics sink
// is opened only when a database url is configured.
func newApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	metrics := telemetry.New()
	responses := cache.New(cfg.Cache.TTL, 2*cfg.Cache.TTL)
	parser := service.NewParser()

	db := store.NewDB()
	stores := store.NewStores(db)

	govtrack := service.NewGovTrackClient(cfg.GovTrack, responses, logger, metrics)
	news := service.NewNewsClient(cfg.NewsAPI, parser, responses, logger, metrics)
	feeds := service.NewFeedReader(cfg.Feeds, parser, responses, logger, metrics)

	completer, err := service.NewOpenAICompleter(cfg.OpenAI)
	if err != nil {
		return nil, err
	}
	if completer == nil {
		logger.Warn("OPENAI_API_KEY not set, assistant answers from canned responses")
	}

	a := &application{cfg: cfg, logger: logger}

	var sink *store.MetricsStore
	if cfg.Database.URL.IsSet() {
		a.pg, err = store.OpenPostgres(ctx, cfg.Database.URL.Value())
		if err != nil {
			return nil, err
		}
		sink = store.NewMetricsStore(a.pg)
		if err := sink.EnsureSchema(ctx); err != nil {
			a.pg.Close()
			return nil, err
		}
	}

	bills := service.NewBillService(govtrack, stores.Bills, logger)
	legislators := service.NewLegislatorService(govtrack, stores.Legislators, logger)
	newsService := service.NewNewsService(news, feeds, stores.News)

	a.deps = &handlers.Deps{
		Stores:      stores,
		Bills:       bills,
		Legislators: legislators,
		News:        newsService,
		Assistant:   service.NewAssistant(completer, logger, metrics),
		Engagement:  service.NewMetricsService(db, sink, metrics, logger),
		Telemetry:   metrics,
	}
	a.importer = service.NewImporter(bills, legislators, newsService, logger)
	a.status = templates.AdapterStatus{
		NewsAPI:      cfg.NewsAPI.APIKey.IsSet(),
		OpenAI:       completer != nil,
		Feeds:        len(cfg.Feeds),
		MetricsStore: sink != nil,
	}
	return a, nil
}

func (a *application) importOptions() service.ImportOptions {
	return service.ImportOptions{States: a.cfg.Import.States}
}

// refreshLoop re-imports every interval until ctx is done
func (a *application) refreshLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := a.importer.Import(ctx, a.importOptions())
			if err != nil {
				return
			}
			a.logger.Info("refreshed upstream data",
				zap.Int("fetched", stats.Fetched),
				zap.Int("inserted", stats.Inserted),
				zap.Int("failed", stats.Failed),
			)
		}
	}
}

func (a *application) Close() {
	if a.pg != nil {
		a.pg.Close()
	}
	_ = a.logger.Sync()
}
