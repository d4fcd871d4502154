package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnilDaoud/japan-realestate/config"
	"github.com/AnilDaoud/japan-realestate/database"
	"github.com/AnilDaoud/japan-realestate/fx"
	"github.com/AnilDaoud/japan-realestate/ingest"
	"github.com/AnilDaoud/japan-realestate/logger"
	"github.com/AnilDaoud/japan-realestate/mlit"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

var (
	fullFlag        = flag.Bool("full", false, "Full historical import (start year through present)")
	incrementalFlag = flag.Bool("incremental", false, "Import only the latest published quarter")
	yearFlag        = flag.Int("year", 0, "Specific year to import")
	prefectureFlag  = flag.String("prefecture", "", "Prefecture code (e.g. 13 for Tokyo)")
	quarterFlag     = flag.Int("quarter", 0, "Specific quarter (1-4)")
	fxOnlyFlag      = flag.Bool("refresh-fx-only", false, "Only refresh FX rates (no MLIT API key needed)")
)

func main() {
	defer logger.Sync()

	if err := run(context.Background()); err != nil {
		logger.Fatal("Fatal error: %s", err)
	}
}

func run(ctx context.Context) error {
	flag.Parse()
	cfg, err := config.BuildConfig()
	if err != nil {
		return errors.Wrap(err, "config error")
	}

	config.GlobalConfigCallback.Call(cfg)
	logger.Set(logger.Config(cfg.Logger))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := connectWithRetry(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "database connect and initialize errors")
	}

	fxLimiter := rate.NewLimiter(rate.Limit(cfg.FX.RequestsPerSecond), 1)
	backfiller := fx.NewBackfiller(db, fx.NewClient(&cfg.FX, fxLimiter), cfg.FX.Currencies)

	if *fxOnlyFlag {
		logger.Info("refreshing FX rates")
		return backfiller.Backfill(ctx, cfg.Ingest.StartYear)
	}

	// Every harvest mode talks to the MLIT API; fail before any network
	// activity if the key is missing.
	if cfg.MLIT.APIKey == "" {
		return errors.New("MLIT API key not set (set mlit.api_key in the config file or the MLIT_API_KEY environment variable)")
	}

	// One limiter per process: the aggregate request rate to the MLIT API
	// must stay bounded no matter how the harvester is driven.
	mlitLimiter := rate.NewLimiter(rate.Limit(cfg.MLIT.RequestsPerSecond), 1)
	client := mlit.NewClient(&cfg.MLIT, mlitLimiter)
	harvester := ingest.NewHarvester(client, ingest.NewLoader(db), cfg.Ingest)

	switch {
	case *fullFlag:
		return runFull(ctx, cfg, harvester, backfiller)

	case *incrementalFlag:
		return runIncremental(ctx, cfg, harvester, backfiller)

	case *yearFlag > 0:
		return runYear(ctx, harvester)

	default:
		printUsage()
		return nil
	}
}

func runFull(ctx context.Context, cfg *config.Config, harvester *ingest.Harvester, backfiller *fx.Backfiller) error {
	var prefectures []string
	if *prefectureFlag != "" {
		prefectures = []string{*prefectureFlag}
	}

	if _, err := harvester.HarvestFullHistory(ctx, cfg.Ingest.StartYear, prefectures); err != nil {
		return err
	}

	logger.Info("refreshing FX rates")
	return backfiller.Backfill(ctx, cfg.Ingest.StartYear)
}

func runIncremental(ctx context.Context, cfg *config.Config, harvester *ingest.Harvester, backfiller *fx.Backfiller) error {
	if _, err := harvester.HarvestIncremental(ctx); err != nil {
		return err
	}

	logger.Info("refreshing FX rates")
	return backfiller.Backfill(ctx, cfg.Ingest.StartYear)
}

func runYear(ctx context.Context, harvester *ingest.Harvester) error {
	prefectures := mlit.AllPrefectureCodes()
	if *prefectureFlag != "" {
		prefectures = []string{*prefectureFlag}
	}

	var quarters []int
	if *quarterFlag > 0 {
		quarters = []int{*quarterFlag}
	}

	summary := &ingest.Summary{}
	for _, prefecture := range prefectures {
		logger.Info("importing %d for prefecture %s", *yearFlag, prefecture)
		outcomes, err := harvester.HarvestPeriod(ctx, prefecture, *yearFlag, quarters)
		summary.AddAll(outcomes)
		if err != nil {
			return err
		}
	}

	logger.Info("import complete: %s", summary)
	return nil
}

func connectWithRetry(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB

	bOff := backoff.NewExponentialBackOff()
	bOff.MaxElapsedTime = config.BackoffMaxElapsedTime

	err := backoff.RetryNotify(
		func() (err error) {
			db, err = database.ConnectAndInitialize(ctx, &cfg.DB)
			return err
		},
		backoff.WithContext(bOff, ctx),
		func(err error, d time.Duration) {
			logger.Error("database connect error: %s. Will retry after %s", err, d)
		},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func printUsage() {
	flag.Usage()
	fmt.Println("\nExamples:")
	fmt.Println("  japan-realestate -full                      # Full import")
	fmt.Println("  japan-realestate -year 2023                 # Single year, all prefectures")
	fmt.Println("  japan-realestate -year 2023 -prefecture 13  # Tokyo 2023")
	fmt.Println("  japan-realestate -incremental               # Latest quarter")
	fmt.Println("  japan-realestate -refresh-fx-only           # Refresh FX rates only")
}
