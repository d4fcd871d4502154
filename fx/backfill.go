package fx

import (
	"context"
	"time"

	"github.com/AnilDaoud/japan-realestate/database"
	"github.com/AnilDaoud/japan-realestate/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// Transient failures per (year, quarter, currency) combination are
	// retried this many times with a short constant pause, then the
	// combination is given up and the backfill moves on.
	maxFetchAttempts = 3
	retryPause       = time.Second
)

// RateSource is the slice of Client the backfiller needs.
type RateSource interface {
	Rate(ctx context.Context, date time.Time, currency string) (float64, error)
}

// Backfiller keeps the fx_rate table synchronized: for every
// (year, quarter, currency) combination since the start year it fetches the
// rate of a representative mid-quarter date, unless the store already has
// one. Unlike the transaction table, a re-fetch overwrites: the table is
// last-write-wins.
type Backfiller struct {
	db         *gorm.DB
	source     RateSource
	currencies []string
}

func NewBackfiller(db *gorm.DB, source RateSource, currencies []string) *Backfiller {
	return &Backfiller{
		db:         db,
		source:     source,
		currencies: currencies,
	}
}

// Backfill fetches and upserts every missing rate from startYear through the
// current quarter. Failures are isolated per combination and never abort the
// whole run.
func (b *Backfiller) Backfill(ctx context.Context, startYear int) error {
	periods := periodsSince(startYear, time.Now())

	var fetched []database.FxRate
	missing := 0

	for _, period := range periods {
		for _, currency := range b.currencies {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, "Backfill")
			}

			exists, err := b.rateExists(ctx, currency, period.year, period.quarter)
			if err != nil {
				return errors.Wrap(err, "Backfill: rateExists")
			}
			if exists {
				continue
			}
			missing++

			rateDate := representativeDate(period.year, period.quarter)
			value, usedDate, err := b.fetchWithFallback(ctx, rateDate, currency)
			if err != nil {
				logger.Warn("giving up on %s %d Q%d: %s", currency, period.year, period.quarter, err)
				continue
			}

			logger.Info("fetched %d Q%d %s: %.8f", period.year, period.quarter, currency, value)
			fetched = append(fetched, database.FxRate{
				Currency: currency,
				Year:     period.year,
				Quarter:  period.quarter,
				Rate:     value,
				RateDate: usedDate,
			})
		}
	}

	if len(fetched) == 0 {
		if missing == 0 {
			logger.Info("all FX rates up to date")
		}
		return nil
	}

	if err := b.upsert(ctx, fetched); err != nil {
		return err
	}

	logger.Info("stored %d new FX rates", len(fetched))
	return nil
}

// fetchWithFallback fetches the rate for date, falling back exactly once to
// the prior calendar day when the date is a non-trading day. A miss on the
// fallback day terminates with no rate; the walk is deliberately not
// open-ended. Transient failures are retried with a bounded constant
// backoff.
func (b *Backfiller) fetchWithFallback(ctx context.Context, date time.Time, currency string) (float64, time.Time, error) {
	value, err := b.fetchWithRetry(ctx, date, currency)
	if errors.Is(err, ErrDateUnavailable) {
		date = date.AddDate(0, 0, -1)
		value, err = b.fetchWithRetry(ctx, date, currency)
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	return value, date, nil
}

func (b *Backfiller) fetchWithRetry(ctx context.Context, date time.Time, currency string) (float64, error) {
	var value float64

	err := backoff.Retry(
		func() error {
			v, err := b.source.Rate(ctx, date, currency)
			if errors.Is(err, ErrDateUnavailable) {
				// Expected for weekends and holidays; retrying the
				// same date cannot help.
				return backoff.Permanent(err)
			}
			if err != nil {
				return err
			}

			value = v
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(retryPause), maxFetchAttempts-1),
			ctx,
		),
	)
	if err != nil {
		return 0, err
	}

	return value, nil
}

func (b *Backfiller) rateExists(ctx context.Context, currency string, year, quarter int) (bool, error) {
	var found database.FxRate
	err := b.db.WithContext(ctx).
		Where("currency = ? AND year = ? AND quarter = ?", currency, year, quarter).
		First(&found).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (b *Backfiller) upsert(ctx context.Context, rates []database.FxRate) error {
	err := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "currency"}, {Name: "year"}, {Name: "quarter"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate", "rate_date", "updated_at"}),
		}).
		CreateInBatches(rates, database.DBTransactionBatchesSize).
		Error
	if err != nil {
		return errors.Wrap(err, "upsert: CreateInBatches")
	}

	return nil
}

type period struct {
	year    int
	quarter int
}

// periodsSince enumerates every (year, quarter) from startYear through the
// quarter containing now, inclusive.
func periodsSince(startYear int, now time.Time) []period {
	currentYear := now.Year()
	currentQuarter := (int(now.Month())-1)/3 + 1

	var periods []period
	for year := startYear; year <= currentYear; year++ {
		for quarter := 1; quarter <= 4; quarter++ {
			if year == currentYear && quarter > currentQuarter {
				break
			}
			periods = append(periods, period{year: year, quarter: quarter})
		}
	}

	return periods
}

// representativeDate picks the 15th of the middle month of a quarter as the
// date whose rate stands for the whole quarter.
func representativeDate(year, quarter int) time.Time {
	month := time.Month((quarter-1)*3 + 2)
	return time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
}
