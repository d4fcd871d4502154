package ingest

import (
	"context"
	"time"

	"github.com/AnilDaoud/japan-realestate/logger"
	"github.com/AnilDaoud/japan-realestate/mlit"
	"github.com/pkg/errors"
)

// probeLookback bounds how many quarters the probe walks back before giving
// up and reporting that nothing is available.
const probeLookback = 4

// LatestAvailableQuarter finds the most recent (year, quarter) for which the
// API has published data, by probing one reference prefecture backwards from
// the last completed quarter. The API has no publication-schedule endpoint,
// so availability is discovered empirically and assumed uniform across
// prefectures.
//
// ok is false when none of the probed quarters had data; that means "nothing
// to do", not an error. A transient failure on a probe counts as a miss for
// that quarter and the walk continues.
func LatestAvailableQuarter(ctx context.Context, fetcher Fetcher, referencePrefecture string) (year, quarter int, ok bool, err error) {
	year, quarter = lastCompletedQuarter(time.Now())

	for i := 0; i < probeLookback; i++ {
		if err := ctx.Err(); err != nil {
			return 0, 0, false, errors.Wrap(err, "LatestAvailableQuarter")
		}

		logger.Debug("probing %d Q%d against prefecture %s", year, quarter, referencePrefecture)

		_, err := fetcher.Transactions(ctx, &mlit.TransactionsQuery{
			Year:    year,
			Area:    referencePrefecture,
			Quarter: quarter,
		})
		switch {
		case err == nil:
			return year, quarter, true, nil
		case errors.Is(err, mlit.ErrUnavailable):
			logger.Debug("%d Q%d not yet published", year, quarter)
		default:
			logger.Warn("probe for %d Q%d failed: %s", year, quarter, err)
		}

		year, quarter = previousQuarter(year, quarter)
	}

	return 0, 0, false, nil
}

// lastCompletedQuarter returns the most recently finished calendar quarter
// relative to now.
func lastCompletedQuarter(now time.Time) (int, int) {
	year := now.Year()
	quarter := (int(now.Month()) - 1) / 3
	if quarter == 0 {
		return year - 1, 4
	}
	return year, quarter
}

func previousQuarter(year, quarter int) (int, int) {
	if quarter == 1 {
		return year - 1, 4
	}
	return year, quarter - 1
}
