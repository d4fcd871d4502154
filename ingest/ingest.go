package ingest

import (
	"context"
	"time"

	"github.com/AnilDaoud/japan-realestate/config"
	"github.com/AnilDaoud/japan-realestate/database"
	"github.com/AnilDaoud/japan-realestate/logger"
	"github.com/AnilDaoud/japan-realestate/mlit"
	"github.com/pkg/errors"
)

// Fetcher is the slice of the MLIT client the harvester needs. Request
// pacing lives entirely behind this interface; the harvester adds no delays
// of its own.
type Fetcher interface {
	Transactions(ctx context.Context, query *mlit.TransactionsQuery) ([]mlit.RawTransaction, error)
}

// recordLoader is implemented by Loader. Kept narrow so harvester tests can
// substitute an in-memory fake.
type recordLoader interface {
	EnsurePrefecture(ctx context.Context, code string) error
	Load(ctx context.Context, records []*database.Transaction, municipalityNames map[string]string, prefectureCode string) (int64, error)
}

var allQuarters = []int{1, 2, 3, 4}

// Harvester drives the fetch - transform - load pipeline for transaction
// records. All three invocation modes are built from the same per-period
// unit, and re-running any of them is safe: the loader only inserts rows
// whose source hash is unseen.
type Harvester struct {
	fetcher Fetcher
	loader  recordLoader
	params  config.IngestConfig
}

func NewHarvester(fetcher Fetcher, loader *Loader, params config.IngestConfig) *Harvester {
	return &Harvester{
		fetcher: fetcher,
		loader:  loader,
		params:  params,
	}
}

// HarvestPeriod runs the pipeline for one prefecture and year over the given
// quarters (nil means all four). Quarters are independent: a failure on one
// is recorded in its outcome and does not abort the siblings.
func (h *Harvester) HarvestPeriod(ctx context.Context, prefecture string, year int, quarters []int) ([]QuarterOutcome, error) {
	if err := h.loader.EnsurePrefecture(ctx, prefecture); err != nil {
		return nil, errors.Wrap(err, "HarvestPeriod: EnsurePrefecture")
	}

	if len(quarters) == 0 {
		quarters = allQuarters
	}

	outcomes := make([]QuarterOutcome, 0, len(quarters))
	for _, quarter := range quarters {
		if err := ctx.Err(); err != nil {
			return outcomes, errors.Wrap(err, "HarvestPeriod")
		}

		outcome := h.harvestQuarter(ctx, prefecture, year, quarter)
		logger.Info("%s", outcome)
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (h *Harvester) harvestQuarter(ctx context.Context, prefecture string, year, quarter int) QuarterOutcome {
	outcome := QuarterOutcome{Prefecture: prefecture, Year: year, Quarter: quarter}

	rawRecords, err := h.fetcher.Transactions(ctx, &mlit.TransactionsQuery{
		Year:    year,
		Area:    prefecture,
		Quarter: quarter,
	})
	if errors.Is(err, mlit.ErrUnavailable) {
		outcome.Skipped = true
		return outcome
	}
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Fetched = len(rawRecords)
	if len(rawRecords) == 0 {
		return outcome
	}

	records := make([]*database.Transaction, len(rawRecords))
	municipalityNames := make(map[string]string)
	for i := range rawRecords {
		raw := &rawRecords[i]
		records[i] = TransformRecord(raw, prefecture, year, quarter)
		if len(raw.MunicipalityCode) == municipalityCodeLen && raw.Municipality != "" {
			municipalityNames[raw.MunicipalityCode] = raw.Municipality
		}
	}

	inserted, err := h.loader.Load(ctx, records, municipalityNames, prefecture)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Inserted = inserted
	return outcome
}

// HarvestFullHistory harvests every prefecture (or the given subset) for all
// years from startYear through the current year. Long-running; interrupting
// it between periods and re-invoking resumes where it left off at the cost
// of some redundant fetches.
func (h *Harvester) HarvestFullHistory(ctx context.Context, startYear int, prefectures []string) (*Summary, error) {
	if len(prefectures) == 0 {
		prefectures = mlit.AllPrefectureCodes()
	}
	currentYear := time.Now().Year()

	summary := &Summary{}
	for _, prefecture := range prefectures {
		name, _, _ := mlit.PrefectureName(prefecture)
		logger.Info("harvesting prefecture %s (%s), %d-%d", name, prefecture, startYear, currentYear)

		for year := startYear; year <= currentYear; year++ {
			outcomes, err := h.HarvestPeriod(ctx, prefecture, year, nil)
			summary.AddAll(outcomes)
			if err != nil {
				return summary, err
			}
		}
	}

	logger.Info("full history harvest complete: %s", summary)
	logFailures(summary)

	return summary, nil
}

// HarvestIncremental probes for the latest published quarter and harvests it
// for every prefecture. This is the cheap, frequent-refresh path.
func (h *Harvester) HarvestIncremental(ctx context.Context) (*Summary, error) {
	year, quarter, ok, err := LatestAvailableQuarter(ctx, h.fetcher, h.params.ReferencePrefecture)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Info("no recent data available, nothing to do")
		return &Summary{}, nil
	}

	logger.Info("incremental update: %d Q%d", year, quarter)

	summary := &Summary{}
	for _, prefecture := range mlit.AllPrefectureCodes() {
		outcomes, err := h.HarvestPeriod(ctx, prefecture, year, []int{quarter})
		summary.AddAll(outcomes)
		if err != nil {
			return summary, err
		}
	}

	logger.Info("incremental harvest complete: %s", summary)
	logFailures(summary)

	return summary, nil
}

func logFailures(summary *Summary) {
	for _, failure := range summary.Failures {
		logger.Warn("gap: %s", failure)
	}
}
