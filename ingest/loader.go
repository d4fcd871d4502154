package ingest

import (
	"context"

	"github.com/AnilDaoud/japan-realestate/database"
	"github.com/AnilDaoud/japan-realestate/mlit"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Loader writes transformed records into the store under idempotent
// semantics. Uniqueness is enforced by the source_hash conflict target, so
// concurrent loaders for disjoint periods need no extra coordination.
type Loader struct {
	db *gorm.DB
}

func NewLoader(db *gorm.DB) *Loader {
	return &Loader{db: db}
}

// EnsurePrefecture inserts the dimension row for a prefecture code if it is
// not present. Existing names are never overwritten.
func (l *Loader) EnsurePrefecture(ctx context.Context, code string) error {
	en, ja, ok := mlit.PrefectureName(code)
	if !ok {
		en, ja = code, code
	}

	err := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&database.Prefecture{Code: code, NameJa: ja, NameEn: en}).
		Error
	if err != nil {
		return errors.Wrap(err, "EnsurePrefecture: Create")
	}

	return nil
}

// Load upserts the municipality dimension rows referenced by records and then
// bulk-inserts the records themselves, skipping any whose source hash is
// already stored. It returns the number of genuinely new rows.
//
// Municipality rows must exist before the fact insert to satisfy the
// referential constraint, so a dimension failure aborts the batch before any
// fact row is written. The fact insert itself runs in one transaction: either
// the whole batch lands or none of it does.
func (l *Loader) Load(ctx context.Context, records []*database.Transaction, municipalityNames map[string]string, prefectureCode string) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	if err := l.ensureMunicipalities(ctx, records, municipalityNames, prefectureCode); err != nil {
		return 0, err
	}

	var inserted int64
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_hash"}},
			DoNothing: true,
		}).CreateInBatches(records, database.DBTransactionBatchesSize)
		if result.Error != nil {
			return errors.Wrap(result.Error, "Load: CreateInBatches")
		}

		inserted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

func (l *Loader) ensureMunicipalities(ctx context.Context, records []*database.Transaction, names map[string]string, prefectureCode string) error {
	municipalities := collectMunicipalities(records, names, prefectureCode)
	if len(municipalities) == 0 {
		return nil
	}

	err := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&municipalities).
		Error
	if err != nil {
		return errors.Wrap(err, "ensureMunicipalities: Create")
	}

	return nil
}

// collectMunicipalities extracts one dimension row per distinct municipality
// code among records, in first-seen order. Records without a municipality
// breakdown are skipped.
func collectMunicipalities(records []*database.Transaction, names map[string]string, prefectureCode string) []database.Municipality {
	var municipalities []database.Municipality
	seen := make(map[string]bool)

	for _, record := range records {
		if record.MunicipalityCode == nil {
			continue
		}
		code := *record.MunicipalityCode
		if seen[code] {
			continue
		}
		seen[code] = true

		name := names[code]
		if name == "" {
			name = code
		}
		municipalities = append(municipalities, database.Municipality{
			Code:           code,
			PrefectureCode: prefectureCode,
			NameJa:         name,
			NameEn:         name,
		})
	}

	return municipalities
}
