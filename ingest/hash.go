package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/AnilDaoud/japan-realestate/mlit"
)

// hashLength is the number of hex characters kept from the sha256 digest.
// 128 bits, collisions are negligible at the volumes involved.
const hashLength = 32

// RecordHash derives the deduplication key for one raw record: a truncated
// sha256 over a fixed, ordered subset of the raw upstream field values.
//
// The hash is computed over the raw values rather than the transformed ones
// so that improving the transformer later does not re-identify already
// ingested transactions as new. The flip side is that the key inherits the
// upstream formatting: if the API ever reformats a field (say, drops the
// thousands separators in TradePrice) the same logical transaction hashes
// differently and is stored again. Known gap, kept for compatibility with
// the existing table contents.
//
// Records identical in the key fields but differing elsewhere collapse into
// one row. That lossy identity is deliberate.
func RecordHash(raw *mlit.RawTransaction) string {
	keyFields := []string{
		raw.MunicipalityCode,
		raw.DistrictName,
		raw.TradePrice,
		raw.Area,
		raw.Period,
		raw.BuildingYear,
		raw.Type,
	}

	digest := sha256.Sum256([]byte(strings.Join(keyFields, "|")))
	return hex.EncodeToString(digest[:])[:hashLength]
}
