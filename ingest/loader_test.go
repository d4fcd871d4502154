package ingest

import (
	"testing"

	"github.com/AnilDaoud/japan-realestate/database"
)

func strPtr(s string) *string { return &s }

func TestCollectMunicipalities(t *testing.T) {
	records := []*database.Transaction{
		{MunicipalityCode: strPtr("13103")},
		{MunicipalityCode: nil}, // region-level record
		{MunicipalityCode: strPtr("13104")},
		{MunicipalityCode: strPtr("13103")}, // duplicate
	}
	names := map[string]string{"13103": "Minato Ward"}

	municipalities := collectMunicipalities(records, names, "13")

	if len(municipalities) != 2 {
		t.Fatalf("got %d municipalities, want 2", len(municipalities))
	}
	if municipalities[0].Code != "13103" || municipalities[1].Code != "13104" {
		t.Errorf("unexpected codes: %s, %s", municipalities[0].Code, municipalities[1].Code)
	}
	if municipalities[0].NameEn != "Minato Ward" {
		t.Errorf("NameEn = %q, want Minato Ward", municipalities[0].NameEn)
	}
	// No name seen upstream: fall back to the code rather than leaving the
	// column empty.
	if municipalities[1].NameEn != "13104" {
		t.Errorf("NameEn = %q, want code fallback", municipalities[1].NameEn)
	}
	for _, m := range municipalities {
		if m.PrefectureCode != "13" {
			t.Errorf("PrefectureCode = %q, want 13", m.PrefectureCode)
		}
	}
}
