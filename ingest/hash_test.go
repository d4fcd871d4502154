package ingest

import (
	"testing"

	"github.com/AnilDaoud/japan-realestate/mlit"
)

func baseRecord() mlit.RawTransaction {
	return mlit.RawTransaction{
		Type:             "Residential Land(Land Only)",
		MunicipalityCode: "13103",
		DistrictName:     "Azabujuban",
		TradePrice:       "120,000,000",
		Area:             "95",
		Period:           "2023 Q1",
		BuildingYear:     "平成10年",
		Structure:        "RC",
		Remarks:          "corner lot",
	}
}

func TestRecordHashStable(t *testing.T) {
	raw := baseRecord()

	first := RecordHash(&raw)
	second := RecordHash(&raw)

	if first != second {
		t.Errorf("hash not deterministic: %q != %q", first, second)
	}
	if len(first) != 32 {
		t.Errorf("hash length = %d, want 32", len(first))
	}
}

func TestRecordHashIgnoresNonKeyFields(t *testing.T) {
	a := baseRecord()
	b := baseRecord()
	b.Structure = "SRC"
	b.Remarks = ""
	b.FloorPlan = "3LDK"

	if RecordHash(&a) != RecordHash(&b) {
		t.Error("records differing only outside the key tuple must hash equal")
	}
}

func TestRecordHashSensitiveToKeyFields(t *testing.T) {
	base := baseRecord()
	baseHash := RecordHash(&base)

	mutations := map[string]func(*mlit.RawTransaction){
		"MunicipalityCode": func(r *mlit.RawTransaction) { r.MunicipalityCode = "13104" },
		"DistrictName":     func(r *mlit.RawTransaction) { r.DistrictName = "Roppongi" },
		"TradePrice":       func(r *mlit.RawTransaction) { r.TradePrice = "120,000,001" },
		"Area":             func(r *mlit.RawTransaction) { r.Area = "96" },
		"Period":           func(r *mlit.RawTransaction) { r.Period = "2023 Q2" },
		"BuildingYear":     func(r *mlit.RawTransaction) { r.BuildingYear = "平成11年" },
		"Type":             func(r *mlit.RawTransaction) { r.Type = "Pre-owned House" },
	}

	for field, mutate := range mutations {
		mutated := baseRecord()
		mutate(&mutated)
		if RecordHash(&mutated) == baseHash {
			t.Errorf("changing key field %s did not change the hash", field)
		}
	}
}
