package ingest

import (
	"strconv"
	"strings"

	"github.com/AnilDaoud/japan-realestate/database"
	"github.com/AnilDaoud/japan-realestate/mlit"
)

// Japanese calendar eras that appear in the BuildingYear field. The Gregorian
// year is the era offset plus the numeral embedded in the string, e.g.
// "令和5年" = 2018 + 5 = 2023.
var eraOffsets = []struct {
	markers []string
	offset  int
}{
	{[]string{"令和", "Reiwa"}, 2018},
	{[]string{"平成", "Heisei"}, 1988},
	{[]string{"昭和", "Showa"}, 1925},
}

const municipalityCodeLen = 5

// ParseNumeric coerces an upstream numeric string into a float. The API
// formats numbers with thousands separators and reports absent values as
// empty strings. Malformed input yields nil, never an error.
func ParseNumeric(value string) *float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	if cleaned == "" {
		return nil
	}

	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}

	return &parsed
}

// ParseBuildingYear resolves a building-year string to a Gregorian year.
// A plain 4-digit year is accepted if it lies in [1900, 2100]; otherwise the
// string is matched against the known era markers and the era offset is
// added to the digits found in the string. Anything else yields nil.
func ParseBuildingYear(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if year, err := strconv.Atoi(value); err == nil {
		if year >= 1900 && year <= 2100 {
			return &year
		}
		return nil
	}

	for _, era := range eraOffsets {
		for _, marker := range era.markers {
			if strings.Contains(value, marker) {
				num, ok := embeddedDigits(value)
				if !ok {
					return nil
				}
				year := era.offset + num
				return &year
			}
		}
	}

	return nil
}

// embeddedDigits concatenates all decimal digits in s into one number, e.g.
// "令和5年" -> 5.
func embeddedDigits(s string) (int, bool) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}

	num, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return num, true
}

// TransformRecord maps one raw upstream record into a Transaction row. It is
// a total function: malformed fields become nil columns and never abort a
// harvest. quarter is 0 for yearly-only feeds.
func TransformRecord(raw *mlit.RawTransaction, prefectureCode string, year, quarter int) *database.Transaction {
	record := &database.Transaction{
		SourceHash:          RecordHash(raw),
		PriceClassification: priceClassification(raw.PriceCategory),
		PrefectureCode:      prefectureCode,
		PropertyTypeRaw:     raw.Type,
		TransactionYear:     year,
	}

	if len(raw.MunicipalityCode) == municipalityCodeLen {
		record.MunicipalityCode = &raw.MunicipalityCode
	}

	if id, ok := mlit.PropertyTypeID(raw.Type); ok {
		record.PropertyTypeID = &id
	}

	record.DistrictName = optionalString(raw.DistrictName)
	record.TradePrice = toInt64(ParseNumeric(raw.TradePrice))
	record.UnitPrice = toInt64(ParseNumeric(raw.UnitPrice))
	record.AreaM2 = ParseNumeric(raw.Area)
	record.TotalFloorAreaM2 = ParseNumeric(raw.TotalFloorArea)
	record.FloorPlan = optionalString(raw.FloorPlan)
	record.BuildingYear = ParseBuildingYear(raw.BuildingYear)
	record.Structure = optionalString(raw.Structure)
	record.LandShape = optionalString(raw.LandShape)
	record.FrontageM = ParseNumeric(raw.Frontage)
	record.RoadDirection = optionalString(raw.Direction)
	record.RoadType = optionalString(raw.Classification)
	record.RoadWidthM = ParseNumeric(raw.Breadth)
	record.CityPlanning = optionalString(raw.CityPlanning)
	record.CoverageRatio = toInt(ParseNumeric(raw.CoverageRatio))
	record.FloorAreaRatio = toInt(ParseNumeric(raw.FloorAreaRatio))
	record.TransactionPeriod = optionalString(raw.Period)
	record.Renovation = optionalString(raw.Renovation)
	record.Remarks = optionalString(raw.Remarks)

	if quarter > 0 {
		record.TransactionQuarter = &quarter
	}

	return record
}

func priceClassification(category string) string {
	if category == "" {
		return "01"
	}
	if len(category) > 2 {
		return category[:2]
	}
	return category
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toInt64(f *float64) *int64 {
	if f == nil {
		return nil
	}
	v := int64(*f)
	return &v
}

func toInt(f *float64) *int {
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}
