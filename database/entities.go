package database

import "time"

// BaseEntity is an abstract entity, all other entities should be derived from it
type BaseEntity struct {
	ID uint64 `gorm:"primaryKey;unique"`
}

// Prefecture is a dimension row created lazily on first sighting of a
// prefecture code during a harvest. Names are never overwritten once set.
type Prefecture struct {
	Code   string `gorm:"type:varchar(2);primaryKey"`
	NameJa string `gorm:"type:varchar(50);not null"`
	NameEn string `gorm:"type:varchar(50);not null"`
}

// Municipality is a dimension row created lazily on first sighting of a
// municipality code during a harvest.
type Municipality struct {
	Code           string `gorm:"type:varchar(5);primaryKey"`
	PrefectureCode string `gorm:"type:varchar(2);not null;index"`
	NameJa         string `gorm:"type:varchar(100);not null"`
	NameEn         string `gorm:"type:varchar(100);not null"`
}

// Transaction is one observed real-estate transaction. Rows are write-once:
// re-harvesting inserts only rows whose source hash has not been seen before
// and never updates an existing row.
//
// SourceHash is a truncated sha256 over a fixed tuple of raw upstream fields.
// Two upstream records identical in those fields collapse into one row even
// if they differ elsewhere; this is a deliberate, lossy identity policy.
type Transaction struct {
	BaseEntity
	SourceHash          string  `gorm:"type:varchar(32);not null;uniqueIndex"`
	PriceClassification string  `gorm:"type:varchar(2);not null"`
	PrefectureCode      string  `gorm:"type:varchar(2);not null;index"`
	MunicipalityCode    *string `gorm:"type:varchar(5);index"`
	DistrictName        *string `gorm:"type:varchar(100)"`
	PropertyTypeID      *int16  `gorm:"index"`
	PropertyTypeRaw     string  `gorm:"type:varchar(100)"`
	TradePrice          *int64
	UnitPrice           *int64
	AreaM2              *float64
	TotalFloorAreaM2    *float64
	FloorPlan           *string `gorm:"type:varchar(50)"`
	BuildingYear        *int
	Structure           *string `gorm:"type:varchar(50)"`
	LandShape           *string `gorm:"type:varchar(50)"`
	FrontageM           *float64
	RoadDirection       *string `gorm:"type:varchar(20)"`
	RoadType            *string `gorm:"type:varchar(50)"`
	RoadWidthM          *float64
	CityPlanning        *string `gorm:"type:varchar(100)"`
	CoverageRatio       *int
	FloorAreaRatio      *int
	TransactionYear     int     `gorm:"not null;index"`
	TransactionQuarter  *int    `gorm:"index"`
	TransactionPeriod   *string `gorm:"type:varchar(30)"`
	Renovation          *string `gorm:"type:varchar(30)"`
	Remarks             *string `gorm:"type:text"`
}

// FxRate holds one JPY exchange rate per (currency, year, quarter), sourced
// from a representative mid-quarter date. Unlike Transaction this table is
// last-write-wins: a re-fetch overwrites rate and rate date.
type FxRate struct {
	BaseEntity
	Currency  string    `gorm:"type:varchar(3);not null;uniqueIndex:idx_fx_currency_period"`
	Year      int       `gorm:"not null;uniqueIndex:idx_fx_currency_period"`
	Quarter   int       `gorm:"not null;uniqueIndex:idx_fx_currency_period"`
	Rate      float64   `gorm:"not null"`
	RateDate  time.Time `gorm:"not null"`
	UpdatedAt time.Time
}
