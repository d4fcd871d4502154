package mlit

// RawTransaction is one record as returned by the transactions endpoint.
// The API reports every field as a string, with absent values as empty
// strings; numeric coercion and era-year resolution happen downstream.
type RawTransaction struct {
	Type             string `json:"Type"`
	Region           string `json:"Region"`
	MunicipalityCode string `json:"MunicipalityCode"`
	Prefecture       string `json:"Prefecture"`
	Municipality     string `json:"Municipality"`
	DistrictName     string `json:"DistrictName"`
	TradePrice       string `json:"TradePrice"`
	PricePerUnit     string `json:"PricePerUnit"`
	UnitPrice        string `json:"UnitPrice"`
	FloorPlan        string `json:"FloorPlan"`
	Area             string `json:"Area"`
	TotalFloorArea   string `json:"TotalFloorArea"`
	BuildingYear     string `json:"BuildingYear"`
	Structure        string `json:"Structure"`
	Use              string `json:"Use"`
	Purpose          string `json:"Purpose"`
	LandShape        string `json:"LandShape"`
	Frontage         string `json:"Frontage"`
	Direction        string `json:"Direction"`
	Classification   string `json:"Classification"`
	Breadth          string `json:"Breadth"`
	CityPlanning     string `json:"CityPlanning"`
	CoverageRatio    string `json:"CoverageRatio"`
	FloorAreaRatio   string `json:"FloorAreaRatio"`
	Period           string `json:"Period"`
	Renovation       string `json:"Renovation"`
	Remarks          string `json:"Remarks"`
	PriceCategory    string `json:"PriceCategory"`
}
