package mlit

import "fmt"

// prefectureNames maps JIS prefecture codes to (English, Japanese) names.
// The reverse map is derived from it once at init; lookups in either
// direction are plain map accesses.
var prefectureNames = map[string]struct{ En, Ja string }{
	"01": {"Hokkaido", "北海道"},
	"02": {"Aomori", "青森県"},
	"03": {"Iwate", "岩手県"},
	"04": {"Miyagi", "宮城県"},
	"05": {"Akita", "秋田県"},
	"06": {"Yamagata", "山形県"},
	"07": {"Fukushima", "福島県"},
	"08": {"Ibaraki", "茨城県"},
	"09": {"Tochigi", "栃木県"},
	"10": {"Gunma", "群馬県"},
	"11": {"Saitama", "埼玉県"},
	"12": {"Chiba", "千葉県"},
	"13": {"Tokyo", "東京都"},
	"14": {"Kanagawa", "神奈川県"},
	"15": {"Niigata", "新潟県"},
	"16": {"Toyama", "富山県"},
	"17": {"Ishikawa", "石川県"},
	"18": {"Fukui", "福井県"},
	"19": {"Yamanashi", "山梨県"},
	"20": {"Nagano", "長野県"},
	"21": {"Gifu", "岐阜県"},
	"22": {"Shizuoka", "静岡県"},
	"23": {"Aichi", "愛知県"},
	"24": {"Mie", "三重県"},
	"25": {"Shiga", "滋賀県"},
	"26": {"Kyoto", "京都府"},
	"27": {"Osaka", "大阪府"},
	"28": {"Hyogo", "兵庫県"},
	"29": {"Nara", "奈良県"},
	"30": {"Wakayama", "和歌山県"},
	"31": {"Tottori", "鳥取県"},
	"32": {"Shimane", "島根県"},
	"33": {"Okayama", "岡山県"},
	"34": {"Hiroshima", "広島県"},
	"35": {"Yamaguchi", "山口県"},
	"36": {"Tokushima", "徳島県"},
	"37": {"Kagawa", "香川県"},
	"38": {"Ehime", "愛媛県"},
	"39": {"Kochi", "高知県"},
	"40": {"Fukuoka", "福岡県"},
	"41": {"Saga", "佐賀県"},
	"42": {"Nagasaki", "長崎県"},
	"43": {"Kumamoto", "熊本県"},
	"44": {"Oita", "大分県"},
	"45": {"Miyazaki", "宮崎県"},
	"46": {"Kagoshima", "鹿児島県"},
	"47": {"Okinawa", "沖縄県"},
}

var prefectureCodesByName map[string]string

func init() {
	prefectureCodesByName = make(map[string]string, 2*len(prefectureNames))
	for code, names := range prefectureNames {
		prefectureCodesByName[names.En] = code
		prefectureCodesByName[names.Ja] = code
	}
}

// PrefectureName returns the English and Japanese names for a prefecture
// code. ok is false for an unknown code.
func PrefectureName(code string) (en, ja string, ok bool) {
	names, ok := prefectureNames[code]
	return names.En, names.Ja, ok
}

// PrefectureCode resolves an English or Japanese prefecture name to its
// code. ok is false for an unknown name.
func PrefectureCode(name string) (string, bool) {
	code, ok := prefectureCodesByName[name]
	return code, ok
}

// AllPrefectureCodes returns every prefecture code in ascending order.
func AllPrefectureCodes() []string {
	codes := make([]string, 0, len(prefectureNames))
	for i := 1; i <= len(prefectureNames); i++ {
		codes = append(codes, fmt.Sprintf("%02d", i))
	}
	return codes
}

// propertyTypes maps the API's property-type labels to stable numeric codes.
// Lookup is exact-match only: an unknown label yields no code and downstream
// consumers keep the raw label instead. No fuzzy matching, a wrong mapping
// is worse than a null one.
var propertyTypes = map[string]int16{
	"Pre-owned Condominiums":              1,
	"Pre-owned Condominiums, etc.":        1,
	"Residential Land":                    2,
	"Residential Land(Land Only)":         2,
	"Residential Land and Building":       3,
	"Residential Land(Land and Building)": 3,
	"Agricultural Land":                   4,
	"Forest Land":                         5,
	"Pre-owned House":                     6,
	"Office":                              7,
	"Shop":                                8,
	"Warehouse":                           9,
	"Factory":                             10,
}

// PropertyTypeID maps a raw property-type label to its numeric code.
// ok is false for labels outside the known vocabulary.
func PropertyTypeID(label string) (int16, bool) {
	id, ok := propertyTypes[label]
	return id, ok
}
