package model

// CategoryConstants はアプリケーションで使用するスポットカテゴリの定数
const (
	CategoryTempleShrine   = "temple_shrine"
	CategoryNatureGarden   = "nature_garden"
	CategoryGourmet        = "gourmet"
	CategoryHistoryCulture = "history_culture"
	CategoryTownscape      = "townscape"
	CategoryOnsenRelax     = "onsen_relax"
)

// DistrictConstants はアプリケーションで使用する行政区の定数（京都市）
const (
	DistrictHigashiyama = "higashiyama"
	DistrictSakyo       = "sakyo"
	DistrictKita        = "kita"
	DistrictNakagyo     = "nakagyo"
	DistrictShimogyo    = "shimogyo"
	DistrictUkyo        = "ukyo"
	DistrictFushimi     = "fushimi"
	DistrictKamigyo     = "kamigyo"
	DistrictNishikyo    = "nishikyo"
)

// CategoryMeta カード表示に使うカテゴリのメタデータ（名前・アイコン・色）
type CategoryMeta struct {
	Code  string `json:"code"`
	Name  string `json:"name"`  // 日本語表示名
	Icon  string `json:"icon"`  // フロントエンドのアイコン識別子
	Color string `json:"color"` // 表示色（#RRGGBB）
}

// DistrictMeta カード表示に使う行政区のメタデータ
type DistrictMeta struct {
	Code string `json:"code"`
	Name string `json:"name"` // 日本語表示名
}

// CategoryMetaMap はカテゴリコードから表示メタデータへのマッピング
var CategoryMetaMap = map[string]CategoryMeta{
	CategoryTempleShrine:   {Code: CategoryTempleShrine, Name: "寺社仏閣", Icon: "torii", Color: "#C73E3A"},
	CategoryNatureGarden:   {Code: CategoryNatureGarden, Name: "自然・庭園", Icon: "leaf", Color: "#2E8B57"},
	CategoryGourmet:        {Code: CategoryGourmet, Name: "グルメ", Icon: "chopsticks", Color: "#E67E22"},
	CategoryHistoryCulture: {Code: CategoryHistoryCulture, Name: "歴史・文化", Icon: "castle", Color: "#6B4F9E"},
	CategoryTownscape:      {Code: CategoryTownscape, Name: "街歩き", Icon: "lantern", Color: "#2980B9"},
	CategoryOnsenRelax:     {Code: CategoryOnsenRelax, Name: "温泉・癒し", Icon: "hot-spring", Color: "#16A085"},
}

// DistrictMetaMap は行政区コードから表示メタデータへのマッピング
var DistrictMetaMap = map[string]DistrictMeta{
	DistrictHigashiyama: {Code: DistrictHigashiyama, Name: "東山区"},
	DistrictSakyo:       {Code: DistrictSakyo, Name: "左京区"},
	DistrictKita:        {Code: DistrictKita, Name: "北区"},
	DistrictNakagyo:     {Code: DistrictNakagyo, Name: "中京区"},
	DistrictShimogyo:    {Code: DistrictShimogyo, Name: "下京区"},
	DistrictUkyo:        {Code: DistrictUkyo, Name: "右京区"},
	DistrictFushimi:     {Code: DistrictFushimi, Name: "伏見区"},
	DistrictKamigyo:     {Code: DistrictKamigyo, Name: "上京区"},
	DistrictNishikyo:    {Code: DistrictNishikyo, Name: "西京区"},
}

// GetCategoryMeta はカテゴリコードから表示メタデータを取得する
// 未知のコードの場合はコードをそのまま表示名にしたフォールバックを返す
func GetCategoryMeta(code string) CategoryMeta {
	if meta, ok := CategoryMetaMap[code]; ok {
		return meta
	}
	return CategoryMeta{Code: code, Name: code, Icon: "pin", Color: "#7F8C8D"}
}

// GetDistrictMeta は行政区コードから表示メタデータを取得する
func GetDistrictMeta(code string) DistrictMeta {
	if meta, ok := DistrictMetaMap[code]; ok {
		return meta
	}
	return DistrictMeta{Code: code, Name: code}
}

// IsValidCategory はカテゴリコードが定義済みかチェック
func IsValidCategory(code string) bool {
	_, ok := CategoryMetaMap[code]
	return ok
}

// IsValidDistrict は行政区コードが定義済みかチェック
func IsValidDistrict(code string) bool {
	_, ok := DistrictMetaMap[code]
	return ok
}

// GetAllCategories は全カテゴリのメタデータ一覧を表示順で取得する
func GetAllCategories() []CategoryMeta {
	codes := []string{
		CategoryTempleShrine,
		CategoryNatureGarden,
		CategoryGourmet,
		CategoryHistoryCulture,
		CategoryTownscape,
		CategoryOnsenRelax,
	}
	categories := make([]CategoryMeta, 0, len(codes))
	for _, code := range codes {
		categories = append(categories, CategoryMetaMap[code])
	}
	return categories
}

// GetAllDistricts は全行政区のメタデータ一覧を表示順で取得する
func GetAllDistricts() []DistrictMeta {
	codes := []string{
		DistrictHigashiyama,
		DistrictSakyo,
		DistrictKita,
		DistrictNakagyo,
		DistrictShimogyo,
		DistrictUkyo,
		DistrictFushimi,
		DistrictKamigyo,
		DistrictNishikyo,
	}
	districts := make([]DistrictMeta, 0, len(codes))
	for _, code := range codes {
		districts = append(districts, DistrictMetaMap[code])
	}
	return districts
}
