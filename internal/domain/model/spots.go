package model

// LatLng 緯度経度を表す基本的な型（距離計算などで使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Spot チェックイン対象の観光スポットを表すモデル
type Spot struct {
	ID             string    `json:"id" db:"id"`                                       // ユニークなスポットID
	Name           string    `json:"name" db:"name"`                                   // スポット名
	Description    string    `json:"description" db:"description"`                     // 紹介文
	Category       string    `json:"category" db:"category"`                           // カテゴリコード
	District       string    `json:"district" db:"district"`                           // 行政区コード
	Location       *Geometry `json:"location" db:"location"`                           // 位置情報（PostGIS GEOMETRY型）
	CoinReward     int       `json:"coin_reward" db:"coin_reward"`                     // チェックイン報酬コイン（0なら既定値）
	CheckinRadiusM *float64  `json:"checkin_radius_m,omitempty" db:"checkin_radius_m"` // スポット個別の許容半径（NULLABLE）
	PhotoURL       *string   `json:"photo_url,omitempty" db:"photo_url"`               // 写真URL（NULLABLE）
}

// ToLatLng Spotの位置情報をLatLng型に変換
func (s *Spot) ToLatLng() LatLng {
	if s.Location != nil && len(s.Location.Coordinates) >= 2 {
		return LatLng{
			Lat: s.Location.Coordinates[1], // latitude
			Lng: s.Location.Coordinates[0], // longitude
		}
	}
	return LatLng{}
}

// RadiusOrDefault スポット個別の許容半径を返す（未設定なら既定値）
func (s *Spot) RadiusOrDefault(defaultMeters float64) float64 {
	if s.CheckinRadiusM != nil && *s.CheckinRadiusM > 0 {
		return *s.CheckinRadiusM
	}
	return defaultMeters
}

// CoinsOrDefault スポット個別の報酬コインを返す（未設定なら既定値）
func (s *Spot) CoinsOrDefault(defaultCoins int) int {
	if s.CoinReward > 0 {
		return s.CoinReward
	}
	return defaultCoins
}

// GetPhotoURL 写真URLが存在する場合は値を、存在しない場合は空文字列を返す
func (s *Spot) GetPhotoURL() string {
	if s.PhotoURL != nil {
		return *s.PhotoURL
	}
	return ""
}

// SetPhotoURL 写真URLを設定する（空文字列の場合はnilのまま保持）
func (s *Spot) SetPhotoURL(url string) {
	if url != "" {
		s.PhotoURL = &url
	}
}

// HasPhotoURL 写真URLが設定されているかチェック
func (s *Spot) HasPhotoURL() bool {
	return s.PhotoURL != nil && *s.PhotoURL != ""
}

// Geometry PostGIS GEOMETRY型に対応する構造体
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

type Location struct {
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// IsValid 緯度経度が有効範囲内かチェック
func (l *Location) IsValid() bool {
	if l == nil {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// ToLatLng Location を LatLng 型に変換
func (l *Location) ToLatLng() LatLng {
	if l == nil {
		return LatLng{}
	}
	return LatLng{Lat: l.Latitude, Lng: l.Longitude}
}

// ToGeometry Location を PostGIS GEOMETRY 型に変換
func (l *Location) ToGeometry() *Geometry {
	return &Geometry{
		Type:        "Point",
		Coordinates: []float64{l.Longitude, l.Latitude},
	}
}

// FromGeometry PostGIS GEOMETRY 型から Location に変換
func (l *Location) FromGeometry(g *Geometry) {
	if g != nil && len(g.Coordinates) >= 2 {
		l.Longitude = g.Coordinates[0]
		l.Latitude = g.Coordinates[1]
	}
}

// SpotCard 一覧画面のカード表示用モデル
// カテゴリ・行政区はコードではなく表示用メタデータ（名前・アイコン・色）に解決済み
type SpotCard struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Category       CategoryMeta `json:"category"`
	District       DistrictMeta `json:"district"`
	Location       *Location    `json:"location"`
	CoinReward     int          `json:"coin_reward"`
	Visited        bool         `json:"visited"`
	CheckinState   string       `json:"checkin_state"` // "can_checkin" または "visited"
	DistanceMeters *float64     `json:"distance_meters,omitempty"`
	MapURL         string       `json:"map_url"`
	PhotoURL       *string      `json:"photo_url,omitempty"`
}

// チェックインCTAの表示状態
const (
	CheckinStateCanCheckin = "can_checkin"
	CheckinStateVisited    = "visited"
)

// SpotListResponse GET /spots のレスポンス
type SpotListResponse struct {
	Spots []SpotCard `json:"spots"`
	Total int        `json:"total"`
}

// NearbySpot 近傍検索の結果（スポットと検索地点からの距離）
type NearbySpot struct {
	Spot           *Spot
	DistanceMeters float64
}
