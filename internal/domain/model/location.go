package model

// GeolocationErrorCode 端末側の位置情報取得エラー区分
// ブラウザの Geolocation API (GeolocationPositionError) のコード体系に対応する
type GeolocationErrorCode string

const (
	GeolocationPermissionDenied    GeolocationErrorCode = "permission_denied"    // code 1: ユーザーが位置情報の利用を拒否
	GeolocationPositionUnavailable GeolocationErrorCode = "position_unavailable" // code 2: 位置情報を取得できない
	GeolocationTimeout             GeolocationErrorCode = "timeout"              // code 3: 取得がタイムアウト
)

// GeolocationErrorFromBrowserCode はブラウザの数値コードからエラー区分に変換する
func GeolocationErrorFromBrowserCode(code int) (GeolocationErrorCode, bool) {
	switch code {
	case 1:
		return GeolocationPermissionDenied, true
	case 2:
		return GeolocationPositionUnavailable, true
	case 3:
		return GeolocationTimeout, true
	default:
		return "", false
	}
}

// IsValidGeolocationError はエラー区分が定義済みかチェック
func IsValidGeolocationError(code GeolocationErrorCode) bool {
	switch code {
	case GeolocationPermissionDenied, GeolocationPositionUnavailable, GeolocationTimeout:
		return true
	default:
		return false
	}
}

// AuthorizationState 位置情報認可の状態
// idle → requesting → granted / denied / timeout と遷移する
type AuthorizationState string

const (
	AuthStateIdle       AuthorizationState = "idle"
	AuthStateRequesting AuthorizationState = "requesting"
	AuthStateGranted    AuthorizationState = "granted"
	AuthStateDenied     AuthorizationState = "denied"
	AuthStateTimeout    AuthorizationState = "timeout"
)

// IsTerminal 終端状態（granted/denied/timeout）かどうかを判定する
func (s AuthorizationState) IsTerminal() bool {
	switch s {
	case AuthStateGranted, AuthStateDenied, AuthStateTimeout:
		return true
	default:
		return false
	}
}

// CanTransitionTo 状態遷移が許可されているかチェック
// 終端状態からの再遷移は常に不可
func (s AuthorizationState) CanTransitionTo(next AuthorizationState) bool {
	switch s {
	case AuthStateIdle:
		return next == AuthStateRequesting
	case AuthStateRequesting:
		return next.IsTerminal()
	default:
		return false
	}
}

// LocationReport 端末から送信される位置情報の報告
// 座標か、取得失敗時のエラー区分のどちらかを持つ
type LocationReport struct {
	Location       *Location            `json:"location"`
	AccuracyMeters *float64             `json:"accuracy_meters,omitempty"`
	ErrorCode      GeolocationErrorCode `json:"error_code,omitempty"`
}

// HasLocation 座標が報告されているかチェック
func (r *LocationReport) HasLocation() bool {
	return r != nil && r.Location != nil
}

// HasError エラー区分が報告されているかチェック
func (r *LocationReport) HasError() bool {
	return r != nil && r.ErrorCode != ""
}

// AuthorizationResult 位置情報認可の判定結果
type AuthorizationResult struct {
	State               AuthorizationState   `json:"state"`
	Location            *Location            `json:"location,omitempty"` // 判定に使用した端末位置
	DistanceMeters      float64              `json:"distance_meters"`
	AllowedRadiusMeters float64              `json:"allowed_radius_meters"`
	InRange             bool                 `json:"in_range"`
	ErrorCode           GeolocationErrorCode `json:"error_code,omitempty"` // granted以外のときの失敗区分
	TestMode            bool                 `json:"test_mode,omitempty"`
}

// Authorized チェックインを許可できる判定結果かどうか
func (r *AuthorizationResult) Authorized() bool {
	return r != nil && r.State == AuthStateGranted && r.InRange
}
