package model

import (
	"fmt"
	"time"
)

// CheckinFailureCode チェックイン失敗の区分
// 端末側のGeolocationエラー（permission_denied / position_unavailable / timeout）に
// サーバー側の判定（out_of_range / already_visited / spot_not_found）を加えたもの
type CheckinFailureCode string

const (
	CheckinFailurePermissionDenied    CheckinFailureCode = "permission_denied"
	CheckinFailurePositionUnavailable CheckinFailureCode = "position_unavailable"
	CheckinFailureTimeout             CheckinFailureCode = "timeout"
	CheckinFailureOutOfRange          CheckinFailureCode = "out_of_range"
	CheckinFailureAlreadyVisited      CheckinFailureCode = "already_visited"
	CheckinFailureSpotNotFound        CheckinFailureCode = "spot_not_found"
)

// CheckinError チェックイン失敗を表す型付きエラー
// out_of_range の場合は距離と許容半径を保持し、「あと◯◯m」表示に使う
type CheckinError struct {
	Code                CheckinFailureCode
	Message             string
	DistanceMeters      float64
	AllowedRadiusMeters float64
}

// Error errorインターフェースの実装
func (e *CheckinError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCheckinError 新しいCheckinErrorを作成
func NewCheckinError(code CheckinFailureCode, message string) *CheckinError {
	return &CheckinError{Code: code, Message: message}
}

// Visit チェックインによる訪問記録を表すモデル
type Visit struct {
	ID             string    `json:"id" db:"id"`                           // ユニークな訪問ID
	UserID         string    `json:"user_id" db:"user_id"`                 // チェックインしたユーザーID
	SpotID         string    `json:"spot_id" db:"spot_id"`                 // チェックイン先のスポットID
	SpotName       string    `json:"spot_name" db:"spot_name"`             // スポット名（履歴表示用）
	DistanceMeters float64   `json:"distance_meters" db:"distance_meters"` // チェックイン時の距離
	CoinsAwarded   int       `json:"coins_awarded" db:"coins_awarded"`     // 付与されたコイン
	CheckedInAt    time.Time `json:"checked_in_at" db:"checked_in_at"`     // チェックイン日時
}

// Wallet ユーザーのコイン残高とチェックイン実績のサマリー
type Wallet struct {
	UserID         string   `json:"user_id"`
	Coins          int      `json:"coins"`
	CheckinCount   int      `json:"checkin_count"`
	VisitedSpotIDs []string `json:"visited_spot_ids"`
}

// CheckinRequest POST /spots/:id/checkins のリクエストボディ
type CheckinRequest struct {
	Location       *Location            `json:"location"`
	AccuracyMeters *float64             `json:"accuracy_meters,omitempty"`
	ErrorCode      GeolocationErrorCode `json:"error_code,omitempty"`
}

// ToLocationReport リクエストボディをLocationReportに変換
func (r *CheckinRequest) ToLocationReport() *LocationReport {
	return &LocationReport{
		Location:       r.Location,
		AccuracyMeters: r.AccuracyMeters,
		ErrorCode:      r.ErrorCode,
	}
}

// CheckinResponse チェックイン成功時のレスポンス
type CheckinResponse struct {
	Status              string  `json:"status"` // "checked_in"
	Message             string  `json:"message"`
	Visit               *Visit  `json:"visit"`
	CoinsAwarded        int     `json:"coins_awarded"`
	TotalCoins          int     `json:"total_coins"`
	DistanceMeters      float64 `json:"distance_meters"`
	AllowedRadiusMeters float64 `json:"allowed_radius_meters"`
	TestMode            bool    `json:"test_mode,omitempty"`
}

// CheckinSession 位置情報認可の状態機械を永続化したチェックインセッション
// 端末が位置情報を取得している間 requesting 状態で保持され、期限切れで timeout になる
type CheckinSession struct {
	SessionID      string               `json:"session_id"`
	UserID         string               `json:"user_id"`
	SpotID         string               `json:"spot_id"`
	SpotName       string               `json:"spot_name"`
	State          AuthorizationState   `json:"state"`
	TimeoutSeconds int                  `json:"timeout_seconds"`
	CreatedAt      time.Time            `json:"created_at"`
	ExpireAt       time.Time            `json:"expire_at"`
	Result         *AuthorizationResult `json:"result,omitempty"`   // 終端状態に達したときの判定結果
	VisitID        string               `json:"visit_id,omitempty"` // チェックイン成立時の訪問ID
}

// IsExpired セッションが期限切れかどうかを判定する
func (s *CheckinSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpireAt)
}

// IsResolved セッションが終端状態に達しているかどうか
func (s *CheckinSession) IsResolved() bool {
	return s.State.IsTerminal()
}

// FirestoreCheckinSession Firestore保存用のセッションドキュメント
// expireAt フィールドはFirestoreのTTLポリシーで自動削除される
type FirestoreCheckinSession struct {
	UserID         string               `firestore:"user_id"`
	SpotID         string               `firestore:"spot_id"`
	SpotName       string               `firestore:"spot_name"`
	State          string               `firestore:"state"`
	TimeoutSeconds int                  `firestore:"timeout_seconds"`
	CreatedAt      time.Time            `firestore:"created_at"`
	ExpireAt       time.Time            `firestore:"expireAt"`
	Result         *AuthorizationResult `firestore:"result,omitempty"`
	VisitID        string               `firestore:"visit_id,omitempty"`
}

// ToFirestoreCheckinSession CheckinSession を Firestore 保存用に変換
func (s *CheckinSession) ToFirestoreCheckinSession() *FirestoreCheckinSession {
	return &FirestoreCheckinSession{
		UserID:         s.UserID,
		SpotID:         s.SpotID,
		SpotName:       s.SpotName,
		State:          string(s.State),
		TimeoutSeconds: s.TimeoutSeconds,
		CreatedAt:      s.CreatedAt,
		ExpireAt:       s.ExpireAt,
		Result:         s.Result,
		VisitID:        s.VisitID,
	}
}

// ToCheckinSession Firestoreドキュメントからドメインモデルに変換
func (f *FirestoreCheckinSession) ToCheckinSession(sessionID string) *CheckinSession {
	return &CheckinSession{
		SessionID:      sessionID,
		UserID:         f.UserID,
		SpotID:         f.SpotID,
		SpotName:       f.SpotName,
		State:          AuthorizationState(f.State),
		TimeoutSeconds: f.TimeoutSeconds,
		CreatedAt:      f.CreatedAt,
		ExpireAt:       f.ExpireAt,
		Result:         f.Result,
		VisitID:        f.VisitID,
	}
}

// OpenSessionRequest POST /checkins/sessions のリクエストボディ
type OpenSessionRequest struct {
	SpotID string `json:"spot_id" validate:"required"`
}

// VisitListResponse GET /users/me/checkins のレスポンス
type VisitListResponse struct {
	Visits []Visit `json:"visits"`
	Total  int     `json:"total"`
}
