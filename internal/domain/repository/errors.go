package repository

import "errors"

// リポジトリ実装間で共通の判定に使うエラー値
var (
	// ErrSpotNotFound 指定されたスポットが存在しない
	ErrSpotNotFound = errors.New("スポットが見つかりません")

	// ErrVisitExists 同一ユーザー・同一スポットの訪問記録が既に存在する
	ErrVisitExists = errors.New("既にチェックイン済みです")

	// ErrSessionNotFound 指定されたチェックインセッションが存在しない
	ErrSessionNotFound = errors.New("チェックインセッションが見つかりません")
)
