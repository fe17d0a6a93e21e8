package repository

import (
	"context"

	"kyomeguri-backend/internal/domain/model"
)

type VisitsRepository interface {
	// Create 訪問記録を新規作成する（同一ユーザー・同一スポットの重複はErrVisitExists相当のエラー）
	Create(ctx context.Context, visit *model.Visit) error
	// HasVisited ユーザーがスポットにチェックイン済みかどうかを判定する
	HasVisited(ctx context.Context, userID, spotID string) (bool, error)
	// GetByUserID ユーザーの訪問記録一覧を新しい順で取得する
	GetByUserID(ctx context.Context, userID string) ([]model.Visit, error)
	// GetVisitedSpotIDs ユーザーがチェックイン済みのスポットID集合を取得する
	GetVisitedSpotIDs(ctx context.Context, userID string) (map[string]struct{}, error)
	// GetWallet ユーザーのコイン残高とチェックイン実績を取得する
	GetWallet(ctx context.Context, userID string) (*model.Wallet, error)
}
