package repository

import (
	"context"

	"kyomeguri-backend/internal/domain/model"
)

type CheckinSessionRepository interface {
	// Save セッションを保存する（新規・更新とも同じ操作）
	Save(ctx context.Context, session *model.CheckinSession) error
	// Get セッションを取得する（存在しない・期限切れで削除済みの場合はエラー）
	Get(ctx context.Context, sessionID string) (*model.CheckinSession, error)
}
