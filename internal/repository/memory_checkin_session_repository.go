package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
)

// 解決済みセッションをメモリに残しておく期間
const resolvedSessionRetention = 1 * time.Hour

// MemoryCheckinSessionRepository インメモリのチェックインセッションリポジトリ
// Firestoreが設定されていない場合とテストで使用する
type MemoryCheckinSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*model.CheckinSession
}

// NewMemoryCheckinSessionRepository 新しいインメモリリポジトリを作成
func NewMemoryCheckinSessionRepository() repository.CheckinSessionRepository {
	return &MemoryCheckinSessionRepository{
		sessions: make(map[string]*model.CheckinSession),
	}
}

func (r *MemoryCheckinSessionRepository) Save(ctx context.Context, session *model.CheckinSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *session
	r.sessions[session.SessionID] = &copied
	r.sweep(time.Now())
	return nil
}

func (r *MemoryCheckinSessionRepository) Get(ctx context.Context, sessionID string) (*model.CheckinSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("セッションID %s: %w", sessionID, repository.ErrSessionNotFound)
	}

	copied := *session
	return &copied, nil
}

// sweep 期限を大きく過ぎたセッションを破棄する（FirestoreのTTL削除に相当）
func (r *MemoryCheckinSessionRepository) sweep(now time.Time) {
	for id, session := range r.sessions {
		if now.After(session.ExpireAt.Add(resolvedSessionRetention)) {
			delete(r.sessions, id)
		}
	}
}
