package repository

import (
	"context"
	"fmt"
	"sync"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
)

// MemoryVisitsRepository インメモリの訪問記録リポジトリ
// 外部ストレージなしで起動する場合とテストで使用する
type MemoryVisitsRepository struct {
	mu      sync.RWMutex
	visits  map[string][]model.Visit       // ユーザーID → 訪問記録（古い順）
	visited map[string]map[string]struct{} // ユーザーID → 訪問済みスポットID集合
}

// NewMemoryVisitsRepository 新しいインメモリリポジトリを作成
func NewMemoryVisitsRepository() repository.VisitsRepository {
	return &MemoryVisitsRepository{
		visits:  make(map[string][]model.Visit),
		visited: make(map[string]map[string]struct{}),
	}
}

func (r *MemoryVisitsRepository) Create(ctx context.Context, visit *model.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.visited[visit.UserID]
	if !ok {
		set = make(map[string]struct{})
		r.visited[visit.UserID] = set
	}
	if _, exists := set[visit.SpotID]; exists {
		return fmt.Errorf("スポット %s: %w", visit.SpotID, repository.ErrVisitExists)
	}

	set[visit.SpotID] = struct{}{}
	r.visits[visit.UserID] = append(r.visits[visit.UserID], *visit)
	return nil
}

func (r *MemoryVisitsRepository) HasVisited(ctx context.Context, userID, spotID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.visited[userID]
	if !ok {
		return false, nil
	}
	_, exists := set[spotID]
	return exists, nil
}

// GetByUserID 訪問記録を新しい順で返す
func (r *MemoryVisitsRepository) GetByUserID(ctx context.Context, userID string) ([]model.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.visits[userID]
	visits := make([]model.Visit, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		visits = append(visits, stored[i])
	}
	return visits, nil
}

func (r *MemoryVisitsRepository) GetVisitedSpotIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{}, len(r.visited[userID]))
	for spotID := range r.visited[userID] {
		set[spotID] = struct{}{}
	}
	return set, nil
}

func (r *MemoryVisitsRepository) GetWallet(ctx context.Context, userID string) (*model.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wallet := &model.Wallet{
		UserID:         userID,
		VisitedSpotIDs: make([]string, 0, len(r.visits[userID])),
	}
	for _, visit := range r.visits[userID] {
		wallet.Coins += visit.CoinsAwarded
		wallet.CheckinCount++
		wallet.VisitedSpotIDs = append(wallet.VisitedSpotIDs, visit.SpotID)
	}
	return wallet, nil
}
