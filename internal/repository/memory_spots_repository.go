package repository

import (
	"context"
	"fmt"
	"sync"

	"kyomeguri-backend/internal/domain/helper"
	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
)

// MemorySpotsRepository インメモリのスポットリポジトリ
// 外部ストレージなしで起動する場合とテストで使用する
type MemorySpotsRepository struct {
	mu    sync.RWMutex
	spots map[string]*model.Spot
	order []string // 登録順を保持
}

// NewMemorySpotsRepository 新しいインメモリリポジトリを作成
func NewMemorySpotsRepository(spots []*model.Spot) repository.SpotsRepository {
	repo := &MemorySpotsRepository{
		spots: make(map[string]*model.Spot, len(spots)),
		order: make([]string, 0, len(spots)),
	}
	for _, spot := range spots {
		repo.spots[spot.ID] = spot
		repo.order = append(repo.order, spot.ID)
	}
	return repo
}

func (r *MemorySpotsRepository) GetByID(ctx context.Context, id string) (*model.Spot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spot, ok := r.spots[id]
	if !ok {
		return nil, fmt.Errorf("スポットID %s: %w", id, repository.ErrSpotNotFound)
	}
	return spot, nil
}

func (r *MemorySpotsRepository) GetAll(ctx context.Context, category, district string) ([]*model.Spot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spots := make([]*model.Spot, 0, len(r.order))
	for _, id := range r.order {
		spots = append(spots, r.spots[id])
	}

	spots = helper.FilterByCategory(spots, category)
	spots = helper.FilterByDistrict(spots, district)
	return spots, nil
}

func (r *MemorySpotsRepository) GetNearby(ctx context.Context, location model.LatLng, radiusMeters float64, limit int) ([]*model.Spot, error) {
	all, err := r.GetAll(ctx, "", "")
	if err != nil {
		return nil, err
	}

	nearby := helper.FilterWithinRadius(location, all, radiusMeters)
	helper.SortByDistanceFromLocation(location, nearby)
	if limit > 0 && len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

func (r *MemorySpotsRepository) GetByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]*model.Spot, error) {
	if minLng >= maxLng || minLat >= maxLat {
		return nil, fmt.Errorf("無効な境界ボックス: min値がmax値以上です")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var spots []*model.Spot
	for _, id := range r.order {
		spot := r.spots[id]
		p := spot.ToLatLng()
		if p.Lng >= minLng && p.Lng <= maxLng && p.Lat >= minLat && p.Lat <= maxLat {
			spots = append(spots, spot)
		}
	}
	return spots, nil
}
