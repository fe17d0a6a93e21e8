package repository

import (
	"context"

	"kyomeguri-backend/internal/domain/model"
)

type SpotsRepository interface {
	GetByID(ctx context.Context, id string) (*model.Spot, error)
	// GetAll 全スポットを取得する（カテゴリ・行政区で絞り込み可能、空文字列は絞り込みなし）
	GetAll(ctx context.Context, category, district string) ([]*model.Spot, error)
	// GetNearby 指定座標から半径(m)以内のスポットを距離昇順で取得する
	GetNearby(ctx context.Context, location model.LatLng, radiusMeters float64, limit int) ([]*model.Spot, error)
	// GetByBoundingBox 境界ボックス内のスポットを取得する（地図表示用）
	GetByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]*model.Spot, error)
}
