package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"

	"kyomeguri-backend/internal/domain/helper"
	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
	"kyomeguri-backend/internal/infrastructure/database"
)

type SupabaseSpotsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseSpotsRepository(client *database.SupabaseClient) repository.SpotsRepository {
	return &SupabaseSpotsRepository{
		client: client,
	}
}

func (r *SupabaseSpotsRepository) GetByID(ctx context.Context, id string) (*model.Spot, error) {
	var spots []model.Spot
	data, count, err := r.client.GetClient().From("spots").Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("スポットデータの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &spots); err != nil {
		return nil, fmt.Errorf("スポットデータのJSONアンマーシャル失敗: %w", err)
	}

	if len(spots) == 0 {
		return nil, fmt.Errorf("スポットID %s: %w", id, repository.ErrSpotNotFound)
	}

	return &spots[0], nil
}

func (r *SupabaseSpotsRepository) GetAll(ctx context.Context, category, district string) ([]*model.Spot, error) {
	query := r.client.GetClient().From("spots").Select("*", "exact", false)
	if category != "" {
		query = query.Eq("category", category)
	}
	if district != "" {
		query = query.Eq("district", district)
	}

	data, count, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("スポット一覧の取得失敗: %w", err)
	}
	_ = count

	var spots []model.Spot
	if err := json.Unmarshal([]byte(data), &spots); err != nil {
		return nil, fmt.Errorf("スポットデータのJSONアンマーシャル失敗: %w", err)
	}

	result := make([]*model.Spot, 0, len(spots))
	for i := range spots {
		result = append(result, &spots[i])
	}
	return result, nil
}

// GetNearby 境界ボックスで絞り込んだ後、Haversine距離で厳密に判定する
func (r *SupabaseSpotsRepository) GetNearby(ctx context.Context, location model.LatLng, radiusMeters float64, limit int) ([]*model.Spot, error) {
	bound := BoundFromRadius(location, radiusMeters)
	candidates, err := r.getByBound(bound)
	if err != nil {
		return nil, fmt.Errorf("周辺スポット検索失敗: %w", err)
	}

	nearby := helper.FilterWithinRadius(location, candidates, radiusMeters)
	helper.SortByDistanceFromLocation(location, nearby)
	if limit > 0 && len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

func (r *SupabaseSpotsRepository) GetByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]*model.Spot, error) {
	// 入力値の検証
	if minLng >= maxLng || minLat >= maxLat {
		return nil, fmt.Errorf("無効な境界ボックス: min値がmax値以上です")
	}
	if minLng < -180 || maxLng > 180 || minLat < -90 || maxLat > 90 {
		return nil, fmt.Errorf("座標値が有効範囲外です")
	}

	bound := orb.Bound{
		Min: orb.Point{minLng, minLat},
		Max: orb.Point{maxLng, maxLat},
	}
	return r.getByBound(bound)
}

// getByBound PostGIS ST_Intersects関数で境界ボックス内のスポットを検索する
func (r *SupabaseSpotsRepository) getByBound(bound orb.Bound) ([]*model.Spot, error) {
	wktString := BoundToWKTPolygon(bound)

	data, count, err := r.client.GetClient().From("spots").
		Select("*", "exact", false).
		Filter("location", "st_intersects", fmt.Sprintf("ST_GeomFromText('%s', 4326)", wktString)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("境界ボックス検索エラー: %w", err)
	}
	_ = count

	var spots []model.Spot
	if err := json.Unmarshal([]byte(data), &spots); err != nil {
		return nil, fmt.Errorf("スポットデータのJSONアンマーシャル失敗: %w", err)
	}

	result := make([]*model.Spot, 0, len(spots))
	for i := range spots {
		result = append(result, &spots[i])
	}
	return result, nil
}
