package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
	"kyomeguri-backend/internal/infrastructure/cache"
)

const (
	// spotsGeoKey スポット位置を格納するGeoセットのキー
	spotsGeoKey = "spots:geo"
	// spotDataKeyPrefix スポット本体のJSONを格納するハッシュのキープレフィックス
	spotDataKeyPrefix = "spot:"
)

// RedisSpotsGeoIndex Redisを使用したスポットの地理インデックス
type RedisSpotsGeoIndex struct {
	client *redis.Client
}

// NewRedisSpotsGeoIndex 新しいRedisSpotsGeoIndexインスタンスを作成
func NewRedisSpotsGeoIndex(client *cache.RedisClient) repository.SpotsGeoIndex {
	return &RedisSpotsGeoIndex{
		client: client.GetClient(),
	}
}

// Rebuild インデックスを渡されたスポット一覧で再構築する
func (r *RedisSpotsGeoIndex) Rebuild(ctx context.Context, spots []*model.Spot) error {
	if err := r.client.Del(ctx, spotsGeoKey).Err(); err != nil {
		return fmt.Errorf("地理インデックスの初期化に失敗: %w", err)
	}

	indexed := 0
	for _, spot := range spots {
		if spot.Location == nil || len(spot.Location.Coordinates) < 2 {
			continue
		}

		data, err := json.Marshal(spot)
		if err != nil {
			log.Printf("⚠️ スポット %s のJSONマーシャルに失敗: %v", spot.ID, err)
			continue
		}
		if err := r.client.HSet(ctx, spotDataKeyPrefix+spot.ID, "data", data).Err(); err != nil {
			return fmt.Errorf("スポット %s の保存に失敗: %w", spot.ID, err)
		}

		err = r.client.GeoAdd(ctx, spotsGeoKey, &redis.GeoLocation{
			Name:      spot.ID,
			Longitude: spot.Location.Coordinates[0],
			Latitude:  spot.Location.Coordinates[1],
		}).Err()
		if err != nil {
			return fmt.Errorf("スポット %s のGeoセット追加に失敗: %w", spot.ID, err)
		}
		indexed++
	}

	log.Printf("✅ 地理インデックスを再構築 (%d件)", indexed)
	return nil
}

// SearchNearby 指定地点から半径radiusMeters以内のスポットを距離昇順で返す
func (r *RedisSpotsGeoIndex) SearchNearby(ctx context.Context, location model.LatLng, radiusMeters float64, limit int) ([]model.NearbySpot, error) {
	if limit <= 0 {
		limit = 50
	}

	geoResults, err := r.client.GeoRadius(ctx, spotsGeoKey, location.Lng, location.Lat, &redis.GeoRadiusQuery{
		Radius:    radiusMeters,
		Unit:      "m",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
		Count:     limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("Geo検索に失敗: %w", err)
	}

	results := make([]model.NearbySpot, 0, len(geoResults))
	for _, geoResult := range geoResults {
		spotJSON, err := r.client.HGet(ctx, spotDataKeyPrefix+geoResult.Name, "data").Result()
		if err != nil {
			log.Printf("⚠️ スポット %s のデータ取得に失敗: %v", geoResult.Name, err)
			continue
		}

		var spot model.Spot
		if err := json.Unmarshal([]byte(spotJSON), &spot); err != nil {
			log.Printf("⚠️ スポット %s のJSONアンマーシャルに失敗: %v", geoResult.Name, err)
			continue
		}

		results = append(results, model.NearbySpot{
			Spot:           &spot,
			DistanceMeters: geoResult.Dist,
		})
	}

	return results, nil
}
