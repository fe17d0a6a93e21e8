package repository

import (
	"context"

	"kyomeguri-backend/internal/domain/model"
)

// SpotsGeoIndex 近傍検索を高速化するための地理インデックス
// 利用できない場合はSpotsRepository.GetNearbyにフォールバックする
type SpotsGeoIndex interface {
	// Rebuild インデックスを渡されたスポット一覧で再構築する
	Rebuild(ctx context.Context, spots []*model.Spot) error

	// SearchNearby 指定地点から半径radiusMeters以内のスポットを距離昇順で返す
	SearchNearby(ctx context.Context, location model.LatLng, radiusMeters float64, limit int) ([]model.NearbySpot, error)
}
