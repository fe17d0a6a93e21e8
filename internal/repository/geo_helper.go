package repository

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"kyomeguri-backend/internal/domain/model"
)

// 緯度1度あたりのおおよそのメートル数
const metersPerDegree = 111320.0

// BoundFromRadius 中心点と半径(m)から境界ボックスを作成
// 近傍検索の前段フィルタに使う（厳密な距離判定はHaversineで行う）
func BoundFromRadius(center model.LatLng, radiusMeters float64) orb.Bound {
	point := orb.Point{center.Lng, center.Lat}
	bound := orb.Bound{Min: point, Max: point}

	// 半径を度数に換算して境界ボックスを拡張
	padding := radiusMeters / metersPerDegree
	return bound.Pad(padding)
}

// BoundToWKTPolygon 境界ボックスをWKT形式のポリゴン文字列に変換
func BoundToWKTPolygon(bound orb.Bound) string {
	return wkt.MarshalString(bound.ToPolygon())
}

// GeometryToLocation PostGIS GEOMETRY を model.Location に変換
func GeometryToLocation(geometry *model.Geometry) *model.Location {
	if geometry == nil || len(geometry.Coordinates) < 2 {
		return nil
	}

	point := orb.Point{geometry.Coordinates[0], geometry.Coordinates[1]}
	return &model.Location{
		Latitude:  point.Lat(),
		Longitude: point.Lon(),
	}
}

// LocationToGeometry model.Location を PostGIS GEOMETRY 形式に変換
func LocationToGeometry(location *model.Location) *model.Geometry {
	if location == nil {
		return nil
	}

	point := orb.Point{location.Longitude, location.Latitude}
	return &model.Geometry{
		Type:        "Point",
		Coordinates: []float64{point.Lon(), point.Lat()},
	}
}
