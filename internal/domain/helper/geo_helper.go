package helper

import (
	"math"
	"sort"

	"kyomeguri-backend/internal/domain/model"
)

const earthRadiusKm = 6371.0

// HaversineDistance は2地点間の距離を計算する (km)
func HaversineDistance(p1, p2 model.LatLng) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// HaversineDistanceMeters は2地点間の距離を計算する (m)
// チェックイン判定は許容半径がメートル指定のためこちらを使う
func HaversineDistanceMeters(p1, p2 model.LatLng) float64 {
	return HaversineDistance(p1, p2) * 1000
}

// HaversineDistanceSpot は基準座標とスポット間の距離を計算する (m)
func HaversineDistanceSpot(origin model.LatLng, spot *model.Spot) float64 {
	return HaversineDistanceMeters(origin, spot.ToLatLng())
}

// FilterByCategory は指定されたカテゴリのスポットのみを抽出する
func FilterByCategory(spots []*model.Spot, category string) []*model.Spot {
	if category == "" {
		return spots
	}
	var filtered []*model.Spot
	for _, s := range spots {
		if s.Category == category {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// FilterByDistrict は指定された行政区のスポットのみを抽出する
func FilterByDistrict(spots []*model.Spot, district string) []*model.Spot {
	if district == "" {
		return spots
	}
	var filtered []*model.Spot
	for _, s := range spots {
		if s.District == district {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// SortByDistanceFromLocation は基準座標からの距離でスポットスライスをソートする
func SortByDistanceFromLocation(origin model.LatLng, spots []*model.Spot) {
	sort.Slice(spots, func(i, j int) bool {
		distI := HaversineDistanceMeters(origin, spots[i].ToLatLng())
		distJ := HaversineDistanceMeters(origin, spots[j].ToLatLng())
		return distI < distJ
	})
}

// SortByID はスポットIDの昇順でソートする（基準座標なしのときの既定順）
func SortByID(spots []*model.Spot) {
	sort.Slice(spots, func(i, j int) bool {
		return spots[i].ID < spots[j].ID
	})
}

// FilterWithinRadius は基準座標から指定半径(m)以内のスポットのみを抽出する
func FilterWithinRadius(origin model.LatLng, spots []*model.Spot, radiusMeters float64) []*model.Spot {
	var filtered []*model.Spot
	for _, s := range spots {
		if HaversineDistanceMeters(origin, s.ToLatLng()) <= radiusMeters {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
