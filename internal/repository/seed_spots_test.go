package repository

import (
	"strings"
	"testing"

	"kyomeguri-backend/internal/domain/model"
)

func TestDefaultKyotoSpots(t *testing.T) {
	spots := DefaultKyotoSpots()

	if len(spots) != 16 {
		t.Fatalf("シードデータの件数が不正: %d", len(spots))
	}

	t.Run("全スポットが完全なデータを持つ", func(t *testing.T) {
		seen := make(map[string]struct{}, len(spots))
		for _, spot := range spots {
			if !strings.HasPrefix(spot.ID, "spot_") {
				t.Errorf("IDの形式が不正: %s", spot.ID)
			}
			if _, dup := seen[spot.ID]; dup {
				t.Errorf("IDが重複しています: %s", spot.ID)
			}
			seen[spot.ID] = struct{}{}

			if spot.Name == "" || spot.Description == "" {
				t.Errorf("名前または説明が空です: %s", spot.ID)
			}
			if !model.IsValidCategory(spot.Category) {
				t.Errorf("未定義のカテゴリ: %s (%s)", spot.Category, spot.ID)
			}
			if _, ok := model.DistrictMetaMap[spot.District]; !ok {
				t.Errorf("未定義の行政区: %s (%s)", spot.District, spot.ID)
			}

			p := spot.ToLatLng()
			// 京都市内の座標であること
			if p.Lat < 34.8 || p.Lat > 35.2 || p.Lng < 135.6 || p.Lng > 135.9 {
				t.Errorf("京都市外の座標: %s (%f, %f)", spot.ID, p.Lat, p.Lng)
			}

			if spot.CheckinRadiusM != nil && *spot.CheckinRadiusM <= 0 {
				t.Errorf("許容半径の上書きが不正: %s", spot.ID)
			}
		}
	})

	t.Run("全カテゴリと全行政区が登場する", func(t *testing.T) {
		categories := make(map[string]struct{})
		districts := make(map[string]struct{})
		for _, spot := range spots {
			categories[spot.Category] = struct{}{}
			districts[spot.District] = struct{}{}
		}

		for _, meta := range model.GetAllCategories() {
			if _, ok := categories[meta.Code]; !ok {
				t.Errorf("シードに登場しないカテゴリ: %s", meta.Code)
			}
		}
		for _, meta := range model.GetAllDistricts() {
			if _, ok := districts[meta.Code]; !ok {
				t.Errorf("シードに登場しない行政区: %s", meta.Code)
			}
		}
	})
}
