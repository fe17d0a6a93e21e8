package repository

import (
	"math"
	"strings"
	"testing"

	"kyomeguri-backend/internal/domain/model"
)

func TestBoundFromRadius(t *testing.T) {
	center := model.LatLng{Lat: 34.994856, Lng: 135.785046} // 清水寺
	bound := BoundFromRadius(center, 1000)

	if bound.Min[0] >= center.Lng || bound.Max[0] <= center.Lng {
		t.Errorf("経度方向に中心を含んでいません: %v", bound)
	}
	if bound.Min[1] >= center.Lat || bound.Max[1] <= center.Lat {
		t.Errorf("緯度方向に中心を含んでいません: %v", bound)
	}

	// 半径1000mなら両側に約0.009度ずつ広がる
	expectedWidth := 2 * 1000 / metersPerDegree
	if width := bound.Max[0] - bound.Min[0]; math.Abs(width-expectedWidth) > 1e-9 {
		t.Errorf("境界ボックスの幅が不正: %g (期待: %g)", width, expectedWidth)
	}
}

func TestBoundToWKTPolygon(t *testing.T) {
	center := model.LatLng{Lat: 34.994856, Lng: 135.785046}
	polygon := BoundToWKTPolygon(BoundFromRadius(center, 500))

	if !strings.HasPrefix(polygon, "POLYGON((") {
		t.Errorf("WKT形式になっていません: %s", polygon)
	}
	// 矩形の閉じたリングは5点
	if count := strings.Count(polygon, ","); count != 4 {
		t.Errorf("ポリゴンの頂点数が不正: %s", polygon)
	}
}

func TestGeometryToLocation(t *testing.T) {
	t.Run("GeoJSONの経度緯度順から変換する", func(t *testing.T) {
		geometry := &model.Geometry{
			Type:        "Point",
			Coordinates: []float64{135.785046, 34.994856},
		}

		location := GeometryToLocation(geometry)
		if location == nil {
			t.Fatal("変換結果がnilです")
		}
		if location.Latitude != 34.994856 || location.Longitude != 135.785046 {
			t.Errorf("座標の変換が不正: %+v", location)
		}
	})

	t.Run("nilや座標不足はnil", func(t *testing.T) {
		if GeometryToLocation(nil) != nil {
			t.Error("nilの変換結果がnilではありません")
		}
		if GeometryToLocation(&model.Geometry{Type: "Point", Coordinates: []float64{135.785046}}) != nil {
			t.Error("座標不足の変換結果がnilではありません")
		}
	})
}

func TestLocationToGeometry(t *testing.T) {
	location := &model.Location{Latitude: 34.994856, Longitude: 135.785046}

	geometry := LocationToGeometry(location)
	if geometry == nil {
		t.Fatal("変換結果がnilです")
	}
	if geometry.Type != "Point" {
		t.Errorf("ジオメトリ型が不正: %s", geometry.Type)
	}
	if geometry.Coordinates[0] != 135.785046 || geometry.Coordinates[1] != 34.994856 {
		t.Errorf("座標順が不正（経度,緯度の順であるべき）: %v", geometry.Coordinates)
	}

	if LocationToGeometry(nil) != nil {
		t.Error("nilの変換結果がnilではありません")
	}

	// 変換の往復で座標が保存される
	roundtrip := GeometryToLocation(geometry)
	if roundtrip.Latitude != location.Latitude || roundtrip.Longitude != location.Longitude {
		t.Errorf("往復変換で座標が変わっています: %+v", roundtrip)
	}
}
