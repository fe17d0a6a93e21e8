package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
	"kyomeguri-backend/internal/infrastructure/database"
)

type PostgresSpotsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresSpotsRepository(client *database.PostgreSQLClient) repository.SpotsRepository {
	return &PostgresSpotsRepository{
		client: client,
	}
}

// SpotResult PostGIS関数の結果を受け取るための構造体
type SpotResult struct {
	ID             string
	Name           string
	Description    string
	Category       string
	District       string
	Location       string
	CoinReward     int
	CheckinRadiusM sql.NullFloat64
	PhotoURL       sql.NullString
	DistanceMeters float64
}

// ToSpot SpotResultをmodel.Spotに変換
func (sr *SpotResult) ToSpot() (*model.Spot, error) {
	var location model.Geometry
	if err := json.Unmarshal([]byte(sr.Location), &location); err != nil {
		return nil, fmt.Errorf("location JSONBパースエラー: %w", err)
	}

	spot := &model.Spot{
		ID:          sr.ID,
		Name:        sr.Name,
		Description: sr.Description,
		Category:    sr.Category,
		District:    sr.District,
		Location:    &location,
		CoinReward:  sr.CoinReward,
	}

	if sr.CheckinRadiusM.Valid {
		spot.CheckinRadiusM = &sr.CheckinRadiusM.Float64
	}
	if sr.PhotoURL.Valid {
		spot.PhotoURL = &sr.PhotoURL.String
	}

	return spot, nil
}

const spotColumns = `s.id, s.name, s.description, s.category, s.district,
			ST_AsGeoJSON(s.location)::jsonb as location,
			s.coin_reward, s.checkin_radius_m, s.photo_url`

func (r *PostgresSpotsRepository) GetByID(ctx context.Context, id string) (*model.Spot, error) {
	query := fmt.Sprintf(`SELECT %s FROM spots s WHERE s.id = $1`, spotColumns)

	row := r.client.DB.QueryRowContext(ctx, query, id)

	var result SpotResult
	err := row.Scan(&result.ID, &result.Name, &result.Description, &result.Category,
		&result.District, &result.Location, &result.CoinReward, &result.CheckinRadiusM, &result.PhotoURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("スポットID %s: %w", id, repository.ErrSpotNotFound)
		}
		return nil, fmt.Errorf("スポットデータの取得失敗: %w", err)
	}

	return result.ToSpot()
}

func (r *PostgresSpotsRepository) GetAll(ctx context.Context, category, district string) ([]*model.Spot, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM spots s
		WHERE ($1 = '' OR s.category = $1)
		  AND ($2 = '' OR s.district = $2)
		ORDER BY s.id
	`, spotColumns)

	rows, err := r.client.DB.QueryContext(ctx, query, category, district)
	if err != nil {
		return nil, fmt.Errorf("スポット一覧の取得失敗: %w", err)
	}
	defer rows.Close()

	return r.scanSpots(rows, false)
}

func (r *PostgresSpotsRepository) GetNearby(ctx context.Context, location model.LatLng, radiusMeters float64, limit int) ([]*model.Spot, error) {
	if limit <= 0 {
		limit = 50
	}

	// 直接SQLでPostGIS関数を使用した効率的な検索
	query := fmt.Sprintf(`
		SELECT %s,
			ST_Distance(
				ST_GeogFromText('POINT(' || $2 || ' ' || $1 || ')'),
				s.location::geography
			) as distance_meters
		FROM spots s
		WHERE ST_DWithin(
			ST_GeogFromText('POINT(' || $2 || ' ' || $1 || ')'),
			s.location::geography,
			$3
		)
		ORDER BY distance_meters
		LIMIT $4
	`, spotColumns)

	rows, err := r.client.DB.QueryContext(ctx, query, location.Lat, location.Lng, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("周辺スポット検索失敗: %w", err)
	}
	defer rows.Close()

	return r.scanSpots(rows, true)
}

func (r *PostgresSpotsRepository) GetByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]*model.Spot, error) {
	if minLng >= maxLng || minLat >= maxLat {
		return nil, fmt.Errorf("無効な境界ボックス: min値がmax値以上です")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM spots s
		WHERE ST_Intersects(
			s.location,
			ST_MakeEnvelope($1, $2, $3, $4, 4326)
		)
	`, spotColumns)

	rows, err := r.client.DB.QueryContext(ctx, query, minLng, minLat, maxLng, maxLat)
	if err != nil {
		return nil, fmt.Errorf("境界ボックス検索エラー: %w", err)
	}
	defer rows.Close()

	return r.scanSpots(rows, false)
}

// scanSpots 結果セットをスポットのスライスに変換する
func (r *PostgresSpotsRepository) scanSpots(rows *sql.Rows, withDistance bool) ([]*model.Spot, error) {
	var spots []*model.Spot
	for rows.Next() {
		var result SpotResult
		var err error
		if withDistance {
			err = rows.Scan(&result.ID, &result.Name, &result.Description, &result.Category,
				&result.District, &result.Location, &result.CoinReward, &result.CheckinRadiusM,
				&result.PhotoURL, &result.DistanceMeters)
		} else {
			err = rows.Scan(&result.ID, &result.Name, &result.Description, &result.Category,
				&result.District, &result.Location, &result.CoinReward, &result.CheckinRadiusM,
				&result.PhotoURL)
		}
		if err != nil {
			return nil, fmt.Errorf("スポットデータスキャンエラー: %w", err)
		}

		spot, err := result.ToSpot()
		if err != nil {
			return nil, err
		}
		spots = append(spots, spot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スポットデータ読み取りエラー: %w", err)
	}

	return spots, nil
}
