package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
	"kyomeguri-backend/internal/infrastructure/database"
)

// uniqueViolation PostgreSQLの一意制約違反コード
const uniqueViolation = "23505"

type PostgresVisitsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresVisitsRepository(client *database.PostgreSQLClient) repository.VisitsRepository {
	return &PostgresVisitsRepository{
		client: client,
	}
}

func (r *PostgresVisitsRepository) Create(ctx context.Context, visit *model.Visit) error {
	query := `
		INSERT INTO visits (id, user_id, spot_id, spot_name, distance_meters, coins_awarded, checked_in_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.client.DB.ExecContext(ctx, query,
		visit.ID, visit.UserID, visit.SpotID, visit.SpotName,
		visit.DistanceMeters, visit.CoinsAwarded, visit.CheckedInAt)
	if err != nil {
		// visitsテーブルは (user_id, spot_id) にユニーク制約を持つ
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("スポット %s: %w", visit.SpotID, repository.ErrVisitExists)
		}
		return fmt.Errorf("訪問記録の作成失敗: %w", err)
	}

	return nil
}

func (r *PostgresVisitsRepository) HasVisited(ctx context.Context, userID, spotID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM visits WHERE user_id = $1 AND spot_id = $2)`

	var exists bool
	if err := r.client.DB.QueryRowContext(ctx, query, userID, spotID).Scan(&exists); err != nil {
		return false, fmt.Errorf("訪問記録の確認失敗: %w", err)
	}
	return exists, nil
}

// GetByUserID 訪問記録を新しい順で返す
func (r *PostgresVisitsRepository) GetByUserID(ctx context.Context, userID string) ([]model.Visit, error) {
	query := `
		SELECT id, user_id, spot_id, spot_name, distance_meters, coins_awarded, checked_in_at
		FROM visits
		WHERE user_id = $1
		ORDER BY checked_in_at DESC
	`

	rows, err := r.client.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("訪問記録の取得失敗: %w", err)
	}
	defer rows.Close()

	var visits []model.Visit
	for rows.Next() {
		var visit model.Visit
		err := rows.Scan(&visit.ID, &visit.UserID, &visit.SpotID, &visit.SpotName,
			&visit.DistanceMeters, &visit.CoinsAwarded, &visit.CheckedInAt)
		if err != nil {
			return nil, fmt.Errorf("訪問記録スキャンエラー: %w", err)
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("訪問記録読み取りエラー: %w", err)
	}

	return visits, nil
}

func (r *PostgresVisitsRepository) GetVisitedSpotIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	query := `SELECT spot_id FROM visits WHERE user_id = $1`

	rows, err := r.client.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("訪問済みスポットの取得失敗: %w", err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var spotID string
		if err := rows.Scan(&spotID); err != nil {
			return nil, fmt.Errorf("訪問済みスポットスキャンエラー: %w", err)
		}
		set[spotID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("訪問済みスポット読み取りエラー: %w", err)
	}

	return set, nil
}

func (r *PostgresVisitsRepository) GetWallet(ctx context.Context, userID string) (*model.Wallet, error) {
	visits, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	wallet := &model.Wallet{
		UserID:         userID,
		VisitedSpotIDs: make([]string, 0, len(visits)),
	}
	for _, visit := range visits {
		wallet.Coins += visit.CoinsAwarded
		wallet.CheckinCount++
		wallet.VisitedSpotIDs = append(wallet.VisitedSpotIDs, visit.SpotID)
	}
	return wallet, nil
}
