package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
	"kyomeguri-backend/internal/infrastructure/database"
)

type SupabaseVisitsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseVisitsRepository(client *database.SupabaseClient) repository.VisitsRepository {
	return &SupabaseVisitsRepository{
		client: client,
	}
}

func (r *SupabaseVisitsRepository) Create(ctx context.Context, visit *model.Visit) error {
	data, err := json.Marshal(visit)
	if err != nil {
		return fmt.Errorf("訪問記録のJSONマーシャル失敗: %w", err)
	}

	_, _, err = r.client.GetClient().From("visits").Insert(string(data), false, "", "", "").Execute()
	if err != nil {
		// visitsテーブルは (user_id, spot_id) にユニーク制約を持つ
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "23505") {
			return fmt.Errorf("スポット %s: %w", visit.SpotID, repository.ErrVisitExists)
		}
		return fmt.Errorf("訪問記録の作成失敗: %w", err)
	}

	return nil
}

func (r *SupabaseVisitsRepository) HasVisited(ctx context.Context, userID, spotID string) (bool, error) {
	data, count, err := r.client.GetClient().From("visits").
		Select("id", "exact", false).
		Eq("user_id", userID).
		Eq("spot_id", spotID).
		Execute()
	if err != nil {
		return false, fmt.Errorf("訪問記録の確認失敗: %w", err)
	}
	_ = data

	return count > 0, nil
}

// GetByUserID 訪問記録を新しい順で返す
func (r *SupabaseVisitsRepository) GetByUserID(ctx context.Context, userID string) ([]model.Visit, error) {
	data, count, err := r.client.GetClient().From("visits").
		Select("*", "exact", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("訪問記録の取得失敗: %w", err)
	}
	_ = count

	var visits []model.Visit
	if err := json.Unmarshal([]byte(data), &visits); err != nil {
		return nil, fmt.Errorf("訪問記録のJSONアンマーシャル失敗: %w", err)
	}

	sort.Slice(visits, func(i, j int) bool {
		return visits[i].CheckedInAt.After(visits[j].CheckedInAt)
	})
	return visits, nil
}

func (r *SupabaseVisitsRepository) GetVisitedSpotIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	data, count, err := r.client.GetClient().From("visits").
		Select("spot_id", "exact", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("訪問済みスポットの取得失敗: %w", err)
	}
	_ = count

	var rows []struct {
		SpotID string `json:"spot_id"`
	}
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("訪問済みスポットのJSONアンマーシャル失敗: %w", err)
	}

	set := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		set[row.SpotID] = struct{}{}
	}
	return set, nil
}

func (r *SupabaseVisitsRepository) GetWallet(ctx context.Context, userID string) (*model.Wallet, error) {
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
