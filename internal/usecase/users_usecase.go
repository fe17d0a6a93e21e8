package usecase

import (
	"context"
	"fmt"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
)

type UserProfileUseCase interface {
	// GetWallet はユーザーのコイン残高とチェックイン実績のサマリーを返す
	GetWallet(ctx context.Context, userID string) (*model.Wallet, error)

	// GetCheckinHistory はユーザーの訪問記録を新しい順で返す
	GetCheckinHistory(ctx context.Context, userID string) (*model.VisitListResponse, error)
}

// userProfileUseCaseImpl はUserProfileUseCaseの実装
type userProfileUseCaseImpl struct {
	visitsRepo repository.VisitsRepository
}

// NewUserProfileUseCase は新しいUserProfileUseCaseインスタンスを作成
func NewUserProfileUseCase(visitsRepo repository.VisitsRepository) UserProfileUseCase {
	return &userProfileUseCaseImpl{visitsRepo: visitsRepo}
}

// GetWallet はユーザーのコイン残高とチェックイン実績のサマリーを返す
func (u *userProfileUseCaseImpl) GetWallet(ctx context.Context, userID string) (*model.Wallet, error) {
	wallet, err := u.visitsRepo.GetWallet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("コイン残高の取得に失敗: %w", err)
	}
	return wallet, nil
}

// GetCheckinHistory はユーザーの訪問記録を新しい順で返す
func (u *userProfileUseCaseImpl) GetCheckinHistory(ctx context.Context, userID string) (*model.VisitListResponse, error) {
	visits, err := u.visitsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("訪問記録の取得に失敗: %w", err)
	}
	return &model.VisitListResponse{Visits: visits, Total: len(visits)}, nil
}
