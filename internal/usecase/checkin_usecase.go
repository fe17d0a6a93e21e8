package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
	"kyomeguri-backend/internal/domain/service"
)

// ErrSessionAlreadyResolved 終端状態に達したセッションへの再解決要求
var ErrSessionAlreadyResolved = errors.New("チェックインセッションは既に解決済みです")

type CheckinUseCase interface {
	// CheckIn は位置情報報告を判定し、成立すれば訪問記録とコイン付与を行う
	CheckIn(ctx context.Context, userID, spotID string, report *model.LocationReport) (*model.CheckinResponse, error)

	// OpenSession は位置情報取得待ちのチェックインセッションを開始する
	OpenSession(ctx context.Context, userID, spotID string) (*model.CheckinSession, error)

	// ResolveSession はセッションに位置情報報告を反映し、終端状態へ遷移させる
	ResolveSession(ctx context.Context, userID, sessionID string, report *model.LocationReport) (*model.CheckinSession, *model.CheckinResponse, error)

	// GetSession は指定されたセッションの現在状態を取得する（期限切れはtimeoutに確定）
	GetSession(ctx context.Context, userID, sessionID string) (*model.CheckinSession, error)
}

// checkinUseCaseImpl はCheckinUseCaseの実装
type checkinUseCaseImpl struct {
	spotsRepo    repository.SpotsRepository
	visitsRepo   repository.VisitsRepository
	sessionsRepo repository.CheckinSessionRepository
	authorizer   service.LocationAuthorizer
	defaultCoins int
}

// NewCheckinUseCase は新しいCheckinUseCaseインスタンスを作成
func NewCheckinUseCase(
	spotsRepo repository.SpotsRepository,
	visitsRepo repository.VisitsRepository,
	sessionsRepo repository.CheckinSessionRepository,
	authorizer service.LocationAuthorizer,
	defaultCoins int,
) CheckinUseCase {
	return &checkinUseCaseImpl{
		spotsRepo:    spotsRepo,
		visitsRepo:   visitsRepo,
		sessionsRepo: sessionsRepo,
		authorizer:   authorizer,
		defaultCoins: defaultCoins,
	}
}

// CheckIn は位置情報報告を判定し、成立すれば訪問記録とコイン付与を行う
func (u *checkinUseCaseImpl) CheckIn(ctx context.Context, userID, spotID string, report *model.LocationReport) (*model.CheckinResponse, error) {
	// Step 1: スポットを取得
	spot, err := u.spotsRepo.GetByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			return nil, model.NewCheckinError(model.CheckinFailureSpotNotFound, fmt.Sprintf("スポット %s が見つかりません", spotID))
		}
		return nil, fmt.Errorf("スポット取得に失敗: %w", err)
	}

	// Step 2: 既存の訪問記録を確認（二重チェックイン防止）
	visited, err := u.visitsRepo.HasVisited(ctx, userID, spot.ID)
	if err != nil {
		return nil, fmt.Errorf("訪問記録の確認に失敗: %w", err)
	}
	if visited {
		return nil, model.NewCheckinError(model.CheckinFailureAlreadyVisited, fmt.Sprintf("%sには既にチェックイン済みです", spot.Name))
	}

	// Step 3: 位置情報認可の判定
	result := u.authorizer.Authorize(spot, report)
	if !result.Authorized() {
		return nil, checkinFailureFromResult(result)
	}

	// Step 4: 訪問記録を作成しコインを付与
	return u.recordVisit(ctx, userID, spot, result)
}

// recordVisit は判定結果から訪問記録を作成し、付与後のコイン残高を含むレスポンスを組み立てる
func (u *checkinUseCaseImpl) recordVisit(ctx context.Context, userID string, spot *model.Spot, result *model.AuthorizationResult) (*model.CheckinResponse, error) {
	coins := spot.CoinsOrDefault(u.defaultCoins)
	visit := &model.Visit{
		ID:             "visit_" + uuid.New().String(),
		UserID:         userID,
		SpotID:         spot.ID,
		SpotName:       spot.Name,
		DistanceMeters: result.DistanceMeters,
		CoinsAwarded:   coins,
		CheckedInAt:    time.Now(),
	}

	if err := u.visitsRepo.Create(ctx, visit); err != nil {
		// 判定中に別リクエストが先にチェックインを成立させたケース
		if errors.Is(err, repository.ErrVisitExists) {
			return nil, model.NewCheckinError(model.CheckinFailureAlreadyVisited, fmt.Sprintf("%sには既にチェックイン済みです", spot.Name))
		}
		return nil, fmt.Errorf("訪問記録の保存に失敗: %w", err)
	}

	totalCoins := coins
	if wallet, err := u.visitsRepo.GetWallet(ctx, userID); err != nil {
		log.Printf("⚠️ コイン残高の取得に失敗（付与分のみ返却）: %v", err)
	} else {
		totalCoins = wallet.Coins
	}

	if result.TestMode {
		log.Printf("🧪 テストモードでチェックイン成立 (spot: %s, user: %s)", spot.Name, userID)
	} else {
		log.Printf("✅ チェックイン成立 (spot: %s, user: %s, 距離: %.1fm)", spot.Name, userID, result.DistanceMeters)
	}

	return &model.CheckinResponse{
		Status:              "checked_in",
		Message:             fmt.Sprintf("%sにチェックインしました！%dコインを獲得", spot.Name, coins),
		Visit:               visit,
		CoinsAwarded:        coins,
		TotalCoins:          totalCoins,
		DistanceMeters:      result.DistanceMeters,
		AllowedRadiusMeters: result.AllowedRadiusMeters,
		TestMode:            result.TestMode,
	}, nil
}

// OpenSession は位置情報取得待ちのチェックインセッションを開始する
func (u *checkinUseCaseImpl) OpenSession(ctx context.Context, userID, spotID string) (*model.CheckinSession, error) {
	spot, err := u.spotsRepo.GetByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			return nil, model.NewCheckinError(model.CheckinFailureSpotNotFound, fmt.Sprintf("スポット %s が見つかりません", spotID))
		}
		return nil, fmt.Errorf("スポット取得に失敗: %w", err)
	}

	visited, err := u.visitsRepo.HasVisited(ctx, userID, spot.ID)
	if err != nil {
		return nil, fmt.Errorf("訪問記録の確認に失敗: %w", err)
	}
	if visited {
		return nil, model.NewCheckinError(model.CheckinFailureAlreadyVisited, fmt.Sprintf("%sには既にチェックイン済みです", spot.Name))
	}

	timeout := u.authorizer.Timeout()
	now := time.Now()
	session := &model.CheckinSession{
		SessionID:      "chk_" + uuid.New().String(),
		UserID:         userID,
		SpotID:         spot.ID,
		SpotName:       spot.Name,
		State:          model.AuthStateRequesting,
		TimeoutSeconds: int(timeout.Seconds()),
		CreatedAt:      now,
		ExpireAt:       now.Add(timeout),
	}

	if err := u.sessionsRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("セッション保存に失敗: %w", err)
	}

	log.Printf("📍 チェックインセッション開始 (session: %s, spot: %s, timeout: %ds)", session.SessionID, spot.Name, session.TimeoutSeconds)
	return session, nil
}

// ResolveSession はセッションに位置情報報告を反映し、終端状態へ遷移させる
// チェックイン成立時はレスポンスも併せて返す
func (u *checkinUseCaseImpl) ResolveSession(ctx context.Context, userID, sessionID string, report *model.LocationReport) (*model.CheckinSession, *model.CheckinResponse, error) {
	// Step 1: セッションを取得（他ユーザーのセッションは存在しない扱い）
	session, err := u.sessionsRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.UserID != userID {
		return nil, nil, repository.ErrSessionNotFound
	}
	if session.IsResolved() {
		return session, nil, ErrSessionAlreadyResolved
	}

	spot, err := u.spotsRepo.GetByID(ctx, session.SpotID)
	if err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			return session, nil, model.NewCheckinError(model.CheckinFailureSpotNotFound, fmt.Sprintf("スポット %s が見つかりません", session.SpotID))
		}
		return session, nil, fmt.Errorf("スポット取得に失敗: %w", err)
	}

	// Step 2: 期限切れセッションはtimeoutに確定（テストモードでは期限を無視）
	if session.IsExpired(time.Now()) && !u.authorizer.TestMode() {
		result := u.authorizer.ResolveTimeout(spot)
		if err := u.finalizeSession(ctx, session, result, ""); err != nil {
			return session, nil, err
		}
		return session, nil, checkinFailureFromResult(result)
	}

	// Step 3: 位置情報認可の判定
	result := u.authorizer.Authorize(spot, report)
	if !session.State.CanTransitionTo(result.State) {
		return session, nil, ErrSessionAlreadyResolved
	}

	if !result.Authorized() {
		if err := u.finalizeSession(ctx, session, result, ""); err != nil {
			return session, nil, err
		}
		return session, nil, checkinFailureFromResult(result)
	}

	// Step 4: 圏内判定が出ても、セッション開始後に別経路でチェックイン済みの場合がある
	visited, err := u.visitsRepo.HasVisited(ctx, userID, spot.ID)
	if err != nil {
		return session, nil, fmt.Errorf("訪問記録の確認に失敗: %w", err)
	}
	if visited {
		if err := u.finalizeSession(ctx, session, result, ""); err != nil {
			return session, nil, err
		}
		return session, nil, model.NewCheckinError(model.CheckinFailureAlreadyVisited, fmt.Sprintf("%sには既にチェックイン済みです", spot.Name))
	}

	// Step 5: 訪問記録を作成し、セッションを成立状態で確定
	resp, err := u.recordVisit(ctx, userID, spot, result)
	if err != nil {
		return session, nil, err
	}
	if err := u.finalizeSession(ctx, session, result, resp.Visit.ID); err != nil {
		return session, resp, err
	}
	return session, resp, nil
}

// GetSession は指定されたセッションの現在状態を取得する
// 未解決のまま期限を過ぎたセッションはtimeoutに確定してから返す
func (u *checkinUseCaseImpl) GetSession(ctx context.Context, userID, sessionID string) (*model.CheckinSession, error) {
	session, err := u.sessionsRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, repository.ErrSessionNotFound
	}

	if !session.IsResolved() && session.IsExpired(time.Now()) && !u.authorizer.TestMode() {
		var result *model.AuthorizationResult
		if spot, err := u.spotsRepo.GetByID(ctx, session.SpotID); err == nil {
			result = u.authorizer.ResolveTimeout(spot)
		} else {
			result = &model.AuthorizationResult{State: model.AuthStateTimeout, ErrorCode: model.GeolocationTimeout}
		}
		if err := u.finalizeSession(ctx, session, result, ""); err != nil {
			return nil, err
		}
	}

	return session, nil
}

// finalizeSession はセッションを終端状態へ遷移させて保存する
func (u *checkinUseCaseImpl) finalizeSession(ctx context.Context, session *model.CheckinSession, result *model.AuthorizationResult, visitID string) error {
	session.State = result.State
	session.Result = result
	session.VisitID = visitID
	if err := u.sessionsRepo.Save(ctx, session); err != nil {
		return fmt.Errorf("セッション保存に失敗: %w", err)
	}
	log.Printf("📄 チェックインセッション確定 (session: %s, state: %s)", session.SessionID, session.State)
	return nil
}

// checkinFailureFromResult は認可判定の失敗をCheckinErrorに変換する
func checkinFailureFromResult(result *model.AuthorizationResult) *model.CheckinError {
	switch result.State {
	case model.AuthStateTimeout:
		return model.NewCheckinError(model.CheckinFailureTimeout, "位置情報の取得がタイムアウトしました")
	case model.AuthStateDenied:
		if result.ErrorCode == model.GeolocationPermissionDenied {
			return model.NewCheckinError(model.CheckinFailurePermissionDenied, "位置情報の利用が許可されていません")
		}
		return model.NewCheckinError(model.CheckinFailurePositionUnavailable, "位置情報を取得できませんでした")
	default:
		// granted だが圏外
		shortfall := result.DistanceMeters - result.AllowedRadiusMeters
		return &model.CheckinError{
			Code:                model.CheckinFailureOutOfRange,
			Message:             fmt.Sprintf("スポットの圏外です（あと約%.0fm近づいてください）", shortfall),
			DistanceMeters:      result.DistanceMeters,
			AllowedRadiusMeters: result.AllowedRadiusMeters,
		}
	}
}
