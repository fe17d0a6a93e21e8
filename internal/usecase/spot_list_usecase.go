package usecase

import (
	"context"
	"fmt"
	"log"

	"kyomeguri-backend/internal/domain/helper"
	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
)

// SpotListFilter 一覧取得の絞り込み条件
type SpotListFilter struct {
	Category string        // カテゴリコード（空なら全件）
	District string        // 行政区コード（空なら全件）
	Origin   *model.LatLng // 距離計算・ソートの基準点
	Limit    int           // 0以下なら無制限
}

type SpotListUseCase interface {
	// ListSpots は一覧画面のカードを組み立てて返す
	ListSpots(ctx context.Context, userID string, filter SpotListFilter) (*model.SpotListResponse, error)

	// GetSpot は単一スポットのカードを返す
	GetSpot(ctx context.Context, userID, spotID string) (*model.SpotCard, error)

	// ListNearby は指定地点の近傍スポットを距離昇順で返す
	ListNearby(ctx context.Context, userID string, location model.LatLng, radiusMeters float64, limit int) (*model.SpotListResponse, error)

	// ListCategories は表示順のカテゴリメタデータ一覧を返す
	ListCategories() []model.CategoryMeta

	// ListDistricts は表示順の行政区メタデータ一覧を返す
	ListDistricts() []model.DistrictMeta
}

// spotListUseCaseImpl はSpotListUseCaseの実装
type spotListUseCaseImpl struct {
	spotsRepo    repository.SpotsRepository
	visitsRepo   repository.VisitsRepository
	geoIndex     repository.SpotsGeoIndex // nilの場合はspotsRepoで代替
	defaultCoins int
}

// NewSpotListUseCase は新しいSpotListUseCaseインスタンスを作成
// geoIndexはオプションで、nilを渡すと近傍検索はSpotsRepositoryを使う
func NewSpotListUseCase(
	spotsRepo repository.SpotsRepository,
	visitsRepo repository.VisitsRepository,
	geoIndex repository.SpotsGeoIndex,
	defaultCoins int,
) SpotListUseCase {
	return &spotListUseCaseImpl{
		spotsRepo:    spotsRepo,
		visitsRepo:   visitsRepo,
		geoIndex:     geoIndex,
		defaultCoins: defaultCoins,
	}
}

// ListSpots は一覧画面のカードを組み立てて返す
// 基準点が指定された場合は距離昇順、指定がなければID順で並べる
func (u *spotListUseCaseImpl) ListSpots(ctx context.Context, userID string, filter SpotListFilter) (*model.SpotListResponse, error) {
	spots, err := u.spotsRepo.GetAll(ctx, filter.Category, filter.District)
	if err != nil {
		return nil, fmt.Errorf("スポット一覧の取得に失敗: %w", err)
	}

	if filter.Origin != nil {
		helper.SortByDistanceFromLocation(*filter.Origin, spots)
	} else {
		helper.SortByID(spots)
	}
	if filter.Limit > 0 && len(spots) > filter.Limit {
		spots = spots[:filter.Limit]
	}

	visitedSet, err := u.visitedSetFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	cards := make([]model.SpotCard, 0, len(spots))
	for _, spot := range spots {
		card := u.buildCard(spot, visitedSet)
		if filter.Origin != nil {
			distance := helper.HaversineDistanceSpot(*filter.Origin, spot)
			card.DistanceMeters = &distance
		}
		cards = append(cards, card)
	}

	return &model.SpotListResponse{Spots: cards, Total: len(cards)}, nil
}

// GetSpot は単一スポットのカードを返す
func (u *spotListUseCaseImpl) GetSpot(ctx context.Context, userID, spotID string) (*model.SpotCard, error) {
	spot, err := u.spotsRepo.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}

	visitedSet, err := u.visitedSetFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	card := u.buildCard(spot, visitedSet)
	return &card, nil
}

// ListNearby は指定地点の近傍スポットを距離昇順で返す
// 地理インデックスが使えない場合はリポジトリ検索にフォールバックする
func (u *spotListUseCaseImpl) ListNearby(ctx context.Context, userID string, location model.LatLng, radiusMeters float64, limit int) (*model.SpotListResponse, error) {
	nearby, err := u.searchNearby(ctx, location, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("近傍スポットの検索に失敗: %w", err)
	}

	visitedSet, err := u.visitedSetFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	cards := make([]model.SpotCard, 0, len(nearby))
	for _, n := range nearby {
		card := u.buildCard(n.Spot, visitedSet)
		distance := n.DistanceMeters
		card.DistanceMeters = &distance
		cards = append(cards, card)
	}

	return &model.SpotListResponse{Spots: cards, Total: len(cards)}, nil
}

func (u *spotListUseCaseImpl) searchNearby(ctx context.Context, location model.LatLng, radiusMeters float64, limit int) ([]model.NearbySpot, error) {
	if u.geoIndex != nil {
		nearby, err := u.geoIndex.SearchNearby(ctx, location, radiusMeters, limit)
		if err == nil {
			return nearby, nil
		}
		log.Printf("⚠️ 地理インデックス検索に失敗、リポジトリ検索にフォールバック: %v", err)
	}

	spots, err := u.spotsRepo.GetNearby(ctx, location, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	nearby := make([]model.NearbySpot, 0, len(spots))
	for _, spot := range spots {
		nearby = append(nearby, model.NearbySpot{
			Spot:           spot,
			DistanceMeters: helper.HaversineDistanceSpot(location, spot),
		})
	}
	return nearby, nil
}

// ListCategories は表示順のカテゴリメタデータ一覧を返す
func (u *spotListUseCaseImpl) ListCategories() []model.CategoryMeta {
	return model.GetAllCategories()
}

// ListDistricts は表示順の行政区メタデータ一覧を返す
func (u *spotListUseCaseImpl) ListDistricts() []model.DistrictMeta {
	return model.GetAllDistricts()
}

// visitedSetFor はユーザーの訪問済みスポットID集合を返す（未認証なら空集合）
func (u *spotListUseCaseImpl) visitedSetFor(ctx context.Context, userID string) (map[string]struct{}, error) {
	if userID == "" {
		return map[string]struct{}{}, nil
	}
	visitedSet, err := u.visitsRepo.GetVisitedSpotIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("訪問済みスポットの取得に失敗: %w", err)
	}
	return visitedSet, nil
}

// buildCard はスポットからカード表示用モデルを組み立てる
// カテゴリ・行政区コードを表示用メタデータに解決し、訪問状態をCTAの表示状態に反映する
func (u *spotListUseCaseImpl) buildCard(spot *model.Spot, visitedSet map[string]struct{}) model.SpotCard {
	_, visited := visitedSet[spot.ID]
	checkinState := model.CheckinStateCanCheckin
	if visited {
		checkinState = model.CheckinStateVisited
	}

	var location *model.Location
	if spot.Location != nil {
		location = &model.Location{}
		location.FromGeometry(spot.Location)
	}

	return model.SpotCard{
		ID:           spot.ID,
		Name:         spot.Name,
		Description:  spot.Description,
		Category:     model.GetCategoryMeta(spot.Category),
		District:     model.GetDistrictMeta(spot.District),
		Location:     location,
		CoinReward:   spot.CoinsOrDefault(u.defaultCoins),
		Visited:      visited,
		CheckinState: checkinState,
		MapURL:       buildMapURL(location),
		PhotoURL:     spot.PhotoURL,
	}
}

// buildMapURL は地図アプリで開くためのURLを組み立てる
func buildMapURL(location *model.Location) string {
	if location == nil {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%.6f,%.6f", location.Latitude, location.Longitude)
}
