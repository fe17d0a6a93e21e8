package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
	"kyomeguri-backend/internal/middleware"
	"kyomeguri-backend/internal/usecase"
)

// 近傍検索の半径(m)の既定値と上限
const (
	defaultNearbyRadiusMeters = 2000.0
	maxNearbyRadiusMeters     = 50000.0
)

// SpotsHandler スポット一覧・詳細APIのハンドラー
type SpotsHandler struct {
	spotListUseCase usecase.SpotListUseCase
}

// NewSpotsHandler 新しいSpotsHandlerインスタンスを作成
func NewSpotsHandler(spotListUseCase usecase.SpotListUseCase) *SpotsHandler {
	return &SpotsHandler{
		spotListUseCase: spotListUseCase,
	}
}

// GetSpots GET /spots - スポット一覧の取得
// category / district で絞り込み、lat+lng指定で距離昇順ソート
func (h *SpotsHandler) GetSpots(c *gin.Context) {
	filter := usecase.SpotListFilter{
		Category: c.Query("category"),
		District: c.Query("district"),
	}

	origin, err := parseOptionalLatLng(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": err.Error(),
		})
		return
	}
	filter.Origin = origin

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": "limitは0以上の整数で指定してください",
			})
			return
		}
		filter.Limit = limit
	}

	response, err := h.spotListUseCase.ListSpots(c.Request.Context(), middleware.UserIDFromContext(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "スポット一覧の取得に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetSpotByID GET /spots/:id - スポット詳細の取得
func (h *SpotsHandler) GetSpotByID(c *gin.Context) {
	spotID := c.Param("id")

	card, err := h.spotListUseCase.GetSpot(c.Request.Context(), middleware.UserIDFromContext(c), spotID)
	if err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "spot_not_found",
				"message": "スポットが見つかりません: " + spotID,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "スポットの取得に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, card)
}

// GetNearbySpots GET /spots/nearby - 近傍スポットの検索
// lat / lng は必須、radius は省略時2000m
func (h *SpotsHandler) GetNearbySpots(c *gin.Context) {
	origin, err := parseOptionalLatLng(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": err.Error(),
		})
		return
	}
	if origin == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "latとlngは必須です",
		})
		return
	}

	radius := defaultNearbyRadiusMeters
	if radiusStr := c.Query("radius"); radiusStr != "" {
		parsed, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": "radiusは正の数値で指定してください",
			})
			return
		}
		radius = parsed
	}
	if radius > maxNearbyRadiusMeters {
		radius = maxNearbyRadiusMeters
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": "limitは0以上の整数で指定してください",
			})
			return
		}
		limit = parsed
	}

	response, err := h.spotListUseCase.ListNearby(c.Request.Context(), middleware.UserIDFromContext(c), *origin, radius, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "近傍スポットの検索に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCategories GET /spots/categories - カテゴリ一覧の取得
func (h *SpotsHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.spotListUseCase.ListCategories(),
	})
}

// GetDistricts GET /spots/districts - 行政区一覧の取得
func (h *SpotsHandler) GetDistricts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"districts": h.spotListUseCase.ListDistricts(),
	})
}

// parseOptionalLatLng lat/lngクエリパラメータを解析する
// 両方未指定ならnil、片方だけの指定はエラー
func parseOptionalLatLng(c *gin.Context) (*model.LatLng, error) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")

	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, &ValidationError{Field: "lat,lng", Message: "latとlngは両方指定してください"}
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, &ValidationError{Field: "lat", Message: "latは数値で指定してください"}
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, &ValidationError{Field: "lng", Message: "lngは数値で指定してください"}
	}

	if lat < -90 || lat > 90 {
		return nil, &ValidationError{Field: "lat", Message: "緯度は-90から90の範囲で指定してください"}
	}
	if lng < -180 || lng > 180 {
		return nil, &ValidationError{Field: "lng", Message: "経度は-180から180の範囲で指定してください"}
	}

	return &model.LatLng{Lat: lat, Lng: lng}, nil
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
