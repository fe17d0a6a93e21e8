package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
	"kyomeguri-backend/internal/middleware"
	"kyomeguri-backend/internal/usecase"
)

// CheckinHandler チェックインAPIのハンドラー
type CheckinHandler struct {
	checkinUseCase usecase.CheckinUseCase
}

// NewCheckinHandler 新しいCheckinHandlerインスタンスを作成
func NewCheckinHandler(checkinUseCase usecase.CheckinUseCase) *CheckinHandler {
	return &CheckinHandler{
		checkinUseCase: checkinUseCase,
	}
}

// PostCheckin POST /spots/:id/checkins - スポットへのチェックイン
// 端末の位置情報報告（座標または取得エラー）を受け取り、圏内判定を行う
func (h *CheckinHandler) PostCheckin(c *gin.Context) {
	spotID := c.Param("id")

	var req model.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "リクエストの形式が正しくありません: " + err.Error(),
		})
		return
	}

	if err := validateLocationReport(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	response, err := h.checkinUseCase.CheckIn(c.Request.Context(), middleware.UserIDFromContext(c), spotID, req.ToLocationReport())
	if err != nil {
		h.respondCheckinError(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// PostSession POST /checkins/sessions - チェックインセッションの開始
func (h *CheckinHandler) PostSession(c *gin.Context) {
	var req model.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "リクエストの形式が正しくありません: " + err.Error(),
		})
		return
	}
	if req.SpotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "spot_id: スポットIDは必須です",
		})
		return
	}

	session, err := h.checkinUseCase.OpenSession(c.Request.Context(), middleware.UserIDFromContext(c), req.SpotID)
	if err != nil {
		h.respondCheckinError(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSession GET /checkins/sessions/:id - セッション状態の取得
func (h *CheckinHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("id")

	session, err := h.checkinUseCase.GetSession(c.Request.Context(), middleware.UserIDFromContext(c), sessionID)
	if err != nil {
		h.respondCheckinError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, session)
}

// PostSessionLocation POST /checkins/sessions/:id/location - セッションへの位置情報報告
// セッションを終端状態に遷移させ、成立時はチェックイン結果も返す
func (h *CheckinHandler) PostSessionLocation(c *gin.Context) {
	sessionID := c.Param("id")

	var req model.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "リクエストの形式が正しくありません: " + err.Error(),
		})
		return
	}

	if err := validateLocationReport(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	session, response, err := h.checkinUseCase.ResolveSession(c.Request.Context(), middleware.UserIDFromContext(c), sessionID, req.ToLocationReport())
	if err != nil {
		h.respondCheckinError(c, err, session)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"checkin": response,
	})
}

// respondCheckinError チェックイン系エラーをHTTPステータスに変換する
func (h *CheckinHandler) respondCheckinError(c *gin.Context, err error, session *model.CheckinSession) {
	var checkinErr *model.CheckinError
	if errors.As(err, &checkinErr) {
		body := gin.H{
			"error":   string(checkinErr.Code),
			"message": checkinErr.Message,
		}
		if checkinErr.Code == model.CheckinFailureOutOfRange {
			body["distance_meters"] = checkinErr.DistanceMeters
			body["allowed_radius_meters"] = checkinErr.AllowedRadiusMeters
		}
		if session != nil {
			body["session_state"] = session.State
		}
		c.JSON(checkinStatusFor(checkinErr.Code), body)
		return
	}

	if errors.Is(err, repository.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "session_not_found",
			"message": "チェックインセッションが見つかりません",
		})
		return
	}
	if errors.Is(err, usecase.ErrSessionAlreadyResolved) {
		body := gin.H{
			"error":   "session_already_resolved",
			"message": "チェックインセッションは既に解決済みです",
		}
		if session != nil {
			body["session_state"] = session.State
		}
		c.JSON(http.StatusConflict, body)
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "チェックイン処理に失敗しました: " + err.Error(),
	})
}

// checkinStatusFor 失敗区分ごとのHTTPステータス
func checkinStatusFor(code model.CheckinFailureCode) int {
	switch code {
	case model.CheckinFailureSpotNotFound:
		return http.StatusNotFound
	case model.CheckinFailureAlreadyVisited:
		return http.StatusConflict
	case model.CheckinFailureOutOfRange:
		return http.StatusForbidden
	default:
		// 端末側の位置情報取得エラー（permission_denied / position_unavailable / timeout）
		return http.StatusUnprocessableEntity
	}
}

// validateLocationReport 位置情報報告の詳細バリデーションを行う
func validateLocationReport(req *model.CheckinRequest) error {
	if req.ErrorCode != "" {
		if !model.IsValidGeolocationError(req.ErrorCode) {
			return &ValidationError{Field: "error_code", Message: "error_codeはpermission_denied / position_unavailable / timeoutのいずれかを指定してください"}
		}
		return nil
	}

	if req.Location == nil {
		return &ValidationError{Field: "location", Message: "locationまたはerror_codeのどちらかが必要です"}
	}
	if req.Location.Latitude < -90 || req.Location.Latitude > 90 {
		return &ValidationError{Field: "location.latitude", Message: "緯度は-90から90の範囲で指定してください"}
	}
	if req.Location.Longitude < -180 || req.Location.Longitude > 180 {
		return &ValidationError{Field: "location.longitude", Message: "経度は-180から180の範囲で指定してください"}
	}
	if req.AccuracyMeters != nil && *req.AccuracyMeters < 0 {
		return &ValidationError{Field: "accuracy_meters", Message: "accuracy_metersは0以上で指定してください"}
	}

	return nil
}
