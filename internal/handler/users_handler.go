package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kyomeguri-backend/internal/middleware"
	"kyomeguri-backend/internal/usecase"
)

// UsersHandler ユーザー情報APIのハンドラー
type UsersHandler struct {
	userProfileUseCase usecase.UserProfileUseCase
}

// NewUsersHandler 新しいUsersHandlerインスタンスを作成
func NewUsersHandler(userProfileUseCase usecase.UserProfileUseCase) *UsersHandler {
	return &UsersHandler{
		userProfileUseCase: userProfileUseCase,
	}
}

// GetMe GET /users/me - コイン残高とチェックイン実績の取得
func (h *UsersHandler) GetMe(c *gin.Context) {
	wallet, err := h.userProfileUseCase.GetWallet(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "ユーザー情報の取得に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// GetMyCheckins GET /users/me/checkins - チェックイン履歴の取得
func (h *UsersHandler) GetMyCheckins(c *gin.Context) {
	response, err := h.userProfileUseCase.GetCheckinHistory(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "チェックイン履歴の取得に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
