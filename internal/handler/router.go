package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kyomeguri-backend/internal/middleware"
)

// RouterOptions ルーター組み立てに必要な設定
type RouterOptions struct {
	JWTSecret      string
	AllowedOrigins []string
}

// NewRouter 全エンドポイントを配線したginルーターを作成
// 一覧系は匿名アクセス可（トークンがあれば訪問済み状態をマージ）、
// チェックイン系とユーザー系はトークン必須
func NewRouter(
	spotsHandler *SpotsHandler,
	checkinHandler *CheckinHandler,
	usersHandler *UsersHandler,
	opts RouterOptions,
) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "kyomeguri-backend",
		})
	})

	spots := r.Group("/spots")
	spots.Use(middleware.OptionalJWTAuth(opts.JWTSecret))
	{
		spots.GET("", spotsHandler.GetSpots)
		spots.GET("/nearby", spotsHandler.GetNearbySpots)
		spots.GET("/categories", spotsHandler.GetCategories)
		spots.GET("/districts", spotsHandler.GetDistricts)
		spots.GET("/:id", spotsHandler.GetSpotByID)
	}
	r.POST("/spots/:id/checkins", middleware.JWTAuth(opts.JWTSecret), checkinHandler.PostCheckin)

	checkins := r.Group("/checkins")
	checkins.Use(middleware.JWTAuth(opts.JWTSecret))
	{
		checkins.POST("/sessions", checkinHandler.PostSession)
		checkins.GET("/sessions/:id", checkinHandler.GetSession)
		checkins.POST("/sessions/:id/location", checkinHandler.PostSessionLocation)
	}

	users := r.Group("/users")
	users.Use(middleware.JWTAuth(opts.JWTSecret))
	{
		users.GET("/me", usersHandler.GetMe)
		users.GET("/me/checkins", usersHandler.GetMyCheckins)
	}

	return r
}
