package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// userIDContextKey gin.Contextに格納するユーザーIDのキー
const userIDContextKey = "userID"

// ヘッダー認証モード（JWT_SECRET未設定時）の既定ユーザー
const (
	devUserIDHeader  = "X-User-ID"
	devDefaultUserID = "demo-user"
)

// UserIDFromContext 認証済みユーザーIDを取得する（未認証なら空文字列）
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(userIDContextKey)
}

// JWTAuth Bearerトークンを検証するミドルウェア（トークン必須）
// JWT_SECRETが未設定の場合はX-User-IDヘッダーで代替する開発用モードになる
func JWTAuth(jwtSecret string) gin.HandlerFunc {
	if jwtSecret == "" {
		return devHeaderAuth()
	}

	return func(c *gin.Context) {
		userID, ok := userIDFromToken(c, jwtSecret)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "認証に失敗しました",
				"message": "有効なBearerトークンが必要です",
			})
			c.Abort()
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// OptionalJWTAuth Bearerトークンがあれば検証するミドルウェア
// トークンがない場合は匿名のまま続行する（一覧表示の訪問済みマージ用）
// 提示されたトークンが不正な場合は匿名扱いにせず401を返す
func OptionalJWTAuth(jwtSecret string) gin.HandlerFunc {
	if jwtSecret == "" {
		return func(c *gin.Context) {
			if userID := c.GetHeader(devUserIDHeader); userID != "" {
				c.Set(userIDContextKey, userID)
			}
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		userID, ok := userIDFromToken(c, jwtSecret)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "認証に失敗しました",
				"message": "有効なBearerトークンが必要です",
			})
			c.Abort()
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// devHeaderAuth JWT_SECRET未設定時のヘッダー認証
func devHeaderAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(devUserIDHeader)
		if userID == "" {
			userID = devDefaultUserID
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// userIDFromToken AuthorizationヘッダーのBearerトークンを検証してユーザーIDを取り出す
func userIDFromToken(c *gin.Context, jwtSecret string) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}

	// 標準のsubクレームを優先し、独自のuser_idクレームも受け付ける
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, true
	}
	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID, true
	}
	return "", false
}
