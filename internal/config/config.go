package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config アプリケーション全体の設定
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Supabase  SupabaseConfig
	Firestore FirestoreConfig
	Redis     RedisConfig
	Checkin   CheckinConfig
}

// ServerConfig HTTPサーバーの設定
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// AuthConfig JWT認証の設定
type AuthConfig struct {
	JWTSecret string
}

// SupabaseConfig Supabase接続の設定
type SupabaseConfig struct {
	URL        string
	AnonKey    string
	DBPassword string
}

// HasAPI Supabase REST API経由の接続が可能かどうか
func (c SupabaseConfig) HasAPI() bool {
	return c.URL != "" && c.AnonKey != ""
}

// HasDirectDB PostgreSQL直接続が可能かどうか
func (c SupabaseConfig) HasDirectDB() bool {
	return c.URL != "" && c.DBPassword != ""
}

// FirestoreConfig Firestore接続の設定
type FirestoreConfig struct {
	ProjectID string
}

// Enabled Firestoreが利用可能かどうか
func (c FirestoreConfig) Enabled() bool {
	return c.ProjectID != ""
}

// RedisConfig Redis接続の設定（地理インデックス用）
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled Redisが利用可能かどうか
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// CheckinConfig チェックイン判定の設定
type CheckinConfig struct {
	RadiusMeters    float64       // 許容半径の既定値(m)
	LocationTimeout time.Duration // 位置情報取得のタイムアウト
	DefaultCoins    int           // チェックイン報酬コインの既定値
	TestMode        bool          // テストモード（位置判定をバイパス）
	TestLatitude    float64       // テストモードで使用する固定緯度
	TestLongitude   float64       // テストモードで使用する固定経度
}

// テストモードの既定座標は清水寺
const (
	defaultTestLatitude  = 34.994856
	defaultTestLongitude = 135.785046
)

// Load 環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Supabase: SupabaseConfig{
			URL:        getEnv("SUPABASE_URL", ""),
			AnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
			DBPassword: getEnv("SUPABASE_DB_PASSWORD", ""),
		},
		Firestore: FirestoreConfig{
			ProjectID: getEnv("FIRESTORE_PROJECT_ID", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Checkin: CheckinConfig{
			RadiusMeters:    getEnvFloat("CHECKIN_RADIUS_METERS", 100),
			LocationTimeout: time.Duration(getEnvInt("LOCATION_TIMEOUT_SECONDS", 10)) * time.Second,
			DefaultCoins:    getEnvInt("CHECKIN_COINS_DEFAULT", 10),
			TestMode:        getEnvBool("CHECKIN_TEST_MODE", false),
			TestLatitude:    getEnvFloat("TEST_LATITUDE", defaultTestLatitude),
			TestLongitude:   getEnvFloat("TEST_LONGITUDE", defaultTestLongitude),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️ %s の値 %q を解釈できないため既定値 %d を使用", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("⚠️ %s の値 %q を解釈できないため既定値 %g を使用", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("⚠️ %s の値 %q を解釈できないため既定値 %t を使用", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func splitOrigins(value string) []string {
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
