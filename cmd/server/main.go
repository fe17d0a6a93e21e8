package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kyomeguri-backend/internal/config"
	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
	"kyomeguri-backend/internal/domain/service"
	"kyomeguri-backend/internal/handler"
	"kyomeguri-backend/internal/infrastructure/cache"
	"kyomeguri-backend/internal/infrastructure/database"
	"kyomeguri-backend/internal/infrastructure/firestore"
	repoImpl "kyomeguri-backend/internal/repository"
	"kyomeguri-backend/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	// ストレージバックエンドの選択
	// PostgreSQL直接続 > Supabase REST API > インメモリ の優先順
	var (
		spotsRepo  repository.SpotsRepository
		visitsRepo repository.VisitsRepository
	)
	switch {
	case cfg.Supabase.HasDirectDB():
		fmt.Println("Initializing PostgreSQL client...")
		pgClient, err := database.NewPostgreSQLClientWithRetry(cfg.Supabase.URL, cfg.Supabase.DBPassword, 3, 2*time.Second)
		if err != nil {
			log.Fatalf("PostgreSQLクライアント初期化失敗: %v", err)
		}
		defer pgClient.Close()

		spotsRepo = repoImpl.NewPostgresSpotsRepository(pgClient)
		visitsRepo = repoImpl.NewPostgresVisitsRepository(pgClient)
		fmt.Println("✅ PostgreSQL (PostGIS) 直接続で起動")

	case cfg.Supabase.HasAPI():
		fmt.Println("Initializing Supabase client...")
		supabaseClient, err := database.NewSupabaseClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
		if err != nil {
			log.Fatalf("Supabaseクライアント初期化失敗: %v", err)
		}
		if err := supabaseClient.HealthCheck(); err != nil {
			log.Fatalf("Supabaseヘルスチェック失敗: %v", err)
		}

		spotsRepo = repoImpl.NewSupabaseSpotsRepository(supabaseClient)
		visitsRepo = repoImpl.NewSupabaseVisitsRepository(supabaseClient)
		fmt.Println("✅ Supabase REST APIで起動")

	default:
		log.Println("⚠️ SUPABASE_URL未設定: インメモリストレージで起動します（データは永続化されません）")
		spotsRepo = repoImpl.NewMemorySpotsRepository(repoImpl.DefaultKyotoSpots())
		visitsRepo = repoImpl.NewMemoryVisitsRepository()
	}

	// チェックインセッションの保存先
	var sessionsRepo repository.CheckinSessionRepository
	if cfg.Firestore.Enabled() {
		fmt.Println("Initializing Firestore client...")
		fsClient, err := firestore.NewFirestoreClient(ctx, cfg.Firestore.ProjectID)
		if err != nil {
			log.Fatalf("Firestoreクライアント初期化失敗: %v", err)
		}
		defer fsClient.Close()

		sessionsRepo = repoImpl.NewFirestoreCheckinSessionRepository(fsClient.GetClient())
	} else {
		log.Println("⚠️ FIRESTORE_PROJECT_ID未設定: チェックインセッションはインメモリ保存")
		sessionsRepo = repoImpl.NewMemoryCheckinSessionRepository()
	}

	// 近傍検索用の地理インデックス（任意）
	var geoIndex repository.SpotsGeoIndex
	if cfg.Redis.Enabled() {
		fmt.Println("Initializing Redis client...")
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("⚠️ Redis初期化失敗（地理インデックスなしで続行）: %v", err)
		} else {
			defer redisClient.Close()
			geoIndex = repoImpl.NewRedisSpotsGeoIndex(redisClient)

			if spots, err := spotsRepo.GetAll(ctx, "", ""); err != nil {
				log.Printf("⚠️ 地理インデックス構築用のスポット取得に失敗: %v", err)
			} else if err := geoIndex.Rebuild(ctx, spots); err != nil {
				log.Printf("⚠️ 地理インデックスの再構築に失敗: %v", err)
			}
		}
	}

	// 位置情報認可サービス
	authorizer := service.NewLocationAuthorizer(service.LocationAuthorizerOptions{
		DefaultRadiusMeters: cfg.Checkin.RadiusMeters,
		Timeout:             cfg.Checkin.LocationTimeout,
		TestMode:            cfg.Checkin.TestMode,
		TestLocation:        model.LatLng{Lat: cfg.Checkin.TestLatitude, Lng: cfg.Checkin.TestLongitude},
	})
	if cfg.Checkin.TestMode {
		log.Printf("🧪 テストモード有効: 固定座標 (%.6f, %.6f) で常に圏内として判定します",
			cfg.Checkin.TestLatitude, cfg.Checkin.TestLongitude)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Println("⚠️ JWT_SECRET未設定: X-User-IDヘッダーによる開発用認証で動作します")
	}

	// Dependency injection
	spotListUseCase := usecase.NewSpotListUseCase(spotsRepo, visitsRepo, geoIndex, cfg.Checkin.DefaultCoins)
	checkinUseCase := usecase.NewCheckinUseCase(spotsRepo, visitsRepo, sessionsRepo, authorizer, cfg.Checkin.DefaultCoins)
	userProfileUseCase := usecase.NewUserProfileUseCase(visitsRepo)

	spotsHandler := handler.NewSpotsHandler(spotListUseCase)
	checkinHandler := handler.NewCheckinHandler(checkinUseCase)
	usersHandler := handler.NewUsersHandler(userProfileUseCase)

	router := handler.NewRouter(spotsHandler, checkinHandler, usersHandler, handler.RouterOptions{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		fmt.Printf("🚀 kyomeguri-backend server starting on :%s...\n", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("サーバー起動失敗: %v", err)
		}
	}()

	// SIGINT/SIGTERMでグレースフルシャットダウン
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("サーバー強制終了: %v", err)
	}

	log.Println("Server exited")
}
