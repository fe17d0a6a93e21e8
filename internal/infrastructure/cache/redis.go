package cache

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisClient 地理インデックス用のRedisクライアントのラッパー
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient 新しいRedisクライアントを作成
func NewRedisClient(ctx context.Context, addr, password string, db int) (*RedisClient, error) {
	if addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR環境変数が設定されていません")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redisへの接続に失敗: %w", err)
	}

	log.Printf("✅ Redis client initialized: %s (db %d)", addr, db)
	return &RedisClient{client: client}, nil
}

// Close Redis接続を閉じる
func (rc *RedisClient) Close() error {
	return rc.client.Close()
}

// GetClient Redisクライアントを取得
func (rc *RedisClient) GetClient() *redis.Client {
	return rc.client
}
