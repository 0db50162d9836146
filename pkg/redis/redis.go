package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
)

// Client Redis 客户端封装
// 用于会话 Token 缓存与登录限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 会话 Token 缓存 ──
// 每个账号只保留最近一次登录的 Token，三类账号的 id 序列互相独立，因此以 role+id 作为键

const tokenPrefix = "auth:token:"

func tokenKey(role string, userID uint) string {
	return tokenPrefix + role + ":" + strconv.FormatUint(uint64(userID), 10)
}

// SetUserToken 写入（覆盖）账号当前 Token
func (c *Client) SetUserToken(ctx context.Context, role string, userID uint, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, tokenKey(role, userID), token, ttl).Err()
}

// GetUserToken 读取账号当前 Token；不存在时返回 ok=false
func (c *Client) GetUserToken(ctx context.Context, role string, userID uint) (string, bool, error) {
	token, err := c.rdb.Get(ctx, tokenKey(role, userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

// DeleteUserToken 删除账号当前 Token
func (c *Client) DeleteUserToken(ctx context.Context, role string, userID uint) error {
	return c.rdb.Del(ctx, tokenKey(role, userID)).Err()
}

// ── 限流 ──

// CheckRateLimit 滑动窗口计数：窗口内请求数不超过 limit 时返回 true
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	var card *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
		pipe.ZAdd(ctx, key, goredis.Z{
			Score:  float64(now.UnixNano()),
			Member: uuid.New().String(),
		})
		card = pipe.ZCard(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, err
	}

	return card.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
