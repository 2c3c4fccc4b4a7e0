package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/middleware"
	"github.com/aaravmahajanofficial/pos-inventory/internal/config"
	"github.com/redis/go-redis/v9"
)

const loginAttemptsPrefix = "pos:login_attempts:"

// RateLimitResult describes the outcome of one login attempt check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter int
}

type RateLimitRepository interface {
	CheckLoginRateLimit(ctx context.Context, username string) (RateLimitResult, error)
	ResetLoginAttempts(ctx context.Context, username string) error
}

type redisRepository struct {
	client *redis.Client
	limits config.RateConfig
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	redisURL := cfg.RedisConnect.GetDSN()
	slog.Info("Connecting to Redis", slog.String("host", cfg.RedisConnect.Host), slog.String("port", cfg.RedisConnect.Port))

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis")
	return client, nil
}

func NewRateLimitRepo(client *redis.Client, limits config.RateConfig) RateLimitRepository {
	return &redisRepository{client: client, limits: limits}
}

func loginAttemptsKey(username string) string {
	return loginAttemptsPrefix + username
}

// CheckLoginRateLimit records an attempt in a sliding window stored as a
// sorted set scored by unix time.
func (r *redisRepository) CheckLoginRateLimit(ctx context.Context, username string) (RateLimitResult, error) {

	logger := middleware.LoggerFromContext(ctx)

	key := loginAttemptsKey(username)
	now := time.Now()
	window := int64(r.limits.WindowSize.Seconds())
	windowStart := now.Unix() - window

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.Unix()), Member: now.UnixNano()})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.limits.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return RateLimitResult{}, fmt.Errorf("rate limit pipeline for %s: %w", key, err)
	}

	attempts := count.Val()

	if attempts > r.limits.MaxAttempts {
		scores, err := r.client.ZRangeWithScores(ctx, key, 0, 0).Result()
		if err != nil {
			return RateLimitResult{RetryAfter: int(window)}, fmt.Errorf("oldest attempt for %s: %w", key, err)
		}
		if len(scores) == 0 {
			return RateLimitResult{RetryAfter: int(window)}, nil
		}

		retryAfter := max(int64(scores[0].Score)+window-now.Unix(), 0)

		logger.Warn("Login rate limit exceeded", slog.String("username", username), slog.Int64("attempts", attempts))
		return RateLimitResult{RetryAfter: int(retryAfter)}, nil
	}

	return RateLimitResult{Allowed: true, Remaining: int(r.limits.MaxAttempts - attempts)}, nil
}

func (r *redisRepository) ResetLoginAttempts(ctx context.Context, username string) error {
	if err := r.client.Del(ctx, loginAttemptsKey(username)).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}
