package friend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"socialhub/internal/constants"
	"socialhub/internal/logger"
	"socialhub/internal/model"

	"github.com/go-redis/redis/v8"
)

// Cache 缓存 AreFriends 的结果，只服务于读取，写操作从不依赖它。
// Get 同时返回该对用户当前的版本号，Set 只在版本未变时写入，
// 这样读库期间发生的 Invalidate 不会被旧结果覆盖
type Cache interface {
	Get(ctx context.Context, a, b uint) (friends bool, version int64, ok bool)
	Set(ctx context.Context, a, b uint, friends bool, version int64)
	Invalidate(ctx context.Context, a, b uint)
}

type nopCache struct{}

func (nopCache) Get(context.Context, uint, uint) (bool, int64, bool) { return false, 0, false }
func (nopCache) Set(context.Context, uint, uint, bool, int64)        {}
func (nopCache) Invalidate(context.Context, uint, uint)              {}

var errStaleVersion = errors.New("friend cache version changed")

// RedisCache 基于 Redis 的好友关系缓存，失败只记录日志
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache client 为 nil 时返回空实现
func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	if client == nil {
		return nopCache{}
	}
	if ttl <= 0 {
		ttl = constants.FriendCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func pairCacheKey(a, b uint) string {
	low, high := model.OrderedPair(a, b)
	return fmt.Sprintf(constants.RedisKeyFriendPair, low, high)
}

func pairVersionKey(a, b uint) string {
	low, high := model.OrderedPair(a, b)
	return fmt.Sprintf(constants.RedisKeyFriendPairVersion, low, high)
}

func (c *RedisCache) Get(ctx context.Context, a, b uint) (bool, int64, bool) {
	vals, err := c.client.MGet(ctx, pairCacheKey(a, b), pairVersionKey(a, b)).Result()
	if err != nil {
		logger.Warn("读取好友关系缓存失败", "error", err)
		// 版本未知时给出 -1，随后的 Set 不会命中
		return false, -1, false
	}

	version, err := parseVersion(vals[1])
	if err != nil {
		logger.Warn("好友关系缓存版本无效", "error", err)
		return false, -1, false
	}
	val, ok := vals[0].(string)
	if !ok {
		return false, version, false
	}
	return val == "1", version, true
}

func (c *RedisCache) Set(ctx context.Context, a, b uint, friends bool, version int64) {
	if version < 0 {
		return
	}
	val := "0"
	if friends {
		val = "1"
	}
	key, verKey := pairCacheKey(a, b), pairVersionKey(a, b)

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, verKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		v, err := parseVersion(current)
		if err != nil {
			return err
		}
		if v != version {
			return errStaleVersion
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, val, c.ttl)
			return nil
		})
		return err
	}, verKey)

	switch {
	case err == nil, errors.Is(err, errStaleVersion), errors.Is(err, redis.TxFailedErr):
		// 版本变化说明读库期间发生了失效，放弃写入
	default:
		logger.Warn("写入好友关系缓存失败", "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, a, b uint) {
	key, verKey := pairCacheKey(a, b), pairVersionKey(a, b)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.Incr(ctx, verKey)
		pipe.Expire(ctx, verKey, constants.FriendCacheVersionTTL)
		return nil
	})
	if err != nil {
		logger.Warn("清理好友关系缓存失败", "error", err)
	}
}

// parseVersion 键不存在时版本为 0
func parseVersion(v interface{}) (int64, error) {
	switch s := v.(type) {
	case nil:
		return 0, nil
	case string:
		if s == "" {
			return 0, nil
		}
		return strconv.ParseInt(s, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected version type %T", v)
	}
}
