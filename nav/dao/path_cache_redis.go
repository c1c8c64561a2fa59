package dao

import (
	"context"
	"errors"
	"time"

	"github.com/pascaldisse/mxo-decompiled/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// 基于redis的寻路结果缓存与触发器事件流

const (
	RedisNavKeyPrefix      = "NAV"
	TriggerEventListMaxLen = 10000
)

func (d *Dao) GetRedisPathCacheKey(key string) string {
	return RedisNavKeyPrefix + ":PATH_CACHE:" + key
}

func (d *Dao) GetRedisTriggerEventKey() string {
	return RedisNavKeyPrefix + ":TRIGGER_EVENT"
}

// GetPathCache 读取寻路结果缓存 未命中返回nil
func (d *Dao) GetPathCache(key string) []byte {
	if d.redis == nil {
		return nil
	}
	data, err := d.redis.Get(context.TODO(), d.GetRedisPathCacheKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error("redis get path cache error: %v", err)
		}
		return nil
	}
	return data
}

// SetPathCache 写入寻路结果缓存
func (d *Dao) SetPathCache(key string, data []byte, ttl time.Duration) {
	if d.redis == nil {
		return
	}
	err := d.redis.Set(context.TODO(), d.GetRedisPathCacheKey(key), data, ttl).Err()
	if err != nil {
		logger.Error("redis set path cache error: %v", err)
	}
}

// PushTriggerEvent 触发器事件入队 供外部系统消费
func (d *Dao) PushTriggerEvent(data []byte) {
	if d.redis == nil {
		return
	}
	key := d.GetRedisTriggerEventKey()
	err := d.redis.LPush(context.TODO(), key, data).Err()
	if err != nil {
		logger.Error("redis push trigger event error: %v", err)
		return
	}
	_ = d.redis.LTrim(context.TODO(), key, 0, TriggerEventListMaxLen-1).Err()
}
