package cache

import (
	"context"
	"strconv"
	"time"

	"PostPilot/storage/redis"
)

// 画像补齐消息的幂等标记：worker 消费前 SetNX 占位，
// 重复投递的同一条消息直接跳过

const (
	enrichMessagePrefix = "enrich:msg"
	enrichMessageTTL    = 7 * 24 * time.Hour
)

// MarkMessageProcessed 尝试占用消息 ID，返回 false 表示已被处理过
func MarkMessageProcessed(ctx context.Context, messageID int64) (bool, error) {
	key := redis.Key(enrichMessagePrefix, strconv.FormatInt(messageID, 10))
	return redis.Client().SetNX(ctx, key, 1, enrichMessageTTL).Result()
}

// UnmarkMessage 处理失败时释放占位，让重投的消息可以再次执行
func UnmarkMessage(ctx context.Context, messageID int64) error {
	key := redis.Key(enrichMessagePrefix, strconv.FormatInt(messageID, 10))
	return redis.Client().Del(ctx, key).Err()
}
