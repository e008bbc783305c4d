package cache

import (
	"context"
	"strconv"
	"time"

	"PostPilot/storage/redis"
)

// 完成标记的 Redis 镜像。读方是网关，按 key 是否存在做快速路由，
// 不经过本服务；权威记录是 users.onboarding_completed，
// 镜像缺失时网关回源接口判断

const (
	completionPrefix = "onboarding:completed"
	completionTTL    = 30 * 24 * time.Hour
)

func SetCompleted(ctx context.Context, userID int64) error {
	key := redis.Key(completionPrefix, strconv.FormatInt(userID, 10))
	return redis.Client().Set(ctx, key, 1, completionTTL).Err()
}
