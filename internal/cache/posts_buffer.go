package cache

import (
	"context"
	"strconv"
	"time"

	ri "github.com/redis/go-redis/v9"

	"PostPilot/storage/redis"
)

// 样本帖子的导入批次登记：发起外部导入时登记 batch_id -> user_id，
// 回调携带 batch_id 核销，过期未回调的批次自动失效

const (
	importBatchPrefix = "posts:import"
	importBatchTTL    = 1 * time.Hour
)

func RegisterImportBatch(ctx context.Context, batchID string, userID int64) error {
	key := redis.Key(importBatchPrefix, batchID)
	return redis.Client().Set(ctx, key, strconv.FormatInt(userID, 10), importBatchTTL).Err()
}

// ResolveImportBatch 核销批次，返回对应的用户。未登记或已过期返回 (0, nil)
func ResolveImportBatch(ctx context.Context, batchID string) (int64, error) {
	key := redis.Key(importBatchPrefix, batchID)

	val, err := redis.Client().Get(ctx, key).Result()
	if err != nil {
		if err == ri.Nil {
			return 0, nil
		}
		return 0, err
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func DeleteImportBatch(ctx context.Context, batchID string) error {
	key := redis.Key(importBatchPrefix, batchID)
	return redis.Client().Del(ctx, key).Err()
}

// 步骤四的编辑缓冲：草稿接口自动保存的未提交文本，GetState 恢复时
// 覆盖展示。权威数据在 wizard_sessions.sample_posts，缓冲可丢

func SetPostsBuffer(ctx context.Context, userID int64, posts []string) error {
	key := strconv.FormatInt(userID, 10)
	return PostsBufferProtectedCache.Set(ctx, key, posts)
}

func GetPostsBuffer(ctx context.Context, userID int64) ([]string, error) {
	key := strconv.FormatInt(userID, 10)
	var posts []string

	hit, err := PostsBufferProtectedCache.Get(ctx, key, &posts)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, nil
	}
	return posts, nil
}

func DeletePostsBuffer(ctx context.Context, userID int64) error {
	key := strconv.FormatInt(userID, 10)
	return PostsBufferProtectedCache.Delete(ctx, key)
}
