package cache

import (
	"context"
	"strconv"

	"PostPilot/internal/model"
)

// 画像草稿缓存：合成结果先落这里供预览步快速读取，
// 权威数据始终在 Postgres，缓存丢失可随时从库里重建

func SetProfileDraft(ctx context.Context, userID int64, data *model.ProfileData) error {
	key := strconv.FormatInt(userID, 10)
	return DraftProtectedCache.Set(ctx, key, data)
}

// GetProfileDraft 读取草稿。未命中返回 (nil, nil)，由调用方回源数据库
func GetProfileDraft(ctx context.Context, userID int64) (*model.ProfileData, error) {
	key := strconv.FormatInt(userID, 10)
	var data model.ProfileData

	hit, err := DraftProtectedCache.Get(ctx, key, &data)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, nil
	}

	return &data, nil
}

// DeleteProfileDraft 完成引导后清理草稿
func DeleteProfileDraft(ctx context.Context, userID int64) error {
	key := strconv.FormatInt(userID, 10)
	return DraftProtectedCache.Delete(ctx, key)
}
