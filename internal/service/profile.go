package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"PostPilot/internal/cache"
	"PostPilot/internal/model"
	"PostPilot/internal/model/dto"
	"PostPilot/pkg/errors"
	"PostPilot/pkg/logger"
	"PostPilot/storage/database"
)

var (
	profileService *ProfileService
	profileOnce    sync.Once
)

func Profile() *ProfileService {
	profileOnce.Do(func() {
		profileService = &ProfileService{}
	})
	return profileService
}

type ProfileService struct{}

func loadProfile(ctx context.Context, userID int64) (*model.ProfileContext, error) {
	var profile model.ProfileContext
	err := database.DB().WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ProfileNotReady
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &profile, nil
}

func (s *ProfileService) saveAndRefresh(ctx context.Context, profile *model.ProfileContext) error {
	if err := database.DB().WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	// 草稿缓存跟着字段级保存一起刷新，失败只降级
	if err := cache.SetProfileDraft(ctx, profile.UserID, &profile.Data); err != nil {
		logger.Logger.Warn("Failed to refresh profile draft",
			zap.Int64("user_id", profile.UserID),
			zap.Error(err),
		)
	}
	return nil
}

func buildProfileDTO(data *model.ProfileData) (*dto.ProfileData, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	return &dto.ProfileData{
		Data:        raw,
		MergedIdeas: data.MergedIdeas(),
	}, nil
}

// Get 读画像：草稿缓存命中直接返回，否则回源数据库
func (s *ProfileService) Get(ctx context.Context, userID int64) (*dto.ProfileData, error) {
	if draft, err := cache.GetProfileDraft(ctx, userID); err == nil && draft != nil {
		return buildProfileDTO(draft)
	} else if err != nil {
		logger.Logger.Warn("Profile draft read failed, falling back to database",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	profile, err := loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return buildProfileDTO(&profile.Data)
}

// UpdateField 标量字段编辑，提交即落库（last-write-wins）
func (s *ProfileService) UpdateField(ctx context.Context, userID int64, req *dto.UpdateFieldRequest) (*dto.ProfileData, error) {
	profile, err := loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := profile.Data.ApplyFieldUpdate(req.Section, req.Field, req.Value); err != nil {
		return nil, err
	}

	if err := s.saveAndRefresh(ctx, profile); err != nil {
		return nil, err
	}

	return buildProfileDTO(&profile.Data)
}

// SelectAlternative 采纳备选项
func (s *ProfileService) SelectAlternative(ctx context.Context, userID int64, req *dto.SelectAlternativeRequest) (*dto.ProfileData, error) {
	profile, err := loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := profile.Data.SelectAlternative(req.Section, req.Field, req.Index); err != nil {
		return nil, err
	}

	if err := s.saveAndRefresh(ctx, profile); err != nil {
		return nil, err
	}

	return buildProfileDTO(&profile.Data)
}

// ApplyListOp 列表段编辑，add/update/remove/move 立即生效
func (s *ProfileService) ApplyListOp(ctx context.Context, userID int64, req *dto.ListOpRequest) (*dto.ProfileData, error) {
	profile, err := loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	op := model.ListOp{
		Action: model.ListOpAction(req.Action),
		Index:  req.Index,
		To:     req.To,
		Item:   req.Item,
	}
	if err := profile.Data.ApplyListOp(req.Section, op); err != nil {
		return nil, err
	}

	if err := s.saveAndRefresh(ctx, profile); err != nil {
		return nil, err
	}

	return buildProfileDTO(&profile.Data)
}
