package service

import (
	"context"
	"fmt"
	"sync"
	"time"

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
	wizardService *WizardService
	wizardOnce    sync.Once
)

func Wizard() *WizardService {
	wizardOnce.Do(func() {
		wizardService = &WizardService{}
	})
	return wizardService
}

type WizardService struct{}

func loadSession(ctx context.Context, userID int64) (*model.WizardSession, error) {
	var session model.WizardSession
	err := database.DB().WithContext(ctx).Where("user_id = ?", userID).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query wizard session: %w", err)
	}
	return &session, nil
}

func saveSession(ctx context.Context, session *model.WizardSession) error {
	return database.DB().WithContext(ctx).Save(session).Error
}

// completeOnboardingTx 会话终结和用户完成标记必须一起落库：
// 只写了一半会让用户卡在向导外面，补偿扫描也找不到他
func completeOnboardingTx(ctx context.Context, session *model.WizardSession) error {
	return database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(session).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", session.UserID).
			Updates(map[string]interface{}{
				"onboarding_completed": true,
				"status":               model.UserStatusActive,
			}).Error
	})
}

func buildStateData(session *model.WizardSession, stagedFileName string) dto.OnboardingStateData {
	posts := session.SamplePosts
	if posts == nil {
		posts = model.SamplePosts{}
	}

	return dto.OnboardingStateData{
		CurrentStep:         int(session.ResumeStep()),
		AccountType:         string(session.AccountType),
		StyleChoice:         string(session.StyleChoice),
		SamplePosts:         posts,
		HasStagedCV:         session.CVAssetID != nil,
		StagedCVFileName:    stagedFileName,
		HasProcessedProfile: session.HasProcessedProfile,
		Completed:           session.IsCompleted(),
	}
}

// GetState 返回向导当前状态，前端据此恢复会话。
// 画像已生成的会话直接落在预览步
func (s *WizardService) GetState(ctx context.Context, userID int64) (*dto.OnboardingStateData, error) {
	session, err := loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	fileName := ""
	if session.CVAssetID != nil {
		var asset model.CVAsset
		if err := database.DB().WithContext(ctx).First(&asset, *session.CVAssetID).Error; err == nil {
			fileName = asset.FileName
		} else if err != gorm.ErrRecordNotFound {
			// 缓存或附表读取失败只降级，不阻塞状态返回
			logger.Logger.Warn("Failed to load staged CV for state",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}

	state := buildStateData(session, fileName)

	// 第四步有未提交的自动保存草稿时优先展示，缓冲读失败只降级
	if !session.IsCompleted() {
		if draft, err := cache.GetPostsBuffer(ctx, userID); err != nil {
			logger.Logger.Warn("Failed to load posts buffer",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		} else if draft != nil {
			state.SamplePosts = draft
		}
	}

	return &state, nil
}

// SubmitAccountType 第一步提交并前进
func (s *WizardService) SubmitAccountType(ctx context.Context, userID int64, accountType string) (*dto.OnboardingStateData, error) {
	session, err := loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := session.SubmitAccountType(model.AccountType(accountType)); err != nil {
		return nil, err
	}

	if err := saveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	state := buildStateData(session, "")
	return &state, nil
}

// SubmitStyle 第二步提交并前进
func (s *WizardService) SubmitStyle(ctx context.Context, userID int64, styleChoice string) (*dto.OnboardingStateData, error) {
	session, err := loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := session.SubmitStyleChoice(model.StyleChoice(styleChoice)); err != nil {
		return nil, err
	}

	if err := saveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	state := buildStateData(session, "")
	return &state, nil
}

// StepBack 后退一步，所有已填数据保留
func (s *WizardService) StepBack(ctx context.Context, userID int64) (*dto.OnboardingStateData, error) {
	session, err := loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := session.StepBack(); err != nil {
		return nil, err
	}

	if err := saveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	state := buildStateData(session, "")
	return &state, nil
}

// UpdatePreferences 第五步保存偏好，覆盖式写入
func (s *WizardService) UpdatePreferences(ctx context.Context, userID int64, req *dto.UpdatePreferencesRequest) (*dto.PreferencesData, error) {
	user, err := Auth().GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	distribution := user.PostTypeDistribution
	if req.PostTypeDistribution != nil {
		distribution = model.PostTypeDistribution(req.PostTypeDistribution)
	}
	hashtagCount := user.HashtagCount
	if req.HashtagCount != nil {
		hashtagCount = *req.HashtagCount
	}

	if err := model.ValidatePreferences(distribution, hashtagCount); err != nil {
		return nil, err
	}

	user.PostTypeDistribution = distribution
	user.HashtagCount = hashtagCount

	if err := database.DB().WithContext(ctx).Save(user).Error; err != nil {
		logger.Logger.Error("Failed to save preferences",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, errors.PreferencesSaveFailed
	}

	return &dto.PreferencesData{
		PostTypeDistribution: distribution,
		HashtagCount:         hashtagCount,
	}, nil
}

// CompleteSetup 终结向导：完成标记落库为权威记录，Redis 镜像和
// 草稿清理失败只记日志。失败时会话停在预览步，前端可重试
func (s *WizardService) CompleteSetup(ctx context.Context, userID int64) (*dto.CompleteData, error) {
	session, err := loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if session.IsCompleted() {
		return nil, errors.WizardAlreadyCompleted
	}
	if !session.HasProcessedProfile {
		return nil, errors.ProfileNotReady
	}

	now := time.Now()
	if err := session.Complete(now); err != nil {
		return nil, err
	}

	if txErr := completeOnboardingTx(ctx, session); txErr != nil {
		logger.Logger.Error("Failed to complete onboarding",
			zap.Int64("user_id", userID),
			zap.Error(txErr),
		)
		return nil, errors.CompletionFailed
	}

	if err := cache.SetCompleted(ctx, userID); err != nil {
		logger.Logger.Warn("Failed to mirror completion flag", zap.Error(err))
	}
	if err := cache.DeleteProfileDraft(ctx, userID); err != nil {
		logger.Logger.Warn("Failed to clear profile draft", zap.Error(err))
	}
	if err := cache.DeletePostsBuffer(ctx, userID); err != nil {
		logger.Logger.Warn("Failed to clear posts buffer", zap.Error(err))
	}

	logger.Logger.Info("Onboarding completed",
		zap.Int64("user_id", userID),
	)

	return &dto.CompleteData{
		Completed:   true,
		CompletedAt: now.UTC().Format(time.RFC3339),
	}, nil
}
