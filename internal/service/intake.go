package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"PostPilot/internal/cache"
	"PostPilot/internal/model"
	"PostPilot/internal/model/dto"
	"PostPilot/pkg/errors"
	"PostPilot/pkg/logger"
	"PostPilot/pkg/snowflake"
	"PostPilot/storage/database"
)

var (
	intakeService *IntakeService
	intakeOnce    sync.Once
)

func Intake() *IntakeService {
	intakeOnce.Do(func() {
		intakeService = &IntakeService{}
	})
	return intakeService
}

type IntakeService struct{}

// StageCV 第三步提交简历。校验先于任何写入，校验失败时
// 已暂存的文件保持原样；通过后新文件替换旧暂存并前进
func (s *IntakeService) StageCV(ctx context.Context, userID int64, fileName, mimeType string, data []byte) (*dto.StageCVData, error) {
	if err := model.ValidateCV(mimeType, int64(len(data))); err != nil {
		return nil, err
	}

	session, err := loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	publicID, err := snowflake.NextID(snowflake.GeneratorTypeAsset)
	if err != nil {
		return nil, fmt.Errorf("failed to generate asset ID: %w", err)
	}

	asset := model.CVAsset{
		PublicID: publicID,
		UserID:   userID,
		FileName: fileName,
		MimeType: mimeType,
		SizeByte: int64(len(data)),
		Content:  data,
		Status:   model.CVAssetStaged,
	}

	replaced := session.CVAssetID != nil
	oldAssetID := session.CVAssetID

	txErr := database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&asset).Error; err != nil {
			return err
		}

		if err := session.AttachCV(&asset.ID); err != nil {
			return err
		}
		if err := tx.Save(session).Error; err != nil {
			return err
		}

		// 旧暂存文件直接删掉，一个用户最多一份 staged
		if oldAssetID != nil {
			return tx.Delete(&model.CVAsset{}, *oldAssetID).Error
		}
		return nil
	})
	if txErr != nil {
		if _, ok := txErr.(errors.Definition); ok {
			return nil, txErr
		}
		logger.Logger.Error("Failed to stage CV",
			zap.Int64("user_id", userID),
			zap.Error(txErr),
		)
		return nil, errors.CVUploadFailed
	}

	logger.Logger.Info("CV staged",
		zap.Int64("user_id", userID),
		zap.String("mime_type", mimeType),
		zap.Int64("size_byte", asset.SizeByte),
		zap.Bool("replaced", replaced),
	)

	return &dto.StageCVData{
		AssetID:  strconv.FormatInt(asset.PublicID, 10),
		FileName: fileName,
		MimeType: mimeType,
		SizeByte: asset.SizeByte,
		Replaced: replaced,
	}, nil
}

// SkipCV 第三步显式跳过上传直接前进。之前暂存的文件会被清掉
func (s *IntakeService) SkipCV(ctx context.Context, userID int64) (*dto.OnboardingStateData, error) {
	session, err := loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldAssetID := session.CVAssetID
	if err := session.AttachCV(nil); err != nil {
		return nil, err
	}

	txErr := database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(session).Error; err != nil {
			return err
		}
		if oldAssetID != nil {
			return tx.Delete(&model.CVAsset{}, *oldAssetID).Error
		}
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("failed to save session: %w", txErr)
	}

	state := buildStateData(session, "")
	return &state, nil
}

// SetSamplePosts 第四步手动录入，整体覆盖槽位。空串槽位合法，
// 纯空白的非空内容拒绝
func (s *IntakeService) SetSamplePosts(ctx context.Context, userID int64, posts []string) (*dto.OnboardingStateData, error) {
	session, err := loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !session.IsCompleted() && session.CurrentStep != model.StepImportPosts {
		return nil, errors.StepOrderViolation
	}

	if err := model.ValidateDraftPosts(posts); err != nil {
		return nil, err
	}

	if err := session.SetSamplePosts(posts); err != nil {
		return nil, err
	}

	if err := saveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save posts: %w", err)
	}

	// 编辑缓冲同步刷新，失败不影响主路径
	if err := cache.SetPostsBuffer(ctx, userID, posts); err != nil {
		logger.Logger.Warn("Failed to refresh posts buffer", zap.Error(err))
	}

	state := buildStateData(session, "")
	return &state, nil
}

// SavePostsDraft 第四步的前端自动保存：只写 Redis 编辑缓冲，不落库。
// 权威数据仍在会话里，GetState 恢复时用缓冲覆盖展示
func (s *IntakeService) SavePostsDraft(ctx context.Context, userID int64, posts []string) error {
	if err := model.ValidateDraftPosts(posts); err != nil {
		return err
	}
	return cache.SetPostsBuffer(ctx, userID, posts)
}

// BeginImport 发起一次外部导入，登记批次供回调核销
func (s *IntakeService) BeginImport(ctx context.Context, userID int64) (string, error) {
	session, err := loadSession(ctx, userID)
	if err != nil {
		return "", err
	}
	if session.IsCompleted() {
		return "", errors.WizardAlreadyCompleted
	}
	if session.CurrentStep != model.StepImportPosts {
		return "", errors.StepOrderViolation
	}

	batchID := uuid.NewString()
	if err := cache.RegisterImportBatch(ctx, batchID, userID); err != nil {
		return "", fmt.Errorf("failed to register import batch: %w", err)
	}

	return batchID, nil
}

// ImportCallback 外部导入回调。只填空槽，槽位满后丢弃剩余，
// 用户手动输入的内容永远不会被覆盖
func (s *IntakeService) ImportCallback(ctx context.Context, batchID string, posts []string) (*dto.ImportPostsData, error) {
	userID, err := cache.ResolveImportBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve import batch: %w", err)
	}
	if userID == 0 {
		return nil, errors.Unauthorized
	}

	session, err := loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, errors.WizardAlreadyCompleted
	}

	placed := session.MergeImportedPosts(posts)

	if err := saveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save imported posts: %w", err)
	}

	if err := cache.DeleteImportBatch(ctx, batchID); err != nil {
		logger.Logger.Warn("Failed to delete import batch", zap.Error(err))
	}

	logger.Logger.Info("Posts imported",
		zap.Int64("user_id", userID),
		zap.Int("received", len(posts)),
		zap.Int("placed", placed),
	)

	return &dto.ImportPostsData{
		Placed:  placed,
		Dropped: len(posts) - placed,
		Posts:   session.SamplePosts,
	}, nil
}
