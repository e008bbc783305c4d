package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"PostPilot/config"
	"PostPilot/internal/cache"
	"PostPilot/internal/model"
	"PostPilot/internal/model/dto"
	"PostPilot/pkg/errors"
	"PostPilot/pkg/logger"
	"PostPilot/pkg/snowflake"
	"PostPilot/pkg/synthesis"
	"PostPilot/storage/database"
	"PostPilot/storage/mq"
)

// ProcessingStore 处理流水线需要的持久化操作，窄接口方便测试替身
type ProcessingStore interface {
	LoadUser(ctx context.Context, userID int64) (*model.User, error)
	LoadSession(ctx context.Context, userID int64) (*model.WizardSession, error)
	SaveSession(ctx context.Context, session *model.WizardSession) error
	LoadCV(ctx context.Context, assetID int64) (*model.CVAsset, error)
	FinalizeCV(ctx context.Context, assetID int64) error
	SaveProfile(ctx context.Context, userID int64, data *model.ProfileData) error
	HasProfile(ctx context.Context, userID int64) (bool, error)
	// CompleteOnboarding 原子落库：会话终结 + 用户完成标记，
	// 半成品状态会把用户永远卡在向导外
	CompleteOnboarding(ctx context.Context, session *model.WizardSession) error
}

// ProcessingSidecar 主路径之外的副作用：缓存镜像与重试消息。
// 全部 best-effort，失败只记日志
type ProcessingSidecar interface {
	CacheDraft(ctx context.Context, userID int64, data *model.ProfileData) error
	MirrorCompleted(ctx context.Context, userID int64) error
	PublishEnrichRetry(ctx context.Context, userID int64, attempt int) error
}

type ProcessingService struct {
	store       ProcessingStore
	sidecar     ProcessingSidecar
	synthesizer synthesis.Client
}

var (
	processingService *ProcessingService
	processingOnce    sync.Once
)

func Processing() *ProcessingService {
	processingOnce.Do(func() {
		processingService = &ProcessingService{
			store:       &gormProcessingStore{},
			sidecar:     &defaultSidecar{},
			synthesizer: synthesis.GetClient(),
		}
	})
	return processingService
}

// NewProcessingService 显式注入依赖，测试用
func NewProcessingService(store ProcessingStore, sidecar ProcessingSidecar, synthesizer synthesis.Client) *ProcessingService {
	return &ProcessingService{
		store:       store,
		sidecar:     sidecar,
		synthesizer: synthesizer,
	}
}

// Process 第四步提交后的处理流水线：
// 1. 定稿暂存的简历（失败即终止）
// 2. 调用合成生成画像
// 3. 成功则落库画像并推进到预览步
// 4. 失败走兜底完成：标记完成、镜像标记、发补偿重试消息，
//    用户直接离开向导，画像由 worker 事后补齐
func (p *ProcessingService) Process(ctx context.Context, userID int64) (*dto.ProcessResultData, error) {
	session, err := p.store.LoadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := session.ReadyForProcessing(); err != nil {
		return nil, err
	}

	user, err := p.store.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	input := synthesis.Input{
		AccountType: string(session.AccountType),
		StyleChoice: string(session.StyleChoice),
		Nickname:    user.Nickname,
		SamplePosts: session.SamplePosts.NonEmpty(),
	}

	if session.CVAssetID != nil {
		asset, err := p.store.LoadCV(ctx, *session.CVAssetID)
		if err != nil {
			return nil, err
		}

		// 简历定稿失败是致命错误，用户留在当前步重试
		if err := p.store.FinalizeCV(ctx, asset.ID); err != nil {
			logger.Logger.Error("Failed to finalize CV",
				zap.Int64("user_id", userID),
				zap.Int64("asset_id", asset.ID),
				zap.Error(err),
			)
			return nil, errors.CVUploadFailed
		}

		input.CVContent = asset.Content
		input.CVMimeType = asset.MimeType
	}

	synthCtx, cancel := context.WithTimeout(ctx, time.Duration(config.Cfg.SynthesisTimeoutSeconds)*time.Second)
	defer cancel()

	data, synthErr := p.synthesizer.Synthesize(synthCtx, input)
	if synthErr != nil {
		logger.Logger.Error("Profile synthesis failed, taking fallback-complete path",
			zap.Int64("user_id", userID),
			zap.Error(synthErr),
		)
		return p.fallbackComplete(ctx, userID, session)
	}

	if err := p.store.SaveProfile(ctx, userID, data); err != nil {
		logger.Logger.Error("Failed to persist profile, taking fallback-complete path",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return p.fallbackComplete(ctx, userID, session)
	}

	session.MarkProcessed()
	if err := p.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if err := p.sidecar.CacheDraft(ctx, userID, data); err != nil {
		logger.Logger.Warn("Failed to cache profile draft", zap.Error(err))
	}

	logger.Logger.Info("Profile synthesized",
		zap.Int64("user_id", userID),
	)

	state := buildStateData(session, "")
	return &dto.ProcessResultData{
		ProfileReady: true,
		State:        state,
	}, nil
}

// fallbackComplete 合成失败的兜底：直接终结向导放用户进主产品，
// 画像交给延迟队列补齐
func (p *ProcessingService) fallbackComplete(ctx context.Context, userID int64, session *model.WizardSession) (*dto.ProcessResultData, error) {
	if err := session.Complete(time.Now()); err != nil {
		return nil, err
	}
	if err := p.store.CompleteOnboarding(ctx, session); err != nil {
		logger.Logger.Error("Failed to fallback-complete onboarding",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		// 事务整体回滚，会话在库里仍未完成，用户可以重新提交
		session.CompletedAt = nil
		return nil, errors.CompletionFailed
	}

	if err := p.sidecar.MirrorCompleted(ctx, userID); err != nil {
		logger.Logger.Warn("Failed to mirror completion flag", zap.Error(err))
	}
	if err := p.sidecar.PublishEnrichRetry(ctx, userID, 1); err != nil {
		logger.Logger.Warn("Failed to publish enrich retry message",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	logger.Logger.Info("Onboarding fallback-completed",
		zap.Int64("user_id", userID),
	)

	state := buildStateData(session, "")
	return &dto.ProcessResultData{
		FallbackCompleted: true,
		State:             state,
	}, nil
}

// Enrich 补偿路径：兜底完成的用户事后重跑合成。
// 画像已存在时跳过，失败且未达上限时重新投递
func (p *ProcessingService) Enrich(ctx context.Context, userID int64, attempt int) error {
	has, err := p.store.HasProfile(ctx, userID)
	if err != nil {
		return err
	}
	if has {
		return &errors.SkipMessageError{Reason: "profile already enriched"}
	}

	session, err := p.store.LoadSession(ctx, userID)
	if err != nil {
		return err
	}
	user, err := p.store.LoadUser(ctx, userID)
	if err != nil {
		return err
	}

	input := synthesis.Input{
		AccountType: string(session.AccountType),
		StyleChoice: string(session.StyleChoice),
		Nickname:    user.Nickname,
		SamplePosts: session.SamplePosts.NonEmpty(),
	}
	if session.CVAssetID != nil {
		if asset, err := p.store.LoadCV(ctx, *session.CVAssetID); err == nil {
			input.CVContent = asset.Content
			input.CVMimeType = asset.MimeType
		}
	}

	synthCtx, cancel := context.WithTimeout(ctx, time.Duration(config.Cfg.SynthesisTimeoutSeconds)*time.Second)
	defer cancel()

	data, synthErr := p.synthesizer.Synthesize(synthCtx, input)
	if synthErr != nil {
		if attempt < config.Cfg.EnrichMaxAttempts {
			if err := p.sidecar.PublishEnrichRetry(ctx, userID, attempt+1); err != nil {
				logger.Logger.Error("Failed to republish enrich retry",
					zap.Int64("user_id", userID),
					zap.Error(err),
				)
			}
			return &errors.SkipMessageError{Reason: "synthesis failed, retry scheduled"}
		}
		logger.Logger.Error("Enrichment attempts exhausted",
			zap.Int64("user_id", userID),
			zap.Int("attempt", attempt),
			zap.Error(synthErr),
		)
		return &errors.SkipMessageError{Reason: "enrichment attempts exhausted"}
	}

	if err := p.store.SaveProfile(ctx, userID, data); err != nil {
		return fmt.Errorf("failed to persist enriched profile: %w", err)
	}

	session.HasProcessedProfile = true
	if err := p.store.SaveSession(ctx, session); err != nil {
		logger.Logger.Warn("Failed to flag processed profile on session", zap.Error(err))
	}

	if err := p.sidecar.CacheDraft(ctx, userID, data); err != nil {
		logger.Logger.Warn("Failed to cache enriched draft", zap.Error(err))
	}

	logger.Logger.Info("Profile enriched",
		zap.Int64("user_id", userID),
		zap.Int("attempt", attempt),
	)

	return nil
}

// gormProcessingStore 生产实现，直接走 gorm
type gormProcessingStore struct{}

func (g *gormProcessingStore) LoadUser(ctx context.Context, userID int64) (*model.User, error) {
	return Auth().GetUser(ctx, userID)
}

func (g *gormProcessingStore) LoadSession(ctx context.Context, userID int64) (*model.WizardSession, error) {
	return loadSession(ctx, userID)
}

func (g *gormProcessingStore) SaveSession(ctx context.Context, session *model.WizardSession) error {
	return saveSession(ctx, session)
}

func (g *gormProcessingStore) LoadCV(ctx context.Context, assetID int64) (*model.CVAsset, error) {
	var asset model.CVAsset
	err := database.DB().WithContext(ctx).First(&asset, assetID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.CVFileMissing
		}
		return nil, fmt.Errorf("failed to load CV asset: %w", err)
	}
	return &asset, nil
}

func (g *gormProcessingStore) FinalizeCV(ctx context.Context, assetID int64) error {
	return database.DB().WithContext(ctx).Model(&model.CVAsset{}).
		Where("id = ?", assetID).
		Update("status", model.CVAssetUploaded).Error
}

func (g *gormProcessingStore) SaveProfile(ctx context.Context, userID int64, data *model.ProfileData) error {
	profile := model.ProfileContext{
		UserID: userID,
		Data:   *data,
	}

	// 每用户一行，重跑时覆盖
	return database.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&profile).Error
}

func (g *gormProcessingStore) HasProfile(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := database.DB().WithContext(ctx).Model(&model.ProfileContext{}).
		Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (g *gormProcessingStore) CompleteOnboarding(ctx context.Context, session *model.WizardSession) error {
	return completeOnboardingTx(ctx, session)
}

// defaultSidecar 生产实现：Redis 镜像 + RabbitMQ 延迟消息
type defaultSidecar struct{}

func (d *defaultSidecar) CacheDraft(ctx context.Context, userID int64, data *model.ProfileData) error {
	return cache.SetProfileDraft(ctx, userID, data)
}

func (d *defaultSidecar) MirrorCompleted(ctx context.Context, userID int64) error {
	return cache.SetCompleted(ctx, userID)
}

func (d *defaultSidecar) PublishEnrichRetry(ctx context.Context, userID int64, attempt int) error {
	messageID, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
	if err != nil {
		return err
	}

	msg := model.ProfileEnrichMessage{
		MessageID:   messageID,
		UserID:      userID,
		Attempt:     attempt,
		TriggeredAt: time.Now(),
	}

	delay := time.Duration(config.Cfg.EnrichRetryDelayMinutes) * time.Minute
	return mq.PublishDelayedMessage(mq.ExchangeDelayed, mq.RoutingKeyProfileEnrich, delay, msg)
}
