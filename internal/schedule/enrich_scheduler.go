package schedule

// 画像补齐扫描器：兜底完成的用户如果重试消息丢了（MQ 不可用、
// 消息过期），靠周期性扫库把漏网的补回队列

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"PostPilot/internal/model"
	"PostPilot/internal/queue"
	"PostPilot/pkg/logger"
	"PostPilot/storage/database"
)

var (
	schedulerOnce sync.Once
	schedulerInst *EnrichScheduler
)

type EnrichScheduler struct {
	logger       *zap.Logger
	sweepRunning bool
	sweepMu      sync.Mutex
	lastSweep    time.Time
}

func GetScheduler() *EnrichScheduler {
	schedulerOnce.Do(func() {
		schedulerInst = &EnrichScheduler{
			logger: logger.Logger,
		}
	})
	return schedulerInst
}

// SweepMissingProfiles 扫描已完成引导但还没有画像的用户，
// 重新投递补齐消息。attempt 置 1，worker 侧自带幂等
func (s *EnrichScheduler) SweepMissingProfiles(ctx context.Context) error {
	s.sweepMu.Lock()
	if s.sweepRunning {
		s.sweepMu.Unlock()
		s.logger.Info("Enrich sweep already running, skipping")
		return nil
	}
	s.sweepRunning = true
	s.sweepMu.Unlock()

	defer func() {
		s.sweepMu.Lock()
		s.sweepRunning = false
		s.sweepMu.Unlock()
	}()

	startTime := time.Now()
	s.lastSweep = startTime

	s.logger.Info("Starting profile enrich sweep",
		zap.Time("start_time", startTime),
	)

	var users []model.User
	err := database.DB().WithContext(ctx).
		Where("onboarding_completed = ?", true).
		Where("id NOT IN (?)",
			database.DB().Model(&model.ProfileContext{}).Select("user_id"),
		).
		Limit(500).
		Find(&users).Error
	if err != nil {
		s.logger.Error("Failed to query users missing profiles", zap.Error(err))
		return fmt.Errorf("failed to query users missing profiles: %w", err)
	}

	if len(users) == 0 {
		s.logger.Info("No users missing profiles")
		return nil
	}

	s.logger.Info("Found users missing profiles",
		zap.Int("user_count", len(users)),
	)

	published := 0
	for _, user := range users {
		msg := model.ProfileEnrichMessage{
			UserID:      user.ID,
			Attempt:     1,
			TriggeredAt: startTime,
		}
		if err := queue.PublishProfileEnrich(msg); err != nil {
			s.logger.Error("Failed to publish enrich message during sweep",
				zap.Int64("user_id", user.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	s.logger.Info("Profile enrich sweep finished",
		zap.Int("published", published),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	return nil
}
