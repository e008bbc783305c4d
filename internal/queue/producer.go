package queue

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"PostPilot/config"
	"PostPilot/internal/model"
	"PostPilot/pkg/logger"
	"PostPilot/pkg/snowflake"
	"PostPilot/storage/mq"
)

// PublishProfileEnrich 发布画像补齐消息（延迟消息）
func PublishProfileEnrich(msg model.ProfileEnrichMessage) error {
	if msg.MessageID == 0 {
		id, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.Int64("user_id", msg.UserID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = id
	}
	if msg.TriggeredAt.IsZero() {
		msg.TriggeredAt = time.Now()
	}

	delay := time.Duration(config.Cfg.EnrichRetryDelayMinutes) * time.Minute

	err := mq.PublishDelayedMessage(
		mq.ExchangeDelayed,
		mq.RoutingKeyProfileEnrich,
		delay,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish profile enrich message",
			zap.Int64("user_id", msg.UserID),
			zap.Int("attempt", msg.Attempt),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published profile enrich message",
		zap.Int64("message_id", msg.MessageID),
		zap.Int64("user_id", msg.UserID),
		zap.Int("attempt", msg.Attempt),
		zap.Duration("delay", delay),
	)

	return nil
}
