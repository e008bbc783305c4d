package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"PostPilot/internal/cache"
	"PostPilot/internal/model"
	"PostPilot/internal/service"
	"PostPilot/pkg/errors"
	"PostPilot/pkg/logger"
	"PostPilot/storage/mq"
)

// StartProfileEnrichConsumer 启动画像补齐消费者。
// 幂等靠消息 ID 的 SETNX 占位，单用户并发靠分布式锁
func StartProfileEnrichConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.ProfileEnrichMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal profile enrich message: %w", err)
		}

		fresh, err := cache.MarkMessageProcessed(ctx, msg.MessageID)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.Int64("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败继续处理，宁可重复不可丢
		} else if !fresh {
			return &errors.SkipMessageError{
				Reason: fmt.Sprintf("message %d already processed", msg.MessageID),
			}
		}

		lockKey := "enrich:user:" + strconv.FormatInt(msg.UserID, 10)
		locked, err := cache.TryLock(ctx, lockKey, 5*time.Minute)
		if err != nil {
			logger.Logger.Warn("Failed to acquire enrich lock",
				zap.Int64("user_id", msg.UserID),
				zap.Error(err),
			)
		} else if !locked {
			// 别的实例正在补这个用户，释放消息占位等重投
			if err := cache.UnmarkMessage(ctx, msg.MessageID); err != nil {
				logger.Logger.Warn("Failed to unmark message", zap.Error(err))
			}
			return fmt.Errorf("user %d enrichment in progress", msg.UserID)
		}
		defer func() {
			if locked {
				if err := cache.Unlock(ctx, lockKey); err != nil {
					logger.Logger.Warn("Failed to release enrich lock", zap.Error(err))
				}
			}
		}()

		logger.Logger.Info("Processing profile enrich message",
			zap.Int64("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.Int("attempt", msg.Attempt),
		)

		if err := service.Processing().Enrich(ctx, msg.UserID, msg.Attempt); err != nil {
			if _, ok := err.(*errors.SkipMessageError); ok {
				return err
			}
			// 真实失败，释放占位让重投的消息可以再跑
			if unmarkErr := cache.UnmarkMessage(ctx, msg.MessageID); unmarkErr != nil {
				logger.Logger.Warn("Failed to unmark message", zap.Error(unmarkErr))
			}
			return fmt.Errorf("failed to enrich profile for user %d: %w", msg.UserID, err)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.QueueProfileEnrich,
		ConsumerTag:   "profile_enrich_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// StartAllConsumers 启动全部消费者，阻塞直到 ctx 取消
func StartAllConsumers(ctx context.Context) {
	var wg sync.WaitGroup

	consumers := []struct {
		name     string
		consumer func(context.Context) error
	}{
		{"profile_enrich", StartProfileEnrichConsumer},
	}

	for _, c := range consumers {
		wg.Add(1)
		go func(name string, consumer func(context.Context) error) {
			defer wg.Done()

			logger.Logger.Info("Starting consumer",
				zap.String("consumer_name", name),
			)

			if err := consumer(ctx); err != nil {
				logger.Logger.Error("Consumer exited with error",
					zap.String("consumer_name", name),
					zap.Error(err),
				)
			}
		}(c.name, c.consumer)
	}

	wg.Wait()
}
