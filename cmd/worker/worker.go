package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"PostPilot/config"
	"PostPilot/internal/queue"
	"PostPilot/pkg/logger"
	"PostPilot/pkg/snowflake"
	"PostPilot/pkg/synthesis"
	"PostPilot/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	// worker 与 server 用不同的 machine ID 部署，避免雪花 ID 撞车
	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// 补齐重试要调用合成服务
	if err := synthesis.Init(); err != nil {
		logger.Logger.Warn("Failed to initialize synthesis client", zap.Error(err))
		logger.Logger.Info("Synthesis unavailable, enrich messages will be rescheduled")
	}

	logger.Logger.Info("Worker service starting",
		zap.String("service", "postpilot-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	// 消费者在 MQ 连接关闭时自然退出，这里只等退出信号
	go queue.StartAllConsumers(ctx)

	<-ctx.Done()

	logger.Logger.Info("Worker service shutting down gracefully")
}
