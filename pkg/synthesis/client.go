package synthesis

import (
	"context"
	"fmt"
	"sync"

	"PostPilot/config"
	"PostPilot/internal/model"
	"PostPilot/pkg/logger"

	"go.uber.org/zap"
)

// Input 画像合成的输入素材
type Input struct {
	AccountType string
	StyleChoice string
	Nickname    string

	// 简历内容，可为空（用户跳过上传）
	CVContent  []byte
	CVMimeType string

	// 样本帖子，my_style 时非空
	SamplePosts []string
}

// Client 画像合成客户端接口
type Client interface {
	// Synthesize 根据素材生成完整画像。失败时调用方走兜底完成路径，
	// 不做内部重试
	Synthesize(ctx context.Context, input Input) (*model.ProfileData, error)
}

var (
	synthClient Client
	synthOnce   sync.Once
	synthErr    error
)

// Init 初始化合成客户端
func Init() error {
	synthOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.SynthesisProvider {
		case "gemini":
			if cfg.GeminiAPIKey == "" {
				// 没配 key 回退 mock，本地开发不至于起不来服务
				logger.Logger.Warn("GEMINI_API_KEY is not set, falling back to mock synthesis client")
				synthClient = NewMockClient()
				break
			}
			// 失败时不往接口里放 typed-nil，否则 GetClient 的守卫拦不住
			client, err := NewGeminiClient(context.Background())
			if err != nil {
				synthErr = err
				break
			}
			synthClient = client
		case "mock":
			synthClient = NewMockClient()
		default:
			synthErr = fmt.Errorf("unsupported synthesis provider: %s", cfg.SynthesisProvider)
		}

		if synthErr != nil {
			logger.Logger.Error("Failed to initialize synthesis client", zap.Error(synthErr))
			return
		}

		logger.Logger.Info("Synthesis client initialized successfully",
			zap.String("provider", cfg.SynthesisProvider),
			zap.String("model", cfg.GeminiModel),
		)
	})

	return synthErr
}

func GetClient() Client {
	if synthClient == nil {
		panic("synthesis client not initialized, call synthesis.Init() first")
	}
	return synthClient
}

func Synthesize(ctx context.Context, input Input) (*model.ProfileData, error) {
	return GetClient().Synthesize(ctx, input)
}
