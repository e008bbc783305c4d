package synthesis

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PostPilot/config"
	"PostPilot/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestInitWithoutAPIKeyFallsBackToMock(t *testing.T) {
	config.Cfg.SynthesisProvider = "gemini"
	config.Cfg.GeminiAPIKey = ""

	require.NoError(t, Init())

	// 接口里必须是可用的客户端，不能是 typed-nil
	client := GetClient()
	require.NotNil(t, client)
	assert.IsType(t, &MockClient{}, client)

	data, err := client.Synthesize(context.Background(), Input{
		AccountType: "person",
		StyleChoice: "top_creators",
	})
	require.NoError(t, err)
	assert.NotNil(t, data)
}
