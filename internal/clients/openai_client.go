package clients

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openAIRequestTimeout = 120 * time.Second // batched extraction calls can run long
)

var (
	openAIClientInstance *OpenAIClient
	openAIOnce           sync.Once
)

type OpenAIClient struct {
	Client *openai.Client
}

// InitOpenAIClient sets up the shared OpenAI client with a custom HTTP
// timeout. Safe to call multiple times.
func InitOpenAIClient(apiKey string) {
	openAIOnce.Do(func() {
		config := openai.DefaultConfig(apiKey)
		config.HTTPClient = &http.Client{
			Timeout: openAIRequestTimeout,
		}

		openAIClientInstance = &OpenAIClient{
			Client: openai.NewClientWithConfig(config),
		}
		slog.Info("[OpenAIClient] OpenAI client initialized",
			slog.Duration("timeout", openAIRequestTimeout))
	})
}

func GetOpenAIClient() *OpenAIClient {
	if openAIClientInstance == nil {
		panic("[OpenAIClient] InitOpenAIClient must be called before GetOpenAIClient")
	}
	return openAIClientInstance
}
