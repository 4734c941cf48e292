package prompt_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"dayout/internal/config"
	"dayout/pkg/utils"
)

var Module = fx.Provide(
	ProvideChatClient)

// ProvideChatClient creates the chat client for the configured provider.
func ProvideChatClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (utils.ChatClientInterface, error) {
	llm := cfg.LLM

	log.Info("Initializing chat client",
		zap.String("provider", llm.Provider),
		zap.String("model", llm.Model))

	switch llm.Provider {
	case config.ProviderGroq, config.ProviderOpenAI:
		return utils.NewOpenAIChatClient(llm.APIKey, llm.BaseURL, llm.Model), nil
	case config.ProviderAnthropic:
		return utils.NewAnthropicChatClient(llm.APIKey, llm.BaseURL, llm.Model), nil
	case config.ProviderGemini:
		client, err := utils.NewGeminiChatClient(context.Background(), llm.APIKey, llm.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return client.Close() },
		})
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", llm.Provider)
	}
}
