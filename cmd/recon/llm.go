package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/recon-agent/internal/common"
	"github.com/Veraticus/recon-agent/internal/llm"
)

// apiKeyEnv names the environment variable consulted when llm.api_key is unset.
var apiKeyEnv = map[string]string{
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
	llm.ProviderGemini:    "GEMINI_API_KEY",
}

// llmConfig reads the llm.* settings.
func llmConfig() (llm.Config, error) {
	provider := strings.ToLower(viper.GetString("llm.provider"))
	if provider == "" {
		provider = llm.ProviderOllama
	}

	cfg := llm.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		Endpoint:    viper.GetString("llm.endpoint"),
		APIKey:      viper.GetString("llm.api_key"),
		Timeout:     viper.GetDuration("llm.timeout"),
		MaxAttempts: viper.GetInt("llm.max_attempts"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}

	if env, ok := apiKeyEnv[provider]; ok && cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(env)
		if cfg.APIKey == "" {
			return llm.Config{}, common.NewUserError(
				fmt.Sprintf("%s API key not found in llm.api_key or %s", provider, env),
				common.ErrMissingConfig)
		}
	}
	return cfg, nil
}

// createClassifier builds the model-backed classifier from configuration.
// The caller must Close it.
func createClassifier() (*llm.Classifier, error) {
	cfg, err := llmConfig()
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	slog.Debug("language model configured", "provider", cfg.Provider, "model", cfg.Model)
	return llm.NewClassifier(client, cfg, slog.Default()), nil
}
