package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/joescharf/prr/internal/llm"
)

// newLLMClient creates an LLM client from config/env. It fails when no API key is configured.
func newLLMClient() (*llm.Client, error) {
	apiKey := viper.GetString("anthropic.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no Anthropic API key: set anthropic.api_key or PRR_ANTHROPIC_API_KEY")
	}
	return llm.NewClient(apiKey, viper.GetString("anthropic.model")), nil
}
