package factory

import (
	"fmt"

	"ai-interview-be/pkg/llm"
	"ai-interview-be/pkg/llm/gemini"
	"ai-interview-be/pkg/llm/ollama"
)

func NewProvider(providerType, modelName, baseURL, geminiKey string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		return gemini.NewGeminiProvider(geminiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
