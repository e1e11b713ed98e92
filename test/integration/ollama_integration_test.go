// FILE: test/integration/ollama_integration_test.go
// PURPOSE: Exercises the Ollama providers against a locally running server.
// Skips itself when no server is reachable, so it is safe in CI.

package integration

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"ai-interview-be/pkg/embedding"
	"ai-interview-be/pkg/llm"
	"ai-interview-be/pkg/llm/ollama"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "gemma:2b"
)

func ollamaBaseURL() string {
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		return v
	}
	return defaultOllamaBaseURL
}

func ollamaModel() string {
	if v := os.Getenv("LLM_MODEL"); v != "" {
		return v
	}
	return defaultOllamaModel
}

func requireOllama(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Get(ollamaBaseURL())
	if err != nil {
		t.Skipf("Ollama not running at %s: %v", ollamaBaseURL(), err)
	}
	res.Body.Close()
}

func TestOllamaSimpleResponse(t *testing.T) {
	requireOllama(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	provider := ollama.NewOllamaProvider(ollamaBaseURL(), ollamaModel())

	response, err := provider.Generate(ctx, "Say 'Ollama works!' in one sentence.")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Logf("✅ Response: %s", response)

	if response == "" {
		t.Error("Response should not be empty")
	}
}

func TestOllamaMultiTurnConversation(t *testing.T) {
	requireOllama(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	provider := ollama.NewOllamaProvider(ollamaBaseURL(), ollamaModel())

	history := []llm.Message{
		{Role: "user", Content: "My name is John"},
		{Role: "assistant", Content: "Nice to meet you, John!"},
		{Role: "user", Content: "What is my name?"},
	}

	response, err := provider.Chat(ctx, history)
	if err != nil {
		t.Fatalf("Multi-turn conversation failed: %v", err)
	}

	t.Logf("✅ Response: %s", response)

	if !strings.Contains(response, "John") {
		t.Logf("⚠️ Response may not correctly remember the name. Response: %s", response)
	}
}

func TestOllamaInterviewerPersona(t *testing.T) {
	requireOllama(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	provider := ollama.NewOllamaProvider(ollamaBaseURL(), ollamaModel())

	history := []llm.Message{
		{Role: "system", Content: "You are Nila, a warm but professional technical interviewer. Ask one question at a time."},
		{Role: "user", Content: "Hi, I'm ready to start."},
	}

	response, err := provider.Chat(ctx, history, llm.WithTemperature(0.7))
	if err != nil {
		t.Fatalf("Persona chat failed: %v", err)
	}

	t.Logf("✅ Response: %s", response)

	if response == "" {
		t.Error("Response should not be empty")
	}
}

func TestOllamaEmbeddingDimensions(t *testing.T) {
	requireOllama(t)

	model := os.Getenv("OLLAMA_EMBEDDING_MODEL")
	if model == "" {
		model = "nomic-embed-text"
	}
	provider := embedding.NewOllamaProvider(ollamaBaseURL(), model)

	resp, err := provider.Generate("Backend engineer with Go experience.", embedding.TaskRetrievalDocument)
	if err != nil {
		t.Skipf("Embedding model %s not available: %v", model, err)
	}

	dims := len(resp.Embedding.Values)
	t.Logf("✅ Embedding dimensions: %d", dims)

	if dims != 768 {
		t.Errorf("expected 768 dimensions for %s, got %d", model, dims)
	}
}
