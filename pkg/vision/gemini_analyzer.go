package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const bodyLanguagePrompt = `Analyze this image of a candidate during an interview practice session.
Focus on posture, eye contact, facial expression and overall presence.
Provide 2-3 specific, actionable suggestions for improvement. Be encouraging and constructive.
Keep it brief (2-3 sentences max) and frame feedback positively.`

const screenReviewPrompt = `Analyze this code screenshot from a candidate's screen during an interview practice session.
Focus on code quality, potential bugs, and problem-solving approach.
Provide 2-3 specific, actionable suggestions. Keep it brief (2-3 sentences max) and frame feedback constructively.`

const screenScopePrompt = `This is a screenshot of a candidate's shared screen during a technical interview.
Decide whether the visible content belongs to the interview (a code editor, terminal, IDE, coding environment or technical documentation) or is unrelated (social media, video streaming, messaging, games, anything else).
Answer with exactly one word: IN_SCOPE or OUT_OF_SCOPE.`

// GeminiAnalyzer implements Analyzer over the Gemini multimodal REST API.
type GeminiAnalyzer struct {
	ApiKey    string
	ModelName string
	Client    *http.Client
}

var _ Analyzer = &GeminiAnalyzer{}

func NewGeminiAnalyzer(apiKey, modelName string) *GeminiAnalyzer {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiAnalyzer{
		ApiKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type visionPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type visionContent struct {
	Parts []visionPart `json:"parts"`
}

type visionRequest struct {
	Contents []visionContent `json:"contents"`
}

type visionResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (a *GeminiAnalyzer) DescribeBodyLanguage(ctx context.Context, image []byte) (string, error) {
	return a.generate(ctx, bodyLanguagePrompt, image)
}

func (a *GeminiAnalyzer) ReviewScreenContent(ctx context.Context, image []byte) (string, error) {
	return a.generate(ctx, screenReviewPrompt, image)
}

func (a *GeminiAnalyzer) ClassifyScreenScope(ctx context.Context, image []byte) (bool, error) {
	answer, err := a.generate(ctx, screenScopePrompt, image)
	if err != nil {
		return false, err
	}
	// Anything other than a clear OUT_OF_SCOPE verdict counts as in scope,
	// so a rambling classifier cannot terminate a session by accident.
	return !strings.Contains(strings.ToUpper(answer), "OUT_OF_SCOPE"), nil
}

func (a *GeminiAnalyzer) generate(ctx context.Context, prompt string, image []byte) (string, error) {
	reqPayload := visionRequest{
		Contents: []visionContent{
			{
				Parts: []visionPart{
					{InlineData: &inlineData{
						MimeType: "image/jpeg",
						Data:     base64.StdEncoding.EncodeToString(image),
					}},
					{Text: prompt},
				},
			},
		},
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent",
		a.ModelName,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", a.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini vision request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini vision error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var visionResp visionResponse
	if err := json.Unmarshal(bodyBytes, &visionResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(visionResp.Candidates) == 0 || len(visionResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini vision returned no candidates")
	}

	return strings.TrimSpace(visionResp.Candidates[0].Content.Parts[0].Text), nil
}
