package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nishtha/internal/config"
)

// ErrAIDisabled is returned when no Gemini API key is configured
var ErrAIDisabled = errors.New("AI is not configured")

// Part is one piece of a Gemini prompt: text or a referenced file
type Part struct {
	Text     string    `json:"text,omitempty"`
	FileData *FileData `json:"fileData,omitempty"`
}

// FileData points Gemini at remote media, e.g. a YouTube video
type FileData struct {
	MimeType string `json:"mimeType"`
	FileURI  string `json:"fileUri"`
}

// TextPart builds a text prompt part
func TextPart(text string) Part { return Part{Text: text} }

// VideoPart builds a YouTube video prompt part
func VideoPart(url string) Part {
	return Part{FileData: &FileData{MimeType: "video/youtube", FileURI: url}}
}

// GeminiClient calls the generateContent endpoint and returns the JSON text
// of the first candidate
type GeminiClient struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(cfg *config.AIConfig) *GeminiClient {
	return &GeminiClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Generate sends the parts to modelName and returns the response text with
// any markdown code fence removed
func (g *GeminiClient) Generate(ctx context.Context, modelName string, parts ...Part) (string, error) {
	if !g.config.IsEnabled() {
		return "", ErrAIDisabled
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": parts,
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
		"safetySettings": safetySettings(),
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", g.config.ModelEndpoint(modelName), g.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return StripCodeFence(geminiResp.Candidates[0].Content.Parts[0].Text), nil
	}
	return "", fmt.Errorf("empty response from Gemini")
}

// GenerateJSON is Generate followed by decoding into out
func (g *GeminiClient) GenerateJSON(ctx context.Context, modelName string, out interface{}, parts ...Part) error {
	text, err := g.Generate(ctx, modelName, parts...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decoding model output: %w", err)
	}
	return nil
}

func safetySettings() []map[string]string {
	categories := []string{
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
	}
	out := make([]map[string]string, len(categories))
	for i, c := range categories {
		out[i] = map[string]string{"category": c, "threshold": "BLOCK_NONE"}
	}
	return out
}

// StripCodeFence removes a surrounding ```json ... ``` block
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
