package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nishtha/internal/config"
)

func geminiServer(t *testing.T, status int, text string, inspect func(body map[string]interface{})) (*GeminiClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("api key not sent: %q", r.URL.RawQuery)
		}
		if !strings.HasSuffix(r.URL.Path, "/test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if inspect != nil {
			inspect(body)
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"quota"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": text}}}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := &config.AIConfig{APIKey: "test-key", BaseURL: srv.URL, TimeoutMS: 5000}
	return NewGeminiClient(cfg), srv
}

func TestGeminiGenerateStripsFence(t *testing.T) {
	client, _ := geminiServer(t, http.StatusOK, "```json\n{\"isCorrect\": true}\n```", nil)

	text, err := client.Generate(context.Background(), "test-model", TextPart("hi"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != `{"isCorrect": true}` {
		t.Errorf("fence not stripped: %q", text)
	}
}

func TestGeminiRequestShape(t *testing.T) {
	client, _ := geminiServer(t, http.StatusOK, `{}`, func(body map[string]interface{}) {
		contents := body["contents"].([]interface{})
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		if len(parts) != 2 {
			t.Fatalf("expected 2 parts, got %d", len(parts))
		}
		file := parts[0].(map[string]interface{})["fileData"].(map[string]interface{})
		if file["mimeType"] != "video/youtube" || file["fileUri"] != "https://youtu.be/x" {
			t.Errorf("unexpected fileData %v", file)
		}
		gen := body["generationConfig"].(map[string]interface{})
		if gen["responseMimeType"] != "application/json" {
			t.Errorf("responseMimeType = %v", gen["responseMimeType"])
		}
		if n := len(body["safetySettings"].([]interface{})); n != 4 {
			t.Errorf("expected 4 safety settings, got %d", n)
		}
	})

	var out map[string]interface{}
	if err := client.GenerateJSON(context.Background(), "test-model", &out, VideoPart("https://youtu.be/x"), TextPart("plan")); err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
}

func TestGeminiNon2xx(t *testing.T) {
	client, _ := geminiServer(t, http.StatusTooManyRequests, "", nil)

	_, err := client.Generate(context.Background(), "test-model", TextPart("hi"))
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestGeminiDisabled(t *testing.T) {
	client := NewGeminiClient(&config.AIConfig{})
	if _, err := client.Generate(context.Background(), "m"); !errors.Is(err, ErrAIDisabled) {
		t.Fatalf("expected ErrAIDisabled, got %v", err)
	}
}

func TestGeminiBadJSON(t *testing.T) {
	client, _ := geminiServer(t, http.StatusOK, "not json", nil)

	var out struct{}
	if err := client.GenerateJSON(context.Background(), "test-model", &out, TextPart("x")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n[1,2]\n```", `[1,2]`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := StripCodeFence(tt.in); got != tt.want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
