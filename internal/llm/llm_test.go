package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  bool
	}{
		{"no key", Config{Provider: "gemini"}, ProviderNull, false},
		{"gemini", Config{Provider: "gemini", APIKey: "k"}, ProviderGemini, false},
		{"auto prefers gemini", Config{Provider: "auto", APIKey: "k"}, ProviderGemini, false},
		{"openai", Config{Provider: "OpenAI", APIKey: "k"}, ProviderOpenAI, false},
		{"unknown", Config{Provider: "llama", APIKey: "k"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}

func TestAvailable(t *testing.T) {
	if Available(nil) {
		t.Error("nil provider should not be available")
	}
	if Available(Null{}) {
		t.Error("Null should not be available")
	}
	if !Available(NewOpenAI("", "k", "", time.Second)) {
		t.Error("OpenAI should be available")
	}
}

func TestNull(t *testing.T) {
	var n Null
	if _, err := n.Answer(context.Background(), "hi"); !errors.Is(err, ErrDisabled) {
		t.Errorf("Answer err = %v, want ErrDisabled", err)
	}
	if _, err := n.Summarize(context.Background(), "hi", 10); !errors.Is(err, ErrDisabled) {
		t.Errorf("Summarize err = %v, want ErrDisabled", err)
	}
}

func TestGeminiAnswer(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/test-model:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "secret" {
			t.Errorf("api key header = %q", r.Header.Get("x-goog-api-key"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"The project "},{"text":"is on track. "}]}}]}`))
	}))
	defer srv.Close()

	g := NewGemini(srv.URL, "secret", "test-model", time.Second)
	out, err := g.Answer(context.Background(), "How is ABC?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if out != "The project is on track." {
		t.Errorf("Answer = %q", out)
	}
	if len(got.Contents) != 1 || got.Contents[0].Parts[0].Text != "How is ABC?" {
		t.Errorf("request contents = %+v", got.Contents)
	}
	if got.SystemInstruction == nil {
		t.Error("expected system instruction")
	}
}

func TestGeminiErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", 500, `{"error":"boom"}`},
		{"no candidates", 200, `{"candidates":[]}`},
		{"empty text", 200, `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGemini(srv.URL, "k", "", time.Second)
			if _, err := g.Answer(context.Background(), "q"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOpenAISummarize(t *testing.T) {
	var got openaiChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("auth = %q", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" Short summary. "}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI(srv.URL+"/", "secret", "", time.Second)
	out, err := o.Summarize(context.Background(), "long meeting notes", 150)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != "Short summary." {
		t.Errorf("Summarize = %q", out)
	}
	if got.Model != DefaultOpenAIModel {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Messages) != 2 || !strings.Contains(got.Messages[1].Content, "150 words") {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestOpenAIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`unauthorized`))
	}))
	defer srv.Close()

	o := NewOpenAI(srv.URL, "bad", "", time.Second)
	_, err := o.Answer(context.Background(), "q")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("err = %v, want 401 error", err)
	}
}
