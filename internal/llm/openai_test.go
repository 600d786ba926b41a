package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"mintybot/internal/config"
	"mintybot/internal/conversation"
)

func TestConvertTurnRoles(t *testing.T) {
	cases := []struct {
		turn conversation.Turn
		role string
	}{
		{conversation.UserTurn("hi", "Alice"), openai.ChatMessageRoleUser},
		{conversation.AssistantTurn("hello"), openai.ChatMessageRoleAssistant},
		{conversation.DeveloperTurn("prompt"), openai.ChatMessageRoleSystem},
	}
	for _, tc := range cases {
		msg := convertTurn(tc.turn)
		if msg.Role != tc.role {
			t.Fatalf("role: got %s want %s", msg.Role, tc.role)
		}
	}
}

func TestConvertTurnSingleTextUsesContent(t *testing.T) {
	msg := convertTurn(conversation.UserTurn("hi", "Alice"))
	if msg.Content != "(Alice) hi" {
		t.Fatalf("content mismatch: %q", msg.Content)
	}
	if len(msg.MultiContent) != 0 {
		t.Fatalf("single text part must not use multi content")
	}
}

func TestConvertTurnImageUsesMultiContent(t *testing.T) {
	msg := convertTurn(conversation.UserTurnWithImage("look", "Bob", "https://example.com/cat.png"))
	if msg.Content != "" {
		t.Fatalf("multi-part turn must not use plain content")
	}
	if len(msg.MultiContent) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(msg.MultiContent))
	}
	if msg.MultiContent[0].Type != openai.ChatMessagePartTypeText || msg.MultiContent[0].Text != "(Bob) look" {
		t.Fatalf("text part mismatch: %+v", msg.MultiContent[0])
	}
	image := msg.MultiContent[1]
	if image.Type != openai.ChatMessagePartTypeImageURL || image.ImageURL == nil {
		t.Fatalf("image part mismatch: %+v", image)
	}
	if image.ImageURL.URL != "https://example.com/cat.png" {
		t.Fatalf("image url mismatch: %q", image.ImageURL.URL)
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"server error", &openai.APIError{HTTPStatusCode: http.StatusBadGateway}, true},
		{"bad request", &openai.APIError{HTTPStatusCode: http.StatusBadRequest}, false},
		{"unauthorized", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, false},
		{"deadline", context.DeadlineExceeded, false},
		{"cancelled", context.Canceled, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isTransient(tc.err); got != tc.want {
				t.Fatalf("isTransient(%v): got %v want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestCompleteRequiresModel(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0")
	if _, err := client.Complete(context.Background(), "", nil); !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got %v", err)
	}
}

func TestCompleteReturnsAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-x" {
			t.Errorf("model: got %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != openai.ChatMessageRoleSystem {
			t.Errorf("messages mismatch: %+v", req.Messages)
		}

		writeCompletion(w, "sure thing")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/v1")
	transcript := []conversation.Turn{
		conversation.DeveloperTurn("prompt"),
		conversation.UserTurn("hi", "Alice"),
	}
	answer, err := client.Complete(context.Background(), "gpt-x", transcript)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if answer != "sure thing" {
		t.Fatalf("answer mismatch: %q", answer)
	}
}

func TestCompleteRetriesTransientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		writeCompletion(w, "recovered")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/v1")
	answer, err := client.Complete(context.Background(), "gpt-x", []conversation.Turn{conversation.UserTurn("hi", "")})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if answer != "recovered" {
		t.Fatalf("answer mismatch: %q", answer)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/v1")
	_, err := client.Complete(context.Background(), "gpt-x", []conversation.Turn{conversation.UserTurn("hi", "")})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func newTestClient(t *testing.T, baseURL string) *OpenAIClient {
	t.Helper()
	client := NewOpenAIClient(config.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
	}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	// Паузы между повторами в тестах не нужны.
	client.policy.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return client
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
		Object: "chat.completion",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	})
}
