package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mintybot/internal/config"
)

func TestReplierSendsChunksInOrder(t *testing.T) {
	var received []replyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Gateway-Secret"); got != "s3cret" {
			t.Errorf("secret header: got %q", got)
		}
		var req replyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		received = append(received, req)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	replier := NewHTTPReplier(config.GatewayConfig{
		ReplyURL: server.URL,
		Secret:   "s3cret",
	}, server.Client())

	// Текст длиннее лимита платформы уходит несколькими сообщениями.
	text := strings.Repeat("a", MessageLimit) + " tail"
	if err := replier.Reply(context.Background(), "C1", text); err != nil {
		t.Fatalf("reply: %v", err)
	}

	if len(received) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(received))
	}
	if received[0].ChannelID != "C1" || received[1].ChannelID != "C1" {
		t.Fatalf("channel id mismatch: %+v", received)
	}
	if received[0].Text+received[1].Text != text {
		t.Fatalf("chunks do not reassemble the reply")
	}
}

func TestReplierReportsGatewayErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "channel not found", http.StatusNotFound)
	}))
	defer server.Close()

	replier := NewHTTPReplier(config.GatewayConfig{ReplyURL: server.URL}, server.Client())
	err := replier.Reply(context.Background(), "C1", "hi")
	if err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("error must carry gateway status: %v", err)
	}
}

func TestReplierReportsRejectedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false}`))
	}))
	defer server.Close()

	replier := NewHTTPReplier(config.GatewayConfig{ReplyURL: server.URL}, server.Client())
	if err := replier.Reply(context.Background(), "C1", "hi"); err == nil {
		t.Fatalf("expected error for rejected reply")
	}
}
