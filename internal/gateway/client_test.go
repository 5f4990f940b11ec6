package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/waroutehq/waroute/internal/config"
	"github.com/waroutehq/waroute/internal/conversation"
)

func TestRespond(t *testing.T) {
	var (
		gotPath string
		gotBody []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"Hello there","citations":[{"title":"doc"}],"latency_ms":412}`))
	}))
	defer srv.Close()

	client := NewClient(nil, config.GatewayConfig{BaseURL: srv.URL + "/", TimeoutSeconds: 5})

	reply, err := client.Respond(context.Background(), Request{
		Query:       "what are your opening hours?",
		History:     []conversation.HistoryEntry{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}},
		APIKey:      "sk-live-123",
		ChatbotID:   "bot-1",
		PhoneNumber: "15550001111",
		DisplayName: "Ada",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Answer != "Hello there" {
		t.Fatalf("unexpected answer %q", reply.Answer)
	}
	if string(reply.Citations) != `[{"title":"doc"}]` {
		t.Fatalf("unexpected citations %s", reply.Citations)
	}
	if reply.LatencyMS != 412 {
		t.Fatalf("unexpected latency %v", reply.LatencyMS)
	}

	if gotPath != "/response" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	var sent struct {
		Query   string `json:"query"`
		History []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"history"`
		User struct {
			UniqueClientID string `json:"unique_client_id"`
			Channel        string `json:"channel"`
			PhoneNumber    string `json:"phone_number"`
			DisplayName    string `json:"display_name"`
		} `json:"user"`
		APIKey string `json:"api_key"`
	}
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if sent.Query != "what are your opening hours?" {
		t.Fatalf("unexpected query %q", sent.Query)
	}
	if len(sent.History) != 2 || sent.History[0].Content != "hi" {
		t.Fatalf("unexpected history %+v", sent.History)
	}
	if sent.User.UniqueClientID != "whatsapp_15550001111_bot-1" {
		t.Fatalf("unexpected unique client id %q", sent.User.UniqueClientID)
	}
	if sent.User.UniqueClientID != conversation.Marker("15550001111", "bot-1") {
		t.Fatal("unique client id must match the conversation marker")
	}
	if sent.User.Channel != "whatsapp" {
		t.Fatalf("unexpected channel %q", sent.User.Channel)
	}
	if sent.APIKey != "sk-live-123" {
		t.Fatalf("unexpected api key %q", sent.APIKey)
	}
	if !strings.Contains(string(gotBody), `"stream":false`) {
		t.Fatalf("stream flag missing from body: %s", gotBody)
	}
}

func TestRespondNilHistorySerializesAsEmptyArray(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(nil, config.GatewayConfig{BaseURL: srv.URL})

	if _, err := client.Respond(context.Background(), Request{Query: "hi", ChatbotID: "bot-1", PhoneNumber: "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(gotBody), `"history":[]`) {
		t.Fatalf("nil history must serialize as an empty array, got %s", gotBody)
	}
}

func TestRespondGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(nil, config.GatewayConfig{BaseURL: srv.URL})

	_, err := client.Respond(context.Background(), Request{Query: "hi", ChatbotID: "bot-1", PhoneNumber: "1"})
	if !errors.Is(err, ErrGatewayStatus) {
		t.Fatalf("expected ErrGatewayStatus, got %v", err)
	}
}

func TestRespondRequiresBaseURL(t *testing.T) {
	client := NewClient(nil, config.GatewayConfig{})

	if _, err := client.Respond(context.Background(), Request{Query: "hi"}); err == nil {
		t.Fatal("expected error without a base url")
	}
}
