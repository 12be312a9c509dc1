package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zenithstorm/comp645-team1-game/internal/config"
	"github.com/zenithstorm/comp645-team1-game/internal/logger"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

// fakeOpenAI serves /chat/completions. statuses are returned in order for
// the first calls; after that every call succeeds with reply.
func fakeOpenAI(t *testing.T, reply string, statuses ...int) (*httptest.Server, *atomic.Int32, chan chatRequest) {
	t.Helper()
	var calls atomic.Int32
	requests := make(chan chatRequest, 32)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		n := int(calls.Add(1))

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			requests <- req
		}

		w.Header().Set("Content-Type", "application/json")
		if n <= len(statuses) && statuses[n-1] != http.StatusOK {
			w.WriteHeader(statuses[n-1])
			_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"server_error","param":null,"code":null}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 0,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, requests
}

func testDescriber(t *testing.T, baseURL string, retries, history int) *OpenAIDescriber {
	t.Helper()
	d, err := NewOpenAIDescriber(config.NarrativeConfig{
		APIKey:    "test-key",
		Model:     "gpt-4o-mini",
		BaseURL:   baseURL,
		Timeout:   2 * time.Second,
		Retries:   retries,
		History:   history,
		MaxTokens: 60,
	})
	if err != nil {
		t.Fatalf("NewOpenAIDescriber: %v", err)
	}
	d.retryInterval = time.Millisecond
	return d
}

func TestNewOpenAIDescriberRequiresKey(t *testing.T) {
	if _, err := NewOpenAIDescriber(config.NarrativeConfig{Timeout: time.Second}); err == nil {
		t.Error("expected error without an API key")
	}
}

func TestOpenAIDescribe(t *testing.T) {
	logger.Discard()
	srv, calls, requests := fakeOpenAI(t, " Bones rattle in the dark. ")
	d := testDescriber(t, srv.URL, 0, 4)

	got, err := d.Describe(context.Background(), Context{Kind: KindMonster, Monster: "Skeleton"})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if got != "Bones rattle in the dark." {
		t.Errorf("Describe = %q", got)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}

	req := <-requests
	if req.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", req.Model)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
		t.Errorf("unexpected messages %+v", req.Messages)
	}
}

func TestOpenAIHistoryIsReplayedAndBounded(t *testing.T) {
	logger.Discard()
	srv, _, requests := fakeOpenAI(t, "Something moves.")
	d := testDescriber(t, srv.URL, 0, 2)

	for i := 0; i < 4; i++ {
		if _, err := d.Describe(context.Background(), Context{Kind: KindRoom, RoomType: "empty"}); err != nil {
			t.Fatalf("Describe %d: %v", i, err)
		}
	}
	if d.HistoryLen() != 2 {
		t.Errorf("HistoryLen = %d, want 2", d.HistoryLen())
	}

	var last chatRequest
	for i := 0; i < 4; i++ {
		last = <-requests
	}
	// system + 2 remembered exchanges + new prompt
	if len(last.Messages) != 6 {
		t.Errorf("last request had %d messages, want 6", len(last.Messages))
	}
	if last.Messages[2].Role != "assistant" {
		t.Errorf("expected remembered reply as assistant, got %q", last.Messages[2].Role)
	}
}

func TestOpenAIRetriesServerErrors(t *testing.T) {
	logger.Discard()
	srv, calls, _ := fakeOpenAI(t, "The torch gutters.", http.StatusInternalServerError, http.StatusTooManyRequests)
	d := testDescriber(t, srv.URL, 2, 0)

	got, err := d.Describe(context.Background(), Context{Kind: KindRest})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if got != "The torch gutters." || calls.Load() != 3 {
		t.Errorf("got %q after %d calls", got, calls.Load())
	}
	if d.HistoryLen() != 0 {
		t.Error("history disabled but exchange was remembered")
	}
}

func TestOpenAIDoesNotRetryClientErrors(t *testing.T) {
	logger.Discard()
	srv, calls, _ := fakeOpenAI(t, "unused", http.StatusUnauthorized, http.StatusUnauthorized, http.StatusUnauthorized)
	d := testDescriber(t, srv.URL, 2, 2)

	_, err := d.Describe(context.Background(), Context{Kind: KindOpening})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
	if d.HistoryLen() != 0 {
		t.Error("failed call must not be remembered")
	}
}

func TestOpenAIGivesUpAfterRetries(t *testing.T) {
	logger.Discard()
	srv, calls, _ := fakeOpenAI(t, "unused", http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway)
	d := testDescriber(t, srv.URL, 1, 0)

	if _, err := d.Describe(context.Background(), Context{Kind: KindOpening}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestNarratorWithOpenAIFallsBackWhenDown(t *testing.T) {
	logger.Discard()
	srv, _, _ := fakeOpenAI(t, "unused", http.StatusServiceUnavailable, http.StatusServiceUnavailable)
	d := testDescriber(t, srv.URL, 1, 0)
	n := NewNarrator(d, nil, time.Second)

	got := n.Narrate(context.Background(), Context{Kind: KindMonster, Monster: "Goblin Bandit"})
	if got == "" || got == "unused" {
		t.Errorf("expected template fallback, got %q", got)
	}
}
