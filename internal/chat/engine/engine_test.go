package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jvcl/datachat/internal/chat/entity"
)

func testDataset() *entity.Dataset {
	return &entity.Dataset{
		Columns:     []string{"name", "age"},
		Rows:        [][]string{{"alice", "30"}, {"bob", "25"}},
		Fingerprint: "fp",
	}
}

func completionBody(content string) string {
	body := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	encoded, _ := json.Marshal(body)
	return string(encoded)
}

func TestAskSendsDatasetContext(t *testing.T) {
	t.Parallel()

	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(`{"type":"text","text":"bob is 25"}`)))
	}))
	defer server.Close()

	client := New(Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})

	answer, err := client.Ask(context.Background(), testDataset(), "how old is bob?")
	if err != nil {
		t.Fatalf("Ask() err = %v", err)
	}
	if answer.Kind != entity.AnswerKindText || answer.Text != "bob is 25" {
		t.Fatalf("unexpected answer: %#v", answer)
	}

	if captured.Model != "test-model" {
		t.Fatalf("unexpected model: %q", captured.Model)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(captured.Messages))
	}
	system := captured.Messages[0].Content
	if !strings.Contains(system, "name; age") {
		t.Fatalf("expected columns in system prompt: %q", system)
	}
	if !strings.Contains(system, "alice;30") {
		t.Fatalf("expected sample rows in system prompt: %q", system)
	}
	if captured.Messages[1].Content != "how old is bob?" {
		t.Fatalf("unexpected user message: %q", captured.Messages[1].Content)
	}
}

func TestAskTableAnswer(t *testing.T) {
	t.Parallel()

	content := "```json\n{\"type\":\"table\",\"columns\":[\"name\"],\"rows\":[[\"alice\"],[\"bob\"]]}\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(completionBody(content)))
	}))
	defer server.Close()

	client := New(Config{APIKey: "k", BaseURL: server.URL})

	answer, err := client.Ask(context.Background(), testDataset(), "list names")
	if err != nil {
		t.Fatalf("Ask() err = %v", err)
	}
	if answer.Kind != entity.AnswerKindTable {
		t.Fatalf("kind = %s, want %s", answer.Kind, entity.AnswerKindTable)
	}
	if len(answer.Columns) != 1 || len(answer.Rows) != 2 {
		t.Fatalf("unexpected table: %#v", answer)
	}
}

func TestAskImageAnswer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(completionBody(`{"type":"image","url":"https://charts.test/plot.png"}`)))
	}))
	defer server.Close()

	client := New(Config{APIKey: "k", BaseURL: server.URL})

	answer, err := client.Ask(context.Background(), testDataset(), "plot ages")
	if err != nil {
		t.Fatalf("Ask() err = %v", err)
	}
	if answer.Kind != entity.AnswerKindImage || answer.ImageURL != "https://charts.test/plot.png" {
		t.Fatalf("unexpected answer: %#v", answer)
	}
}

func TestAskMissingCredential(t *testing.T) {
	t.Parallel()

	client := New(Config{BaseURL: "http://unused"})

	_, err := client.Ask(context.Background(), testDataset(), "anything")
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestAskUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := New(Config{APIKey: "k", BaseURL: server.URL})

	_, err := client.Ask(context.Background(), testDataset(), "anything")
	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if uerr.Status != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", uerr.Status, http.StatusTooManyRequests)
	}
	if uerr.Message != "rate limited" {
		t.Fatalf("message = %q, want %q", uerr.Message, "rate limited")
	}
}

func TestAskNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := New(Config{APIKey: "k", BaseURL: server.URL})

	if _, err := client.Ask(context.Background(), testDataset(), "anything"); err == nil {
		t.Fatal("expected error")
	}
}
