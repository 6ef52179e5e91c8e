package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
	"github.com/Timmmy307/Gmail-unspamer/internal/provider"
	"go.uber.org/zap"
)

func metaBatch(ids ...string) []domain.MessageMeta {
	batch := make([]domain.MessageMeta, len(ids))
	for i, id := range ids {
		batch[i] = domain.MessageMeta{
			ID:      id,
			From:    "Sender <s@example.com>",
			To:      "me@example.com",
			Subject: "subject " + id,
			Date:    "Mon, 01 Jan 2024 12:00:00 +0000",
			Snippet: "snippet " + id,
			Sender:  "s@example.com",
		}
	}
	return batch
}

func TestMergeDecisions_OrderMatchesInput(t *testing.T) {
	batch := metaBatch("a", "b", "c")
	// Response deliberately scrambled relative to the request.
	decisions := []wireDecision{
		{ID: "c", Action: "trash", Category: "promotions"},
		{ID: "a", Action: "keep", Category: "receipts"},
		{ID: "b", Action: "review", Category: "other"},
	}

	labeled := mergeDecisions(batch, decisions)
	if len(labeled) != 3 {
		t.Fatalf("got %d results, want 3", len(labeled))
	}
	wantActions := []domain.Action{domain.ActionKeep, domain.ActionReview, domain.ActionTrash}
	for i, want := range wantActions {
		if labeled[i].ID != batch[i].ID {
			t.Errorf("labeled[%d].ID = %q, want %q", i, labeled[i].ID, batch[i].ID)
		}
		if labeled[i].Decision.ID != batch[i].ID {
			t.Errorf("labeled[%d].Decision.ID = %q, want owning id %q", i, labeled[i].Decision.ID, batch[i].ID)
		}
		if labeled[i].Decision.Action != want {
			t.Errorf("labeled[%d].Action = %q, want %q", i, labeled[i].Decision.Action, want)
		}
	}
}

func TestMergeDecisions_MissingAndUnmatchedIDs(t *testing.T) {
	batch := metaBatch("a", "b")
	decisions := []wireDecision{
		{ID: "a", Action: "trash", Category: "promotions", Reason: "bulk mail"},
		{ID: "ghost", Action: "keep"}, // not in the batch, dropped
	}

	labeled := mergeDecisions(batch, decisions)
	if labeled[0].Decision.Action != domain.ActionTrash {
		t.Errorf("matched decision lost: %+v", labeled[0].Decision)
	}

	want := domain.Decision{ID: "b", Action: domain.ActionReview, Category: "other", Summary: "", Reason: "no decision"}
	if labeled[1].Decision != want {
		t.Errorf("unmatched email decision = %+v, want %+v", labeled[1].Decision, want)
	}
}

func TestMergeDecisions_UnknownActionBecomesReview(t *testing.T) {
	labeled := mergeDecisions(metaBatch("a"), []wireDecision{{ID: "a", Action: "obliterate"}})
	if labeled[0].Decision.Action != domain.ActionReview {
		t.Errorf("Action = %q, want review for unknown action", labeled[0].Decision.Action)
	}
	if labeled[0].Decision.Category != "other" {
		t.Errorf("empty category should default to other, got %q", labeled[0].Decision.Category)
	}
}

func TestDecodeDecisions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"valid payload", `{"decisions":[{"id":"a","action":"keep"}]}`, 1, false},
		{"no decisions key", `{}`, 0, false},
		{"null decisions", `{"decisions":null}`, 0, false},
		{"not json", `the model rambled instead`, 0, true},
		{"wrong shape", `{"decisions":"oops"}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeDecisions(tt.content)
			if tt.wantErr {
				var decodeErr *provider.DecodeError
				if !errors.As(err, &decodeErr) {
					t.Fatalf("error = %v, want DecodeError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeDecisions() error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d decisions, want %d", len(got), tt.want)
			}
		})
	}
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// completionHandler fabricates a chat-completion response whose content is
// the given JSON string.
func completionHandler(t *testing.T, content string, gotReq *map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if gotReq != nil {
			if err := json.NewDecoder(r.Body).Decode(gotReq); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
		}
		resp := map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"model":   "test",
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func TestClassifyBatch(t *testing.T) {
	var gotReq map[string]any
	srv := httptest.NewServer(completionHandler(t,
		`{"decisions":[{"id":"b","action":"trash","category":"promotions","reason":"bulk"},{"id":"a","action":"keep","category":"receipts","reason":"order"}]}`,
		&gotReq))
	defer srv.Close()

	c := New("test-key", srv.URL, zap.NewNop())
	settings := domain.DefaultSettings()

	labeled, err := c.ClassifyBatch(context.Background(), settings, metaBatch("a", "b"))
	if err != nil {
		t.Fatalf("ClassifyBatch() error: %v", err)
	}
	if len(labeled) != 2 {
		t.Fatalf("got %d results, want 2", len(labeled))
	}
	if labeled[0].Decision.Action != domain.ActionKeep || labeled[1].Decision.Action != domain.ActionTrash {
		t.Errorf("actions = %q/%q, want keep/trash in input order",
			labeled[0].Decision.Action, labeled[1].Decision.Action)
	}

	if gotReq["model"] != settings.Model {
		t.Errorf("request model = %v, want %v", gotReq["model"], settings.Model)
	}
	rf, _ := gotReq["response_format"].(map[string]any)
	if rf == nil || rf["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", gotReq["response_format"])
	}

	// Temperature must be present on the wire and effectively zero. A
	// literal 0 would be dropped by the struct's omitempty tag.
	temp, ok := gotReq["temperature"].(float64)
	if !ok {
		t.Errorf("temperature missing from request, keys: %v", keysOf(gotReq))
	} else if temp >= 1e-6 {
		t.Errorf("temperature = %v, want effectively zero", temp)
	}

	// The user message must carry exactly the six wire fields per email.
	msgs, _ := gotReq["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want system + user", len(msgs))
	}
	user, _ := msgs[1].(map[string]any)
	var sent []map[string]any
	if err := json.Unmarshal([]byte(user["content"].(string)), &sent); err != nil {
		t.Fatalf("user message is not a JSON batch: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("user message carries %d emails, want 2", len(sent))
	}
	for _, e := range sent {
		if len(e) != 6 {
			t.Errorf("wire email has %d fields, want exactly 6: %v", len(e), e)
		}
		for _, field := range []string{"id", "from", "to", "subject", "date", "snippet"} {
			if _, ok := e[field]; !ok {
				t.Errorf("wire email missing field %q", field)
			}
		}
	}
}

func TestClassifyBatch_MalformedContentDegrades(t *testing.T) {
	srv := httptest.NewServer(completionHandler(t, "sorry, I cannot answer in JSON", nil))
	defer srv.Close()

	c := New("test-key", srv.URL, zap.NewNop())
	labeled, err := c.ClassifyBatch(context.Background(), domain.DefaultSettings(), metaBatch("a", "b"))
	if err != nil {
		t.Fatalf("ClassifyBatch() should degrade, got error: %v", err)
	}
	for i, le := range labeled {
		if le.Decision.Action != domain.ActionReview || le.Decision.Reason != "no decision" {
			t.Errorf("labeled[%d].Decision = %+v, want default", i, le.Decision)
		}
	}
}

func TestClassifyBatch_NoAPIKey(t *testing.T) {
	c := New("", "", zap.NewNop())
	_, err := c.ClassifyBatch(context.Background(), domain.DefaultSettings(), metaBatch("a"))
	var authErr *provider.AuthError
	if !errors.As(err, &authErr) {
		t.Errorf("error = %v, want AuthError", err)
	}
}

func TestClassifyBatch_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"rate_limit_error"}}`)
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, zap.NewNop())
	_, err := c.ClassifyBatch(context.Background(), domain.DefaultSettings(), metaBatch("a"))
	var remoteErr *provider.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("error = %v, want RemoteError", err)
	}
	if remoteErr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", remoteErr.Status)
	}
}

func TestClassifyBatch_EmptyBatch(t *testing.T) {
	c := New("test-key", "", zap.NewNop())
	labeled, err := c.ClassifyBatch(context.Background(), domain.DefaultSettings(), nil)
	if err != nil || labeled != nil {
		t.Errorf("empty batch = (%v, %v), want (nil, nil)", labeled, err)
	}
}
