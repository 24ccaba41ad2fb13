package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req["model"] != "test-model" {
			t.Errorf("expected model test-model, got %v", req["model"])
		}
		msgs, ok := req["messages"].([]any)
		if !ok || len(msgs) != 2 {
			t.Fatalf("expected 2 messages (system + user), got %v", req["messages"])
		}
		first := msgs[0].(map[string]any)
		if first["role"] != "system" || first["content"] != "you are a test" {
			t.Errorf("unexpected system message: %v", first)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "hello back"}},
			},
		})
	}))
	defer server.Close()

	c := NewGroqClient("test-key", server.URL, "test-model")

	result, err := c.Complete(context.Background(), "you are a test", []Message{{Role: RoleUser, Content: "hello"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "hello back" {
		t.Errorf("expected hello back, got %q", result)
	}
}

func TestComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "rate_limit_error", "message": "slow down"},
		})
	}))
	defer server.Close()

	c := NewGroqClient("test-key", server.URL, "test-model")

	_, err := c.Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for API error response")
	}
}

func TestComplete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	c := NewGroqClient("test-key", server.URL, "test-model")

	_, err := c.Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestCompleteWithTools_ToolCallRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		tools, ok := req["tools"].([]any)
		if !ok || len(tools) != 1 {
			t.Fatalf("expected 1 tool, got %v", req["tools"])
		}
		fn := tools[0].(map[string]any)["function"].(map[string]any)
		if fn["name"] != "get_hcp_by_name" {
			t.Errorf("expected tool get_hcp_by_name, got %v", fn["name"])
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"role": "assistant",
					"tool_calls": []map[string]any{
						{
							"id":   "call_1",
							"type": "function",
							"function": map[string]any{
								"name":      "get_hcp_by_name",
								"arguments": `{"name":"Dr. Jones"}`,
							},
						},
					},
				}},
			},
		})
	}))
	defer server.Close()

	c := NewGroqClient("test-key", server.URL, "test-model")

	tools := []Tool{{
		Name:        "get_hcp_by_name",
		Description: "Look up an HCP by name",
		Parameters:  json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}}}`),
	}}

	msg, err := c.CompleteWithTools(context.Background(), "system", []Message{{Role: RoleUser, Content: "find Dr. Jones"}}, tools)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msg.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(msg.ToolCalls))
	}
	tc := msg.ToolCalls[0]
	if tc.ID != "call_1" {
		t.Errorf("expected call id call_1, got %q", tc.ID)
	}
	if tc.Name != "get_hcp_by_name" {
		t.Errorf("expected tool name get_hcp_by_name, got %q", tc.Name)
	}
	if tc.Arguments != `{"name":"Dr. Jones"}` {
		t.Errorf("unexpected arguments: %q", tc.Arguments)
	}
}
