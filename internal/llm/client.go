package llm

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Message roles, mirroring the chat completions wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single chat message exchanged with the model.
type Message struct {
	Role       string
	Content    string
	Name       string // tool name, for tool-result messages
	ToolCallID string // originating call id, for tool-result messages
	ToolCalls  []ToolCall
}

// ToolCall is a model-issued request to invoke a named tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON
}

// Tool describes a callable operation advertised to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON schema
}

// Client is the model-call capability injected into anything that talks to
// the hosted model. Implementations are expected to honour ctx cancellation.
type Client interface {
	Complete(ctx context.Context, system string, messages []Message) (string, error)
	CompleteWithTools(ctx context.Context, system string, messages []Message, tools []Tool) (Message, error)
}

// GroqClient talks to Groq's OpenAI-compatible chat completions API.
type GroqClient struct {
	client *openai.Client
	model  string
}

func NewGroqClient(apiKey, baseURL, model string) *GroqClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &GroqClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *GroqClient) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAI(system, messages),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *GroqClient) CompleteWithTools(ctx context.Context, system string, messages []Message, tools []Tool) (Message, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAI(system, messages),
	}
	for _, t := range tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Message{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Message{}, fmt.Errorf("no completion choices")
	}
	return fromOpenAI(resp.Choices[0].Message), nil
}

func toOpenAI(system string, messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range messages {
		cm := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		out = append(out, cm)
	}
	return out
}

func fromOpenAI(m openai.ChatCompletionMessage) Message {
	msg := Message{
		Role:    m.Role,
		Content: m.Content,
	}
	for _, tc := range m.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return msg
}
