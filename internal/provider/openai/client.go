package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
	"github.com/Timmmy307/Gmail-unspamer/internal/provider"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// systemPrompt fixes the decision taxonomy and the response shape. The model
// is the classifier; this client only transports and decodes.
const systemPrompt = `You are an email triage assistant. You receive a JSON array of emails,
each with id, from, to, subject, date and snippet fields.

For every email decide one action:
- "keep" for receipts, financial, security, work, school or shipping content
- "trash" for promotions, spam and low-value bulk mail
- "review" when you are not sure

Respond with a strict JSON object and nothing else:
{"decisions": [{"id": "...", "action": "keep|trash|review", "category": "...", "summary": "...", "reason": "..."}]}

Include exactly one decision per input email, echoing its id unchanged.`

// Client implements provider.Classifier against an OpenAI-compatible
// chat-completion endpoint.
type Client struct {
	api    *openai.Client
	apiKey string
	log    *zap.Logger
}

// New creates a classifier client. baseURL overrides the default endpoint
// when non-empty, which also lets tests point the client at a local server.
func New(apiKey, baseURL string, log *zap.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:    openai.NewClientWithConfig(cfg),
		apiKey: apiKey,
		log:    log,
	}
}

// wireEmail is the exact payload sent per message. Nothing beyond these six
// fields ever leaves the process.
type wireEmail struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

type wireDecision struct {
	ID       string `json:"id"`
	Action   string `json:"action"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	Reason   string `json:"reason"`
}

type wireResponse struct {
	Decisions []wireDecision `json:"decisions"`
}

// ClassifyBatch sends one batch and merges the response back onto the input.
// The returned slice has the same length and order as batch; messages the
// model skipped get DefaultDecision, and a malformed payload degrades every
// message in the batch to its default rather than failing the scan.
func (c *Client) ClassifyBatch(ctx context.Context, settings domain.Settings, batch []domain.MessageMeta) ([]domain.LabeledEmail, error) {
	if c.apiKey == "" {
		return nil, &provider.AuthError{Reason: "no OpenAI API key configured"}
	}
	if len(batch) == 0 {
		return nil, nil
	}

	wire := make([]wireEmail, len(batch))
	for i, m := range batch {
		wire[i] = wireEmail{
			ID:      m.ID,
			From:    m.From,
			To:      m.To,
			Subject: m.Subject,
			Date:    m.Date,
			Snippet: m.Snippet,
		}
	}
	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: settings.Model,
		// The Temperature field is omitempty, so a literal 0 never reaches
		// the wire. The library's convention for an effective zero is the
		// smallest positive float32.
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})
	if err != nil {
		return nil, wrapAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &provider.RemoteError{Status: 200, Body: "empty choices in completion response"}
	}

	decisions, err := decodeDecisions(resp.Choices[0].Message.Content)
	if err != nil {
		// Degrade: every message in the batch falls back to its default
		// decision instead of aborting the scan.
		c.log.Warn("malformed classification payload, using default decisions",
			zap.Int("batch_size", len(batch)),
			zap.Error(err))
		decisions = nil
	}

	return mergeDecisions(batch, decisions), nil
}

// decodeDecisions parses the completion content. An unparseable payload is a
// DecodeError; a parseable payload without decisions is just empty.
func decodeDecisions(content string) ([]wireDecision, error) {
	var parsed wireResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, &provider.DecodeError{Err: err}
	}
	return parsed.Decisions, nil
}

// mergeDecisions reconciles the response against the requested batch: output
// order matches the input, unmatched response ids are dropped, and missing
// ids get the default decision.
func mergeDecisions(batch []domain.MessageMeta, decisions []wireDecision) []domain.LabeledEmail {
	byID := make(map[string]wireDecision, len(decisions))
	for _, d := range decisions {
		byID[d.ID] = d
	}

	labeled := make([]domain.LabeledEmail, len(batch))
	for i, m := range batch {
		decision := domain.DefaultDecision(m.ID)
		if d, ok := byID[m.ID]; ok {
			decision = domain.Decision{
				ID:       m.ID,
				Action:   domain.ParseAction(d.Action),
				Category: d.Category,
				Summary:  d.Summary,
				Reason:   d.Reason,
			}
			if decision.Category == "" {
				decision.Category = "other"
			}
		}
		labeled[i] = domain.LabeledEmail{MessageMeta: m, Decision: decision}
	}
	return labeled
}

// wrapAPIError converts go-openai errors into the shared taxonomy.
func wrapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 401 {
			return &provider.AuthError{Reason: "OpenAI rejected the API key"}
		}
		return &provider.RemoteError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	return fmt.Errorf("failed to create chat completion: %w", err)
}

// Compile-time interface compliance check.
var _ provider.Classifier = (*Client)(nil)
