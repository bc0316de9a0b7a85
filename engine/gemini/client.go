// Package gemini wraps the official google.golang.org/genai client behind the
// small surfaces the engine needs: schema-constrained advisory JSON, streamed
// chat, grounded place search, and feed embeddings. Construct it only when an
// API key is present; callers hold interfaces and fall back to offline
// implementations otherwise.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	genai "google.golang.org/genai"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
)

var ErrInvalidJSON = errors.New("gemini: invalid JSON from model")

const (
	// DefaultModel handles advisory, chat, and place search.
	DefaultModel = "gemini-2.5-flash"
	// DefaultEmbedModel produces feed-item embeddings.
	DefaultEmbedModel = "gemini-embedding-001"
	// DefaultLiveModel is the bidirectional native-audio model.
	DefaultLiveModel = "gemini-2.5-flash-native-audio-preview-09-2025"
)

// Client is a thin wrapper around the genai client.
type Client struct {
	cli        *genai.Client
	apiKey     string
	model      string
	embedModel string
	logger     *slog.Logger
}

// New creates a Client for the Gemini API backend.
func New(ctx context.Context, apiKey string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &Client{
		cli:        cli,
		apiKey:     apiKey,
		model:      DefaultModel,
		embedModel: DefaultEmbedModel,
		logger:     logger,
	}, nil
}

// Advice is the model-authored half of an advisory result.
type Advice struct {
	OverallAssessment string                  `json:"overallAssessment"`
	Recommendations   []domain.Recommendation `json:"recommendations"`
}

var advisorySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"overallAssessment": {Type: genai.TypeString},
		"recommendations": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"component":          {Type: genai.TypeString},
					"recommendationText": {Type: genai.TypeString},
					"urgency":            {Type: genai.TypeString, Enum: []string{"High", "Medium", "Low"}},
				},
				Required: []string{"component", "recommendationText", "urgency"},
			},
		},
	},
	Required: []string{"overallAssessment", "recommendations"},
}

// Advise sends the advisory prompt and parses the schema-constrained reply.
// One call, no retry; the advisory service owns the degradation policy.
func (c *Client) Advise(ctx context.Context, prompt string) (Advice, error) {
	resp, err := c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   advisorySchema,
		},
	)
	if err != nil {
		return Advice{}, fmt.Errorf("gemini: advise: %w", err)
	}
	txt, ok := firstText(resp)
	if !ok {
		return Advice{}, ErrInvalidJSON
	}
	var advice Advice
	if err := json.Unmarshal([]byte(txt), &advice); err != nil {
		return Advice{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return advice, nil
}

// Embed returns one embedding vector per input text.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: t}}}
	}
	resp, err := c.cli.Models.EmbedContent(ctx, c.embedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: embed: %w", err)
	}
	out := make([][]float32, 0, len(resp.Embeddings))
	for _, e := range resp.Embeddings {
		out = append(out, e.Values)
	}
	return out, nil
}

// firstText extracts the first candidate's first text part.
func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", false
	}
	return cand.Content.Parts[0].Text, cand.Content.Parts[0].Text != ""
}
