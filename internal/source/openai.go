package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/robalobadob/konnections/internal/puzzle"
)

// chatCompleter is the slice of *openai.Client used here.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI asks an OpenAI-compatible chat model for the puzzle, constraining
// the reply to Payload's JSON schema.
type OpenAI struct {
	client  chatCompleter
	model   string
	timeout time.Duration
}

// OpenAIConfig configures NewOpenAI.
type OpenAIConfig struct {
	APIKey  string
	Model   string // default gpt-4o-mini
	BaseURL string // optional, for compatible gateways
	Timeout time.Duration
}

// NewOpenAI builds a source around a fresh client.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: api key is required")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	return &OpenAI{client: openai.NewClientWithConfig(oc), model: cfg.Model, timeout: cfg.Timeout}, nil
}

var payloadSchema = func() *jsonschema.Definition {
	def, err := jsonschema.GenerateSchemaForType(Payload{})
	if err != nil {
		panic(fmt.Sprintf("openai: payload schema: %v", err))
	}
	return def
}()

// Fetch implements Source.
func (o *OpenAI) Fetch(ctx context.Context, dateKey string) (*puzzle.Board, error) {
	prompt, err := Prompt(dateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: render prompt: %v", ErrUnavailable, err)
	}
	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You find daily word puzzles and answer with JSON only."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "konnections_puzzle",
				Schema: payloadSchema,
				Strict: true,
			},
		},
	}

	log.Ctx(ctx).Debug().Str("model", o.model).Str("date", dateKey).Msg("requesting puzzle from openai")
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai returned no choices", ErrUnavailable)
	}
	return Decode(resp.Choices[0].Message.Content, dateKey)
}
