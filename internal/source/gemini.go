package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/robalobadob/konnections/internal/puzzle"
)

// Gemini asks a Google Gemini model for the puzzle in JSON mode.
type Gemini struct {
	llm     llms.Model
	model   string
	timeout time.Duration
}

// GeminiConfig configures NewGemini.
type GeminiConfig struct {
	APIKey  string
	Model   string // default gemini-2.5-flash
	Timeout time.Duration
}

// NewGemini builds a source backed by langchaingo's googleai client.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{llm: llm, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Fetch implements Source.
func (g *Gemini) Fetch(ctx context.Context, dateKey string) (*puzzle.Board, error) {
	prompt, err := Prompt(dateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: render prompt: %v", ErrUnavailable, err)
	}
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	log.Ctx(ctx).Debug().Str("model", g.model).Str("date", dateKey).Msg("requesting puzzle from gemini")
	text, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithJSONMode(),
		llms.WithTemperature(0),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %v", ErrUnavailable, err)
	}
	return Decode(text, dateKey)
}
