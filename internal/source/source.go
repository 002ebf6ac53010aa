// internal/source/source.go
//
// Puzzle generation from an external model.
// Responsibilities:
//   - Source interface: Fetch(ctx, dateKey) -> board or error.
//   - Strict decoding of the model's JSON payload into a validated board.
//   - Prompt rendering from the embedded template.
//
// Every failure (transport, rate limit, timeout, malformed or invalid
// output) is returned wrapping ErrUnavailable. There is no partial board.

package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/konnections/assets"
	"github.com/robalobadob/konnections/internal/daily"
	"github.com/robalobadob/konnections/internal/puzzle"
)

// ErrUnavailable marks every generation failure.
var ErrUnavailable = errors.New("puzzle source unavailable")

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 60 * time.Second

// Source produces a candidate puzzle for a date key.
type Source interface {
	Fetch(ctx context.Context, dateKey string) (*puzzle.Board, error)
}

// Payload is the JSON shape the model must return.
type Payload struct {
	Date       string            `json:"date"`
	Categories []PayloadCategory `json:"categories"`
}

// PayloadCategory is one category as returned by the model.
type PayloadCategory struct {
	Label      string   `json:"label"`
	Words      []string `json:"words"`
	Color      string   `json:"color"`
	Difficulty int      `json:"difficulty"`
}

// Decode parses model output into a validated board. Only surrounding
// whitespace is tolerated; prose or code fences around the JSON are rejected.
func Decode(raw, dateKey string) (*puzzle.Board, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	dec.DisallowUnknownFields()
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrUnavailable)
	}

	b := &puzzle.Board{Date: strings.TrimSpace(p.Date)}
	if b.Date == "" {
		b.Date = daily.LongDate(dateKey)
	}
	for _, pc := range p.Categories {
		c := puzzle.Category{
			ID:         uuid.NewString(),
			Label:      strings.TrimSpace(pc.Label),
			Color:      puzzle.Color(strings.ToUpper(strings.TrimSpace(pc.Color))),
			Difficulty: pc.Difficulty,
		}
		for _, w := range pc.Words {
			c.Words = append(c.Words, normalizeWord(w))
		}
		b.Categories = append(b.Categories, c)
	}
	b.AllWords = puzzle.Flatten(b.Categories)

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return b, nil
}

func normalizeWord(w string) string {
	return strings.ToUpper(strings.Join(strings.Fields(w), " "))
}

var promptTmpl = template.Must(template.New("prompt").Parse(assets.Prompt()))

// Prompt renders the generation prompt for a date key.
func Prompt(dateKey string) (string, error) {
	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, struct{ LongDate string }{daily.LongDate(dateKey)})
	return buf.String(), err
}

// withTimeout applies d, or DefaultTimeout when d is zero.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
