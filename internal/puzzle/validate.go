// internal/puzzle/validate.go
//
// Ingestion checks for boards read from the store or produced by a source.
// Field rules live in struct tags (go-playground/validator); the checks that
// span categories (word partition, color and difficulty bijections, allWords
// union) are done by hand below.

package puzzle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every validation or decode failure.
var ErrInvalid = errors.New("invalid puzzle")

var validate = validator.New()

// Validate enforces every Board invariant.
func (b *Board) Validate() error {
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	seenColor := make(map[Color]bool, CategoryCount)
	seenDiff := make(map[int]bool, CategoryCount)
	owner := make(map[string]int, WordCount)
	for i, c := range b.Categories {
		if seenColor[c.Color] {
			return fmt.Errorf("%w: color %s used twice", ErrInvalid, c.Color)
		}
		seenColor[c.Color] = true
		if seenDiff[c.Difficulty] {
			return fmt.Errorf("%w: difficulty %d used twice", ErrInvalid, c.Difficulty)
		}
		seenDiff[c.Difficulty] = true
		for _, w := range c.Words {
			if j, dup := owner[w]; dup {
				return fmt.Errorf("%w: word %q in categories %d and %d", ErrInvalid, w, j, i)
			}
			owner[w] = i
		}
	}

	for _, w := range b.AllWords {
		if _, ok := owner[w]; !ok {
			return fmt.Errorf("%w: word %q not in any category", ErrInvalid, w)
		}
	}
	// len(AllWords) == 16 and unique, len(owner) == 16: same set.
	if len(owner) != len(b.AllWords) {
		return fmt.Errorf("%w: allWords does not cover every category word", ErrInvalid)
	}
	return nil
}

// Decode parses a stored board and validates it. Unknown fields and
// trailing data are rejected.
func Decode(data []byte) (*Board, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var b Board
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalid)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Encode serializes a board in the store record format.
func Encode(b *Board) ([]byte, error) {
	return json.Marshal(b)
}

// SortedByDifficulty returns a copy of cats in ascending difficulty.
func SortedByDifficulty(cats []Category) []Category {
	out := append([]Category(nil), cats...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Difficulty < out[j].Difficulty })
	return out
}
