// internal/game/types.go
//
// Core type definitions for a Konnections play session.
// Defines:
//   - Status: PLAYING → WON | LOST.
//   - TagColor: the four organizational marks a player can paint on tiles.
//   - Tile: per-word session state.
//   - GuessResult: colors of one submitted guess, for the share grid.
//   - Feedback: what a submit produced, with its player-facing message.

package game

import (
	"time"

	"github.com/robalobadob/konnections/internal/puzzle"
)

// Status is the coarse session state.
type Status string

const (
	StatusPlaying Status = "PLAYING"
	StatusWon     Status = "WON"
	StatusLost    Status = "LOST"
)

// InitialMistakes is the number of wrong guesses a player may make.
const InitialMistakes = 4

// MaxMarks caps the tags on one tile.
const MaxMarks = 4

// NoticeTTL is how long a transient notice stays visible.
const NoticeTTL = 2 * time.Second

// TagColor is a player-applied label, independent of the hidden categories.
type TagColor string

const (
	TagNone      TagColor = "NONE"
	TagCoral     TagColor = "CORAL"
	TagTurquoise TagColor = "TURQUOISE"
	TagHotPink   TagColor = "HOTPINK"
	TagSlate     TagColor = "SLATE"
)

// TagColors is the fixed palette in display order.
var TagColors = []TagColor{TagCoral, TagTurquoise, TagHotPink, TagSlate}

// Label returns the display label of a tag ("Group A".."Group D").
func (t TagColor) Label() string {
	switch t {
	case TagCoral:
		return "Group A"
	case TagTurquoise:
		return "Group B"
	case TagHotPink:
		return "Group C"
	case TagSlate:
		return "Group D"
	}
	return "None"
}

func (t TagColor) valid() bool {
	for _, c := range TagColors {
		if c == t {
			return true
		}
	}
	return false
}

// Tile is the session-local state of one word.
type Tile struct {
	Word        string       `json:"word"`
	Marks       []TagColor   `json:"marks"`
	Selected    bool         `json:"isSelected"`
	Solved      bool         `json:"isSolved"`
	SolvedColor puzzle.Color `json:"solvedColor,omitempty"`
}

// GuessResult records the category colors of one guess, in selection order.
type GuessResult struct {
	Colors []puzzle.Color `json:"colors"`
}

// Feedback is the outcome of Submit.
type Feedback int

const (
	// FeedbackNone means nothing happened (not playing, or not 4 selected).
	FeedbackNone Feedback = iota
	FeedbackFound
	FeedbackOneAway
	FeedbackNotQuite
	FeedbackWon
	FeedbackLost
)

// Message is the text shown to the player.
func (f Feedback) Message() string {
	switch f {
	case FeedbackFound:
		return "Category found!"
	case FeedbackOneAway:
		return "One away..."
	case FeedbackNotQuite:
		return "Not quite."
	case FeedbackWon:
		return "Splendid!"
	case FeedbackLost:
		return "Next time!"
	}
	return ""
}

// Transient reports whether the notice should clear after NoticeTTL.
func (f Feedback) Transient() bool {
	return f == FeedbackFound || f == FeedbackOneAway || f == FeedbackNotQuite
}
