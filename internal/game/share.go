// internal/game/share.go
//
// Spoiler-free share text: one emoji row per guess.

package game

import (
	"strings"

	"github.com/robalobadob/konnections/internal/puzzle"
)

var emoji = map[puzzle.Color]string{
	puzzle.ColorYellow: "🟨",
	puzzle.ColorGreen:  "🟩",
	puzzle.ColorBlue:   "🟦",
	puzzle.ColorPurple: "🟪",
	puzzle.ColorNone:   "⬜",
}

// ShareText renders the header and guess grid. An empty date prints "Today".
func ShareText(date string, history []GuessResult) string {
	if date == "" {
		date = "Today"
	}
	var b strings.Builder
	b.WriteString("Konnections\nPuzzle: ")
	b.WriteString(date)
	b.WriteString("\n")

	rows := make([]string, len(history))
	for i, g := range history {
		var row strings.Builder
		for _, c := range g.Colors {
			e, ok := emoji[c]
			if !ok {
				e = emoji[puzzle.ColorNone]
			}
			row.WriteString(e)
		}
		rows[i] = row.String()
	}
	b.WriteString(strings.Join(rows, "\n"))
	return b.String()
}

// ShareText is the share grid for this session's board date.
func (s *Session) ShareText() string {
	return ShareText(s.board.Date, s.history)
}
