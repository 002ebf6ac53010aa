// internal/game/engine.go
//
// Guess engine for a single Konnections session.
// Responsibilities:
//   - Build 16 tiles from a board.
//   - Selection (max 4, in order), tagging, shuffling, mark clearing.
//   - Evaluate a 4-word guess: match → solve, miss → spend a mistake.
//   - Track state transitions: PLAYING → WON/LOST.
//
// Notes:
//   - The engine never returns errors. An action that does not apply
//     (wrong status, solved tile, fifth selection, submit without four) is
//     a no-op; Select reports false and Submit reports FeedbackNone.
//   - A session is driven by one player, one action at a time. It has no
//     locks and must not be shared between goroutines.

package game

import (
	"math/rand"

	"github.com/robalobadob/konnections/internal/puzzle"
)

// Session is the state machine for one play-through of one board.
type Session struct {
	board     *puzzle.Board
	tiles     []Tile
	index     map[string]int // word -> position in tiles
	selection []string       // selected words, in selection order
	mistakes  int
	solved    []puzzle.Category // ascending difficulty
	status    Status
	history   []GuessResult
	activeTag TagColor
	notice    Feedback
	shuffle   func(n int, swap func(i, j int))
}

// Option configures a Session.
type Option func(*Session)

// WithShuffle replaces rand.Shuffle (tests pass a deterministic permutation).
func WithShuffle(fn func(n int, swap func(i, j int))) Option {
	return func(s *Session) { s.shuffle = fn }
}

// New starts a session. Tiles follow b.AllWords order. The session keeps
// its own copy of b.
func New(b *puzzle.Board, opts ...Option) *Session {
	s := &Session{
		board:     b.Clone(),
		mistakes:  InitialMistakes,
		status:    StatusPlaying,
		activeTag: TagNone,
		shuffle:   rand.Shuffle,
	}
	for _, o := range opts {
		o(s)
	}
	s.tiles = make([]Tile, len(s.board.AllWords))
	for i, w := range s.board.AllWords {
		s.tiles[i] = Tile{Word: w, Marks: []TagColor{}}
	}
	s.reindex()
	return s
}

func (s *Session) reindex() {
	s.index = make(map[string]int, len(s.tiles))
	for i, t := range s.tiles {
		s.index[t.Word] = i
	}
}

func (s *Session) playing() bool { return s.status == StatusPlaying }

// Select toggles a tile's selection, or in tag mode toggles the active tag
// on it. Reports whether anything changed.
func (s *Session) Select(word string) bool {
	if !s.playing() {
		return false
	}
	i, ok := s.index[word]
	if !ok || s.tiles[i].Solved {
		return false
	}
	t := &s.tiles[i]

	if s.activeTag != TagNone {
		return toggleMark(t, s.activeTag)
	}

	if t.Selected {
		t.Selected = false
		s.selection = remove(s.selection, word)
		return true
	}
	if len(s.selection) >= puzzle.GroupSize {
		return false
	}
	t.Selected = true
	s.selection = append(s.selection, word)
	return true
}

func toggleMark(t *Tile, tag TagColor) bool {
	for j, m := range t.Marks {
		if m == tag {
			t.Marks = append(t.Marks[:j:j], t.Marks[j+1:]...)
			return true
		}
	}
	if len(t.Marks) >= MaxMarks {
		return false
	}
	t.Marks = append(t.Marks, tag)
	return true
}

func remove(words []string, w string) []string {
	out := words[:0:0]
	for _, x := range words {
		if x != w {
			out = append(out, x)
		}
	}
	return out
}

// DeselectAll clears every selection.
func (s *Session) DeselectAll() {
	if !s.playing() {
		return
	}
	for i := range s.tiles {
		s.tiles[i].Selected = false
	}
	s.selection = nil
}

// Shuffle keeps solved tiles first, in their current relative order, and
// randomly permutes the unsolved ones after them.
func (s *Session) Shuffle() {
	if !s.playing() {
		return
	}
	solved := make([]Tile, 0, len(s.tiles))
	unsolved := make([]Tile, 0, len(s.tiles))
	for _, t := range s.tiles {
		if t.Solved {
			solved = append(solved, t)
		} else {
			unsolved = append(unsolved, t)
		}
	}
	s.shuffle(len(unsolved), func(i, j int) { unsolved[i], unsolved[j] = unsolved[j], unsolved[i] })
	s.tiles = append(solved, unsolved...)
	s.reindex()
}

// Tag enters tag mode with color; TagNone leaves it.
func (s *Session) Tag(color TagColor) {
	if !s.playing() {
		return
	}
	if color == TagNone || color.valid() {
		s.activeTag = color
	}
}

// ClearTag returns to selection mode.
func (s *Session) ClearTag() { s.Tag(TagNone) }

// ClearAllMarks removes every mark from every tile, in any status.
func (s *Session) ClearAllMarks() {
	for i := range s.tiles {
		s.tiles[i].Marks = []TagColor{}
	}
}

// Submit evaluates the current 4-word selection.
func (s *Session) Submit() Feedback {
	if !s.playing() || len(s.selection) != puzzle.GroupSize {
		return FeedbackNone
	}
	words := append([]string(nil), s.selection...)

	colors := make([]puzzle.Color, len(words))
	for i, w := range words {
		colors[i] = s.board.ColorOf(w)
	}
	s.history = append(s.history, GuessResult{Colors: colors})

	// match is decided before any overlap scoring
	if cat, ok := s.match(words); ok {
		s.solve(cat)
		if len(s.solved) == puzzle.CategoryCount {
			s.status = StatusWon
			s.notice = FeedbackWon
		} else {
			s.notice = FeedbackFound
		}
		return s.notice
	}

	s.mistakes--
	s.notice = FeedbackNotQuite
	if s.maxOverlap(words) == puzzle.GroupSize-1 {
		s.notice = FeedbackOneAway
	}
	if s.mistakes == 0 {
		s.status = StatusLost
		s.reveal()
		s.notice = FeedbackLost
	}
	return s.notice
}

// match returns the category whose words are exactly the selected words.
func (s *Session) match(words []string) (puzzle.Category, bool) {
	for _, c := range s.board.Categories {
		if len(c.Words) != len(words) {
			continue
		}
		all := true
		for _, w := range c.Words {
			if !contains(words, w) {
				all = false
				break
			}
		}
		if all {
			return c, true
		}
	}
	return puzzle.Category{}, false
}

// maxOverlap is the largest number of guessed words sharing one category.
func (s *Session) maxOverlap(words []string) int {
	best := 0
	for _, c := range s.board.Categories {
		n := 0
		for _, w := range words {
			if c.Has(w) {
				n++
			}
		}
		if n > best {
			best = n
		}
	}
	return best
}

func (s *Session) solve(cat puzzle.Category) {
	for _, w := range cat.Words {
		t := &s.tiles[s.index[w]]
		t.Solved = true
		t.SolvedColor = cat.Color
		t.Selected = false
	}
	s.selection = nil
	s.solved = puzzle.SortedByDifficulty(append(s.solved, cat))
}

// reveal solves every remaining tile with its true color and lists all
// categories. Safe to call more than once.
func (s *Session) reveal() {
	for i := range s.tiles {
		t := &s.tiles[i]
		t.Selected = false
		if !t.Solved {
			t.Solved = true
			t.SolvedColor = s.board.ColorOf(t.Word)
		}
	}
	s.selection = nil
	s.solved = puzzle.SortedByDifficulty(s.board.Categories)
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

// Tiles returns a copy of the tiles in display order.
func (s *Session) Tiles() []Tile {
	out := make([]Tile, len(s.tiles))
	for i, t := range s.tiles {
		t.Marks = append([]TagColor{}, t.Marks...)
		out[i] = t
	}
	return out
}

// Selected returns the selected words in selection order.
func (s *Session) Selected() []string { return append([]string(nil), s.selection...) }

func (s *Session) MistakesRemaining() int { return s.mistakes }

// SolvedCategories returns solved categories, easiest first.
func (s *Session) SolvedCategories() []puzzle.Category {
	return puzzle.SortedByDifficulty(s.solved)
}

func (s *Session) Status() Status { return s.status }

// History returns every submitted guess, oldest first.
func (s *Session) History() []GuessResult {
	out := make([]GuessResult, len(s.history))
	for i, g := range s.history {
		out[i] = GuessResult{Colors: append([]puzzle.Color(nil), g.Colors...)}
	}
	return out
}

func (s *Session) ActiveTag() TagColor { return s.activeTag }

// Notice is the feedback of the last Submit, until cleared.
func (s *Session) Notice() Feedback { return s.notice }

// ClearNotice drops a transient notice. Terminal notices stay.
func (s *Session) ClearNotice() {
	if s.notice.Transient() {
		s.notice = FeedbackNone
	}
}

// Board returns a copy of the session's board.
func (s *Session) Board() *puzzle.Board { return s.board.Clone() }
