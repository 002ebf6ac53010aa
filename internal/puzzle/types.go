// internal/puzzle/types.go
//
// Core type definitions for a Konnections puzzle.
// Defines:
//   - Color: the category color ladder (yellow → purple) plus NONE.
//   - Category: four words sharing a hidden theme.
//   - Board: one day's four categories and the 16-word vocabulary.

package puzzle

// Color identifies a category on the board and in shared results.
type Color string

const (
	ColorYellow Color = "YELLOW"
	ColorGreen  Color = "GREEN"
	ColorBlue   Color = "BLUE"
	ColorPurple Color = "PURPLE"

	// ColorNone is only used for rendering (an unmatched word); a Board
	// never carries it.
	ColorNone Color = "NONE"
)

// Colors lists the four category colors in difficulty order.
var Colors = []Color{ColorYellow, ColorGreen, ColorBlue, ColorPurple}

const (
	// CategoryCount is the number of categories on every board.
	CategoryCount = 4
	// GroupSize is the number of words in every category.
	GroupSize = 4
	// WordCount is the size of a board's vocabulary.
	WordCount = CategoryCount * GroupSize
)

// Category is a group of exactly four words sharing a hidden theme.
type Category struct {
	ID         string   `json:"id"`
	Label      string   `json:"label" validate:"required"`
	Words      []string `json:"words" validate:"len=4,unique,dive,required"`
	Color      Color    `json:"color" validate:"oneof=YELLOW GREEN BLUE PURPLE"`
	Difficulty int      `json:"difficulty" validate:"min=1,max=4"`
}

// Has reports whether word belongs to the category.
func (c Category) Has(word string) bool {
	for _, w := range c.Words {
		if w == word {
			return true
		}
	}
	return false
}

// Board is one day's puzzle. The order of AllWords is presentation-only.
type Board struct {
	Date       string     `json:"date"`
	Categories []Category `json:"categories" validate:"len=4,dive"`
	AllWords   []string   `json:"allWords" validate:"len=16,unique,dive,required"`
}

// CategoryOf returns the category containing word.
func (b *Board) CategoryOf(word string) (Category, bool) {
	for _, c := range b.Categories {
		if c.Has(word) {
			return c, true
		}
	}
	return Category{}, false
}

// ColorOf returns the color of the category containing word, or ColorNone.
func (b *Board) ColorOf(word string) Color {
	if c, ok := b.CategoryOf(word); ok {
		return c.Color
	}
	return ColorNone
}

// Clone returns a deep copy so callers can reorder words freely.
func (b *Board) Clone() *Board {
	out := &Board{
		Date:       b.Date,
		Categories: make([]Category, len(b.Categories)),
		AllWords:   append([]string(nil), b.AllWords...),
	}
	for i, c := range b.Categories {
		c.Words = append([]string(nil), c.Words...)
		out.Categories[i] = c
	}
	return out
}
