package puzzle

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackIsValid(t *testing.T) {
	b := Fallback()
	require.NoError(t, b.Validate())
	assert.Equal(t, "Fallback Puzzle", b.Date)
	assert.Len(t, b.AllWords, WordCount)

	c, ok := b.CategoryOf("SLEET")
	require.True(t, ok)
	assert.Equal(t, "WET WEATHER", c.Label)
	assert.Equal(t, ColorYellow, c.Color)
	assert.Equal(t, ColorPurple, b.ColorOf("MOTH"))
	assert.Equal(t, ColorNone, b.ColorOf("CAT"))
}

func TestFallbackReturnsFreshValue(t *testing.T) {
	a := Fallback()
	a.AllWords[0] = "CHANGED"
	a.Categories[0].Words[0] = "CHANGED"

	b := Fallback()
	assert.Equal(t, "HAIL", b.AllWords[0])
	assert.Equal(t, "HAIL", b.Categories[0].Words[0])
}

func TestEncodeDecodeKeepsBoard(t *testing.T) {
	b := Fallback()
	ShuffleWords(b.AllWords)

	data, err := Encode(b)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, b, got)
	assert.ElementsMatch(t, Flatten(got.Categories), got.AllWords)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *Board)
	}{
		{"three categories", func(b *Board) {
			b.Categories = b.Categories[:3]
		}},
		{"short category", func(b *Board) {
			b.Categories[0].Words = b.Categories[0].Words[:3]
		}},
		{"duplicate color", func(b *Board) {
			b.Categories[1].Color = ColorYellow
		}},
		{"duplicate difficulty", func(b *Board) {
			b.Categories[3].Difficulty = 1
		}},
		{"difficulty out of range", func(b *Board) {
			b.Categories[3].Difficulty = 5
		}},
		{"none color", func(b *Board) {
			b.Categories[2].Color = ColorNone
		}},
		{"word in two categories", func(b *Board) {
			b.Categories[1].Words[0] = "HAIL"
			b.AllWords = Flatten(b.Categories)
		}},
		{"allWords has stranger", func(b *Board) {
			b.AllWords[0] = "CAT"
		}},
		{"allWords too short", func(b *Board) {
			b.AllWords = b.AllWords[:15]
		}},
		{"empty label", func(b *Board) {
			b.Categories[0].Label = ""
		}},
		{"empty word", func(b *Board) {
			b.Categories[0].Words[0] = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Fallback()
			tt.mutate(b)
			err := b.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestDecodeRejectsCorruptRecords(t *testing.T) {
	good, err := Encode(Fallback())
	require.NoError(t, err)

	var withExtra map[string]any
	require.NoError(t, json.Unmarshal(good, &withExtra))
	withExtra["bonus"] = true
	extra, err := json.Marshal(withExtra)
	require.NoError(t, err)

	for name, data := range map[string][]byte{
		"truncated":     good[:len(good)/2],
		"empty":         {},
		"not json":      []byte("hello"),
		"unknown field": extra,
		"trailing":      append(append([]byte{}, good...), []byte(`{}`)...),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(data)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := Fallback()
	c := b.Clone()
	c.AllWords[0] = "X"
	c.Categories[0].Words[0] = "X"
	assert.Equal(t, "HAIL", b.AllWords[0])
	assert.Equal(t, "HAIL", b.Categories[0].Words[0])
}

func TestSortedByDifficulty(t *testing.T) {
	cats := Fallback().Categories
	rev := []Category{cats[3], cats[1], cats[0], cats[2]}
	got := SortedByDifficulty(rev)
	for i, c := range got {
		assert.Equal(t, i+1, c.Difficulty)
	}
	assert.Equal(t, 4, rev[0].Difficulty, "input is not reordered")
}
