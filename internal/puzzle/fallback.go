package puzzle

import "math/rand"

// FallbackDate is the date label of the offline board.
const FallbackDate = "Fallback Puzzle"

// Fallback returns the fixed offline board. Each call builds a fresh value,
// so callers may shuffle it.
func Fallback() *Board {
	cats := []Category{
		{ID: "1", Label: "WET WEATHER", Words: []string{"HAIL", "RAIN", "SLEET", "SNOW"}, Color: ColorYellow, Difficulty: 1},
		{ID: "2", Label: "WORDS IN A SONG", Words: []string{"BRIDGE", "CHORUS", "HOOK", "VERSE"}, Color: ColorGreen, Difficulty: 2},
		{ID: "3", Label: "THINGS THAT SPIN", Words: []string{"RECORD", "TOP", "WHEEL", "YOYO"}, Color: ColorBlue, Difficulty: 3},
		{ID: "4", Label: "___ BALL", Words: []string{"EIGHT", "FIRE", "MEAT", "MOTH"}, Color: ColorPurple, Difficulty: 4},
	}
	return &Board{Date: FallbackDate, Categories: cats, AllWords: Flatten(cats)}
}

// Flatten concatenates category words in category order.
func Flatten(cats []Category) []string {
	out := make([]string, 0, WordCount)
	for _, c := range cats {
		out = append(out, c.Words...)
	}
	return out
}

// ShuffleWords permutes words in place.
func ShuffleWords(words []string) {
	rand.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
}
