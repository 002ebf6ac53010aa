// play.go
//
// Line-oriented terminal client around game.Session.
// Responsibilities:
//   - Load the day's board (day cache first, then the server).
//   - Parse commands and drive the session.
//   - Render tiles, solved rows and notices with lipgloss.
//
// The renderer is bound to the output writer, so a pipe or a test buffer
// gets plain text and a terminal gets colors.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/konnections/internal/daily"
	"github.com/robalobadob/konnections/internal/daycache"
	"github.com/robalobadob/konnections/internal/game"
	"github.com/robalobadob/konnections/internal/puzzle"
)

const helpText = `Commands:
  WORD[, WORD...]      select or deselect words (in tag mode: tag them)
  submit               check the four selected words
  clear                deselect everything
  shuffle              shuffle the unsolved words
  tag coral|turquoise|hotpink|slate|none
                       enter or leave tag mode
  untag                remove every tag
  share                print the result grid
  again                start over with a fresh board (after the game ends)
  help                 this text
  quit                 leave`

var categoryColors = map[puzzle.Color]lipgloss.Color{
	puzzle.ColorYellow: lipgloss.Color("#F9DF6D"),
	puzzle.ColorGreen:  lipgloss.Color("#A0C35A"),
	puzzle.ColorBlue:   lipgloss.Color("#B0C4EF"),
	puzzle.ColorPurple: lipgloss.Color("#BA81C5"),
}

var tagColors = map[game.TagColor]lipgloss.Color{
	game.TagCoral:     lipgloss.Color("#FF7F50"),
	game.TagTurquoise: lipgloss.Color("#40E0D0"),
	game.TagHotPink:   lipgloss.Color("#FF69B4"),
	game.TagSlate:     lipgloss.Color("#708090"),
}

// player holds one terminal play-through and its collaborators.
type player struct {
	fetcher puzzleFetcher
	cache   *daycache.Cache // optional
	date    string          // "" = today
	now     func() time.Time
	loc     *time.Location

	session *game.Session
	out     io.Writer
	r       *lipgloss.Renderer
}

// run plays until the input ends or the player quits.
func (p *player) run(ctx context.Context, in io.Reader, out io.Writer) error {
	p.out = out
	p.r = lipgloss.NewRenderer(out)

	if err := p.start(ctx); err != nil {
		return err
	}
	p.render()

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		quit, err := p.handle(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// start loads a board and opens a new session on it.
func (p *player) start(ctx context.Context) error {
	b, err := p.load(ctx)
	if err != nil {
		return err
	}
	p.session = game.New(b)
	return nil
}

// load returns the day's board, preferring the day cache. The server is
// asked for the player's local date so the cache key and the board agree.
// Fallback boards are never cached.
func (p *player) load(ctx context.Context) (*puzzle.Board, error) {
	key := p.date
	if key == "" {
		key = daily.Today(p.now(), p.loc)
	}
	if p.cache != nil {
		if b, ok := p.cache.Get(key); ok {
			log.Debug().Str("date", key).Msg("board from day cache")
			puzzle.ShuffleWords(b.AllWords)
			return b, nil
		}
	}

	res, err := p.fetcher.Puzzle(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch puzzle: %w", err)
	}
	if res.Fallback {
		fmt.Fprintln(p.out, p.r.NewStyle().Faint(true).Render("(today's puzzle is unavailable; playing a classic)"))
	} else if p.cache != nil {
		if err := p.cache.Put(key, res.Puzzle); err != nil {
			log.Warn().Err(err).Msg("day cache write failed")
		}
	}
	return res.Puzzle, nil
}

// handle executes one input line and reports whether to quit.
func (p *player) handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	s := p.session

	switch fields[0] {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(p.out, helpText)
		return false, nil
	case "submit":
		if s.Status() != game.StatusPlaying {
			p.say("This game is over. Type \"again\" to play again.")
			return false, nil
		}
		fb := s.Submit()
		if fb == game.FeedbackNone {
			p.say("Select four words first.")
			return false, nil
		}
	case "clear":
		s.DeselectAll()
	case "shuffle":
		s.Shuffle()
	case "untag":
		s.ClearAllMarks()
	case "tag":
		if len(fields) < 2 {
			p.say("tag needs a color: coral, turquoise, hotpink, slate or none")
			return false, nil
		}
		s.Tag(game.TagColor(strings.ToUpper(fields[1])))
	case "share":
		fmt.Fprintln(p.out, s.ShareText())
		return false, nil
	case "again":
		if s.Status() == game.StatusPlaying {
			p.say("Finish this one first.")
			return false, nil
		}
		if err := p.start(ctx); err != nil {
			return false, err
		}
	default:
		p.pick(line)
	}
	p.render()
	return false, nil
}

// pick toggles each comma-separated word.
func (p *player) pick(line string) {
	for _, w := range strings.Split(line, ",") {
		w = strings.ToUpper(strings.Join(strings.Fields(w), " "))
		if w == "" {
			continue
		}
		if !p.session.Select(w) {
			p.say(fmt.Sprintf("Can't select %s.", w))
		}
	}
}

func (p *player) say(msg string) {
	fmt.Fprintln(p.out, p.r.NewStyle().Italic(true).Render(msg))
}

func (p *player) render() {
	s := p.session
	var b strings.Builder

	title := p.r.NewStyle().Bold(true).Render("Konnections")
	fmt.Fprintf(&b, "%s  %s\n", title, s.Board().Date)

	for _, c := range s.SolvedCategories() {
		row := p.r.NewStyle().
			Background(categoryColors[c.Color]).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1).
			Width(4*14 + 3).
			Render(c.Label + ": " + strings.Join(c.Words, ", "))
		b.WriteString(row + "\n")
	}

	var cells []string
	for _, t := range s.Tiles() {
		if t.Solved {
			continue
		}
		cells = append(cells, p.tile(t))
		if len(cells) == puzzle.GroupSize {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
			cells = nil
		}
	}
	if len(cells) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}

	left := s.MistakesRemaining()
	fmt.Fprintf(&b, "Mistakes remaining: %s%s",
		strings.Repeat("● ", left), strings.Repeat("○ ", game.InitialMistakes-left))
	if tag := s.ActiveTag(); tag != game.TagNone {
		fmt.Fprintf(&b, "  tagging: %s", p.r.NewStyle().Foreground(tagColors[tag]).Render(tag.Label()))
	}
	b.WriteString("\n")

	if msg := s.Notice().Message(); msg != "" {
		b.WriteString(p.r.NewStyle().Bold(true).Render(msg) + "\n")
		s.ClearNotice()
	}
	if s.Status() != game.StatusPlaying {
		b.WriteString("\n" + s.ShareText() + "\n\nType \"again\" to play again or \"quit\".\n")
	}
	fmt.Fprint(p.out, b.String())
}

// tile renders one unsolved word: brackets when selected, one colored
// group letter per tag.
func (p *player) tile(t game.Tile) string {
	word := t.Word
	if t.Selected {
		word = "[" + word + "]"
	}
	style := p.r.NewStyle().Width(14).Padding(0, 1)
	if t.Selected {
		style = style.Bold(true).Reverse(true)
	}
	out := style.Render(word)
	if len(t.Marks) > 0 {
		var dots []string
		for _, m := range t.Marks {
			dots = append(dots, p.r.NewStyle().Foreground(tagColors[m]).Render(strings.TrimPrefix(m.Label(), "Group ")))
		}
		out = lipgloss.JoinVertical(lipgloss.Left, out, p.r.NewStyle().Padding(0, 1).Render(strings.Join(dots, "")))
	}
	return out
}
