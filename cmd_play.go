package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/konnections/internal/client"
	"github.com/robalobadob/konnections/internal/daycache"
)

var (
	playServer   string
	playDate     string
	playCacheDir string
	playNoCache  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the daily puzzle in the terminal",
	Long: `Play against a running server.

Type words separated by commas to select or deselect them, then "submit".
Type "help" in the game for every command.

Boards are cached per day under --cache-dir, so replaying a day works
offline. Entries older than a week are removed automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cache *daycache.Cache
		if !playNoCache {
			dir := playCacheDir
			if dir == "" {
				base, err := os.UserCacheDir()
				if err != nil {
					return err
				}
				dir = filepath.Join(base, "konnections")
			}
			c, err := daycache.Open(dir)
			if err != nil {
				log.Warn().Err(err).Str("dir", dir).Msg("day cache unavailable")
			} else {
				cache = c
				defer cache.Close()
			}
		}

		p := &player{
			fetcher: client.New(playServer),
			cache:   cache,
			date:    playDate,
			now:     nowFunc,
			loc:     time.Local,
		}
		return p.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	playCmd.Flags().StringVar(&playServer, "server", "http://localhost:5175", "server base URL")
	playCmd.Flags().StringVar(&playDate, "date", "", "date key YYYY-MM-DD (default: today)")
	playCmd.Flags().StringVar(&playCacheDir, "cache-dir", "", "day cache directory (default: user cache dir)")
	playCmd.Flags().BoolVar(&playNoCache, "no-cache", false, "do not read or write the day cache")
}

// puzzleFetcher is the part of client.Client the player uses.
type puzzleFetcher interface {
	Puzzle(ctx context.Context, date string) (*client.Response, error)
}
