package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/robalobadob/konnections/internal/daily"
	"github.com/robalobadob/konnections/internal/httpserver"
	"github.com/robalobadob/konnections/internal/provider"
)

var fetchDate string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Obtain one day's puzzle and print it as JSON",
	Long: `Run the provider once for a date, exactly as GET /puzzle would, and
print the response. Use it to warm the store before traffic arrives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		be, err := openBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer be.close()

		key, err := resolveDate(fetchDate)
		if err != nil {
			return err
		}
		return runFetch(cmd.Context(), be.provider, key, cmd.OutOrStdout())
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "date key YYYY-MM-DD (default: today in the configured timezone)")
}

// resolveDate returns key, or today's key in cfg's timezone when key is empty.
func resolveDate(key string) (string, error) {
	if key != "" {
		if _, err := daily.ParseKey(key); err != nil {
			return "", err
		}
		return key, nil
	}
	loc, err := cfg.Location()
	if err != nil {
		return "", err
	}
	return daily.Today(nowFunc(), loc), nil
}

func runFetch(ctx context.Context, p *provider.Provider, key string, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(httpserver.NewPuzzleResponse(p.Obtain(ctx, key)))
}
