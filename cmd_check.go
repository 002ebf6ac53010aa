package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/konnections/internal/client"
	"github.com/robalobadob/konnections/internal/daily"
)

var (
	checkServer string
	checkDate   string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report whether a server has already stored a day's puzzle",
	Long: `Ask a running server (HEAD /puzzle) whether the puzzle for a date is
already stored. Nothing is generated. Pair it with "fetch" to warm a day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := checkDate
		if key == "" {
			key = daily.Today(nowFunc(), time.Local)
		} else if _, err := daily.ParseKey(key); err != nil {
			return err
		}
		return runCheck(cmd.Context(), client.New(checkServer), key, cmd.OutOrStdout())
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkServer, "server", "http://localhost:5175", "server base URL")
	checkCmd.Flags().StringVar(&checkDate, "date", "", "date key YYYY-MM-DD (default: today)")
}

// puzzleChecker is the part of client.Client the check command uses.
type puzzleChecker interface {
	Exists(ctx context.Context, date string) (bool, error)
}

func runCheck(ctx context.Context, c puzzleChecker, key string, out io.Writer) error {
	ok, err := c.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check %s: %w", key, err)
	}
	state := "not stored"
	if ok {
		state = "stored"
	}
	_, err = fmt.Fprintf(out, "%s: %s\n", key, state)
	return err
}
