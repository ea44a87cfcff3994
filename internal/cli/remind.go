package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"planner-backend/internal/reminder"

	"github.com/spf13/cobra"
)

func newRemindCommand(opts *rootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:       "remind {tasks|notes}",
		Short:     "Run one reminder scan immediately and print its result",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"tasks", "notes"},
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at %q: %w", at, err)
				}
				now = parsed
			}

			a, err := newApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.close()

			var result reminder.Result
			switch args[0] {
			case "tasks":
				result, err = a.scanner.RunTaskReminders(cmd.Context(), now)
			case "notes":
				result, err = a.scanner.RunNotesDigest(cmd.Context(), now)
			}
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "pretend the scan runs at this RFC3339 instant")
	return cmd
}
