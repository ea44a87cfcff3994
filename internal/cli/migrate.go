package cli

import (
	"planner-backend/pkg/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(opts.cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			log.Info().Str("component", "database").Int("models", len(models())).Msg("schema migrated")
			return nil
		},
	}
}
