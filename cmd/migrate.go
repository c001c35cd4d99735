package cmd

import (
	"fmt"

	"yamdb/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		applied, err := database.Migrate(cmd.Context(), rt.db, rt.logger)
		if err != nil {
			return err
		}

		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
		}
		rt.logger.Info("Migrations applied", zap.Strings("files", applied))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
