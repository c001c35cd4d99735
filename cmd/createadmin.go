package cmd

import (
	"errors"
	"fmt"

	"yamdb/internal/data/repository"
	"yamdb/internal/usecase"
	"yamdb/pkg/mailer"

	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminEmail    string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create or promote an administrator and print a confirmation code",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminUsername == "" || adminEmail == "" {
			return errors.New("--username and --email are required")
		}

		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		repos := repository.NewRepository(rt.db, rt.logger)
		service := usecase.NewService(repos, rt.config, mailer.New(rt.config.Email, rt.logger), nil, rt.logger)

		code, err := service.User.BootstrapAdmin(cmd.Context(), adminUsername, adminEmail)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Admin %s is ready.\nConfirmation code: %s\n", adminUsername, code)
		fmt.Fprintln(cmd.OutOrStdout(), "Exchange it at POST /api/v1/auth/token to obtain an access token.")
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Administrator username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Administrator email")
	rootCmd.AddCommand(createAdminCmd)
}
