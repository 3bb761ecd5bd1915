package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/services"

	"github.com/spf13/cobra"
)

var admin services.RegisterInput

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		b, err := openBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.close(context.Background())

		in := admin
		in.ConfirmPassword = in.Password
		auth := services.NewAuthService(b.stores.Users, nil, "")
		user, err := auth.CreateAdmin(ctx, in)
		if err != nil {
			return err
		}
		logging.Logger.Infof("Event ID: ADMIN_CREATED, Description: Administrator %s created", user.ID.Hex())
		fmt.Fprintln(cmd.OutOrStdout(), user.ID.Hex())
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&admin.Email, "email", "", "administrator email")
	createAdminCmd.Flags().StringVar(&admin.Password, "password", "", "administrator password")
	createAdminCmd.Flags().StringVar(&admin.Name, "name", "Admin", "first name")
	createAdminCmd.Flags().StringVar(&admin.LastName, "lastname", "User", "last name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
