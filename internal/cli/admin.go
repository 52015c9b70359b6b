package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"academy-qabot/internal/app"
	"academy-qabot/internal/pkg/jwtutil"
)

var (
	adminUsername string
	adminPassword string
	adminRole     string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts (requires mysql)",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account for the login endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if a.Auth == nil {
			return fmt.Errorf("admin accounts need mysql.enabled = true")
		}

		admin, err := a.Auth.CreateAdmin(cmd.Context(), app.CreateAdminInput{
			Username: adminUsername,
			Password: adminPassword,
			Role:     adminRole,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s admin %q (role=%s)\n", success("created"), admin.Username, admin.Role)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVarP(&adminUsername, "username", "u", "", "admin username")
	adminCreateCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "admin password (at least 8 characters)")
	adminCreateCmd.Flags().StringVar(&adminRole, "role", jwtutil.RoleAdmin, "role stored in issued tokens")
	_ = adminCreateCmd.MarkFlagRequired("username")
	_ = adminCreateCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(adminCmd)
}
