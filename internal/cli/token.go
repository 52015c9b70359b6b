package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"academy-qabot/internal/pkg/jwtutil"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

// tokenCmd issues a bearer token for the admin API.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a JWT for the admin endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = time.Duration(currentConfig.Auth.JWTExpireMinute) * time.Minute
		}
		token, err := jwtutil.GenerateToken(currentConfig.Auth.JWTSecret, ttl, tokenSubject, tokenRole)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", jwtutil.RoleAdmin, "token role")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to auth.jwt_expire_minute)")
	rootCmd.AddCommand(tokenCmd)
}
