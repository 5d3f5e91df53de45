package main

import (
	"fmt"
	"time"

	"github.com/explorewithme/ewm/shared/middleware"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "admin-token",
	Short: "Issue a bearer token for the admin API",
	Long: `Sign an HS256 token with role=admin using ADMIN_JWT_SECRET.

Example:
  ewm-main admin-token --subject ops --ttl 24h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		token, err := middleware.IssueAdminToken(cfg.AdminJWTSecret, tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "token lifetime")
}
