package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pushp314/bloodbridge-backend/internal/config"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/pushp314/bloodbridge-backend/internal/seeds"
	"github.com/pushp314/bloodbridge-backend/internal/services"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bloodctl",
	Short: "Operator commands for the BloodBridge backend",
	Long: `bloodctl runs maintenance tasks against the BloodBridge database.

It reads the same DATABASE_URL and .env settings as the server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadConfig()
		logger.Init(config.AppConfig.Env)
		database.Connect()
	},
}

var setAdminCmd = &cobra.Command{
	Use:   "set-admin",
	Short: "Grant the admin role to a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeRole(cmd, true)
	},
}

var revokeAdminCmd = &cobra.Command{
	Use:   "revoke-admin",
	Short: "Revoke the admin role (the user becomes a donor)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeRole(cmd, false)
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay-donations",
	Short: "Apply badge accrual for donations that were never processed",
	Long: `replay-donations finds every logged donation without a processed-event
record and applies it to the donor, oldest first. Donations that were
already applied are never counted twice.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.DB.AutoMigrate(models.All()...); err != nil {
			return err
		}

		stats, err := services.ReplayPendingDonations()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d, skipped %d\n", stats.Applied, stats.Skipped)
		if stats.Applied > 0 {
			reason := fmt.Sprintf("applied %d", stats.Applied)
			if err := services.LogAdminAction(database.DB, "", models.ActionReplayDonations, "", "donation", reason); err != nil {
				logger.Warn().Err(err).Msg("Failed to audit replay")
			}
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo accounts, camps and requests",
	Long: `seed creates an admin, two hospitals (one awaiting approval), two donors,
upcoming camps and open requests. Existing rows are left untouched. Every
seeded account uses the password ` + seeds.DemoPassword + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.AppConfig.Env == "production" {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf("refusing to seed a production database without --force")
			}
		}
		if err := database.DB.AutoMigrate(models.All()...); err != nil {
			return err
		}

		summary, err := seeds.Run(database.DB, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d demo accounts, %d camps, %d open requests\n",
			summary.Users, summary.Camps, summary.Open)
		return nil
	},
}

func changeRole(cmd *cobra.Command, grant bool) error {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		return fmt.Errorf("--email is required")
	}

	user, err := services.SetAdmin(email, grant)
	if err != nil {
		return err
	}

	verb := "promoted to admin"
	if !grant {
		verb = "demoted to donor"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) %s\n", user.Username, user.Email, verb)
	return nil
}

func init() {
	setAdminCmd.Flags().String("email", "", "email of the account to promote")
	revokeAdminCmd.Flags().String("email", "", "email of the admin to demote")

	seedCmd.Flags().Bool("force", false, "allow seeding when ENV is production")

	rootCmd.AddCommand(setAdminCmd, revokeAdminCmd, replayCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
