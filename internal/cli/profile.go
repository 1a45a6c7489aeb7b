package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/g66wcyhhgd-glitch/control-hub/pkg/output"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Connection profile management",
	Long:  "Create and switch between named connection profiles",
}

var profileSetCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Create or update a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		hubURL, _ := cmd.Flags().GetString("hub-url")
		dbURL, _ := cmd.Flags().GetString("db-url")

		if err := cfg.SaveProfile(name, hubURL, dbURL); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		output.Success("Profile '%s' saved and activated", name)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(cfg.Profiles)
		}

		table := output.NewTable("Name", "Hub URL", "Database", "Active")
		for name, p := range cfg.Profiles {
			active := ""
			if name == cfg.CurrentProfile {
				active = "*"
			}
			db := ""
			if p.DatabaseURL != "" {
				db = "configured"
			}
			table.AddRow(name, p.HubURL, db, active)
		}
		table.Render()
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Switch the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if _, err := cfg.GetProfile(name); err != nil {
			return err
		}
		cfg.CurrentProfile = name
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		output.Success("Switched to profile '%s'", name)
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveProfile(args[0]); err != nil {
			return err
		}
		output.Success("Profile '%s' removed", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileUseCmd)
	profileCmd.AddCommand(profileRemoveCmd)

	profileSetCmd.Flags().String("hub-url", "http://localhost:8080", "webhook service base URL")
	profileSetCmd.Flags().String("db-url", "", "database URL for management commands")
}
