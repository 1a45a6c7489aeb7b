package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/repository"
)

var (
	cfgFile string
	cfg     *ProfileConfig
)

var rootCmd = &cobra.Command{
	Use:   "hubctl",
	Short: "Control Hub CLI",
	Long: `hubctl is the command-line interface for the Control Hub webhook platform.

Manage projects and provider integrations, send signed test webhooks,
and inspect the audit trail from your terminal.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.hubctl/config.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "profile to use")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
	rootCmd.PersistentFlags().String("database-url", "", "database URL (overrides profile)")
}

func initConfig() {
	var err error
	cfg, err = LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = DefaultConfig()
	}
}

// openRepository connects to the database named by the --database-url flag
// or the active profile.
func openRepository(cmd *cobra.Command) (*repository.PostgresRepository, error) {
	dbURL, _ := cmd.Flags().GetString("database-url")
	if dbURL == "" {
		profileName, _ := cmd.Flags().GetString("profile")
		p, err := cfg.GetProfile(profileName)
		if err != nil {
			return nil, fmt.Errorf("no database configured: %w (use --database-url or 'hubctl profile set')", err)
		}
		dbURL = p.DatabaseURL
	}
	if dbURL == "" {
		return nil, fmt.Errorf("profile has no database_url")
	}

	return repository.NewPostgresRepository(context.Background(), dbURL)
}
