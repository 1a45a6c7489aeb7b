package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
	"github.com/g66wcyhhgd-glitch/control-hub/pkg/output"
)

var integrationCmd = &cobra.Command{
	Use:   "integration",
	Short: "Provider integration management",
	Long:  "Create, rotate, and toggle provider integrations for a project",
}

var integrationCreateCmd = &cobra.Command{
	Use:   "create [project-id] [provider]",
	Short: "Create an integration",
	Long:  "Create an integration binding a provider to a project, with a fresh shared secret",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, provider := args[0], args[1]

		secret, _ := cmd.Flags().GetString("secret")
		if secret == "" {
			secret = "whsec_" + randomToken(24)
		}

		repo, err := openRepository(cmd)
		if err != nil {
			return err
		}
		defer repo.Close()

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate id: %w", err)
		}

		now := time.Now().UTC()
		integration := &models.Integration{
			ID:        id.String(),
			ProjectID: projectID,
			Provider:  provider,
			Secret:    secret,
			Status:    models.IntegrationActive,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := repo.CreateIntegration(context.Background(), integration); err != nil {
			return fmt.Errorf("failed to create integration: %w", err)
		}

		output.Success("Integration created for provider '%s'", provider)
		output.Info("Secret: %s", secret)
		output.Info("\nSenders put this secret in the x-control-hub-secret header:")
		output.Info("  curl -H 'x-control-hub-secret: %s' ...", secret)
		return nil
	},
}

var integrationListCmd = &cobra.Command{
	Use:   "list [project-id]",
	Short: "List a project's integrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepository(cmd)
		if err != nil {
			return err
		}
		defer repo.Close()

		integrations, err := repo.ListIntegrations(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list integrations: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(integrations)
		}

		table := output.NewTable("Provider", "Status", "Secret", "Updated")
		for _, i := range integrations {
			table.AddRow(i.Provider, i.Status, maskSecret(i.Secret), i.UpdatedAt.Format("2006-01-02"))
		}
		table.Render()
		return nil
	},
}

var integrationRotateCmd = &cobra.Command{
	Use:   "rotate [project-id] [provider]",
	Short: "Rotate an integration's secret",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, provider := args[0], args[1]
		secret := "whsec_" + randomToken(24)

		repo, err := openRepository(cmd)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.UpdateIntegrationSecret(context.Background(), projectID, provider, secret); err != nil {
			return fmt.Errorf("failed to rotate secret: %w", err)
		}

		output.Success("Secret rotated for provider '%s'", provider)
		output.Info("New secret: %s", secret)
		output.Warn("Deliveries signed with the old secret will be rejected once caches expire.")
		return nil
	},
}

var integrationDisableCmd = &cobra.Command{
	Use:   "disable [project-id] [provider]",
	Short: "Disable an integration",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setIntegrationStatus(cmd, args[0], args[1], models.IntegrationInactive)
	},
}

var integrationEnableCmd = &cobra.Command{
	Use:   "enable [project-id] [provider]",
	Short: "Re-enable a disabled integration",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setIntegrationStatus(cmd, args[0], args[1], models.IntegrationActive)
	},
}

func setIntegrationStatus(cmd *cobra.Command, projectID, provider, status string) error {
	repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.UpdateIntegrationStatus(context.Background(), projectID, provider, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	output.Success("Integration '%s' is now %s", provider, status)
	return nil
}

// randomToken returns n bytes of cryptographic randomness, hex encoded.
func randomToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to read random bytes: %v", err))
	}
	return hex.EncodeToString(b)
}

func maskSecret(secret string) string {
	if len(secret) <= 10 {
		return "****"
	}
	return secret[:10] + "..."
}

func init() {
	rootCmd.AddCommand(integrationCmd)
	integrationCmd.AddCommand(integrationCreateCmd)
	integrationCmd.AddCommand(integrationListCmd)
	integrationCmd.AddCommand(integrationRotateCmd)
	integrationCmd.AddCommand(integrationDisableCmd)
	integrationCmd.AddCommand(integrationEnableCmd)

	integrationCreateCmd.Flags().String("secret", "", "shared secret (generated when omitted)")
}
