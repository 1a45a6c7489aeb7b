package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
	"github.com/g66wcyhhgd-glitch/control-hub/pkg/output"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project management",
	Long:  "Create and inspect webhook projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		projectKey, _ := cmd.Flags().GetString("key")
		if projectKey == "" {
			projectKey = "ph_" + randomToken(12)
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

		project := &models.Project{
			ID:         id.String(),
			Name:       name,
			ProjectKey: projectKey,
			CreatedAt:  time.Now().UTC(),
		}

		if err := repo.CreateProject(context.Background(), project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		output.Success("Project created: %s", project.ID)
		output.Info("Name: %s", project.Name)
		output.Info("Project key: %s", project.ProjectKey)
		output.Info("\nSenders put this key in the envelope's project_key field.")
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepository(cmd)
		if err != nil {
			return err
		}
		defer repo.Close()

		projects, err := repo.ListProjects(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(projects)
		}

		table := output.NewTable("ID", "Name", "Key", "Created")
		for _, p := range projects {
			table.AddRow(p.ID, p.Name, p.ProjectKey, p.CreatedAt.Format("2006-01-02"))
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)

	projectCreateCmd.Flags().String("key", "", "project key (generated when omitted)")
}
