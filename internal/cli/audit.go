package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/g66wcyhhgd-glitch/control-hub/pkg/output"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit trail inspection",
	Long:  "List audit records written by the webhook pipeline",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		projectID, _ := cmd.Flags().GetString("project")

		repo, err := openRepository(cmd)
		if err != nil {
			return err
		}
		defer repo.Close()

		var scope *string
		if projectID != "" {
			scope = &projectID
		}

		events, err := repo.ListAuditEvents(context.Background(), scope, limit)
		if err != nil {
			return fmt.Errorf("failed to list audit events: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(events)
		}

		table := output.NewTable("Time", "Type", "Project", "Detail")
		for _, e := range events {
			project := "-"
			if e.ProjectID != nil {
				project = *e.ProjectID
			}
			detail := ""
			if reason, ok := e.Payload["reason"].(string); ok {
				detail = reason
			} else if len(e.Payload) > 0 {
				b, _ := json.Marshal(e.Payload)
				detail = truncate(string(b), 60)
			}
			table.AddRow(e.CreatedAt.Format("2006-01-02 15:04:05"), e.EventType, project, detail)
		}
		table.Render()
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)

	auditListCmd.Flags().Int("limit", 50, "maximum number of events")
	auditListCmd.Flags().String("project", "", "filter by project id")
}
