package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/handlers"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/seeder"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/signature"
	"github.com/g66wcyhhgd-glitch/control-hub/pkg/output"
)

var sendCmd = &cobra.Command{
	Use:   "send [provider]",
	Short: "Send a test webhook",
	Long: `Send a signed test webhook to the hub.

With --fake the payload is generated to look like real provider traffic;
otherwise --payload supplies the payload JSON verbatim.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := args[0]

		projectKey, _ := cmd.Flags().GetString("project-key")
		secret, _ := cmd.Flags().GetString("secret")
		if projectKey == "" || secret == "" {
			return fmt.Errorf("--project-key and --secret are required")
		}

		hubURL, _ := cmd.Flags().GetString("hub-url")
		if hubURL == "" {
			profileName, _ := cmd.Flags().GetString("profile")
			if p, err := cfg.GetProfile(profileName); err == nil {
				hubURL = p.HubURL
			}
		}
		if hubURL == "" {
			return fmt.Errorf("no hub URL configured (use --hub-url or 'hubctl profile set')")
		}

		count, _ := cmd.Flags().GetInt("count")
		fake, _ := cmd.Flags().GetBool("fake")
		sign, _ := cmd.Flags().GetBool("sign")
		legacy, _ := cmd.Flags().GetBool("legacy-header")
		eventType, _ := cmd.Flags().GetString("event-type")
		eventID, _ := cmd.Flags().GetString("event-id")
		payloadJSON, _ := cmd.Flags().GetString("payload")

		client := &http.Client{Timeout: 10 * time.Second}
		endpoint := fmt.Sprintf("%s/webhooks/%s", hubURL, provider)

		sent := 0
		for i := 0; i < count; i++ {
			envelope := map[string]interface{}{
				"project_key": projectKey,
				"timestamp":   time.Now().Unix(),
			}

			if fake {
				d := seeder.Generate(provider)
				envelope["event_type"] = d.EventType
				envelope["event_id"] = d.EventID
				envelope["payload"] = d.Payload
			} else {
				if eventType == "" || eventID == "" {
					return fmt.Errorf("--event-type and --event-id are required without --fake")
				}
				envelope["event_type"] = eventType
				envelope["event_id"] = eventID
				var payload interface{} = map[string]interface{}{}
				if payloadJSON != "" {
					if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
						return fmt.Errorf("invalid --payload JSON: %w", err)
					}
				}
				envelope["payload"] = payload
			}

			body, err := json.Marshal(envelope)
			if err != nil {
				return fmt.Errorf("failed to marshal envelope: %w", err)
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, endpoint, bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("failed to build request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json")
			if legacy {
				req.Header.Set(handlers.HeaderLegacySecret, secret)
			} else {
				req.Header.Set(handlers.HeaderSecret, secret)
			}
			if sign {
				req.Header.Set(handlers.HeaderSignature, signature.Prefix+signature.Compute(body, secret))
			}

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("delivery failed: %w", err)
			}
			respBody, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				output.Error("Delivery %d rejected (%d): %s", i+1, resp.StatusCode, bytes.TrimSpace(respBody))
				return fmt.Errorf("delivery rejected with status %d", resp.StatusCode)
			}
			sent++
		}

		output.Success("Sent %d webhook(s) to %s", sent, endpoint)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().String("hub-url", "", "webhook service base URL (overrides profile)")
	sendCmd.Flags().String("project-key", "", "project key for the envelope")
	sendCmd.Flags().String("secret", "", "integration shared secret")
	sendCmd.Flags().String("event-type", "", "envelope event type")
	sendCmd.Flags().String("event-id", "", "envelope event id")
	sendCmd.Flags().String("payload", "", "payload JSON")
	sendCmd.Flags().Bool("fake", false, "generate a realistic fake payload")
	sendCmd.Flags().Bool("sign", true, "attach an HMAC signature header")
	sendCmd.Flags().Bool("legacy-header", false, "use the legacy secret header")
	sendCmd.Flags().IntP("count", "c", 1, "number of webhooks to send")
}
