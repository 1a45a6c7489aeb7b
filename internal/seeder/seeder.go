// Package seeder generates realistic fake webhook deliveries for testing
// integrations end to end.
package seeder

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// Delivery is one generated webhook: an event type plus a provider-shaped
// payload object.
type Delivery struct {
	EventType string
	EventID   string
	Payload   map[string]interface{}
}

// Providers lists the provider shapes the generator knows.
func Providers() []string {
	return []string{"github", "stripe", "slack", "generic"}
}

// Generate produces one fake delivery shaped like the given provider's
// webhooks. Unknown providers fall back to the generic shape.
func Generate(provider string) Delivery {
	switch strings.ToLower(provider) {
	case "github":
		return generateGitHub()
	case "stripe":
		return generateStripe()
	case "slack":
		return generateSlack()
	default:
		return generateGeneric()
	}
}

func generateGitHub() Delivery {
	branch := gofakeit.RandomString([]string{"main", "develop", "release/1.2", "feature/ingest"})
	repo := fmt.Sprintf("%s/%s", gofakeit.Username(), gofakeit.Word())
	sha := gofakeit.Regex("[0-9a-f]{40}")

	return Delivery{
		EventType: gofakeit.RandomString([]string{"push", "pull_request", "issues", "release"}),
		EventID:   gofakeit.UUID(),
		Payload: map[string]interface{}{
			"ref":    "refs/heads/" + branch,
			"before": gofakeit.Regex("[0-9a-f]{40}"),
			"after":  sha,
			"repository": map[string]interface{}{
				"full_name": repo,
				"private":   gofakeit.Bool(),
			},
			"pusher": map[string]interface{}{
				"name":  gofakeit.Username(),
				"email": gofakeit.Email(),
			},
			"head_commit": map[string]interface{}{
				"id":      sha,
				"message": gofakeit.Sentence(6),
			},
		},
	}
}

func generateStripe() Delivery {
	amount := gofakeit.Number(100, 500000)

	return Delivery{
		EventType: gofakeit.RandomString([]string{
			"invoice.paid", "invoice.payment_failed",
			"customer.subscription.created", "charge.succeeded",
		}),
		EventID: "evt_" + gofakeit.LetterN(24),
		Payload: map[string]interface{}{
			"object": "event",
			"data": map[string]interface{}{
				"object": map[string]interface{}{
					"id":       "in_" + gofakeit.LetterN(24),
					"customer": "cus_" + gofakeit.LetterN(14),
					"amount":   amount,
					"currency": gofakeit.CurrencyShort(),
					"status":   gofakeit.RandomString([]string{"paid", "open", "draft"}),
				},
			},
			"livemode": false,
		},
	}
}

func generateSlack() Delivery {
	return Delivery{
		EventType: gofakeit.RandomString([]string{"message", "app_mention", "reaction_added"}),
		EventID:   "Ev" + strings.ToUpper(gofakeit.LetterN(9)),
		Payload: map[string]interface{}{
			"team_id": "T" + strings.ToUpper(gofakeit.LetterN(8)),
			"event": map[string]interface{}{
				"user":    "U" + strings.ToUpper(gofakeit.LetterN(8)),
				"channel": "C" + strings.ToUpper(gofakeit.LetterN(8)),
				"text":    gofakeit.Sentence(8),
				"ts":      fmt.Sprintf("%d.%06d", gofakeit.Number(1600000000, 1800000000), gofakeit.Number(0, 999999)),
			},
		},
	}
}

func generateGeneric() Delivery {
	return Delivery{
		EventType: gofakeit.RandomString([]string{"created", "updated", "deleted"}),
		EventID:   gofakeit.UUID(),
		Payload: map[string]interface{}{
			"actor":    gofakeit.Username(),
			"resource": gofakeit.Word(),
			"ip":       gofakeit.IPv4Address(),
			"metadata": map[string]interface{}{
				"agent":   gofakeit.UserAgent(),
				"country": gofakeit.CountryAbr(),
			},
		},
	}
}
