package seeder

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_KnownProviders(t *testing.T) {
	for _, provider := range Providers() {
		t.Run(provider, func(t *testing.T) {
			d := Generate(provider)

			assert.NotEmpty(t, d.EventType)
			assert.NotEmpty(t, d.EventID)
			require.NotNil(t, d.Payload)

			// Payloads must survive a JSON round trip: they get sent on the wire.
			_, err := json.Marshal(d.Payload)
			require.NoError(t, err)
		})
	}
}

func TestGenerate_UnknownProviderFallsBack(t *testing.T) {
	d := Generate("something-else")
	assert.Contains(t, []string{"created", "updated", "deleted"}, d.EventType)
	assert.Contains(t, d.Payload, "actor")
}

func TestGenerate_GitHubShape(t *testing.T) {
	d := Generate("github")
	assert.Contains(t, d.Payload, "ref")
	assert.Contains(t, d.Payload, "repository")

	sha, ok := d.Payload["after"].(string)
	require.True(t, ok)
	assert.Len(t, sha, 40)
}

func TestGenerate_StripeEventID(t *testing.T) {
	d := Generate("stripe")
	assert.Regexp(t, `^evt_[a-zA-Z]{24}$`, d.EventID)
}
