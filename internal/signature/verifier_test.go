package signature

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	body := []byte(`{"project_key":"ph_abc","event_id":"evt-1"}`)
	secret := "topsecret"
	valid := Compute(body, secret)

	tests := []struct {
		name     string
		body     []byte
		secret   string
		supplied string
		want     bool
	}{
		{
			name:     "bare hex digest",
			body:     body,
			secret:   secret,
			supplied: valid,
			want:     true,
		},
		{
			name:     "sha256= prefixed digest",
			body:     body,
			secret:   secret,
			supplied: "sha256=" + valid,
			want:     true,
		},
		{
			name:     "surrounding whitespace",
			body:     body,
			secret:   secret,
			supplied: "  sha256=" + valid + " ",
			want:     true,
		},
		{
			name:     "wrong secret",
			body:     body,
			secret:   "other",
			supplied: valid,
			want:     false,
		},
		{
			name:     "tampered body",
			body:     []byte(`{"project_key":"ph_abc","event_id":"evt-2"}`),
			secret:   secret,
			supplied: valid,
			want:     false,
		},
		{
			name:     "digest of wrong length",
			body:     body,
			secret:   secret,
			supplied: valid[:32],
			want:     false,
		},
		{
			name:     "not hex at all",
			body:     body,
			secret:   secret,
			supplied: "sha256=not-a-hex-string",
			want:     false,
		},
		{
			name:     "odd-length hex",
			body:     body,
			secret:   secret,
			supplied: valid[:63],
			want:     false,
		},
		{
			name:     "empty signature",
			body:     body,
			secret:   secret,
			supplied: "",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.body, tt.secret, tt.supplied))
		})
	}
}

// Signatures are computed over the raw request bytes. A payload with
// non-canonical whitespace or key order re-serializes differently, so a
// digest of the reparsed object must NOT verify against the original body.
func TestVerify_RawBytesNotReserialized(t *testing.T) {
	raw := []byte(`{ "b": 1,   "a": "x" }`)
	secret := "s3cret"

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	reserialized, err := json.Marshal(parsed)
	require.NoError(t, err)
	require.NotEqual(t, string(raw), string(reserialized))

	sigOverRaw := Compute(raw, secret)
	sigOverReserialized := Compute(reserialized, secret)

	assert.NotEqual(t, sigOverRaw, sigOverReserialized)
	assert.True(t, Verify(raw, secret, sigOverRaw))
	assert.False(t, Verify(raw, secret, sigOverReserialized))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "abcd", Normalize("sha256=abcd"))
	assert.Equal(t, "abcd", Normalize("abcd"))
	assert.Equal(t, "abcd", Normalize("  sha256=abcd\n"))
	// Prefix is only stripped once and only at the start.
	assert.Equal(t, "absha256=cd", Normalize("absha256=cd"))
}

func TestSecretEqual(t *testing.T) {
	assert.True(t, SecretEqual("whsec_1", "whsec_1"))
	assert.False(t, SecretEqual("whsec_1", "whsec_2"))
	assert.False(t, SecretEqual("whsec_1", "whsec_11"))
	assert.False(t, SecretEqual("", "whsec_1"))
	assert.True(t, SecretEqual("", ""))
}
