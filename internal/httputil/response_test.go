package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAck(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteAck(rr)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var ack AckResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ack))
	assert.True(t, ack.OK)
	assert.Empty(t, ack.Error)

	// The error key is omitted entirely on success.
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestWriteReject(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteReject(rr, http.StatusUnauthorized, "invalid_secret")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"ok":false,"error":"invalid_secret"}`, rr.Body.String())
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, http.StatusMethodNotAllowed, "method not allowed")

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.JSONEq(t, `{"error":"method not allowed"}`, rr.Body.String())
}
