package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErr_MessageStaysValidJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	writeErr(rec, http.StatusUnauthorized, `missing "Bearer" prefix`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, `missing "Bearer" prefix`, body["error"])
}
