package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformRequest(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.RequestURI()
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = nil
		if len(body) > 0 {
			_ = json.Unmarshal(body, &gotBody)
		}
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("OK"))
	}))
	defer ts.Close()

	original := host
	host = ts.URL
	defer func() { host = original }()

	t.Run("get", func(t *testing.T) {
		require.NoError(t, performGetRequest("/standings"))
		assert.Equal(t, http.MethodGet, gotMethod)
		assert.Equal(t, "/standings", gotPath)
		assert.Empty(t, gotContentType)
	})

	t.Run("json body", func(t *testing.T) {
		require.NoError(t, performJSONRequest(http.MethodPost, "/players", map[string]string{"name": "Bruno Walton"}))
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, map[string]any{"name": "Bruno Walton"}, gotBody)
	})

	t.Run("error status", func(t *testing.T) {
		assert.Error(t, performGetRequest("/missing"))
	})
}
