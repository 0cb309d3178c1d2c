package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func basicHeader(id, key string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(id+":"+key))
}

func TestBasicAuth(t *testing.T) {
	tests := []struct {
		name          string
		channelID     string
		channelKey    string
		authorization string
		wantStatus    int
	}{
		{"valid credentials", "gateway", "gateway-key", basicHeader("gateway", "gateway-key"), http.StatusOK},
		{"wrong key", "gateway", "gateway-key", basicHeader("gateway", "wrong"), http.StatusUnauthorized},
		{"missing header", "gateway", "gateway-key", "", http.StatusUnauthorized},
		{"server not configured", "", "", basicHeader("gateway", "gateway-key"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}

			rr := httptest.NewRecorder()
			BasicAuth(tt.channelID, tt.channelKey)(okHandler()).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, false, body["success"])
			}
		})
	}
}

func TestAccountIdentity(t *testing.T) {
	var (
		gotID string
		gotOK bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = AccountIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/transfer-funds", nil)
	req.Header.Set(AccountIDHeader, "  acc-1 ")
	AccountIdentity(next).ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, gotOK)
	assert.Equal(t, "acc-1", gotID)

	req = httptest.NewRequest(http.MethodPost, "/transfer-funds", nil)
	AccountIdentity(next).ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, gotOK)
	assert.Empty(t, gotID)
}
