package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	m := NewManager("secret", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		assert.Equal(t, "user-1", identity.UserID)
		w.WriteHeader(http.StatusOK)
	})
	protected := Middleware(m)(next)

	validToken, err := m.Generate(testUser)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "valid bearer token", header: "Bearer " + validToken, wantCode: http.StatusOK},
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantCode: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", wantCode: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			protected.ServeHTTP(w, r)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
