package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestTokenService(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, "marketminds", ttl)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	_, err := NewTokenService([]byte("too short"), "marketminds", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)

	token, expiresAt, err := svc.Issue("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := newTestTokenService(t, time.Nanosecond)

	token, _, err := svc.Issue("alice")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = svc.Validate(token)
	require.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := newTestTokenService(t, time.Minute)
	token, _, err := svc.Issue("alice")
	require.NoError(t, err)

	other, err := NewTokenService([]byte("ffffffffffffffffffffffffffffffff"), "marketminds", time.Minute)
	require.NoError(t, err)

	_, err = other.Validate(token)
	require.Error(t, err)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	issuer, err := NewTokenService(testSecret, "someone-else", time.Minute)
	require.NoError(t, err)
	token, _, err := issuer.Issue("alice")
	require.NoError(t, err)

	svc := newTestTokenService(t, time.Minute)
	_, err = svc.Validate(token)
	require.Error(t, err)
}

func TestHTTPMiddleware(t *testing.T) {
	svc := newTestTokenService(t, time.Minute)
	token, _, err := svc.Issue("alice")
	require.NoError(t, err)

	var seen *Claims
	handler := svc.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClaims(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, "alice", seen.Subject)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestUserStore(t *testing.T) {
	store, err := NewUserStore(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Create(ctx, "alice", "hunter2"))

	assert.ErrorIs(t, store.Create(ctx, "alice", "other"), ErrUserExists)

	assert.NoError(t, store.Authenticate(ctx, "alice", "hunter2"))
	assert.ErrorIs(t, store.Authenticate(ctx, "alice", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, store.Authenticate(ctx, "nobody", "hunter2"), ErrInvalidCredentials)
}

func TestUserStoreRequiresFields(t *testing.T) {
	store, err := NewUserStore(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	defer store.Close()

	assert.Error(t, store.Create(context.Background(), "", "pw"))
	assert.Error(t, store.Create(context.Background(), "bob", ""))
}
