// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/servicios-api/internal/core"
)

type fakeVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (f fakeVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	return f.claims, f.err
}

type fakeResolver struct {
	identity *Identity
	err      error
}

func (f fakeResolver) ResolveIdentity(_ context.Context, _ string) (*Identity, error) {
	return f.identity, f.err
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) core.Response {
	t.Helper()
	var body core.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthenticator(t *testing.T) {
	identity := &Identity{ID: "u-1", Email: "ana@example.com", Name: "Ana", Role: "oferente"}

	tests := []struct {
		name       string
		header     string
		verifier   fakeVerifier
		resolver   fakeResolver
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Token de autenticación no proporcionado",
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Token de autenticación no proporcionado",
		},
		{
			name:       "invalid token",
			header:     "Bearer garbage",
			verifier:   fakeVerifier{err: core.ErrTokenInvalid},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Token inválido",
		},
		{
			name:       "expired token",
			header:     "Bearer old",
			verifier:   fakeVerifier{err: core.ErrTokenExpired},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Token expirado",
		},
		{
			name:       "user no longer exists",
			header:     "Bearer ok",
			verifier:   fakeVerifier{claims: &AccessTokenClaims{UserID: "gone"}},
			resolver:   fakeResolver{err: core.ErrNotFound},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Usuario del token no encontrado",
		},
		{
			name:       "resolver failure",
			header:     "Bearer ok",
			verifier:   fakeVerifier{claims: &AccessTokenClaims{UserID: "u-1"}},
			resolver:   fakeResolver{err: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Error interno del servidor",
		},
		{
			name:       "valid token",
			header:     "bearer ok",
			verifier:   fakeVerifier{claims: &AccessTokenClaims{UserID: "u-1"}},
			resolver:   fakeResolver{identity: identity},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			h := Authenticator(tc.verifier, tc.resolver)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, "u-1", gotID)
				return
			}

			body := decodeEnvelope(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tc.wantMsg, body.Message)
		})
	}
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractToken(req))

	req.Header.Set("Authorization", "Bearer   abc.def.ghi ")
	assert.Equal(t, "abc.def.ghi", ExtractToken(req))

	req.Header.Set("Authorization", "Token abc")
	assert.Empty(t, ExtractToken(req))
}

func TestContextAccessorsOutsideRequest(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUserID(ctx))
	assert.Empty(t, GetRequestID(ctx))
	assert.NotNil(t, LoggerFromContext(ctx))
}
