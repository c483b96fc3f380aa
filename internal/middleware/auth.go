// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/servicios-api/internal/core"
)

const UserIDKey contextKey = "user_id"

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	UserID string
}

// Identity is the authenticated caller as loaded from the user store.
type Identity struct {
	ID    string
	Email string
	Name  string
	Role  string
}

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*Identity, error)
}

// Authenticator rejects the request unless it carries a valid bearer token
// whose subject still resolves to an existing user.
func Authenticator(
	verifier TokenVerifier,
	resolver IdentityResolver,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("Token de autenticación no proporcionado"),
				)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			identity, err := resolver.ResolveIdentity(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.JSONError(
						w,
						core.UnauthorizedError("Usuario del token no encontrado"),
					)
					return
				}
				LoggerFromContext(r.Context()).Error("resolve identity failed",
					"error", err,
				)
				core.InternalServerError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, identity.ID)
			ctx = WithLogger(ctx, LoggerFromContext(ctx).With(
				"user_id", identity.ID,
				"user_role", identity.Role,
			))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
