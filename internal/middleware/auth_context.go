package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"pet-care-manager/internal/platform/logger"
	"pet-care-manager/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

const (
	HeaderDebugUserID   = "X-Debug-User-ID"
	HeaderDebugUserType = "X-Debug-User-Type"
)

// AuthContext:
// - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
// - Si verifier == nil => modo dev: X-Debug-User-ID (numérico) + X-Debug-User-Type
//   (Tutor por defecto) => setea claims.
// - Si no hay claims, el request sigue igual; los handlers decidirán si exigen auth.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				claims, ok := debugClaims(r)
				if !ok {
					next.ServeHTTP(w, r)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// No cortamos aquí; el handler responde 401.
				logger.FromContext(r.Context()).Debug("token rejected", logger.Fields{"err": err})
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func debugClaims(r *http.Request) (auth.Claims, bool) {
	raw := strings.TrimSpace(r.Header.Get(HeaderDebugUserID))
	if raw == "" {
		return auth.Claims{}, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return auth.Claims{}, false
	}

	typ := auth.UserTypeTutor
	if v := r.Header.Get(HeaderDebugUserType); strings.TrimSpace(v) != "" {
		parsed, ok := auth.ParseUserType(v)
		if !ok {
			return auth.Claims{}, false
		}
		typ = parsed
	}
	return auth.Claims{UserID: id, Type: typ, Role: "user"}, true
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	if !ok || c.UserID <= 0 {
		return auth.Claims{}, false
	}
	return c, true
}

func bearerToken(authHeader string) string {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
