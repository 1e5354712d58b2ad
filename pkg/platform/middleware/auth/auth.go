// Package auth provides the bearer-token middleware that scopes every API
// request to a tenant. Token issuance lives in the identity service, not
// here: this middleware only validates signatures and extracts claims.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
	"sppg/pkg/platform/httputil"
	"sppg/pkg/requestcontext"
)

// Claims are the token claims the SPPG platform issues. Every API token
// is bound to one tenant; user_id identifies the acting staff member.
type Claims struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	jwt.RegisteredClaims
}

// Validator verifies HMAC-signed bearer tokens.
type Validator struct {
	signingKey []byte
}

// NewValidator creates a token validator with the shared signing key.
func NewValidator(signingKey string) *Validator {
	return &Validator{signingKey: []byte(signingKey)}
}

// ValidateToken parses and verifies a bearer token, returning its claims.
func (v *Validator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.Newf(dErrors.CodeUnauthorized, "unexpected signing method: %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	if !token.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}

// RequireTenant enforces a valid bearer token and resolves the tenant and
// user IDs into the request context. Requests without a resolvable tenant
// never reach a handler.
func RequireTenant(validator *Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized request - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			tenantID, err := id.ParseTenantID(claims.TenantID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized request - token has no usable tenant claim",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token does not identify a tenant"))
				return
			}
			ctx = requestcontext.WithTenantID(ctx, tenantID)

			// user_id is optional: service-to-service tokens carry only a tenant.
			if userID, err := id.ParseUserID(claims.UserID); err == nil {
				ctx = requestcontext.WithUserID(ctx, userID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
