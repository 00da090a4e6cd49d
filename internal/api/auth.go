package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Mujtaba19938/FINDASH/internal/common"
)

// UserHeader carries the caller's user ID when authentication is disabled.
const UserHeader = "X-User-Id"

type contextKey struct{}

// WithUser returns a context carrying the authenticated user ID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserFrom returns the authenticated user ID, or "" when there is none.
func UserFrom(ctx context.Context) string {
	userID, _ := ctx.Value(contextKey{}).(string)
	return userID
}

// Authenticator verifies HS256 bearer tokens whose subject is the user ID.
type Authenticator struct {
	now      func() time.Time
	secret   []byte
	disabled bool
}

// NewAuthenticator creates an authenticator for secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret), now: time.Now}
}

// NoAuth trusts the X-User-Id header. Local development only.
func NoAuth() *Authenticator {
	return &Authenticator{disabled: true, now: time.Now}
}

// Disabled reports whether tokens are skipped.
func (a *Authenticator) Disabled() bool {
	return a.disabled
}

// IssueToken signs a token for userID valid for ttl.
func (a *Authenticator) IssueToken(userID string, ttl time.Duration) (string, error) {
	if a.disabled {
		return "", fmt.Errorf("%w: authentication is disabled", common.ErrInvalidConfig)
	}
	if strings.TrimSpace(userID) == "" {
		return "", common.NewValidationError("user ID is required")
	}

	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authenticate returns the user ID for a request.
func (a *Authenticator) Authenticate(r *http.Request) (string, error) {
	if a.disabled {
		userID := strings.TrimSpace(r.Header.Get(UserHeader))
		if userID == "" {
			return "", fmt.Errorf("%w: %s header is required", common.ErrUnauthorized, UserHeader)
		}
		return userID, nil
	}

	raw, err := ExtractBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", common.ErrUnauthorized)
	}
	return claims.Subject, nil
}

// Middleware rejects unauthenticated requests and stores the user in the context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.Authenticate(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
	})
}

// ExtractBearerToken returns the token from an Authorization header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: authorization header is required", common.ErrUnauthorized)
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("%w: authorization header must be Bearer token", common.ErrUnauthorized)
	}
	return token, nil
}
