// Package auth resolves partner identity from dashboard session tokens.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lumendist/partnerhub/internal/platform/requestctx"
	"github.com/lumendist/partnerhub/internal/services/dashboard/platform/httpx"
)

// ErrSecretRequired indicates the authenticator is missing its signing secret.
var ErrSecretRequired = errors.New("session secret is required")

// ErrInvalidToken indicates a session token failed verification.
var ErrInvalidToken = errors.New("invalid session token")

// Authenticator verifies HMAC-signed session tokens issued by the partner
// identity service. The token subject carries the partner id.
type Authenticator struct {
	secret []byte
}

// New constructs an authenticator from the shared session secret.
func New(secret string) (*Authenticator, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSecretRequired
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// PartnerID verifies one session token and returns its partner id.
func (a *Authenticator) PartnerID(token string) (string, error) {
	if a == nil || len(a.secret) == 0 {
		return "", ErrSecretRequired
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	partnerID := strings.TrimSpace(claims.Subject)
	if partnerID == "" {
		return "", ErrInvalidToken
	}
	return partnerID, nil
}

// Mint issues a short-lived session token for one partner. Used by the seed
// tool to produce working local credentials.
func (a *Authenticator) Mint(partnerID string, ttl time.Duration) (string, error) {
	if a == nil || len(a.secret) == 0 {
		return "", ErrSecretRequired
	}
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return "", fmt.Errorf("partner id is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   partnerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// RequirePartner rejects unauthenticated requests and stamps the verified
// partner id onto the request context.
func (a *Authenticator) RequirePartner() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			partnerID, err := a.PartnerID(bearerToken(r))
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithPartnerID(r.Context(), partnerID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	// WebSocket clients cannot set headers from the browser; accept the token
	// as a query parameter on the stream route.
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
