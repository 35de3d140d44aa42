package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lumendist/partnerhub/internal/platform/requestctx"
)

func TestMintAndVerifyRoundTrip(t *testing.T) {
	authenticator, err := New("test-secret")
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	token, err := authenticator.Mint("partner-1", time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	partnerID, err := authenticator.PartnerID(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if partnerID != "partner-1" {
		t.Fatalf("partner id = %q, want partner-1", partnerID)
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New("   "); !errors.Is(err, ErrSecretRequired) {
		t.Fatalf("expected ErrSecretRequired, got %v", err)
	}
}

func TestPartnerIDRejectsForgedTokens(t *testing.T) {
	authenticator, err := New("test-secret")
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	other, err := New("other-secret")
	if err != nil {
		t.Fatalf("new other authenticator: %v", err)
	}

	forged, err := other.Mint("partner-1", time.Minute)
	if err != nil {
		t.Fatalf("mint forged token: %v", err)
	}
	if _, err := authenticator.PartnerID(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := authenticator.PartnerID("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := authenticator.PartnerID(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPartnerIDRejectsExpiredTokens(t *testing.T) {
	authenticator, err := New("test-secret")
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	token, err := authenticator.Mint("partner-1", -time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if _, err := authenticator.PartnerID(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestRequirePartnerStampsContext(t *testing.T) {
	authenticator, err := New("test-secret")
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	token, err := authenticator.Mint("partner-1", time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var seen string
	handler := authenticator.RequirePartner()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestctx.PartnerIDFromContext(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if seen != "partner-1" {
		t.Fatalf("context partner id = %q, want partner-1", seen)
	}
}

func TestRequirePartnerAcceptsQueryToken(t *testing.T) {
	authenticator, err := New("test-secret")
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	token, err := authenticator.Mint("partner-1", time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	handler := authenticator.RequirePartner()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/notifications/ws?token="+token, nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", recorder.Code)
	}
}

func TestRequirePartnerRejectsMissingToken(t *testing.T) {
	authenticator, err := New("test-secret")
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	handler := authenticator.RequirePartner()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}
