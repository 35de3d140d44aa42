package access

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lumendist/partnerhub/internal/platform/requestctx"
	accessdomain "github.com/lumendist/partnerhub/internal/services/access/domain"
)

type fakeChecker struct {
	decision accessdomain.Decision
	err      error

	contentKey string
	partnerID  string
}

func (f *fakeChecker) CheckContent(_ context.Context, contentKey string, partnerID string) (accessdomain.Decision, error) {
	f.contentKey = contentKey
	f.partnerID = partnerID
	return f.decision, f.err
}

func serveCheck(t *testing.T, checker Checker, path string) *httptest.ResponseRecorder {
	t.Helper()
	mount, err := New(checker, zerolog.Nop()).Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	request := httptest.NewRequest(http.MethodGet, path, nil)
	request = request.WithContext(requestctx.WithPartnerID(request.Context(), "partner-1"))
	recorder := httptest.NewRecorder()
	mount.Handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeCheck(t *testing.T, recorder *httptest.ResponseRecorder) checkResponse {
	t.Helper()
	var body checkResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestHandleCheckUnlocked(t *testing.T) {
	checker := &fakeChecker{decision: accessdomain.Decision{Unlocked: true}}

	recorder := serveCheck(t, checker, "/api/access/pricing.sheet")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	body := decodeCheck(t, recorder)
	if !body.Unlocked || body.Reason != "" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if checker.contentKey != "pricing.sheet" || checker.partnerID != "partner-1" {
		t.Fatalf("checker saw %q/%q", checker.contentKey, checker.partnerID)
	}
}

func TestHandleCheckLockedWithReason(t *testing.T) {
	checker := &fakeChecker{decision: accessdomain.Decision{Reason: accessdomain.ReasonTierInsufficient}}

	recorder := serveCheck(t, checker, "/api/access/pricing.sheet")

	body := decodeCheck(t, recorder)
	if body.Unlocked {
		t.Fatal("expected locked decision")
	}
	if body.Reason != "tier_insufficient" {
		t.Fatalf("reason = %q, want tier_insufficient", body.Reason)
	}
}

func TestHandleCheckMalformedGate(t *testing.T) {
	checker := &fakeChecker{err: &accessdomain.MalformedGateError{
		ContentKey:  "pricing.sheet",
		Requirement: accessdomain.RequirementSpecific,
	}}

	recorder := serveCheck(t, checker, "/api/access/pricing.sheet")

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", recorder.Code)
	}
	body := decodeCheck(t, recorder)
	if body.Unlocked || body.Reason != "malformed_gate" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHandleCheckNotFound(t *testing.T) {
	checker := &fakeChecker{err: accessdomain.ErrNotFound}

	recorder := serveCheck(t, checker, "/api/access/missing")

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}

func TestHandleCheckWithoutCheckerDegrades(t *testing.T) {
	recorder := serveCheck(t, nil, "/api/access/pricing.sheet")

	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", recorder.Code)
	}
	if New(nil, zerolog.Nop()).Healthy() {
		t.Fatal("module without checker must report unhealthy")
	}
}
