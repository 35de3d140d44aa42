package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	accessstorage "github.com/lumendist/partnerhub/internal/services/access/storage"
	accesssqlite "github.com/lumendist/partnerhub/internal/services/access/storage/sqlite"
	"github.com/lumendist/partnerhub/internal/services/dashboard/auth"
	notificationsstorage "github.com/lumendist/partnerhub/internal/services/notifications/storage"
	notificationssqlite "github.com/lumendist/partnerhub/internal/services/notifications/storage/sqlite"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	accessPath := dir + "/access.db"
	notificationsPath := dir + "/notifications.db"
	now := time.Now().UTC().Truncate(time.Millisecond)

	accessStore, err := accesssqlite.Open(accessPath)
	if err != nil {
		t.Fatalf("open access store: %v", err)
	}
	if err := accessStore.PutPartner(t.Context(), accessstorage.PartnerRecord{
		ID: "partner-1", DisplayName: "Northwind", Tier: "premium_pro", Volume: 5000,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("put partner: %v", err)
	}
	if err := accessStore.PutGate(t.Context(), accessstorage.GateRecord{
		ContentKey: "pricing.sheet", TierRequirement: "premium", RequiredVolume: 1000,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("put gate: %v", err)
	}
	if err := accessStore.Close(); err != nil {
		t.Fatalf("close access store: %v", err)
	}

	notificationsStore, err := notificationssqlite.Open(notificationsPath)
	if err != nil {
		t.Fatalf("open notifications store: %v", err)
	}
	if err := notificationsStore.PutNotification(t.Context(), notificationsstorage.NotificationRecord{
		ID: "notif-1", RecipientPartnerID: "partner-1", MessageType: "order.created",
		PayloadJSON: `{"order_id":"ord-1"}`, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("put notification: %v", err)
	}
	if err := notificationsStore.Close(); err != nil {
		t.Fatalf("close notifications store: %v", err)
	}

	server, err := NewServer(Config{
		HTTPAddr:            "127.0.0.1:0",
		AccessDBPath:        accessPath,
		NotificationsDBPath: notificationsPath,
		SessionSecret:       "test-secret",
		Logger:              zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(server.Close)

	authenticator, err := auth.New("test-secret")
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	token, err := authenticator.Mint("partner-1", time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return server, token
}

func doRequest(t *testing.T, server *Server, method string, path string, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	return recorder
}

func TestServerRequiresHTTPAddr(t *testing.T) {
	if _, err := NewServer(Config{SessionSecret: "s"}); err == nil {
		t.Fatal("expected error for missing http address")
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/up", "", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var body struct {
		Healthy bool            `json:"healthy"`
		Modules map[string]bool `json:"modules"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Healthy || !body.Modules["access"] || !body.Modules["notifications"] {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestAccessCheckEndToEnd(t *testing.T) {
	server, token := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/access/pricing.sheet", token, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}
	var body struct {
		Unlocked bool   `json:"unlocked"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Unlocked {
		t.Fatalf("premium_pro partner with volume 5000 should unlock: %+v", body)
	}
}

func TestAccessCheckUnknownGateReturns404(t *testing.T) {
	server, token := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/access/missing.gate", token, "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}

func TestNotificationsListEndToEnd(t *testing.T) {
	server, token := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/notifications", token, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}
	var body struct {
		Notifications []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"notifications"`
		UnreadCount int `json:"unread_count"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Notifications) != 1 || body.Notifications[0].ID != "notif-1" {
		t.Fatalf("unexpected notifications: %+v", body)
	}
	if body.UnreadCount != 1 {
		t.Fatalf("unread = %d, want 1", body.UnreadCount)
	}
}

func TestMarkReadEndToEnd(t *testing.T) {
	server, token := newTestServer(t)

	recorder := doRequest(t, server, http.MethodPost, "/api/notifications/notif-1/read", token, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	recorder = doRequest(t, server, http.MethodGet, "/api/notifications/unread", token, "")
	var body struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.UnreadCount != 0 {
		t.Fatalf("unread = %d, want 0", body.UnreadCount)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	server, _ := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/notifications", "", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}
