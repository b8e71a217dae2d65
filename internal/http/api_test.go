package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portal-backend/internal/report"
	"portal-backend/internal/repository/sqlite"
	"portal-backend/internal/service"
)

type failingRenderer struct{}

func (failingRenderer) Render(kind report.Kind, _ report.Data) ([]byte, error) {
	return nil, &report.Error{Kind: kind, Stage: "rasterize", Err: errors.New("out of paper")}
}

func (failingRenderer) Markup(kind report.Kind, _ report.Data) ([]byte, error) {
	return nil, &report.Error{Kind: kind, Stage: "bind", Err: errors.New("out of paper")}
}

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T, renderer service.ReportRenderer, trustedProxies ...string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	users := sqlite.NewUserRepository(db)
	items := sqlite.NewItemRepository(db)
	contacts := sqlite.NewContactRepository(db)
	logs := sqlite.NewAccessLogRepository(db)
	ctx := context.Background()
	for _, initRepo := range []func(context.Context) error{users.Init, items.Init, contacts.Init, logs.Init} {
		if err := initRepo(ctx); err != nil {
			t.Fatalf("init: %v", err)
		}
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	if renderer == nil {
		r, err := report.NewRenderer(report.Options{Brand: "Portal", Compress: true})
		if err != nil {
			t.Fatalf("NewRenderer() = %v", err)
		}
		renderer = r
	}

	handler := NewHandler(Services{
		Users:     service.NewUserService(users, items),
		Items:     service.NewItemService(items, users, service.DefaultOwner{Username: "default", Email: "default@example.com"}, logger),
		Contacts:  service.NewContactService(contacts),
		Access:    service.NewAccessService(logs, users),
		Dashboard: service.NewDashboardService(users, items, contacts, logs, time.Now),
		Reports:   service.NewReportService(users, items, renderer, logger),
	}, Options{
		AllowedOrigins: []string{"http://localhost:8080"},
		TrustedProxies: trustedProxies,
		AutoAccessLog:  true,
		Logger:         logger,
	})

	router := gin.New()
	if err := handler.RegisterRoutes(router); err != nil {
		t.Fatalf("RegisterRoutes() = %v", err)
	}
	return &testServer{router: router}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "portal-test")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/health", "")
	expectStatus(t, rec, http.StatusOK)
	if got := decode[map[string]string](t, rec)["status"]; got != "healthy" {
		t.Fatalf("status field = %q", got)
	}

	rec = s.do(t, http.MethodGet, "/api/reports/health", "")
	expectStatus(t, rec, http.StatusOK)
	body := decode[map[string]string](t, rec)
	if body["service"] != "PDF Reports" || body["version"] != "1.0.0" {
		t.Fatalf("reports health = %v", body)
	}

	rec = s.do(t, http.MethodGet, "/", "")
	expectStatus(t, rec, http.StatusOK)
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}
}

func TestUserLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/users", `{"username":"alice","email":"alice@example.com"}`)
	expectStatus(t, rec, http.StatusCreated)
	created := decode[UserResponse](t, rec)
	if created.ID == 0 || !created.IsActive {
		t.Fatalf("created = %+v", created)
	}

	expectStatus(t, s.do(t, http.MethodPost, "/api/users", `{"username":"alice","email":"a2@example.com"}`), http.StatusConflict)
	expectStatus(t, s.do(t, http.MethodPost, "/api/users", `{"username":"bob"}`), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodPost, "/api/users", `{"username":"bob","email":"Bob Smith <bob@x.com>"}`), http.StatusBadRequest)

	rec = s.do(t, http.MethodPut, "/api/users/1", `{"is_active":false}`)
	expectStatus(t, rec, http.StatusOK)
	updated := decode[UserResponse](t, rec)
	if updated.IsActive || updated.Email != "alice@example.com" {
		t.Fatalf("updated = %+v", updated)
	}

	expectStatus(t, s.do(t, http.MethodPut, "/api/users/1", `{"nickname":"al"}`), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodPut, "/api/users/1", `{"username":null}`), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodGet, "/api/users/abc", ""), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodGet, "/api/users/99", ""), http.StatusNotFound)

	rec = s.do(t, http.MethodGet, "/api/users?skip=0&limit=10", "")
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]UserResponse](t, rec); len(list) != 1 {
		t.Fatalf("list = %+v", list)
	}
	expectStatus(t, s.do(t, http.MethodGet, "/api/users?skip=-1", ""), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodGet, "/api/users?limit=many", ""), http.StatusBadRequest)

	rec = s.do(t, http.MethodDelete, "/api/users/1", "")
	expectStatus(t, rec, http.StatusOK)
	if msg := decode[map[string]string](t, rec)["message"]; msg != "User deleted successfully" {
		t.Fatalf("message = %q", msg)
	}
	expectStatus(t, s.do(t, http.MethodDelete, "/api/users/1", ""), http.StatusNotFound)
}

func TestItemsUseDefaultOwnerAndPartialUpdates(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/items", `{"title":"write docs","description":"draft"}`)
	expectStatus(t, rec, http.StatusCreated)
	item := decode[ItemResponse](t, rec)
	if item.OwnerID == 0 || item.Completed || item.Description == nil {
		t.Fatalf("item = %+v", item)
	}

	rec = s.do(t, http.MethodGet, "/api/users", "")
	expectStatus(t, rec, http.StatusOK)
	users := decode[[]UserResponse](t, rec)
	if len(users) != 1 || users[0].Username != "default" || users[0].ID != item.OwnerID {
		t.Fatalf("users = %+v", users)
	}

	rec = s.do(t, http.MethodPut, "/api/items/1", `{"description":null,"completed":true}`)
	expectStatus(t, rec, http.StatusOK)
	updated := decode[ItemResponse](t, rec)
	if updated.Description != nil || !updated.Completed || updated.Title != "write docs" {
		t.Fatalf("updated = %+v", updated)
	}

	rec = s.do(t, http.MethodPut, "/api/items/1", `{"bogus":1}`)
	expectStatus(t, rec, http.StatusBadRequest)
	if msg := decode[map[string]string](t, rec)["error"]; !strings.Contains(msg, "bogus") {
		t.Fatalf("error = %q, want it to name the unknown key", msg)
	}
	rec = s.do(t, http.MethodGet, "/api/items/1", "")
	expectStatus(t, rec, http.StatusOK)
	if again := decode[ItemResponse](t, rec); again != updated {
		t.Fatalf("item after rejected update = %+v, want %+v", again, updated)
	}

	expectStatus(t, s.do(t, http.MethodPost, "/api/items", `{"title":"x","owner_id":42}`), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodDelete, "/api/users/1", ""), http.StatusConflict)

	rec = s.do(t, http.MethodDelete, "/api/items/1", "")
	expectStatus(t, rec, http.StatusOK)
	if msg := decode[map[string]string](t, rec)["message"]; msg != "Item deleted successfully" {
		t.Fatalf("message = %q", msg)
	}

	title := strings.Repeat("张", 40)
	rec = s.do(t, http.MethodPost, "/api/items", `{"title":"`+title+`"}`)
	expectStatus(t, rec, http.StatusCreated)
	if got := decode[ItemResponse](t, rec); got.Title != title {
		t.Fatalf("title = %q, want %q", got.Title, title)
	}
	expectStatus(t, s.do(t, http.MethodPost, "/api/items", `{"title":"`+strings.Repeat("张", 101)+`"}`), http.StatusBadRequest)
}

func TestContactRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/contact", `{"name":"Ann","email":"ann@example.com","subject":"Hi","message":"Hello"}`)
	expectStatus(t, rec, http.StatusCreated)
	if c := decode[ContactResponse](t, rec); c.IsResolved {
		t.Fatalf("contact = %+v", c)
	}

	rec = s.do(t, http.MethodPut, "/api/contact/1", `{"is_resolved":true}`)
	expectStatus(t, rec, http.StatusOK)
	if c := decode[ContactResponse](t, rec); !c.IsResolved || c.Subject != "Hi" {
		t.Fatalf("contact = %+v", c)
	}

	expectStatus(t, s.do(t, http.MethodDelete, "/api/contact/1", ""), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodGet, "/api/contact/1", ""), http.StatusNotFound)
}

func TestLogAccessAndStats(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reports/log-access", strings.NewReader(`{"endpoint":"/custom","method":"GET","status_code":200}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "portal-cli/1.0")
	req.RemoteAddr = "192.0.2.10:4321"
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)
	logged := decode[AccessLogResponse](t, rec)
	if logged.IPAddress != "192.0.2.10" || logged.UserAgent != "portal-cli/1.0" || logged.UserID != nil {
		t.Fatalf("logged = %+v", logged)
	}

	expectStatus(t, s.do(t, http.MethodPost, "/api/reports/log-access", `{"user_id":99}`), http.StatusNotFound)

	expectStatus(t, s.do(t, http.MethodGet, "/api/health", ""), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodGet, "/api/health", ""), http.StatusOK)

	rec = s.do(t, http.MethodGet, "/api/reports/stats", "")
	expectStatus(t, rec, http.StatusOK)
	stats := decode[StatsResponse](t, rec)
	if stats.AccessByEndpoint["/api/health"] != 2 || stats.AccessByEndpoint["/custom"] != 1 {
		t.Fatalf("access_by_endpoint = %v", stats.AccessByEndpoint)
	}
	if stats.RecentAccessCount != 3 {
		t.Fatalf("recent_access_count = %d, want 3", stats.RecentAccessCount)
	}

	rec = s.do(t, http.MethodGet, "/api/reports/recent-access?limit=2", "")
	expectStatus(t, rec, http.StatusOK)
	recent := decode[[]AccessLogEntryResponse](t, rec)
	if len(recent) != 2 || recent[0].Endpoint == nil || *recent[0].Endpoint != "/api/reports/stats" {
		t.Fatalf("recent = %+v", recent)
	}

	rec = s.do(t, http.MethodGet, "/api/reports/access/1", "")
	expectStatus(t, rec, http.StatusOK)
	if got := decode[AccessLogResponse](t, rec); got.ID != 1 || got.Endpoint == nil || *got.Endpoint != "/custom" {
		t.Fatalf("access log = %+v", got)
	}
	expectStatus(t, s.do(t, http.MethodGet, "/api/reports/access/abc", ""), http.StatusBadRequest)

	expectStatus(t, s.do(t, http.MethodDelete, "/api/reports/access/1", ""), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodDelete, "/api/reports/access/1", ""), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodGet, "/api/reports/access/1", ""), http.StatusNotFound)
}

func logAccessFrom(t *testing.T, s *testServer, remoteAddr, forwardedFor string) AccessLogResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/reports/log-access", strings.NewReader(`{"endpoint":"/custom"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)
	return decode[AccessLogResponse](t, rec)
}

func TestForwardedForIgnoredWithoutTrustedProxies(t *testing.T) {
	s := newTestServer(t, nil)

	if got := logAccessFrom(t, s, "192.0.2.10:4321", "203.0.113.7"); got.IPAddress != "192.0.2.10" {
		t.Fatalf("ip_address = %q, want the peer address", got.IPAddress)
	}
}

func TestForwardedForHonouredFromTrustedProxy(t *testing.T) {
	s := newTestServer(t, nil, "192.0.2.0/24")

	if got := logAccessFrom(t, s, "192.0.2.10:4321", "203.0.113.7"); got.IPAddress != "203.0.113.7" {
		t.Fatalf("ip_address = %q, want the forwarded client", got.IPAddress)
	}
	if got := logAccessFrom(t, s, "198.51.100.20:4321", "203.0.113.7"); got.IPAddress != "198.51.100.20" {
		t.Fatalf("ip_address = %q, want the untrusted peer", got.IPAddress)
	}
}

func TestUserAccessHistory(t *testing.T) {
	s := newTestServer(t, nil)

	expectStatus(t, s.do(t, http.MethodPost, "/api/users", `{"username":"alice","email":"alice@example.com"}`), http.StatusCreated)
	expectStatus(t, s.do(t, http.MethodPost, "/api/reports/log-access", `{"user_id":1,"endpoint":"/dashboard"}`), http.StatusOK)

	rec := s.do(t, http.MethodGet, "/api/reports/user-access/1", "")
	expectStatus(t, rec, http.StatusOK)
	history := decode[[]AccessLogEntryResponse](t, rec)
	if len(history) != 1 || history[0].Username == nil || *history[0].Username != "alice" {
		t.Fatalf("history = %+v", history)
	}
}

func TestReportDownloads(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/reports/users", "")
	expectStatus(t, rec, http.StatusNotFound)
	if msg := decode[map[string]string](t, rec)["error"]; !strings.Contains(msg, "no users found") {
		t.Fatalf("error = %q", msg)
	}
	expectStatus(t, s.do(t, http.MethodGet, "/api/reports/comprehensive", ""), http.StatusNotFound)

	expectStatus(t, s.do(t, http.MethodPost, "/api/users", `{"username":"alice","email":"alice@example.com"}`), http.StatusCreated)

	rec = s.do(t, http.MethodGet, "/api/reports/users", "")
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=users_report.pdf" {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Fatal("expected a PDF body")
	}

	expectStatus(t, s.do(t, http.MethodGet, "/api/reports/items", ""), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodGet, "/api/reports/comprehensive", ""), http.StatusOK)

	rec = s.do(t, http.MethodGet, "/api/reports/users?format=html", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") || !strings.Contains(rec.Body.String(), "alice") {
		t.Fatalf("preview = %s", rec.Body.String())
	}
	expectStatus(t, s.do(t, http.MethodGet, "/api/reports/users?format=docx", ""), http.StatusBadRequest)
}

func TestReportGenerationFailureIsServerError(t *testing.T) {
	s := newTestServer(t, failingRenderer{})
	expectStatus(t, s.do(t, http.MethodPost, "/api/users", `{"username":"alice","email":"alice@example.com"}`), http.StatusCreated)

	rec := s.do(t, http.MethodGet, "/api/reports/users", "")
	expectStatus(t, rec, http.StatusInternalServerError)
	msg := decode[map[string]string](t, rec)["error"]
	if !strings.HasPrefix(msg, "error generating report: ") || !strings.Contains(msg, "out of paper") {
		t.Fatalf("error = %q", msg)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/items", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusNoContent)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8080" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allow origin = %q, want none", got)
	}
}
