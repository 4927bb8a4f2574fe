package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shrustiadlak/digital-dear-diary/internal/auth"
	"github.com/shrustiadlak/digital-dear-diary/internal/config"
	"github.com/shrustiadlak/digital-dear-diary/internal/db"
	httpx "github.com/shrustiadlak/digital-dear-diary/internal/http"
	"github.com/shrustiadlak/digital-dear-diary/internal/session"
)

// These tests need live postgres and redis; they skip without them.

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := os.Getenv("TEST_DB_DSN")
	redisAddr := os.Getenv("TEST_REDIS_ADDR")

	if dsn == "" || redisAddr == "" {
		t.Skip("set TEST_DB_DSN and TEST_REDIS_ADDR to run integration tests")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	if _, err := pool.Exec(ctx, `TRUNCATE entries, users CASCADE`); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	cfg := config.Config{
		Env:                    "test",
		SessionSecret:          "test-secret-key",
		SessionTTLHours:        1,
		TemplatesGlob:          "../../../web/templates/*.html",
		LoginRateLimit:         1000,
		LoginRateWindowSeconds: 60,
	}

	sessions := session.NewStore(session.Config{
		Addr: redisAddr,
		TTL:  time.Hour,
	})
	t.Cleanup(func() { _ = sessions.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return httpx.NewRouter(logger, pool, sessions, cfg)
}

func register(t *testing.T, router http.Handler, username, email, password string) {
	t.Helper()

	form := url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	}

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("register failed: status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func login(t *testing.T, router http.Handler, username, password string) *http.Cookie {
	t.Helper()

	form := url.Values{
		"username": {username},
		"password": {password},
	}

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("login failed: status=%d location=%q body=%s", w.Code, w.Header().Get("Location"), w.Body.String())
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}

	t.Fatal("session cookie not set on login")
	return nil
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Entry   *struct {
		ID string `json:"id"`
	} `json:"entry"`
}

func saveEntry(t *testing.T, router http.Handler, cookie *http.Cookie, content string) apiResponse {
	t.Helper()

	body := map[string]string{"content": content, "theme": "dark"}
	raw, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/save-entry", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("save-entry: bad response %q: %v", w.Body.String(), err)
	}

	return resp
}

func getEntries(t *testing.T, router http.Handler, cookie *http.Cookie) []map[string]any {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/get-entries", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get-entries: status=%d body=%s", w.Code, w.Body.String())
	}

	var out []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("get-entries: bad response %q: %v", w.Body.String(), err)
	}

	return out
}

func TestRegisterLoginSaveListFlow(t *testing.T) {
	router := setupRouter(t)

	register(t, router, "alice", "alice@example.com", "hunter22")
	cookie := login(t, router, "alice", "hunter22")

	resp := saveEntry(t, router, cookie, "Today was a wonderful day, I loved it")

	if !resp.Success || resp.Entry == nil {
		t.Fatalf("save-entry failed: %+v", resp)
	}

	entries := getEntries(t, router, cookie)

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if emotion := entries[0]["emotion"]; emotion != "Happy" {
		t.Fatalf("expected Happy, got %v", emotion)
	}
}

func TestEntriesAreScopedPerUser(t *testing.T) {
	router := setupRouter(t)

	register(t, router, "alice", "alice@example.com", "hunter22")
	register(t, router, "bob", "bob@example.com", "hunter22")

	aliceCookie := login(t, router, "alice", "hunter22")
	bobCookie := login(t, router, "bob", "hunter22")

	resp := saveEntry(t, router, aliceCookie, "my private thoughts")
	if !resp.Success {
		t.Fatalf("save failed: %+v", resp)
	}

	if entries := getEntries(t, router, bobCookie); len(entries) != 0 {
		t.Fatalf("bob can see alice's entries: %+v", entries)
	}

	// bob cannot delete alice's entry either
	req := httptest.NewRequest(http.MethodDelete, "/delete-entry/"+resp.Entry.ID, nil)
	req.AddCookie(bobCookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var deleteResp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &deleteResp); err != nil {
		t.Fatalf("bad delete response: %v", err)
	}

	if deleteResp.Success || deleteResp.Message != "Unauthorized" {
		t.Fatalf("expected unauthorized delete, got %+v", deleteResp)
	}

	if entries := getEntries(t, router, aliceCookie); len(entries) != 1 {
		t.Fatalf("alice's entry should have survived, got %d entries", len(entries))
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	router := setupRouter(t)

	register(t, router, "alice", "alice@example.com", "hunter22")
	cookie := login(t, router, "alice", "hunter22")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("logout failed: status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	// the old cookie no longer authenticates
	req = httptest.NewRequest(http.MethodGet, "/get-entries", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}
