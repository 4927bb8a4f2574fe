package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shrustiadlak/digital-dear-diary/internal/auth"
	"github.com/shrustiadlak/digital-dear-diary/internal/config"
	"github.com/shrustiadlak/digital-dear-diary/internal/domain/entry"
	"github.com/shrustiadlak/digital-dear-diary/internal/domain/user"
	"github.com/shrustiadlak/digital-dear-diary/internal/http/handlers"
	"github.com/shrustiadlak/digital-dear-diary/internal/security"
)

type fakeUsersRepo struct {
	createFn func(ctx context.Context, username, email, passwordHash string) (user.User, error)
	getFn    func(ctx context.Context, username string) (user.User, error)
}

func (f *fakeUsersRepo) Create(ctx context.Context, username, email, passwordHash string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, username, email, passwordHash)
	}

	return user.User{}, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, username)
	}

	return user.User{}, user.ErrNotFound
}

type fakeSessionStore struct {
	createFn func(ctx context.Context, sid, userID string) error
	revokeFn func(ctx context.Context, sid string) error
}

func (f *fakeSessionStore) Create(ctx context.Context, sid, userID string) error {
	if f.createFn != nil {
		return f.createFn(ctx, sid, userID)
	}

	return nil
}

func (f *fakeSessionStore) Revoke(ctx context.Context, sid string) error {
	if f.revokeFn != nil {
		return f.revokeFn(ctx, sid)
	}

	return nil
}

type fakeEntryLister struct {
	listFn func(ctx context.Context, userID string) ([]entry.Entry, error)
}

func (f *fakeEntryLister) ListByUser(ctx context.Context, userID string) ([]entry.Entry, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}

	return nil, nil
}

func newPagesHandler(users *fakeUsersRepo, sessions *fakeSessionStore) *handlers.PagesHandler {
	tokens := auth.NewManager("test-secret-key", time.Hour)

	return handlers.NewPagesHandler(
		users,
		users,
		&fakeEntryLister{},
		tokens,
		sessions,
		config.Config{Env: "test"},
	)
}

func setupPagesRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.LoadHTMLGlob("../../../web/templates/*.html")
	r.Handle(method, path, h)

	return r
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func flashCookieValue(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == "diary_flash" {
			msg, err := url.QueryUnescape(c.Value)
			if err != nil {
				t.Fatalf("flash cookie not unescapable: %v", err)
			}
			return msg
		}
	}

	return ""
}

func TestRegisterHandler(t *testing.T) {
	validForm := url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"hunter22"},
	}

	tests := []struct {
		name         string
		form         url.Values
		repoSetUp    func(*fakeUsersRepo)
		wantLocation string
		wantFlash    string
	}{
		{
			name: "success",
			form: validForm,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, username, email, passwordHash string) (user.User, error) {
					if passwordHash == "hunter22" {
						t.Fatal("password stored in plaintext")
					}
					return user.New(username, email, passwordHash), nil
				}
			},
			wantLocation: "/login",
			wantFlash:    "Registration successful! Please login.",
		},
		{
			name: "duplicate_username",
			form: validForm,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, username, email, passwordHash string) (user.User, error) {
					return user.User{}, user.ErrUsernameTaken
				}
			},
			wantLocation: "/register",
			wantFlash:    "Username already exists",
		},
		{
			name: "duplicate_email",
			form: validForm,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, username, email, passwordHash string) (user.User, error) {
					return user.User{}, user.ErrEmailTaken
				}
			},
			wantLocation: "/register",
			wantFlash:    "Email already registered",
		},
		{
			name: "invalid_email",
			form: url.Values{
				"username": {"alice"},
				"email":    {"not-an-email"},
				"password": {"hunter22"},
			},
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, username, email, passwordHash string) (user.User, error) {
					t.Fatal("repo should not be called for an invalid form")
					return user.User{}, nil
				}
			},
			wantLocation: "/register",
			wantFlash:    "email must be a valid email address",
		},
		{
			name: "repo_error",
			form: validForm,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, username, email, passwordHash string) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantLocation: "/register",
			wantFlash:    "Could not create account",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsersRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(users)
			}

			h := newPagesHandler(users, &fakeSessionStore{})
			r := setupPagesRouter(http.MethodPost, "/register", h.Register)

			w := postForm(r, "/register", tt.form)

			if w.Code != http.StatusFound {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusFound, w.Body.String())
			}

			if loc := w.Header().Get("Location"); loc != tt.wantLocation {
				t.Fatalf("got redirect %q, want %q", loc, tt.wantLocation)
			}

			if flash := flashCookieValue(t, w); flash != tt.wantFlash {
				t.Fatalf("got flash %q, want %q", flash, tt.wantFlash)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	alice := user.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
	}

	t.Run("success_sets_session_and_redirects", func(t *testing.T) {
		users := &fakeUsersRepo{
			getFn: func(ctx context.Context, username string) (user.User, error) {
				if username != "alice" {
					return user.User{}, user.ErrNotFound
				}
				return alice, nil
			},
		}

		sessionCreated := false
		sessions := &fakeSessionStore{
			createFn: func(ctx context.Context, sid, userID string) error {
				if sid == "" || userID != alice.ID {
					t.Fatalf("unexpected session args: sid=%q userID=%q", sid, userID)
				}
				sessionCreated = true
				return nil
			},
		}

		h := newPagesHandler(users, sessions)
		r := setupPagesRouter(http.MethodPost, "/login", h.Login)

		w := postForm(r, "/login", url.Values{
			"username": {"alice"},
			"password": {"hunter22"},
		})

		if w.Code != http.StatusFound {
			t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusFound, w.Body.String())
		}

		if loc := w.Header().Get("Location"); loc != "/dashboard" {
			t.Fatalf("got redirect %q, want /dashboard", loc)
		}

		if !sessionCreated {
			t.Fatal("expected session to be created")
		}

		var sessionCookie *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == auth.CookieName {
				sessionCookie = c
			}
		}

		if sessionCookie == nil || sessionCookie.Value == "" {
			t.Fatal("expected session cookie to be set")
		}

		if !sessionCookie.HttpOnly {
			t.Fatal("session cookie must be HttpOnly")
		}
	})

	t.Run("wrong_password_rerenders_with_error", func(t *testing.T) {
		users := &fakeUsersRepo{
			getFn: func(ctx context.Context, username string) (user.User, error) {
				return alice, nil
			},
		}

		h := newPagesHandler(users, &fakeSessionStore{})
		r := setupPagesRouter(http.MethodPost, "/login", h.Login)

		w := postForm(r, "/login", url.Values{
			"username": {"alice"},
			"password": {"wrong"},
		})

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
		}

		if !strings.Contains(w.Body.String(), "Invalid username or password") {
			t.Fatalf("expected error message in page, body=%s", w.Body.String())
		}
	})

	t.Run("unknown_user_rerenders_with_error", func(t *testing.T) {
		users := &fakeUsersRepo{
			getFn: func(ctx context.Context, username string) (user.User, error) {
				return user.User{}, user.ErrNotFound
			},
		}

		h := newPagesHandler(users, &fakeSessionStore{})
		r := setupPagesRouter(http.MethodPost, "/login", h.Login)

		w := postForm(r, "/login", url.Values{
			"username": {"nobody"},
			"password": {"hunter22"},
		})

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
		}

		if !strings.Contains(w.Body.String(), "Invalid username or password") {
			t.Fatalf("expected error message in page, body=%s", w.Body.String())
		}
	})
}

func TestDashboardHandler(t *testing.T) {
	now := time.Now().UTC()

	lister := &fakeEntryLister{
		listFn: func(ctx context.Context, userID string) ([]entry.Entry, error) {
			if userID != "user-1" {
				t.Fatalf("dashboard queried for %q, want user-1", userID)
			}
			return []entry.Entry{
				{ID: "e-1", UserID: userID, Content: "a lovely walk", Emotion: entry.EmotionHappy, Theme: "light", CreatedAt: now},
			}, nil
		},
	}

	tokens := auth.NewManager("test-secret-key", time.Hour)
	h := handlers.NewPagesHandler(&fakeUsersRepo{}, &fakeUsersRepo{}, lister, tokens, &fakeSessionStore{}, config.Config{Env: "test"})

	r := setupAuthedRouter(http.MethodGet, "/dashboard", "user-1", h.Dashboard)
	r.LoadHTMLGlob("../../../web/templates/*.html")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "a lovely walk") {
		t.Fatalf("expected entry content in dashboard, body=%s", w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "Happy") {
		t.Fatalf("expected emotion label in dashboard, body=%s", w.Body.String())
	}
}
