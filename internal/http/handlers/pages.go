package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shrustiadlak/digital-dear-diary/internal/auth"
	"github.com/shrustiadlak/digital-dear-diary/internal/config"
	"github.com/shrustiadlak/digital-dear-diary/internal/domain/entry"
	"github.com/shrustiadlak/digital-dear-diary/internal/domain/user"
	"github.com/shrustiadlak/digital-dear-diary/internal/http/middlewares"
	"github.com/shrustiadlak/digital-dear-diary/internal/security"
)

type UserCreator interface {
	Create(ctx context.Context, username, email, passwordHash string) (user.User, error)
}

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type TokenIssuer interface {
	GenerateSessionToken(userID, username string) (raw string, sid string, expiresAt time.Time, err error)
}

type SessionWriter interface {
	Create(ctx context.Context, sid, userID string) error
	Revoke(ctx context.Context, sid string) error
}

type EntryLister interface {
	ListByUser(ctx context.Context, userID string) ([]entry.Entry, error)
}

type PagesHandler struct {
	users    UserReader
	writer   UserCreator
	entries  EntryLister
	tokens   TokenIssuer
	sessions SessionWriter
	cfg      config.Config
}

func NewPagesHandler(users UserReader, writer UserCreator, entries EntryLister, tokens TokenIssuer, sessions SessionWriter, cfg config.Config) *PagesHandler {
	return &PagesHandler{
		users:    users,
		writer:   writer,
		entries:  entries,
		tokens:   tokens,
		sessions: sessions,
		cfg:      cfg,
	}
}

type RegisterRequest struct {
	Username string `form:"username" binding:"required,min=3,max=80"`
	Email    string `form:"email" binding:"required,email,max=120"`
	Password string `form:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *PagesHandler) Index(ctx *gin.Context) {
	if _, ok := middlewares.CurrentUserID(ctx); ok {
		ctx.Redirect(http.StatusFound, "/dashboard")
		return
	}

	ctx.HTML(http.StatusOK, "index.html", gin.H{})
}

func (h *PagesHandler) ShowRegister(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "register.html", gin.H{
		"Flash": takeFlash(ctx),
	})
}

func (h *PagesHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if msg, ok := BindForm(ctx, &req); !ok {
		setFlash(ctx, msg)
		ctx.Redirect(http.StatusFound, "/register")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		setFlash(ctx, "Could not create account")
		ctx.Redirect(http.StatusFound, "/register")
		return
	}

	_, err = h.writer.Create(cctx, req.Username, req.Email, hash)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken):
			setFlash(ctx, "Username already exists")
		case errors.Is(err, user.ErrEmailTaken):
			setFlash(ctx, "Email already registered")
		default:
			setFlash(ctx, "Could not create account")
		}

		ctx.Redirect(http.StatusFound, "/register")
		return
	}

	setFlash(ctx, "Registration successful! Please login.")
	ctx.Redirect(http.StatusFound, "/login")
}

func (h *PagesHandler) ShowLogin(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", gin.H{
		"Flash": takeFlash(ctx),
	})
}

func (h *PagesHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if _, ok := BindForm(ctx, &req); !ok {
		ctx.HTML(http.StatusOK, "login.html", gin.H{
			"Flash": "Invalid username or password",
		})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, req.Username)

	if err != nil {
		ctx.HTML(http.StatusOK, "login.html", gin.H{
			"Flash": "Invalid username or password",
		})
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		ctx.HTML(http.StatusOK, "login.html", gin.H{
			"Flash": "Invalid username or password",
		})
		return
	}

	raw, sid, expiresAt, err := h.tokens.GenerateSessionToken(foundUser.ID, foundUser.Username)

	if err != nil {
		ctx.HTML(http.StatusOK, "login.html", gin.H{
			"Flash": "Could not start session",
		})
		return
	}

	if err := h.sessions.Create(cctx, sid, foundUser.ID); err != nil {
		ctx.HTML(http.StatusOK, "login.html", gin.H{
			"Flash": "Could not start session",
		})
		return
	}

	h.setSessionCookie(ctx, raw, expiresAt)

	ctx.Redirect(http.StatusFound, "/dashboard")
}

func (h *PagesHandler) Logout(ctx *gin.Context) {
	if sid, ok := middlewares.CurrentSessionID(ctx); ok {
		cctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		// idempotent; a failed revoke still clears the cookie
		_ = h.sessions.Revoke(cctx, sid)
	}

	h.clearSessionCookie(ctx)
	ctx.Redirect(http.StatusFound, "/")
}

func (h *PagesHandler) Dashboard(ctx *gin.Context) {
	userID, _ := middlewares.CurrentUserID(ctx)
	username, _ := middlewares.CurrentUsername(ctx)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	list, err := h.entries.ListByUser(cctx, userID)

	if err != nil {
		ctx.HTML(http.StatusInternalServerError, "dashboard.html", gin.H{
			"Username": username,
			"Flash":    "Could not load entries",
		})
		return
	}

	views := make([]entry.View, 0, len(list))

	for _, e := range list {
		views = append(views, e.AsView())
	}

	ctx.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Username": username,
		"Entries":  views,
		"Flash":    takeFlash(ctx),
	})
}

func (h *PagesHandler) setSessionCookie(ctx *gin.Context, raw string, expiresAt time.Time) {
	secure := h.cfg.Env == "prod"

	maxAge := int(time.Until(expiresAt).Seconds())

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		auth.CookieName,
		raw,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *PagesHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		auth.CookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
