package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shrustiadlak/digital-dear-diary/internal/cache"
	"github.com/shrustiadlak/digital-dear-diary/internal/config"
	"github.com/shrustiadlak/digital-dear-diary/internal/domain/entry"
	"github.com/shrustiadlak/digital-dear-diary/internal/http/middlewares"
)

type EntriesStore interface {
	Create(ctx context.Context, userID, content, theme string, emotion entry.Emotion) (entry.Entry, error)
	ListByUser(ctx context.Context, userID string) ([]entry.Entry, error)
	DeleteByID(ctx context.Context, userID, entryID string) error
}

type EmotionClassifier interface {
	Classify(text string) entry.Emotion
}

type EntriesHandler struct {
	repo       EntriesStore
	classifier EmotionClassifier
	cache      *cache.Cache
}

func NewEntriesHandler(repo EntriesStore, classifier EmotionClassifier) *EntriesHandler {
	return &EntriesHandler{repo: repo, classifier: classifier}
}

func NewEntriesHandlerWithCache(repo EntriesStore, classifier EmotionClassifier, c *cache.Cache) *EntriesHandler {
	return &EntriesHandler{repo: repo, classifier: classifier, cache: c}
}

func (h *EntriesHandler) SaveEntry(ctx *gin.Context) {
	userID, _ := middlewares.CurrentUserID(ctx)

	var req entry.CreateEntryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	content := strings.TrimSpace(req.Content)

	if content == "" {
		RespondFailure(ctx, http.StatusOK, "Entry cannot be empty")
		return
	}

	emotion := h.classifier.Classify(content)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	e, err := h.repo.Create(cctx, userID, content, req.Theme, emotion)

	if err != nil {
		RespondInternal(ctx, "Could not save entry")
		return
	}

	h.invalidate(userID)

	view := e.AsView()

	RespondSuccess(ctx, "Entry saved successfully!", &view)
}

func (h *EntriesHandler) GetEntries(ctx *gin.Context) {
	userID, _ := middlewares.CurrentUserID(ctx)

	if views, ok := h.cached(userID); ok {
		RespondJSONWithETag(ctx, http.StatusOK, views)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	list, err := h.repo.ListByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not load entries")
		return
	}

	views := make([]entry.View, 0, len(list))

	for _, e := range list {
		views = append(views, e.AsView())
	}

	if h.cache != nil {
		h.cache.Set(entriesCacheKey(userID), views)
	}

	RespondJSONWithETag(ctx, http.StatusOK, views)
}

func (h *EntriesHandler) DeleteEntry(ctx *gin.Context) {
	userID, _ := middlewares.CurrentUserID(ctx)
	entryID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.DeleteByID(cctx, userID, entryID)

	if err != nil {
		switch {
		case errors.Is(err, entry.ErrNotFound):
			RespondFailure(ctx, http.StatusNotFound, "Entry not found")
		case errors.Is(err, entry.ErrNotOwner):
			// the entry exists but belongs to someone else; nothing is deleted
			RespondFailure(ctx, http.StatusOK, "Unauthorized")
		default:
			RespondInternal(ctx, "Could not delete entry")
		}
		return
	}

	h.invalidate(userID)

	RespondSuccess(ctx, "Entry deleted successfully", nil)
}

func (h *EntriesHandler) cached(userID string) ([]entry.View, bool) {
	if h.cache == nil {
		return nil, false
	}

	v, ok := h.cache.Get(entriesCacheKey(userID))

	if !ok {
		return nil, false
	}

	views, ok := v.([]entry.View)

	return views, ok
}

func (h *EntriesHandler) invalidate(userID string) {
	if h.cache != nil {
		h.cache.Delete(entriesCacheKey(userID))
	}
}

func entriesCacheKey(userID string) string {
	return "entries:" + userID
}
