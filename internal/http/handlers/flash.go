package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

const flashCookie = "diary_flash"

// setFlash queues a one-shot message for the next page render. Cookie values
// cannot hold spaces, hence the escaping.
func setFlash(ctx *gin.Context, message string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(flashCookie, url.QueryEscape(message), 60, "/", "", false, true)
}

// takeFlash reads and clears the pending flash message, if any.
func takeFlash(ctx *gin.Context) string {
	raw, err := ctx.Cookie(flashCookie)

	if err != nil || raw == "" {
		return ""
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(flashCookie, "", -1, "/", "", false, true)

	msg, err := url.QueryUnescape(raw)

	if err != nil {
		return ""
	}

	return msg
}
