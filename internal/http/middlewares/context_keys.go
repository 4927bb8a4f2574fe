package middlewares

// Gin context keys set by the session middleware. Exported so handler tests
// can seed an authenticated identity without a real cookie.
const (
	CtxUserIDKey    = "auth.userID"
	CtxUsernameKey  = "auth.username"
	CtxSessionIDKey = "auth.sessionID"
)
