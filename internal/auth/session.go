package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "diary_session"

type Claims struct {
	UserID   string `json:"sub"`
	Username string `json:"name"`
	SID      string `json:"jti"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens. The token's jti is the
// server-side session ID; the session store decides whether it is still live.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *Manager) GenerateSessionToken(userID, username string) (raw string, sid string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	sid = uuid.NewString()
	expiresAt = now.Add(m.ttl)

	claims := Claims{
		UserID:   userID,
		Username: username,
		SID:      sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	raw, err = token.SignedString(m.secret)

	return
}

func (m *Manager) VerifySessionToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.SID == "" {
		return nil, errors.New("missing session id")
	}

	return claims, nil
}
