package entry

import (
	"time"

	"github.com/google/uuid"
)

const DefaultTheme = "light"

func New(userID, content, theme string, emotion Emotion) Entry {
	if theme == "" {
		theme = DefaultTheme
	}

	return Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		Emotion:   emotion,
		Theme:     theme,
		CreatedAt: time.Now().UTC(),
	}
}
