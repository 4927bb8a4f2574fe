package entry

import (
	"errors"
	"time"
)

type Emotion string

const (
	EmotionHappy    Emotion = "Happy"
	EmotionPositive Emotion = "Positive"
	EmotionNeutral  Emotion = "Neutral"
	EmotionNegative Emotion = "Negative"
	EmotionSad      Emotion = "Sad"
)

var (
	ErrNotFound = errors.New("entry not found")
	ErrNotOwner = errors.New("entry belongs to another user")
)

type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Content   string    `json:"content"`
	Emotion   Emotion   `json:"emotion"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateEntryRequest struct {
	Content string `json:"content" binding:"omitempty,max=10000"`
	Theme   string `json:"theme" binding:"omitempty,max=50"`
}

// View is the wire shape used by the JSON endpoints and the dashboard.
type View struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Emotion Emotion `json:"emotion"`
	Theme   string  `json:"theme"`
	Date    string  `json:"date"`
}

const dateLayout = "2006-01-02 15:04"

func (e Entry) AsView() View {
	return View{
		ID:      e.ID,
		Content: e.Content,
		Emotion: e.Emotion,
		Theme:   e.Theme,
		Date:    e.CreatedAt.Format(dateLayout),
	}
}
