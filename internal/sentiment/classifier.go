package sentiment

import "github.com/shrustiadlak/digital-dear-diary/internal/domain/entry"

type Classifier struct {
	scorer Scorer
}

func NewClassifier(scorer Scorer) *Classifier {
	if scorer == nil {
		scorer = NewLexiconScorer()
	}

	return &Classifier{scorer: scorer}
}

// Classify maps text to an emotion label. Thresholds are checked in order,
// first match wins; a polarity of exactly zero falls through to Neutral.
func (c *Classifier) Classify(text string) entry.Emotion {
	polarity := c.scorer.Polarity(text)

	switch {
	case polarity > 0.3:
		return entry.EmotionHappy
	case polarity > 0:
		return entry.EmotionPositive
	case polarity < -0.3:
		return entry.EmotionSad
	case polarity < 0:
		return entry.EmotionNegative
	default:
		return entry.EmotionNeutral
	}
}
