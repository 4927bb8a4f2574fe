package sentiment

import "strings"

// Scorer computes a sentiment polarity in [-1.0, 1.0] for free text.
// Positive means favorable tone, negative means unfavorable, zero is neutral.
// The classifier depends only on this interface so the scoring routine can be
// swapped out (or faked in tests) without touching anything above it.
type Scorer interface {
	Polarity(text string) float64
}

// LexiconScorer is the default Scorer: a weighted word lexicon with simple
// negation flipping. Stateless and side-effect free.
type LexiconScorer struct{}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

func (s *LexiconScorer) Polarity(text string) float64 {
	tokens := tokenize(text)

	var sum float64
	hits := 0

	for i, tok := range tokens {
		w, ok := lexicon[tok]
		if !ok {
			continue
		}

		if i > 0 {
			if _, negated := negations[tokens[i-1]]; negated {
				w = -w
			}
		}

		sum += w
		hits++
	}

	if hits == 0 {
		return 0
	}

	// mean hit weight, scaled from -5..5 down to -1..1
	p := sum / float64(hits) / 5.0

	if p > 1 {
		p = 1
	}
	if p < -1 {
		p = -1
	}

	return p
}

func tokenize(text string) []string {
	lower := strings.ToLower(text)

	return strings.FieldsFunc(lower, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		default:
			return true
		}
	})
}
