package sentiment

// Word weights on a -5..+5 scale. The scorer divides the mean hit weight by 5
// so polarity always lands in [-1.0, 1.0].
var lexicon = map[string]float64{
	// strongly positive
	"amazing":   4,
	"awesome":   4,
	"beautiful": 3,
	"best":      3,
	"brilliant": 4,
	"delighted": 3,
	"excellent": 3,
	"fantastic": 4,
	"great":     3,
	"happy":     3,
	"joy":       3,
	"joyful":    3,
	"love":      3,
	"loved":     3,
	"lovely":    3,
	"perfect":   3,
	"thrilled":  4,
	"wonderful": 4,

	// mildly positive
	"calm":      1,
	"decent":    1,
	"fine":      1,
	"glad":      2,
	"good":      2,
	"hopeful":   2,
	"nice":      2,
	"okay":      1,
	"ok":        1,
	"peaceful":  2,
	"pleasant":  2,
	"relaxed":   2,
	"satisfied": 2,

	// mildly negative
	"annoyed":  -1,
	"bad":      -1,
	"bored":    -1,
	"difficult": -1,
	"dull":     -1,
	"meh":      -1,
	"tired":    -1,
	"upset":    -2,
	"worried":  -2,
	"wrong":    -1,

	// strongly negative
	"angry":      -3,
	"awful":      -4,
	"depressed":  -4,
	"devastated": -5,
	"hate":       -3,
	"hated":      -3,
	"horrible":   -4,
	"hurt":       -3,
	"lonely":     -3,
	"miserable":  -4,
	"sad":        -3,
	"terrible":   -4,
	"worst":      -4,
}

// Prefixing a scored word with one of these flips its sign
// ("not happy" reads negative).
var negations = map[string]struct{}{
	"not":    {},
	"no":     {},
	"never":  {},
	"nothing": {},
	"hardly": {},
	"cant":   {},
	"dont":   {},
	"didnt":  {},
	"wasnt":  {},
	"isnt":   {},
}
