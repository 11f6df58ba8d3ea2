package news

import (
	"math"
	"strings"
	"unicode"
)

// Sentiment labels.
const (
	Positive = "positive"
	Neutral  = "neutral"
	Negative = "negative"
)

// labelThreshold separates neutral scores from polar ones.
const labelThreshold = 0.05

// normalizeAlpha controls how quickly the compound score saturates.
const normalizeAlpha = 15.0

// lexicon holds word valences on a -4..4 scale, tuned for market headlines.
var lexicon = map[string]float64{
	"beat": 2.0, "beats": 2.0, "bullish": 2.6, "buy": 1.2, "climb": 1.6, "climbs": 1.6,
	"gain": 2.0, "gains": 2.0, "good": 1.9, "great": 3.1, "growth": 1.8, "high": 0.8,
	"improve": 1.9, "improved": 1.9, "jump": 1.8, "jumps": 1.8, "outperform": 2.3,
	"profit": 1.9, "profits": 1.9, "rally": 2.2, "rallies": 2.2, "record": 1.2,
	"rebound": 1.7, "rise": 1.5, "rises": 1.5, "soar": 2.6, "soars": 2.6, "strong": 2.3,
	"success": 2.7, "surge": 2.4, "surges": 2.4, "top": 1.0, "up": 0.8, "upgrade": 2.1,
	"upgraded": 2.1, "win": 2.8, "wins": 2.8, "positive": 2.3, "optimistic": 2.2,
	"boost": 1.9, "boosts": 1.9, "strength": 2.0, "exceed": 1.7, "exceeds": 1.7,

	"bearish": -2.6, "crash": -3.0, "crashes": -3.0, "cut": -1.2, "cuts": -1.2,
	"decline": -1.7, "declines": -1.7, "downgrade": -2.1, "downgraded": -2.1,
	"drop": -1.6, "drops": -1.6, "fall": -1.6, "falls": -1.6, "fear": -2.2, "fears": -2.2,
	"fraud": -3.2, "lawsuit": -2.0, "loss": -2.1, "losses": -2.1, "miss": -1.8,
	"misses": -1.8, "plunge": -2.5, "plunges": -2.5, "recession": -2.6, "risk": -1.1,
	"risks": -1.1, "sell": -1.2, "selloff": -2.3, "slump": -2.2, "slumps": -2.2,
	"tumble": -2.2, "tumbles": -2.2, "underperform": -2.1, "warn": -1.9, "warns": -1.9,
	"weak": -1.9, "worst": -3.1, "bad": -2.5, "negative": -2.3, "concern": -1.4,
	"concerns": -1.4, "layoffs": -2.0, "bankruptcy": -3.3, "down": -0.8, "volatile": -1.0,
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "without": true, "isn't": true,
	"wasn't": true, "aren't": true, "don't": true, "doesn't": true, "didn't": true,
	"won't": true, "cannot": true, "can't": true,
}

var boosters = map[string]float64{
	"very": 0.3, "extremely": 0.4, "sharply": 0.4, "hugely": 0.4, "significantly": 0.3,
	"slightly": -0.3, "marginally": -0.3, "somewhat": -0.2,
}

// Score returns a compound sentiment in [-1, 1]. Empty or neutral text
// scores 0.
func Score(text string) float64 {
	words := tokenize(text)
	sum := 0.0
	for i, w := range words {
		v, ok := lexicon[w]
		if !ok {
			continue
		}
		if i > 0 {
			if b, ok := boosters[words[i-1]]; ok {
				if v > 0 {
					v += b
				} else {
					v -= b
				}
			}
		}
		for j := max(0, i-3); j < i; j++ {
			if negations[words[j]] {
				v *= -0.74
				break
			}
		}
		sum += v
	}
	if sum == 0 {
		return 0
	}
	return sum / math.Sqrt(sum*sum+normalizeAlpha)
}

// Label maps a compound score to positive, neutral or negative.
func Label(score float64) string {
	switch {
	case score >= labelThreshold:
		return Positive
	case score <= -labelThreshold:
		return Negative
	default:
		return Neutral
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
