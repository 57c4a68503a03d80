// Package advice turns model output and weather readings into actionable care
// suggestions. Everything here is a pure function of its input.
package advice

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Recommendation is a sentence that names a follow-up interval.
type Recommendation struct {
	Text string `json:"text"`
	Days int    `json:"days"`
}

type phrasePattern struct {
	re         *regexp.Regexp
	multiplier float64
}

const (
	ruDays  = `(?:дней|дня|день)`
	ruWeeks = `недел[юиья]`
	enDays  = `days?\b`
	enWeeks = `weeks?\b`
	rangeN  = `(\d+)\s*[-–]\s*(\d+)`
	singleN = `(\d+)`
)

func phrase(prefix, count, unit string, multiplier float64) phrasePattern {
	return phrasePattern{
		re:         regexp.MustCompile(`(?i)` + prefix + `\s*` + count + `\s*` + unit),
		multiplier: multiplier,
	}
}

// First match per sentence wins, so ranges come before single counts.
var phrasePatterns = []phrasePattern{
	phrase(`через`, rangeN, ruDays, 1),
	phrase(`каждые`, rangeN, ruDays, 1),
	phrase(`через`, rangeN, ruWeeks, 7),
	phrase(`каждые`, rangeN, ruWeeks, 7),
	phrase(`через`, singleN, ruDays, 1),
	phrase(`каждые`, singleN, ruDays, 1),
	phrase(`через`, singleN, ruWeeks, 7),
	phrase(`каждые`, singleN, ruWeeks, 7),
	phrase(`\bin\s`, rangeN, enDays, 1),
	phrase(`\bevery\s`, rangeN, enDays, 1),
	phrase(`\bin\s`, rangeN, enWeeks, 7),
	phrase(`\bevery\s`, rangeN, enWeeks, 7),
	phrase(`\bin\s`, singleN, enDays, 1),
	phrase(`\bevery\s`, singleN, enDays, 1),
	phrase(`\bin\s`, singleN, enWeeks, 7),
	phrase(`\bevery\s`, singleN, enWeeks, 7),
}

var sentenceBreak = regexp.MustCompile(`[.!?]`)

// ExtractTimeRecommendations finds at most one interval per sentence. A range
// yields its rounded midpoint; weeks count as seven days.
func ExtractTimeRecommendations(text string) []Recommendation {
	var out []Recommendation
	for _, sentence := range sentenceBreak.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		for _, p := range phrasePatterns {
			m := p.re.FindStringSubmatch(sentence)
			if m == nil {
				continue
			}
			if days := offset(m[1:], p.multiplier); days > 0 {
				out = append(out, Recommendation{Text: sentence, Days: days})
			}
			break
		}
	}
	return out
}

func offset(groups []string, multiplier float64) int {
	from, err := strconv.Atoi(groups[0])
	if err != nil {
		return 0
	}
	if len(groups) < 2 || groups[1] == "" {
		return int(float64(from) * multiplier)
	}
	to, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0
	}
	return int(math.Round(float64(from+to) / 2 * multiplier))
}
