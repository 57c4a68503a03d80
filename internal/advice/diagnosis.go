package advice

import (
	"regexp"
	"strings"
)

// Identification is the parsed answer to an identify scan.
type Identification struct {
	Name    string `json:"name"`
	Variety string `json:"variety,omitempty"`
	Origin  string `json:"origin,omitempty"`
}

// UnknownPlant is used when the model names nothing.
const UnknownPlant = "Неизвестное растение"

var (
	nameLine    = regexp.MustCompile(`(?i)Название:\s*([^\n]+)`)
	varietyLine = regexp.MustCompile(`(?i)Сорт:\s*([^\n]+)`)
	originLine  = regexp.MustCompile(`(?i)Происхождение:\s*([^\n]+)`)
)

func ParseIdentification(text string) Identification {
	id := Identification{
		Name:    firstGroup(nameLine, text),
		Variety: firstGroup(varietyLine, text),
		Origin:  firstGroup(originLine, text),
	}
	if id.Name == "" {
		id.Name = UnknownPlant
	}
	return id
}

func firstGroup(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Section is one numbered block of a diagnosis, with the follow-up intervals
// it mentions.
type Section struct {
	Heading         string           `json:"heading,omitempty"`
	Content         []string         `json:"content"`
	Recommendations []Recommendation `json:"recommendations"`
}

var (
	sectionStart = regexp.MustCompile(`(?m)^\s*\d+\.\s*`)
	headingLine  = regexp.MustCompile(`^\d+\.\s*([^:]+):?`)
)

// ParseDiagnosis splits a numbered answer ("1. Диагноз: ...") into sections.
// Text before the first number becomes a section without a heading.
func ParseDiagnosis(text string) []Section {
	starts := sectionStart.FindAllStringIndex(text, -1)
	var blocks []string
	prev := 0
	for _, s := range starts {
		if s[0] > prev {
			blocks = append(blocks, text[prev:s[0]])
		}
		prev = s[0]
	}
	blocks = append(blocks, text[prev:])

	var sections []Section
	for _, block := range blocks {
		var lines []string
		for _, l := range strings.Split(block, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
		if len(lines) == 0 {
			continue
		}

		sec := Section{Recommendations: ExtractTimeRecommendations(block)}
		if m := headingLine.FindStringSubmatch(lines[0]); m != nil {
			sec.Heading = strings.TrimSpace(m[1])
			if rest := strings.TrimSpace(lines[0][len(m[0]):]); rest != "" {
				sec.Content = append(sec.Content, rest)
			}
			sec.Content = append(sec.Content, lines[1:]...)
		} else {
			sec.Content = lines
		}
		if sec.Recommendations == nil {
			sec.Recommendations = []Recommendation{}
		}
		sections = append(sections, sec)
	}
	return sections
}
