package classifier

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// answer holds the fields extracted from a structured model completion.
type answer struct {
	toxic       bool
	reasons     string
	guideline   string
	rephrasings string
}

// Anchored section patterns. (?s) lets the free-text sections span lines; the
// closing anchor of one section is the opening label of the next.
var (
	reToxicity = regexp.MustCompile(
		`(?s)TEXT_TOXICITY:\s*(Yes|No)\s*`)
	reReasons = regexp.MustCompile(
		`(?s)TOXICITY_REASONS:\s*(.*?)\s*VIOLATED_GUIDELINE`)
	reGuideline = regexp.MustCompile(
		`(?s)VIOLATED_GUIDELINE:\s*(.*?)\s*REPHRASED TEXT OPTIONS:`)
	reRephrased = regexp.MustCompile(
		`(?s)REPHRASED TEXT OPTIONS:\s*(.*)`)
)

// parseAnswer extracts the structured sections from a completion. A toxic
// verdict requires all four sections; a clean verdict only needs the first.
func parseAnswer(completion string) (answer, error) {
	m := reToxicity.FindStringSubmatch(completion)
	if m == nil {
		return answer{}, fmt.Errorf("%w: missing TEXT_TOXICITY",
			ErrMalformedAnswer)
	}

	out := answer{toxic: strings.EqualFold(strings.TrimSpace(m[1]), "yes")}
	if !out.toxic {
		return out, nil
	}

	sections := []struct {
		name string
		re   *regexp.Regexp
		dst  *string
	}{
		{"TOXICITY_REASONS", reReasons, &out.reasons},
		{"VIOLATED_GUIDELINE", reGuideline, &out.guideline},
		{"REPHRASED TEXT OPTIONS", reRephrased, &out.rephrasings},
	}
	for _, s := range sections {
		m := s.re.FindStringSubmatch(completion)
		if m == nil {
			return answer{}, fmt.Errorf("%w: missing %s",
				ErrMalformedAnswer, s.name)
		}
		*s.dst = strings.TrimSpace(m[1])
	}

	return out, nil
}

// excerptLimit caps how much of the flagged text the reply quotes back.
const excerptLimit = 100

// shortenExcerpt truncates long flagged text to keep the reply readable.
func shortenExcerpt(text string) string {
	if utf8.RuneCountInString(text) <= excerptLimit {
		return text
	}

	runes := []rune(text)
	return string(runes[:excerptLimit]) + "..."
}

var trailingNewlines = regexp.MustCompile(`[\r\n]+$`)

// composeReply renders the moderation reply draft: quoted excerpt, a direct
// address to the author with the model's reasoning, the violated guideline,
// and rephrasing suggestions. When the first rephrasing option alone is
// already long, only that option is offered.
func composeReply(a answer, c Context) string {
	var b strings.Builder

	excerpt := trailingNewlines.ReplaceAllString(
		shortenExcerpt(c.Target.Body), "")
	fmt.Fprintf(&b, "<pre><i>%s</i></pre>\n\n", excerpt)

	fmt.Fprintf(&b, "Hi @%s, your input was identified as toxic. %s\n\n",
		c.Author, a.reasons)
	fmt.Fprintf(&b, "%s\n\n", a.guideline)

	first := firstRephrasingOption(a.rephrasings)
	if utf8.RuneCountInString(first) > 500 {
		fmt.Fprintf(&b, "Here is a possible rephrasing option:\n%s\n",
			first)
	} else {
		fmt.Fprintf(&b, "Here are possible rephrasing options:\n%s\n",
			a.rephrasings)
	}

	return b.String()
}

// firstRephrasingOption isolates option one from a numbered list of
// rephrasing suggestions.
func firstRephrasingOption(options string) string {
	first, _, _ := strings.Cut(options, "2. ")
	first = strings.TrimPrefix(first, "1. ")

	if idx := strings.LastIndex(first, "\n"); idx != -1 {
		first = first[:idx] + first[idx+1:]
	}

	return first
}
