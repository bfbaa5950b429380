package parsing

import (
	"regexp"
	"strings"
)

var (
	playerTokenRe  = regexp.MustCompile(`\(#\d+\)`)
	trailingModeRe = regexp.MustCompile(`\(([^()#]+)\)$`)
)

// Classifier selects the OCR lines that plausibly encode a kill event.
// The lenient variant only needs the used-weapon marker plus any kill-verb
// signal, which keeps recall high on degraded text; the strict variant also
// demands (#123)-style player tokens and a trailing (mode) tag.
type Classifier struct {
	vocab  *Vocabulary
	strict bool
}

func NewClassifier(vocab *Vocabulary, strict bool) *Classifier {
	return &Classifier{vocab: vocab, strict: strict}
}

// Classify returns the subset of lines worth handing to the parser, in
// their original order.
func (c *Classifier) Classify(lines []string) []string {
	var out []string
	for _, l := range lines {
		if c.isCandidate(l) {
			out = append(out, l)
		}
	}
	return out
}

func (c *Classifier) isCandidate(line string) bool {
	if !strings.Contains(line, c.vocab.UsedMarker) {
		return false
	}
	hasVerb := false
	for _, sig := range c.vocab.VerbSignals {
		if strings.Contains(line, sig) {
			hasVerb = true
			break
		}
	}
	if !hasVerb {
		return false
	}
	if !c.strict {
		return true
	}
	row := StripSpaces(line)
	if len(playerTokenRe.FindAllString(row, 3)) < 2 {
		return false
	}
	return trailingModeRe.MatchString(row)
}
