package settlement

import (
	"regexp"
	"strings"
	"time"

	"guild-settlement-backend/internal/services/parsing"
)

var nameCharsRe = regexp.MustCompile(`[\p{Han}a-zA-Z0-9]+`)

// Document is the normalized view of one screenshot's OCR text. Lines are
// folded to half-width once, up front, so every later stage works on the
// same representation.
type Document struct {
	Lines []string

	nameText string
}

func NewDocument(raw string) Document {
	lines := parsing.SplitLines(raw)
	// Flatten to the name-legal characters only. Canonical names contain
	// nothing else, so substring search against this is a containment
	// test for "does this player appear anywhere in the screenshot".
	joined := ""
	for _, l := range lines {
		for _, run := range nameCharsRe.FindAllString(l, -1) {
			joined += run
		}
	}
	return Document{Lines: lines, nameText: joined}
}

// DateLines returns the normalized lines that carry a YYYY/M/D timestamp.
func (d Document) DateLines() []string {
	var out []string
	for _, l := range d.Lines {
		if parsing.HasDate(l) {
			out = append(out, parsing.NormalizeDateLine(l))
		}
	}
	return out
}

var datesRe = regexp.MustCompile(`\d{4}/\d{1,2}/\d{1,2}`)

// HasDateFor reports whether any date line falls on the given day. Full
// date matches are compared whole, so 2025/1/30 does not pass for 2025/1/3.
func (d Document) HasDateFor(day time.Time) bool {
	token := parsing.DateToken(day)
	for _, l := range d.DateLines() {
		for _, match := range datesRe.FindAllString(l, -1) {
			if match == token {
				return true
			}
		}
	}
	return false
}

// ContainsName reports whether the canonical name occurs anywhere in the
// merged OCR text.
func (d Document) ContainsName(name parsing.CanonicalName) bool {
	return name != "" && strings.Contains(d.nameText, string(name))
}
