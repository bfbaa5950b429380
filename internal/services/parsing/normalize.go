package parsing

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/width"
)

var (
	spaceRe          = regexp.MustCompile(`\s+`)
	slashRunRe       = regexp.MustCompile(`/+`)
	dateJunkRe       = regexp.MustCompile(`[^0-9/: ]`)
	dateRe           = regexp.MustCompile(`\d{4}/\d{1,2}/\d{1,2}`)
	garbledModeTagRe = regexp.MustCompile(
		`[\(\[\{〈【『「][^)\]\}〉】』」]{0,20}搶旗生存戰[^)\]\}〉】』」]{0,20}[\)\]\}〉】』」]?`)
)

// ToHalfWidth folds full-width ASCII variants (ＡＢ１２／：ｅｔｃ.) down to
// their half-width counterparts. CJK ideographs have no narrow form and
// pass through untouched.
func ToHalfWidth(s string) string {
	s = width.Narrow.String(s)
	return strings.ReplaceAll(s, "　", " ")
}

// StripSpaces removes all whitespace from a line before event extraction.
func StripSpaces(s string) string {
	return spaceRe.ReplaceAllString(s, "")
}

// TrimGarbledModeTag drops the bracketed 搶旗生存戰 tails the OCR tends to
// mangle beyond use; the clean trailing (mode) tag is extracted before this
// runs.
func TrimGarbledModeTag(s string) string {
	return garbledModeTagRe.ReplaceAllString(s, "")
}

// NormalizeDateLine reduces a line to the characters a timestamp can
// contain, so 2025／11／03 and 2025//11/03 both end up as 2025/11/03.
func NormalizeDateLine(s string) string {
	s = ToHalfWidth(s)
	s = dateJunkRe.ReplaceAllString(s, "")
	s = slashRunRe.ReplaceAllString(s, "/")
	return strings.TrimSpace(s)
}

// HasDate reports whether the normalized line carries a YYYY/M/D-looking
// timestamp.
func HasDate(line string) bool {
	return dateRe.MatchString(NormalizeDateLine(line))
}

// DateToken renders the zero-padding-free YYYY/M/D form the game client
// prints, e.g. 2025/8/31.
func DateToken(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}

// SplitLines splits raw OCR output into half-width-normalized lines.
func SplitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, ToHalfWidth(l))
	}
	return out
}
