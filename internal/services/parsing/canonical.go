package parsing

import (
	"regexp"
	"strings"
)

// CanonicalName is a player display name reduced to a comparison key. It is
// never shown to users; it only exists so 張三（隊長）, 張三#12 and 張三 all
// settle to the same player.
type CanonicalName string

var (
	fullWidthParenRe = regexp.MustCompile(`（[^（）]*）`)
	halfWidthParenRe = regexp.MustCompile(`\([^()]*\)`)
	idTagRe          = regexp.MustCompile(`#\d+`)
	nonNameRe        = regexp.MustCompile(`[^\p{Han}a-zA-Z0-9]`)
)

// Canonicalize strips parenthetical decorations (both widths), #123-style
// ID suffixes, and every character outside CJK ideographs and ASCII
// alphanumerics. The result of canonicalizing twice equals canonicalizing
// once.
func Canonicalize(raw string) CanonicalName {
	s := fullWidthParenRe.ReplaceAllString(raw, "")
	s = halfWidthParenRe.ReplaceAllString(s, "")
	s = idTagRe.ReplaceAllString(s, "")
	s = nonNameRe.ReplaceAllString(s, "")
	return CanonicalName(strings.TrimSpace(s))
}

// Matches reports whether two canonical names identify the same player.
// Empty canonical forms never match anything; a fully-symbolic garbage name
// must not collide with another one.
func (n CanonicalName) Matches(other CanonicalName) bool {
	return n != "" && n == other
}

// SamePlayer is the display-name convenience form of Matches.
func SamePlayer(a, b string) bool {
	return Canonicalize(a).Matches(Canonicalize(b))
}
