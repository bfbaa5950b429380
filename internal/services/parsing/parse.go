package parsing

import (
	"regexp"
	"strings"
)

// Event is one extracted kill: who shot, who dropped, and the mode tag the
// line carried (empty when the tag was absent or garbled away).
type Event struct {
	Attacker CanonicalName
	Victim   CanonicalName
	Weapon   string
	Mode     string
}

var idTokenRe = regexp.MustCompile(`([\p{Han}a-zA-Z0-9]+)\(#\d+\)`)

// Parser extracts events from classified lines. A line that is missing any
// required marker yields no event and no error; dropping unparseable lines
// is the intended recall/precision trade-off for noisy OCR input.
type Parser struct {
	vocab *Vocabulary
}

func NewParser(vocab *Vocabulary) *Parser {
	return &Parser{vocab: vocab}
}

// Parse extracts a single event from one candidate line.
func (p *Parser) Parse(line string) (Event, bool) {
	row := StripSpaces(line)

	mode := extractTrailingMode(row)
	row = TrimGarbledModeTag(row)

	if p.vocab.MatchWeapon(row) == "" {
		return Event{}, false
	}

	// Prefer the ID-token strategy when the stricter log format applies:
	// two name(#123) tokens identify attacker and victim directly.
	if ev, ok := p.parseIDTokens(row, mode); ok {
		return ev, true
	}
	return p.parsePositional(row, mode)
}

// ParseAll runs Parse over every candidate line, keeping original order.
func (p *Parser) ParseAll(lines []string) []Event {
	var events []Event
	for _, l := range lines {
		if ev, ok := p.Parse(l); ok {
			events = append(events, ev)
		}
	}
	return events
}

func (p *Parser) parseIDTokens(row, mode string) (Event, bool) {
	tokens := idTokenRe.FindAllStringSubmatch(row, 3)
	if len(tokens) < 2 {
		return Event{}, false
	}
	attacker := Canonicalize(tokens[0][1])
	victim := Canonicalize(p.trimActionPrefix(tokens[1][1]))
	if attacker == "" || victim == "" {
		return Event{}, false
	}
	return Event{
		Attacker: attacker,
		Victim:   victim,
		Weapon:   p.vocab.MatchWeapon(row),
		Mode:     mode,
	}, true
}

// trimActionPrefix cuts the used-marker/weapon/kill-verb run off the front
// of a victim token. The name run preceding (#456) greedily absorbs
// 使用AK47擊殺, so everything up to the right-most action marker goes.
func (p *Parser) trimActionPrefix(name string) string {
	if idx := strings.LastIndex(name, p.vocab.UsedMarker); idx >= 0 {
		name = name[idx+len(p.vocab.UsedMarker):]
	}
	for _, verb := range p.vocab.KillVerbs {
		if idx := strings.LastIndex(name, verb); idx >= 0 {
			name = name[idx+len(verb):]
		}
	}
	return name
}

// parsePositional takes the text before 使用 as the attacker and the text
// after the kill verb as the victim. When several verb variants appear, the
// right-most one wins, and the victim offset honours that verb's own length
// rather than a fixed two characters.
func (p *Parser) parsePositional(row, mode string) (Event, bool) {
	useIdx := strings.Index(row, p.vocab.UsedMarker)
	if useIdx < 0 {
		return Event{}, false
	}

	killIdx := -1
	killVerb := ""
	for _, verb := range p.vocab.KillVerbs {
		if idx := strings.Index(row, verb); idx > killIdx {
			killIdx = idx
			killVerb = verb
		}
	}
	if killIdx < 0 {
		return Event{}, false
	}

	attacker := Canonicalize(row[:useIdx])
	victim := Canonicalize(row[killIdx+len(killVerb):])
	if attacker == "" || victim == "" {
		return Event{}, false
	}
	return Event{
		Attacker: attacker,
		Victim:   victim,
		Weapon:   p.vocab.MatchWeapon(row),
		Mode:     mode,
	}, true
}

func extractTrailingMode(row string) string {
	m := trailingModeRe.FindStringSubmatch(row)
	if m == nil {
		return ""
	}
	return m[1]
}
