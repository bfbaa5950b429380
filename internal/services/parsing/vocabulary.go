package parsing

import (
	"sort"
	"strings"
)

// Vocabulary holds the token sets the classifier and parser work against.
// The weapon list and kill-verb set grow over time as new OCR misreadings
// show up, so everything here is injectable rather than hard-coded at the
// call sites.
type Vocabulary struct {
	// UsedMarker separates the attacker name from the weapon name.
	UsedMarker string

	// KillVerbs are matched during extraction, longest first. The
	// single-character entries are common OCR look-alikes for 擊殺.
	KillVerbs []string

	// VerbSignals are the cheaper per-line presence checks used by the
	// classifier. 擊 alone is enough of a signal there.
	VerbSignals []string

	// Weapons is the closed weapon-name list, kept sorted longest first
	// so that 重型狙擊槍 wins over 狙擊槍.
	Weapons []string

	// Modes is the allow-list of game modes that count as settlement
	// evidence.
	Modes []string
}

var defaultWeapons = []string{
	"手槍", "戰鬥手槍", "重型手槍", "小型衝鋒槍", "削短型霰彈槍",
	"衝鋒槍", "突擊步槍", "卡賓步槍", "射手步槍", "雙管霰彈霰彈槍",
	"重型左輪手槍", "突擊衝鋒槍", "高階步槍", "狙擊槍", "煙火發射器",
	"0.5口徑手槍", "戰鬥自衛衝鋒槍", "衝鋒手槍", "射手手槍", "泵動式霰彈槍",
	"迷你衝鋒槍", "古森柏衝鋒槍", "衝鋒霰彈槍", "射手步槍MKII", "重型狙擊槍",
	"戰鬥機關槍MKII", "戰鬥機關槍MkII", "戰鬥機關槍Mkii", "戰鬥機關槍MKIl", "戰鬥機關槍MkIl",
	"特製卡賓步槍",
	"穿甲手槍",
}

func DefaultVocabulary() *Vocabulary {
	v := &Vocabulary{
		UsedMarker:  "使用",
		KillVerbs:   []string{"擊殺", "杀", "㑆", "㓥", "㯜"},
		VerbSignals: []string{"擊", "杀", "㑆", "㓥", "㯜"},
		Modes:       []string{"搶旗", "槍戰區", "PK"},
	}
	v.AddWeapons(defaultWeapons...)
	return v
}

// AddWeapons appends weapon names and re-sorts the list longest first.
func (v *Vocabulary) AddWeapons(names ...string) {
	for _, n := range names {
		if n != "" {
			v.Weapons = append(v.Weapons, n)
		}
	}
	sort.SliceStable(v.Weapons, func(i, j int) bool {
		return len(v.Weapons[i]) > len(v.Weapons[j])
	})
}

// AddKillVerbs appends extraction verbs, longest first, and registers each
// as a classifier signal as well.
func (v *Vocabulary) AddKillVerbs(verbs ...string) {
	for _, verb := range verbs {
		if verb == "" {
			continue
		}
		v.KillVerbs = append(v.KillVerbs, verb)
		v.VerbSignals = append(v.VerbSignals, verb)
	}
	sort.SliceStable(v.KillVerbs, func(i, j int) bool {
		return len(v.KillVerbs[i]) > len(v.KillVerbs[j])
	})
}

func (v *Vocabulary) AddModes(modes ...string) {
	for _, m := range modes {
		if m != "" {
			v.Modes = append(v.Modes, m)
		}
	}
}

// MatchWeapon returns the first (longest) vocabulary weapon contained in
// the line, or "" when none match.
func (v *Vocabulary) MatchWeapon(line string) string {
	for _, w := range v.Weapons {
		if containsToken(line, w) {
			return w
		}
	}
	return ""
}

// AllowsMode reports whether a parsed mode tag counts as settlement
// evidence. Lines without any mode tag are allowed through; the stricter
// classifier variant is the place to require the tag itself.
func (v *Vocabulary) AllowsMode(mode string) bool {
	if mode == "" {
		return true
	}
	for _, m := range v.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

func containsToken(line, tok string) bool {
	return tok != "" && strings.Contains(line, tok)
}
