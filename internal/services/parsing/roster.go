package parsing

// Roster is the read-only snapshot of known member display names taken at
// settlement time.
type Roster []string

// Contains reports whether the canonical name belongs to a known member.
// Each roster entry is canonicalized at comparison time: entries come from
// hand-maintained records and their formatting is not trustworthy enough to
// pre-compute keys.
func (r Roster) Contains(name CanonicalName) bool {
	for _, member := range r {
		if Canonicalize(member).Matches(name) {
			return true
		}
	}
	return false
}
