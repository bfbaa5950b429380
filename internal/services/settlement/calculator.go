package settlement

import "guild-settlement-backend/internal/services/parsing"

// Tally is the per-uploader aggregation of one screenshot's events.
type Tally struct {
	Kills    int
	Deaths   int
	Mistakes int
	// Mode is the first counted event's mode tag; one screenshot settles
	// one game mode.
	Mode string
}

// Calculator folds parsed events into kill/death/mistake counters for the
// uploading player.
type Calculator struct {
	vocab *parsing.Vocabulary
}

func NewCalculator(vocab *parsing.Vocabulary) *Calculator {
	return &Calculator{vocab: vocab}
}

// Tabulate walks events in original line order. Events the uploader is not
// part of are ignored; events whose mode tag is outside the allow-list
// never count.
func (c *Calculator) Tabulate(events []parsing.Event, uploader parsing.CanonicalName, roster parsing.Roster) Tally {
	var t Tally
	for _, ev := range events {
		if !c.vocab.AllowsMode(ev.Mode) {
			continue
		}

		attackerIsUploader := ev.Attacker.Matches(uploader)
		victimIsUploader := ev.Victim.Matches(uploader)
		if !attackerIsUploader && !victimIsUploader {
			continue
		}

		if attackerIsUploader {
			if roster.Contains(ev.Victim) {
				t.Mistakes++
			} else {
				t.Kills++
			}
		}
		if victimIsUploader {
			t.Deaths++
		}

		if t.Mode == "" && ev.Mode != "" {
			t.Mode = ev.Mode
		}
	}
	return t
}
