package settlement

import "fmt"

// Award is the money side of a settlement outcome.
type Award struct {
	Money           int64
	DeathBonusCount int
	DeathBonusMoney int64
}

// RewardPolicy converts a tally into money. The formula changed several
// times over the system's life (deaths paid in some versions, flat mode
// bonuses in others), so it is a named, replaceable strategy instead of
// inline arithmetic in the pipeline.
type RewardPolicy interface {
	Name() string
	Award(t Tally) Award
}

// Rates carries the configurable amounts the policies draw from.
type Rates struct {
	PerKill       int64
	PerDeath      int64
	DeathBonusCap int
	ModeBonus     int64
	BonusMode     string
}

// DefaultRates matches the longest-lived historical version.
func DefaultRates() Rates {
	return Rates{
		PerKill:       100000,
		PerDeath:      50000,
		DeathBonusCap: 5,
		ModeBonus:     200000,
		BonusMode:     "搶旗",
	}
}

// KillsOnlyPolicy: reward = kills × per-kill rate. The original rule.
type KillsOnlyPolicy struct {
	PerKill int64
}

func (KillsOnlyPolicy) Name() string { return "kills-only" }

func (p KillsOnlyPolicy) Award(t Tally) Award {
	return Award{Money: int64(t.Kills) * p.PerKill}
}

// DeathBonusPolicy additionally pays a per-death consolation, capped per
// submission day.
type DeathBonusPolicy struct {
	PerKill  int64
	PerDeath int64
	Cap      int
}

func (DeathBonusPolicy) Name() string { return "death-bonus" }

func (p DeathBonusPolicy) Award(t Tally) Award {
	bonusCount := t.Deaths
	if bonusCount > p.Cap {
		bonusCount = p.Cap
	}
	bonusMoney := int64(bonusCount) * p.PerDeath
	return Award{
		Money:           int64(t.Kills)*p.PerKill + bonusMoney,
		DeathBonusCount: bonusCount,
		DeathBonusMoney: bonusMoney,
	}
}

// ModeBonusPolicy pays a flat participation bonus when the settled mode
// matches the configured one.
type ModeBonusPolicy struct {
	PerKill   int64
	Bonus     int64
	BonusMode string
}

func (ModeBonusPolicy) Name() string { return "mode-bonus" }

func (p ModeBonusPolicy) Award(t Tally) Award {
	money := int64(t.Kills) * p.PerKill
	if p.BonusMode != "" && t.Mode == p.BonusMode {
		money += p.Bonus
	}
	return Award{Money: money}
}

// PolicyByName resolves the configured policy version.
func PolicyByName(name string, r Rates) (RewardPolicy, error) {
	switch name {
	case "", "kills-only":
		return KillsOnlyPolicy{PerKill: r.PerKill}, nil
	case "death-bonus":
		return DeathBonusPolicy{PerKill: r.PerKill, PerDeath: r.PerDeath, Cap: r.DeathBonusCap}, nil
	case "mode-bonus":
		return ModeBonusPolicy{PerKill: r.PerKill, Bonus: r.ModeBonus, BonusMode: r.BonusMode}, nil
	default:
		return nil, fmt.Errorf("unknown reward policy %q", name)
	}
}

// MoneyText renders an amount the way members read it in chat: 10000 and
// above in 萬 units with a W suffix.
func MoneyText(amount int64) string {
	if amount >= 10000 && amount%10000 == 0 {
		return fmt.Sprintf("%dW", amount/10000)
	}
	if amount >= 10000 {
		return fmt.Sprintf("%.1fW", float64(amount)/10000)
	}
	return fmt.Sprintf("%d", amount)
}
