package progression

import "github.com/fastygo/hunter/domain"

// XPPerLevel is the fixed size of every level.
const XPPerLevel = 3000

// XP is the engine-owned XP triple of a profile.
type XP struct {
	TotalXP   int `json:"total_xp"`
	CurrentXP int `json:"current_xp"`
	Level     int `json:"level"`
}

// XPOf extracts the XP triple of a profile.
func XPOf(p domain.Profile) XP {
	return XP{TotalXP: p.TotalXP, CurrentXP: p.CurrentXP, Level: p.Level}
}

// WithXP returns p carrying the XP triple x.
func WithXP(p domain.Profile, x XP) domain.Profile {
	p.TotalXP = x.TotalXP
	p.CurrentXP = x.CurrentXP
	p.Level = x.Level
	return p
}

// ValidateAmount rejects amounts Award and Revoke are not defined for.
func ValidateAmount(amount int) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	return nil
}

// LevelForTotal returns floor(total / XPPerLevel) + 1, never below 1.
func LevelForTotal(total int) int {
	if total < 0 {
		return 1
	}
	return total/XPPerLevel + 1
}

// CurrentForTotal returns the progress inside the level reached with total.
func CurrentForTotal(total int) int {
	if total < 0 {
		return 0
	}
	return total % XPPerLevel
}

// Award adds amount to x. The current level XP moves incrementally and the
// level is only recomputed from the total once a level boundary is reached,
// which also covers jumps across several levels.
func Award(x XP, amount int) XP {
	total := x.TotalXP + amount
	current := x.CurrentXP + amount
	level := x.Level

	if current >= XPPerLevel {
		level = total/XPPerLevel + 1
		current = total % XPPerLevel
	}

	return XP{TotalXP: total, CurrentXP: current, Level: level}
}

// Revoke removes amount from x. The total is floored at zero and both the
// level and the current level XP are derived again from the new total.
func Revoke(x XP, amount int) XP {
	total := x.TotalXP - amount
	if total < 0 {
		total = 0
	}

	level := total/XPPerLevel + 1
	current := total % XPPerLevel
	if level < 1 {
		level = 1
		current = max(0, total)
	}

	return XP{TotalXP: total, CurrentXP: current, Level: level}
}

// Reconcile derives current XP and level from the total alone.
func Reconcile(x XP) XP {
	total := max(0, x.TotalXP)
	return XP{TotalXP: total, CurrentXP: CurrentForTotal(total), Level: LevelForTotal(total)}
}

// Consistent reports whether x satisfies the level invariant.
func Consistent(x XP) bool {
	return x == Reconcile(x)
}

// ProgressPercent is the share of the current level already earned, 0..100.
func ProgressPercent(x XP) float64 {
	return float64(x.CurrentXP) / float64(XPPerLevel) * 100
}
