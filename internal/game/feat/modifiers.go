package feat

import "strings"

// Context carries the situational facts effect requirements are evaluated
// against. The engine fills in what it knows at each trigger point; zero
// values mean "not the case".
type Context struct {
	// SingleWielding is true when the holder wields one one-handed weapon
	// with no off-hand weapon and no shield.
	SingleWielding bool
	// HeavyArmor is true when the holder wears heavy-tier armor.
	HeavyArmor bool
	// RangedAttack is true when the attack being resolved is ranged.
	RangedAttack bool
	// FirstTurn is true during the holder's first turn of the scene.
	FirstTurn bool
	// HasFeat reports whether the holder also holds the named feat.
	HasFeat func(id string) bool
	// Modifier resolves a "Stat:Skill" pair to the holder's combined value.
	Modifier func(stat, skill string) int
}

// satisfied reports whether a single requirement token holds in this context.
func (c Context) satisfied(req string) bool {
	switch req {
	case "single_wield":
		return c.SingleWielding
	case "no_heavy_armor":
		return !c.HeavyArmor
	case "vs_melee":
		return !c.RangedAttack
	case "vs_ranged":
		return c.RangedAttack
	case "first_turn":
		return c.FirstTurn
	}
	if id, ok := strings.CutPrefix(req, "unless_feat:"); ok {
		return c.HasFeat == nil || !c.HasFeat(id)
	}
	// Unknown requirements never hold; a typo disables the effect rather
	// than silently granting it.
	return false
}

// Amount evaluates one def's total magnitude for a trigger in the given
// context. All matching effects whose requirements hold are summed;
// AmountStat contributions use ctx.Modifier when available.
func Amount(def *Def, trigger Trigger, ctx Context) int {
	total := 0
	for _, e := range def.Effects {
		if e.Trigger != trigger {
			continue
		}
		ok := true
		for _, req := range e.Requires {
			if !ctx.satisfied(req) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		total += e.Amount
		if e.AmountStat != "" && ctx.Modifier != nil {
			parts := strings.SplitN(e.AmountStat, ":", 2)
			if len(parts) == 2 {
				total += ctx.Modifier(parts[0], parts[1])
			}
		}
	}
	return total
}

// Bonus sums the passive magnitudes for a trigger across all of a holder's
// feats. Active and limited feats are skipped: the engine applies those
// explicitly when the holder spends the action for them.
func Bonus(defs []*Def, trigger Trigger, ctx Context) int {
	total := 0
	for _, d := range defs {
		if d.Kind != KindPassive {
			continue
		}
		total += Amount(d, trigger, ctx)
	}
	return total
}
