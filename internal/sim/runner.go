package sim

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/avalore-rpg/avasim/internal/game/combat"
	"github.com/avalore-rpg/avasim/internal/game/dice"
	"github.com/avalore-rpg/avasim/internal/game/feat"
	"github.com/avalore-rpg/avasim/internal/game/grid"
	"github.com/avalore-rpg/avasim/internal/game/item"
	"github.com/avalore-rpg/avasim/internal/game/participant"
	"github.com/avalore-rpg/avasim/internal/game/spell"
)

// maxBandDistance bounds the range-band scan when picking an approach
// direction; no weapon reaches past the ranged band's 30 blocks.
const maxBandDistance = 30

// turnActionGuard bounds picker iterations within one turn. A turn grants at
// most three standard actions plus movement, so the guard only trips if an
// operation silently stops progressing.
const turnActionGuard = 16

// Runner executes combats between roster loadouts. Participants are rebuilt
// from their loadouts for every combat, so a single Runner can drive a batch.
type Runner struct {
	Items      *item.Catalog
	Feats      *feat.Registry
	Spells     *spell.Catalog
	Source     dice.Source
	Options    combat.Options
	GridWidth  int
	GridHeight int
}

// Result is the outcome of a single combat. Winner is empty on a draw.
type Result struct {
	Winner string
	Rounds int
	Log    []combat.Entry
}

// Tally aggregates a batch of combats. Sample holds the first combat's
// result for replay.
type Tally struct {
	Combats int
	Wins    map[string]int
	Draws   int
	Sample  *Result
}

// RunOne builds fresh participants from the roster and plays a single combat
// to completion with the rule-based picker.
//
// Precondition: the roster must span at least two sides.
// Postcondition: Returns the combat result, or a non-nil error when the
// roster cannot be assembled or the combat cannot start.
func (r *Runner) RunOne(roster []Loadout) (*Result, error) {
	battle, err := grid.NewMap(r.GridWidth, r.GridHeight)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	parts := make([]*participant.Participant, 0, len(roster))
	spellbooks := make(map[uuid.UUID][]string, len(roster))
	sides := make(map[string]int)
	sideCounts := make(map[string]int)
	for _, l := range roster {
		p, err := Build(l, r.Items, r.Feats)
		if err != nil {
			return nil, err
		}
		if _, ok := sides[p.Side]; !ok {
			sides[p.Side] = len(sides)
		}
		pos := startPosition(battle, sides[p.Side], sideCounts[p.Side])
		sideCounts[p.Side]++
		if err := battle.Place(p.ID.String(), pos); err != nil {
			return nil, fmt.Errorf("sim: placing %s: %w", p.Name, err)
		}
		parts = append(parts, p)
		spellbooks[p.ID] = l.Spells
	}

	e, err := combat.New(battle, parts, r.Spells, r.Source, r.Options)
	if err != nil {
		return nil, err
	}
	if err := e.RollInitiative(); err != nil {
		return nil, err
	}

	for !e.IsEnded() {
		p, err := e.CurrentParticipant()
		if err != nil {
			break
		}
		r.takeTurn(e, p, spellbooks[p.ID])
		if e.IsEnded() {
			break
		}
		if err := e.AdvanceTurn(); err != nil {
			break
		}
	}

	return &Result{Winner: e.Winner(), Rounds: e.Round(), Log: e.Log()}, nil
}

// RunBatch plays n combats and tallies per-side wins and draws.
//
// Precondition: n >= 1.
func (r *Runner) RunBatch(n int, roster []Loadout) (*Tally, error) {
	tally := &Tally{Wins: make(map[string]int)}
	for i := 0; i < n; i++ {
		res, err := r.RunOne(roster)
		if err != nil {
			return nil, fmt.Errorf("sim: combat %d: %w", i+1, err)
		}
		tally.Combats++
		if res.Winner == "" {
			tally.Draws++
		} else {
			tally.Wins[res.Winner]++
		}
		if tally.Sample == nil {
			tally.Sample = res
		}
	}
	return tally, nil
}

// startPosition spreads each side along its own edge column, two rows apart.
func startPosition(battle *grid.Map, sideIdx, memberIdx int) grid.Position {
	x := 1
	if sideIdx > 0 {
		x = battle.Width() - 2
	}
	y := (battle.Height() / 2) + memberIdx*2
	if y >= battle.Height() {
		y = battle.Height() - 1 - memberIdx
	}
	if y < 0 {
		y = 0
	}
	return grid.Position{X: x, Y: y}
}

// takeTurn spends the current participant's resources with a fixed priority:
// resolve a pending death save, lift a two-action weapon, then attack, cast,
// or close distance until nothing legal remains.
func (r *Runner) takeTurn(e *combat.Engine, p *participant.Participant, spellbook []string) {
	if p.DeathSavePending() {
		if _, err := e.PerformDeathSave(p.ID); err != nil {
			return
		}
		if e.IsEnded() || p.HP == 0 {
			return
		}
	}

	w := p.MainWeapon
	if w != nil && w.RequiresLift() && !p.Lifted(w.Category) {
		_ = e.PerformLift(p.ID, w.Category)
	}

	for i := 0; i < turnActionGuard; i++ {
		target := nearestEnemy(e, p)
		if target == nil || e.IsEnded() {
			return
		}
		dist := grid.Distance(p.Position, target.Position)

		if w != nil && w.InRange(dist) &&
			(!w.RequiresLift() || p.Lifted(w.Category)) &&
			p.Actions() >= w.ActionCost {
			if _, err := e.PerformAttack(p.ID, target.ID); err != nil {
				return
			}
			continue
		}

		if name, def := r.pickSpell(p, spellbook, dist); def != nil {
			if _, err := e.PerformCastSpell(p.ID, name, target.ID); err != nil {
				return
			}
			continue
		}

		if !r.closeDistance(e, p, target, w) {
			return
		}
	}
}

// pickSpell returns the first affordable damage spell that reaches the
// target. The picker never overcasts on purpose.
func (r *Runner) pickSpell(p *participant.Participant, spellbook []string, dist int) (string, *spell.Def) {
	if r.Spells == nil {
		return "", nil
	}
	for _, name := range spellbook {
		def, ok := r.Spells.Get(name)
		if !ok || def.IsHealing() {
			continue
		}
		if def.InRange(dist) && p.Anima >= def.AnimaCost && p.Actions() >= def.ActionCost {
			return name, def
		}
	}
	return "", nil
}

// closeDistance walks one block at a time toward (or away from) the target
// until the weapon's range band is met, dashing when the budget runs dry.
// An unarmed-and-weaponless combatant closes to adjacency so spells stay in
// reach. Returns false when no progress was made.
func (r *Runner) closeDistance(e *combat.Engine, p, target *participant.Participant, w *item.WeaponDef) bool {
	progressed := false
	for {
		dist := grid.Distance(p.Position, target.Position)
		if inBand(w, dist) {
			return progressed
		}
		if p.Movement() == 0 {
			if p.Actions() == 0 || e.Dash(p.ID) != nil {
				return progressed
			}
			progressed = true
			continue
		}
		next := stepFor(p.Position, target.Position, w, dist)
		if next == p.Position || e.Move(p.ID, next) != nil {
			return progressed
		}
		progressed = true
	}
}

// inBand reports whether dist satisfies the weapon's range band, treating a
// missing weapon as wanting adjacency.
func inBand(w *item.WeaponDef, dist int) bool {
	if w == nil {
		return dist <= 1
	}
	return w.InRange(dist)
}

// stepFor picks the adjacent block that moves dist toward the weapon's
// nearest in-range distance: toward the target when too far, away when
// inside the band's minimum.
func stepFor(from, to grid.Position, w *item.WeaponDef, dist int) grid.Position {
	want := nearestInRange(w, dist)
	if want < 0 {
		return from
	}
	dir := 1 // close in
	if want > dist {
		dir = -1 // back off
	}
	return grid.Position{
		X: from.X + dir*sign(to.X-from.X),
		Y: from.Y + dir*sign(to.Y-from.Y),
	}
}

// nearestInRange scans outward from dist for the closest distance the weapon
// can attack at, or -1 if the weapon has no band within bounds.
func nearestInRange(w *item.WeaponDef, dist int) int {
	for delta := 0; delta <= maxBandDistance; delta++ {
		if d := dist - delta; d >= 0 && inBand(w, d) {
			return d
		}
		if d := dist + delta; d <= maxBandDistance && inBand(w, d) {
			return d
		}
	}
	return -1
}

func nearestEnemy(e *combat.Engine, p *participant.Participant) *participant.Participant {
	var best *participant.Participant
	bestDist := 0
	for _, other := range e.Participants() {
		if other.Side == p.Side || !other.Alive() {
			continue
		}
		d := grid.Distance(p.Position, other.Position)
		if best == nil || d < bestDist {
			best, bestDist = other, d
		}
	}
	return best
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
