package combat

import "github.com/avalore-rpg/avasim/internal/game/dice"

// Action names used in log entries.
const (
	ActionInitiative  = "initiative"
	ActionTurnStart   = "turn_start"
	ActionAttack      = "attack"
	ActionCast        = "cast"
	ActionMove        = "move"
	ActionDash        = "dash"
	ActionStance      = "stance"
	ActionLift        = "lift"
	ActionFeat        = "feat"
	ActionDeathSave   = "death_save"
	ActionElimination = "elimination"
	ActionCombatEnd   = "combat_end"
)

// Outcome labels used in log entries and results.
const (
	OutcomeCritical        = "critical"
	OutcomeHit             = "hit"
	OutcomeGraze           = "graze"
	OutcomeMiss            = "miss"
	OutcomeBlocked         = "blocked"
	OutcomeEvaded          = "evaded"
	OutcomeCast            = "cast"
	OutcomeMiscast         = "miscast"
	OutcomeOvercastFailure = "overcast_failure"
	OutcomeSaved           = "saved"
	OutcomeEliminated      = "eliminated"
	OutcomeDraw            = "draw"
	OutcomeVictory         = "victory"
)

// Entry is one structured combat-log record. The accumulated sequence
// captures every roll and modifier, sufficient to reconstruct and display
// the encounter without re-simulating it.
type Entry struct {
	Round     int
	Actor     string
	Action    string
	Target    string
	Rolls     []dice.RollResult
	Modifiers map[string]int
	Outcome   string
	Damage    int
	Detail    string
}

func (e *Engine) appendLog(entry Entry) {
	entry.Round = e.round
	e.entries = append(e.entries, entry)
}

// Log returns the accumulated combat log in order.
//
// Postcondition: the returned slice is a copy; mutating it does not affect
// the session.
func (e *Engine) Log() []Entry {
	out := make([]Entry, len(e.entries))
	copy(out, e.entries)
	return out
}
