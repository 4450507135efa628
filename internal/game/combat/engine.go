// Package combat implements the turn-based combat engine: initiative and
// turn order, action resolution (attack, cast, move, feats), rule
// interactions, and the structured combat log. One Engine owns one session
// and its participants; all mutation happens synchronously inside a single
// operation call.
package combat

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avalore-rpg/avasim/internal/game/dice"
	"github.com/avalore-rpg/avasim/internal/game/feat"
	"github.com/avalore-rpg/avasim/internal/game/grid"
	"github.com/avalore-rpg/avasim/internal/game/participant"
	"github.com/avalore-rpg/avasim/internal/game/spell"
)

// Fixed check thresholds of the ruleset.
const (
	// HitThreshold is the passive defense an accuracy total must meet.
	HitThreshold = 12
	// CriticalBonus is the flat damage added on a double-10 critical.
	CriticalBonus = 2
	// DeathSaveDC is the target for the once-per-scene death save.
	DeathSaveDC = 12
	// DefaultMaxRounds ends a combat in a draw if no side has won by then.
	DefaultMaxRounds = 20
)

// State is the lifecycle of a combat session.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateEnded      State = "ended"
)

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	BlockPolicy BlockPolicy
	Overcast    OvercastPolicy
	MaxRounds   int
	Logger      *zap.Logger
}

// Engine drives one combat session. It exclusively owns its participants
// and grid for the session's duration; operations take participant IDs, not
// ambient references. Not safe for concurrent use.
type Engine struct {
	state  State
	battle *grid.Map
	parts  []*participant.Participant
	byID   map[uuid.UUID]*participant.Participant

	order   []*participant.Participant
	current int
	round   int

	roller *dice.Roller
	spells *spell.Catalog

	blockPolicy BlockPolicy
	overcast    OvercastPolicy
	maxRounds   int
	logger      *zap.Logger

	entries []Entry
	winner  string
}

// New creates an Engine over a prepared battle grid and participant list.
//
// Precondition: every participant is already placed on the grid (by its
// ID string) and parts contains at least two participants on at least two
// sides; src must be non-nil.
// Postcondition: Returns a session in StateNotStarted, or an error naming
// the first violated precondition.
func New(battle *grid.Map, parts []*participant.Participant, spells *spell.Catalog, src dice.Source, opts Options) (*Engine, error) {
	if len(parts) < 2 {
		return nil, fmt.Errorf("combat: need at least two participants, got %d", len(parts))
	}
	sides := make(map[string]bool)
	byID := make(map[uuid.UUID]*participant.Participant, len(parts))
	for _, p := range parts {
		pos, ok := battle.PositionOf(p.ID.String())
		if !ok {
			return nil, fmt.Errorf("combat: participant %s is not placed on the grid", p.Name)
		}
		p.Position = pos
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("combat: duplicate participant ID %s", p.ID)
		}
		byID[p.ID] = p
		sides[p.Side] = true
	}
	if len(sides) < 2 {
		return nil, fmt.Errorf("combat: need at least two sides, got %d", len(sides))
	}
	if opts.BlockPolicy == "" {
		opts.BlockPolicy = BlockAlwaysNegates
	}
	if opts.Overcast == nil {
		opts.Overcast = DefaultOvercastPolicy()
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if spells == nil {
		spells = spell.DefaultCatalog()
	}
	return &Engine{
		state:       StateNotStarted,
		battle:      battle,
		parts:       parts,
		byID:        byID,
		roller:      dice.NewLoggedRoller(src, opts.Logger),
		spells:      spells,
		blockPolicy: opts.BlockPolicy,
		overcast:    opts.Overcast,
		maxRounds:   opts.MaxRounds,
		logger:      opts.Logger,
	}, nil
}

// State returns the session lifecycle state.
func (e *Engine) State() State { return e.state }

// Round returns the current round number (1-based once in progress).
func (e *Engine) Round() int { return e.round }

// Winner returns the winning side once the session has ended, or "" for a
// draw or an unfinished session.
func (e *Engine) Winner() string { return e.winner }

// IsEnded reports whether the session has ended.
func (e *Engine) IsEnded() bool { return e.state == StateEnded }

// Participants returns the session's participant list in creation order.
func (e *Engine) Participants() []*participant.Participant { return e.parts }

func (e *Engine) find(id uuid.UUID) (*participant.Participant, error) {
	p, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("unknown participant %s: %w", id, ErrValidation)
	}
	return p, nil
}

func (e *Engine) requireInProgress() error {
	if e.state != StateInProgress {
		return fmt.Errorf("session is %s: %w", e.state, ErrNotInProgress)
	}
	return nil
}

type initiativeEntry struct {
	p        *participant.Participant
	modifier int
	total    int
}

// RollInitiative rolls 2d10 + Dexterity:Acrobatics (+ feat bonuses) for
// every participant, orders them descending, and starts the first turn.
// Ties are broken by re-rolling only the tied subset until resolved.
//
// Postcondition: on success the session is InProgress, round 1, and the
// first participant's turn has started.
func (e *Engine) RollInitiative() error {
	if e.state != StateNotStarted {
		return fmt.Errorf("initiative already rolled (session %s): %w", e.state, ErrValidation)
	}
	entries := make([]initiativeEntry, 0, len(e.parts))
	for _, p := range e.parts {
		mod := p.Modifier("Dexterity", "Acrobatics") +
			feat.Bonus(p.Feats(), feat.TriggerInitiative, p.FeatContext())
		c := e.roller.Check(mod)
		e.appendLog(Entry{
			Actor:  p.Name,
			Action: ActionInitiative,
			Rolls:  []dice.RollResult{c.Result()},
			Modifiers: map[string]int{
				"dexterity_acrobatics": p.Modifier("Dexterity", "Acrobatics"),
				"feats":                mod - p.Modifier("Dexterity", "Acrobatics"),
			},
			Detail: fmt.Sprintf("initiative %d", c.Total()),
		})
		entries = append(entries, initiativeEntry{p: p, modifier: mod, total: c.Total()})
	}
	e.order = e.resolveInitiative(entries)
	e.state = StateInProgress
	e.round = 1
	e.current = 0
	// Every participant carries a full budget from combat start, so
	// reactions that spend a limited action can fire before the owner's
	// first turn.
	for _, p := range e.order {
		p.ResetTurn()
	}
	e.order[0].StartTurn()
	e.appendLog(Entry{Actor: e.order[0].Name, Action: ActionTurnStart})
	e.logger.Info("combat started",
		zap.Int("participants", len(e.parts)),
		zap.String("first", e.order[0].Name))
	return nil
}

// resolveInitiative orders entries descending by total, re-rolling tied
// subsets (with their original modifiers) until every tie is resolved.
func (e *Engine) resolveInitiative(entries []initiativeEntry) []*participant.Participant {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].total > entries[j].total })
	out := make([]*participant.Participant, 0, len(entries))
	for i := 0; i < len(entries); {
		j := i
		for j < len(entries) && entries[j].total == entries[i].total {
			j++
		}
		if j-i == 1 {
			out = append(out, entries[i].p)
		} else {
			tied := make([]initiativeEntry, 0, j-i)
			for _, en := range entries[i:j] {
				c := e.roller.Check(en.modifier)
				tied = append(tied, initiativeEntry{p: en.p, modifier: en.modifier, total: c.Total()})
			}
			out = append(out, e.resolveInitiative(tied)...)
		}
		i = j
	}
	return out
}

// CurrentParticipant returns the participant whose turn it is.
//
// Postcondition: returns ErrNotInProgress (wrapped) outside InProgress.
func (e *Engine) CurrentParticipant() (*participant.Participant, error) {
	if err := e.requireInProgress(); err != nil {
		return nil, err
	}
	return e.order[e.current], nil
}

// AdvanceTurn moves to the next living participant, wrapping to the start
// of the order and incrementing the round counter when the list is
// exhausted. Ends the session when at most one side has a living member, or
// in a draw when the max-round limit is reached.
func (e *Engine) AdvanceTurn() error {
	if err := e.requireInProgress(); err != nil {
		return err
	}
	if e.checkEnd() {
		return nil
	}
	for range e.order {
		e.current++
		if e.current >= len(e.order) {
			e.current = 0
			e.round++
			if e.round > e.maxRounds {
				e.endSession("", OutcomeDraw, "max rounds reached")
				return nil
			}
		}
		p := e.order[e.current]
		if !p.Alive() {
			continue
		}
		p.StartTurn()
		e.appendLog(Entry{Actor: p.Name, Action: ActionTurnStart})
		return nil
	}
	e.endSession("", OutcomeDraw, "no living participants")
	return nil
}

// checkEnd transitions to Ended when at most one side still has a living
// member. Returns true if the session is (now) ended.
func (e *Engine) checkEnd() bool {
	if e.state == StateEnded {
		return true
	}
	alive := make(map[string]bool)
	for _, p := range e.parts {
		if p.Alive() {
			alive[p.Side] = true
		}
	}
	if len(alive) > 1 {
		return false
	}
	winner := ""
	for side := range alive {
		winner = side
	}
	outcome := OutcomeVictory
	if winner == "" {
		outcome = OutcomeDraw
	}
	e.endSession(winner, outcome, "one side remaining")
	return true
}

func (e *Engine) endSession(winner, outcome, detail string) {
	e.state = StateEnded
	e.winner = winner
	e.appendLog(Entry{Actor: winner, Action: ActionCombatEnd, Outcome: outcome, Detail: detail})
	e.logger.Info("combat ended",
		zap.String("winner", winner),
		zap.String("outcome", outcome),
		zap.Int("rounds", e.round))
}

// eliminate finalizes a participant's removal from the session.
func (e *Engine) eliminate(p *participant.Participant) {
	e.battle.Remove(p.ID.String())
	e.appendLog(Entry{Actor: p.Name, Action: ActionElimination, Outcome: OutcomeEliminated,
		Detail: fmt.Sprintf("%s is out of the fight", p.Name)})
}
