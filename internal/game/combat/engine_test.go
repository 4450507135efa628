package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/avalore-rpg/avasim/internal/game/dice"
	"github.com/avalore-rpg/avasim/internal/game/grid"
	"github.com/avalore-rpg/avasim/internal/game/item"
	"github.com/avalore-rpg/avasim/internal/game/participant"
)

// script replays a fixed sequence of die faces. It panics when exhausted so
// a miscounted test fails loudly.
type script struct {
	faces []int
	i     int
}

func (s *script) Intn(n int) int {
	if s.i >= len(s.faces) {
		panic("scripted dice source exhausted")
	}
	f := s.faces[s.i]
	s.i++
	if f > n {
		panic("scripted face exceeds die size")
	}
	return f - 1
}

// faces builds a Source producing exactly the given die faces in order.
func faces(f ...int) dice.Source { return &script{faces: f} }

// initiativeFaces puts the first-listed participant first in the order:
// 19 for A, 3 for B.
var initiativeFaces = []int{10, 9, 2, 1}

func trainingSword() *item.WeaponDef {
	return &item.WeaponDef{Name: "Training Sword", Damage: 4, ActionCost: 1, Range: item.RangeMelee}
}

func fighter(name, side string, weapon *item.WeaponDef) *participant.Participant {
	p := participant.New(name, side, participant.NewAttributes(), 20, 5)
	p.MainWeapon = weapon
	return p
}

// buildEngine places a and b on a fresh 40x40 grid and constructs an engine
// around them. It takes rapid.TB so property tests can reuse it.
func buildEngine(t rapid.TB, src dice.Source, opts Options,
	a, b *participant.Participant, pa, pb grid.Position) *Engine {
	t.Helper()
	battle, err := grid.NewMap(40, 40)
	require.NoError(t, err)
	require.NoError(t, battle.Place(a.ID.String(), pa))
	require.NoError(t, battle.Place(b.ID.String(), pb))
	e, err := New(battle, []*participant.Participant{a, b}, nil, src, opts)
	require.NoError(t, err)
	return e
}

// startedDuel returns an in-progress engine with a acting first, adjacent
// to b. Extra faces follow the initiative rolls.
func startedDuel(t *testing.T, extra ...int) (*Engine, *participant.Participant, *participant.Participant) {
	t.Helper()
	a := fighter("Aldric", "blue", trainingSword())
	b := fighter("Berrin", "red", trainingSword())
	e := buildEngine(t, faces(append(append([]int{}, initiativeFaces...), extra...)...), Options{},
		a, b, grid.Position{X: 0, Y: 0}, grid.Position{X: 1, Y: 0})
	require.NoError(t, e.RollInitiative())
	return e, a, b
}

func TestNewRejectsBadSetups(t *testing.T) {
	battle, err := grid.NewMap(10, 10)
	require.NoError(t, err)
	a := fighter("Aldric", "blue", trainingSword())
	b := fighter("Berrin", "red", trainingSword())

	_, err = New(battle, []*participant.Participant{a}, nil, faces(), Options{})
	assert.Error(t, err, "one participant")

	_, err = New(battle, []*participant.Participant{a, b}, nil, faces(), Options{})
	assert.Error(t, err, "participants not placed")

	require.NoError(t, battle.Place(a.ID.String(), grid.Position{X: 0, Y: 0}))
	require.NoError(t, battle.Place(b.ID.String(), grid.Position{X: 1, Y: 0}))
	b.Side = "blue"
	_, err = New(battle, []*participant.Participant{a, b}, nil, faces(), Options{})
	assert.Error(t, err, "single side")
}

func TestRollInitiativeOrdersDescending(t *testing.T) {
	e, a, _ := startedDuel(t)

	current, err := e.CurrentParticipant()
	require.NoError(t, err)
	assert.Same(t, a, current)
	assert.Equal(t, StateInProgress, e.State())
	assert.Equal(t, 1, e.Round())
	assert.Equal(t, 2, current.Actions(), "first participant's turn has started")
}

func TestRollInitiativePrimesEveryBudget(t *testing.T) {
	// Participants later in the order carry a full budget before their
	// first turn, so limited-action reactions can fire in round 1.
	_, _, b := startedDuel(t)

	assert.Equal(t, 2, b.Actions())
	assert.Equal(t, 1, b.LimitedActions())
	assert.Equal(t, participant.BaseMovement, b.Movement())
}

func TestRollInitiativeTieRerollsOnlyTiedSubset(t *testing.T) {
	a := fighter("Aldric", "blue", trainingSword())
	b := fighter("Berrin", "red", trainingSword())
	// Both roll 10; the re-roll gives A 11 and B 4.
	e := buildEngine(t, faces(5, 5, 6, 4, 10, 1, 2, 2), Options{},
		a, b, grid.Position{X: 0, Y: 0}, grid.Position{X: 1, Y: 0})
	require.NoError(t, e.RollInitiative())

	current, err := e.CurrentParticipant()
	require.NoError(t, err)
	assert.Same(t, a, current)
}

func TestRollInitiativeTwiceFails(t *testing.T) {
	e, _, _ := startedDuel(t)
	assert.ErrorIs(t, e.RollInitiative(), ErrValidation)
}

func TestCurrentParticipantBeforeStartFails(t *testing.T) {
	a := fighter("Aldric", "blue", trainingSword())
	b := fighter("Berrin", "red", trainingSword())
	e := buildEngine(t, faces(), Options{}, a, b, grid.Position{X: 0, Y: 0}, grid.Position{X: 1, Y: 0})

	_, err := e.CurrentParticipant()
	assert.ErrorIs(t, err, ErrNotInProgress)
	assert.ErrorIs(t, e.AdvanceTurn(), ErrNotInProgress)
}

func TestAdvanceTurnWrapsAndCountsRounds(t *testing.T) {
	e, a, b := startedDuel(t)

	require.NoError(t, e.AdvanceTurn())
	current, _ := e.CurrentParticipant()
	assert.Same(t, b, current)
	assert.Equal(t, 1, e.Round())

	require.NoError(t, e.AdvanceTurn())
	current, _ = e.CurrentParticipant()
	assert.Same(t, a, current)
	assert.Equal(t, 2, e.Round())
}

func TestAdvanceTurnSkipsEliminated(t *testing.T) {
	a := fighter("Aldric", "blue", trainingSword())
	b := fighter("Berrin", "red", trainingSword())
	c := fighter("Corvin", "red", trainingSword())
	battle, err := grid.NewMap(10, 10)
	require.NoError(t, err)
	require.NoError(t, battle.Place(a.ID.String(), grid.Position{X: 0, Y: 0}))
	require.NoError(t, battle.Place(b.ID.String(), grid.Position{X: 1, Y: 0}))
	require.NoError(t, battle.Place(c.ID.String(), grid.Position{X: 2, Y: 0}))
	// Initiative: A 19, B 9, C 3.
	e, err := New(battle, []*participant.Participant{a, b, c}, nil,
		faces(10, 9, 5, 4, 2, 1), Options{})
	require.NoError(t, err)
	require.NoError(t, e.RollInitiative())

	b.Eliminate()
	require.NoError(t, e.AdvanceTurn())
	current, _ := e.CurrentParticipant()
	assert.Same(t, c, current, "eliminated participant is skipped")
}

func TestCombatEndsWhenOneSideRemains(t *testing.T) {
	e, _, b := startedDuel(t)

	b.Eliminate()
	require.NoError(t, e.AdvanceTurn())

	assert.True(t, e.IsEnded())
	assert.Equal(t, "blue", e.Winner())
	assert.ErrorIs(t, e.AdvanceTurn(), ErrNotInProgress)
}

func TestMaxRoundsEndsInDraw(t *testing.T) {
	a := fighter("Aldric", "blue", trainingSword())
	b := fighter("Berrin", "red", trainingSword())
	e := buildEngine(t, faces(initiativeFaces...), Options{MaxRounds: 1},
		a, b, grid.Position{X: 0, Y: 0}, grid.Position{X: 1, Y: 0})
	require.NoError(t, e.RollInitiative())

	require.NoError(t, e.AdvanceTurn()) // to B, still round 1
	require.NoError(t, e.AdvanceTurn()) // wrap exceeds max rounds

	assert.True(t, e.IsEnded())
	assert.Equal(t, "", e.Winner())
	log := e.Log()
	require.NotEmpty(t, log)
	assert.Equal(t, OutcomeDraw, log[len(log)-1].Outcome)
}

func TestLogIsACopy(t *testing.T) {
	e, _, _ := startedDuel(t)
	log := e.Log()
	require.NotEmpty(t, log)
	log[0].Actor = "tampered"
	assert.NotEqual(t, "tampered", e.Log()[0].Actor)
}
