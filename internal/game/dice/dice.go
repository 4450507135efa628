// Package dice provides the core randomness abstraction and roll-result types
// for the Avalore combat engine.
package dice

import "fmt"

// CheckSides is the die used by the ruleset's standard check (2d10).
const CheckSides = 10

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d10+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d10+3 → [4 5] +3 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	diceStr := fmt.Sprintf("%v", r.Dice)
	modStr := fmt.Sprintf("%+d", r.Modifier)
	return fmt.Sprintf("%s → %s %s = %d", r.Expression, diceStr, modStr, r.Total())
}

// Check is the ruleset's standard 2d10 check: two dice plus a flat modifier.
type Check struct {
	Dice     [2]int
	Modifier int
}

// Total returns both dice plus the modifier.
func (c Check) Total() int { return c.Dice[0] + c.Dice[1] + c.Modifier }

// CriticalPair reports whether both dice show the maximum face (10).
// This is the automatic-hit signal in attack resolution.
func (c Check) CriticalPair() bool {
	return c.Dice[0] == CheckSides && c.Dice[1] == CheckSides
}

// FumblePair reports whether both dice show 1. Reserved for future rules;
// no current resolution path consumes it.
func (c Check) FumblePair() bool {
	return c.Dice[0] == 1 && c.Dice[1] == 1
}

// Result converts the check into a RollResult for logging.
//
// Postcondition: Result().Total() == c.Total().
func (c Check) Result() RollResult {
	expr := "2d10"
	if c.Modifier != 0 {
		expr = fmt.Sprintf("2d10%+d", c.Modifier)
	}
	return RollResult{Expression: expr, Dice: []int{c.Dice[0], c.Dice[1]}, Modifier: c.Modifier}
}

// RollCheck rolls the standard 2d10 check with the given flat modifier.
//
// Precondition: src must be non-nil.
// Postcondition: both dice are in [1, 10].
func RollCheck(src Source, modifier int) Check {
	return Check{
		Dice:     [2]int{src.Intn(CheckSides) + 1, src.Intn(CheckSides) + 1},
		Modifier: modifier,
	}
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
