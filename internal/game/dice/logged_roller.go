package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with expression, dice values, modifier, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr and logs the result at debug level.
//
// Precondition: expr must come from Parse.
// Postcondition: result logged; returns RollResult or error.
func (r *Roller) Roll(expr Expression) (RollResult, error) {
	result, err := Roll(expr, r.src)
	if err != nil {
		return RollResult{}, err
	}
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result, nil
}

// RollExpr parses expr and rolls it, logging the result.
//
// Precondition: expr must be a valid dice expression string.
// Postcondition: Returns a RollResult or a parse/roll error.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e)
}

// Check rolls the standard 2d10 check with modifier and logs it.
//
// Postcondition: check logged with both die faces and the critical-pair flag.
func (r *Roller) Check(modifier int) Check {
	c := RollCheck(r.src, modifier)
	r.logger.Debug("2d10 check",
		zap.Ints("dice", []int{c.Dice[0], c.Dice[1]}),
		zap.Int("modifier", c.Modifier),
		zap.Int("total", c.Total()),
		zap.Bool("critical_pair", c.CriticalPair()),
	)
	return c
}
