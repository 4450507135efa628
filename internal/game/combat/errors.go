package combat

import "errors"

// Sentinel errors for rejected operations. Every rejection leaves session
// and participant state unchanged; callers discriminate with errors.Is and
// may retry with a different action. Action-economy sentinels
// (ErrInsufficientActions, ErrStanceConflict, ErrFeatExhausted) live in the
// participant package; ErrInvalidMove lives in grid.
var (
	// ErrValidation reports an illegal action given current state: range
	// violation, dead target, missing equipment, un-lifted heavy weapon.
	ErrValidation = errors.New("validation failed")
	// ErrResourceExhausted reports a spent once-per-scene resource, such as
	// a second overcast attempt.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrNotInProgress reports an operation called outside the InProgress
	// session state. Indicates a caller logic error.
	ErrNotInProgress = errors.New("combat not in progress")
)
