package combat

// BlockPolicy selects how a block roll interacts with armor-piercing
// attacks. The source ruleset is ambiguous, so both readings are
// implemented.
type BlockPolicy string

const (
	// BlockAlwaysNegates: a successful block roll negates the attack
	// regardless of armor piercing; the shield's AP-immunity flag carries
	// no extra meaning. This is the default.
	BlockAlwaysNegates BlockPolicy = "block_always_negates"
	// APBypassesBlock: a shield without AP immunity cannot attempt a block
	// roll against an armor-piercing attack at all; the attack resolves
	// against the defender's passive defense instead.
	APBypassesBlock BlockPolicy = "ap_bypasses_block"
)

// OvercastPolicy maps an overcast-failure severity roll (1d6) to the
// narrative consequence applied on top of the caster's incapacitation. The
// exact consequences are campaign-specific, so the policy is injectable.
type OvercastPolicy interface {
	Consequence(severity int) string
}

// OvercastPolicyFunc adapts a plain function to an OvercastPolicy.
type OvercastPolicyFunc func(severity int) string

func (f OvercastPolicyFunc) Consequence(severity int) string { return f(severity) }

// DefaultOvercastPolicy returns the built-in severity table: low rolls are
// the worst outcomes.
func DefaultOvercastPolicy() OvercastPolicy {
	return OvercastPolicyFunc(func(severity int) string {
		switch {
		case severity <= 2:
			return "severe: the caster's anima conduit ruptures; unconscious for the rest of the scene"
		case severity <= 4:
			return "moderate: the caster collapses, wracked by feedback"
		default:
			return "mild: the caster blacks out briefly"
		}
	})
}
