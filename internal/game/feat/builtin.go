package feat

// Built-in feat IDs.
const (
	FirstStrike   = "first_strike"
	AlwaysReady   = "always_ready"
	Quickfooted   = "quickfooted"
	DuelingStance = "dueling_stance"
	Parry         = "parry"
	Shieldmaster  = "shieldmaster"
	SecondWind    = "second_wind"
)

// BuiltinDefs returns the standard Avalore feat definitions.
func BuiltinDefs() []*Def {
	return []*Def{
		{
			ID: FirstStrike, Name: "First Strike", Kind: KindPassive,
			Description: "+5 initiative and a third action on your first turn.",
			Effects: []Effect{
				{Trigger: TriggerInitiative, Amount: 5},
				{Trigger: TriggerTurnStartActions, Amount: 1, Requires: []string{"first_turn"}},
			},
		},
		{
			ID: AlwaysReady, Name: "Always Ready", Kind: KindPassive,
			Description: "+3 initiative. Superseded by First Strike.",
			Effects: []Effect{
				{Trigger: TriggerInitiative, Amount: 3, Requires: []string{"unless_feat:first_strike"}},
			},
		},
		{
			ID: Quickfooted, Name: "Quickfooted", Kind: KindPassive,
			Description: "+3 to evasion rolls while not in heavy armor.",
			Effects: []Effect{
				{Trigger: TriggerEvasionRoll, Amount: 3, Requires: []string{"no_heavy_armor"}},
			},
		},
		{
			ID: DuelingStance, Name: "Dueling Stance", Kind: KindPassive,
			Description: "+1 attack and +1 damage while wielding a single one-handed weapon.",
			Effects: []Effect{
				{Trigger: TriggerAttackRoll, Amount: 1, Requires: []string{"single_wield"}},
				{Trigger: TriggerDamage, Amount: 1, Requires: []string{"single_wield"}},
			},
		},
		{
			ID: Parry, Name: "Parry", Kind: KindLimited, Constraint: ConstraintOncePerTurn,
			Description: "Spend your limited action to impose -2 on an incoming attack roll.",
			Effects: []Effect{
				{Trigger: TriggerIncomingAttackRoll, Amount: -2},
			},
		},
		{
			ID: Shieldmaster, Name: "Shieldmaster", Kind: KindPassive,
			Description: "+3 to block rolls against melee attacks, +1 against ranged.",
			Effects: []Effect{
				{Trigger: TriggerBlockRoll, Amount: 3, Requires: []string{"vs_melee"}},
				{Trigger: TriggerBlockRoll, Amount: 1, Requires: []string{"vs_ranged"}},
			},
		},
		{
			ID: SecondWind, Name: "Second Wind", Kind: KindActive, ActionCost: 1,
			Constraint:  ConstraintOncePerScene,
			Description: "Once per scene, heal Strength:Fortitude + 2 hit points.",
			Effects: []Effect{
				{Trigger: TriggerHealSelf, Amount: 2, AmountStat: "Strength:Fortitude"},
			},
		},
	}
}

// DefaultRegistry returns a Registry pre-populated with the built-in feats.
//
// Postcondition: Returns a non-nil Registry; the built-in definitions are
// always valid.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, d := range BuiltinDefs() {
		if err := d.Validate(); err != nil {
			panic("feat: built-in definition invalid: " + err.Error())
		}
		reg.Register(d)
	}
	return reg
}
