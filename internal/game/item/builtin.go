package item

// Built-in Avalore equipment tables. Content directories can replace these
// via the YAML loaders; the compiled-in set keeps the engine usable with no
// content on disk.

// BuiltinWeapons returns the standard Avalore weapon definitions.
func BuiltinWeapons() []*WeaponDef {
	return []*WeaponDef{
		{Name: "Unarmed", Damage: 2, AccuracyBonus: 2, ActionCost: 1, Range: RangeMelee,
			Description: "Fists and natural weapons."},
		{Name: "Dagger", Damage: 3, AccuracyBonus: 3, ActionCost: 1, Range: RangeMelee,
			Requirements: map[string]int{"Dexterity:Acrobatics": -1},
			Description:  "A small blade, easily concealed."},
		{Name: "Arming Sword", Damage: 4, AccuracyBonus: 1, ActionCost: 1, Range: RangeMelee,
			Description: "A well-balanced one-handed sword."},
		{Name: "Rapier", Damage: 3, AccuracyBonus: 3, ActionCost: 1, Range: RangeMelee,
			Requirements: map[string]int{"Dexterity:Finesse": 2},
			Traits:       []string{"grazing", "vs_unarmored_bonus"},
			Description:  "A thin, precise blade that slips past partial dodges."},
		{Name: "Mace", Damage: 3, AccuracyBonus: 1, ActionCost: 1, Range: RangeMelee,
			Traits:      []string{"vs_medium_heavy_bonus"},
			Description: "A heavy blunt weapon that punishes armored targets."},
		{Name: "Greatsword", Category: "greatblade", Damage: 8, AccuracyBonus: 1, ActionCost: 2,
			Range: RangeMelee, TwoHanded: true,
			Requirements: map[string]int{"Strength:Athletics": 2},
			Description:  "A massive two-handed sword. Lift, then strike."},
		{Name: "Spear", Category: "polearm", Damage: 6, AccuracyBonus: 2, ActionCost: 2,
			Range: RangeSkirmishing, Reach: 2, TwoHanded: true,
			Traits:      []string{"piercing", "reach"},
			Description: "A polearm with reach; pierces armor."},
		{Name: "Javelin", Category: "thrown", Damage: 5, AccuracyBonus: 1, ActionCost: 2,
			Range:        RangeSkirmishing,
			Traits:       []string{"piercing"},
			Requirements: map[string]int{"Dexterity:Acrobatics": 1, "Strength:Athletics": 1},
			Description:  "A throwing spear."},
		{Name: "Longbow", Category: "bow", Damage: 6, AccuracyBonus: 3, ActionCost: 2,
			Range: RangeRanged, TwoHanded: true,
			Requirements: map[string]int{"Strength:Athletics": 1, "Dexterity:Acrobatics": 1},
			Description:  "A powerful longbow."},
		{Name: "Recurve Bow", Damage: 3, AccuracyBonus: 2, ActionCost: 1, Range: RangeRanged,
			TwoHanded:    true,
			Requirements: map[string]int{"Dexterity:Finesse": 1},
			Traits:       []string{"grazing", "vs_unarmored_bonus"},
			Description:  "A lighter bow for quick shots."},
		{Name: "Crossbow", Category: "crossbow", Damage: 5, AccuracyBonus: 3, ActionCost: 2,
			Range: RangeRanged, TwoHanded: true, ArmorPiercing: true,
			Traits:       []string{"piercing"},
			Requirements: map[string]int{"Strength:Athletics": 1},
			Description:  "A crossbow whose bolts punch through armor."},
		{Name: "Staff", Category: "staff", Damage: 5, AccuracyBonus: 2, ActionCost: 2,
			Range:        RangeMelee,
			Requirements: map[string]int{"Dexterity:Acrobatics": 2},
			Traits:       []string{"grazing"},
			Description:  "A quarterstaff. Lift and strike."},
		{Name: "Arcane Wand", Damage: 2, AccuracyBonus: 2, ActionCost: 1, Range: RangeSkirmishing,
			ArmorPiercing: true,
			Traits:        []string{"piercing"},
			Requirements:  map[string]int{"Harmony:Arcana": 2},
			Description:   "A magical wand; its bolts ignore armor."},
	}
}

// BuiltinArmors returns the standard Avalore armor definitions.
func BuiltinArmors() []*ArmorDef {
	return []*ArmorDef{
		{Name: "Light Armor", Tier: TierLight,
			Requirements: map[string]int{"Dexterity:Acrobatics": -1},
			Description:  "Leather or padded armor. 1d2-1 protection, no penalties."},
		{Name: "Medium Armor", Tier: TierMedium, EvasionPenalty: -1,
			Requirements: map[string]int{"Strength:Athletics": 1},
			Description:  "Breastplate or half-plate. 1d3-1 protection, -1 evasion."},
		{Name: "Heavy Armor", Tier: TierHeavy, EvasionPenalty: -2, StealthPenalty: -3, MovementPenalty: -1,
			Requirements: map[string]int{"Strength:Athletics": 3},
			Description:  "Full plate. 1d3 protection, -2 evasion, -3 stealth, -1 movement."},
	}
}

// BuiltinShields returns the standard Avalore shield definitions.
func BuiltinShields() []*ShieldDef {
	return []*ShieldDef{
		{Name: "Small Shield", Type: ShieldSmall, BlockModifier: -3, RangedBonus: 1,
			Requirements: map[string]int{"Dexterity:Finesse": 2, "Strength:Athletics": 2},
			Description:  "A buckler. 2d10-3 to block."},
		{Name: "Large Shield", Type: ShieldLarge, BlockModifier: -2, RangedBonus: 1, APImmune: true,
			Requirements: map[string]int{"Strength:Athletics": 2, "Strength:Fortitude": 2},
			Description:  "A tower shield. 2d10-2 to block; blocks armor-piercing attacks too."},
	}
}

// DefaultCatalog builds a Catalog from the built-in equipment tables.
//
// Postcondition: Returns a non-nil Catalog; the built-in tables are always
// internally consistent.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(BuiltinWeapons(), BuiltinArmors(), BuiltinShields())
	if err != nil {
		panic("item: built-in catalog is inconsistent: " + err.Error())
	}
	return c
}
