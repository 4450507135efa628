package item

import "fmt"

// Catalog is an immutable lookup of equipment definitions by name. It is
// built once (from YAML content or the built-in tables) and handed to the
// combat engine at construction; it is never mutated afterwards.
type Catalog struct {
	weapons map[string]*WeaponDef
	armors  map[string]*ArmorDef
	shields map[string]*ShieldDef
}

// NewCatalog builds a Catalog from definition slices.
//
// Precondition: definitions must already be validated; names must be unique
// within each kind.
// Postcondition: Returns a non-nil Catalog or an error naming the duplicate.
func NewCatalog(weapons []*WeaponDef, armors []*ArmorDef, shields []*ShieldDef) (*Catalog, error) {
	c := &Catalog{
		weapons: make(map[string]*WeaponDef, len(weapons)),
		armors:  make(map[string]*ArmorDef, len(armors)),
		shields: make(map[string]*ShieldDef, len(shields)),
	}
	for _, w := range weapons {
		if _, dup := c.weapons[w.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate weapon %q", w.Name)
		}
		c.weapons[w.Name] = w
	}
	for _, a := range armors {
		if _, dup := c.armors[a.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate armor %q", a.Name)
		}
		c.armors[a.Name] = a
	}
	for _, s := range shields {
		if _, dup := c.shields[s.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate shield %q", s.Name)
		}
		c.shields[s.Name] = s
	}
	return c, nil
}

// Weapon returns the weapon definition for name, or (nil, false).
func (c *Catalog) Weapon(name string) (*WeaponDef, bool) {
	w, ok := c.weapons[name]
	return w, ok
}

// Armor returns the armor definition for name, or (nil, false).
func (c *Catalog) Armor(name string) (*ArmorDef, bool) {
	a, ok := c.armors[name]
	return a, ok
}

// Shield returns the shield definition for name, or (nil, false).
func (c *Catalog) Shield(name string) (*ShieldDef, bool) {
	s, ok := c.shields[name]
	return s, ok
}
