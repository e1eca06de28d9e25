// Package cardvalues holds the name-keyed heuristic table the sequencing
// search uses in place of the rules engine: an intrinsic worth per card and,
// for burn spells, the damage it is expected to deal.
package cardvalues

import (
	"sort"
	"strconv"
	"strings"

	"github.com/magefree/mage-goldfish-go/internal/game"
)

const (
	// Unvalued marks a card the table has no worth for. It is not zero:
	// it means no preference data is available.
	Unvalued = -1
	// DefaultDamage is assumed for damage spells whose damage is unknown.
	DefaultDamage = 3
)

// Entry is the table's record for one card name.
type Entry struct {
	Value int
	// Damage is the printed direct damage. Empty means none; anything
	// that does not parse as a number falls back to the default.
	Damage string
	// CostReduction is the generic mana saved once an opponent has been
	// dealt damage this turn (spectacle and similar alternative costs).
	CostReduction int
}

var builtin = map[string]Entry{
	"Mountain":                   {Value: 0},
	"Lightning Bolt":             {Value: 1, Damage: "3"},
	"Chain Lightning":            {Value: 1, Damage: "3"},
	"Lava Spike":                 {Value: 1, Damage: "3"},
	"Rift Bolt":                  {Value: 1, Damage: "3"},
	"Boil":                       {Value: 1},
	"Skewer the Critics":         {Value: 2, Damage: "3", CostReduction: 2},
	"Skullcrack":                 {Value: 2, Damage: "3"},
	"Incendiary Flow":            {Value: 2, Damage: "3"},
	"Price of Progress":          {Value: 2, Damage: "2X"},
	"Incinerate":                 {Value: 2, Damage: "3"},
	"Lightning Strike":           {Value: 2, Damage: "3"},
	"Searing Spear":              {Value: 2, Damage: "3"},
	"Fire Ambush":                {Value: 2},
	"Volcanic Hammer":            {Value: 2, Damage: "3"},
	"Annihilating Fire":          {Value: 3, Damage: "3"},
	"Eidolon of the Great Revel": {Value: 5},
	"Goblin Guide":               {Value: 6},
	"Monastery Swiftspear":       {Value: 6},
	"Ensnaring Bridge":           {Value: 20},
}

// Table maps card names to entries. The zero value is not usable; call New.
type Table struct {
	entries       map[string]Entry
	defaultDamage int
}

// New returns a table holding the built-in entries. A non-positive
// defaultDamage selects DefaultDamage.
func New(defaultDamage int) *Table {
	if defaultDamage <= 0 {
		defaultDamage = DefaultDamage
	}
	t := &Table{
		entries:       make(map[string]Entry, len(builtin)),
		defaultDamage: defaultDamage,
	}
	for name, e := range builtin {
		t.entries[name] = e
	}
	return t
}

// Override replaces or adds the entry for name.
func (t *Table) Override(name string, e Entry) {
	t.entries[name] = e
}

// Lookup returns the entry for name and whether the table has one.
func (t *Table) Lookup(name string) (Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Value returns the intrinsic worth of name, or Unvalued.
func (t *Table) Value(name string) int {
	if e, ok := t.entries[name]; ok {
		return e.Value
	}
	return Unvalued
}

// Damage predicts the direct damage card deals to a player when it
// resolves. Creatures and permanents deal none here; combat is the
// evaluator's job.
func (t *Table) Damage(card *game.Card) int {
	if e, ok := t.entries[card.Name]; ok && e.Damage != "" {
		n, err := strconv.Atoi(strings.TrimSpace(e.Damage))
		if err != nil || n < 0 {
			return t.defaultDamage
		}
		return n
	}
	if !card.IsCreature() && card.Effect.DealsDamage() {
		return t.defaultDamage
	}
	return 0
}

// CostReduction returns the generic mana saved on name under its
// alternative cost.
func (t *Table) CostReduction(name string) int {
	return t.entries[name].CostReduction
}

// Names returns every name in the table, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
