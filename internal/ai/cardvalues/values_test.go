package cardvalues

import (
	"testing"

	"github.com/magefree/mage-goldfish-go/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCard(t *testing.T, name string) *game.Card {
	t.Helper()
	c, err := game.NewCard(name, "owner")
	require.NoError(t, err)
	return c
}

func TestValues(t *testing.T) {
	table := New(0)

	tests := []struct {
		name  string
		value int
	}{
		{"Mountain", 0},
		{"Lightning Bolt", 1},
		{"Boil", 1},
		{"Skullcrack", 2},
		{"Annihilating Fire", 3},
		{"Eidolon of the Great Revel", 5},
		{"Goblin Guide", 6},
		{"Ensnaring Bridge", 20},
		{"Grizzly Bears", Unvalued},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.value, table.Value(tt.name))
		})
	}

	_, ok := table.Lookup("Grizzly Bears")
	assert.False(t, ok)
	e, ok := table.Lookup("Mountain")
	assert.True(t, ok, "a zero value is still a value")
	assert.Equal(t, 0, e.Value)
}

func TestDamage(t *testing.T) {
	table := New(0)

	assert.Equal(t, 3, table.Damage(newCard(t, "Lightning Bolt")))
	assert.Equal(t, 0, table.Damage(newCard(t, "Mountain")))
	assert.Equal(t, 0, table.Damage(newCard(t, "Boil")))
	assert.Equal(t, 0, table.Damage(newCard(t, "Goblin Guide")))
	assert.Equal(t, 0, table.Damage(newCard(t, "Fire Ambush")), "creature-only burn cannot hit the opponent")
	assert.Equal(t, DefaultDamage, table.Damage(newCard(t, "Price of Progress")), "unparseable damage falls back")
}

func TestDamageUnlistedSpellUsesDefault(t *testing.T) {
	table := New(4)
	bolt := newCard(t, "Lightning Bolt")
	bolt.Name = "Unlisted Bolt"

	assert.Equal(t, 4, table.Damage(bolt))
	assert.Equal(t, 0, table.Damage(newCard(t, "Fog")))
}

func TestOverride(t *testing.T) {
	table := New(0)
	table.Override("Grizzly Bears", Entry{Value: 4})
	table.Override("Lightning Bolt", Entry{Value: 9, Damage: "5", CostReduction: 1})

	assert.Equal(t, 4, table.Value("Grizzly Bears"))
	assert.Equal(t, 5, table.Damage(newCard(t, "Lightning Bolt")))
	assert.Equal(t, 1, table.CostReduction("Lightning Bolt"))
	assert.Equal(t, 2, table.CostReduction("Skewer the Critics"))
	assert.Equal(t, 0, table.CostReduction("Unknown"))
	assert.Contains(t, table.Names(), "Grizzly Bears")
	assert.Equal(t, Unvalued, New(0).Value("Grizzly Bears"), "overrides do not leak between tables")
}
