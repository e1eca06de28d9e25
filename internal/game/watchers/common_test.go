package watchers

import (
	"testing"

	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
)

func TestDamageDoneWatcher(t *testing.T) {
	watcher := NewDamageDoneWatcher()
	assert.False(t, watcher.ConditionMet())

	watcher.Watch(rules.NewEventWithAmount(rules.EventDamagePlayer, "p2", "bolt", "p1", 3))
	combat := rules.NewEventWithAmount(rules.EventDamagePlayer, "p2", "guide", "p1", 2)
	combat.Flag = true
	watcher.Watch(combat)
	watcher.Watch(rules.NewEventWithAmount(rules.EventDamagePlayer, "p2", "fizzle", "p1", 0))

	assert.True(t, watcher.ConditionMet())
	assert.Equal(t, 5, watcher.DamageTo("p2"))
	assert.Equal(t, 2, watcher.CombatDamageTo("p2"))
	assert.Equal(t, 5, watcher.DamageDealtBy("p1"))
	assert.Zero(t, watcher.DamageTo("p1"))

	cpy := watcher.Copy().(*DamageDoneWatcher)
	watcher.Reset()
	assert.Zero(t, watcher.DamageTo("p2"))
	assert.False(t, watcher.ConditionMet())
	assert.Equal(t, 5, cpy.DamageTo("p2"), "copy must survive a reset of the original")
}

func TestSpellsCastWatcher(t *testing.T) {
	watcher := NewSpellsCastWatcher()
	assert.Zero(t, watcher.GetCount("player1"))

	watcher.Watch(rules.NewEvent(rules.EventSpellCast, "", "spell1", "player1"))
	watcher.Watch(rules.NewEvent(rules.EventSpellCast, "", "spell2", "player1"))
	watcher.Watch(rules.NewEvent(rules.EventLandPlayed, "", "land1", "player1"))

	assert.True(t, watcher.ConditionMet())
	assert.Equal(t, []string{"spell1", "spell2"}, watcher.GetSpellsCast("player1"))

	cpy := watcher.Copy().(*SpellsCastWatcher)
	cpy.Watch(rules.NewEvent(rules.EventSpellCast, "", "spell3", "player1"))
	assert.Equal(t, 2, watcher.GetCount("player1"))
	assert.Equal(t, 3, cpy.GetCount("player1"))

	watcher.Reset()
	assert.False(t, watcher.ConditionMet())
	assert.Zero(t, watcher.GetCount("player1"))
}

func TestCreaturesDiedWatcher(t *testing.T) {
	watcher := NewCreaturesDiedWatcher()

	watcher.Watch(rules.NewEventWithFlag(rules.EventPermanentDies, "bear", "bear", "player2", true))
	watcher.Watch(rules.NewEventWithFlag(rules.EventPermanentDies, "rancor", "rancor", "player2", false))

	assert.Equal(t, 1, watcher.GetAmountByController("player2"))
	assert.Equal(t, 1, watcher.GetTotalAmount())
}

func TestLandsPlayedWatcher(t *testing.T) {
	watcher := NewLandsPlayedWatcher()
	watcher.Watch(rules.NewEvent(rules.EventLandPlayed, "", "mountain", "player1"))

	assert.Equal(t, 1, watcher.GetCount("player1"))
	assert.Zero(t, watcher.GetCount("player2"))

	watcher.Reset()
	assert.Zero(t, watcher.GetCount("player1"))
}

func TestDefaultsHaveUniqueKeys(t *testing.T) {
	seen := map[string]bool{}
	for _, w := range Defaults() {
		assert.False(t, seen[w.Key()], "duplicate key %s", w.Key())
		seen[w.Key()] = true
	}
	assert.Len(t, seen, 4)
}
