package game

import (
	"testing"

	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
)

func TestCombatFirstStrikeKillsBeforeDamage(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	striker := h.AddCreature(alice, "Striker", "2", "2", KeywordFirstStrike)
	bears := h.AddPermanent(bob, "Grizzly Bears")

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(striker, bob.ID)
	h.Block(striker, bears)

	h.State.combatDamageStep(true)
	assert.Equal(t, ZoneGraveyard, bears.Zone)
	h.State.combatDamageStep(false)
	assert.Equal(t, ZoneBattlefield, striker.Zone)
	assert.Equal(t, 0, striker.Damage)
}

func TestCombatFirstStrikeBlockerKillsAttacker(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	guide := h.AddPermanent(alice, "Goblin Guide")
	striker := h.AddCreature(bob, "Striker", "2", "2", KeywordFirstStrike)

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(guide, bob.ID)
	h.Block(guide, striker)

	h.State.combatDamageStep(true)
	assert.Equal(t, ZoneGraveyard, guide.Zone)
	h.State.combatDamageStep(false)
	assert.Equal(t, 0, striker.Damage)
	assert.Equal(t, StartingLife, bob.Life)
}

func TestCombatDoubleStrikeHitsTwice(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	striker := h.AddCreature(alice, "Double", "2", "2", KeywordDoubleStrike)

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(striker, bob.ID)
	h.State.combatDamageStep(true)
	h.State.combatDamageStep(false)

	assert.Equal(t, StartingLife-4, bob.Life)
}
