package game

import (
	"testing"

	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombatDamageUnblocked(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	guide := h.AddPermanent(alice, "Goblin Guide")

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(guide, bob.ID)
	h.State.combatDamageStep(false)

	assert.Equal(t, StartingLife-2, bob.Life)
	assert.Equal(t, 2, h.State.DamageDone().CombatDamageTo(bob.ID))
	assert.True(t, guide.Tapped)
}

func TestCombatDamageTradesWithBlocker(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	guide := h.AddPermanent(alice, "Goblin Guide")
	bears := h.AddPermanent(bob, "Grizzly Bears")

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(guide, bob.ID)
	h.Block(guide, bears)
	h.State.combatDamageStep(false)

	assert.Equal(t, StartingLife, bob.Life)
	assert.Equal(t, ZoneGraveyard, guide.Zone)
	assert.Equal(t, ZoneGraveyard, bears.Zone)
	assert.Len(t, h.State.Battlefield(), 0)
}

func TestCombatDamageFogPreventsAll(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	guide := h.AddPermanent(alice, "Goblin Guide")

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(guide, bob.ID)
	h.State.fog = true
	h.State.combatDamageStep(false)

	assert.Equal(t, StartingLife, bob.Life)
}

func TestCombatDamageLifelinkAndDeathtouch(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	dreadmaw := h.AddPermanent(alice, "Colossal Dreadmaw")
	nighthawk := h.AddPermanent(bob, "Vampire Nighthawk")
	bob.Life = 10

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(dreadmaw, bob.ID)
	h.Block(dreadmaw, nighthawk)
	h.State.combatDamageStep(false)

	assert.Equal(t, ZoneGraveyard, dreadmaw.Zone, "deathtouch damage is lethal")
	assert.Equal(t, ZoneGraveyard, nighthawk.Zone)
	// Trample: 3 assigned to the nighthawk, 3 through; lifelink gains 2.
	assert.Equal(t, 10-3+2, bob.Life)
}

func TestCombatDamageToPlaneswalker(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	guide := h.AddPermanent(alice, "Goblin Guide")
	chandra := h.AddPermanent(bob, "Chandra, Torch of Defiance")
	require.Equal(t, 4, chandra.CurrentLoyalty())

	h.SetStep(rules.StepDeclareBlockers)
	require.Contains(t, h.State.Combat().Defenders(), chandra.ID)
	h.Attack(guide, chandra.ID)
	h.State.combatDamageStep(false)

	assert.Equal(t, 2, chandra.CurrentLoyalty())
	assert.Equal(t, StartingLife, bob.Life)

	guide.Damage = 0
	h.State.combatDamageStep(false)
	assert.Equal(t, ZoneGraveyard, chandra.Zone)
}

func TestCombatDamageRemovedAttackerDealsNothing(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	guide := h.AddPermanent(alice, "Goblin Guide")

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(guide, bob.ID)
	assert.True(t, h.State.Combat().RemoveFromCombat(guide))
	h.State.combatDamageStep(false)

	assert.Equal(t, StartingLife, bob.Life)
	assert.False(t, h.State.Combat().IsAttacking(guide))
}
