package game

import (
	"testing"

	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombatDamageFollowsBlockerOrder(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	attacker := h.AddCreature(alice, "Big", "4", "4")
	first := h.AddPermanent(bob, "Grizzly Bears")
	second := h.AddPermanent(bob, "Giant Spider")

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(attacker, bob.ID)
	h.Block(attacker, second)
	h.Block(attacker, first)
	require.NoError(t, h.State.Combat().SetBlockerOrder(attacker, []*Card{first, second}))

	h.State.combatDamageStep(false)

	assert.Equal(t, ZoneGraveyard, first.Zone)
	assert.Equal(t, 2, second.Damage, "last blocker takes the rest")
	assert.Equal(t, ZoneGraveyard, attacker.Zone)
}

func TestSetBlockerOrderRejectsNonPermutation(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	attacker := h.AddCreature(alice, "Big", "4", "4")
	first := h.AddPermanent(bob, "Grizzly Bears")
	other := h.AddPermanent(bob, "Giant Spider")

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(attacker, bob.ID)
	h.Block(attacker, first)

	assert.ErrorIs(t, h.State.Combat().SetBlockerOrder(attacker, []*Card{other}), ErrIllegalAction)
	assert.ErrorIs(t, h.State.Combat().SetBlockerOrder(attacker, nil), ErrIllegalAction)
}

func TestAddBlockerOnlyBlocksOneAttacker(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	a1 := h.AddPermanent(alice, "Goblin Guide")
	a2 := h.AddPermanent(alice, "Monastery Swiftspear")
	bears := h.AddPermanent(bob, "Grizzly Bears")

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(a1, bob.ID)
	h.Attack(a2, bob.ID)
	h.Block(a1, bears)

	assert.ErrorIs(t, h.State.Combat().AddBlocker(a2, bears), ErrIllegalAction)
	assert.Equal(t, a1, h.State.Combat().BlockedAttacker(bears))
	assert.Equal(t, []*Card{a1, a2}, h.State.Combat().AttackersOfPlayer(bob.ID))
}
