package game

import (
	"testing"

	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
)

func TestCanBlockEvasion(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	angel := h.AddPermanent(alice, "Serra Angel")
	phantom := h.AddPermanent(alice, "Phantom Warrior")
	bears := h.AddPermanent(bob, "Grizzly Bears")
	spider := h.AddPermanent(bob, "Giant Spider")
	nighthawk := h.AddPermanent(bob, "Vampire Nighthawk")

	assert.False(t, h.State.CanBlock(angel, bears, nil))
	assert.True(t, h.State.CanBlock(angel, spider, nil), "reach blocks flyers")
	assert.True(t, h.State.CanBlock(angel, nighthawk, nil))
	assert.False(t, h.State.CanBlock(phantom, spider, nil))
	assert.False(t, h.State.CanBeBlocked(phantom))

	bears.Tapped = true
	assert.False(t, h.State.CanBlock(h.AddPermanent(alice, "Goblin Guide"), bears, nil))
	assert.False(t, h.State.CanBlockAny(bears))
}

func TestCanBlockRequiresDefendingController(t *testing.T) {
	h := NewTestHarness(t, "alice", "bob", "carol")
	alice, bob, carol := h.Player(0), h.Player(1), h.Player(2)
	guide := h.AddPermanent(alice, "Goblin Guide")
	bobBears := h.AddPermanent(bob, "Grizzly Bears")
	carolBears := h.AddPermanent(carol, "Grizzly Bears")

	h.SetStep(rules.StepDeclareBlockers)
	h.Attack(guide, bob.ID)

	combat := h.State.Combat()
	assert.True(t, h.State.CanBlock(guide, bobBears, combat))
	assert.False(t, h.State.CanBlock(guide, carolBears, combat))
	assert.True(t, h.State.CanBlock(guide, carolBears, nil))
}

func TestMenaceNeedsTwoBlockers(t *testing.T) {
	h := NewTestHarness(t)
	alice := h.Player(0)
	brute := h.AddPermanent(alice, "Boggart Brute")

	assert.Equal(t, 2, h.State.MinBlockers(brute))
	assert.True(t, h.State.CanAttackerBeBlockedWithAmount(brute, 0))
	assert.False(t, h.State.CanAttackerBeBlockedWithAmount(brute, 1))
	assert.True(t, h.State.CanAttackerBeBlockedWithAmount(brute, 2))
}

func TestLethalDamage(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	spider := h.AddPermanent(bob, "Giant Spider")
	nighthawk := h.AddPermanent(alice, "Vampire Nighthawk")
	bears := h.AddPermanent(alice, "Grizzly Bears")

	assert.Equal(t, 4, h.State.LethalDamage(spider, bears))
	spider.Damage = 1
	assert.Equal(t, 3, h.State.LethalDamage(spider, bears))
	assert.Equal(t, 1, h.State.LethalDamage(spider, nighthawk))
}
