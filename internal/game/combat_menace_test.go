package game

import (
	"testing"

	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockScript declares fixed blocks when asked.
type blockScript struct {
	blocks map[*Card][]*Card
}

func (s *blockScript) DeclareAttackers(*State, *Player) error { return nil }

func (s *blockScript) DeclareBlockers(st *State, p *Player) error {
	for attacker, blockers := range s.blocks {
		for _, b := range blockers {
			if err := st.Combat().AddBlocker(attacker, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *blockScript) OrderBlockers(_ *State, _ *Card, blockers []*Card) []*Card { return blockers }

func TestDeclareBlockersDropsSingleMenaceBlock(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	brute := h.AddPermanent(alice, "Boggart Brute")
	bears := h.AddPermanent(bob, "Grizzly Bears")
	bob.Controller = &blockScript{blocks: map[*Card][]*Card{brute: {bears}}}

	h.SetStep(rules.StepDeclareAttackers)
	h.Attack(brute, bob.ID)
	h.SetStep(rules.StepDeclareBlockers)
	require.NoError(t, h.State.declareBlockersStep())

	assert.False(t, h.State.Combat().IsBlocked(brute))
	assert.Empty(t, h.State.Combat().Blockers(brute))
}

func TestDeclareBlockersKeepsDoubleMenaceBlock(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	brute := h.AddPermanent(alice, "Boggart Brute")
	bears := h.AddPermanent(bob, "Grizzly Bears")
	spider := h.AddPermanent(bob, "Giant Spider")
	bob.Controller = &blockScript{blocks: map[*Card][]*Card{brute: {bears, spider}}}

	h.SetStep(rules.StepDeclareAttackers)
	h.Attack(brute, bob.ID)
	h.SetStep(rules.StepDeclareBlockers)
	require.NoError(t, h.State.declareBlockersStep())

	assert.True(t, h.State.Combat().IsBlocked(brute))
	assert.Len(t, h.State.Combat().Blockers(brute), 2)
}

func TestDeclareBlockersDropsLoneKavu(t *testing.T) {
	h := NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	guide := h.AddPermanent(alice, "Goblin Guide")
	kavu := h.AddPermanent(bob, "Tundra Kavu")
	bob.Controller = &blockScript{blocks: map[*Card][]*Card{guide: {kavu}}}

	h.SetStep(rules.StepDeclareAttackers)
	h.Attack(guide, bob.ID)
	h.SetStep(rules.StepDeclareBlockers)
	require.NoError(t, h.State.declareBlockersStep())

	assert.Empty(t, h.State.Combat().AllBlockers())
}
