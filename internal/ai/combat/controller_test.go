package combat

import (
	"testing"

	"github.com/magefree/mage-goldfish-go/internal/game"
	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestControllerRunsCombat(t *testing.T) {
	h := game.NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	ctrl := NewController(Options{}, zaptest.NewLogger(t))
	alice.Controller = ctrl
	bob.Controller = ctrl

	h.AddPermanent(alice, "Serra Angel")
	ogre := h.AddCreature(alice, "Ogre", "5", "5")
	bears := h.AddPermanent(bob, "Grizzly Bears")

	require.NoError(t, h.State.AdvanceToStep(rules.StepMain2, nil))

	// The angel flies over; the bears chump the ogre.
	assert.Equal(t, 16, bob.Life)
	assert.Equal(t, game.ZoneGraveyard, bears.Zone)
	assert.Equal(t, 2, ogre.Damage)
}
