package goldfish

import (
	"testing"

	"github.com/magefree/mage-goldfish-go/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeck(t *testing.T) {
	deck, err := ParseDeck([]string{
		"# burn",
		"2 Lightning Bolt",
		"",
		"  Mountain  ",
		"1 Skewer the Critics",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lightning Bolt", "Lightning Bolt", "Mountain", "Skewer the Critics"}, deck)
}

func TestParseDeckErrors(t *testing.T) {
	_, err := ParseDeck([]string{"4 Black Lotus"})
	assert.ErrorIs(t, err, game.ErrNotFound)

	_, err = ParseDeck([]string{"0 Mountain"})
	assert.Error(t, err)
}
