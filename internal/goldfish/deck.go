package goldfish

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magefree/mage-goldfish-go/internal/game"
)

// ParseDeck expands decklist lines of the form "4 Lightning Bolt" (or a
// bare card name for a single copy) into one name per card. Blank lines
// and lines starting with '#' are skipped.
func ParseDeck(lines []string) ([]string, error) {
	var deck []string
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		count, name := 1, line
		if head, rest, ok := strings.Cut(line, " "); ok {
			if n, err := strconv.Atoi(head); err == nil {
				count, name = n, strings.TrimSpace(rest)
			}
		}
		if count <= 0 {
			return nil, fmt.Errorf("deck line %d %q: non-positive count", i+1, line)
		}
		if !game.KnownCard(name) {
			return nil, fmt.Errorf("deck line %d: card %q: %w", i+1, name, game.ErrNotFound)
		}
		for range count {
			deck = append(deck, name)
		}
	}
	return deck, nil
}
