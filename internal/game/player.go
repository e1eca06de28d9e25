package game

import "github.com/google/uuid"

const (
	// StartingLife is the life total every player starts with.
	StartingLife = 20
	// DefaultMaxHandSize is the hand size enforced at cleanup.
	DefaultMaxHandSize = 7
)

// CombatController makes the combat decisions for one player. The engine
// calls it while running the declare attackers and declare blockers steps,
// on live games and on clones alike.
type CombatController interface {
	// DeclareAttackers adds attackers controlled by p to the state's combat.
	DeclareAttackers(st *State, p *Player) error
	// DeclareBlockers adds blockers controlled by p to the state's combat.
	DeclareBlockers(st *State, p *Player) error
	// OrderBlockers returns the damage assignment order for an attacker controlled by the caller.
	OrderBlockers(st *State, attacker *Card, blockers []*Card) []*Card
}

// Player is a participant in a game.
type Player struct {
	ID                string
	Name              string
	Life              int
	MaxHandSize       int
	UnlimitedHandSize bool
	Library           []*Card
	Hand              []*Card
	Graveyard         []*Card
	Lost              bool
	LandsPlayed       int
	Controller        CombatController

	drewFromEmpty bool
}

// NewPlayer creates a player with starting life and default hand size.
func NewPlayer(name string) *Player {
	return &Player{
		ID:          uuid.NewString(),
		Name:        name,
		Life:        StartingLife,
		MaxHandSize: DefaultMaxHandSize,
	}
}

// CardsInZone returns the player's cards in a private or graveyard zone.
func (p *Player) CardsInZone(zone Zone) []*Card {
	switch zone {
	case ZoneLibrary:
		return p.Library
	case ZoneHand:
		return p.Hand
	case ZoneGraveyard:
		return p.Graveyard
	}
	return nil
}

func (p *Player) zoneSlice(zone Zone) *[]*Card {
	switch zone {
	case ZoneLibrary:
		return &p.Library
	case ZoneHand:
		return &p.Hand
	case ZoneGraveyard:
		return &p.Graveyard
	}
	return nil
}

func (p *Player) String() string {
	return p.Name
}

func removeCard(cards []*Card, card *Card) ([]*Card, bool) {
	for i, c := range cards {
		if c == card {
			return append(cards[:i:i], cards[i+1:]...), true
		}
	}
	return cards, false
}
