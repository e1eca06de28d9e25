package game

import (
	"testing"

	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"go.uber.org/zap/zaptest"
)

// TestHarness builds game positions for tests. It fails the test on any
// setup error so callers can chain calls without checking each one.
type TestHarness struct {
	t       testing.TB
	State   *State
	players []*Player
}

// NewTestHarness creates a game between the named players (two by default)
// positioned in the first main phase of turn one.
func NewTestHarness(t testing.TB, names ...string) *TestHarness {
	t.Helper()
	if len(names) == 0 {
		names = []string{"goldfish", "opponent"}
	}
	players := make([]*Player, len(names))
	for i, name := range names {
		players[i] = NewPlayer(name)
	}
	st, err := NewState(zaptest.NewLogger(t), players...)
	if err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	h := &TestHarness{t: t, State: st, players: players}
	h.SetStep(rules.StepMain1)
	return h
}

// Player returns the i-th player in turn order.
func (h *TestHarness) Player(i int) *Player {
	return h.players[i]
}

// SetStep moves the game to step without running turn-based actions.
func (h *TestHarness) SetStep(step rules.Step) {
	h.t.Helper()
	if err := h.State.SetStep(step); err != nil {
		h.t.Fatalf("failed to set step %s: %v", step, err)
	}
}

func (h *TestHarness) add(p *Player, name string, zone Zone) *Card {
	h.t.Helper()
	card, err := NewCard(name, p.ID)
	if err != nil {
		h.t.Fatalf("failed to create %s: %v", name, err)
	}
	if err := h.State.AddCard(card, zone); err != nil {
		h.t.Fatalf("failed to add %s: %v", name, err)
	}
	return card
}

// AddPermanent puts a card onto the battlefield under p's control, ready
// to attack and tap.
func (h *TestHarness) AddPermanent(p *Player, name string) *Card {
	card := h.add(p, name, ZoneBattlefield)
	card.Sick = false
	return card
}

// AddSickPermanent puts a card onto the battlefield as if it arrived this turn.
func (h *TestHarness) AddSickPermanent(p *Player, name string) *Card {
	return h.add(p, name, ZoneBattlefield)
}

// AddLands puts n copies of a land onto the battlefield under p's control.
func (h *TestHarness) AddLands(p *Player, name string, n int) []*Card {
	lands := make([]*Card, n)
	for i := range lands {
		lands[i] = h.AddPermanent(p, name)
	}
	return lands
}

// AddCreature puts a vanilla creature with the given stats and keywords
// onto the battlefield under p's control.
func (h *TestHarness) AddCreature(p *Player, name string, power, toughness string, keywords ...Keyword) *Card {
	h.t.Helper()
	card := h.AddPermanent(p, "Grizzly Bears")
	card.Name = name
	card.Power = power
	card.Toughness = toughness
	card.Keywords = keywords
	return card
}

// AddToHand puts the named cards into p's hand.
func (h *TestHarness) AddToHand(p *Player, names ...string) []*Card {
	cards := make([]*Card, len(names))
	for i, name := range names {
		cards[i] = h.add(p, name, ZoneHand)
	}
	return cards
}

// AddToLibrary puts the named cards on the bottom of p's library.
func (h *TestHarness) AddToLibrary(p *Player, names ...string) []*Card {
	cards := make([]*Card, len(names))
	for i, name := range names {
		cards[i] = h.add(p, name, ZoneLibrary)
	}
	return cards
}

// Attack declares attacker against defenderID, tapping it as the declare
// attackers step would.
func (h *TestHarness) Attack(attacker *Card, defenderID string) {
	h.t.Helper()
	if h.State.Combat() == nil {
		h.State.beginCombat()
	}
	if err := h.State.Combat().AddAttacker(attacker, defenderID); err != nil {
		h.t.Fatalf("failed to attack with %s: %v", attacker.Name, err)
	}
	if !attacker.HasKeyword(KeywordVigilance) {
		attacker.Tapped = true
	}
}

// Block declares blocker as a blocker of attacker.
func (h *TestHarness) Block(attacker, blocker *Card) {
	h.t.Helper()
	if err := h.State.Combat().AddBlocker(attacker, blocker); err != nil {
		h.t.Fatalf("failed to block %s with %s: %v", attacker.Name, blocker.Name, err)
	}
}
