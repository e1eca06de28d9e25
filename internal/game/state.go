package game

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/magefree/mage-goldfish-go/internal/game/counters"
	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"github.com/magefree/mage-goldfish-go/internal/game/watchers"
	"go.uber.org/zap"
)

// Outcome records how a finished game ended.
type Outcome struct {
	Finished bool
	Winners  []string
}

// IsWinner reports whether p is among the recorded winners.
func (o Outcome) IsWinner(p *Player) bool {
	return p != nil && slices.Contains(o.Winners, p.ID)
}

// State is the authoritative state of one game.
type State struct {
	ID string

	logger      *zap.Logger
	players     []*Player
	cards       map[string]*Card
	battlefield []*Card
	stack       *rules.Stack
	turn        *rules.TurnManager
	combat      *Combat
	outcome     Outcome
	events      *rules.EventBus
	watchers    *rules.WatcherRegistry
	fog         bool
	skipDraw    bool
}

// NewState creates a game between players, in turn order. The first
// player is active and skips the draw on turn one.
func NewState(logger *zap.Logger, players ...*Player) (*State, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("need at least two players, got %d: %w", len(players), ErrIllegalAction)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	st := &State{
		ID:       uuid.NewString(),
		logger:   logger,
		players:  players,
		cards:    make(map[string]*Card),
		stack:    rules.NewStack(),
		turn:     rules.NewTurnManager(players[0].ID),
		watchers: rules.NewWatcherRegistry(),
		skipDraw: true,
	}
	for _, w := range watchers.Defaults() {
		st.watchers.AddWatcher(w)
	}
	st.wireEvents()
	for _, p := range players {
		for _, zone := range []Zone{ZoneLibrary, ZoneHand, ZoneGraveyard} {
			for _, c := range p.CardsInZone(zone) {
				c.Zone = zone
				st.cards[c.ID] = c
			}
		}
	}
	return st, nil
}

func (st *State) wireEvents() {
	st.events = rules.NewEventBus()
	st.events.Subscribe(st.watchers.NotifyWatchers)
}

// Logger returns the state's logger.
func (st *State) Logger() *zap.Logger { return st.logger }

// Events returns the state's event bus.
func (st *State) Events() *rules.EventBus { return st.events }

// Watcher returns the registered watcher with the given key, or nil.
func (st *State) Watcher(key string) rules.Watcher { return st.watchers.GetWatcher(key) }

// DamageDone returns the turn's damage watcher.
func (st *State) DamageDone() *watchers.DamageDoneWatcher {
	w, _ := st.watchers.GetWatcher(watchers.DamageDoneKey).(*watchers.DamageDoneWatcher)
	return w
}

func (st *State) publish(evt rules.Event) {
	st.events.Publish(evt)
}

// removeFromCombat takes card out of the current combat and reports why.
func (st *State) removeFromCombat(card *Card, reason string) {
	if st.combat == nil || !st.combat.RemoveFromCombat(card) {
		return
	}
	evt := rules.NewEvent(rules.EventRemovedFromCombat, card.ID, card.ID, card.ControllerID)
	evt.Data = reason
	st.publish(evt)
}

// Step returns the current step.
func (st *State) Step() rules.Step { return st.turn.CurrentStep() }

// Phase returns the current phase.
func (st *State) Phase() rules.Phase { return st.turn.CurrentPhase() }

// TurnNumber returns the current turn number.
func (st *State) TurnNumber() int { return st.turn.TurnNumber() }

// ActivePlayer returns the player whose turn it is.
func (st *State) ActivePlayer() *Player {
	return st.PlayerByID(st.turn.ActivePlayer())
}

// IsGameOver reports whether the game has finished.
func (st *State) IsGameOver() bool { return st.outcome.Finished }

// Outcome returns the game's outcome.
func (st *State) Outcome() Outcome { return st.outcome }

// Combat returns the current combat, or nil outside of the combat phase.
func (st *State) Combat() *Combat { return st.combat }

// Stack returns the game's stack.
func (st *State) Stack() *rules.Stack { return st.stack }

// FogActive reports whether combat damage is prevented this turn.
func (st *State) FogActive() bool { return st.fog }

// SetSkipFirstDraw controls whether the starting player skips their first draw.
func (st *State) SetSkipFirstDraw(skip bool) { st.skipDraw = skip }

// Players returns every player in turn order.
func (st *State) Players() []*Player { return slices.Clone(st.players) }

// PlayerByID returns the player with the given ID, or nil.
func (st *State) PlayerByID(id string) *Player {
	for _, p := range st.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CardByID returns the card with the given ID, or nil.
func (st *State) CardByID(id string) *Card { return st.cards[id] }

// Opponents returns the players still in the game other than p, in turn order.
func (st *State) Opponents(p *Player) []*Player {
	var opps []*Player
	for _, other := range st.players {
		if other != p && !other.Lost {
			opps = append(opps, other)
		}
	}
	return opps
}

// WeakestOpponent returns p's opponent with the lowest life total. Ties go
// to the opponent earliest in turn order.
func (st *State) WeakestOpponent(p *Player) *Player {
	var weakest *Player
	for _, opp := range st.Opponents(p) {
		if weakest == nil || opp.Life < weakest.Life {
			weakest = opp
		}
	}
	return weakest
}

// Battlefield returns every permanent in play, in the order they entered.
func (st *State) Battlefield() []*Card { return slices.Clone(st.battlefield) }

// PermanentsOf returns the permanents p controls.
func (st *State) PermanentsOf(p *Player) []*Card {
	var out []*Card
	for _, c := range st.battlefield {
		if c.ControllerID == p.ID {
			out = append(out, c)
		}
	}
	return out
}

// CreaturesInPlay returns the creatures p controls.
func (st *State) CreaturesInPlay(p *Player) []*Card {
	var out []*Card
	for _, c := range st.battlefield {
		if c.ControllerID == p.ID && c.IsCreature() {
			out = append(out, c)
		}
	}
	return out
}

// CardsIn returns every card in a zone across all players.
func (st *State) CardsIn(zone Zone) []*Card {
	switch zone {
	case ZoneBattlefield:
		return st.Battlefield()
	case ZoneStack:
		var out []*Card
		for _, item := range st.stack.Items() {
			if c := st.cards[item.SourceID]; c != nil {
				out = append(out, c)
			}
		}
		return out
	}
	var out []*Card
	for _, p := range st.players {
		out = append(out, p.CardsInZone(zone)...)
	}
	return out
}

// CardsInFor returns the cards p controls in a zone.
func (st *State) CardsInFor(p *Player, zone Zone) []*Card {
	if zone == ZoneBattlefield {
		return st.PermanentsOf(p)
	}
	if zone == ZoneStack {
		var out []*Card
		for _, c := range st.CardsIn(ZoneStack) {
			if c.ControllerID == p.ID {
				out = append(out, c)
			}
		}
		return out
	}
	return slices.Clone(p.CardsInZone(zone))
}

// AvailableMana returns how many untapped mana sources p controls.
func (st *State) AvailableMana(p *Player) int {
	n := 0
	for _, c := range st.PermanentsOf(p) {
		if c.IsLand() && !c.Tapped {
			n++
		}
	}
	return n
}

// AddCard registers a new card with the game and puts it into zone under
// its owner's control.
func (st *State) AddCard(card *Card, zone Zone) error {
	owner := st.PlayerByID(card.OwnerID)
	if owner == nil {
		return fmt.Errorf("owner %s of %s: %w", card.OwnerID, card.Name, ErrNotFound)
	}
	st.cards[card.ID] = card
	card.ControllerID = owner.ID
	card.Zone = zone
	if zone == ZoneBattlefield {
		st.enterBattlefield(card)
		return nil
	}
	if slice := owner.zoneSlice(zone); slice != nil {
		*slice = append(*slice, card)
		return nil
	}
	return fmt.Errorf("cannot add %s to %s: %w", card.Name, zone, ErrIllegalAction)
}

func (st *State) enterBattlefield(card *Card) {
	card.Zone = ZoneBattlefield
	card.Sick = true
	if card.IsPlaneswalker() && card.CurrentLoyalty() == 0 && card.Loyalty > 0 {
		card.Counters.AddCounter(counters.NewCounter(counters.Loyalty, card.Loyalty))
	}
	st.battlefield = append(st.battlefield, card)
}

// moveCard moves a card from wherever it is to zone. Cards leaving the
// battlefield lose their damage, pumps, counters and attachments.
func (st *State) moveCard(card *Card, zone Zone) {
	from := card.Zone
	switch from {
	case ZoneBattlefield:
		st.battlefield, _ = removeCard(st.battlefield, card)
		st.removeFromCombat(card, "left the battlefield")
		if card.AttachedTo != nil {
			card.AttachedTo.Attachments, _ = removeCard(card.AttachedTo.Attachments, card)
			card.AttachedTo = nil
		}
		for _, att := range card.Attachments {
			att.AttachedTo = nil
		}
		card.Attachments = nil
		card.Tapped = false
		card.Damage = 0
		card.Deathtouched = false
		card.PumpPower, card.PumpToughness = 0, 0
		card.Counters = counters.NewCounters()
		card.animated = false
	case ZoneStack:
		// The stack item is popped by the resolver.
	default:
		if owner := st.PlayerByID(card.OwnerID); owner != nil {
			if slice := owner.zoneSlice(from); slice != nil {
				*slice, _ = removeCard(*slice, card)
			}
		}
	}

	if zone == ZoneBattlefield {
		st.enterBattlefield(card)
	} else {
		card.ControllerID = card.OwnerID
		card.Zone = zone
		if owner := st.PlayerByID(card.OwnerID); owner != nil {
			if slice := owner.zoneSlice(zone); slice != nil {
				*slice = append(*slice, card)
			}
		}
	}
	evt := rules.NewEvent(rules.EventZoneChange, card.ID, card.ID, card.ControllerID)
	evt.Data = from.String() + ">" + zone.String()
	st.publish(evt)
}

// Draw moves the top card of p's library to their hand. Drawing from an
// empty library makes p lose at the next state-based action check.
func (st *State) Draw(p *Player) {
	if len(p.Library) == 0 {
		p.drewFromEmpty = true
		return
	}
	card := p.Library[0]
	st.moveCard(card, ZoneHand)
	st.publish(rules.NewEvent(rules.EventDrewCard, card.ID, card.ID, p.ID))
}

// nextPlayer returns the player after the active one in turn order,
// skipping players who lost.
func (st *State) nextPlayer() *Player {
	active := st.turn.ActivePlayer()
	idx := slices.IndexFunc(st.players, func(p *Player) bool { return p.ID == active })
	for i := 1; i <= len(st.players); i++ {
		p := st.players[(idx+i)%len(st.players)]
		if !p.Lost {
			return p
		}
	}
	return st.players[idx]
}
