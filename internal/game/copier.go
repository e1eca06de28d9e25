package game

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// ClonedState is an independent copy of a game together with the mapping
// from the original's players and cards to their copies. Nothing done to
// the copy is visible in the original.
type ClonedState struct {
	*State

	players map[*Player]*Player
	cards   map[*Card]*Card
}

// Clone deep-copies st. Loggers and combat controllers are shared; every
// piece of game state is duplicated and every reference inside the copy
// points at copied objects.
func Clone(st *State) *ClonedState {
	cs := &ClonedState{
		players: make(map[*Player]*Player, len(st.players)),
		cards:   make(map[*Card]*Card, len(st.cards)),
	}
	cpy := &State{
		ID:       uuid.NewString(),
		logger:   st.logger,
		cards:    make(map[string]*Card, len(st.cards)),
		stack:    st.stack.Clone(),
		turn:     st.turn.Copy(),
		watchers: st.watchers.Copy(),
		fog:      st.fog,
		skipDraw: st.skipDraw,
		outcome: Outcome{
			Finished: st.outcome.Finished,
			Winners:  slices.Clone(st.outcome.Winners),
		},
	}
	cs.State = cpy

	for id, c := range st.cards {
		cc := copyCard(c)
		cs.cards[c] = cc
		cpy.cards[id] = cc
	}
	// Attachment links can only be rewired once every card has a copy.
	for orig, cc := range cs.cards {
		cc.AttachedTo = cs.card(orig.AttachedTo)
		cc.Attachments = cs.cardList(orig.Attachments)
	}

	cpy.players = make([]*Player, 0, len(st.players))
	for _, p := range st.players {
		pc := *p
		pc.Library = cs.cardList(p.Library)
		pc.Hand = cs.cardList(p.Hand)
		pc.Graveyard = cs.cardList(p.Graveyard)
		cs.players[p] = &pc
		cpy.players = append(cpy.players, &pc)
	}
	cpy.battlefield = cs.cardList(st.battlefield)

	if st.combat != nil {
		combat := &Combat{
			attackingPlayerID: st.combat.attackingPlayerID,
			defenders:         make(map[string]string, len(st.combat.defenders)),
			defenderOrder:     slices.Clone(st.combat.defenderOrder),
			blocksDeclared:    st.combat.blocksDeclared,
			firstStrikers:     make(map[string]bool, len(st.combat.firstStrikers)),
		}
		for k, v := range st.combat.defenders {
			combat.defenders[k] = v
		}
		for k, v := range st.combat.firstStrikers {
			combat.firstStrikers[k] = v
		}
		for _, g := range st.combat.groups {
			combat.groups = append(combat.groups, &combatGroup{
				attacker:          cs.card(g.attacker),
				defenderID:        g.defenderID,
				defendingPlayerID: g.defendingPlayerID,
				blockers:          cs.cardList(g.blockers),
				blocked:           g.blocked,
			})
		}
		cpy.combat = combat
	}

	cpy.wireEvents()
	return cs
}

func (cs *ClonedState) card(c *Card) *Card {
	if c == nil {
		return nil
	}
	if cc, ok := cs.cards[c]; ok {
		return cc
	}
	// Cards the game never registered, such as AI scratch copies, are
	// copied on first sight so the clone stays isolated.
	cc := copyCard(c)
	cs.cards[c] = cc
	return cc
}

func (cs *ClonedState) cardList(cards []*Card) []*Card {
	if cards == nil {
		return nil
	}
	out := make([]*Card, len(cards))
	for i, c := range cards {
		out[i] = cs.card(c)
	}
	return out
}

// FindPlayer returns the copy of a player from the original game.
func (cs *ClonedState) FindPlayer(p *Player) (*Player, error) {
	if p == nil {
		return nil, fmt.Errorf("nil player: %w", ErrNotFound)
	}
	if pc, ok := cs.players[p]; ok {
		return pc, nil
	}
	// Accept players of the copy itself and players matched by ID.
	for _, pc := range cs.State.players {
		if pc == p || pc.ID == p.ID {
			return pc, nil
		}
	}
	return nil, fmt.Errorf("player %s: %w", p.ID, ErrNotFound)
}

// FindCard returns the copy of a card from the original game.
func (cs *ClonedState) FindCard(c *Card) (*Card, error) {
	if c == nil {
		return nil, fmt.Errorf("nil card: %w", ErrNotFound)
	}
	if cc, ok := cs.cards[c]; ok {
		return cc, nil
	}
	if cc := cs.State.cards[c.ID]; cc != nil {
		return cc, nil
	}
	return nil, fmt.Errorf("card %s: %w", c.ID, ErrNotFound)
}
