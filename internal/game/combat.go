package game

import (
	"fmt"
	"slices"
)

// combatGroup is one attacker, what it attacks, and the creatures blocking it.
type combatGroup struct {
	attacker          *Card
	defenderID        string
	defendingPlayerID string
	blockers          []*Card
	blocked           bool
}

// Combat tracks the attack and block assignments of one combat phase.
type Combat struct {
	attackingPlayerID string
	// defenders maps every attackable player or planeswalker to the player defending it.
	defenders      map[string]string
	defenderOrder  []string
	groups         []*combatGroup
	blocksDeclared bool
	firstStrikers  map[string]bool
}

func newCombat(attackingPlayerID string) *Combat {
	return &Combat{
		attackingPlayerID: attackingPlayerID,
		defenders:         make(map[string]string),
		firstStrikers:     make(map[string]bool),
	}
}

func (c *Combat) addDefender(defenderID, defendingPlayerID string) {
	if _, ok := c.defenders[defenderID]; ok {
		return
	}
	c.defenders[defenderID] = defendingPlayerID
	c.defenderOrder = append(c.defenderOrder, defenderID)
}

// AttackingPlayerID returns the ID of the player whose creatures attack.
func (c *Combat) AttackingPlayerID() string { return c.attackingPlayerID }

// Defenders returns every player and planeswalker that can be attacked.
func (c *Combat) Defenders() []string { return slices.Clone(c.defenderOrder) }

// DefendingPlayerOf returns the player defending defenderID, or "".
func (c *Combat) DefendingPlayerOf(defenderID string) string { return c.defenders[defenderID] }

func (c *Combat) group(attacker *Card) *combatGroup {
	for _, g := range c.groups {
		if g.attacker == attacker {
			return g
		}
	}
	return nil
}

func (c *Combat) groupOfBlocker(blocker *Card) *combatGroup {
	for _, g := range c.groups {
		if slices.Contains(g.blockers, blocker) {
			return g
		}
	}
	return nil
}

// AddAttacker declares attacker as attacking defenderID.
func (c *Combat) AddAttacker(attacker *Card, defenderID string) error {
	defendingPlayer, ok := c.defenders[defenderID]
	if !ok {
		return fmt.Errorf("%s is not a defender: %w", defenderID, ErrIllegalAction)
	}
	if attacker.ControllerID != c.attackingPlayerID {
		return fmt.Errorf("%s is not controlled by the attacking player: %w", attacker.Name, ErrIllegalAction)
	}
	if c.group(attacker) != nil {
		return fmt.Errorf("%s is already attacking: %w", attacker.Name, ErrIllegalAction)
	}
	c.groups = append(c.groups, &combatGroup{
		attacker:          attacker,
		defenderID:        defenderID,
		defendingPlayerID: defendingPlayer,
	})
	return nil
}

// AddBlocker declares blocker as blocking attacker.
func (c *Combat) AddBlocker(attacker, blocker *Card) error {
	g := c.group(attacker)
	if g == nil {
		return fmt.Errorf("%s is not attacking: %w", attacker.Name, ErrIllegalAction)
	}
	if c.groupOfBlocker(blocker) != nil {
		return fmt.Errorf("%s is already blocking: %w", blocker.Name, ErrIllegalAction)
	}
	g.blockers = append(g.blockers, blocker)
	g.blocked = true
	return nil
}

// RemoveFromCombat removes a creature as attacker or blocker. Before blocks
// are locked in, an attacker that loses its last blocker is unblocked again.
func (c *Combat) RemoveFromCombat(card *Card) bool {
	for i, g := range c.groups {
		if g.attacker == card {
			c.groups = append(c.groups[:i:i], c.groups[i+1:]...)
			return true
		}
		if blockers, ok := removeCard(g.blockers, card); ok {
			g.blockers = blockers
			if !c.blocksDeclared {
				g.blocked = len(blockers) > 0
			}
			return true
		}
	}
	return false
}

// Attackers returns every attacking creature in declaration order.
func (c *Combat) Attackers() []*Card {
	out := make([]*Card, 0, len(c.groups))
	for _, g := range c.groups {
		out = append(out, g.attacker)
	}
	return out
}

// AttackersOf returns the creatures attacking defenderID.
func (c *Combat) AttackersOf(defenderID string) []*Card {
	var out []*Card
	for _, g := range c.groups {
		if g.defenderID == defenderID {
			out = append(out, g.attacker)
		}
	}
	return out
}

// AttackersOfPlayer returns the creatures attacking playerID or a
// planeswalker that player controls.
func (c *Combat) AttackersOfPlayer(playerID string) []*Card {
	var out []*Card
	for _, g := range c.groups {
		if g.defendingPlayerID == playerID {
			out = append(out, g.attacker)
		}
	}
	return out
}

// Blockers returns the creatures blocking attacker in damage assignment order.
func (c *Combat) Blockers(attacker *Card) []*Card {
	if g := c.group(attacker); g != nil {
		return slices.Clone(g.blockers)
	}
	return nil
}

// AllBlockers returns every blocking creature.
func (c *Combat) AllBlockers() []*Card {
	var out []*Card
	for _, g := range c.groups {
		out = append(out, g.blockers...)
	}
	return out
}

// IsAttacking reports whether card is an attacker.
func (c *Combat) IsAttacking(card *Card) bool { return c.group(card) != nil }

// IsBlocking reports whether card is a blocker.
func (c *Combat) IsBlocking(card *Card) bool { return c.groupOfBlocker(card) != nil }

// IsBlocked reports whether attacker became blocked.
func (c *Combat) IsBlocked(attacker *Card) bool {
	g := c.group(attacker)
	return g != nil && g.blocked
}

// BlockedAttacker returns the attacker blocker is blocking, or nil.
func (c *Combat) BlockedAttacker(blocker *Card) *Card {
	if g := c.groupOfBlocker(blocker); g != nil {
		return g.attacker
	}
	return nil
}

// DefenderOf returns the ID of what attacker is attacking.
func (c *Combat) DefenderOf(attacker *Card) string {
	if g := c.group(attacker); g != nil {
		return g.defenderID
	}
	return ""
}

// DefendingPlayerID returns the ID of the player defending against attacker.
func (c *Combat) DefendingPlayerID(attacker *Card) string {
	if g := c.group(attacker); g != nil {
		return g.defendingPlayerID
	}
	return ""
}

// SetBlockerOrder replaces the damage assignment order of attacker's blockers.
// order must contain exactly the current blockers.
func (c *Combat) SetBlockerOrder(attacker *Card, order []*Card) error {
	g := c.group(attacker)
	if g == nil {
		return fmt.Errorf("%s is not attacking: %w", attacker.Name, ErrIllegalAction)
	}
	if len(order) != len(g.blockers) {
		return fmt.Errorf("blocker order for %s has %d entries, want %d: %w", attacker.Name, len(order), len(g.blockers), ErrIllegalAction)
	}
	for _, b := range order {
		if !slices.Contains(g.blockers, b) {
			return fmt.Errorf("%s does not block %s: %w", b.Name, attacker.Name, ErrIllegalAction)
		}
	}
	g.blockers = slices.Clone(order)
	return nil
}

// HasFirstStrikers reports whether any creature in combat deals first strike damage.
func (c *Combat) HasFirstStrikers() bool {
	for _, g := range c.groups {
		if g.attacker.HasFirstOrDoubleStrike() {
			return true
		}
		for _, b := range g.blockers {
			if b.HasFirstOrDoubleStrike() {
				return true
			}
		}
	}
	return false
}

// dealsDamageThisStep reports whether a creature deals damage in the given damage step.
func (c *Combat) dealsDamageThisStep(creature *Card, firstStrike bool) bool {
	if firstStrike {
		return creature.HasFirstOrDoubleStrike()
	}
	return creature.HasKeyword(KeywordDoubleStrike) || !c.firstStrikers[creature.ID]
}
