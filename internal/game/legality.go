package game

import (
	"github.com/magefree/mage-goldfish-go/internal/game/mana"
)

// isAttackable reports whether defenderID is a player or planeswalker that
// an attacker controlled by controllerID may attack.
func (st *State) isAttackable(controllerID, defenderID string) bool {
	if p := st.PlayerByID(defenderID); p != nil {
		return p.ID != controllerID && !p.Lost
	}
	if pw := st.cards[defenderID]; pw != nil {
		return pw.Zone == ZoneBattlefield && pw.IsPlaneswalker() && pw.ControllerID != controllerID
	}
	return false
}

func (st *State) canAttack(c *Card, defenderID string, nextTurn bool) bool {
	if c == nil || c.Zone != ZoneBattlefield || !c.IsCreature() {
		return false
	}
	if c.HasKeyword(KeywordDefender) {
		return false
	}
	if !nextTurn && (c.Tapped || c.IsSick()) {
		return false
	}
	if defenderID != "" && !st.isAttackable(c.ControllerID, defenderID) {
		return false
	}
	return !st.restrictedByBridge(c)
}

// restrictedByBridge applies Ensnaring Bridge style restrictions.
func (st *State) restrictedByBridge(c *Card) bool {
	for _, perm := range st.battlefield {
		if perm.Static != StaticEnsnaringBridge {
			continue
		}
		owner := st.PlayerByID(perm.ControllerID)
		if owner != nil && c.NetPower() > len(owner.Hand) {
			return true
		}
	}
	return false
}

// CanAttack reports whether c can attack defenderID right now. An empty
// defenderID checks the creature alone.
func (st *State) CanAttack(c *Card, defenderID string) bool {
	return st.canAttack(c, defenderID, false)
}

// CanAttackNextTurn reports whether c could attack defenderID on its
// controller's next turn, ignoring summoning sickness and tapped status.
func (st *State) CanAttackNextTurn(c *Card, defenderID string) bool {
	return st.canAttack(c, defenderID, true)
}

func (st *State) canBlock(attacker, blocker *Card, combat *Combat, nextTurn bool) bool {
	if attacker == nil || blocker == nil || !blocker.IsCreature() {
		return false
	}
	if !nextTurn && blocker.Tapped {
		return false
	}
	if blocker.ControllerID == attacker.ControllerID {
		return false
	}
	if !st.CanBeBlocked(attacker) {
		return false
	}
	if attacker.HasKeyword(KeywordFlying) && !blocker.HasKeyword(KeywordFlying) && !blocker.HasKeyword(KeywordReach) {
		return false
	}
	if combat != nil {
		if !combat.IsAttacking(attacker) || combat.DefendingPlayerID(attacker) != blocker.ControllerID {
			return false
		}
		if other := combat.BlockedAttacker(blocker); other != nil && other != attacker {
			return false
		}
	}
	return true
}

// CanBlock reports whether blocker can block attacker. With a nil combat
// the check ignores whether the attacker is actually attacking blocker's controller.
func (st *State) CanBlock(attacker, blocker *Card, combat *Combat) bool {
	return st.canBlock(attacker, blocker, combat, false)
}

// CanBlockNextTurn is CanBlock for the opponent's next turn, when blocker will have untapped.
func (st *State) CanBlockNextTurn(attacker, blocker *Card) bool {
	return st.canBlock(attacker, blocker, nil, true)
}

// CanBlockAny reports whether blocker is able to block at all.
func (st *State) CanBlockAny(blocker *Card) bool {
	return blocker != nil && blocker.IsCreature() && !blocker.Tapped
}

// CanBeBlocked reports whether attacker can be blocked by anything.
func (st *State) CanBeBlocked(attacker *Card) bool {
	return !attacker.HasKeyword(KeywordUnblockable)
}

// MinBlockers returns the minimum number of creatures needed to block attacker.
func (st *State) MinBlockers(attacker *Card) int {
	if attacker.HasKeyword(KeywordMenace) {
		return 2
	}
	return 1
}

// CanAttackerBeBlockedWithAmount reports whether amount blockers is a legal block of attacker.
func (st *State) CanAttackerBeBlockedWithAmount(attacker *Card, amount int) bool {
	if amount == 0 {
		return true
	}
	return st.CanBeBlocked(attacker) && amount >= st.MinBlockers(attacker)
}

// LethalDamage returns the damage source must deal to destroy creature.
// Any damage from a deathtouch source is lethal.
func (st *State) LethalDamage(creature, source *Card) int {
	lethal := max(creature.NetToughness()-creature.Damage, 0)
	if creature.IsPlaneswalker() && !creature.IsCreature() {
		lethal = creature.CurrentLoyalty()
	}
	if source != nil && source.HasKeyword(KeywordDeathtouch) && lethal > 1 {
		lethal = 1
	}
	return lethal
}

// manaPool builds the mana p could produce from untapped lands.
func (st *State) manaPool(p *Player, exclude ...*Card) (*mana.ManaPool, []*Card) {
	pool := mana.NewManaPool()
	var sources []*Card
	for _, c := range st.battlefield {
		if c.ControllerID != p.ID || !c.IsLand() || c.Tapped || c.Produces == "" {
			continue
		}
		if containsCard(exclude, c) {
			continue
		}
		pool.AddSymbol(c.Produces)
		sources = append(sources, c)
	}
	return pool, sources
}

// CanPayCost reports whether p's untapped lands, other than exclude, can pay cost.
func (st *State) CanPayCost(cost mana.ManaCost, p *Player, exclude ...*Card) bool {
	pool, _ := st.manaPool(p, exclude...)
	return cost.CanPay(pool, 0)
}

// payCost taps lands to pay cost, colored requirements first.
func (st *State) payCost(cost mana.ManaCost, p *Player, exclude ...*Card) error {
	pool, sources := st.manaPool(p, exclude...)
	if !cost.CanPay(pool, 0) {
		return ErrIllegalAction
	}
	used := make(map[*Card]bool)
	for mt, n := range cost.ColoredRequirements() {
		for _, src := range sources {
			if n == 0 {
				break
			}
			if !used[src] && mana.TypeOfSymbol(src.Produces) == mt {
				used[src] = true
				n--
			}
		}
	}
	generic := cost.Generic
	// Spend colorless sources on generic first to keep colors open.
	for _, pass := range []bool{true, false} {
		for _, src := range sources {
			if generic == 0 {
				break
			}
			colorless := mana.TypeOfSymbol(src.Produces) == mana.ManaColorless
			if !used[src] && colorless == pass {
				used[src] = true
				generic--
			}
		}
	}
	for _, src := range sources {
		if used[src] {
			src.Tapped = true
		}
	}
	return nil
}

func containsCard(cards []*Card, card *Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}
