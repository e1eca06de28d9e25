// Package combat decides attacks, blocks and damage assignment order for
// an AI player.
package combat

import (
	"fmt"

	"github.com/magefree/mage-goldfish-go/internal/game"
	"go.uber.org/zap"
)

// AttackController decides which of a player's creatures attack.
type AttackController struct {
	logger   *zap.Logger
	st       *game.State
	player   *game.Player
	defender *game.Player
	// nextTurn includes creatures that can only attack or block next turn.
	nextTurn bool

	attackers []*game.Card
	blockers  []*game.Card
	oppList   []*game.Card
	myList    []*game.Card
}

// NewAttackController prepares attack decisions for p against its weakest
// opponent. With nextTurn set, creatures that could attack next turn count
// as attackers.
func NewAttackController(st *game.State, p *game.Player, nextTurn bool, logger *zap.Logger) *AttackController {
	if logger == nil {
		logger = zap.NewNop()
	}
	ac := &AttackController{
		logger:   logger,
		st:       st,
		player:   p,
		defender: st.WeakestOpponent(p),
		nextTurn: nextTurn,
		myList:   st.CreaturesInPlay(p),
	}
	ac.refreshCombatants()
	return ac
}

// NewSingleAttackController prepares attack decisions for one attacker.
func NewSingleAttackController(st *game.State, p *game.Player, attacker *game.Card, logger *zap.Logger) *AttackController {
	if logger == nil {
		logger = zap.NewNop()
	}
	ac := &AttackController{
		logger:   logger,
		st:       st,
		player:   p,
		defender: st.WeakestOpponent(p),
		myList:   st.CreaturesInPlay(p),
	}
	if ac.defender == nil {
		return ac
	}
	ac.oppList = OpponentCreatures(st, ac.defender)
	if st.CanAttack(attacker, ac.defender.ID) {
		ac.attackers = append(ac.attackers, attacker)
	}
	ac.blockers = PossibleBlockers(st, ac.oppList, ac.attackers, false)
	return ac
}

func (ac *AttackController) refreshCombatants() {
	if ac.defender == nil {
		return
	}
	ac.oppList = OpponentCreatures(ac.st, ac.defender)
	ac.attackers = nil
	for _, c := range ac.myList {
		if ac.canAttack(c) {
			ac.attackers = append(ac.attackers, c)
		}
	}
	ac.blockers = PossibleBlockers(ac.st, ac.oppList, ac.attackers, ac.nextTurn)
}

func (ac *AttackController) canAttack(c *game.Card) bool {
	if ac.nextTurn {
		return ac.st.CanAttackNextTurn(c, ac.defender.ID)
	}
	return ac.st.CanAttack(c, ac.defender.ID)
}

// Defender returns the opponent attacks are aimed at, or nil.
func (ac *AttackController) Defender() *game.Player { return ac.defender }

// Attackers returns the creatures able to attack.
func (ac *AttackController) Attackers() []*game.Card { return ac.attackers }

// Blockers returns the opposing creatures able to block at least one attacker.
func (ac *AttackController) Blockers() []*game.Card { return ac.blockers }

// OpponentCreatures returns the defender's creatures plus animated copies
// of lands and other permanents the defender could turn into creatures.
func (ac *AttackController) OpponentCreatures() []*game.Card { return ac.oppList }

// OpponentCreatures lists defender's creatures, adding a detached animated
// copy of every untapped permanent whose animate ability defender can pay for.
func OpponentCreatures(st *game.State, defender *game.Player) []*game.Card {
	defenders := st.CreaturesInPlay(defender)
	for _, c := range st.PermanentsOf(defender) {
		if c.Tapped || c.IsCreature() || c.IsPlaneswalker() || c.Token || c.Animate == nil {
			continue
		}
		if st.CanPayCost(c.Animate.Cost, defender, c) {
			defenders = append(defenders, c.AnimatedCopy())
		}
	}
	return defenders
}

// PossibleBlockers filters blockers down to those able to block at least one attacker.
func PossibleBlockers(st *game.State, blockers, attackers []*game.Card, nextTurn bool) []*game.Card {
	var out []*game.Card
	for _, b := range blockers {
		if CanBlockAnAttacker(st, b, attackers, nextTurn) {
			out = append(out, b)
		}
	}
	return out
}

// CanBlockAnAttacker reports whether c could block any of attackers.
func CanBlockAnAttacker(st *game.State, c *game.Card, attackers []*game.Card, nextTurn bool) bool {
	return CardCanBlockAnAttacker(st, c, attackers, nextTurn) != nil
}

// CardCanBlockAnAttacker returns the first attacker c could block, or nil.
func CardCanBlockAnAttacker(st *game.State, c *game.Card, attackers []*game.Card, nextTurn bool) *game.Card {
	if !c.IsCreature() {
		return nil
	}
	for _, a := range attackers {
		if nextTurn && st.CanBlockNextTurn(a, c) {
			return a
		}
		if !nextTurn && st.CanBlock(a, c, nil) {
			return a
		}
	}
	return nil
}

// DeclareAttackers attacks with every creature that dominates the opposing
// board: its toughness exceeds the power of every opposing creature and its
// power is at least every opposing creature's toughness. It never attacks
// into a block that could kill it or that it could not win or survive.
func (ac *AttackController) DeclareAttackers() error {
	if ac.defender == nil || len(ac.attackers) == 0 {
		return nil
	}
	combat := ac.st.Combat()
	if combat == nil {
		return fmt.Errorf("declare attackers outside combat: %w", game.ErrIllegalAction)
	}

	maxOppPower, maxOppToughness := 0, 0
	for _, c := range ac.oppList {
		maxOppPower = max(maxOppPower, c.NetPower())
		maxOppToughness = max(maxOppToughness, c.NetToughness())
	}

	for _, c := range ac.attackers {
		if !Dominates(c, maxOppPower, maxOppToughness) || !ac.st.CanAttack(c, ac.defender.ID) {
			continue
		}
		if err := combat.AddAttacker(c, ac.defender.ID); err != nil {
			return fmt.Errorf("attack with %s: %w", c.Name, err)
		}
		ac.logger.Debug("attacker declared",
			zap.String("card", c.String()),
			zap.String("defender", ac.defender.Name),
		)
	}
	return nil
}

// Dominates reports whether creature c survives any single block by a
// creature with at most maxPower power and can meet a blocker with up to
// maxToughness toughness.
func Dominates(c *game.Card, maxPower, maxToughness int) bool {
	return c.NetToughness() > maxPower && c.NetPower() >= maxToughness
}
