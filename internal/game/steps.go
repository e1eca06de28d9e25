package game

import (
	"fmt"

	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"go.uber.org/zap"
)

// AdvanceToStep runs the game forward within the current turn until step
// has begun. resolveStack is called before leaving each step so the host
// can empty the stack; it may be nil.
func (st *State) AdvanceToStep(step rules.Step, resolveStack func()) error {
	if step.IsBefore(st.Step()) {
		return fmt.Errorf("advance to %s from %s: %w", step, st.Step(), ErrIllegalAction)
	}
	turn := st.TurnNumber()
	for !st.IsGameOver() && st.TurnNumber() == turn && st.Step().IsBefore(step) {
		if resolveStack != nil {
			resolveStack()
		}
		st.CheckStateBasedActions()
		if st.IsGameOver() {
			break
		}
		if err := st.nextStep(); err != nil {
			return err
		}
	}
	st.CheckStateBasedActions()
	return nil
}

// NextTurn runs the rest of the current turn, resolving anything on the
// stack against the active player's weakest opponent, and begins the next turn.
func (st *State) NextTurn() error {
	turn := st.TurnNumber()
	for !st.IsGameOver() && st.TurnNumber() == turn {
		active := st.ActivePlayer()
		if err := st.ResolveStack(st.WeakestOpponent(active)); err != nil {
			return err
		}
		st.CheckStateBasedActions()
		if st.IsGameOver() {
			break
		}
		if err := st.nextStep(); err != nil {
			return err
		}
	}
	return nil
}

// nextStep ends the current step and begins the next one.
func (st *State) nextStep() error {
	_, step := st.turn.AdvanceStep(st.nextPlayer().ID)
	st.publish(rules.NewEvent(rules.EventStepChanged, "", "", st.turn.ActivePlayer()))
	return st.beginStep(step)
}

// SetStep jumps to step within the current turn without running any
// turn-based actions. Hosts use it to set up positions.
func (st *State) SetStep(step rules.Step) error {
	if !st.turn.SetStep(step) {
		return fmt.Errorf("step %s: %w", step, ErrNotFound)
	}
	if step.IsAfter(rules.StepBeginCombat) && step.IsBefore(rules.StepMain2) && st.combat == nil {
		st.beginCombat()
	}
	return nil
}

func (st *State) beginStep(step rules.Step) error {
	active := st.ActivePlayer()
	switch step {
	case rules.StepUntap:
		st.beginTurn(active)
	case rules.StepDraw:
		if st.skipDraw && st.TurnNumber() == 1 {
			return nil
		}
		st.Draw(active)
	case rules.StepBeginCombat:
		st.beginCombat()
	case rules.StepDeclareAttackers:
		return st.declareAttackersStep(active)
	case rules.StepDeclareBlockers:
		return st.declareBlockersStep()
	case rules.StepFirstStrikeDamage:
		st.combatDamageStep(true)
	case rules.StepCombatDamage:
		st.combatDamageStep(false)
	case rules.StepEndCombat:
		st.combat = nil
	case rules.StepCleanup:
		st.cleanup(active)
	}
	return nil
}

func (st *State) beginTurn(active *Player) {
	st.watchers.ResetWatchers()
	active.LandsPlayed = 0
	for _, c := range st.PermanentsOf(active) {
		c.Tapped = false
		c.Sick = false
	}
	st.publish(rules.NewEvent(rules.EventBeginTurn, "", "", active.ID))
	st.logger.Debug("turn started",
		zap.Int("turn", st.TurnNumber()),
		zap.String("player", active.Name),
	)
}

func (st *State) beginCombat() {
	active := st.ActivePlayer()
	st.combat = newCombat(active.ID)
	for _, opp := range st.Opponents(active) {
		st.combat.addDefender(opp.ID, opp.ID)
		for _, c := range st.PermanentsOf(opp) {
			if c.IsPlaneswalker() {
				st.combat.addDefender(c.ID, opp.ID)
			}
		}
	}
}

func (st *State) declareAttackersStep(active *Player) error {
	if st.combat == nil {
		st.beginCombat()
	}
	if active.Controller != nil {
		if err := active.Controller.DeclareAttackers(st, active); err != nil {
			return fmt.Errorf("declare attackers for %s: %w", active.Name, err)
		}
	}
	for _, attacker := range st.combat.Attackers() {
		if !st.CanAttack(attacker, st.combat.DefenderOf(attacker)) {
			st.removeFromCombat(attacker, "illegal attacker")
			continue
		}
		if !attacker.HasKeyword(KeywordVigilance) {
			attacker.Tapped = true
		}
		st.publish(rules.NewEvent(rules.EventAttackerDeclared, st.combat.DefenderOf(attacker), attacker.ID, active.ID))
	}
	return nil
}

func (st *State) declareBlockersStep() error {
	if st.combat == nil || len(st.combat.Attackers()) == 0 {
		return nil
	}
	for _, p := range st.Opponents(st.ActivePlayer()) {
		if p.Controller == nil || len(st.combat.AttackersOfPlayer(p.ID)) == 0 {
			continue
		}
		if err := p.Controller.DeclareBlockers(st, p); err != nil {
			return fmt.Errorf("declare blockers for %s: %w", p.Name, err)
		}
	}

	for _, attacker := range st.combat.Attackers() {
		blockers := st.combat.Blockers(attacker)
		for _, b := range blockers {
			if !st.CanBlock(attacker, b, st.combat) {
				st.removeFromCombat(b, "illegal blocker")
			}
		}
		blockers = st.combat.Blockers(attacker)
		if !st.CanAttackerBeBlockedWithAmount(attacker, len(blockers)) {
			for _, b := range blockers {
				st.removeFromCombat(b, "too few blockers")
			}
			continue
		}
		for _, b := range blockers {
			if b.CantBlockAlone && len(st.combat.AllBlockers()) == 1 {
				st.removeFromCombat(b, "cannot block alone")
				continue
			}
			st.publish(rules.NewEvent(rules.EventBlockerDeclared, attacker.ID, b.ID, b.ControllerID))
		}
	}
	st.combat.blocksDeclared = true

	for _, attacker := range st.combat.Attackers() {
		blockers := st.combat.Blockers(attacker)
		if len(blockers) < 2 {
			continue
		}
		owner := st.PlayerByID(attacker.ControllerID)
		if owner == nil || owner.Controller == nil {
			continue
		}
		if err := st.combat.SetBlockerOrder(attacker, owner.Controller.OrderBlockers(st, attacker, blockers)); err != nil {
			return err
		}
	}
	if st.combat.HasFirstStrikers() {
		st.turn.SetHasFirstStrike(true)
	}
	return nil
}

// combatDamageStep assigns and deals combat damage for one damage step.
// Damage is assigned to blockers in order, lethal damage first; trample
// carries the excess through to the defender.
func (st *State) combatDamageStep(firstStrike bool) {
	combat := st.combat
	if combat == nil || st.fog {
		return
	}

	type assignment struct {
		source, target *Card
		player         *Player
		amount         int
	}
	var assigned []assignment

	for _, g := range combat.groups {
		attacker := g.attacker
		if attacker.Zone != ZoneBattlefield {
			continue
		}
		var live []*Card
		for _, b := range g.blockers {
			if b.Zone == ZoneBattlefield {
				live = append(live, b)
			}
		}
		for _, b := range live {
			if !combat.dealsDamageThisStep(b, firstStrike) {
				continue
			}
			if firstStrike {
				combat.firstStrikers[b.ID] = true
			}
			assigned = append(assigned, assignment{source: b, target: attacker, amount: b.NetCombatDamage()})
		}
		if !combat.dealsDamageThisStep(attacker, firstStrike) {
			continue
		}
		if firstStrike {
			combat.firstStrikers[attacker.ID] = true
		}
		power := attacker.NetCombatDamage()
		trample := attacker.HasKeyword(KeywordTrample)

		toDefender := 0
		switch {
		case !g.blocked:
			toDefender = power
		case len(live) == 0:
			if trample {
				toDefender = power
			}
		default:
			remaining := power
			for i, b := range live {
				amount := min(st.LethalDamage(b, attacker), remaining)
				if i == len(live)-1 && !trample {
					amount = remaining
				}
				assigned = append(assigned, assignment{source: attacker, target: b, amount: amount})
				remaining -= amount
				if remaining <= 0 {
					break
				}
			}
			if trample {
				toDefender = remaining
			}
		}
		if toDefender > 0 {
			if p := st.PlayerByID(g.defenderID); p != nil {
				assigned = append(assigned, assignment{source: attacker, player: p, amount: toDefender})
			} else if pw := st.cards[g.defenderID]; pw != nil && pw.Zone == ZoneBattlefield {
				assigned = append(assigned, assignment{source: attacker, target: pw, amount: toDefender})
			}
		}
	}

	// Combat damage is dealt simultaneously.
	for _, a := range assigned {
		if a.player != nil {
			st.damagePlayer(a.source, a.player, a.amount, true)
		} else {
			st.damagePermanent(a.source, a.target, a.amount)
		}
	}
	st.CheckStateBasedActions()
}

func (st *State) cleanup(active *Player) {
	if !active.UnlimitedHandSize {
		for len(active.Hand) > active.MaxHandSize {
			st.moveCard(active.Hand[len(active.Hand)-1], ZoneGraveyard)
		}
	}
	for _, c := range st.battlefield {
		c.Damage = 0
		c.Deathtouched = false
		c.PumpPower, c.PumpToughness = 0, 0
		c.animated = false
	}
	st.fog = false
}

// CheckStateBasedActions applies state-based actions until none apply and
// reports whether anything happened.
func (st *State) CheckStateBasedActions() bool {
	acted := false
	for {
		changed := false
		for _, p := range st.players {
			if p.Lost {
				continue
			}
			if p.Life <= 0 || p.drewFromEmpty {
				p.Lost = true
				changed = true
				st.publish(rules.NewEvent(rules.EventLost, p.ID, "", p.ID))
				st.logger.Debug("player lost", zap.String("player", p.Name), zap.Int("life", p.Life))
			}
		}

		var dying []*Card
		for _, c := range st.battlefield {
			switch {
			case c.IsCreature() && (c.NetToughness() <= 0 || c.Damage >= c.NetToughness() || (c.Deathtouched && c.Damage > 0)):
				dying = append(dying, c)
			case c.IsPlaneswalker() && !c.IsCreature() && c.CurrentLoyalty() <= 0:
				dying = append(dying, c)
			case c.IsAura() && c.AttachedTo == nil:
				dying = append(dying, c)
			}
		}
		for _, c := range dying {
			creature := c.IsCreature()
			controller := c.ControllerID
			st.moveCard(c, ZoneGraveyard)
			st.publish(rules.NewEventWithFlag(rules.EventPermanentDies, c.ID, c.ID, controller, creature))
			changed = true
		}

		if !changed {
			break
		}
		acted = true
	}
	st.checkIfGameIsOver()
	return acted
}

func (st *State) checkIfGameIsOver() {
	if st.outcome.Finished {
		return
	}
	var remaining []string
	for _, p := range st.players {
		if !p.Lost {
			remaining = append(remaining, p.ID)
		}
	}
	if len(remaining) <= 1 {
		st.outcome = Outcome{Finished: true, Winners: remaining}
		st.logger.Debug("game over", zap.Strings("winners", remaining), zap.Int("turn", st.TurnNumber()))
	}
}
