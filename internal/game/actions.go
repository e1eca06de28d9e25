package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/magefree/mage-goldfish-go/internal/game/counters"
	"github.com/magefree/mage-goldfish-go/internal/game/mana"
	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"github.com/magefree/mage-goldfish-go/internal/game/targeting"
	"go.uber.org/zap"
)

// CanPlaySorcerySpeed reports whether p may play a sorcery-speed card now.
func (st *State) CanPlaySorcerySpeed(p *Player) bool {
	step := st.Step()
	return st.ActivePlayer() == p && (step == rules.StepMain1 || step == rules.StepMain2) && st.stack.IsEmpty()
}

// PlayLand puts a land from p's hand onto the battlefield.
func (st *State) PlayLand(p *Player, card *Card) error {
	if card.Zone != ZoneHand || card.OwnerID != p.ID || !card.IsLand() {
		return fmt.Errorf("play %s: not a land in hand: %w", card.Name, ErrIllegalAction)
	}
	if p.LandsPlayed >= 1 {
		return fmt.Errorf("play %s: land already played this turn: %w", card.Name, ErrIllegalAction)
	}
	if !st.CanPlaySorcerySpeed(p) {
		return fmt.Errorf("play %s: not at sorcery speed: %w", card.Name, ErrIllegalAction)
	}
	st.moveCard(card, ZoneBattlefield)
	p.LandsPlayed++
	st.publish(rules.NewEvent(rules.EventLandPlayed, card.ID, card.ID, p.ID))
	st.logger.Debug("land played", zap.String("player", p.Name), zap.String("card", card.Name))
	return nil
}

// EffectiveCost returns what p would pay to cast card now, taking
// spectacle into account when an opponent lost life this turn.
func (st *State) EffectiveCost(p *Player, card *Card) mana.ManaCost {
	if card.Spectacle != nil {
		damage := st.DamageDone()
		for _, opp := range st.Opponents(p) {
			if damage != nil && damage.DamageTo(opp.ID) > 0 {
				return *card.Spectacle
			}
		}
	}
	return card.ManaCost
}

// CanCast reports whether p could cast card from hand right now.
func (st *State) CanCast(p *Player, card *Card) bool {
	if card.Zone != ZoneHand || card.OwnerID != p.ID || card.IsLand() {
		return false
	}
	if card.IsSorcerySpeed() && !st.CanPlaySorcerySpeed(p) {
		return false
	}
	if card.IsAura() && len(st.CreaturesInPlay(p)) == 0 {
		return false
	}
	return st.CanPayCost(st.EffectiveCost(p, card), p)
}

// CastSpell casts card from p's hand, tapping lands for its cost and
// putting it on the stack. targetID may be empty to choose on resolution.
func (st *State) CastSpell(p *Player, card *Card, targetID string) error {
	if !st.CanCast(p, card) {
		return fmt.Errorf("cast %s: %w", card.Name, ErrIllegalAction)
	}
	if req, ok := card.TargetRequirement(); ok && targetID != "" {
		if err := targeting.NewValidator(st).Validate(targetID, req); err != nil {
			return fmt.Errorf("cast %s: %w: %w", card.Name, ErrIllegalAction, err)
		}
	}
	if err := st.payCost(st.EffectiveCost(p, card), p); err != nil {
		return fmt.Errorf("cast %s: paying cost: %w", card.Name, err)
	}
	st.moveCard(card, ZoneStack)
	card.ControllerID = p.ID
	st.stack.Push(rules.StackItem{
		ID:          uuid.NewString(),
		Controller:  p.ID,
		Description: card.Name,
		Kind:        rules.StackItemKindSpell,
		SourceID:    card.ID,
		TargetID:    targetID,
	})
	st.publish(rules.NewEvent(rules.EventSpellCast, targetID, card.ID, p.ID))
	st.logger.Debug("spell cast",
		zap.String("player", p.Name),
		zap.String("card", card.Name),
		zap.String("target", targetID),
	)

	if !card.IsCreature() {
		for _, c := range st.CreaturesInPlay(p) {
			if c.HasKeyword(KeywordProwess) {
				c.PumpPower++
				c.PumpToughness++
			}
		}
	}
	if card.CMC() <= 3 {
		for _, perm := range st.Battlefield() {
			if perm.Static == StaticPunishSpells {
				st.damagePlayer(perm, p, 2, false)
			}
		}
	}
	return nil
}

// Animate activates card's animate ability, paying with other lands.
func (st *State) Animate(p *Player, card *Card) error {
	if card.Animate == nil || card.Zone != ZoneBattlefield || card.ControllerID != p.ID {
		return fmt.Errorf("animate %s: %w", card.Name, ErrIllegalAction)
	}
	if card.animated {
		return nil
	}
	if err := st.payCost(card.Animate.Cost, p, card); err != nil {
		return fmt.Errorf("animate %s: %w", card.Name, err)
	}
	card.animated = true
	st.publish(rules.NewEvent(rules.EventAnimated, card.ID, card.ID, p.ID))
	return nil
}

// ResolveTop resolves the top item of the stack. Spells without a chosen
// target aim at defaultTarget.
func (st *State) ResolveTop(defaultTarget *Player) error {
	item, err := st.stack.Pop()
	if err != nil {
		return err
	}
	card := st.cards[item.SourceID]
	if card == nil {
		return fmt.Errorf("stack item %s source %s: %w", item.ID, item.SourceID, ErrNotFound)
	}
	controller := st.PlayerByID(item.Controller)
	targetID := item.TargetID
	if targetID == "" && defaultTarget != nil {
		targetID = defaultTarget.ID
	}

	switch {
	case card.IsAura():
		st.resolveAura(card, controller, targetID)
	case card.IsPermanentSpell():
		st.moveCard(card, ZoneBattlefield)
		card.ControllerID = controller.ID
	default:
		st.resolveEffect(card, controller, targetID)
		st.moveCard(card, ZoneGraveyard)
	}
	st.publish(rules.NewEvent(rules.EventSpellResolved, targetID, card.ID, item.Controller))
	return nil
}

// ResolveStack resolves every item on the stack, top first.
func (st *State) ResolveStack(defaultTarget *Player) error {
	for !st.stack.IsEmpty() && !st.IsGameOver() {
		if err := st.ResolveTop(defaultTarget); err != nil {
			return err
		}
		st.CheckStateBasedActions()
	}
	return nil
}

func (st *State) resolveAura(aura *Card, controller *Player, targetID string) {
	target := st.cards[targetID]
	if target == nil || target.Zone != ZoneBattlefield || !target.IsCreature() {
		// Default to the strongest creature the caster controls.
		target = nil
		for _, c := range st.CreaturesInPlay(controller) {
			if target == nil || c.NetPower() > target.NetPower() {
				target = c
			}
		}
	}
	if target == nil {
		st.moveCard(aura, ZoneGraveyard)
		return
	}
	st.moveCard(aura, ZoneBattlefield)
	aura.ControllerID = controller.ID
	aura.AttachedTo = target
	target.Attachments = append(target.Attachments, aura)
}

func (st *State) resolveEffect(card *Card, controller *Player, targetID string) {
	effect := card.Effect
	switch effect.Kind {
	case EffectDamage:
		st.damageTarget(card, targetID, effect.Amount)
	case EffectDamagePlayer:
		if p := st.PlayerByID(targetID); p != nil {
			st.damagePlayer(card, p, effect.Amount, false)
		}
	case EffectDamageCreature:
		if c := st.cards[targetID]; c != nil && c.IsCreature() {
			st.damagePermanent(card, c, effect.Amount)
		}
	case EffectNonbasicDamage:
		for _, p := range st.players {
			nonbasic := 0
			for _, c := range st.PermanentsOf(p) {
				if c.IsLand() && !c.Basic {
					nonbasic++
				}
			}
			st.damagePlayer(card, p, effect.Amount*nonbasic, false)
		}
	case EffectFog:
		st.fog = true
	}
}

// damageTarget deals damage to a player or permanent by ID.
func (st *State) damageTarget(source *Card, targetID string, amount int) {
	if p := st.PlayerByID(targetID); p != nil {
		st.damagePlayer(source, p, amount, false)
		return
	}
	if c := st.cards[targetID]; c != nil && c.Zone == ZoneBattlefield {
		st.damagePermanent(source, c, amount)
	}
}

func (st *State) damagePlayer(source *Card, p *Player, amount int, combat bool) {
	if amount <= 0 || p == nil {
		return
	}
	p.Life -= amount
	evt := rules.NewEventWithAmount(rules.EventDamagePlayer, p.ID, source.ID, source.ControllerID, amount)
	evt.Flag = combat
	st.publish(evt)
	if source.HasKeyword(KeywordLifelink) {
		if controller := st.PlayerByID(source.ControllerID); controller != nil {
			controller.Life += amount
		}
	}
}

func (st *State) damagePermanent(source, target *Card, amount int) {
	if amount <= 0 {
		return
	}
	if target.IsPlaneswalker() && !target.IsCreature() {
		lost := min(amount, target.Counters.GetCount(counters.Loyalty))
		if target.Counters.RemoveCounter(counters.Loyalty, amount) {
			evt := rules.NewEventWithAmount(rules.EventCountersLost, target.ID, source.ID, source.ControllerID, lost)
			evt.Data = counters.Loyalty
			st.publish(evt)
		}
	} else {
		target.Damage += amount
		if source.HasKeyword(KeywordDeathtouch) {
			target.Deathtouched = true
		}
	}
	st.publish(rules.NewEventWithAmount(rules.EventDamagePermanent, target.ID, source.ID, source.ControllerID, amount))
	if source.HasKeyword(KeywordLifelink) {
		if controller := st.PlayerByID(source.ControllerID); controller != nil {
			controller.Life += amount
		}
	}
}
