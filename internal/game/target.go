package game

import "github.com/magefree/mage-goldfish-go/internal/game/targeting"

// TargetRequirement returns what card must target when cast, if anything.
func (c *Card) TargetRequirement() (targeting.Requirement, bool) {
	if c.IsAura() {
		return targeting.Requirement{Kind: targeting.KindCreature, Description: "enchant creature"}, true
	}
	switch c.Effect.Kind {
	case EffectDamage:
		return targeting.Requirement{Kind: targeting.KindAny, Description: "any target"}, true
	case EffectDamagePlayer:
		return targeting.Requirement{Kind: targeting.KindPlayer, Description: "target player"}, true
	case EffectDamageCreature:
		return targeting.Requirement{Kind: targeting.KindCreature, Description: "target creature"}, true
	}
	return targeting.Requirement{}, false
}

// TargetPlayer implements targeting.Accessor.
func (st *State) TargetPlayer(id string) (targeting.PlayerInfo, bool) {
	p := st.PlayerByID(id)
	if p == nil {
		return targeting.PlayerInfo{}, false
	}
	return targeting.PlayerInfo{ID: p.ID, Name: p.Name, Lost: p.Lost}, true
}

// TargetCard implements targeting.Accessor.
func (st *State) TargetCard(id string) (targeting.CardInfo, bool) {
	c := st.cards[id]
	if c == nil {
		return targeting.CardInfo{}, false
	}
	return targeting.CardInfo{
		ID:            c.ID,
		Name:          c.Name,
		OnBattlefield: c.Zone == ZoneBattlefield,
		Creature:      c.IsCreature(),
		Planeswalker:  c.IsPlaneswalker(),
	}, true
}
