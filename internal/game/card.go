package game

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/magefree/mage-goldfish-go/internal/game/counters"
	"github.com/magefree/mage-goldfish-go/internal/game/mana"
)

// Zone identifies where a card currently is.
type Zone int

const (
	ZoneLibrary Zone = iota
	ZoneHand
	ZoneBattlefield
	ZoneGraveyard
	ZoneStack
	ZoneExile
)

var zoneNames = map[Zone]string{
	ZoneLibrary:     "LIBRARY",
	ZoneHand:        "HAND",
	ZoneBattlefield: "BATTLEFIELD",
	ZoneGraveyard:   "GRAVEYARD",
	ZoneStack:       "STACK",
	ZoneExile:       "EXILE",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("ZONE_%d", int(z))
}

// CardType is one of the card types printed on a type line.
type CardType string

const (
	TypeLand         CardType = "Land"
	TypeCreature     CardType = "Creature"
	TypeInstant      CardType = "Instant"
	TypeSorcery      CardType = "Sorcery"
	TypeEnchantment  CardType = "Enchantment"
	TypeArtifact     CardType = "Artifact"
	TypePlaneswalker CardType = "Planeswalker"
)

// Keyword is an evergreen keyword ability.
type Keyword string

const (
	KeywordFlying       Keyword = "Flying"
	KeywordReach        Keyword = "Reach"
	KeywordHaste        Keyword = "Haste"
	KeywordTrample      Keyword = "Trample"
	KeywordDeathtouch   Keyword = "Deathtouch"
	KeywordFirstStrike  Keyword = "First Strike"
	KeywordDoubleStrike Keyword = "Double Strike"
	KeywordVigilance    Keyword = "Vigilance"
	KeywordMenace       Keyword = "Menace"
	KeywordDefender     Keyword = "Defender"
	KeywordProwess      Keyword = "Prowess"
	KeywordLifelink     Keyword = "Lifelink"
	KeywordUnblockable  Keyword = "Unblockable"
)

// EffectKind selects how a spell resolves.
type EffectKind int

const (
	EffectNone EffectKind = iota
	// EffectDamage deals Amount damage to any target.
	EffectDamage
	// EffectDamagePlayer deals Amount damage to target player only.
	EffectDamagePlayer
	// EffectDamageCreature deals Amount damage to target creature only.
	EffectDamageCreature
	// EffectNonbasicDamage deals Amount damage to each player for each nonbasic land they control.
	EffectNonbasicDamage
	// EffectFog prevents all combat damage this turn.
	EffectFog
)

// SpellEffect describes what an instant or sorcery does on resolution.
type SpellEffect struct {
	Kind   EffectKind
	Amount int
}

// DealsDamage reports whether the effect can damage a player.
func (e SpellEffect) DealsDamage() bool {
	switch e.Kind {
	case EffectDamage, EffectDamagePlayer, EffectNonbasicDamage:
		return true
	}
	return false
}

// StaticKind marks permanents with a rules-changing static ability.
type StaticKind int

const (
	StaticNone StaticKind = iota
	// StaticEnsnaringBridge stops creatures with power greater than the
	// controller's hand size from attacking.
	StaticEnsnaringBridge
	// StaticPunishSpells deals 2 damage to any player casting a spell with
	// mana value 3 or less.
	StaticPunishSpells
)

// Grant is the bonus an aura gives the permanent it enchants.
type Grant struct {
	Power     int
	Toughness int
	Keywords  []Keyword
}

// AnimateAbility is a "becomes a creature until end of turn" activated ability.
type AnimateAbility struct {
	Cost      mana.ManaCost
	Power     int
	Toughness int
	Keywords  []Keyword
}

// Card is a card in any zone. Power and toughness are kept as printed;
// the Net accessors apply counters, pumps and attachments.
type Card struct {
	ID        string
	Name      string
	ManaCost  mana.ManaCost
	Types     []CardType
	SubTypes  []string
	Basic     bool
	Power     string
	Toughness string
	Loyalty   int
	Keywords  []Keyword
	Produces  string
	Effect    SpellEffect
	Static    StaticKind
	Grant     *Grant
	Animate   *AnimateAbility
	Spectacle *mana.ManaCost

	MustBeBlocked  bool
	CantBlockAlone bool

	OwnerID      string
	ControllerID string
	Zone         Zone
	Tapped       bool
	// Sick is set when the permanent comes under its controller's control
	// and cleared at that player's next untap step.
	Sick          bool
	Token         bool
	Damage        int
	Deathtouched  bool
	PumpPower     int
	PumpToughness int
	Counters      *counters.Counters
	AttachedTo    *Card
	Attachments   []*Card

	animated bool
}

// HasType reports whether the card has the given card type.
func (c *Card) HasType(t CardType) bool {
	return slices.Contains(c.Types, t)
}

// IsCreature reports whether the card is currently a creature.
func (c *Card) IsCreature() bool {
	return c.HasType(TypeCreature) || c.animated
}

func (c *Card) IsLand() bool         { return c.HasType(TypeLand) }
func (c *Card) IsInstant() bool      { return c.HasType(TypeInstant) }
func (c *Card) IsSorcery() bool      { return c.HasType(TypeSorcery) }
func (c *Card) IsPlaneswalker() bool { return c.HasType(TypePlaneswalker) }

// IsAura reports whether the card is an Aura enchantment.
func (c *Card) IsAura() bool {
	return c.HasType(TypeEnchantment) && slices.Contains(c.SubTypes, "Aura")
}

// IsPermanentSpell reports whether the card stays on the battlefield when it resolves.
func (c *Card) IsPermanentSpell() bool {
	return !c.IsInstant() && !c.IsSorcery()
}

// IsSorcerySpeed reports whether the card may only be played in a main
// phase of its controller's turn with an empty stack. Lands count.
func (c *Card) IsSorcerySpeed() bool {
	return !c.IsInstant()
}

// IsAnimated reports whether an animate ability is currently in effect.
func (c *Card) IsAnimated() bool {
	return c.animated
}

// CMC returns the card's converted mana cost.
func (c *Card) CMC() int {
	return c.ManaCost.ConvertedManaCost()
}

// HasKeyword reports whether the card has the keyword printed, from an
// active animate ability, or granted by an attached aura.
func (c *Card) HasKeyword(k Keyword) bool {
	if slices.Contains(c.Keywords, k) {
		return true
	}
	if c.animated && c.Animate != nil && slices.Contains(c.Animate.Keywords, k) {
		return true
	}
	for _, att := range c.Attachments {
		if att.Grant != nil && slices.Contains(att.Grant.Keywords, k) {
			return true
		}
	}
	return false
}

// HasFirstOrDoubleStrike reports whether the card deals first strike damage.
func (c *Card) HasFirstOrDoubleStrike() bool {
	return c.HasKeyword(KeywordFirstStrike) || c.HasKeyword(KeywordDoubleStrike)
}

// IsSick reports whether the creature is summoning sick: it came under its
// controller's control this turn and has no haste.
func (c *Card) IsSick() bool {
	return c.IsCreature() && c.Sick && !c.HasKeyword(KeywordHaste)
}

// BasePower returns the printed or animated power.
func (c *Card) BasePower() int {
	if c.animated && c.Animate != nil {
		return c.Animate.Power
	}
	return parseStat(c.Power)
}

// BaseToughness returns the printed or animated toughness.
func (c *Card) BaseToughness() int {
	if c.animated && c.Animate != nil {
		return c.Animate.Toughness
	}
	return parseStat(c.Toughness)
}

// NetPower returns power after counters, pumps and aura bonuses.
func (c *Card) NetPower() int {
	power, _ := c.Counters.BoostTotals()
	power += c.BasePower() + c.PumpPower
	for _, att := range c.Attachments {
		if att.Grant != nil {
			power += att.Grant.Power
		}
	}
	return power
}

// NetToughness returns toughness after counters, pumps and aura bonuses.
func (c *Card) NetToughness() int {
	_, toughness := c.Counters.BoostTotals()
	toughness += c.BaseToughness() + c.PumpToughness
	for _, att := range c.Attachments {
		if att.Grant != nil {
			toughness += att.Grant.Toughness
		}
	}
	return toughness
}

// NetCombatDamage returns the damage the creature deals in combat.
func (c *Card) NetCombatDamage() int {
	return max(c.NetPower(), 0)
}

// CurrentLoyalty returns the loyalty counters on a planeswalker.
func (c *Card) CurrentLoyalty() int {
	return c.Counters.GetCount(counters.Loyalty)
}

// AnimatedCopy returns a detached copy of the card as it would look with
// its animate ability active. The copy is not part of any game.
func (c *Card) AnimatedCopy() *Card {
	cpy := copyCard(c)
	cpy.animated = true
	return cpy
}

func (c *Card) String() string {
	if c.IsCreature() {
		return fmt.Sprintf("%s %d/%d", c.Name, c.NetPower(), c.NetToughness())
	}
	return c.Name
}

// copyCard copies every value field of a card. Pointer links to other
// cards are left for the caller to remap.
func copyCard(card *Card) *Card {
	if card == nil {
		return nil
	}
	cpy := *card
	cpy.Types = slices.Clone(card.Types)
	cpy.SubTypes = slices.Clone(card.SubTypes)
	cpy.Keywords = slices.Clone(card.Keywords)
	cpy.Counters = card.Counters.Copy()
	cpy.AttachedTo = nil
	cpy.Attachments = nil
	return &cpy
}

func parseStat(value string) int {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		// "*" and "X" characteristics are not modelled.
		return 0
	}
	return v
}
