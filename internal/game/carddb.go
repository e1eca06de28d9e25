package game

import (
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/magefree/mage-goldfish-go/internal/game/counters"
	"github.com/magefree/mage-goldfish-go/internal/game/mana"
)

// cardDefinition is the printed, immutable part of a card.
type cardDefinition struct {
	cost           string
	types          []CardType
	subTypes       []string
	basic          bool
	power          string
	toughness      string
	loyalty        int
	keywords       []Keyword
	produces       string
	effect         SpellEffect
	static         StaticKind
	grant          *Grant
	animate        *AnimateAbility
	spectacle      string
	mustBeBlocked  bool
	cantBlockAlone bool
}

var (
	landTypes        = []CardType{TypeLand}
	creatureTypes    = []CardType{TypeCreature}
	instantTypes     = []CardType{TypeInstant}
	sorceryTypes     = []CardType{TypeSorcery}
	burnToAny        = func(n int) SpellEffect { return SpellEffect{Kind: EffectDamage, Amount: n} }
	burnToPlayer     = func(n int) SpellEffect { return SpellEffect{Kind: EffectDamagePlayer, Amount: n} }
	burnToCreature   = func(n int) SpellEffect { return SpellEffect{Kind: EffectDamageCreature, Amount: n} }
	enchantmentTypes = []CardType{TypeEnchantment}
)

// cardDatabase holds the cards the goldfish simulator knows about: the
// mono-red burn list and a handful of opposing threats.
var cardDatabase = map[string]cardDefinition{
	// Burn
	"Mountain":                   {types: landTypes, subTypes: []string{"Mountain"}, basic: true, produces: "R"},
	"Lightning Bolt":             {cost: "{R}", types: instantTypes, effect: burnToAny(3)},
	"Chain Lightning":            {cost: "{R}", types: sorceryTypes, effect: burnToAny(3)},
	"Lava Spike":                 {cost: "{R}", types: sorceryTypes, effect: burnToPlayer(3)},
	"Rift Bolt":                  {cost: "{2}{R}", types: sorceryTypes, effect: burnToAny(3)},
	"Boil":                       {cost: "{3}{R}", types: instantTypes},
	"Skewer the Critics":         {cost: "{2}{R}", types: sorceryTypes, effect: burnToAny(3), spectacle: "{R}"},
	"Skullcrack":                 {cost: "{1}{R}", types: instantTypes, effect: burnToPlayer(3)},
	"Incendiary Flow":            {cost: "{1}{R}", types: sorceryTypes, effect: burnToAny(3)},
	"Price of Progress":          {cost: "{1}{R}", types: instantTypes, effect: SpellEffect{Kind: EffectNonbasicDamage, Amount: 2}},
	"Incinerate":                 {cost: "{1}{R}", types: instantTypes, effect: burnToAny(3)},
	"Lightning Strike":           {cost: "{1}{R}", types: instantTypes, effect: burnToAny(3)},
	"Searing Spear":              {cost: "{1}{R}", types: instantTypes, effect: burnToAny(3)},
	"Fire Ambush":                {cost: "{1}{R}", types: sorceryTypes, effect: burnToCreature(3)},
	"Volcanic Hammer":            {cost: "{1}{R}", types: sorceryTypes, effect: burnToAny(3)},
	"Annihilating Fire":          {cost: "{1}{R}{R}", types: instantTypes, effect: burnToAny(3)},
	"Eidolon of the Great Revel": {cost: "{R}{R}", types: []CardType{TypeEnchantment, TypeCreature}, power: "2", toughness: "2", static: StaticPunishSpells},
	"Goblin Guide":               {cost: "{R}", types: creatureTypes, power: "2", toughness: "2", keywords: []Keyword{KeywordHaste}},
	"Monastery Swiftspear":       {cost: "{R}", types: creatureTypes, power: "1", toughness: "2", keywords: []Keyword{KeywordHaste, KeywordProwess}},
	"Ensnaring Bridge":           {cost: "{3}", types: []CardType{TypeArtifact}, static: StaticEnsnaringBridge},

	// Opposition
	"Forest":                     {types: landTypes, subTypes: []string{"Forest"}, basic: true, produces: "G"},
	"Plains":                     {types: landTypes, subTypes: []string{"Plains"}, basic: true, produces: "W"},
	"Grizzly Bears":              {cost: "{1}{G}", types: creatureTypes, power: "2", toughness: "2"},
	"Serra Angel":                {cost: "{3}{W}{W}", types: creatureTypes, power: "4", toughness: "4", keywords: []Keyword{KeywordFlying, KeywordVigilance}},
	"Giant Spider":               {cost: "{3}{G}", types: creatureTypes, power: "2", toughness: "4", keywords: []Keyword{KeywordReach}},
	"Wall of Stone":              {cost: "{1}{R}{R}", types: creatureTypes, power: "0", toughness: "8", keywords: []Keyword{KeywordDefender}},
	"Vampire Nighthawk":          {cost: "{1}{B}{B}", types: creatureTypes, power: "2", toughness: "3", keywords: []Keyword{KeywordFlying, KeywordDeathtouch, KeywordLifelink}},
	"Boggart Brute":              {cost: "{2}{R}", types: creatureTypes, power: "3", toughness: "2", keywords: []Keyword{KeywordMenace}},
	"Colossal Dreadmaw":          {cost: "{4}{G}{G}", types: creatureTypes, power: "6", toughness: "6", keywords: []Keyword{KeywordTrample}},
	"Tundra Kavu":                {cost: "{2}{R}", types: creatureTypes, power: "2", toughness: "2", cantBlockAlone: true},
	"Phantom Warrior":            {cost: "{1}{U}{U}", types: creatureTypes, power: "2", toughness: "2", keywords: []Keyword{KeywordUnblockable}, mustBeBlocked: true},
	"Mishra's Factory":           {types: landTypes, produces: "C", animate: &AnimateAbility{Cost: *mana.MustParseCost("{1}"), Power: 2, Toughness: 2}},
	"Chandra, Torch of Defiance": {cost: "{2}{R}{R}", types: []CardType{TypePlaneswalker}, loyalty: 4},
	"Rancor":                     {cost: "{G}", types: enchantmentTypes, subTypes: []string{"Aura"}, grant: &Grant{Power: 2, Keywords: []Keyword{KeywordTrample}}},
	"Fog":                        {cost: "{G}", types: instantTypes, effect: SpellEffect{Kind: EffectFog}},
}

// KnownCard reports whether the card database has a definition for name.
func KnownCard(name string) bool {
	_, ok := cardDatabase[name]
	return ok
}

// CardNames returns every card name in the database, sorted.
func CardNames() []string {
	names := make([]string, 0, len(cardDatabase))
	for name := range cardDatabase {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewCard creates a fresh card owned and controlled by ownerID.
func NewCard(name, ownerID string) (*Card, error) {
	def, ok := cardDatabase[name]
	if !ok {
		return nil, fmt.Errorf("card %q: %w", name, ErrNotFound)
	}
	cost, err := mana.ParseCost(def.cost)
	if err != nil {
		return nil, fmt.Errorf("card %q: %w", name, err)
	}

	card := &Card{
		ID:             uuid.NewString(),
		Name:           name,
		ManaCost:       *cost,
		Types:          slices.Clone(def.types),
		SubTypes:       slices.Clone(def.subTypes),
		Basic:          def.basic,
		Power:          def.power,
		Toughness:      def.toughness,
		Loyalty:        def.loyalty,
		Keywords:       slices.Clone(def.keywords),
		Produces:       def.produces,
		Effect:         def.effect,
		Static:         def.static,
		Grant:          def.grant,
		Animate:        def.animate,
		MustBeBlocked:  def.mustBeBlocked,
		CantBlockAlone: def.cantBlockAlone,
		OwnerID:        ownerID,
		ControllerID:   ownerID,
		Zone:           ZoneLibrary,
		Counters:       counters.NewCounters(),
	}
	if def.spectacle != "" {
		spectacle, err := mana.ParseCost(def.spectacle)
		if err != nil {
			return nil, fmt.Errorf("card %q spectacle: %w", name, err)
		}
		card.Spectacle = spectacle
	}
	return card, nil
}
