package watchers

import (
	"maps"
	"slices"

	"github.com/magefree/mage-goldfish-go/internal/game/rules"
)

// Registry keys of the turn-scoped watchers every game installs.
const (
	DamageDoneKey    = "DamageDoneWatcher"
	SpellsCastKey    = "SpellsCastWatcher"
	CreaturesDiedKey = "CreaturesDiedWatcher"
	LandsPlayedKey   = "LandsPlayedWatcher"
)

// Defaults returns a fresh set of the watchers a game starts with.
func Defaults() []rules.Watcher {
	return []rules.Watcher{
		NewDamageDoneWatcher(),
		NewSpellsCastWatcher(),
		NewCreaturesDiedWatcher(),
		NewLandsPlayedWatcher(),
	}
}

// DamageDoneWatcher tracks damage dealt to each player this turn.
type DamageDoneWatcher struct {
	*rules.BaseWatcher
	damage       map[string]int // playerID -> damage taken
	combatDamage map[string]int // playerID -> combat damage taken
	dealtBy      map[string]int // controllerID -> damage dealt to players
}

// NewDamageDoneWatcher creates a new damage done watcher.
func NewDamageDoneWatcher() *DamageDoneWatcher {
	return &DamageDoneWatcher{
		BaseWatcher:  rules.NewBaseWatcher(DamageDoneKey),
		damage:       make(map[string]int),
		combatDamage: make(map[string]int),
		dealtBy:      make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *DamageDoneWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDamagePlayer || event.Amount <= 0 || event.TargetID == "" {
		return
	}
	w.damage[event.TargetID] += event.Amount
	if event.Flag {
		w.combatDamage[event.TargetID] += event.Amount
	}
	if event.Controller != "" {
		w.dealtBy[event.Controller] += event.Amount
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *DamageDoneWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.damage = make(map[string]int)
	w.combatDamage = make(map[string]int)
	w.dealtBy = make(map[string]int)
}

// DamageTo returns the damage a player has taken this turn.
func (w *DamageDoneWatcher) DamageTo(playerID string) int {
	return w.damage[playerID]
}

// CombatDamageTo returns the combat damage a player has taken this turn.
func (w *DamageDoneWatcher) CombatDamageTo(playerID string) int {
	return w.combatDamage[playerID]
}

// DamageDealtBy returns the damage sources controlled by a player dealt to players this turn.
func (w *DamageDoneWatcher) DamageDealtBy(controllerID string) int {
	return w.dealtBy[controllerID]
}

// Copy creates a copy of this watcher.
func (w *DamageDoneWatcher) Copy() rules.Watcher {
	cpy := NewDamageDoneWatcher()
	cpy.SetCondition(w.ConditionMet())
	cpy.damage = maps.Clone(w.damage)
	cpy.combatDamage = maps.Clone(w.combatDamage)
	cpy.dealtBy = maps.Clone(w.dealtBy)
	return cpy
}

// SpellsCastWatcher tracks spells cast by players.
type SpellsCastWatcher struct {
	*rules.BaseWatcher
	spellsCast map[string][]string // playerID -> list of spell card IDs
}

// NewSpellsCastWatcher creates a new spells cast watcher.
func NewSpellsCastWatcher() *SpellsCastWatcher {
	return &SpellsCastWatcher{
		BaseWatcher: rules.NewBaseWatcher(SpellsCastKey),
		spellsCast:  make(map[string][]string),
	}
}

// Watch implements the Watcher interface.
func (w *SpellsCastWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventSpellCast || event.Controller == "" {
		return
	}
	spellID := event.SourceID
	if spellID == "" {
		spellID = event.TargetID
	}
	if spellID == "" {
		return
	}
	w.spellsCast[event.Controller] = append(w.spellsCast[event.Controller], spellID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *SpellsCastWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.spellsCast = make(map[string][]string)
}

// GetSpellsCast returns the list of spell IDs cast by a player.
func (w *SpellsCastWatcher) GetSpellsCast(playerID string) []string {
	return w.spellsCast[playerID]
}

// GetCount returns the number of spells cast by a player.
func (w *SpellsCastWatcher) GetCount(playerID string) int {
	return len(w.spellsCast[playerID])
}

// Copy creates a copy of this watcher.
func (w *SpellsCastWatcher) Copy() rules.Watcher {
	cpy := NewSpellsCastWatcher()
	cpy.SetCondition(w.ConditionMet())
	for k, v := range w.spellsCast {
		cpy.spellsCast[k] = slices.Clone(v)
	}
	return cpy
}

// CreaturesDiedWatcher tracks creatures that died (went to graveyard from battlefield).
type CreaturesDiedWatcher struct {
	*rules.BaseWatcher
	creaturesDiedByController map[string]int // controllerID -> count
}

// NewCreaturesDiedWatcher creates a new creatures died watcher.
func NewCreaturesDiedWatcher() *CreaturesDiedWatcher {
	return &CreaturesDiedWatcher{
		BaseWatcher:               rules.NewBaseWatcher(CreaturesDiedKey),
		creaturesDiedByController: make(map[string]int),
	}
}

// Watch implements the Watcher interface. Only creature deaths are
// published as PERMANENT_DIES with the flag set.
func (w *CreaturesDiedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventPermanentDies || !event.Flag || event.Controller == "" {
		return
	}
	w.creaturesDiedByController[event.Controller]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CreaturesDiedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.creaturesDiedByController = make(map[string]int)
}

// GetAmountByController returns the number of creatures that died for a controller.
func (w *CreaturesDiedWatcher) GetAmountByController(controllerID string) int {
	return w.creaturesDiedByController[controllerID]
}

// GetTotalAmount returns the total number of creatures that died.
func (w *CreaturesDiedWatcher) GetTotalAmount() int {
	total := 0
	for _, count := range w.creaturesDiedByController {
		total += count
	}
	return total
}

// Copy creates a copy of this watcher.
func (w *CreaturesDiedWatcher) Copy() rules.Watcher {
	cpy := NewCreaturesDiedWatcher()
	cpy.SetCondition(w.ConditionMet())
	cpy.creaturesDiedByController = maps.Clone(w.creaturesDiedByController)
	return cpy
}

// LandsPlayedWatcher tracks lands played by each player this turn.
type LandsPlayedWatcher struct {
	*rules.BaseWatcher
	landsPlayed map[string]int // playerID -> count
}

// NewLandsPlayedWatcher creates a new lands played watcher.
func NewLandsPlayedWatcher() *LandsPlayedWatcher {
	return &LandsPlayedWatcher{
		BaseWatcher: rules.NewBaseWatcher(LandsPlayedKey),
		landsPlayed: make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *LandsPlayedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventLandPlayed || event.Controller == "" {
		return
	}
	w.landsPlayed[event.Controller]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *LandsPlayedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.landsPlayed = make(map[string]int)
}

// GetCount returns the number of lands a player played this turn.
func (w *LandsPlayedWatcher) GetCount(playerID string) int {
	return w.landsPlayed[playerID]
}

// Copy creates a copy of this watcher.
func (w *LandsPlayedWatcher) Copy() rules.Watcher {
	cpy := NewLandsPlayedWatcher()
	cpy.SetCondition(w.ConditionMet())
	cpy.landsPlayed = maps.Clone(w.landsPlayed)
	return cpy
}
