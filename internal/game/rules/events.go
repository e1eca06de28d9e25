package rules

import (
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Turn events
	EventStepChanged EventType = "STEP_CHANGED"
	EventBeginTurn   EventType = "BEGIN_TURN"

	// Zone events
	EventZoneChange EventType = "ZONE_CHANGE"
	EventDrewCard   EventType = "DREW_CARD"

	// Life/Damage events
	EventDamagePlayer    EventType = "DAMAGE_PLAYER"
	EventDamagePermanent EventType = "DAMAGE_PERMANENT"
	EventLost            EventType = "LOST"

	// Land/Spell events
	EventLandPlayed    EventType = "LAND_PLAYED"
	EventSpellCast     EventType = "SPELL_CAST"
	EventSpellResolved EventType = "SPELL_RESOLVED"
	EventAnimated      EventType = "ANIMATED"

	// Combat events
	EventAttackerDeclared  EventType = "ATTACKER_DECLARED"
	EventBlockerDeclared   EventType = "BLOCKER_DECLARED"
	EventRemovedFromCombat EventType = "REMOVED_FROM_COMBAT" // Data gives the reason

	// Permanent events
	EventPermanentDies EventType = "PERMANENT_DIES"
	EventCountersLost  EventType = "COUNTERS_REMOVED" // Data names the counter
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type       EventType
	ID         string    // Unique event ID
	TargetID   string    // ID of the target (card, player, etc.)
	SourceID   string    // ID of the source ability/object
	Controller string    // Player ID of the controller
	Amount     int       // Numeric value (damage, life, counters, etc.)
	Flag       bool      // Boolean flag (combat damage, etc.)
	Data       string    // Additional string data
	Timestamp  time.Time // When the event occurred
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// EventBus delivers events synchronously to every listener, or only to
// those subscribed to the event's type. Like the rest of a game state it
// has a single owner; listeners live as long as the game.
type EventBus struct {
	listeners      []Listener
	typedListeners map[EventType][]Listener
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{typedListeners: make(map[EventType][]Listener)}
}

// Subscribe registers a listener for all events.
func (bus *EventBus) Subscribe(listener Listener) {
	if listener != nil {
		bus.listeners = append(bus.listeners, listener)
	}
}

// SubscribeTyped registers a listener for one event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) {
	if listener != nil {
		bus.typedListeners[eventType] = append(bus.typedListeners[eventType], listener)
	}
}

// Publish delivers the event to all registered listeners in subscription
// order. Listeners must not publish from inside a callback.
func (bus *EventBus) Publish(event Event) {
	for _, listener := range bus.listeners {
		listener(event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, controllerID string) Event {
	return Event{
		Type:       eventType,
		ID:         uuid.NewString(),
		TargetID:   targetID,
		SourceID:   sourceID,
		Controller: controllerID,
		Timestamp:  time.Now(),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, controllerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, controllerID)
	evt.Amount = amount
	return evt
}

// NewEventWithFlag creates a new event with a flag value.
func NewEventWithFlag(eventType EventType, targetID, sourceID, controllerID string, flag bool) Event {
	evt := NewEvent(eventType, targetID, sourceID, controllerID)
	evt.Flag = flag
	return evt
}
