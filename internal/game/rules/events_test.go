package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()
	casts, damage := 0, 0
	bus.SubscribeTyped(EventSpellCast, func(Event) { casts++ })
	bus.SubscribeTyped(EventDamagePlayer, func(e Event) { damage += e.Amount })
	bus.SubscribeTyped(EventDamagePlayer, nil)

	bus.Publish(NewEvent(EventSpellCast, "bolt", "bolt", "alice"))
	bus.Publish(NewEventWithAmount(EventDamagePlayer, "bob", "bolt", "alice", 3))
	bus.Publish(NewEvent(EventLandPlayed, "mountain", "mountain", "alice"))

	assert.Equal(t, 1, casts)
	assert.Equal(t, 3, damage)
}

func TestEventBusSubscribeAllRunsFirst(t *testing.T) {
	bus := NewEventBus()
	var seen []string
	bus.SubscribeTyped(EventSpellCast, func(Event) { seen = append(seen, "typed") })
	bus.Subscribe(func(e Event) { seen = append(seen, string(e.Type)) })

	bus.Publish(NewEvent(EventSpellCast, "bolt", "bolt", "alice"))
	bus.Publish(NewEvent(EventZoneChange, "bolt", "bolt", "alice"))

	assert.Equal(t, []string{"SPELL_CAST", "typed", "ZONE_CHANGE"}, seen)
}

func TestNewEventFields(t *testing.T) {
	before := time.Now()
	evt := NewEventWithFlag(EventDamagePlayer, "bob", "guide", "alice", true)

	assert.NotEmpty(t, evt.ID)
	assert.True(t, evt.Flag)
	assert.Equal(t, "bob", evt.TargetID)
	assert.False(t, evt.Timestamp.Before(before))
	assert.NotEqual(t, evt.ID, NewEvent(EventDamagePlayer, "bob", "guide", "alice").ID)
}
