package counters

import (
	"strconv"
	"strings"
)

// Well-known counter names.
const (
	Loyalty = "loyalty"
	P1P1    = "+1/+1"
	M1M1    = "-1/-1"
)

// Counter represents a counter on a permanent or player.
type Counter struct {
	Name  string
	Count int
}

// NewCounter creates a new counter with the given name and count.
func NewCounter(name string, count int) *Counter {
	if count <= 0 {
		count = 1
	}
	return &Counter{
		Name:  name,
		Count: count,
	}
}

// Add adds the specified amount to the counter.
func (c *Counter) Add(amount int) {
	if amount > 0 {
		c.Count += amount
	}
}

// Remove removes the specified amount from the counter.
// Will not allow count to go below 0.
func (c *Counter) Remove(amount int) {
	if amount > 0 {
		c.Count = max(c.Count-amount, 0)
	}
}

// Copy creates a deep copy of the counter.
func (c *Counter) Copy() *Counter {
	return &Counter{
		Name:  c.Name,
		Count: c.Count,
	}
}

// BoostCounter represents a power/toughness boost counter (e.g., +1/+1, -1/-1).
type BoostCounter struct {
	*Counter
	Power     int
	Toughness int
}

// Counters manages a collection of counters.
type Counters struct {
	Counters map[string]*Counter
}

// NewCounters creates a new Counters collection.
func NewCounters() *Counters {
	return &Counters{
		Counters: make(map[string]*Counter),
	}
}

// AddCounter adds a counter to the collection.
// If a counter with the same name already exists, adds to its count.
func (cs *Counters) AddCounter(counter *Counter) {
	if counter == nil {
		return
	}
	if existing, ok := cs.Counters[counter.Name]; ok {
		existing.Add(counter.Count)
	} else {
		cs.Counters[counter.Name] = counter.Copy()
	}
}

// RemoveCounter removes the specified amount of counters of the given name.
// Returns true if any counters were removed.
func (cs *Counters) RemoveCounter(name string, amount int) bool {
	if amount <= 0 {
		return false
	}
	if counter, ok := cs.Counters[name]; ok {
		counter.Remove(amount)
		if counter.Count == 0 {
			delete(cs.Counters, name)
		}
		return true
	}
	return false
}

// GetCount returns the count of counters with the given name.
// Safe to call on a nil collection.
func (cs *Counters) GetCount(name string) int {
	if cs == nil {
		return 0
	}
	if counter, ok := cs.Counters[name]; ok {
		return counter.Count
	}
	return 0
}

// HasCounter returns true if there are any counters with the given name.
func (cs *Counters) HasCounter(name string) bool {
	return cs.GetCount(name) > 0
}

// GetBoostCounters returns all counters whose name is a power/toughness
// modifier such as "+1/+1" or "-1/-1".
func (cs *Counters) GetBoostCounters() []*BoostCounter {
	if cs == nil {
		return nil
	}
	var boosts []*BoostCounter
	for _, counter := range cs.Counters {
		if power, toughness, ok := parseBoostCounterName(counter.Name); ok {
			boosts = append(boosts, &BoostCounter{
				Counter:   counter.Copy(),
				Power:     power,
				Toughness: toughness,
			})
		}
	}
	return boosts
}

// BoostTotals sums every boost counter into a single power/toughness delta.
func (cs *Counters) BoostTotals() (int, int) {
	power, toughness := 0, 0
	for _, boost := range cs.GetBoostCounters() {
		power += boost.Power * boost.Count
		toughness += boost.Toughness * boost.Count
	}
	return power, toughness
}

func parseBoostCounterName(name string) (int, int, bool) {
	powerPart, toughnessPart, found := strings.Cut(name, "/")
	if !found {
		return 0, 0, false
	}
	power, ok := parseBoostValue(powerPart)
	if !ok {
		return 0, 0, false
	}
	toughness, ok := parseBoostValue(toughnessPart)
	if !ok {
		return 0, 0, false
	}
	return power, toughness, true
}

// parseBoostValue accepts "+1", "-2" and "0"; a bare positive number is not
// a boost (it would make "1/1" look like a counter).
func parseBoostValue(s string) (int, bool) {
	if s == "0" {
		return 0, true
	}
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	value, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Copy creates a deep copy of the Counters collection.
// Copying a nil collection yields an empty one.
func (cs *Counters) Copy() *Counters {
	copied := NewCounters()
	if cs == nil {
		return copied
	}
	for name, counter := range cs.Counters {
		copied.Counters[name] = counter.Copy()
	}
	return copied
}
