package rules

import (
	"errors"
	"slices"
)

// ErrStackEmpty is returned when resolving from an empty stack.
var ErrStackEmpty = errors.New("stack empty")

// StackItemKind describes what put an item on the stack.
type StackItemKind string

const (
	// StackItemKindSpell is a cast spell.
	StackItemKindSpell StackItemKind = "SPELL"
	// StackItemKindActivated is an activated ability.
	StackItemKindActivated StackItemKind = "ACTIVATED"
)

// StackItem is plain data so a cloned game can share nothing with its
// source. The game decides how an item resolves from its source card.
type StackItem struct {
	ID          string
	Controller  string
	Description string
	Kind        StackItemKind
	SourceID    string
	TargetID    string
}

// Stack is the last-in first-out zone of spells waiting to resolve. It is
// owned by one game state and is not safe for concurrent use; search code
// works on clones instead.
type Stack struct {
	items []StackItem
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{items: make([]StackItem, 0, 8)}
}

// Push puts item on top.
func (s *Stack) Push(item StackItem) {
	s.items = append(s.items, item)
}

// Pop removes and returns the top item.
func (s *Stack) Pop() (StackItem, error) {
	if len(s.items) == 0 {
		return StackItem{}, ErrStackEmpty
	}
	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return top, nil
}

// Peek returns the top item without removing it.
func (s *Stack) Peek() (StackItem, bool) {
	if len(s.items) == 0 {
		return StackItem{}, false
	}
	return s.items[len(s.items)-1], true
}

// Items returns the items bottom first.
func (s *Stack) Items() []StackItem { return slices.Clone(s.items) }

// IsEmpty reports whether nothing is waiting to resolve.
func (s *Stack) IsEmpty() bool { return len(s.items) == 0 }

// Len returns the number of items.
func (s *Stack) Len() int { return len(s.items) }

// Clone returns an independent stack with the same items.
func (s *Stack) Clone() *Stack {
	return &Stack{items: slices.Clone(s.items)}
}
