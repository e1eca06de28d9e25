package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackResolvesLastInFirstOut(t *testing.T) {
	s := NewStack()
	s.Push(StackItem{ID: "bolt", Controller: "alice", Kind: StackItemKindSpell})
	s.Push(StackItem{ID: "skewer", Controller: "alice", Kind: StackItemKindSpell})
	s.Push(StackItem{ID: "fog", Controller: "bob", Kind: StackItemKindSpell})

	top, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, "fog", top.ID)

	var order []string
	for !s.IsEmpty() {
		item, err := s.Pop()
		require.NoError(t, err)
		order = append(order, item.ID)
	}
	assert.Equal(t, []string{"fog", "skewer", "bolt"}, order)

	_, err := s.Pop()
	assert.ErrorIs(t, err, ErrStackEmpty)
	_, ok = s.Peek()
	assert.False(t, ok)
}

func TestStackClone(t *testing.T) {
	s := NewStack()
	s.Push(StackItem{ID: "bolt", TargetID: "bob"})

	cloned := s.Clone()
	_, err := cloned.Pop()
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	assert.True(t, cloned.IsEmpty())
	assert.Equal(t, []StackItem{{ID: "bolt", TargetID: "bob"}}, s.Items())
}
