// Package targeting checks that a chosen target satisfies what a spell asks for.
package targeting

import (
	"errors"
	"fmt"
)

// ErrInvalidTarget is returned when a target does not meet its requirement.
var ErrInvalidTarget = errors.New("invalid target")

// Kind is the kind of target a spell can have.
type Kind string

const (
	// KindAny accepts a player, a creature or a planeswalker.
	KindAny Kind = "ANY"
	// KindPlayer accepts players only.
	KindPlayer Kind = "PLAYER"
	// KindCreature accepts creatures on the battlefield only.
	KindCreature Kind = "CREATURE"
)

// Requirement describes one target a spell needs.
type Requirement struct {
	Kind        Kind
	Description string
}

// CardInfo is what validation needs to know about a card.
type CardInfo struct {
	ID            string
	Name          string
	OnBattlefield bool
	Creature      bool
	Planeswalker  bool
}

// PlayerInfo is what validation needs to know about a player.
type PlayerInfo struct {
	ID   string
	Name string
	Lost bool
}

// Accessor looks targets up in a game.
type Accessor interface {
	TargetPlayer(id string) (PlayerInfo, bool)
	TargetCard(id string) (CardInfo, bool)
}

// Validator validates targets against one game.
type Validator struct {
	game Accessor
}

// NewValidator creates a validator reading from game.
func NewValidator(game Accessor) *Validator {
	return &Validator{game: game}
}

// Validate checks that targetID satisfies req.
func (v *Validator) Validate(targetID string, req Requirement) error {
	if player, ok := v.game.TargetPlayer(targetID); ok {
		if req.Kind != KindAny && req.Kind != KindPlayer {
			return fmt.Errorf("%s is a player, want %s: %w", player.Name, req.Kind, ErrInvalidTarget)
		}
		if player.Lost {
			return fmt.Errorf("%s has lost the game: %w", player.Name, ErrInvalidTarget)
		}
		return nil
	}

	card, ok := v.game.TargetCard(targetID)
	if !ok {
		return fmt.Errorf("target %s not found: %w", targetID, ErrInvalidTarget)
	}
	if !card.OnBattlefield {
		return fmt.Errorf("%s is not on the battlefield: %w", card.Name, ErrInvalidTarget)
	}
	switch req.Kind {
	case KindAny:
		if !card.Creature && !card.Planeswalker {
			return fmt.Errorf("%s is neither a creature nor a planeswalker: %w", card.Name, ErrInvalidTarget)
		}
	case KindCreature:
		if !card.Creature {
			return fmt.Errorf("%s is not a creature: %w", card.Name, ErrInvalidTarget)
		}
	case KindPlayer:
		return fmt.Errorf("%s is a card, want a player: %w", card.Name, ErrInvalidTarget)
	}
	return nil
}
