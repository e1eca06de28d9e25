package rules

import (
	"fmt"
	"strings"
)

// Phase represents the broad phases of a Magic: The Gathering turn.
type Phase int

const (
	PhaseBeginning Phase = iota
	PhasePrecombatMain
	PhaseCombat
	PhasePostcombatMain
	PhaseEnding
)

var phaseNames = map[Phase]string{
	PhaseBeginning:      "BEGINNING",
	PhasePrecombatMain:  "PRECOMBAT_MAIN",
	PhaseCombat:         "COMBAT",
	PhasePostcombatMain: "POSTCOMBAT_MAIN",
	PhaseEnding:         "ENDING",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Step represents the individual steps that comprise a turn.
// Steps are declared in turn order so they can be compared directly.
type Step int

const (
	StepUntap Step = iota
	StepUpkeep
	StepDraw
	StepMain1
	StepBeginCombat
	StepDeclareAttackers
	StepDeclareBlockers
	StepFirstStrikeDamage
	StepCombatDamage
	StepEndCombat
	StepMain2
	StepEnd
	StepCleanup
)

var stepNames = map[Step]string{
	StepUntap:             "UNTAP",
	StepUpkeep:            "UPKEEP",
	StepDraw:              "DRAW",
	StepMain1:             "MAIN1",
	StepBeginCombat:       "BEGIN_COMBAT",
	StepDeclareAttackers:  "DECLARE_ATTACKERS",
	StepDeclareBlockers:   "DECLARE_BLOCKERS",
	StepFirstStrikeDamage: "FIRST_STRIKE_DAMAGE",
	StepCombatDamage:      "COMBAT_DAMAGE",
	StepEndCombat:         "END_COMBAT",
	StepMain2:             "MAIN2",
	StepEnd:               "END",
	StepCleanup:           "CLEANUP",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// IsBefore reports whether s comes earlier in the turn than other.
func (s Step) IsBefore(other Step) bool {
	return s < other
}

// IsAfter reports whether s comes later in the turn than other.
func (s Step) IsAfter(other Step) bool {
	return s > other
}

// Phase returns the phase a step belongs to.
func (s Step) Phase() Phase {
	switch {
	case s <= StepDraw:
		return PhaseBeginning
	case s == StepMain1:
		return PhasePrecombatMain
	case s <= StepEndCombat:
		return PhaseCombat
	case s == StepMain2:
		return PhasePostcombatMain
	default:
		return PhaseEnding
	}
}

type turnEntry struct {
	phase Phase
	step  Step
}

// baseTurnSequence is the default turn structure without first strike damage step
var baseTurnSequence = []turnEntry{
	{PhaseBeginning, StepUntap},
	{PhaseBeginning, StepUpkeep},
	{PhaseBeginning, StepDraw},
	{PhasePrecombatMain, StepMain1},
	{PhaseCombat, StepBeginCombat},
	{PhaseCombat, StepDeclareAttackers},
	{PhaseCombat, StepDeclareBlockers},
	{PhaseCombat, StepCombatDamage},
	{PhaseCombat, StepEndCombat},
	{PhasePostcombatMain, StepMain2},
	{PhaseEnding, StepEnd},
	{PhaseEnding, StepCleanup},
}

// buildTurnSequence creates the turn sequence, optionally including StepFirstStrikeDamage
// before the regular combat damage step.
func buildTurnSequence(hasFirstStrike bool) []turnEntry {
	sequence := make([]turnEntry, 0, len(baseTurnSequence)+1)
	for _, entry := range baseTurnSequence {
		if hasFirstStrike && entry.step == StepCombatDamage {
			sequence = append(sequence, turnEntry{PhaseCombat, StepFirstStrikeDamage})
		}
		sequence = append(sequence, entry)
	}
	return sequence
}

// TurnManager tracks active player and turn progression.
type TurnManager struct {
	orderIndex     int
	turnNumber     int
	activePlayer   string
	sequence       []turnEntry
	hasFirstStrike bool
}

// NewTurnManager creates a new turn manager initialized at turn 1, untap step.
func NewTurnManager(activePlayer string) *TurnManager {
	return &TurnManager{
		turnNumber:   1,
		activePlayer: strings.TrimSpace(activePlayer),
		sequence:     buildTurnSequence(false),
	}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return tm.sequence[tm.orderIndex].phase
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager) CurrentStep() Step {
	return tm.sequence[tm.orderIndex].step
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the player who currently has the turn.
func (tm *TurnManager) ActivePlayer() string {
	return tm.activePlayer
}

// AdvanceStep advances to the next step in the turn structure.
// When the end of the structure is reached, the turn number is incremented
// and the active player is rotated to nextActivePlayer if provided.
func (tm *TurnManager) AdvanceStep(nextActivePlayer string) (Phase, Step) {
	tm.orderIndex++
	if tm.orderIndex >= len(tm.sequence) {
		tm.orderIndex = 0
		tm.turnNumber++
		if next := strings.TrimSpace(nextActivePlayer); next != "" {
			tm.activePlayer = next
		}
		tm.sequence = buildTurnSequence(false)
		tm.hasFirstStrike = false
	}
	return tm.CurrentPhase(), tm.CurrentStep()
}

// SetStep jumps directly to step within the current turn. Used by hosts
// that start a game mid-turn and by tests.
func (tm *TurnManager) SetStep(step Step) bool {
	if step == StepFirstStrikeDamage && !tm.hasFirstStrike {
		tm.SetHasFirstStrike(true)
	}
	for i, entry := range tm.sequence {
		if entry.step == step {
			tm.orderIndex = i
			return true
		}
	}
	return false
}

// SetHasFirstStrike updates the turn sequence to include/exclude first strike damage step.
// This should be called once blockers are declared and a first striker is in combat.
func (tm *TurnManager) SetHasFirstStrike(hasFirstStrike bool) {
	if tm.hasFirstStrike == hasFirstStrike {
		return
	}
	current := tm.CurrentStep()
	tm.sequence = buildTurnSequence(hasFirstStrike)
	tm.hasFirstStrike = hasFirstStrike
	for i, entry := range tm.sequence {
		if entry.step == current {
			tm.orderIndex = i
			return
		}
	}
	// The current step was the first strike step that just got removed.
	for i, entry := range tm.sequence {
		if entry.step == StepCombatDamage {
			tm.orderIndex = i
			return
		}
	}
}

// HasFirstStrike reports whether the current turn includes a first strike damage step.
func (tm *TurnManager) HasFirstStrike() bool {
	return tm.hasFirstStrike
}

// Steps returns the steps of the current turn sequence in order.
func (tm *TurnManager) Steps() []Step {
	steps := make([]Step, len(tm.sequence))
	for i, entry := range tm.sequence {
		steps[i] = entry.step
	}
	return steps
}

// Copy returns an independent copy of the turn manager.
func (tm *TurnManager) Copy() *TurnManager {
	sequence := make([]turnEntry, len(tm.sequence))
	copy(sequence, tm.sequence)
	return &TurnManager{
		orderIndex:     tm.orderIndex,
		turnNumber:     tm.turnNumber,
		activePlayer:   tm.activePlayer,
		sequence:       sequence,
		hasFirstStrike: tm.hasFirstStrike,
	}
}
