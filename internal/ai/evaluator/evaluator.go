// Package evaluator scores board positions for one player.
package evaluator

import (
	"fmt"
	"math"

	"github.com/magefree/mage-goldfish-go/internal/ai/creature"
	"github.com/magefree/mage-goldfish-go/internal/game"
	"github.com/magefree/mage-goldfish-go/internal/game/counters"
	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"go.uber.org/zap"
)

const (
	landValue = 100
	// A five mana noncreature permanent comes out at 200, a 5/5 creature near 225.
	permanentBaseValue = 50
	permanentCMCValue  = 30
	loyaltyValue       = 2
)

// Score is the desirability of a position. SummonSickValue is the same
// estimate with the player's summoning-sick creatures counted as nothing.
type Score struct {
	Value           int
	SummonSickValue int
}

// NewScore returns a score whose two values agree.
func NewScore(value int) Score {
	return Score{Value: value, SummonSickValue: value}
}

func (s Score) String() string {
	if s.SummonSickValue != s.Value {
		return fmt.Sprintf("%d (ss %d)", s.Value, s.SummonSickValue)
	}
	return fmt.Sprintf("%d", s.Value)
}

// Options configure an Evaluator.
type Options struct {
	// Debug logs every scoring term.
	Debug bool
	// SimulateCombat runs the upcoming combat of the turn on a clone before scoring.
	SimulateCombat bool
}

// Evaluator scores game states. It never changes the state it is given.
type Evaluator struct {
	logger    *zap.Logger
	opts      Options
	creatures *creature.Evaluator
}

// New creates an evaluator.
func New(logger *zap.Logger, opts Options) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		logger:    logger,
		opts:      opts,
		creatures: creature.NewEvaluator(logger, opts.Debug),
	}
}

// Creatures returns the creature evaluator used for battlefield creatures.
func (e *Evaluator) Creatures() *creature.Evaluator { return e.creatures }

func (e *Evaluator) debug(msg string, fields ...zap.Field) {
	if e.opts.Debug {
		e.logger.Debug(msg, fields...)
	}
}

// Score rates st from p's point of view. When combat simulation is on and
// combat can still happen this turn, the position after combat damage is
// scored instead. The only error is a clone that lost track of p.
func (e *Evaluator) Score(st *game.State, p *game.Player) (Score, error) {
	if st.IsGameOver() {
		return gameOverScore(st, p), nil
	}
	if e.opts.SimulateCombat {
		cs, err := e.simulateUpcomingCombat(st, p)
		if err != nil {
			return Score{}, err
		}
		if cs != nil {
			cp, err := cs.FindPlayer(p)
			if err != nil {
				return Score{}, fmt.Errorf("score after combat: %w", err)
			}
			if cs.IsGameOver() {
				return gameOverScore(cs.State, cp), nil
			}
			return e.score(cs.State, cp), nil
		}
	}
	return e.score(st, p), nil
}

func gameOverScore(st *game.State, p *game.Player) Score {
	if st.Outcome().IsWinner(p) {
		return NewScore(math.MaxInt)
	}
	return NewScore(math.MinInt)
}

// simulateUpcomingCombat runs a clone of st to the combat damage step. It
// returns nil when no combat can happen: the damage step has passed, the
// game is over, or the active player has no creatures. Creatures cannot
// enter play before combat inside the simulation, so skipping is safe.
func (e *Evaluator) simulateUpcomingCombat(st *game.State, p *game.Player) (*game.ClonedState, error) {
	if st.Step().IsAfter(rules.StepCombatDamage) || st.IsGameOver() {
		return nil, nil
	}
	if len(st.CreaturesInPlay(st.ActivePlayer())) == 0 {
		return nil, nil
	}
	cs := game.Clone(st)
	cp, err := cs.FindPlayer(p)
	if err != nil {
		return nil, fmt.Errorf("simulate combat: %w", err)
	}
	target := cs.WeakestOpponent(cp)
	var resolveErr error
	err = cs.AdvanceToStep(rules.StepCombatDamage, func() {
		if resolveErr == nil {
			resolveErr = cs.ResolveStack(target)
		}
	})
	if err == nil {
		err = resolveErr
	}
	if err != nil {
		return nil, fmt.Errorf("simulate combat: %w", err)
	}
	return cs, nil
}

func (e *Evaluator) score(st *game.State, p *game.Player) Score {
	score := 0
	myCards, theirCards := 0, 0
	for _, c := range st.CardsIn(game.ZoneHand) {
		if c.ControllerID == p.ID {
			myCards++
		} else {
			theirCards++
		}
	}
	e.debug("cards in hand", zap.Int("mine", myCards), zap.Int("theirs", theirCards))
	if !p.UnlimitedHandSize && myCards > p.MaxHandSize {
		// Cards that will be discarded at cleanup count for less.
		score += myCards - p.MaxHandSize
		myCards = p.MaxHandSize
	}
	score += 5*myCards - 4*theirCards
	score += 2 * p.Life

	opponentLife := 0
	for _, opp := range st.Players() {
		if opp != p {
			opponentLife += opp.Life
		}
	}
	if opponents := len(st.Players()) - 1; opponents > 0 {
		score -= 2 * opponentLife / opponents
	}
	e.debug("life", zap.Int("mine", p.Life), zap.Int("opponents", opponentLife))

	summonSickScore := score
	beforeMain2 := st.Step().IsBefore(rules.StepMain2)
	for _, c := range st.Battlefield() {
		value := e.EvalCard(st, p, c)
		summonSickValue := value
		// Holds off creatures that bring nothing but stats until they can attack.
		if beforeMain2 && c.IsSick() && c.ControllerID == p.ID {
			summonSickValue = 0
		}
		if c.ControllerID == p.ID {
			score += value
			summonSickScore += summonSickValue
			e.debug("battlefield", zap.String("card", c.String()), zap.Int("value", value))
		} else {
			score -= value
			summonSickScore -= summonSickValue
			e.debug("battlefield", zap.String("card", c.String()), zap.Int("value", -value))
		}
	}
	e.debug("score", zap.Int("score", score), zap.Int("summon_sick", summonSickScore))
	return Score{Value: score, SummonSickValue: summonSickScore}
}

// EvalCard returns the worth of permanent c. Auras attached to something
// are worth nothing on their own since the enchanted permanent already
// counts the bonus.
func (e *Evaluator) EvalCard(_ *game.State, _ *game.Player, c *game.Card) int {
	switch {
	case c.IsCreature():
		return e.creatures.Evaluate(c)
	case c.IsLand():
		return landValue
	case c.IsAura() && c.AttachedTo != nil:
		return 0
	}
	value := permanentBaseValue + permanentCMCValue*c.CMC()
	if c.IsPlaneswalker() {
		value += loyaltyValue * c.Counters.GetCount(counters.Loyalty)
	}
	return value
}
