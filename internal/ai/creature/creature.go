// Package creature rates how strong a creature on the battlefield is.
package creature

import (
	"github.com/magefree/mage-goldfish-go/internal/game"
	"go.uber.org/zap"
)

// Evaluator scores creatures from their stats and keywords. A 2/2 vanilla
// creature is worth about 150.
type Evaluator struct {
	logger *zap.Logger
	debug  bool
}

// NewEvaluator returns an evaluator. With debug set, every contribution
// to a score is logged.
func NewEvaluator(logger *zap.Logger, debug bool) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger, debug: debug}
}

func (e *Evaluator) addValue(c *game.Card, value int, reason string) int {
	if e.debug && value != 0 {
		e.logger.Debug("creature value",
			zap.String("card", c.Name),
			zap.Int("value", value),
			zap.String("via", reason),
		)
	}
	return value
}

// Evaluate returns the strength of creature c.
func (e *Evaluator) Evaluate(c *game.Card) int {
	power := c.NetCombatDamage()
	toughness := c.NetToughness()

	value := 80
	if !c.Token {
		value += e.addValue(c, 20, "non-token")
	}
	value += e.addValue(c, power*15, "power")
	value += e.addValue(c, toughness*10, "toughness")
	value += e.addValue(c, c.CMC(), "cmc")

	// Evasion
	if c.HasKeyword(game.KeywordFlying) {
		value += e.addValue(c, power*10, "flying")
	}
	if c.HasKeyword(game.KeywordUnblockable) {
		value += e.addValue(c, power*10, "unblockable")
	} else if c.HasKeyword(game.KeywordMenace) {
		value += e.addValue(c, power*4, "menace")
	}

	if power > 0 {
		if c.HasKeyword(game.KeywordDoubleStrike) {
			value += e.addValue(c, 10+power*15, "double strike")
		} else if c.HasKeyword(game.KeywordFirstStrike) {
			value += e.addValue(c, 10+power*5, "first strike")
		}
		if c.HasKeyword(game.KeywordDeathtouch) {
			value += e.addValue(c, 25, "deathtouch")
		}
		if c.HasKeyword(game.KeywordLifelink) {
			value += e.addValue(c, power*10, "lifelink")
		}
		if power > 1 && c.HasKeyword(game.KeywordTrample) {
			value += e.addValue(c, (power-1)*15, "trample")
		}
		if c.HasKeyword(game.KeywordVigilance) {
			value += e.addValue(c, power*5+toughness*5, "vigilance")
		}
	}
	if c.HasKeyword(game.KeywordProwess) {
		value += e.addValue(c, 5, "prowess")
	}
	if c.HasKeyword(game.KeywordHaste) {
		value += e.addValue(c, 1, "haste")
	}
	if c.HasKeyword(game.KeywordReach) && !c.HasKeyword(game.KeywordFlying) {
		value += e.addValue(c, 5, "reach")
	}

	// Drawbacks
	if c.HasKeyword(game.KeywordDefender) {
		value -= e.addValue(c, power*9+40, "defender")
	}
	if c.CantBlockAlone {
		value -= e.addValue(c, 10, "can't block alone")
	}
	if c.MustBeBlocked {
		value += e.addValue(c, 5, "must be blocked")
	}
	if c.Static != game.StaticNone {
		value += e.addValue(c, 10, "static ability")
	}

	if !c.Tapped {
		value += e.addValue(c, 1, "untapped")
	}
	if c.IsAnimated() && !c.HasType(game.TypeCreature) {
		// Only a creature until end of turn.
		value -= e.addValue(c, 10, "animated")
	}
	return value
}
