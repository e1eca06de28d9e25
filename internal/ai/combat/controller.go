package combat

import (
	"github.com/magefree/mage-goldfish-go/internal/ai/creature"
	"github.com/magefree/mage-goldfish-go/internal/game"
	"go.uber.org/zap"
)

// Options configure a Controller.
type Options struct {
	Block BlockOptions
	// Debug logs every creature rating.
	Debug bool
}

// Controller plugs the attack and block controllers into the engine's
// combat steps.
type Controller struct {
	logger    *zap.Logger
	creatures *creature.Evaluator
	opts      Options
}

var _ game.CombatController = (*Controller)(nil)

// NewController creates a combat controller.
func NewController(opts Options, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		logger:    logger,
		creatures: creature.NewEvaluator(logger, opts.Debug),
		opts:      opts,
	}
}

// DeclareAttackers attacks with p's dominating creatures.
func (c *Controller) DeclareAttackers(st *game.State, p *game.Player) error {
	return NewAttackController(st, p, false, c.logger).DeclareAttackers()
}

// DeclareBlockers blocks with p's untapped creatures.
func (c *Controller) DeclareBlockers(st *game.State, p *game.Player) error {
	return NewBlockController(st, p, c.creatures, c.opts.Block, c.logger).AssignBlockers(nil)
}

// OrderBlockers orders blockers for damage assignment.
func (c *Controller) OrderBlockers(st *game.State, attacker *game.Card, blockers []*game.Card) []*game.Card {
	return OrderBlockers(st, c.creatures, attacker, blockers)
}
