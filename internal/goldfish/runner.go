// Package goldfish plays a deck against a passive opponent and measures
// how many turns it takes to win. Every decision goes through the AI: the
// sequencing search picks the next card, the evaluator decides whether to
// cast before or after combat, and the combat controllers attack and block.
package goldfish

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/magefree/mage-goldfish-go/internal/ai/cardvalues"
	"github.com/magefree/mage-goldfish-go/internal/ai/combat"
	"github.com/magefree/mage-goldfish-go/internal/ai/evaluator"
	"github.com/magefree/mage-goldfish-go/internal/ai/sequencing"
	"github.com/magefree/mage-goldfish-go/internal/game"
	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"go.uber.org/zap"
)

const (
	DefaultMaxTurns     = 20
	DefaultOpponentLife = 20
	openingHandSize     = 7
	// blankCard fills the opponent's library so it never decks out.
	blankCard = "Plains"
)

// Options configure a Runner.
type Options struct {
	MaxTurns  int
	OnThePlay bool
	// OpponentLife is the opponent's starting life total.
	OpponentLife int
	// OpponentBoard lists permanents the opponent starts with.
	OpponentBoard []string
	// UseSimulation lets the evaluator hold spells for the second main
	// phase when casting them before combat scores worse.
	UseSimulation bool

	Evaluator  evaluator.Options
	Sequencing sequencing.Options
	Combat     combat.Options
}

func (o Options) withDefaults() Options {
	if o.MaxTurns <= 0 {
		o.MaxTurns = DefaultMaxTurns
	}
	if o.OpponentLife <= 0 {
		o.OpponentLife = DefaultOpponentLife
	}
	return o
}

// Result describes one goldfish game.
type Result struct {
	Seed int64
	Won  bool
	// Turns counts the goldfisher's turns, including the winning one.
	Turns        int
	OpponentLife int
	SpellsCast   int
	LandsPlayed  int
	// Plays lists every card played, in order.
	Plays []string
}

// Runner plays goldfish games with one deck.
type Runner struct {
	logger    *zap.Logger
	deck      []string
	opts      Options
	evaluator *evaluator.Evaluator
	searcher  *sequencing.Searcher
	combat    *combat.Controller
}

// NewRunner creates a runner for deck, a list of card names.
func NewRunner(deck []string, table *cardvalues.Table, opts Options, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(deck) == 0 {
		return nil, errors.New("empty deck")
	}
	opts = opts.withDefaults()
	for _, name := range append(slices.Clone(deck), opts.OpponentBoard...) {
		if !game.KnownCard(name) {
			return nil, fmt.Errorf("card %q: %w", name, game.ErrNotFound)
		}
	}
	return &Runner{
		logger:    logger,
		deck:      slices.Clone(deck),
		opts:      opts,
		evaluator: evaluator.New(logger, opts.Evaluator),
		searcher:  sequencing.NewSearcher(table, opts.Sequencing, logger),
		combat:    combat.NewController(opts.Combat, logger),
	}, nil
}

// passive blocks but never attacks.
type passive struct {
	*combat.Controller
}

func (passive) DeclareAttackers(*game.State, *game.Player) error { return nil }

// Play runs one game shuffled with seed.
func (r *Runner) Play(ctx context.Context, seed int64) (Result, error) {
	logger := r.logger.With(zap.Int64("seed", seed))
	res := Result{Seed: seed}

	me, opp := game.NewPlayer("goldfisher"), game.NewPlayer("goldfish")
	players := []*game.Player{opp, me}
	if r.opts.OnThePlay {
		players = []*game.Player{me, opp}
	}
	st, err := game.NewState(logger, players...)
	if err != nil {
		return res, err
	}
	me.Controller = r.combat
	opp.Controller = passive{r.combat}
	opp.Life = r.opts.OpponentLife

	if err := r.setup(st, me, opp, seed); err != nil {
		return res, err
	}

	for !st.IsGameOver() && res.Turns < r.opts.MaxTurns {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if st.ActivePlayer() == me {
			res.Turns++
			if err := r.takeTurn(st, me, opp, &res); err != nil {
				return res, fmt.Errorf("turn %d: %w", st.TurnNumber(), err)
			}
		}
		if st.IsGameOver() {
			break
		}
		if err := st.NextTurn(); err != nil {
			return res, fmt.Errorf("turn %d: %w", st.TurnNumber(), err)
		}
	}

	res.Won = st.IsGameOver() && st.Outcome().IsWinner(me)
	res.OpponentLife = opp.Life
	logger.Info("goldfish game finished",
		zap.Bool("won", res.Won),
		zap.Int("turns", res.Turns),
		zap.Int("opponent_life", res.OpponentLife),
		zap.Strings("plays", res.Plays),
	)
	return res, nil
}

func (r *Runner) setup(st *game.State, me, opp *game.Player, seed int64) error {
	deck := slices.Clone(r.deck)
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	add := func(p *game.Player, name string, zone game.Zone) (*game.Card, error) {
		card, err := game.NewCard(name, p.ID)
		if err != nil {
			return nil, err
		}
		return card, st.AddCard(card, zone)
	}
	for _, name := range deck {
		if _, err := add(me, name, game.ZoneLibrary); err != nil {
			return err
		}
	}
	for range r.opts.MaxTurns + 1 {
		if _, err := add(opp, blankCard, game.ZoneLibrary); err != nil {
			return err
		}
	}
	for _, name := range r.opts.OpponentBoard {
		card, err := add(opp, name, game.ZoneBattlefield)
		if err != nil {
			return err
		}
		card.Sick = false
	}
	for range openingHandSize {
		st.Draw(me)
	}
	return nil
}

func (r *Runner) takeTurn(st *game.State, me, opp *game.Player, res *Result) error {
	resolve := func() {
		if err := st.ResolveStack(opp); err != nil {
			r.logger.Warn("resolving stack", zap.Error(err))
		}
	}
	if err := st.AdvanceToStep(rules.StepMain1, resolve); err != nil {
		return err
	}
	if err := r.mainPhase(st, me, opp, true, res); err != nil {
		return err
	}
	if st.IsGameOver() {
		return nil
	}
	if err := st.AdvanceToStep(rules.StepMain2, resolve); err != nil {
		return err
	}
	return r.mainPhase(st, me, opp, false, res)
}

// mainPhase plays cards in the order the sequencing search predicts until
// nothing is left to play. With holdable set, spells that score better
// after combat are kept for the second main phase.
func (r *Runner) mainPhase(st *game.State, me, opp *game.Player, holdable bool, res *Result) error {
	var skipped []*game.Card
	for !st.IsGameOver() {
		hand := slices.DeleteFunc(slices.Clone(me.Hand), func(c *game.Card) bool {
			return slices.Contains(skipped, c)
		})
		damage := 0
		if w := st.DamageDone(); w != nil {
			damage = w.DamageTo(opp.ID)
		}
		card := r.searcher.Generate(sequencing.Request{
			Hand:                   hand,
			ManaAvailable:          st.AvailableMana(me),
			LandsPlayed:            me.LandsPlayed,
			CanPlaySorcery:         st.CanPlaySorcerySpeed(me),
			OpponentLife:           opp.Life,
			OpponentExpectedDamage: damage,
		}).BestCard()
		if card == nil {
			return nil
		}

		if holdable && r.opts.UseSimulation && !card.IsLand() {
			hold, err := r.shouldHold(st, me, card)
			if err != nil {
				return err
			}
			if hold {
				r.logger.Debug("holding spell for the second main phase", zap.String("card", card.Name))
				return nil
			}
		}

		if err := r.play(st, me, opp, card); err != nil {
			// The search ignores colours and targets; try the rest of the hand.
			r.logger.Debug("card not playable", zap.String("card", card.Name), zap.Error(err))
			skipped = append(skipped, card)
			continue
		}
		res.Plays = append(res.Plays, card.Name)
		if card.IsLand() {
			res.LandsPlayed++
		} else {
			res.SpellsCast++
		}
	}
	return nil
}

func (r *Runner) play(st *game.State, me, opp *game.Player, card *game.Card) error {
	if card.IsLand() {
		return st.PlayLand(me, card)
	}
	target, err := r.target(st, opp, card)
	if err != nil {
		return err
	}
	if err := st.CastSpell(me, card, target); err != nil {
		return err
	}
	return st.ResolveStack(opp)
}

// target picks a target for card. Burn aimed at any target goes face, so
// only creature-only spells need a choice: the opponent's best creature.
func (r *Runner) target(st *game.State, opp *game.Player, card *game.Card) (string, error) {
	if card.Effect.Kind != game.EffectDamageCreature {
		return "", nil
	}
	var best *game.Card
	bestValue := 0
	for _, c := range st.CreaturesInPlay(opp) {
		if v := r.evaluator.Creatures().Evaluate(c); best == nil || v > bestValue {
			best, bestValue = c, v
		}
	}
	if best == nil {
		return "", fmt.Errorf("%s has no target: %w", card.Name, game.ErrIllegalAction)
	}
	return best.ID, nil
}

// shouldHold compares casting card now with waiting, discounting creatures
// that could not attack this turn.
func (r *Runner) shouldHold(st *game.State, me *game.Player, card *game.Card) (bool, error) {
	wait, err := r.evaluator.Score(st, me)
	if err != nil {
		return false, err
	}

	cl := game.Clone(st)
	p, err := cl.FindPlayer(me)
	if err != nil {
		return false, err
	}
	c, err := cl.FindCard(card)
	if err != nil {
		return false, err
	}
	opp := cl.WeakestOpponent(p)
	if err := r.play(cl.State, p, opp, c); err != nil {
		return false, nil
	}
	now, err := r.evaluator.Score(cl.State, p)
	if err != nil {
		return false, err
	}
	r.logger.Debug("cast now or hold",
		zap.String("card", card.Name),
		zap.Stringer("now", now),
		zap.Stringer("wait", wait),
	)
	return wait.SummonSickValue > now.SummonSickValue, nil
}
