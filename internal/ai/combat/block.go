package combat

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/magefree/mage-goldfish-go/internal/ai/creature"
	"github.com/magefree/mage-goldfish-go/internal/game"
	"go.uber.org/zap"
)

const (
	// DefaultDangerThreshold is the life left after combat below which
	// the blocking player's life is in danger.
	DefaultDangerThreshold = 4
	// DefaultSeriousDangerThreshold is the life left after combat below
	// which the blocking player is about to lose.
	DefaultSeriousDangerThreshold = 1
)

// BlockOptions tune when the block controller escalates.
type BlockOptions struct {
	DangerThreshold        int
	SeriousDangerThreshold int
}

func (o BlockOptions) withDefaults() BlockOptions {
	if o.DangerThreshold <= 0 {
		o.DangerThreshold = DefaultDangerThreshold
	}
	if o.SeriousDangerThreshold <= 0 {
		o.SeriousDangerThreshold = DefaultSeriousDangerThreshold
	}
	return o
}

// BlockController assigns a player's blockers for one combat. Blocks are
// built in passes: a basic pairing first, then, while the player's life is
// in danger, trade, chump, trample and gang blocks on an escalating ladder.
type BlockController struct {
	logger    *zap.Logger
	st        *game.State
	player    *game.Player
	creatures *creature.Evaluator
	opts      BlockOptions

	attackers []*game.Card // all attackers, most threatening first
	// attackersLeft holds attackers not blocked yet.
	attackersLeft []*game.Card
	// blockedButUnkilled holds blocked attackers the current blocks do not kill.
	blockedButUnkilled []*game.Card
	// blockersLeft holds blockers not assigned yet.
	blockersLeft []*game.Card
	lifeInDanger bool
	// diff is the evaluation margin an attacker must exceed a blocker by
	// before trading one for the other.
	diff int
}

// NewBlockController creates a block controller for player p.
func NewBlockController(st *game.State, p *game.Player, creatures *creature.Evaluator, opts BlockOptions, logger *zap.Logger) *BlockController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if creatures == nil {
		creatures = creature.NewEvaluator(logger, false)
	}
	return &BlockController{
		logger:    logger,
		st:        st,
		player:    p,
		creatures: creatures,
		opts:      opts.withDefaults(),
	}
}

// blockPass is one named step of the escalation ladder. It reads the
// current assignment and the remaining attackers and blockers, and adds blocks.
type blockPass struct {
	name string
	run  func(bc *BlockController, combat *game.Combat)
}

var (
	goodBlocks              = blockPass{"good blocks", (*BlockController).makeGoodBlocks}
	tradeBlocks             = blockPass{"trade blocks", (*BlockController).makeTradeBlocks}
	chumpBlocks             = blockPass{"chump blocks", (*BlockController).makeChumpBlocks}
	gangBlocks              = blockPass{"gang blocks", (*BlockController).makeGangBlocks}
	reinforceAgainstTrample = blockPass{"reinforce against trample", (*BlockController).reinforceBlockersAgainstTrample}
	reinforceToKill         = blockPass{"reinforce to kill", (*BlockController).reinforceBlockersToKill}
)

func (bc *BlockController) run(combat *game.Combat, passes ...blockPass) {
	for _, pass := range passes {
		pass.run(bc, combat)
		bc.logger.Debug("block pass",
			zap.String("pass", pass.name),
			zap.Int("attackers_left", len(bc.attackersLeft)),
			zap.Int("blockers_left", len(bc.blockersLeft)),
		)
	}
}

// AssignBlockers declares blocks for the current combat. Creatures in
// excluded are never used as blockers. Blocks other players declared are
// left alone.
func (bc *BlockController) AssignBlockers(excluded []*game.Card) error {
	combat := bc.st.Combat()
	if combat == nil {
		return fmt.Errorf("assign blockers outside combat: %w", game.ErrIllegalAction)
	}
	var possible []*game.Card
	for _, c := range bc.st.CreaturesInPlay(bc.player) {
		if !slices.Contains(excluded, c) {
			possible = append(possible, c)
		}
	}
	bc.attackers = bc.sortAttackers(combat)
	bc.assignBlockers(combat, possible)
	return nil
}

// sortAttackers orders the attackers of the player and their planeswalkers,
// the biggest threats first.
func (bc *BlockController) sortAttackers(combat *game.Combat) []*game.Card {
	attackers := combat.AttackersOfPlayer(bc.player.ID)
	slices.SortStableFunc(attackers, func(a, b *game.Card) int {
		return cmp.Compare(bc.creatures.Evaluate(b), bc.creatures.Evaluate(a))
	})
	slices.SortStableFunc(attackers, func(a, b *game.Card) int {
		return cmp.Compare(b.NetPower(), a.NetPower())
	})
	slices.SortStableFunc(attackers, func(a, b *game.Card) int {
		switch {
		case a.MustBeBlocked && !b.MustBeBlocked:
			return -1
		case !a.MustBeBlocked && b.MustBeBlocked:
			return 1
		}
		return 0
	})
	return attackers
}

// clearBlockers removes the player's blocks and resets the working lists.
func (bc *BlockController) clearBlockers(combat *game.Combat, possible []*game.Card) {
	for _, b := range combat.AllBlockers() {
		if b.ControllerID == bc.player.ID {
			combat.RemoveFromCombat(b)
		}
	}
	bc.attackersLeft = nil
	for _, a := range bc.attackers {
		if bc.st.CanBeBlocked(a) {
			bc.attackersLeft = append(bc.attackersLeft, a)
		}
	}
	bc.blockersLeft = nil
	for _, b := range possible {
		if bc.st.CanBlockAny(b) {
			bc.blockersLeft = append(bc.blockersLeft, b)
		}
	}
	// Begin with the weakest blockers.
	slices.SortStableFunc(bc.blockersLeft, func(a, b *game.Card) int {
		return cmp.Compare(a.NetPower(), b.NetPower())
	})
	bc.blockedButUnkilled = nil
}

func (bc *BlockController) assignBlockers(combat *game.Combat, possible []*game.Card) {
	bc.logger.Debug("assigning blockers",
		zap.String("player", bc.player.Name),
		zap.Stringers("attackers", bc.attackers),
	)
	if len(bc.attackers) == 0 {
		return
	}
	bc.clearBlockers(combat, possible)
	if len(bc.attackersLeft) == 0 {
		return
	}
	bc.diff = max(bc.player.Life*2-5, 0)

	bc.makeBlocks(combat)

	// Holding a fog, life is never in danger.
	if !bc.hasFogEffect() {
		bc.lifeInDanger = bc.inDanger(combat)
		if bc.lifeInDanger {
			bc.diff = 0
			bc.run(combat, tradeBlocks, chumpBlocks)
		}
		if bc.lifeInDanger && bc.inDanger(combat) {
			bc.run(combat, reinforceAgainstTrample)
		} else {
			bc.lifeInDanger = false
		}
		if !bc.lifeInDanger {
			bc.run(combat, reinforceToKill)
		}

		// Still in danger: start over with a safer approach.
		if bc.lifeInDanger {
			bc.clearBlockers(combat, possible)
			bc.run(combat, tradeBlocks, goodBlocks, chumpBlocks)
			if bc.inDanger(combat) {
				bc.run(combat, reinforceAgainstTrample)
			} else {
				bc.lifeInDanger = false
			}
			bc.run(combat, gangBlocks, reinforceToKill)
		}

		// About to lose: chump first, everything else after.
		if bc.lifeInDanger && bc.inSeriousDanger(combat) {
			bc.clearBlockers(combat, possible)
			bc.run(combat, chumpBlocks)
			if bc.inDanger(combat) {
				bc.run(combat, tradeBlocks)
			} else {
				bc.lifeInDanger = false
			}
			if bc.lifeInDanger && bc.inDanger(combat) {
				bc.run(combat, reinforceAgainstTrample)
			} else {
				bc.lifeInDanger = false
			}
			if !bc.lifeInDanger {
				bc.run(combat, goodBlocks)
			}
			bc.run(combat, gangBlocks, reinforceToKill)
		}
	}

	bc.validate(combat)
}

// validate drops blocks that would be illegal, such as a lone blocker on
// a menace attacker or a creature that can't block alone.
func (bc *BlockController) validate(combat *game.Combat) {
	for _, a := range bc.attackers {
		blockers := combat.Blockers(a)
		if bc.st.CanAttackerBeBlockedWithAmount(a, len(blockers)) {
			continue
		}
		for _, b := range blockers {
			if b.ControllerID == bc.player.ID {
				combat.RemoveFromCombat(b)
			}
		}
	}
	if mine := bc.myBlockers(combat); len(mine) == 1 && mine[0].CantBlockAlone {
		combat.RemoveFromCombat(mine[0])
	}
}

func (bc *BlockController) myBlockers(combat *game.Combat) []*game.Card {
	var out []*game.Card
	for _, b := range combat.AllBlockers() {
		if b.ControllerID == bc.player.ID {
			out = append(out, b)
		}
	}
	return out
}

// possibleBlockers returns the blockers able to block attacker. With solo
// set, creatures that can't block alone are left out.
func (bc *BlockController) possibleBlockers(combat *game.Combat, attacker *game.Card, blockers []*game.Card, solo bool) []*game.Card {
	var out []*game.Card
	for _, b := range blockers {
		if !bc.st.CanBlock(attacker, b, combat) {
			continue
		}
		if solo && b.CantBlockAlone {
			continue
		}
		out = append(out, b)
	}
	return out
}

// block declares blocker on attacker and takes it off the blockers left.
func (bc *BlockController) block(combat *game.Combat, attacker, blocker *game.Card) bool {
	if err := combat.AddBlocker(attacker, blocker); err != nil {
		bc.logger.Debug("block rejected", zap.String("blocker", blocker.Name), zap.Error(err))
		return false
	}
	bc.blockersLeft = remove(bc.blockersLeft, blocker)
	bc.logger.Debug("blocker declared",
		zap.String("blocker", blocker.String()),
		zap.String("attacker", attacker.String()),
	)
	return true
}

func (bc *BlockController) markBlocked(attacker *game.Card, blockers ...*game.Card) {
	bc.attackersLeft = remove(bc.attackersLeft, attacker)
	if !bc.canKillAttacker(attacker, blockers) {
		bc.blockedButUnkilled = append(bc.blockedButUnkilled, attacker)
	}
}

// makeBlocks pairs each attacker with the weakest blocker able to block it alone.
func (bc *BlockController) makeBlocks(combat *game.Combat) {
	for _, a := range slices.Clone(bc.attackersLeft) {
		if bc.st.MinBlockers(a) > 1 {
			continue
		}
		candidates := bc.possibleBlockers(combat, a, bc.blockersLeft, true)
		if len(candidates) == 0 {
			continue
		}
		if bc.block(combat, a, candidates[0]) {
			bc.markBlocked(a, candidates[0])
		}
	}
}

// makeGoodBlocks blocks with creatures that survive, preferring ones that
// also kill the attacker, and trades up when the attacker is worth more.
func (bc *BlockController) makeGoodBlocks(combat *game.Combat) {
	for _, a := range slices.Clone(bc.attackersLeft) {
		if bc.st.MinBlockers(a) > 1 {
			continue
		}
		candidates := bc.possibleBlockers(combat, a, bc.blockersLeft, true)
		var safe, killing []*game.Card
		for _, b := range candidates {
			if !bc.canKillBlocker(a, b) {
				safe = append(safe, b)
			}
			if bc.canKillAttacker(a, []*game.Card{b}) {
				killing = append(killing, b)
			}
		}

		var blocker *game.Card
		for _, b := range safe {
			if slices.Contains(killing, b) {
				blocker = b
				break
			}
		}
		if blocker == nil && len(safe) > 0 {
			blocker = bc.worst(safe)
		}
		if blocker == nil {
			if w := bc.worst(killing); w != nil && bc.creatures.Evaluate(w)+bc.diff < bc.creatures.Evaluate(a) {
				blocker = w
			}
		}
		if blocker != nil && bc.block(combat, a, blocker) {
			bc.markBlocked(a, blocker)
		}
	}
}

// makeTradeBlocks blocks with the cheapest creature able to kill the attacker.
func (bc *BlockController) makeTradeBlocks(combat *game.Combat) {
	for _, a := range slices.Clone(bc.attackersLeft) {
		if bc.st.MinBlockers(a) > 1 {
			continue
		}
		var killing []*game.Card
		for _, b := range bc.possibleBlockers(combat, a, bc.blockersLeft, true) {
			if bc.canKillAttacker(a, []*game.Card{b}) {
				killing = append(killing, b)
			}
		}
		if w := bc.worst(killing); w != nil && bc.block(combat, a, w) {
			bc.markBlocked(a, w)
		}
	}
}

// makeChumpBlocks throws the cheapest creatures in front of attackers while
// life stays in danger.
func (bc *BlockController) makeChumpBlocks(combat *game.Combat) {
	for _, a := range slices.Clone(bc.attackersLeft) {
		if !bc.inDanger(combat) {
			return
		}
		if bc.st.MinBlockers(a) > 1 || combat.DefenderOf(a) != bc.player.ID {
			continue
		}
		w := bc.worst(bc.possibleBlockers(combat, a, bc.blockersLeft, true))
		if w != nil && bc.block(combat, a, w) {
			bc.markBlocked(a, w)
		}
	}
}

// makeGangBlocks blocks an attacker with two creatures that kill it
// together when it can kill at most one of them.
func (bc *BlockController) makeGangBlocks(combat *game.Combat) {
	for _, a := range slices.Clone(bc.attackersLeft) {
		candidates := bc.possibleBlockers(combat, a, bc.blockersLeft, false)
		power := a.NetCombatDamage()
	pairs:
		for i := range candidates {
			for j := i + 1; j < len(candidates); j++ {
				x, y := candidates[i], candidates[j]
				pair := []*game.Card{x, y}
				if !bc.canKillAttacker(a, pair) {
					continue
				}
				if power >= bc.st.LethalDamage(x, a)+bc.st.LethalDamage(y, a) {
					continue
				}
				if bc.gangBlock(combat, a, x, y) {
					bc.attackersLeft = remove(bc.attackersLeft, a)
				}
				break pairs
			}
		}
	}
}

// gangBlock declares x and y together on attacker. If the second block is
// rejected the first is taken back, so no half gang block is left behind.
func (bc *BlockController) gangBlock(combat *game.Combat, attacker, x, y *game.Card) bool {
	if !bc.block(combat, attacker, x) {
		return false
	}
	if bc.block(combat, attacker, y) {
		return true
	}
	combat.RemoveFromCombat(x)
	bc.blockersLeft = append(bc.blockersLeft, x)
	return false
}

// reinforceBlockersAgainstTrample adds blockers to blocked tramplers while
// the damage getting through still endangers the player.
func (bc *BlockController) reinforceBlockersAgainstTrample(combat *game.Combat) {
	for _, a := range bc.attackers {
		if !a.HasKeyword(game.KeywordTrample) || len(combat.Blockers(a)) == 0 || combat.DefenderOf(a) != bc.player.ID {
			continue
		}
		for _, b := range bc.possibleBlockers(combat, a, slices.Clone(bc.blockersLeft), false) {
			if !bc.inDanger(combat) {
				return
			}
			bc.block(combat, a, b)
		}
	}
}

// reinforceBlockersToKill adds a blocker the attacker cannot kill to blocks
// that would not kill the attacker on their own.
func (bc *BlockController) reinforceBlockersToKill(combat *game.Combat) {
	for _, a := range slices.Clone(bc.blockedButUnkilled) {
		blockers := combat.Blockers(a)
		if len(blockers) == 0 || bc.canKillAttacker(a, blockers) {
			continue
		}
		for _, b := range bc.possibleBlockers(combat, a, bc.blockersLeft, false) {
			if bc.canKillBlocker(a, b) || !bc.canKillAttacker(a, append(slices.Clone(blockers), b)) {
				continue
			}
			if bc.block(combat, a, b) {
				bc.blockedButUnkilled = remove(bc.blockedButUnkilled, a)
				break
			}
		}
	}
}

// hasFogEffect reports whether the player holds a fog they can cast now.
func (bc *BlockController) hasFogEffect() bool {
	for _, c := range bc.player.Hand {
		if c.Effect.Kind == game.EffectFog && bc.st.CanCast(bc.player, c) {
			return true
		}
	}
	return false
}

// predictedDamage is the combat damage the player takes with the current blocks.
func (bc *BlockController) predictedDamage(combat *game.Combat) int {
	damage := 0
	for _, a := range bc.attackers {
		if combat.DefenderOf(a) != bc.player.ID {
			continue
		}
		power := a.NetCombatDamage()
		if a.HasKeyword(game.KeywordDoubleStrike) {
			power *= 2
		}
		blockers := combat.Blockers(a)
		if len(blockers) == 0 {
			damage += power
			continue
		}
		if a.HasKeyword(game.KeywordTrample) {
			absorbed := 0
			for _, b := range blockers {
				absorbed += bc.st.LethalDamage(b, a)
			}
			damage += max(power-absorbed, 0)
		}
	}
	return damage
}

func (bc *BlockController) inDanger(combat *game.Combat) bool {
	return bc.player.Life-bc.predictedDamage(combat) < bc.opts.DangerThreshold
}

func (bc *BlockController) inSeriousDanger(combat *game.Combat) bool {
	return bc.player.Life-bc.predictedDamage(combat) < bc.opts.SeriousDangerThreshold
}

// worst returns the lowest rated creature, or nil.
func (bc *BlockController) worst(cards []*game.Card) *game.Card {
	var worst *game.Card
	worstValue := 0
	for _, c := range cards {
		if v := bc.creatures.Evaluate(c); worst == nil || v < worstValue {
			worst, worstValue = c, v
		}
	}
	return worst
}

// dealsFirst reports whether a deals its combat damage before b does.
func dealsFirst(a, b *game.Card) bool {
	return a.HasFirstOrDoubleStrike() && !b.HasFirstOrDoubleStrike()
}

func (bc *BlockController) damageKills(source, target *game.Card) bool {
	damage := source.NetCombatDamage()
	return damage > 0 && damage >= bc.st.LethalDamage(target, source)
}

// canKillBlocker reports whether attacker destroys blocker in a one-on-one block.
func (bc *BlockController) canKillBlocker(attacker, blocker *game.Card) bool {
	if dealsFirst(blocker, attacker) && bc.damageKills(blocker, attacker) {
		return false
	}
	return bc.damageKills(attacker, blocker)
}

// canKillAttacker reports whether blockers together destroy attacker.
func (bc *BlockController) canKillAttacker(attacker *game.Card, blockers []*game.Card) bool {
	if len(blockers) == 1 {
		b := blockers[0]
		if dealsFirst(attacker, b) && bc.damageKills(attacker, b) {
			return false
		}
		return bc.damageKills(b, attacker)
	}
	total := 0
	for _, b := range blockers {
		damage := b.NetCombatDamage()
		if damage > 0 && b.HasKeyword(game.KeywordDeathtouch) {
			return true
		}
		total += damage
	}
	return total > 0 && total >= bc.st.LethalDamage(attacker, nil)
}

func remove(cards []*game.Card, card *game.Card) []*game.Card {
	return slices.DeleteFunc(slices.Clone(cards), func(c *game.Card) bool { return c == card })
}
