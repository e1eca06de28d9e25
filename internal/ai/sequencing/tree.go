// Package sequencing predicts the best order to play the cards in a hand
// this turn. It builds every ordering of the hand as a tree, prunes lines
// the mana budget or timing rules forbid, and grades what is left by card
// worth and burn damage, with a large bonus for lines that reach lethal.
package sequencing

import (
	"slices"
	"strings"
	"time"

	"github.com/magefree/mage-goldfish-go/internal/ai/cardvalues"
	"github.com/magefree/mage-goldfish-go/internal/game"
	"go.uber.org/zap"
)

const (
	// DefaultLethalBonus is added to the node where a line deals lethal damage.
	DefaultLethalBonus = 1000
	// DefaultMaxNodes caps the size of a tree.
	DefaultMaxNodes = 250000
)

// Options configure a Searcher.
type Options struct {
	LethalBonus int
	MaxNodes    int
	// Debug logs a dump of every generated tree.
	Debug bool
}

func (o Options) withDefaults() Options {
	if o.LethalBonus <= 0 {
		o.LethalBonus = DefaultLethalBonus
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	return o
}

// Request describes one sequencing decision.
type Request struct {
	Hand []*game.Card
	// ManaAvailable is the mana that can be spent this turn. Lands played
	// along a line do not add to it.
	ManaAvailable  int
	LandsPlayed    int
	CanPlaySorcery bool
	// OpponentLife is the damage a line must deal to be lethal.
	OpponentLife int
	// OpponentExpectedDamage is the damage the opponent has been or will be
	// dealt this turn before the first card is played.
	OpponentExpectedDamage int
}

// Searcher builds card trees against one valuation table.
type Searcher struct {
	logger *zap.Logger
	table  *cardvalues.Table
	opts   Options
}

// NewSearcher creates a searcher. A nil table selects the built-in values.
func NewSearcher(table *cardvalues.Table, opts Options, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table == nil {
		table = cardvalues.New(cardvalues.DefaultDamage)
	}
	return &Searcher{logger: logger, table: table, opts: opts.withDefaults()}
}

// Generate builds, cost-adjusts, prunes and grades the tree for req.
func (s *Searcher) Generate(req Request) *Tree {
	start := time.Now()
	t := s.NewTree()
	t.Build(req.Hand)
	t.AdjustCosts(req.OpponentExpectedDamage)
	t.Prune(req.ManaAvailable, req.LandsPlayed != 0 || !req.CanPlaySorcery, req.CanPlaySorcery)
	t.Grade(req.OpponentLife)

	s.logger.Debug("card tree generated",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("mana", req.ManaAvailable),
		zap.Int("opponent_life", req.OpponentLife),
		zap.Int("hand", len(req.Hand)),
		zap.Int("roots", len(t.roots)),
		zap.Int("leaves", t.CountLeaves()),
		zap.Bool("truncated", t.truncated),
	)
	if s.opts.Debug {
		s.logger.Debug("card tree", zap.Stringer("tree", t))
	}
	return t
}

// PredictedPlaySequence returns the best line for req, or nil when no
// card in hand can be played.
func (s *Searcher) PredictedPlaySequence(req Request) []*game.Card {
	return s.Generate(req).PredictedPlaySequence()
}

// Tree is the forest of play lines for one hand.
type Tree struct {
	logger *zap.Logger
	table  *cardvalues.Table
	opts   Options

	roots     []*Node
	nodes     int
	truncated bool
}

// NewTree returns an empty tree.
func (s *Searcher) NewTree() *Tree {
	return &Tree{logger: s.logger, table: s.table, opts: s.opts}
}

// Build adds a root per card in hand, each followed by every ordering of
// the rest. Cards sharing a name are expanded once per level; the node
// records how many copies it stands for so grades match the full tree.
func (t *Tree) Build(hand []*game.Card) {
	t.nodes, t.truncated = 0, false
	t.roots = t.expand(hand)
	if t.truncated {
		t.logger.Warn("card tree truncated",
			zap.Int("max_nodes", t.opts.MaxNodes),
			zap.Int("hand", len(hand)),
		)
	}
}

func (t *Tree) expand(pool []*game.Card) []*Node {
	var nodes []*Node
	copies := make(map[string]int, len(pool))
	for _, card := range pool {
		copies[card.Name]++
	}
	seen := make(map[string]bool, len(pool))
	for i, card := range pool {
		if seen[card.Name] {
			continue
		}
		if t.nodes >= t.opts.MaxNodes {
			t.truncated = true
			return nodes
		}
		seen[card.Name] = true
		node := t.newNode(card)
		node.copies = copies[card.Name]
		rest := slices.Delete(slices.Clone(pool), i, i+1)
		node.children = t.expand(rest)
		nodes = append(nodes, node)
	}
	return nodes
}

func (t *Tree) newNode(card *game.Card) *Node {
	t.nodes++
	value := t.table.Value(card.Name)
	valued := value != cardvalues.Unvalued
	if !valued {
		value = 0
	}
	return &Node{
		card:   card,
		cost:   card.CMC(),
		value:  value,
		valued: valued,
		damage: t.table.Damage(card),
	}
}

// AdjustCosts applies alternative cost reductions that require the
// opponent to have been dealt damage this turn. expectedDamage is the
// damage dealt before the first card; each card on a line adds its own.
func (t *Tree) AdjustCosts(expectedDamage int) {
	for _, root := range t.roots {
		t.adjust(root, expectedDamage)
	}
}

func (t *Tree) adjust(n *Node, damageSoFar int) {
	n.cost = n.card.CMC()
	if reduction := t.table.CostReduction(n.card.Name); reduction > 0 && damageSoFar > 0 {
		n.cost = n.card.ManaCost.ApplyReduction(reduction, nil).ConvertedManaCost()
	}
	for _, child := range n.children {
		t.adjust(child, damageSoFar+n.damage)
	}
}

// Prune removes lines that spend more than mana, play a second land, or
// play a sorcery-speed card when none can be played.
func (t *Tree) Prune(mana int, landPlayed, canPlaySorcery bool) {
	kept := t.roots[:0]
	for _, root := range t.roots {
		if !playable(root, mana, landPlayed, canPlaySorcery) {
			continue
		}
		root.prune(mana, landPlayed, canPlaySorcery)
		kept = append(kept, root)
	}
	clear(t.roots[len(kept):])
	t.roots = kept
}

// Grade scores every node against the opponent's life total. Grading
// again without changing the tree gives the same result.
func (t *Tree) Grade(targetLife int) {
	for _, root := range t.roots {
		root.grade(0, targetLife, t.opts.LethalBonus)
	}
}

// Roots returns the first cards of every line.
func (t *Tree) Roots() []*Node { return t.roots }

// BestCard returns the card to play next, or nil.
func (t *Tree) BestCard() *game.Card {
	if root := best(t.roots); root != nil {
		return root.card
	}
	return nil
}

// PredictedPlaySequence walks from the best root through the best child
// at every level.
func (t *Tree) PredictedPlaySequence() []*game.Card {
	var line []*game.Card
	for n := best(t.roots); n != nil; n = n.bestChild() {
		line = append(line, n.card)
	}
	return line
}

// CountLeaves returns the number of complete lines in the tree, counting
// lines through same-named cards once per copy.
func (t *Tree) CountLeaves() int {
	total := 0
	for _, root := range t.roots {
		total += root.copies * root.countLeaves()
	}
	return total
}

func (t *Tree) String() string {
	var sb strings.Builder
	sb.WriteString("RootNode { ")
	for i, root := range t.roots {
		if i > 0 {
			sb.WriteString("| ")
		}
		root.write(&sb)
	}
	sb.WriteString("}")
	return sb.String()
}
