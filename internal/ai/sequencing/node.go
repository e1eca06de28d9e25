package sequencing

import (
	"strconv"
	"strings"

	"github.com/magefree/mage-goldfish-go/internal/game"
)

// Node is one step of a play line: its card is played after every card on
// the path from the root. Children are owned exclusively by their parent.
type Node struct {
	card     *game.Card
	cost     int
	value    int
	valued   bool
	damage   int
	// copies is how many identical cards in the pool this node stands for.
	copies   int
	children []*Node

	totalDamage int
	maxValue    int
	lethal      bool
}

// Card returns the card played at this node.
func (n *Node) Card() *game.Card { return n.card }

// Cost returns the converted mana the card costs on this line, after reductions.
func (n *Node) Cost() int { return n.cost }

// Value returns the card's intrinsic worth. Unvalued cards grade with a
// worth of zero and lose ties against valued ones, see Valued.
func (n *Node) Value() int { return n.value }

// Copies returns how many same-named cards this node represents among its
// siblings. Each copy would lead to an identical subtree.
func (n *Node) Copies() int { return n.copies }

// Valued reports whether the valuation table knows the card.
func (n *Node) Valued() bool { return n.valued }

// Damage returns the direct damage the card is expected to deal.
func (n *Node) Damage() int { return n.damage }

// TotalDamage returns the damage of this card plus the best damage line below it.
func (n *Node) TotalDamage() int { return n.totalDamage }

// Grade returns the graded worth of the subtree rooted at n.
func (n *Node) Grade() int { return n.maxValue }

// Lethal reports whether the line reaches lethal damage at this node.
func (n *Node) Lethal() bool { return n.lethal }

// Children returns the cards that can follow this one.
func (n *Node) Children() []*Node { return n.children }

// grade scores the subtree bottom-up. damageSoFar is the damage dealt by
// the cards before n on the path.
func (n *Node) grade(damageSoFar, targetLife, lethalBonus int) {
	n.totalDamage = n.damage
	n.maxValue = 0
	n.lethal = false

	best := 0
	for _, child := range n.children {
		child.grade(damageSoFar+n.damage, targetLife, lethalBonus)
		n.maxValue += child.copies * child.maxValue
		best = max(best, child.totalDamage)
	}
	n.totalDamage += best
	n.maxValue += n.value + n.totalDamage

	if targetLife > 0 && damageSoFar < targetLife && damageSoFar+n.damage >= targetLife {
		n.lethal = true
		n.maxValue += lethalBonus
	}
}

// prune drops children that cannot be played after n. mana is the budget
// left before n is paid for.
func (n *Node) prune(mana int, landPlayed, canPlaySorcery bool) {
	mana -= n.cost
	if n.card.IsLand() {
		landPlayed = true
	}
	kept := n.children[:0]
	for _, child := range n.children {
		if !playable(child, mana, landPlayed, canPlaySorcery) {
			continue
		}
		child.prune(mana, landPlayed, canPlaySorcery)
		kept = append(kept, child)
	}
	clear(n.children[len(kept):])
	n.children = kept
}

func playable(n *Node, mana int, landPlayed, canPlaySorcery bool) bool {
	switch {
	case n.card.IsSorcerySpeed() && !canPlaySorcery:
		return false
	case n.cost > mana:
		return false
	case n.card.IsLand() && landPlayed:
		return false
	}
	return true
}

func (n *Node) countLeaves() int {
	if len(n.children) == 0 {
		return 1
	}
	total := 0
	for _, child := range n.children {
		total += child.copies * child.countLeaves()
	}
	return total
}

// bestChild returns the highest graded child. On a tie a valued card beats
// an unvalued one, otherwise the first one wins.
func (n *Node) bestChild() *Node {
	return best(n.children)
}

func best(nodes []*Node) *Node {
	var top *Node
	for _, node := range nodes {
		if top == nil || node.maxValue > top.maxValue ||
			(node.maxValue == top.maxValue && node.valued && !top.valued) {
			top = node
		}
	}
	return top
}

func (n *Node) write(sb *strings.Builder) {
	sb.WriteString(n.card.Name)
	sb.WriteString("[ ")
	for i, child := range n.children {
		if i > 0 {
			sb.WriteString(", ")
		}
		child.write(sb)
		sb.WriteString(" : ")
		sb.WriteString(strconv.Itoa(child.cost))
	}
	sb.WriteString("]")
}

func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}
