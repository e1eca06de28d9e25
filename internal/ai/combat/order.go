package combat

import (
	"cmp"
	"slices"

	"github.com/magefree/mage-goldfish-go/internal/ai/creature"
	"github.com/magefree/mage-goldfish-go/internal/game"
)

// OrderBlockers returns the damage assignment order for attacker. The most
// valuable blockers the attacker's damage can kill come first, in rating
// order; the ones it cannot kill go last.
func OrderBlockers(st *game.State, creatures *creature.Evaluator, attacker *game.Card, blockers []*game.Card) []*game.Card {
	damage := attacker.NetCombatDamage()
	var first, last []*game.Card
	for _, b := range byEvaluation(creatures, blockers) {
		lethal := st.LethalDamage(b, attacker)
		if lethal > damage {
			last = append(last, b)
			continue
		}
		first = append(first, b)
		damage -= lethal
	}
	return append(first, last...)
}

// OrderBlocker inserts a newly added blocker into an existing damage
// assignment order, keeping the order of the old blockers.
func OrderBlocker(st *game.State, creatures *creature.Evaluator, attacker, blocker *game.Card, oldBlockers []*game.Card) []*game.Card {
	sorted := byEvaluation(creatures, append(slices.Clone(oldBlockers), blocker))
	var rightAfter *game.Card
	if i := slices.Index(sorted, blocker); i > 0 {
		rightAfter = sorted[i-1]
	}

	damage := attacker.NetCombatDamage()
	lethal := st.LethalDamage(blocker, attacker)
	order := make([]*game.Card, 0, len(oldBlockers)+1)
	added := false
	if rightAfter == nil && damage >= lethal {
		order = append(order, blocker)
		added = true
	}
	for _, c := range oldBlockers {
		damage -= st.LethalDamage(c, attacker)
		order = append(order, c)
		if !added && c == rightAfter && damage <= lethal {
			order = append(order, blocker)
			added = true
		}
	}
	if !added {
		order = append(order, blocker)
	}
	return order
}

// byEvaluation returns cards sorted by rating, best first.
func byEvaluation(creatures *creature.Evaluator, cards []*game.Card) []*game.Card {
	sorted := slices.Clone(cards)
	slices.SortStableFunc(sorted, func(a, b *game.Card) int {
		return cmp.Compare(creatures.Evaluate(b), creatures.Evaluate(a))
	})
	return sorted
}
