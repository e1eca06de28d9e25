package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ManaCost represents a parsed mana cost.
type ManaCost struct {
	Generic   int
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
	X         bool // X in cost (e.g., {X}{R})
}

// ParseCost parses a mana cost string (e.g., "{1}{G}", "{2}{R}{R}", "{X}{R}").
func ParseCost(costStr string) (*ManaCost, error) {
	cost := &ManaCost{}
	if costStr == "" {
		return cost, nil
	}

	for _, match := range symbolPattern.FindAllStringSubmatch(costStr, -1) {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))

		switch symbol {
		case "X":
			cost.X = true
		case "W":
			cost.White++
		case "U":
			cost.Blue++
		case "B":
			cost.Black++
		case "R":
			cost.Red++
		case "G":
			cost.Green++
		case "C":
			cost.Colorless++
		default:
			num, err := strconv.Atoi(symbol)
			if err != nil {
				return nil, fmt.Errorf("unknown mana symbol: {%s}", symbol)
			}
			cost.Generic += num
		}
	}

	return cost, nil
}

// MustParseCost is ParseCost for costs known at compile time.
func MustParseCost(costStr string) *ManaCost {
	cost, err := ParseCost(costStr)
	if err != nil {
		panic(err)
	}
	return cost
}

// ConvertedManaCost returns the mana value of the cost. X counts as zero.
func (mc *ManaCost) ConvertedManaCost() int {
	return mc.Generic + mc.colored()
}

func (mc *ManaCost) colored() int {
	return mc.White + mc.Blue + mc.Black + mc.Red + mc.Green + mc.Colorless
}

// String returns a string representation of the mana cost.
func (mc *ManaCost) String() string {
	var b strings.Builder
	if mc.X {
		b.WriteString("{X}")
	}
	if mc.Generic > 0 {
		fmt.Fprintf(&b, "{%d}", mc.Generic)
	}
	for _, part := range []struct {
		symbol string
		count  int
	}{
		{"W", mc.White}, {"U", mc.Blue}, {"B", mc.Black},
		{"R", mc.Red}, {"G", mc.Green}, {"C", mc.Colorless},
	} {
		for i := 0; i < part.count; i++ {
			b.WriteString("{" + part.symbol + "}")
		}
	}
	return b.String()
}

// CanPay checks if a mana pool can pay for this cost with the given X value.
func (mc *ManaCost) CanPay(pool *ManaPool, xValue int) bool {
	if mc.X && xValue < 0 {
		return false
	}

	if pool.GetTotal(ManaWhite) < mc.White ||
		pool.GetTotal(ManaBlue) < mc.Blue ||
		pool.GetTotal(ManaBlack) < mc.Black ||
		pool.GetTotal(ManaRed) < mc.Red ||
		pool.GetTotal(ManaGreen) < mc.Green ||
		pool.GetTotal(ManaColorless) < mc.Colorless {
		return false
	}

	generic := mc.Generic
	if mc.X {
		generic += xValue
	}
	// Colored requirements are covered; generic is paid from whatever remains.
	return pool.GetTotalMana()-mc.colored() >= generic
}

// ApplyReduction applies a cost reduction to this mana cost.
func (mc *ManaCost) ApplyReduction(genericReduction int, coloredReduction map[ManaType]int) *ManaCost {
	reduced := *mc

	reduced.Generic = max(reduced.Generic-genericReduction, 0)

	for mt, amount := range coloredReduction {
		switch mt {
		case ManaWhite:
			reduced.White = max(reduced.White-amount, 0)
		case ManaBlue:
			reduced.Blue = max(reduced.Blue-amount, 0)
		case ManaBlack:
			reduced.Black = max(reduced.Black-amount, 0)
		case ManaRed:
			reduced.Red = max(reduced.Red-amount, 0)
		case ManaGreen:
			reduced.Green = max(reduced.Green-amount, 0)
		case ManaColorless:
			reduced.Colorless = max(reduced.Colorless-amount, 0)
		}
	}

	return &reduced
}

// ColoredRequirements returns the typed mana the cost demands, keyed by type.
// Types the cost does not need are omitted.
func (mc *ManaCost) ColoredRequirements() map[ManaType]int {
	req := make(map[ManaType]int)
	for mt, n := range map[ManaType]int{
		ManaWhite: mc.White, ManaBlue: mc.Blue, ManaBlack: mc.Black,
		ManaRed: mc.Red, ManaGreen: mc.Green, ManaColorless: mc.Colorless,
	} {
		if n > 0 {
			req[mt] = n
		}
	}
	return req
}
