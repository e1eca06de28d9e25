package mana

// ManaType represents a type of mana.
type ManaType string

const (
	ManaWhite     ManaType = "WHITE"
	ManaBlue      ManaType = "BLUE"
	ManaBlack     ManaType = "BLACK"
	ManaRed       ManaType = "RED"
	ManaGreen     ManaType = "GREEN"
	ManaColorless ManaType = "COLORLESS"
)

// symbolTypes maps a single mana symbol to its type.
var symbolTypes = map[string]ManaType{
	"W": ManaWhite,
	"U": ManaBlue,
	"B": ManaBlack,
	"R": ManaRed,
	"G": ManaGreen,
	"C": ManaColorless,
}

// ManaPool is the mana a player could produce right now, by type.
// It is rebuilt from untapped sources whenever a cost has to be checked,
// so it carries no floating/emptying semantics.
type ManaPool struct {
	amounts map[ManaType]int
}

// NewManaPool creates a new empty mana pool.
func NewManaPool() *ManaPool {
	return &ManaPool{amounts: make(map[ManaType]int)}
}

// Add adds mana to the pool.
func (mp *ManaPool) Add(manaType ManaType, amount int) {
	if amount <= 0 {
		return
	}
	mp.amounts[manaType] += amount
}

// AddSymbol adds one mana for a produced symbol such as "R" or "C".
// Unknown symbols produce colorless mana.
func (mp *ManaPool) AddSymbol(symbol string) {
	if mt, ok := symbolTypes[symbol]; ok {
		mp.Add(mt, 1)
		return
	}
	mp.Add(ManaColorless, 1)
}

// GetTotal returns the amount of mana of the given type.
func (mp *ManaPool) GetTotal(manaType ManaType) int {
	return mp.amounts[manaType]
}

// GetTotalMana returns the total amount of mana in the pool.
func (mp *ManaPool) GetTotalMana() int {
	total := 0
	for _, amount := range mp.amounts {
		total += amount
	}
	return total
}

// Copy creates a deep copy of the pool.
func (mp *ManaPool) Copy() *ManaPool {
	copied := NewManaPool()
	for mt, amount := range mp.amounts {
		copied.amounts[mt] = amount
	}
	return copied
}

// TypeOfSymbol returns the mana type a produced symbol stands for.
// Unknown symbols are colorless.
func TypeOfSymbol(symbol string) ManaType {
	if mt, ok := symbolTypes[symbol]; ok {
		return mt
	}
	return ManaColorless
}
