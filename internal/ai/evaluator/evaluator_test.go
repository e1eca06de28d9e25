package evaluator

import (
	"math"
	"testing"

	"github.com/magefree/mage-goldfish-go/internal/game"
	"github.com/magefree/mage-goldfish-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// attackAll attacks the weakest opponent with every creature able to.
type attackAll struct{}

func (attackAll) DeclareAttackers(st *game.State, p *game.Player) error {
	target := st.WeakestOpponent(p)
	for _, c := range st.CreaturesInPlay(p) {
		if st.CanAttack(c, target.ID) {
			if err := st.Combat().AddAttacker(c, target.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (attackAll) DeclareBlockers(*game.State, *game.Player) error { return nil }

func (attackAll) OrderBlockers(_ *game.State, _ *game.Card, blockers []*game.Card) []*game.Card {
	return blockers
}

func newEvaluator(t *testing.T, simulate bool) *Evaluator {
	return New(zaptest.NewLogger(t), Options{Debug: true, SimulateCombat: simulate})
}

func TestScoreGameOver(t *testing.T) {
	h := game.NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	h.AddPermanent(bob, "Serra Angel")
	bob.Life = 0
	require.True(t, h.State.CheckStateBasedActions())
	require.True(t, h.State.IsGameOver())

	e := newEvaluator(t, true)
	won, err := e.Score(h.State, alice)
	require.NoError(t, err)
	lost, err := e.Score(h.State, bob)
	require.NoError(t, err)

	assert.Equal(t, NewScore(math.MaxInt), won)
	assert.Equal(t, NewScore(math.MinInt), lost)
}

func TestScoreHandSize(t *testing.T) {
	h := game.NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	h.AddToHand(alice, "Mountain", "Mountain", "Mountain", "Mountain",
		"Lightning Bolt", "Lightning Bolt", "Lightning Bolt", "Lightning Bolt")
	h.AddToHand(bob, "Forest", "Forest")

	s, err := newEvaluator(t, true).Score(h.State, alice)
	require.NoError(t, err)

	// +5*7 capped, +1 excess, -4*2; equal life totals cancel out.
	assert.Equal(t, NewScore(28), s)

	alice.UnlimitedHandSize = true
	s, err = newEvaluator(t, true).Score(h.State, alice)
	require.NoError(t, err)
	assert.Equal(t, 5*8-4*2, s.Value)
}

func TestScoreLife(t *testing.T) {
	h := game.NewTestHarness(t, "alice", "bob", "carol")
	alice, bob, carol := h.Player(0), h.Player(1), h.Player(2)
	alice.Life = 10
	bob.Life = 6
	carol.Life = 14

	s, err := newEvaluator(t, false).Score(h.State, alice)
	require.NoError(t, err)
	assert.Equal(t, 2*10-2*(6+14)/2, s.Value)
}

func TestScoreSummonSickDiscount(t *testing.T) {
	h := game.NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	bears := h.AddSickPermanent(alice, "Grizzly Bears")
	e := newEvaluator(t, true)
	bearsValue := e.Creatures().Evaluate(bears)

	s, err := e.Score(h.State, alice)
	require.NoError(t, err)
	assert.Equal(t, bearsValue, s.Value)
	assert.Equal(t, 0, s.SummonSickValue)
	assert.Less(t, s.SummonSickValue, s.Value)

	// Only the evaluated player's creatures are discounted.
	s, err = e.Score(h.State, bob)
	require.NoError(t, err)
	assert.Equal(t, s.Value, s.SummonSickValue)

	h.SetStep(rules.StepMain2)
	s, err = e.Score(h.State, alice)
	require.NoError(t, err)
	assert.Equal(t, s.Value, s.SummonSickValue)

	h.SetStep(rules.StepMain1)
	bears.Sick = false
	s, err = e.Score(h.State, alice)
	require.NoError(t, err)
	assert.Equal(t, s.Value, s.SummonSickValue)
}

func TestScoreSimulatesCombat(t *testing.T) {
	h := game.NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	alice.Controller = attackAll{}
	guide := h.AddPermanent(alice, "Goblin Guide")

	withoutCombat, err := newEvaluator(t, false).Score(h.State, alice)
	require.NoError(t, err)
	withCombat, err := newEvaluator(t, true).Score(h.State, alice)
	require.NoError(t, err)

	// Two damage to the opponent is worth 4; the guide loses 1 for being tapped.
	assert.Equal(t, withoutCombat.Value+3, withCombat.Value)

	assert.Equal(t, game.StartingLife, bob.Life)
	assert.False(t, guide.Tapped)
	assert.Nil(t, h.State.Combat())
	assert.Equal(t, rules.StepMain1, h.State.Step())
}

func TestScoreLethalCombatIsAWin(t *testing.T) {
	h := game.NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	alice.Controller = attackAll{}
	h.AddPermanent(alice, "Goblin Guide")
	bob.Life = 2

	s, err := newEvaluator(t, true).Score(h.State, alice)
	require.NoError(t, err)
	assert.Equal(t, NewScore(math.MaxInt), s)
	assert.False(t, h.State.IsGameOver())
	assert.Equal(t, 2, bob.Life)
}

func TestScoreResolvesStackAgainstWeakestOpponent(t *testing.T) {
	h := game.NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	h.AddPermanent(alice, "Mountain")
	h.AddSickPermanent(alice, "Grizzly Bears")
	bolt := h.AddToHand(alice, "Lightning Bolt")[0]
	require.NoError(t, h.State.CastSpell(alice, bolt, ""))

	e := newEvaluator(t, true)
	s, err := e.Score(h.State, alice)
	require.NoError(t, err)
	noSim, err := newEvaluator(t, false).Score(h.State, alice)
	require.NoError(t, err)

	assert.Equal(t, noSim.Value+6, s.Value)
	assert.Equal(t, game.StartingLife, bob.Life)
	assert.Equal(t, 1, h.State.Stack().Len())
}

func TestScoreSkipsLookaheadWithoutCreatures(t *testing.T) {
	h := game.NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	h.AddPermanent(alice, "Mountain")
	h.AddPermanent(bob, "Goblin Guide")
	bob.Controller = attackAll{}

	e := newEvaluator(t, true)
	cs, err := e.simulateUpcomingCombat(h.State, alice)
	require.NoError(t, err)
	assert.Nil(t, cs)

	withSim, err := e.Score(h.State, alice)
	require.NoError(t, err)
	noSim, err := newEvaluator(t, false).Score(h.State, alice)
	require.NoError(t, err)
	assert.Equal(t, noSim, withSim)
}

func TestScoreSkipsLookaheadAfterCombat(t *testing.T) {
	h := game.NewTestHarness(t)
	alice := h.Player(0)
	alice.Controller = attackAll{}
	h.AddPermanent(alice, "Goblin Guide")
	h.SetStep(rules.StepEndCombat)

	cs, err := newEvaluator(t, true).simulateUpcomingCombat(h.State, alice)
	require.NoError(t, err)
	assert.Nil(t, cs)
}

func TestScoreDoesNotChangeState(t *testing.T) {
	h := game.NewTestHarness(t)
	alice, bob := h.Player(0), h.Player(1)
	alice.Controller = attackAll{}
	guide := h.AddPermanent(alice, "Goblin Guide")
	bears := h.AddPermanent(bob, "Grizzly Bears")
	h.AddToHand(alice, "Lightning Bolt")
	h.AddToLibrary(bob, "Forest")

	before := snapshot(h.State)
	_, err := newEvaluator(t, true).Score(h.State, alice)
	require.NoError(t, err)
	_, err = newEvaluator(t, true).Score(h.State, bob)
	require.NoError(t, err)

	assert.Equal(t, before, snapshot(h.State))
	assert.Equal(t, game.ZoneBattlefield, guide.Zone)
	assert.Equal(t, game.ZoneBattlefield, bears.Zone)
}

type stateSnapshot struct {
	step        rules.Step
	life        []int
	hands       []int
	libraries   []int
	graveyards  []int
	battlefield int
	tapped      int
}

func snapshot(st *game.State) stateSnapshot {
	s := stateSnapshot{step: st.Step(), battlefield: len(st.Battlefield())}
	for _, p := range st.Players() {
		s.life = append(s.life, p.Life)
		s.hands = append(s.hands, len(p.Hand))
		s.libraries = append(s.libraries, len(p.Library))
		s.graveyards = append(s.graveyards, len(p.Graveyard))
	}
	for _, c := range st.Battlefield() {
		if c.Tapped {
			s.tapped++
		}
	}
	return s
}

func TestEvalCard(t *testing.T) {
	h := game.NewTestHarness(t)
	alice := h.Player(0)
	e := newEvaluator(t, false)

	mountain := h.AddPermanent(alice, "Mountain")
	bridge := h.AddPermanent(alice, "Ensnaring Bridge")
	chandra := h.AddPermanent(alice, "Chandra, Torch of Defiance")
	guide := h.AddPermanent(alice, "Goblin Guide")
	rancor := h.AddPermanent(alice, "Rancor")

	assert.Equal(t, 100, e.EvalCard(h.State, alice, mountain))
	assert.Equal(t, 50+30*3, e.EvalCard(h.State, alice, bridge))
	assert.Equal(t, 50+30*4+2*4, e.EvalCard(h.State, alice, chandra))
	assert.Equal(t, e.Creatures().Evaluate(guide), e.EvalCard(h.State, alice, guide))
	assert.Equal(t, 50+30*1, e.EvalCard(h.State, alice, rancor), "unattached aura")

	rancor.AttachedTo = guide
	assert.Equal(t, 0, e.EvalCard(h.State, alice, rancor))
}

func TestScoreString(t *testing.T) {
	assert.Equal(t, "42", NewScore(42).String())
	assert.Equal(t, "42 (ss -7)", Score{Value: 42, SummonSickValue: -7}.String())
}
