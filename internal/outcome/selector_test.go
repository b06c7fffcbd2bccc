package outcome

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulseroom/pulseroom/internal/domain"
)

func seeded(seed int64) *Selector {
	return NewSelector(rand.New(rand.NewSource(seed)))
}

func TestRollWin_Extremes(t *testing.T) {
	s := seeded(1)
	for i := 0; i < 10000; i++ {
		assert.True(t, s.RollWin(100), "p=100 must always win")
		assert.False(t, s.RollWin(0), "p=0 must never win")
	}
}

func TestPick_WinDrawsFromBackedSet(t *testing.T) {
	s := seeded(7)
	options := []string{"777", "crown", "gem", "star"}
	backed := map[string]bool{"crown": true}

	for i := 0; i < 10000; i++ {
		winner := s.Pick(100, options, backed)
		assert.Equal(t, "crown", winner)
	}
}

func TestPick_LoseAvoidsBackedSet(t *testing.T) {
	s := seeded(7)
	options := []string{"777", "crown", "gem", "star"}
	backed := map[string]bool{"crown": true}

	for i := 0; i < 10000; i++ {
		winner := s.Pick(0, options, backed)
		assert.NotEqual(t, "crown", winner)
	}
}

func TestPick_WinWithNoBackedOptionsUsesFullSet(t *testing.T) {
	s := seeded(11)
	options := []string{"a", "b", "c"}

	seen := map[string]bool{}
	for i := 0; i < 10000; i++ {
		seen[s.Pick(100, options, nil)] = true
	}
	assert.Len(t, seen, 3, "every option should be reachable")
}

func TestPick_LoseWithEverythingBackedForcesFullSet(t *testing.T) {
	s := seeded(11)
	options := []string{"a", "b"}
	backed := map[string]bool{"a": true, "b": true}

	seen := map[string]bool{}
	for i := 0; i < 10000; i++ {
		seen[s.Pick(0, options, backed)] = true
	}
	assert.Len(t, seen, 2, "no safe option: both must remain reachable")
}

func TestPick_SingleOptionAlwaysWinsIt(t *testing.T) {
	s := seeded(3)
	assert.Equal(t, "only", s.Pick(0, []string{"only"}, map[string]bool{"only": true}))
	assert.Equal(t, "only", s.Pick(100, []string{"only"}, nil))
}

func TestReels_WinIsAlwaysTriple(t *testing.T) {
	s := seeded(5)
	for i := 0; i < 10000; i++ {
		reels, win := s.Reels(100, domain.DefaultSlotSymbols)
		assert.True(t, win)
		assert.Equal(t, reels[0].ID, reels[1].ID)
		assert.Equal(t, reels[1].ID, reels[2].ID)
	}
}

func TestReels_LoseIsNeverTriple(t *testing.T) {
	s := seeded(5)
	for i := 0; i < 10000; i++ {
		reels, win := s.Reels(0, domain.DefaultSlotSymbols)
		assert.False(t, win)
		identical := reels[0].ID == reels[1].ID && reels[1].ID == reels[2].ID
		assert.False(t, identical, "lose outcome must not come up identical")
	}
}

func TestRollWin_RateRoughlyHonored(t *testing.T) {
	s := seeded(9)
	wins := 0
	const n = 100000
	for i := 0; i < n; i++ {
		if s.RollWin(30) {
			wins++
		}
	}
	rate := float64(wins) / n * 100
	assert.InDelta(t, 30, rate, 1.0)
}
