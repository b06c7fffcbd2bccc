// Package outcome decides winning options for the wagering games. Selection
// is steered by a configured win-probability and by which options the player
// backed, not by true odds. Everything here is a pure function of its inputs
// and the injected random source so tests can pin the draw.
package outcome

import (
	"math/rand"

	"github.com/pulseroom/pulseroom/internal/domain"
)

// Source is the randomness the selector consumes. Float64 must return a
// value in [0.0, 1.0) and Intn a value in [0, n).
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Selector picks winners under the house win-probability policy.
type Selector struct {
	rng Source
}

// NewSelector creates a selector backed by the given source. Pass
// rand.New(rand.NewSource(...)) in production.
func NewSelector(rng Source) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // game odds, not security
	}
	return &Selector{rng: rng}
}

// RollWin performs the bare win/lose coin flip: true with probability
// winRate/100. Used standalone by the lucky-gift bonus.
func (s *Selector) RollWin(winRate int64) bool {
	return s.rng.Float64()*100 < float64(winRate)
}

// Pick selects the winning option ID from options. backed holds the IDs the
// player bet on; it may be empty.
//
// A win draw favors the player: the winner comes from the backed set, or
// from the full set when nothing was backed. A lose draw avoids the backed
// set; when the player backed everything there is nothing safe to pick and
// the draw falls back to the full set.
func (s *Selector) Pick(winRate int64, options []string, backed map[string]bool) string {
	if len(options) == 0 {
		return ""
	}

	if s.RollWin(winRate) {
		pool := intersect(options, backed)
		if len(pool) == 0 {
			pool = options
		}
		return pool[s.rng.Intn(len(pool))]
	}

	pool := subtract(options, backed)
	if len(pool) == 0 {
		pool = options
	}
	return pool[s.rng.Intn(len(pool))]
}

// Reels resolves the slot-reel variant, which has no pre-selected bet. A win
// triples one uniformly drawn symbol. A lose draws the reels independently,
// re-drawing the third while the draw would accidentally come up identical.
func (s *Selector) Reels(winRate int64, symbols []domain.SlotSymbol) (reels [3]domain.SlotSymbol, win bool) {
	if s.RollWin(winRate) {
		sym := symbols[s.rng.Intn(len(symbols))]
		return [3]domain.SlotSymbol{sym, sym, sym}, true
	}

	reels[0] = symbols[s.rng.Intn(len(symbols))]
	reels[1] = symbols[s.rng.Intn(len(symbols))]
	reels[2] = symbols[s.rng.Intn(len(symbols))]
	// A one-symbol set can only ever come up identical; leave it be.
	for len(symbols) > 1 && reels[0].ID == reels[1].ID && reels[1].ID == reels[2].ID {
		reels[2] = symbols[s.rng.Intn(len(symbols))]
	}
	return reels, false
}

func intersect(options []string, backed map[string]bool) []string {
	var out []string
	for _, id := range options {
		if backed[id] {
			out = append(out, id)
		}
	}
	return out
}

func subtract(options []string, backed map[string]bool) []string {
	var out []string
	for _, id := range options {
		if !backed[id] {
			out = append(out, id)
		}
	}
	return out
}
