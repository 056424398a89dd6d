// Package ai defines the decision interface an automated player must
// satisfy and a default difficulty-tiered policy. The engine is agnostic to
// the strategy; it only consumes the shape of the answers.
package ai

import (
	"math/rand"

	"github.com/tycoonfree/tycoon-server-go/internal/game/cards"
)

// Difficulty selects how aggressively the default policy plays.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
)

// PropertyOffer is the economic summary a decider judges a purchase or
// upgrade by.
type PropertyOffer struct {
	TileIndex int
	Price     int
	Rent      int
	Level     int
}

// Decider answers the engine's questions during an automated turn.
type Decider interface {
	ShouldPurchase(offer PropertyOffer, cash int) bool
	ShouldUpgrade(offer PropertyOffer, cash int) bool
	ShouldUseCard(hand []cards.Card) (cards.Card, bool)
	ChooseTarget(candidates []string) (string, bool)
	ChooseDirection(options []int) int
}

// Policy is the default Decider: easy plays cautiously and randomly, hard
// buys and upgrades whenever the cushion allows.
type Policy struct {
	difficulty Difficulty
	rng        *rand.Rand
}

// NewPolicy creates a policy for the given difficulty.
func NewPolicy(difficulty Difficulty, rng *rand.Rand) *Policy {
	return &Policy{difficulty: difficulty, rng: rng}
}

// cushion returns how much cash the policy keeps in reserve after a spend.
func (p *Policy) cushion() float64 {
	switch p.difficulty {
	case DifficultyEasy:
		return 2.0
	case DifficultyHard:
		return 1.1
	default:
		return 1.5
	}
}

// ShouldPurchase buys when cash comfortably covers the price.
func (p *Policy) ShouldPurchase(offer PropertyOffer, cash int) bool {
	if offer.Price <= 0 {
		return false
	}
	if float64(cash) < float64(offer.Price)*p.cushion() {
		return false
	}
	if p.difficulty == DifficultyEasy {
		return p.rng.Intn(2) == 0
	}
	return true
}

// ShouldUpgrade upgrades under the same cushion rule, preferring low levels.
func (p *Policy) ShouldUpgrade(offer PropertyOffer, cash int) bool {
	if offer.Price <= 0 {
		return false
	}
	if float64(cash) < float64(offer.Price)*p.cushion() {
		return false
	}
	if p.difficulty != DifficultyHard && offer.Level >= 3 {
		return false
	}
	return true
}

// ShouldUseCard plays a random card from the hand; easy mostly holds.
func (p *Policy) ShouldUseCard(hand []cards.Card) (cards.Card, bool) {
	if len(hand) == 0 {
		return cards.Card{}, false
	}
	threshold := 2 // normal: use roughly half the time
	switch p.difficulty {
	case DifficultyEasy:
		threshold = 4
	case DifficultyHard:
		threshold = 1
	}
	if threshold > 1 && p.rng.Intn(threshold) != 0 {
		return cards.Card{}, false
	}
	return hand[p.rng.Intn(len(hand))], true
}

// ChooseTarget picks a uniformly random candidate.
func (p *Policy) ChooseTarget(candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[p.rng.Intn(len(candidates))], true
}

// ChooseDirection picks a uniformly random branch option.
func (p *Policy) ChooseDirection(options []int) int {
	if len(options) == 0 {
		return -1
	}
	return options[p.rng.Intn(len(options))]
}
