package rules

import "math/rand"

// Roll is the outcome of one dice throw.
type Roll struct {
	Die1   int
	Die2   int
	Total  int
	Forced bool
}

// Dice produces rolls without touching any other game state. A forced value
// overrides exactly one subsequent roll (card effects and debug hooks).
type Dice struct {
	rng    *rand.Rand
	forced int // 0 = no override
}

// NewDice creates a dice service seeded from the given source. Games pass a
// per-game seed so replays are deterministic.
func NewDice(rng *rand.Rand) *Dice {
	return &Dice{rng: rng}
}

// SetForced arranges for the next roll to total v. Passing 0 clears any
// pending override.
func (d *Dice) SetForced(v int) {
	if v < 0 {
		v = 0
	}
	d.forced = v
}

// Forced returns the pending override, 0 when none.
func (d *Dice) Forced() int {
	return d.forced
}

// RollDice returns the next roll. A pending forced value is consumed exactly
// once and split over the two dice as evenly as the total allows.
func (d *Dice) RollDice() Roll {
	if d.forced > 0 {
		total := d.forced
		d.forced = 0
		die1 := total / 2
		if die1 < 1 {
			die1 = 1
		}
		if die1 > 6 {
			die1 = 6
		}
		die2 := total - die1
		return Roll{Die1: die1, Die2: die2, Total: total, Forced: true}
	}
	return d.RollNatural()
}

// RollNatural returns a random roll, leaving any pending forced value for the
// next RollDice call. Stay-fee rolls and other incidental throws use this so
// a forced value only ever steers movement.
func (d *Dice) RollNatural() Roll {
	die1 := d.rng.Intn(6) + 1
	die2 := d.rng.Intn(6) + 1
	return Roll{Die1: die1, Die2: die2, Total: die1 + die2}
}
