package rules

import "fmt"

// Phase represents where the active player's turn currently stands.
type Phase int

const (
	PhaseWaitingForDice Phase = iota
	PhaseRolling
	PhaseMoving
	PhaseChoosingDirection
	PhaseOnTile
	PhaseTurnEnd
)

var phaseNames = map[Phase]string{
	PhaseWaitingForDice:    "WAITING_FOR_DICE",
	PhaseRolling:           "ROLLING",
	PhaseMoving:            "MOVING",
	PhaseChoosingDirection: "CHOOSING_DIRECTION",
	PhaseOnTile:            "ON_TILE",
	PhaseTurnEnd:           "TURN_END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// TurnManager tracks the active player, the turn phase and the round counter.
// Eliminated players are skipped through the callback supplied to Advance;
// wrapping past the last seat increments the round.
type TurnManager struct {
	order []string
	index int
	round int
	phase Phase
}

// NewTurnManager creates a manager starting at round 1 with the first seat
// active and waiting for dice.
func NewTurnManager(order []string) *TurnManager {
	return &TurnManager{
		order: append([]string(nil), order...),
		round: 1,
		phase: PhaseWaitingForDice,
	}
}

// RestoreTurnManager rebuilds a manager from persisted fields.
func RestoreTurnManager(order []string, index, round int, phase Phase) *TurnManager {
	tm := NewTurnManager(order)
	if index >= 0 && index < len(tm.order) {
		tm.index = index
	}
	if round > 0 {
		tm.round = round
	}
	tm.phase = phase
	return tm
}

// ActiveIndex returns the seat index of the active player.
func (tm *TurnManager) ActiveIndex() int {
	return tm.index
}

// ActivePlayer returns the player whose turn it is.
func (tm *TurnManager) ActivePlayer() string {
	return tm.order[tm.index]
}

// Round returns the current round number (1-based).
func (tm *TurnManager) Round() int {
	return tm.round
}

// Phase returns the current turn phase.
func (tm *TurnManager) Phase() Phase {
	return tm.phase
}

// SetPhase moves the turn to the given phase.
func (tm *TurnManager) SetPhase(p Phase) {
	tm.phase = p
}

// Order returns the seating order.
func (tm *TurnManager) Order() []string {
	return append([]string(nil), tm.order...)
}

// Advance moves to the next seat whose player the eliminated callback does
// not reject, wrapping the index. It returns the new active player and
// whether the wrap started a new round. When every seat is rejected the
// active seat is left unchanged and newRound is false.
func (tm *TurnManager) Advance(eliminated func(id string) bool) (next string, newRound bool) {
	for attempts := 0; attempts < len(tm.order); attempts++ {
		tm.index++
		if tm.index >= len(tm.order) {
			tm.index = 0
			tm.round++
			newRound = true
		}
		candidate := tm.order[tm.index]
		if eliminated == nil || !eliminated(candidate) {
			tm.phase = PhaseWaitingForDice
			return candidate, newRound
		}
	}
	return tm.ActivePlayer(), false
}
