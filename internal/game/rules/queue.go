package rules

import "fmt"

// ActionType tags the variants of a queued game mutation.
type ActionType string

const (
	ActionMove       ActionType = "MOVE"
	ActionTeleport   ActionType = "TELEPORT"
	ActionToJail     ActionType = "TO_JAIL"
	ActionToHospital ActionType = "TO_HOSPITAL"
	ActionBankrupt   ActionType = "BANKRUPT"
)

// Action is a pure description of a pending state change. Enqueuing an action
// mutates nothing; the mutation happens exactly once when the presentation
// layer acknowledges it via Complete.
type Action struct {
	Type     ActionType
	PlayerID string

	// MOVE
	Path        []int
	PassedStart bool

	// TELEPORT
	From int
	To   int

	// TO_JAIL / TO_HOSPITAL
	Tile  int
	Turns int
}

func (a Action) String() string {
	return fmt.Sprintf("%s(%s)", a.Type, a.PlayerID)
}

// ActionQueue serializes game-mutating actions produced asynchronously into a
// strictly ordered sequence. At most one action is "current" (being presented)
// at a time; Complete applies its effect through the apply callback and
// promotes the next queued action.
type ActionQueue struct {
	current *Action
	pending []Action
	apply   func(Action)
}

// NewActionQueue creates a queue that applies actions through the given
// callback. The callback runs synchronously inside Complete.
func NewActionQueue(apply func(Action)) *ActionQueue {
	return &ActionQueue{apply: apply}
}

// Push enqueues an action. When nothing is currently being presented the
// pushed action becomes current immediately; its effect still waits for
// Complete.
func (q *ActionQueue) Push(action Action) {
	if q.current == nil {
		q.current = &action
		return
	}
	q.pending = append(q.pending, action)
}

// PushMany enqueues actions in order.
func (q *ActionQueue) PushMany(actions []Action) {
	for _, action := range actions {
		q.Push(action)
	}
}

// Complete applies the current action exactly once and promotes the next
// queued action to current. Returns false when no action was in flight.
func (q *ActionQueue) Complete() bool {
	if q.current == nil {
		return false
	}
	action := *q.current
	if len(q.pending) > 0 {
		next := q.pending[0]
		q.pending = q.pending[1:]
		q.current = &next
	} else {
		q.current = nil
	}
	if q.apply != nil {
		q.apply(action)
	}
	return true
}

// Current returns a copy of the action being presented, or nil when idle.
func (q *ActionQueue) Current() *Action {
	if q.current == nil {
		return nil
	}
	cpy := *q.current
	return &cpy
}

// Idle reports whether no action is current and nothing is queued.
func (q *ActionQueue) Idle() bool {
	return q.current == nil && len(q.pending) == 0
}

// Len returns the number of actions not yet applied, including the current
// one.
func (q *ActionQueue) Len() int {
	n := len(q.pending)
	if q.current != nil {
		n++
	}
	return n
}

// Clear drops the current and all queued actions without applying them.
// Hard-reset only: dropping a mid-turn action leaves logical and presented
// positions inconsistent.
func (q *ActionQueue) Clear() {
	q.current = nil
	q.pending = nil
}
