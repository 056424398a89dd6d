// Package game implements the rules engine: one single-threaded state machine
// per game, mutated only through engine commands and the action queue. All
// outward communication happens through events and views; callers never touch
// the state directly.
package game

import (
	"math/rand"
	"time"

	"github.com/tycoonfree/tycoon-server-go/internal/game/ai"
	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/cards"
	"github.com/tycoonfree/tycoon-server-go/internal/game/economy"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
)

// GameStatus is the lifecycle of one game.
type GameStatus int

const (
	StatusInProgress GameStatus = iota
	StatusFinished
)

var statusNames = map[GameStatus]string{
	StatusInProgress: "IN_PROGRESS",
	StatusFinished:   "FINISHED",
}

func (s GameStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// PlayerCondition describes a player's standing within a game.
type PlayerCondition int

const (
	ConditionNormal PlayerCondition = iota
	ConditionInJail
	ConditionInHospital
	ConditionBankrupt
)

var conditionNames = map[PlayerCondition]string{
	ConditionNormal:     "NORMAL",
	ConditionInJail:     "IN_JAIL",
	ConditionInHospital: "IN_HOSPITAL",
	ConditionBankrupt:   "BANKRUPT",
}

func (c PlayerCondition) String() string {
	if name, ok := conditionNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// playerState is the full mutable record of one player.
type playerState struct {
	ID        string
	Name      string
	Cash      int
	Tile      int
	PrevTile  int
	Condition PlayerCondition
	SkipTurns int

	Hand []cards.Card

	// One-shot effect flags set by cards.
	Shielded    bool
	Insured     bool
	ReverseNext bool
	ForcedRoll  int // 0 = none; overrides the dice service

	// FreeUpgrades are pending no-cost level grants from tile events.
	FreeUpgrades int

	StartPasses int

	// bankruptQueued marks a player whose BANKRUPT action is enqueued but
	// not yet applied, so the cascade fires exactly once.
	bankruptQueued bool

	IsAI       bool
	Difficulty ai.Difficulty
	Decider    ai.Decider
}

func (p *playerState) active() bool {
	return p.Condition != ConditionBankrupt
}

func (p *playerState) eliminated() bool {
	return p.Condition == ConditionBankrupt || p.bankruptQueued
}

// message is one entry of the bounded in-game text log.
type message struct {
	Text string
	Time time.Time
}

// analytics accumulates per-game counters for the final result record.
type analytics struct {
	Started      time.Time
	DiceRolls    int
	ActionsDone  int
	MoneyMoved   int
	Bankruptcies int
	CardsPlayed  int
}

// gameState bundles everything one running game owns. It is guarded by the
// engine's per-game mutex; none of the subsystems lock on their own.
type gameState struct {
	gameID  string
	status  GameStatus
	winner  string
	created time.Time

	board   *board.Board
	players map[string]*playerState
	order   []string

	turn  *rules.TurnManager
	queue *rules.ActionQueue
	dice  *rules.Dice
	bus   *rules.EventBus

	props *economy.Properties
	bank  *economy.Bank
	shop  *cards.Shop

	// Suspended movement awaiting a branch choice, with the path walked so
	// far this turn.
	pendingMove *rules.PendingMove
	pendingPath []int

	// needsTileResolve is set when an applied action landed the active
	// player on a tile whose automatic effect has not run yet.
	needsTileResolve bool

	lastRoll rules.Roll
	rng      *rand.Rand

	messages []message
	stats    analytics
}

// stateWallet adapts the per-player cash fields to the economy.Wallet
// interface. Balances may go to zero but never below.
type stateWallet struct {
	gs *gameState
}

func (w stateWallet) Cash(playerID string) int {
	if p, ok := w.gs.players[playerID]; ok {
		return p.Cash
	}
	return 0
}

func (w stateWallet) Add(playerID string, amount int) {
	p, ok := w.gs.players[playerID]
	if !ok {
		return
	}
	p.Cash += amount
	if p.Cash < 0 {
		p.Cash = 0
	}
	if amount < 0 {
		w.gs.stats.MoneyMoved += -amount
	} else {
		w.gs.stats.MoneyMoved += amount
	}
}

func (gs *gameState) player(playerID string) *playerState {
	return gs.players[playerID]
}

func (gs *gameState) activePlayer() *playerState {
	return gs.players[gs.turn.ActivePlayer()]
}

// activeCount returns how many players are still in the game, treating a
// queued bankruptcy as already out.
func (gs *gameState) activeCount() int {
	n := 0
	for _, p := range gs.players {
		if !p.eliminated() {
			n++
		}
	}
	return n
}

// othersActive returns every non-eliminated player except the given one, in
// seating order.
func (gs *gameState) othersActive(playerID string) []*playerState {
	var others []*playerState
	for _, id := range gs.order {
		if id == playerID {
			continue
		}
		if p := gs.players[id]; !p.eliminated() {
			others = append(others, p)
		}
	}
	return others
}

// addMessage appends to the bounded game log, dropping the oldest entries.
func (gs *gameState) addMessage(text string, limit int) {
	gs.messages = append(gs.messages, message{Text: text, Time: time.Now()})
	if limit > 0 && len(gs.messages) > limit {
		gs.messages = gs.messages[len(gs.messages)-limit:]
	}
}
