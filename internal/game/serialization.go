package game

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/tycoonfree/tycoon-server-go/internal/game/ai"
	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/cards"
	"github.com/tycoonfree/tycoon-server-go/internal/game/economy"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
)

// Snapshot is the persistable state of a game between turns. Snapshots are
// only taken while the action queue is idle and no branch choice is pending,
// so movement state never needs to round-trip.
type Snapshot struct {
	Version int    `json:"version"`
	GameID  string `json:"gameId"`
	Status  int    `json:"status"`
	Winner  string `json:"winner,omitempty"`

	Order       []string `json:"order"`
	ActiveIndex int      `json:"activeIndex"`
	Round       int      `json:"round"`
	Phase       int      `json:"phase"`

	Players    []PlayerSnapshot   `json:"players"`
	Properties []PropertySnapshot `json:"properties"`
	Loans      []economy.Loan     `json:"loans"`
	Messages   []string           `json:"messages,omitempty"`

	Taken time.Time `json:"taken"`
}

// PlayerSnapshot is the persisted form of one player.
type PlayerSnapshot struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Cash         int          `json:"cash"`
	Tile         int          `json:"tile"`
	PrevTile     int          `json:"prevTile"`
	Condition    int          `json:"condition"`
	SkipTurns    int          `json:"skipTurns"`
	Hand         []cards.Card `json:"hand,omitempty"`
	Shielded     bool         `json:"shielded,omitempty"`
	Insured      bool         `json:"insured,omitempty"`
	ReverseNext  bool         `json:"reverseNext,omitempty"`
	ForcedRoll   int          `json:"forcedRoll,omitempty"`
	FreeUpgrades int          `json:"freeUpgrades,omitempty"`
	StartPasses  int          `json:"startPasses"`
	IsAI         bool         `json:"isAi,omitempty"`
	Difficulty   int          `json:"difficulty,omitempty"`
}

// PropertySnapshot is the persisted form of one property tile's mutable
// state. Board topology is not persisted; a restore binds to a board with
// the same layout.
type PropertySnapshot struct {
	TileIndex int    `json:"tileIndex"`
	Level     int    `json:"level"`
	OwnerID   string `json:"ownerId,omitempty"`
	Mortgaged bool   `json:"mortgaged,omitempty"`
	Facility  int    `json:"facility,omitempty"`
}

const snapshotVersion = 1

// Snapshot captures a game between turns. Fails while an action is in
// flight or a branch choice is pending.
func (e *Engine) Snapshot(gameID string) (*Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	gs, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %q not found", gameID)
	}
	if !gs.queue.Idle() {
		return nil, fmt.Errorf("game %q has actions in flight", gameID)
	}
	if gs.pendingMove != nil {
		return nil, fmt.Errorf("game %q is awaiting a direction choice", gameID)
	}

	snap := &Snapshot{
		Version:     snapshotVersion,
		GameID:      gs.gameID,
		Status:      int(gs.status),
		Winner:      gs.winner,
		Order:       gs.turn.Order(),
		ActiveIndex: gs.turn.ActiveIndex(),
		Round:       gs.turn.Round(),
		Phase:       int(gs.turn.Phase()),
		Taken:       time.Now(),
	}
	for _, id := range gs.order {
		p := gs.players[id]
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:           p.ID,
			Name:         p.Name,
			Cash:         p.Cash,
			Tile:         p.Tile,
			PrevTile:     p.PrevTile,
			Condition:    int(p.Condition),
			SkipTurns:    p.SkipTurns,
			Hand:         append([]cards.Card(nil), p.Hand...),
			Shielded:     p.Shielded,
			Insured:      p.Insured,
			ReverseNext:  p.ReverseNext,
			ForcedRoll:   p.ForcedRoll,
			FreeUpgrades: p.FreeUpgrades,
			StartPasses:  p.StartPasses,
			IsAI:         p.IsAI,
			Difficulty:   int(p.Difficulty),
		})
	}
	for _, tile := range gs.board.Tiles() {
		if tile.Property == nil {
			continue
		}
		prop := tile.Property
		snap.Properties = append(snap.Properties, PropertySnapshot{
			TileIndex: prop.TileIndex,
			Level:     prop.Level,
			OwnerID:   prop.OwnerID,
			Mortgaged: prop.Mortgaged,
			Facility:  int(prop.Facility),
		})
	}
	for _, loan := range gs.bank.Outstanding() {
		snap.Loans = append(snap.Loans, *loan)
	}
	for _, msg := range gs.messages {
		snap.Messages = append(snap.Messages, msg.Text)
	}
	return snap, nil
}

// Checksum returns the hex SHA-256 of the snapshot's canonical JSON form,
// excluding the capture timestamp.
func (s *Snapshot) Checksum() (string, error) {
	clone := *s
	clone.Taken = time.Time{}
	data, err := json.Marshal(&clone)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Encode serializes the snapshot to JSON.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses a snapshot produced by Encode.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return &snap, nil
}

// RestoreGame rebuilds a game from a snapshot onto the given board (nil uses
// the default layout). The board must carry the same property tiles the
// snapshot was taken from. Dice state restarts from a fresh seed.
func (e *Engine) RestoreGame(snap *Snapshot, b *board.Board, seed int64) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("nil snapshot")
	}
	if b == nil {
		b = board.Default()
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gs := &gameState{
		gameID:  snap.GameID,
		status:  GameStatus(snap.Status),
		winner:  snap.Winner,
		created: time.Now(),
		board:   b,
		players: make(map[string]*playerState),
		rng:     rand.New(rand.NewSource(seed)),
		bus:     rules.NewEventBus(),
	}
	gs.stats.Started = gs.created

	for _, ps := range snap.Players {
		player := &playerState{
			ID:           ps.ID,
			Name:         ps.Name,
			Cash:         ps.Cash,
			Tile:         ps.Tile,
			PrevTile:     ps.PrevTile,
			Condition:    PlayerCondition(ps.Condition),
			SkipTurns:    ps.SkipTurns,
			Hand:         append([]cards.Card(nil), ps.Hand...),
			Shielded:     ps.Shielded,
			Insured:      ps.Insured,
			ReverseNext:  ps.ReverseNext,
			ForcedRoll:   ps.ForcedRoll,
			FreeUpgrades: ps.FreeUpgrades,
			StartPasses:  ps.StartPasses,
			IsAI:         ps.IsAI,
			Difficulty:   ai.Difficulty(ps.Difficulty),
		}
		if player.IsAI {
			player.Decider = ai.NewPolicy(player.Difficulty, gs.rng)
		}
		gs.players[ps.ID] = player
		gs.order = append(gs.order, ps.ID)
	}

	for _, ps := range snap.Properties {
		prop := b.Property(ps.TileIndex)
		if prop == nil {
			return "", fmt.Errorf("snapshot property %d has no tile on the board", ps.TileIndex)
		}
		prop.Level = ps.Level
		prop.OwnerID = ps.OwnerID
		prop.Mortgaged = ps.Mortgaged
		prop.Facility = board.Facility(ps.Facility)
	}

	wallet := stateWallet{gs: gs}
	gs.turn = rules.RestoreTurnManager(snap.Order, snap.ActiveIndex, snap.Round, rules.Phase(snap.Phase))
	gs.dice = rules.NewDice(gs.rng)
	gs.props = economy.NewProperties(b, wallet, e.cfg.Economy)
	gs.bank = economy.NewBank(wallet, e.cfg.Bank)
	gs.shop = cards.NewShop(gs.rng, e.cfg.ShopSize)
	gs.queue = rules.NewActionQueue(func(action rules.Action) {
		e.applyAction(gs, action)
	})
	loans := make([]*economy.Loan, 0, len(snap.Loans))
	for i := range snap.Loans {
		loan := snap.Loans[i]
		loans = append(loans, &loan)
	}
	gs.bank.Restore(loans)
	for _, text := range snap.Messages {
		gs.addMessage(text, e.cfg.MessageLimit)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, dup := e.games[snap.GameID]; dup {
		return "", fmt.Errorf("game %q already exists", snap.GameID)
	}
	e.games[snap.GameID] = gs
	return snap.GameID, nil
}
