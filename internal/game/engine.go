package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tycoonfree/tycoon-server-go/internal/game/ai"
	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/cards"
	"github.com/tycoonfree/tycoon-server-go/internal/game/economy"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
)

// NotificationHandler receives every event from every game on the engine, in
// emission order, while the engine lock is held. Handlers must not call back
// into the engine.
type NotificationHandler func(rules.Event)

// Engine hosts the rules state machines for any number of concurrent games.
// Commands on different games still serialize through one lock: each game is
// a strictly single-threaded machine and commands are short.
type Engine struct {
	mu      sync.RWMutex
	cfg     Config
	logger  *zap.Logger
	games   map[string]*gameState
	handler NotificationHandler
}

// NewEngine creates an engine with the given rule set.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger,
		games:  make(map[string]*gameState),
	}
}

// SetNotificationHandler registers the sink for engine events.
func (e *Engine) SetNotificationHandler(handler NotificationHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handler = handler
}

// PlayerSpec describes one seat of a new game.
type PlayerSpec struct {
	ID         string
	Name       string
	AI         bool
	Difficulty ai.Difficulty
}

// GameSpec describes a game to create. A zero Seed derives one from the
// clock; a nil Board uses the default layout.
type GameSpec struct {
	GameID  string
	Players []PlayerSpec
	Seed    int64
	Board   *board.Board
}

// CreateGame assembles a new game and returns its ID. The first seat in
// Players moves first.
func (e *Engine) CreateGame(spec GameSpec) (string, error) {
	if len(spec.Players) < e.cfg.MinPlayers || len(spec.Players) > e.cfg.MaxPlayers {
		return "", fmt.Errorf("game needs %d to %d players, got %d",
			e.cfg.MinPlayers, e.cfg.MaxPlayers, len(spec.Players))
	}

	gameID := spec.GameID
	if gameID == "" {
		gameID = uuid.New().String()
	}
	seed := spec.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	b := spec.Board
	if b == nil {
		b = e.cfg.Board
	}
	if b == nil {
		b = board.Default()
	}

	gs := &gameState{
		gameID:  gameID,
		status:  StatusInProgress,
		created: time.Now(),
		board:   b,
		players: make(map[string]*playerState),
		rng:     rand.New(rand.NewSource(seed)),
		bus:     rules.NewEventBus(),
	}
	gs.stats.Started = gs.created

	for _, ps := range spec.Players {
		id := ps.ID
		if id == "" {
			id = uuid.New().String()
		}
		if _, dup := gs.players[id]; dup {
			return "", fmt.Errorf("duplicate player id %q", id)
		}
		player := &playerState{
			ID:         id,
			Name:       ps.Name,
			Cash:       e.cfg.StartingCash,
			Tile:       0,
			PrevTile:   -1,
			IsAI:       ps.AI,
			Difficulty: ps.Difficulty,
		}
		if ps.AI {
			player.Decider = ai.NewPolicy(ps.Difficulty, gs.rng)
		}
		gs.players[id] = player
		gs.order = append(gs.order, id)
	}

	wallet := stateWallet{gs: gs}
	gs.turn = rules.NewTurnManager(gs.order)
	gs.dice = rules.NewDice(gs.rng)
	gs.props = economy.NewProperties(b, wallet, e.cfg.Economy)
	gs.bank = economy.NewBank(wallet, e.cfg.Bank)
	gs.shop = cards.NewShop(gs.rng, e.cfg.ShopSize)
	gs.queue = rules.NewActionQueue(func(action rules.Action) {
		e.applyAction(gs, action)
	})

	e.mu.Lock()
	if _, dup := e.games[gameID]; dup {
		e.mu.Unlock()
		return "", fmt.Errorf("game %q already exists", gameID)
	}
	e.games[gameID] = gs
	e.beginTurn(gs)
	e.mu.Unlock()

	e.logger.Info("game created",
		zap.String("game_id", gameID),
		zap.Int("players", len(spec.Players)),
		zap.Int64("seed", seed))
	return gameID, nil
}

// RemoveGame drops a game from the engine. Finished games are removed by the
// session layer once their result is persisted.
func (e *Engine) RemoveGame(gameID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.games[gameID]; !ok {
		return false
	}
	delete(e.games, gameID)
	e.logger.Info("game removed", zap.String("game_id", gameID))
	return true
}

// GameIDs lists the games currently hosted.
func (e *Engine) GameIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.games))
	for id := range e.games {
		ids = append(ids, id)
	}
	return ids
}

// Subscribe attaches a listener to one game's event bus and returns the
// handle, or -1 when the game does not exist.
func (e *Engine) Subscribe(gameID string, listener rules.Listener) int {
	e.mu.RLock()
	gs, ok := e.games[gameID]
	e.mu.RUnlock()
	if !ok {
		return -1
	}
	return gs.bus.Subscribe(listener)
}

// Unsubscribe detaches a listener previously registered with Subscribe.
func (e *Engine) Unsubscribe(gameID string, handle int) {
	e.mu.RLock()
	gs, ok := e.games[gameID]
	e.mu.RUnlock()
	if ok {
		gs.bus.Unsubscribe(handle)
	}
}

func (e *Engine) game(gameID string) *gameState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.games[gameID]
}

// emit publishes an event to the game bus and the engine-wide handler.
func (e *Engine) emit(gs *gameState, event rules.Event) {
	gs.bus.Publish(event)
	if e.handler != nil {
		e.handler(event)
	}
}

func (e *Engine) log(gs *gameState, text string) {
	gs.addMessage(text, e.cfg.MessageLimit)
}
