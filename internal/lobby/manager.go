// Package lobby holds players together before a game starts. A lobby is
// created by a host, fills with human and bot seats, and launches a game on
// the engine when the host starts it.
package lobby

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tycoonfree/tycoon-server-go/internal/game"
	"github.com/tycoonfree/tycoon-server-go/internal/game/ai"
)

// State is the lifecycle of a lobby.
type State int

const (
	StateWaiting State = iota
	StateStarted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "WAITING"
	case StateStarted:
		return "STARTED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Seat is one player slot in a lobby.
type Seat struct {
	PlayerID   string        `json:"playerId"`
	Name       string        `json:"name"`
	Bot        bool          `json:"bot,omitempty"`
	Difficulty ai.Difficulty `json:"difficulty,omitempty"`
}

// Snapshot is a consistent copy of a lobby for external use.
type Snapshot struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	HostID   string     `json:"hostId"`
	State    State      `json:"state"`
	Seats    []Seat     `json:"seats"`
	GameID   string     `json:"gameId,omitempty"`
	Created  time.Time  `json:"created"`
	Started  *time.Time `json:"started,omitempty"`
	Watchers []string   `json:"watchers,omitempty"`
}

// Lobby is one waiting room.
type Lobby struct {
	ID      string
	Name    string
	HostID  string
	state   State
	seats   []Seat
	gameID  string
	created time.Time
	started *time.Time

	maxSeats int
	watchers map[string]bool
	mu       sync.RWMutex
}

// NewLobby creates a waiting lobby with the host in the first seat.
func NewLobby(name, hostID, hostName string, maxSeats int) *Lobby {
	return &Lobby{
		ID:       uuid.New().String(),
		Name:     name,
		HostID:   hostID,
		state:    StateWaiting,
		seats:    []Seat{{PlayerID: hostID, Name: hostName}},
		created:  time.Now(),
		maxSeats: maxSeats,
		watchers: make(map[string]bool),
	}
}

// Join adds a player to a waiting lobby.
func (l *Lobby) Join(playerID, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateWaiting {
		return fmt.Errorf("lobby already started")
	}
	if len(l.seats) >= l.maxSeats {
		return fmt.Errorf("lobby is full")
	}
	for _, seat := range l.seats {
		if seat.PlayerID == playerID {
			return fmt.Errorf("player already seated")
		}
	}
	l.seats = append(l.seats, Seat{PlayerID: playerID, Name: name})
	return nil
}

// AddBot seats a bot. Host only.
func (l *Lobby) AddBot(hostID, name string, difficulty ai.Difficulty) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateWaiting {
		return fmt.Errorf("lobby already started")
	}
	if hostID != l.HostID {
		return fmt.Errorf("only the host seats bots")
	}
	if len(l.seats) >= l.maxSeats {
		return fmt.Errorf("lobby is full")
	}
	l.seats = append(l.seats, Seat{
		PlayerID:   uuid.New().String(),
		Name:       name,
		Bot:        true,
		Difficulty: difficulty,
	})
	return nil
}

// Leave removes a player from a waiting lobby. When the host leaves the
// lobby closes.
func (l *Lobby) Leave(playerID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateWaiting {
		return fmt.Errorf("lobby already started")
	}
	for i, seat := range l.seats {
		if seat.PlayerID == playerID {
			l.seats = append(l.seats[:i], l.seats[i+1:]...)
			if playerID == l.HostID {
				l.state = StateClosed
			}
			return nil
		}
	}
	return fmt.Errorf("player not seated")
}

// AddWatcher registers an observer.
func (l *Lobby) AddWatcher(playerID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.watchers[playerID] = true
}

// RemoveWatcher drops an observer.
func (l *Lobby) RemoveWatcher(playerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.watchers[playerID]; ok {
		delete(l.watchers, playerID)
		return true
	}
	return false
}

// State returns the lobby lifecycle state.
func (l *Lobby) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// GameID returns the launched game's id, empty while waiting.
func (l *Lobby) GameID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.gameID
}

// Start launches the game on the engine. Host only.
func (l *Lobby) Start(hostID string, engine *game.Engine) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateWaiting {
		return "", fmt.Errorf("lobby already started")
	}
	if hostID != l.HostID {
		return "", fmt.Errorf("only the host starts the game")
	}

	players := make([]game.PlayerSpec, 0, len(l.seats))
	for _, seat := range l.seats {
		players = append(players, game.PlayerSpec{
			ID:         seat.PlayerID,
			Name:       seat.Name,
			AI:         seat.Bot,
			Difficulty: seat.Difficulty,
		})
	}
	gameID, err := engine.CreateGame(game.GameSpec{Players: players})
	if err != nil {
		return "", fmt.Errorf("start lobby %s: %w", l.ID, err)
	}

	now := time.Now()
	l.state = StateStarted
	l.started = &now
	l.gameID = gameID
	return gameID, nil
}

// Snapshot returns a consistent copy of the lobby.
func (l *Lobby) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	watchers := make([]string, 0, len(l.watchers))
	for w := range l.watchers {
		watchers = append(watchers, w)
	}
	var started *time.Time
	if l.started != nil {
		cp := *l.started
		started = &cp
	}
	return Snapshot{
		ID:       l.ID,
		Name:     l.Name,
		HostID:   l.HostID,
		State:    l.state,
		Seats:    append([]Seat(nil), l.seats...),
		GameID:   l.gameID,
		Created:  l.created,
		Started:  started,
		Watchers: watchers,
	}
}

// Manager tracks open lobbies.
type Manager struct {
	lobbies map[string]*Lobby
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewManager creates an empty lobby table.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		lobbies: make(map[string]*Lobby),
		logger:  logger,
	}
}

// CreateLobby opens a lobby with the host seated.
func (m *Manager) CreateLobby(name, hostID, hostName string, maxSeats int) *Lobby {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := NewLobby(name, hostID, hostName, maxSeats)
	m.lobbies[l.ID] = l
	m.logger.Info("lobby created",
		zap.String("lobby_id", l.ID),
		zap.String("name", name),
		zap.String("host", hostID))
	return l
}

// GetLobby returns a lobby by id.
func (m *Manager) GetLobby(lobbyID string) (*Lobby, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lobbies[lobbyID]
	return l, ok
}

// RemoveLobby drops a lobby.
func (m *Manager) RemoveLobby(lobbyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lobbies, lobbyID)
	m.logger.Info("lobby removed", zap.String("lobby_id", lobbyID))
}

// OpenLobbies lists lobbies still waiting for players.
func (m *Manager) OpenLobbies() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var open []Snapshot
	for _, l := range m.lobbies {
		if l.State() == StateWaiting {
			open = append(open, l.Snapshot())
		}
	}
	return open
}
