// Package server exposes the game engine over a websocket gateway. Clients
// send JSON command envelopes and receive command responses plus a stream of
// engine events for the game they watch.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tycoonfree/tycoon-server-go/internal/config"
	"github.com/tycoonfree/tycoon-server-go/internal/game"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
	"github.com/tycoonfree/tycoon-server-go/internal/lobby"
	"github.com/tycoonfree/tycoon-server-go/internal/repository"
	"github.com/tycoonfree/tycoon-server-go/internal/session"
)

// Accounts authenticates and registers named users. The pgx-backed
// repository.UserRepository satisfies it; a nil Accounts leaves login open.
type Accounts interface {
	Register(ctx context.Context, name, password string) (*repository.User, error)
	Authenticate(ctx context.Context, name, password string) (*repository.User, error)
}

// Gateway terminates websocket connections and routes commands into the
// engine.
type Gateway struct {
	engine   *game.Engine
	sessions *session.Manager
	lobbies  *lobby.Manager
	accounts Accounts
	cfg      config.WebSocketConfig
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]bool
}

type client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	playerID  string
	gameID    string
	mu        sync.Mutex
}

// NewGateway wires the gateway to the engine and session table. Call
// BindEngine afterwards so engine events reach watching clients.
func NewGateway(engine *game.Engine, sessions *session.Manager, lobbies *lobby.Manager, cfg config.WebSocketConfig, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lobbies == nil {
		lobbies = lobby.NewManager(logger)
	}
	g := &Gateway{
		engine:   engine,
		sessions: sessions,
		lobbies:  lobbies,
		cfg:      cfg,
		logger:   logger,
		clients:  make(map[*client]bool),
	}
	g.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return cfg.AllowAllOrigins || r.Header.Get("Origin") == ""
		},
	}
	return g
}

// BindEngine registers the gateway as the engine's notification sink. Use
// BroadcastEvent directly to compose the gateway with other sinks.
func (g *Gateway) BindEngine() {
	g.engine.SetNotificationHandler(g.BroadcastEvent)
}

// BindAccounts makes login require credentials checked against the given
// account store.
func (g *Gateway) BindAccounts(accounts Accounts) {
	g.accounts = accounts
}

// Handler returns the HTTP routes of the gateway.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (g *Gateway) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 64)}
	g.mu.Lock()
	g.clients[c] = true
	g.mu.Unlock()

	go g.writePump(c)
	g.readPump(c)
}

func (g *Gateway) dropClient(c *client) {
	g.mu.Lock()
	if g.clients[c] {
		delete(g.clients, c)
		close(c.send)
	}
	g.mu.Unlock()
	_ = c.conn.Close()
	if c.sessionID != "" {
		g.sessions.Close(c.sessionID)
	}
}

func (g *Gateway) readPump(c *client) {
	defer g.dropClient(c)
	if g.cfg.ReadLimit > 0 {
		c.conn.SetReadLimit(g.cfg.ReadLimit)
	}
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			g.reply(c, Response{Type: "error", Error: "malformed request"})
			continue
		}
		g.reply(c, g.dispatch(c, &req))
	}
}

func (g *Gateway) writePump(c *client) {
	interval := g.cfg.PingInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			g.setWriteDeadline(c)
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			g.setWriteDeadline(c)
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) setWriteDeadline(c *client) {
	if g.cfg.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(g.cfg.WriteTimeout))
	}
}

func (g *Gateway) reply(c *client, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		g.logger.Error("marshal response", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
		g.logger.Warn("dropping response to slow client")
	}
}

// BroadcastEvent forwards an engine event to every client watching its game.
// Runs on the engine's emit path, so it must never call back into the
// engine.
func (g *Gateway) BroadcastEvent(ev rules.Event) {
	resp := Response{Type: "event", OK: true, GameID: ev.GameID, Event: &ev}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	for c := range g.clients {
		c.mu.Lock()
		watching := c.gameID == ev.GameID
		c.mu.Unlock()
		if !watching {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}
}

func (g *Gateway) dispatch(c *client, req *Request) Response {
	resp := Response{Type: "result", RequestID: req.RequestID}

	// Every command except login and register rides an existing session
	// lease.
	if req.Type != "login" && req.Type != "register" {
		if req.SessionID == "" || !g.sessions.Touch(req.SessionID) {
			resp.Error = "no valid session"
			return resp
		}
	}

	switch req.Type {
	case "login":
		if req.Name == "" {
			resp.Error = "name required"
			return resp
		}
		if g.accounts != nil {
			if req.Password == "" {
				resp.Error = "password required"
				return resp
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_, err := g.accounts.Authenticate(ctx, req.Name, req.Password)
			cancel()
			if errors.Is(err, repository.ErrInvalidCredentials) {
				resp.Error = "invalid credentials"
				return resp
			}
			if err != nil {
				g.logger.Error("authenticate", zap.String("name", req.Name), zap.Error(err))
				resp.Error = "login failed"
				return resp
			}
		}
		return g.openSession(c, req.Name, resp)

	case "register":
		if g.accounts == nil {
			resp.Error = "registration is not enabled"
			return resp
		}
		if req.Name == "" || req.Password == "" {
			resp.Error = "name and password required"
			return resp
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := g.accounts.Register(ctx, req.Name, req.Password)
		cancel()
		if err != nil {
			resp.Error = "registration failed"
			return resp
		}
		return g.openSession(c, req.Name, resp)

	case "create_game":
		players := make([]game.PlayerSpec, 0, len(req.Players))
		for _, seed := range req.Players {
			players = append(players, game.PlayerSpec{
				ID:         seed.ID,
				Name:       seed.Name,
				AI:         seed.AI,
				Difficulty: difficultyByName(seed.Difficulty),
			})
		}
		gameID, err := g.engine.CreateGame(game.GameSpec{
			GameID:  req.GameID,
			Players: players,
			Seed:    req.Seed,
		})
		if err != nil {
			resp.Error = err.Error()
			return resp
		}
		c.mu.Lock()
		c.gameID = gameID
		c.mu.Unlock()
		g.sessions.Bind(req.SessionID, gameID)
		resp.OK = true
		resp.GameID = gameID
		return resp

	case "watch":
		if _, err := g.engine.GameView(req.GameID); err != nil {
			resp.Error = err.Error()
			return resp
		}
		c.mu.Lock()
		c.gameID = req.GameID
		c.mu.Unlock()
		g.sessions.Bind(req.SessionID, req.GameID)
		resp.OK = true
		resp.GameID = req.GameID
		return resp

	case "create_lobby":
		maxSeats := req.MaxSeats
		if maxSeats <= 0 {
			maxSeats = 4
		}
		l := g.lobbies.CreateLobby(req.Name, c.playerID, c.playerID, maxSeats)
		resp.OK = true
		resp.LobbyID = l.ID
		return resp

	case "join_lobby":
		l, ok := g.lobbies.GetLobby(req.LobbyID)
		if !ok {
			resp.Error = "lobby not found"
			return resp
		}
		if err := l.Join(c.playerID, c.playerID); err != nil {
			resp.Error = err.Error()
			return resp
		}
		resp.OK = true
		resp.LobbyID = l.ID
		return resp

	case "add_bot":
		l, ok := g.lobbies.GetLobby(req.LobbyID)
		if !ok {
			resp.Error = "lobby not found"
			return resp
		}
		botName := req.Name
		if botName == "" {
			botName = "Bot"
		}
		if err := l.AddBot(c.playerID, botName, difficultyByName(req.Difficulty)); err != nil {
			resp.Error = err.Error()
			return resp
		}
		resp.OK = true
		resp.LobbyID = l.ID
		return resp

	case "start_lobby":
		l, ok := g.lobbies.GetLobby(req.LobbyID)
		if !ok {
			resp.Error = "lobby not found"
			return resp
		}
		gameID, err := l.Start(c.playerID, g.engine)
		if err != nil {
			resp.Error = err.Error()
			return resp
		}
		c.mu.Lock()
		c.gameID = gameID
		c.mu.Unlock()
		g.sessions.Bind(req.SessionID, gameID)
		resp.OK = true
		resp.LobbyID = l.ID
		resp.GameID = gameID
		return resp

	case "list_lobbies":
		resp.OK = true
		resp.Lobbies = g.lobbies.OpenLobbies()
		return resp

	case "view":
		view, err := g.engine.GameView(req.GameID)
		if err != nil {
			resp.Error = err.Error()
			return resp
		}
		resp.Type = "view"
		resp.OK = true
		resp.GameID = req.GameID
		resp.View = view
		return resp

	case "roll_dice":
		resp.OK = g.engine.RollDice(req.GameID, c.playerID)
	case "choose_direction":
		resp.OK = g.engine.ChooseMoveDirection(req.GameID, c.playerID, req.Tile)
	case "complete_action":
		resp.OK = g.engine.CompleteAction(req.GameID)
	case "end_turn":
		resp.OK = g.engine.EndTurn(req.GameID, c.playerID)
	case "purchase":
		resp.OK = g.engine.PurchaseProperty(req.GameID, c.playerID, req.Tile)
	case "upgrade":
		resp.OK = g.engine.UpgradeProperty(req.GameID, c.playerID, req.Tile)
	case "mortgage":
		resp.OK = g.engine.MortgageProperty(req.GameID, c.playerID, req.Tile)
	case "redeem":
		resp.OK = g.engine.RedeemProperty(req.GameID, c.playerID, req.Tile)
	case "set_facility":
		facility, ok := facilityByName(req.Facility)
		if !ok {
			resp.Error = "unknown facility"
			return resp
		}
		resp.OK = g.engine.SetFacility(req.GameID, c.playerID, req.Tile, facility)
	case "take_loan":
		resp.OK = g.engine.TakeLoan(req.GameID, c.playerID, req.Amount)
	case "buy_card":
		resp.OK = g.engine.BuyCard(req.GameID, c.playerID, req.CardID)
	case "use_card":
		resp.OK = g.engine.UseCard(req.GameID, c.playerID, req.CardID, game.UseCardOptions{
			TargetID:  req.TargetID,
			TileIndex: req.Tile,
			DiceValue: req.DiceValue,
		})
	case "auto_play":
		resp.OK = g.engine.AutoPlayTurn(req.GameID)
	case "force_dice":
		resp.OK = g.engine.SetForcedDiceValue(req.GameID, req.DiceValue)
	default:
		resp.Error = "unknown command"
		return resp
	}

	if !resp.OK && resp.Error == "" {
		resp.Error = "command rejected"
	}
	return resp
}

// openSession creates the session lease and binds it to the connection.
func (g *Gateway) openSession(c *client, playerID string, resp Response) Response {
	s, err := g.sessions.Create(playerID)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	c.mu.Lock()
	c.sessionID = s.ID
	c.playerID = playerID
	c.mu.Unlock()
	resp.OK = true
	resp.SessionID = s.ID
	return resp
}

// Serve runs the gateway on the configured address until the listener
// fails. Intended to run in its own goroutine.
func (g *Gateway) Serve() error {
	srv := &http.Server{
		Addr:              g.cfg.Address,
		Handler:           g.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.logger.Info("websocket gateway listening", zap.String("address", g.cfg.Address))
	return srv.ListenAndServe()
}
