package server

import (
	"github.com/tycoonfree/tycoon-server-go/internal/game"
	"github.com/tycoonfree/tycoon-server-go/internal/game/ai"
	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
	"github.com/tycoonfree/tycoon-server-go/internal/lobby"
)

// Request is the JSON envelope clients send over the websocket. Type selects
// the command; unused fields are ignored.
type Request struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`

	Name     string       `json:"name,omitempty"`
	Password string       `json:"password,omitempty"`
	GameID   string       `json:"gameId,omitempty"`
	Players  []PlayerSeed `json:"players,omitempty"`
	Seed     int64        `json:"seed,omitempty"`

	LobbyID    string `json:"lobbyId,omitempty"`
	MaxSeats   int    `json:"maxSeats,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`

	Tile      int    `json:"tile,omitempty"`
	Amount    int    `json:"amount,omitempty"`
	CardID    string `json:"cardId,omitempty"`
	TargetID  string `json:"targetId,omitempty"`
	DiceValue int    `json:"diceValue,omitempty"`
	Facility  string `json:"facility,omitempty"`
}

// PlayerSeed describes one seat in a create_game request.
type PlayerSeed struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	AI         bool   `json:"ai,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Response is the JSON envelope the gateway sends back. Command responses
// echo the request id; event frames have none.
type Response struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`

	SessionID string           `json:"sessionId,omitempty"`
	GameID    string           `json:"gameId,omitempty"`
	LobbyID   string           `json:"lobbyId,omitempty"`
	Lobbies   []lobby.Snapshot `json:"lobbies,omitempty"`
	View      *game.GameView   `json:"view,omitempty"`
	Event     *rules.Event     `json:"event,omitempty"`
}

func difficultyByName(name string) ai.Difficulty {
	switch name {
	case "easy":
		return ai.DifficultyEasy
	case "hard":
		return ai.DifficultyHard
	default:
		return ai.DifficultyNormal
	}
}

func facilityByName(name string) (board.Facility, bool) {
	switch name {
	case "PARK":
		return board.FacilityPark, true
	case "HOTEL":
		return board.FacilityHotel, true
	case "MALL":
		return board.FacilityMall, true
	case "NONE":
		return board.FacilityNone, true
	default:
		return board.FacilityNone, false
	}
}
