package game

import (
	"fmt"
	"time"
)

// Standing is one player's final line in a game result.
type Standing struct {
	PlayerID    string `json:"playerId"`
	Name        string `json:"name"`
	Cash        int    `json:"cash"`
	TotalAssets int    `json:"totalAssets"`
	Bankrupt    bool   `json:"bankrupt"`
	IsAI        bool   `json:"isAi"`
}

// GameResult is the record persisted when a game finishes.
type GameResult struct {
	GameID       string     `json:"gameId"`
	Winner       string     `json:"winner"`
	Rounds       int        `json:"rounds"`
	Standings    []Standing `json:"standings"`
	DiceRolls    int        `json:"diceRolls"`
	ActionsDone  int        `json:"actionsDone"`
	MoneyMoved   int        `json:"moneyMoved"`
	Bankruptcies int        `json:"bankruptcies"`
	CardsPlayed  int        `json:"cardsPlayed"`
	Started      time.Time  `json:"started"`
	Finished     time.Time  `json:"finished"`
}

// Result builds the final record of a finished game.
func (e *Engine) Result(gameID string) (*GameResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	gs, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %q not found", gameID)
	}
	if gs.status != StatusFinished {
		return nil, fmt.Errorf("game %q is still in progress", gameID)
	}

	result := &GameResult{
		GameID:       gs.gameID,
		Winner:       gs.winner,
		Rounds:       gs.turn.Round(),
		DiceRolls:    gs.stats.DiceRolls,
		ActionsDone:  gs.stats.ActionsDone,
		MoneyMoved:   gs.stats.MoneyMoved,
		Bankruptcies: gs.stats.Bankruptcies,
		CardsPlayed:  gs.stats.CardsPlayed,
		Started:      gs.stats.Started,
		Finished:     time.Now(),
	}
	for _, id := range gs.order {
		p := gs.players[id]
		result.Standings = append(result.Standings, Standing{
			PlayerID:    p.ID,
			Name:        p.Name,
			Cash:        p.Cash,
			TotalAssets: e.totalAssets(gs, p),
			Bankrupt:    p.Condition == ConditionBankrupt,
			IsAI:        p.IsAI,
		})
	}
	return result, nil
}
