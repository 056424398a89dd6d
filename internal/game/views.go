package game

import (
	"fmt"
	"time"

	"github.com/tycoonfree/tycoon-server-go/internal/game/cards"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
)

// Views are deep copies built under the engine lock; callers may hold them
// as long as they like without observing later mutations.

// PlayerView is the outward snapshot of one player.
type PlayerView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Cash        int          `json:"cash"`
	Tile        int          `json:"tile"`
	Condition   string       `json:"condition"`
	SkipTurns   int          `json:"skipTurns"`
	Properties  []int        `json:"properties"`
	Hand        []cards.Card `json:"hand"`
	TotalAssets int          `json:"totalAssets"`
	StartPasses int          `json:"startPasses"`
	IsAI        bool         `json:"isAi"`
}

// PropertyView is the outward snapshot of one owned or ownable tile.
type PropertyView struct {
	TileIndex int    `json:"tileIndex"`
	Name      string `json:"name"`
	Region    string `json:"region"`
	Level     int    `json:"level"`
	OwnerID   string `json:"ownerId,omitempty"`
	Mortgaged bool   `json:"mortgaged"`
	Facility  string `json:"facility"`
	Price     int    `json:"price"`
	Rent      int    `json:"rent"`
}

// LoanView is the outward snapshot of one open loan.
type LoanView struct {
	ID             string `json:"id"`
	Borrower       string `json:"borrower"`
	Principal      int    `json:"principal"`
	Owed           int    `json:"owed"`
	TermLeft       int    `json:"termLeft"`
	PerTurnPayment int    `json:"perTurnPayment"`
}

// PendingChoiceView describes a movement suspended at a branch.
type PendingChoiceView struct {
	PlayerID  string `json:"playerId"`
	Tile      int    `json:"tile"`
	StepsLeft int    `json:"stepsLeft"`
	Options   []int  `json:"options"`
}

// ActionView describes the action currently awaiting acknowledgement.
type ActionView struct {
	Type        string `json:"type"`
	PlayerID    string `json:"playerId"`
	Path        []int  `json:"path,omitempty"`
	PassedStart bool   `json:"passedStart,omitempty"`
	To          int    `json:"to,omitempty"`
	Tile        int    `json:"tile,omitempty"`
	Turns       int    `json:"turns,omitempty"`
}

// GameView is the full outward snapshot of one game.
type GameView struct {
	GameID        string             `json:"gameId"`
	Status        string             `json:"status"`
	Winner        string             `json:"winner,omitempty"`
	Round         int                `json:"round"`
	Phase         string             `json:"phase"`
	ActivePlayer  string             `json:"activePlayer"`
	Order         []string           `json:"order"`
	Players       []PlayerView       `json:"players"`
	Properties    []PropertyView     `json:"properties"`
	Loans         []LoanView         `json:"loans"`
	ShopStock     []cards.Card       `json:"shopStock"`
	PendingChoice *PendingChoiceView `json:"pendingChoice,omitempty"`
	CurrentAction *ActionView        `json:"currentAction,omitempty"`
	QueueLength   int                `json:"queueLength"`
	LastRoll      rules.Roll         `json:"lastRoll"`
	Messages      []string           `json:"messages"`
	Created       time.Time          `json:"created"`
}

// GameView builds a snapshot of the game, or an error when it does not
// exist.
func (e *Engine) GameView(gameID string) (*GameView, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	gs, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %q not found", gameID)
	}
	return e.buildView(gs), nil
}

func (e *Engine) buildView(gs *gameState) *GameView {
	view := &GameView{
		GameID:       gs.gameID,
		Status:       gs.status.String(),
		Winner:       gs.winner,
		Round:        gs.turn.Round(),
		Phase:        gs.turn.Phase().String(),
		ActivePlayer: gs.turn.ActivePlayer(),
		Order:        gs.turn.Order(),
		ShopStock:    gs.shop.Stock(),
		QueueLength:  gs.queue.Len(),
		LastRoll:     gs.lastRoll,
		Created:      gs.created,
	}

	for _, id := range gs.order {
		p := gs.players[id]
		pv := PlayerView{
			ID:          p.ID,
			Name:        p.Name,
			Cash:        p.Cash,
			Tile:        p.Tile,
			Condition:   p.Condition.String(),
			SkipTurns:   p.SkipTurns,
			Hand:        append([]cards.Card(nil), p.Hand...),
			TotalAssets: e.totalAssets(gs, p),
			StartPasses: p.StartPasses,
			IsAI:        p.IsAI,
		}
		for _, prop := range gs.board.PropertiesOwnedBy(p.ID) {
			pv.Properties = append(pv.Properties, prop.TileIndex)
		}
		view.Players = append(view.Players, pv)
	}

	for _, tile := range gs.board.Tiles() {
		if tile.Property == nil {
			continue
		}
		prop := tile.Property
		view.Properties = append(view.Properties, PropertyView{
			TileIndex: prop.TileIndex,
			Name:      tile.Name,
			Region:    prop.Region.String(),
			Level:     prop.Level,
			OwnerID:   prop.OwnerID,
			Mortgaged: prop.Mortgaged,
			Facility:  prop.Facility.String(),
			Price:     gs.props.PurchasePrice(prop),
			Rent:      gs.props.Rent(prop.TileIndex),
		})
	}

	for _, loan := range gs.bank.Outstanding() {
		view.Loans = append(view.Loans, LoanView{
			ID:             loan.ID,
			Borrower:       loan.Borrower,
			Principal:      loan.Principal,
			Owed:           loan.Owed(),
			TermLeft:       loan.TermLeft,
			PerTurnPayment: loan.PerTurnPayment(),
		})
	}

	if pm := gs.pendingMove; pm != nil {
		view.PendingChoice = &PendingChoiceView{
			PlayerID:  gs.turn.ActivePlayer(),
			Tile:      pm.Current,
			StepsLeft: pm.StepsLeft,
			Options:   append([]int(nil), pm.Options...),
		}
	}

	if action := gs.queue.Current(); action != nil {
		view.CurrentAction = &ActionView{
			Type:        string(action.Type),
			PlayerID:    action.PlayerID,
			Path:        append([]int(nil), action.Path...),
			PassedStart: action.PassedStart,
			To:          action.To,
			Tile:        action.Tile,
			Turns:       action.Turns,
		}
	}

	for _, msg := range gs.messages {
		view.Messages = append(view.Messages, msg.Text)
	}
	return view
}
