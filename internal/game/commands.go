package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
)

// Commands report precondition failures as a false return, never an error:
// a stale or out-of-turn request is an expected race with the presentation
// layer, not a fault.

// withGame runs fn under the engine lock against an existing, unfinished
// game.
func (e *Engine) withGame(gameID string, fn func(gs *gameState) bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	gs, ok := e.games[gameID]
	if !ok || gs.status != StatusInProgress {
		return false
	}
	return fn(gs)
}

// activeFor returns the active player when the command sender holds the
// turn.
func activeFor(gs *gameState, playerID string) *playerState {
	p := gs.players[playerID]
	if p == nil || gs.turn.ActivePlayer() != playerID || p.eliminated() {
		return nil
	}
	return p
}

// RollDice rolls for the active player and starts movement resolution. The
// move either suspends at a branch tile or lands in the action queue.
func (e *Engine) RollDice(gameID, playerID string) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		p := activeFor(gs, playerID)
		if p == nil || gs.turn.Phase() != rules.PhaseWaitingForDice || !gs.queue.Idle() {
			return false
		}
		if p.ForcedRoll > 0 {
			gs.dice.SetForced(p.ForcedRoll)
			p.ForcedRoll = 0
		}
		roll := gs.dice.RollDice()
		gs.lastRoll = roll
		gs.stats.DiceRolls++

		ev := rules.NewEvent(rules.EventDiceRolled, gs.gameID, p.ID)
		ev.Amount = roll.Total
		ev.Detail = fmt.Sprintf("%d+%d", roll.Die1, roll.Die2)
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s rolled %d", p.Name, roll.Total))

		steps := roll.Total
		if p.ReverseNext {
			steps = -steps
			p.ReverseNext = false
			e.log(gs, fmt.Sprintf("%s walks backward", p.Name))
		}
		gs.turn.SetPhase(rules.PhaseRolling)
		gs.pendingPath = nil
		gs.pendingMove = nil
		e.startMove(gs, p, steps)
		return true
	})
}

// ChooseMoveDirection resumes a move suspended at a branch tile. The chosen
// tile must be one of the pending options.
func (e *Engine) ChooseMoveDirection(gameID, playerID string, tileIndex int) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		p := activeFor(gs, playerID)
		if p == nil || gs.turn.Phase() != rules.PhaseChoosingDirection || gs.pendingMove == nil {
			return false
		}
		pm := gs.pendingMove
		valid := false
		for _, opt := range pm.Options {
			if opt == tileIndex {
				valid = true
				break
			}
		}
		if !valid {
			return false
		}
		res := rules.BuildPath(gs.board, rules.PathRequest{
			Start:          pm.Current,
			Steps:          pm.StepsLeft,
			Previous:       pm.Previous,
			ForcedNext:     tileIndex,
			AllowChoice:    true,
			HasPassedStart: pm.PassedStart,
		})
		e.continueMove(gs, p, res)
		return true
	})
}

// CompleteAction acknowledges the action currently presented, applying its
// effect and promoting the next one. Movement resolution continues once the
// queue drains.
func (e *Engine) CompleteAction(gameID string) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		if !gs.queue.Complete() {
			return false
		}
		e.emit(gs, rules.NewEvent(rules.EventActionCompleted, gs.gameID, ""))
		e.afterQueueStep(gs)
		return true
	})
}

// EndTurn closes the active player's turn. Loans come due here; play then
// moves to the next seat.
func (e *Engine) EndTurn(gameID, playerID string) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		p := gs.players[playerID]
		if p == nil || gs.turn.ActivePlayer() != playerID {
			return false
		}
		if gs.turn.Phase() != rules.PhaseOnTile || !gs.queue.Idle() {
			return false
		}
		e.endTurn(gs, p)
		return true
	})
}

// PurchaseProperty buys the unowned property the player is standing on.
func (e *Engine) PurchaseProperty(gameID, playerID string, tileIndex int) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		p := activeFor(gs, playerID)
		if p == nil || gs.turn.Phase() != rules.PhaseOnTile || p.Tile != tileIndex {
			return false
		}
		prop := gs.board.Property(tileIndex)
		if prop == nil {
			return false
		}
		price := gs.props.PurchasePrice(prop)
		if !gs.props.Purchase(p.ID, tileIndex) {
			return false
		}
		ev := rules.NewEvent(rules.EventPropertyPurchased, gs.gameID, p.ID)
		ev.Tile = tileIndex
		ev.Amount = price
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s bought %s for %d", p.Name, gs.board.Tile(tileIndex).Name, price))
		return true
	})
}

// UpgradeProperty raises one of the player's properties a level. A pending
// free-upgrade grant is consumed first and works on any owned property;
// paid upgrades require standing on the tile.
func (e *Engine) UpgradeProperty(gameID, playerID string, tileIndex int) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		p := activeFor(gs, playerID)
		if p == nil || gs.turn.Phase() != rules.PhaseOnTile {
			return false
		}
		prop := gs.board.Property(tileIndex)
		if prop == nil || prop.OwnerID != p.ID {
			return false
		}
		free := p.FreeUpgrades > 0
		cost := 0
		if free {
			if !gs.props.UpgradeFree(tileIndex) {
				return false
			}
			p.FreeUpgrades--
		} else {
			if p.Tile != tileIndex {
				return false
			}
			cost = gs.props.UpgradeCost(prop)
			if !gs.props.Upgrade(tileIndex) {
				return false
			}
		}
		ev := rules.NewEvent(rules.EventPropertyUpgraded, gs.gameID, p.ID)
		ev.Tile = tileIndex
		ev.Amount = cost
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s upgraded %s to level %d", p.Name, gs.board.Tile(tileIndex).Name, prop.Level))
		return true
	})
}

// MortgageProperty pawns one of the player's properties to the bank.
func (e *Engine) MortgageProperty(gameID, playerID string, tileIndex int) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		p := activeFor(gs, playerID)
		if p == nil || gs.turn.Phase() != rules.PhaseOnTile {
			return false
		}
		prop := gs.board.Property(tileIndex)
		if prop == nil || prop.OwnerID != p.ID {
			return false
		}
		value := gs.props.MortgageValue(prop)
		if !gs.props.Mortgage(tileIndex) {
			return false
		}
		ev := rules.NewEvent(rules.EventPropertyMortgaged, gs.gameID, p.ID)
		ev.Tile = tileIndex
		ev.Amount = value
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s mortgaged %s for %d", p.Name, gs.board.Tile(tileIndex).Name, value))
		return true
	})
}

// RedeemProperty lifts a mortgage for the mortgage value plus interest.
func (e *Engine) RedeemProperty(gameID, playerID string, tileIndex int) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		p := activeFor(gs, playerID)
		if p == nil || gs.turn.Phase() != rules.PhaseOnTile {
			return false
		}
		prop := gs.board.Property(tileIndex)
		if prop == nil || prop.OwnerID != p.ID {
			return false
		}
		if !gs.props.Redeem(tileIndex) {
			return false
		}
		ev := rules.NewEvent(rules.EventPropertyRedeemed, gs.gameID, p.ID)
		ev.Tile = tileIndex
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s redeemed %s", p.Name, gs.board.Tile(tileIndex).Name))
		return true
	})
}

// SetFacility assigns a facility to one of the player's resort-enabled
// properties, replacing rent with the stay-fee model.
func (e *Engine) SetFacility(gameID, playerID string, tileIndex int, facility board.Facility) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		p := activeFor(gs, playerID)
		if p == nil || gs.turn.Phase() != rules.PhaseOnTile {
			return false
		}
		prop := gs.board.Property(tileIndex)
		if prop == nil || prop.OwnerID != p.ID {
			return false
		}
		if !gs.props.SetFacility(tileIndex, facility) {
			return false
		}
		ev := rules.NewEvent(rules.EventFacilityChanged, gs.gameID, p.ID)
		ev.Tile = tileIndex
		ev.Detail = facility.String()
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s opened a %s on %s", p.Name, facility, gs.board.Tile(tileIndex).Name))
		return true
	})
}

// TakeLoan borrows from the bank. The player must be standing on a bank
// tile.
func (e *Engine) TakeLoan(gameID, playerID string, amount int) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		p := activeFor(gs, playerID)
		if p == nil || gs.turn.Phase() != rules.PhaseOnTile {
			return false
		}
		tile := gs.board.Tile(p.Tile)
		if tile == nil || tile.Type != board.TileBank {
			return false
		}
		loan, ok := gs.bank.TakeLoan(p.ID, amount)
		if !ok {
			return false
		}
		ev := rules.NewEvent(rules.EventLoanTaken, gs.gameID, p.ID)
		ev.Amount = loan.Principal
		ev.Detail = loan.ID
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s borrowed %d, owes %d in %d turns",
			p.Name, loan.Principal, loan.Owed(), loan.TermLeft))
		return true
	})
}

// SetForcedDiceValue arranges the active player's next roll. A debug hook;
// zero clears a pending override.
func (e *Engine) SetForcedDiceValue(gameID string, value int) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		if value < 0 || value > 12 {
			return false
		}
		gs.dice.SetForced(value)
		e.logger.Debug("forced dice value set",
			zap.String("game_id", gameID), zap.Int("value", value))
		return true
	})
}
