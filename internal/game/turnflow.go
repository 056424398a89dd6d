package game

import (
	"fmt"
	"math"

	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
)

// push enqueues an action and announces it. The action mutates nothing until
// the presentation layer acknowledges it through CompleteAction.
func (e *Engine) push(gs *gameState, action rules.Action) {
	gs.queue.Push(action)
	ev := rules.NewEvent(rules.EventActionQueued, gs.gameID, action.PlayerID)
	ev.Detail = string(action.Type)
	e.emit(gs, ev)
}

// applyAction is the queue callback: the single place queued mutations land.
func (e *Engine) applyAction(gs *gameState, action rules.Action) {
	p := gs.players[action.PlayerID]
	if p == nil {
		return
	}
	gs.stats.ActionsDone++

	switch action.Type {
	case rules.ActionMove:
		if len(action.Path) == 0 {
			return
		}
		last := action.Path[len(action.Path)-1]
		if len(action.Path) >= 2 {
			p.PrevTile = action.Path[len(action.Path)-2]
		} else {
			p.PrevTile = p.Tile
		}
		p.Tile = last
		if action.PassedStart {
			stateWallet{gs: gs}.Add(p.ID, e.cfg.Salary)
			p.StartPasses++
			ev := rules.NewEvent(rules.EventPassedStart, gs.gameID, p.ID)
			ev.Amount = e.cfg.Salary
			e.emit(gs, ev)
			e.log(gs, fmt.Sprintf("%s passed start and collected %d", p.Name, e.cfg.Salary))
		}
		ev := rules.NewEvent(rules.EventMoved, gs.gameID, p.ID)
		ev.Tile = last
		ev.Amount = len(action.Path)
		e.emit(gs, ev)
		gs.needsTileResolve = true

	case rules.ActionTeleport:
		p.PrevTile = p.Tile
		p.Tile = action.To
		ev := rules.NewEvent(rules.EventTeleported, gs.gameID, p.ID)
		ev.Tile = action.To
		e.emit(gs, ev)
		gs.needsTileResolve = true

	case rules.ActionToJail:
		p.PrevTile = p.Tile
		p.Tile = action.Tile
		p.Condition = ConditionInJail
		p.SkipTurns = action.Turns
		ev := rules.NewEvent(rules.EventSentToJail, gs.gameID, p.ID)
		ev.Tile = action.Tile
		ev.Amount = action.Turns
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s was sent to jail for %d turns", p.Name, action.Turns))

	case rules.ActionToHospital:
		p.PrevTile = p.Tile
		p.Tile = action.Tile
		p.Condition = ConditionInHospital
		p.SkipTurns = action.Turns
		ev := rules.NewEvent(rules.EventSentToHospital, gs.gameID, p.ID)
		ev.Tile = action.Tile
		ev.Amount = action.Turns
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s was sent to hospital for %d turns", p.Name, action.Turns))

	case rules.ActionBankrupt:
		e.applyBankruptcy(gs, p)
	}
}

// applyBankruptcy runs the full elimination cascade for one player.
func (e *Engine) applyBankruptcy(gs *gameState, p *playerState) {
	if p.Condition == ConditionBankrupt {
		return
	}
	p.bankruptQueued = false
	p.Condition = ConditionBankrupt
	p.Cash = 0
	p.Hand = nil
	p.SkipTurns = 0
	p.Shielded = false
	p.Insured = false
	p.ReverseNext = false
	p.ForcedRoll = 0
	p.FreeUpgrades = 0

	released := gs.props.Release(p.ID)
	gs.bank.ReleaseBorrower(p.ID)
	gs.stats.Bankruptcies++

	ev := rules.NewEvent(rules.EventBankrupt, gs.gameID, p.ID)
	ev.Amount = len(released)
	e.emit(gs, ev)
	e.log(gs, fmt.Sprintf("%s went bankrupt, %d properties returned to the bank", p.Name, len(released)))

	e.checkWin(gs)
}

// forceBankrupt queues the elimination so the presentation layer sees it as
// an ordered action. Idempotent while the action is in flight.
func (e *Engine) forceBankrupt(gs *gameState, p *playerState) {
	if p.eliminated() {
		return
	}
	p.bankruptQueued = true
	e.push(gs, rules.Action{Type: rules.ActionBankrupt, PlayerID: p.ID})
}

// afterQueueStep runs once a queued action has been applied: when the queue
// drains after a movement action, the destination tile resolves. Chained
// movement (a tile event that moves the player again) re-enters through the
// queue, so the loop only handles instant resolutions.
func (e *Engine) afterQueueStep(gs *gameState) {
	for gs.status == StatusInProgress && gs.queue.Idle() && gs.needsTileResolve {
		gs.needsTileResolve = false
		if gs.turn.Phase() == rules.PhaseMoving {
			gs.turn.SetPhase(rules.PhaseOnTile)
		}
		p := gs.activePlayer()
		if p.eliminated() {
			break
		}
		e.resolveTile(gs, p)
	}
	// An eliminated active player cannot end their own turn.
	if gs.status == StatusInProgress && gs.queue.Idle() && gs.activePlayer().eliminated() {
		e.endTurn(gs, gs.activePlayer())
	}
}

// startMove resolves a dice roll into a path, suspending at branch tiles.
func (e *Engine) startMove(gs *gameState, p *playerState, steps int) {
	res := rules.BuildPath(gs.board, rules.PathRequest{
		Start:      p.Tile,
		Steps:      steps,
		Previous:   p.PrevTile,
		ForcedNext: -1,
		AllowChoice: true,
	})
	e.continueMove(gs, p, res)
}

// continueMove consumes a path resolution result: either suspend for a
// direction choice or enqueue the movement.
func (e *Engine) continueMove(gs *gameState, p *playerState, res rules.PathResult) {
	gs.pendingPath = append(gs.pendingPath, res.Path...)

	if res.Pending != nil {
		gs.pendingMove = res.Pending
		gs.turn.SetPhase(rules.PhaseChoosingDirection)
		ev := rules.NewEvent(rules.EventPendingChoice, gs.gameID, p.ID)
		ev.Tile = res.Pending.Current
		ev.Detail = fmt.Sprint(res.Pending.Options)
		e.emit(gs, ev)
		return
	}

	gs.pendingMove = nil
	path := gs.pendingPath
	gs.pendingPath = nil

	if len(path) == 0 {
		// Nowhere to go; the turn proceeds as if the move happened.
		gs.turn.SetPhase(rules.PhaseOnTile)
		return
	}
	gs.turn.SetPhase(rules.PhaseMoving)
	e.push(gs, rules.Action{
		Type:        rules.ActionMove,
		PlayerID:    p.ID,
		Path:        path,
		PassedStart: res.PassedStart,
	})
}

// resolveTile applies the automatic effect of the tile the player stands on.
// Voluntary actions (purchase, upgrade, shop, loans) stay with the player.
func (e *Engine) resolveTile(gs *gameState, p *playerState) {
	tile := gs.board.Tile(p.Tile)
	if tile == nil {
		return
	}
	switch tile.Type {
	case board.TileProperty:
		e.resolveProperty(gs, p, tile)
	case board.TileTax:
		tax := int(math.Round(float64(p.Cash) * e.cfg.TaxRate))
		if tax > 0 {
			stateWallet{gs: gs}.Add(p.ID, -tax)
			ev := rules.NewEvent(rules.EventTaxPaid, gs.gameID, p.ID)
			ev.Tile = tile.Index
			ev.Amount = tax
			e.emit(gs, ev)
			e.log(gs, fmt.Sprintf("%s paid %d in taxes", p.Name, tax))
		}
	case board.TileNews, board.TileLottery, board.TileChance, board.TileFate:
		e.resolveTileEvent(gs, p, tile)
	}
}

// resolveProperty charges rent or a facility stay fee when landing on a tile
// someone else owns.
func (e *Engine) resolveProperty(gs *gameState, p *playerState, tile *board.Tile) {
	prop := tile.Property
	if !prop.Owned() || prop.OwnerID == p.ID {
		return
	}
	if prop.Facility != board.FacilityNone && prop.ResortEnabled {
		stay := gs.dice.RollNatural()
		fee, skip := gs.props.FacilityFee(prop.TileIndex, stay.Total)
		if fee > 0 {
			e.chargeOccupant(gs, p, prop.OwnerID, fee, rules.EventFacilityFeePaid, tile.Index)
		}
		if skip > 0 && !p.eliminated() {
			p.SkipTurns += skip
			e.log(gs, fmt.Sprintf("%s is staying at %s for %d turns", p.Name, tile.Name, skip))
		}
		return
	}
	if rent := gs.props.Rent(prop.TileIndex); rent > 0 {
		e.chargeOccupant(gs, p, prop.OwnerID, rent, rules.EventRentPaid, tile.Index)
	}
}

// chargeOccupant transfers a landing fee to the owner. Insurance covers one
// fee in full; a shortfall pays what is left and queues the bankruptcy.
func (e *Engine) chargeOccupant(gs *gameState, p *playerState, ownerID string, amount int, eventType rules.EventType, tileIndex int) {
	if p.Insured {
		p.Insured = false
		ev := rules.NewEvent(eventType, gs.gameID, p.ID)
		ev.TargetID = ownerID
		ev.Tile = tileIndex
		ev.Detail = "covered by insurance"
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s's insurance covered a fee of %d", p.Name, amount))
		return
	}
	paid, ok := gs.props.Transfer(p.ID, ownerID, amount)
	ev := rules.NewEvent(eventType, gs.gameID, p.ID)
	ev.TargetID = ownerID
	ev.Tile = tileIndex
	ev.Amount = paid
	e.emit(gs, ev)
	owner := gs.players[ownerID]
	e.log(gs, fmt.Sprintf("%s paid %d to %s", p.Name, paid, owner.Name))
	if !ok {
		e.forceBankrupt(gs, p)
	}
}

// chargeBank takes amount from the player for the bank. A shortfall takes
// the remaining cash and queues the bankruptcy.
func (e *Engine) chargeBank(gs *gameState, p *playerState, amount int) int {
	if amount <= 0 {
		return 0
	}
	paid := amount
	if p.Cash < amount {
		paid = p.Cash
	}
	stateWallet{gs: gs}.Add(p.ID, -paid)
	if paid < amount {
		e.forceBankrupt(gs, p)
	}
	return paid
}

// settleLoans runs the bank's end-of-turn bookkeeping for one player and
// turns defaults into bankruptcies.
func (e *Engine) settleLoans(gs *gameState, p *playerState) {
	for _, s := range gs.bank.ProcessLoans(p.ID) {
		if s.Defaulted {
			ev := rules.NewEvent(rules.EventLoanDefaulted, gs.gameID, p.ID)
			ev.Amount = s.Loan.Owed()
			e.emit(gs, ev)
			e.log(gs, fmt.Sprintf("%s defaulted on a loan of %d", p.Name, s.Loan.Owed()))
			e.forceBankrupt(gs, p)
			continue
		}
		ev := rules.NewEvent(rules.EventLoanSettled, gs.gameID, p.ID)
		ev.Amount = s.Paid
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s repaid a loan of %d", p.Name, s.Paid))
	}
}

// endTurn closes the active player's turn and moves play to the next seat.
func (e *Engine) endTurn(gs *gameState, p *playerState) {
	gs.turn.SetPhase(rules.PhaseTurnEnd)
	e.emit(gs, rules.NewEvent(rules.EventTurnEnded, gs.gameID, p.ID))
	e.settleLoans(gs, p)
	e.checkWin(gs)
	if gs.status != StatusInProgress {
		return
	}
	if !e.advanceSeat(gs) {
		return
	}
	e.beginTurn(gs)
}

// advanceSeat moves the turn to the next non-eliminated seat and handles the
// round boundary. Returns false when the game ended on the round cap.
func (e *Engine) advanceSeat(gs *gameState) bool {
	_, newRound := gs.turn.Advance(func(id string) bool {
		return gs.players[id].eliminated()
	})
	if newRound {
		ev := rules.NewEvent(rules.EventNewRound, gs.gameID, "")
		ev.Amount = gs.turn.Round()
		e.emit(gs, ev)
		if e.cfg.MaxRounds > 0 && gs.turn.Round() > e.cfg.MaxRounds {
			e.finishGame(gs, e.richestPlayer(gs))
			return false
		}
	}
	return true
}

// beginTurn opens the active player's turn, burning skip turns. A player
// whose last skip turn expires leaves jail or hospital before their next
// roll.
func (e *Engine) beginTurn(gs *gameState) {
	for gs.status == StatusInProgress {
		p := gs.activePlayer()
		if p.eliminated() {
			if !e.advanceSeat(gs) {
				return
			}
			continue
		}
		if p.SkipTurns > 0 {
			p.SkipTurns--
			if p.SkipTurns == 0 && (p.Condition == ConditionInJail || p.Condition == ConditionInHospital) {
				p.Condition = ConditionNormal
			}
			ev := rules.NewEvent(rules.EventTurnSkipped, gs.gameID, p.ID)
			ev.Amount = p.SkipTurns
			e.emit(gs, ev)
			e.log(gs, fmt.Sprintf("%s sits this turn out", p.Name))
			e.settleLoans(gs, p)
			e.checkWin(gs)
			if gs.status != StatusInProgress {
				return
			}
			if !e.advanceSeat(gs) {
				return
			}
			continue
		}
		ev := rules.NewEvent(rules.EventTurnStarted, gs.gameID, p.ID)
		ev.Amount = gs.turn.Round()
		e.emit(gs, ev)
		return
	}
}

// checkWin ends the game when at most one player remains solvent.
func (e *Engine) checkWin(gs *gameState) {
	if gs.status != StatusInProgress || gs.activeCount() > 1 {
		return
	}
	winner := ""
	for _, id := range gs.order {
		if !gs.players[id].eliminated() {
			winner = id
			break
		}
	}
	e.finishGame(gs, winner)
}

// finishGame drains the queue so pending eliminations land, then declares
// the winner.
func (e *Engine) finishGame(gs *gameState, winnerID string) {
	if gs.status != StatusInProgress {
		return
	}
	gs.status = StatusFinished
	gs.winner = winnerID
	for gs.queue.Complete() {
	}
	gs.turn.SetPhase(rules.PhaseTurnEnd)
	ev := rules.NewEvent(rules.EventGameOver, gs.gameID, winnerID)
	ev.Amount = gs.turn.Round()
	e.emit(gs, ev)
	if winner := gs.players[winnerID]; winner != nil {
		e.log(gs, fmt.Sprintf("%s wins the game", winner.Name))
	}
}

// totalAssets values a player's position: cash plus property worth, less the
// bank's claim on mortgaged deeds.
func (e *Engine) totalAssets(gs *gameState, p *playerState) int {
	total := p.Cash
	for _, prop := range gs.board.PropertiesOwnedBy(p.ID) {
		value := gs.props.Value(prop)
		if prop.Mortgaged {
			value -= gs.props.MortgageValue(prop)
		}
		total += value
	}
	return total
}

// richestPlayer breaks a round-cap finish by total assets, earlier seats
// winning ties.
func (e *Engine) richestPlayer(gs *gameState) string {
	best := ""
	bestAssets := -1
	for _, id := range gs.order {
		p := gs.players[id]
		if p.eliminated() {
			continue
		}
		if assets := e.totalAssets(gs, p); assets > bestAssets {
			best = id
			bestAssets = assets
		}
	}
	return best
}
