package game

import (
	"fmt"

	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
)

// tileEventKind tags what a drawn tile event does.
type tileEventKind int

const (
	eventMoney tileEventKind = iota
	eventMoveRelative
	eventTeleport
	eventToJail
	eventToHospital
	eventCollectFromAll
	eventPayToAll
	eventFreeUpgrade
	eventSkipTurn
)

// tileEvent is one entry of an event pool. News events apply their effect to
// every active player; the other pools affect only the player who landed.
type tileEvent struct {
	Text   string
	Kind   tileEventKind
	Amount int // money kinds; negative = charge
	Delta  int // relative movement
	Dest   int // absolute teleport
	Turns  int // jail, hospital, skip
}

var newsEvents = []tileEvent{
	{Text: "Economic boom: everyone collects a dividend", Kind: eventMoney, Amount: 800},
	{Text: "Market crash: everyone pays the clearing house", Kind: eventMoney, Amount: -1000},
	{Text: "Tax rebate: the treasury refunds everyone", Kind: eventMoney, Amount: 500},
	{Text: "Storm damage: everyone pays for repairs", Kind: eventMoney, Amount: -600},
	{Text: "Public holiday: everyone rests a turn", Kind: eventSkipTurn, Turns: 1},
}

var lotteryEvents = []tileEvent{
	{Text: "Jackpot! The lottery pays out big", Kind: eventMoney, Amount: 3000},
	{Text: "A modest lottery win", Kind: eventMoney, Amount: 1000},
	{Text: "Consolation prize", Kind: eventMoney, Amount: 300},
	{Text: "The ticket was a dud", Kind: eventMoney, Amount: 0},
}

var chanceEvents = []tileEvent{
	{Text: "Shortcut found: move ahead three tiles", Kind: eventMoveRelative, Delta: 3},
	{Text: "Wrong turn: move back two tiles", Kind: eventMoveRelative, Delta: -2},
	{Text: "Express ride back to start", Kind: eventTeleport, Dest: 0},
	{Text: "Found a wallet on the street", Kind: eventMoney, Amount: 700},
	{Text: "Parking fine", Kind: eventMoney, Amount: -400},
	{Text: "Renovation permit: one free upgrade", Kind: eventFreeUpgrade},
}

var fateEvents = []tileEvent{
	{Text: "Caught speeding: off to jail", Kind: eventToJail, Turns: 2},
	{Text: "Food poisoning: off to the hospital", Kind: eventToHospital, Turns: 1},
	{Text: "It is your birthday: everyone chips in", Kind: eventCollectFromAll, Amount: 300},
	{Text: "You lost a bet with the whole table", Kind: eventPayToAll, Amount: 200},
	{Text: "An old debt is repaid to you", Kind: eventMoney, Amount: 900},
	{Text: "Exhaustion: rest for a turn", Kind: eventSkipTurn, Turns: 1},
}

func poolFor(tt board.TileType) []tileEvent {
	switch tt {
	case board.TileNews:
		return newsEvents
	case board.TileLottery:
		return lotteryEvents
	case board.TileChance:
		return chanceEvents
	default:
		return fateEvents
	}
}

// resolveTileEvent draws from the tile's pool and applies the effect.
func (e *Engine) resolveTileEvent(gs *gameState, p *playerState, tile *board.Tile) {
	pool := poolFor(tile.Type)
	drawn := pool[gs.rng.Intn(len(pool))]

	ev := rules.NewEvent(rules.EventTileEvent, gs.gameID, p.ID)
	ev.Tile = tile.Index
	ev.Detail = drawn.Text
	e.emit(gs, ev)
	e.log(gs, drawn.Text)

	if tile.Type == board.TileNews {
		// News hits the whole table, the lander included.
		for _, id := range gs.order {
			target := gs.players[id]
			if !target.eliminated() {
				e.applyTileEvent(gs, target, drawn)
			}
		}
		return
	}
	e.applyTileEvent(gs, p, drawn)
}

func (e *Engine) applyTileEvent(gs *gameState, p *playerState, te tileEvent) {
	switch te.Kind {
	case eventMoney:
		if te.Amount >= 0 {
			if te.Amount > 0 {
				stateWallet{gs: gs}.Add(p.ID, te.Amount)
			}
		} else {
			e.chargeBank(gs, p, -te.Amount)
		}

	case eventMoveRelative:
		dest := gs.board.RingDestination(p.Tile, te.Delta)
		e.push(gs, rules.Action{
			Type:     rules.ActionTeleport,
			PlayerID: p.ID,
			From:     p.Tile,
			To:       dest,
		})

	case eventTeleport:
		if te.Dest == 0 {
			// Landing on start by event pays the salary; passing it in
			// transit does not apply to teleports.
			stateWallet{gs: gs}.Add(p.ID, e.cfg.Salary)
			p.StartPasses++
			ev := rules.NewEvent(rules.EventPassedStart, gs.gameID, p.ID)
			ev.Amount = e.cfg.Salary
			e.emit(gs, ev)
		}
		e.push(gs, rules.Action{
			Type:     rules.ActionTeleport,
			PlayerID: p.ID,
			From:     p.Tile,
			To:       te.Dest,
		})

	case eventToJail:
		jail := gs.board.FirstTileOfType(board.TilePrison)
		if jail < 0 {
			return
		}
		e.push(gs, rules.Action{
			Type:     rules.ActionToJail,
			PlayerID: p.ID,
			Tile:     jail,
			Turns:    te.Turns,
		})

	case eventToHospital:
		hospital := gs.board.FirstTileOfType(board.TileHospital)
		if hospital < 0 {
			return
		}
		e.push(gs, rules.Action{
			Type:     rules.ActionToHospital,
			PlayerID: p.ID,
			Tile:     hospital,
			Turns:    te.Turns,
		})

	case eventCollectFromAll:
		for _, other := range gs.othersActive(p.ID) {
			paid, ok := gs.props.Transfer(other.ID, p.ID, te.Amount)
			e.log(gs, fmt.Sprintf("%s paid %d to %s", other.Name, paid, p.Name))
			if !ok {
				e.forceBankrupt(gs, other)
			}
		}

	case eventPayToAll:
		for _, other := range gs.othersActive(p.ID) {
			paid, ok := gs.props.Transfer(p.ID, other.ID, te.Amount)
			e.log(gs, fmt.Sprintf("%s paid %d to %s", p.Name, paid, other.Name))
			if !ok {
				e.forceBankrupt(gs, p)
				break
			}
		}

	case eventFreeUpgrade:
		p.FreeUpgrades++

	case eventSkipTurn:
		p.SkipTurns += te.Turns
	}
}
