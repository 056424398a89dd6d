package game

import (
	"fmt"

	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/cards"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
)

// UseCardOptions carries the per-type parameters of a card play. Unused
// fields are ignored by the resolver.
type UseCardOptions struct {
	TargetID  string // targeted cards
	TileIndex int    // teleport destination; -1 or 0 picks the start tile
	DiceValue int    // loaded dice; 0 defaults to 6
}

// BuyCard purchases a card from the shop. The player must stand on a shop
// tile with room in their hand.
func (e *Engine) BuyCard(gameID, playerID, cardID string) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		p := activeFor(gs, playerID)
		if p == nil || gs.turn.Phase() != rules.PhaseOnTile {
			return false
		}
		tile := gs.board.Tile(p.Tile)
		if tile == nil || tile.Type != board.TileShop {
			return false
		}
		if len(p.Hand) >= e.cfg.HandSize {
			return false
		}
		card, ok := gs.shop.Find(cardID)
		if !ok || p.Cash < card.Price {
			return false
		}
		gs.shop.Take(cardID)
		stateWallet{gs: gs}.Add(p.ID, -card.Price)
		p.Hand = append(p.Hand, card)

		ev := rules.NewEvent(rules.EventCardBought, gs.gameID, p.ID)
		ev.Amount = card.Price
		ev.Detail = string(card.Type)
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s bought a %s card", p.Name, card.Name))
		return true
	})
}

// UseCard plays a card from the active player's hand. A successful play
// consumes the card; a shielded target consumes both the card and the
// shield without the effect landing.
func (e *Engine) UseCard(gameID, playerID, cardID string, opts UseCardOptions) bool {
	return e.withGame(gameID, func(gs *gameState) bool {
		p := activeFor(gs, playerID)
		if p == nil || gs.turn.Phase() != rules.PhaseOnTile || !gs.queue.Idle() {
			return false
		}
		idx := -1
		for i, card := range p.Hand {
			if card.ID == cardID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false
		}
		card := p.Hand[idx]

		var target *playerState
		if card.NeedsTarget {
			target = gs.players[opts.TargetID]
			if target == nil || target.ID == p.ID || target.eliminated() {
				return false
			}
			if target.Shielded {
				target.Shielded = false
				p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
				ev := rules.NewEvent(rules.EventCardBlocked, gs.gameID, p.ID)
				ev.TargetID = target.ID
				ev.Detail = string(card.Type)
				e.emit(gs, ev)
				e.log(gs, fmt.Sprintf("%s's shield blocked %s's %s", target.Name, p.Name, card.Name))
				return true
			}
		}

		if !e.resolveCard(gs, p, target, card, opts) {
			return false
		}
		p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
		gs.stats.CardsPlayed++

		ev := rules.NewEvent(rules.EventCardUsed, gs.gameID, p.ID)
		if target != nil {
			ev.TargetID = target.ID
		}
		ev.Detail = string(card.Type)
		e.emit(gs, ev)
		e.log(gs, fmt.Sprintf("%s played %s", p.Name, card.Name))
		return true
	})
}

// resolveCard applies one card effect. Returns false when the effect has no
// valid application, leaving the card in hand.
func (e *Engine) resolveCard(gs *gameState, p, target *playerState, card cards.Card, opts UseCardOptions) bool {
	switch card.Type {
	case cards.TypeRob:
		amount := e.cfg.RobCap
		if target.Cash < amount {
			amount = target.Cash
		}
		if amount <= 0 {
			return false
		}
		gs.props.Transfer(target.ID, p.ID, amount)
		e.log(gs, fmt.Sprintf("%s robbed %d from %s", p.Name, amount, target.Name))
		return true

	case cards.TypeDemolish:
		var best *board.Property
		for _, prop := range gs.board.PropertiesOwnedBy(target.ID) {
			if prop.Level > 1 && (best == nil || prop.Level > best.Level) {
				best = prop
			}
		}
		if best == nil {
			return false
		}
		best.Level--
		e.log(gs, fmt.Sprintf("%s demolished %s down to level %d",
			p.Name, gs.board.Tile(best.TileIndex).Name, best.Level))
		return true

	case cards.TypeTax:
		return e.redistributeCash(gs)

	case cards.TypeTeleport:
		dest := opts.TileIndex
		if dest < 0 {
			dest = 0
		}
		if gs.board.Tile(dest) == nil || dest == p.Tile {
			return false
		}
		e.push(gs, rules.Action{
			Type:     rules.ActionTeleport,
			PlayerID: p.ID,
			From:     p.Tile,
			To:       dest,
		})
		return true

	case cards.TypeControlDice:
		value := opts.DiceValue
		if value == 0 {
			value = 6
		}
		if value < 1 || value > 12 {
			return false
		}
		p.ForcedRoll = value
		return true

	case cards.TypeSleep:
		target.SkipTurns++
		return true

	case cards.TypeBomb:
		hospital := gs.board.FirstTileOfType(board.TileHospital)
		if hospital < 0 {
			return false
		}
		e.push(gs, rules.Action{
			Type:     rules.ActionToHospital,
			PlayerID: target.ID,
			Tile:     hospital,
			Turns:    e.cfg.BombHospitalTurns,
		})
		return true

	case cards.TypeReverse:
		p.ReverseNext = true
		return true

	case cards.TypeTurtle:
		target.ForcedRoll = 1
		return true

	case cards.TypeShield:
		p.Shielded = true
		return true

	case cards.TypeInsurance:
		p.Insured = true
		return true

	case cards.TypeRedCard:
		for _, other := range gs.othersActive(p.ID) {
			paid, ok := gs.props.Transfer(other.ID, p.ID, e.cfg.RedCardFine)
			e.log(gs, fmt.Sprintf("%s paid a fine of %d to %s", other.Name, paid, p.Name))
			if !ok {
				e.forceBankrupt(gs, other)
			}
		}
		return true

	case cards.TypeBlackCard:
		e.chargeBank(gs, target, e.cfg.BlackCardFine)
		e.log(gs, fmt.Sprintf("%s was fined %d", target.Name, e.cfg.BlackCardFine))
		return true

	case cards.TypeLoan:
		stateWallet{gs: gs}.Add(p.ID, e.cfg.LoanCardAmount)
		e.log(gs, fmt.Sprintf("%s drew easy credit of %d", p.Name, e.cfg.LoanCardAmount))
		return true
	}
	return false
}

// redistributeCash levels every active player's cash to the table mean,
// handing the remainder out one unit at a time in seating order so no money
// is created or destroyed.
func (e *Engine) redistributeCash(gs *gameState) bool {
	var active []*playerState
	total := 0
	for _, id := range gs.order {
		p := gs.players[id]
		if !p.eliminated() {
			active = append(active, p)
			total += p.Cash
		}
	}
	if len(active) < 2 {
		return false
	}
	mean := total / len(active)
	remainder := total % len(active)
	for _, p := range active {
		p.Cash = mean
		if remainder > 0 {
			p.Cash++
			remainder--
		}
	}
	e.log(gs, fmt.Sprintf("wealth tax: everyone now holds about %d", mean))
	return true
}
