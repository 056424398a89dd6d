package game

import (
	"github.com/tycoonfree/tycoon-server-go/internal/game/ai"
	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/cards"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
)

// turnSight is what the autoplayer peeks at between commands.
type turnSight struct {
	ok        bool
	phase     rules.Phase
	queueIdle bool
	options   []int
	tileIndex int
	tileType  board.TileType
	unowned   bool
	ownTile   bool
	offer     ai.PropertyOffer
	cash      int
	hand      []cards.Card
	targets   []string
	decider   ai.Decider
}

func (e *Engine) sight(gameID, playerID string) turnSight {
	e.mu.RLock()
	defer e.mu.RUnlock()
	gs, ok := e.games[gameID]
	if !ok || gs.status != StatusInProgress || gs.turn.ActivePlayer() != playerID {
		return turnSight{}
	}
	p := gs.players[playerID]
	if p == nil || p.eliminated() {
		return turnSight{}
	}

	s := turnSight{
		ok:        true,
		phase:     gs.turn.Phase(),
		queueIdle: gs.queue.Idle(),
		tileIndex: p.Tile,
		cash:      p.Cash,
		hand:      append([]cards.Card(nil), p.Hand...),
		decider:   p.Decider,
	}
	if pm := gs.pendingMove; pm != nil {
		s.options = append([]int(nil), pm.Options...)
	}
	if tile := gs.board.Tile(p.Tile); tile != nil {
		s.tileType = tile.Type
		if prop := tile.Property; prop != nil {
			s.unowned = !prop.Owned()
			s.ownTile = prop.OwnerID == p.ID
			s.offer = ai.PropertyOffer{
				TileIndex: prop.TileIndex,
				Price:     gs.props.PurchasePrice(prop),
				Rent:      gs.props.Rent(prop.TileIndex),
				Level:     prop.Level,
			}
			if s.ownTile {
				s.offer.Price = gs.props.UpgradeCost(prop)
			}
		}
	}
	for _, other := range gs.othersActive(playerID) {
		s.targets = append(s.targets, other.ID)
	}
	return s
}

// AutoPlayTurn drives the active player's whole turn through their decision
// policy, acknowledging queued actions along the way. Returns false when the
// active player is not an automated one. Used by bot seats and the demo
// runner.
func (e *Engine) AutoPlayTurn(gameID string) bool {
	e.mu.RLock()
	gs, ok := e.games[gameID]
	var playerID string
	automated := false
	if ok && gs.status == StatusInProgress {
		playerID = gs.turn.ActivePlayer()
		if p := gs.players[playerID]; p != nil && p.IsAI && p.Decider != nil {
			automated = true
		}
	}
	e.mu.RUnlock()
	if !automated {
		return false
	}

	usedCard := false
	// The guard bounds pathological command loops; a turn is far shorter.
	for guard := 0; guard < 512; guard++ {
		s := e.sight(gameID, playerID)
		if !s.ok {
			return true
		}

		if !s.queueIdle {
			if !e.CompleteAction(gameID) {
				return true
			}
			continue
		}

		switch s.phase {
		case rules.PhaseWaitingForDice:
			if !e.RollDice(gameID, playerID) {
				return true
			}

		case rules.PhaseChoosingDirection:
			choice := s.decider.ChooseDirection(s.options)
			if choice < 0 || !e.ChooseMoveDirection(gameID, playerID, choice) {
				return true
			}

		case rules.PhaseOnTile:
			if s.tileType == board.TileProperty && s.unowned &&
				s.decider.ShouldPurchase(s.offer, s.cash) {
				if e.PurchaseProperty(gameID, playerID, s.tileIndex) {
					continue
				}
			}
			if s.tileType == board.TileProperty && s.ownTile &&
				s.decider.ShouldUpgrade(s.offer, s.cash) {
				if e.UpgradeProperty(gameID, playerID, s.tileIndex) {
					continue
				}
			}
			if !usedCard {
				if card, play := s.decider.ShouldUseCard(s.hand); play {
					usedCard = true
					opts := UseCardOptions{TileIndex: -1}
					if card.NeedsTarget {
						target, found := s.decider.ChooseTarget(s.targets)
						if !found {
							continue
						}
						opts.TargetID = target
					}
					if e.UseCard(gameID, playerID, card.ID, opts) {
						continue
					}
				}
			}
			e.EndTurn(gameID, playerID)
			return true

		default:
			// Rolling or Moving with an idle queue resolves on the next
			// command; nothing to do here.
			return true
		}
	}
	return true
}
