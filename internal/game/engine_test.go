package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/cards"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
)

// testBoard builds a ring over the given tile types. Property tiles get a
// fixed suburb pricing model so expected amounts stay readable.
func testBoard(t *testing.T, types []board.TileType, price, rent int) *board.Board {
	t.Helper()
	tiles := make([]*board.Tile, len(types))
	for i, tt := range types {
		tile := &board.Tile{
			Index: i,
			Type:  tt,
			Name:  fmt.Sprintf("T%d", i),
			Next:  []int{(i + 1) % len(types)},
		}
		if tt == board.TileProperty {
			tile.Property = &board.Property{
				TileIndex: i,
				BasePrice: price,
				BaseRent:  rent,
				Region:    board.RegionSuburb,
			}
		}
		tiles[i] = tile
	}
	b, err := board.New(tiles)
	require.NoError(t, err)
	return b
}

// ringTypes is a 12-tile layout with every special tile represented once.
func ringTypes() []board.TileType {
	return []board.TileType{
		board.TileStart,    // 0
		board.TileProperty, // 1
		board.TileProperty, // 2
		board.TileBank,     // 3
		board.TileProperty, // 4
		board.TileShop,     // 5
		board.TileProperty, // 6
		board.TilePrison,   // 7
		board.TileProperty, // 8
		board.TileHospital, // 9
		board.TileProperty, // 10
		board.TileProperty, // 11
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.StartingCash = 10000
	cfg.Salary = 2000
	return cfg
}

func newTestGame(t *testing.T, cfg Config, b *board.Board) (*Engine, string) {
	t.Helper()
	e := NewEngine(cfg, zap.NewNop())
	gameID, err := e.CreateGame(GameSpec{
		GameID: "g1",
		Seed:   42,
		Board:  b,
		Players: []PlayerSpec{
			{ID: "p1", Name: "Alice"},
			{ID: "p2", Name: "Bob"},
		},
	})
	require.NoError(t, err)
	return e, gameID
}

// drain acknowledges queued actions until the queue is idle.
func drain(e *Engine, gameID string) {
	for e.CompleteAction(gameID) {
	}
}

// rollTo forces the active player's roll and walks them the given number of
// steps.
func rollTo(t *testing.T, e *Engine, gameID, playerID string, steps int) {
	t.Helper()
	require.True(t, e.SetForcedDiceValue(gameID, steps))
	require.True(t, e.RollDice(gameID, playerID))
	drain(e, gameID)
}

func player(e *Engine, gameID, playerID string) *playerState {
	return e.games[gameID].players[playerID]
}

func TestCreateGameValidatesSeats(t *testing.T) {
	e := NewEngine(testConfig(), zap.NewNop())
	_, err := e.CreateGame(GameSpec{Players: []PlayerSpec{{ID: "solo"}}})
	assert.Error(t, err)

	_, err = e.CreateGame(GameSpec{Players: []PlayerSpec{
		{ID: "a"}, {ID: "a"},
	}})
	assert.Error(t, err, "duplicate seat ids must be rejected")
}

func TestRollMoveLandPurchase(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	require.True(t, e.SetForcedDiceValue(gameID, 4))
	require.True(t, e.RollDice(gameID, "p1"))

	view, err := e.GameView(gameID)
	require.NoError(t, err)
	require.NotNil(t, view.CurrentAction)
	assert.Equal(t, "MOVE", view.CurrentAction.Type)
	assert.Equal(t, []int{1, 2, 3, 4}, view.CurrentAction.Path)

	// Nothing moves until the action is acknowledged.
	assert.Equal(t, 0, player(e, gameID, "p1").Tile)

	drain(e, gameID)
	p1 := player(e, gameID, "p1")
	assert.Equal(t, 4, p1.Tile)
	assert.Equal(t, rules.PhaseOnTile, e.games[gameID].turn.Phase())

	require.True(t, e.PurchaseProperty(gameID, "p1", 4))
	assert.Equal(t, 9000, p1.Cash)
	assert.Equal(t, "p1", b.Property(4).OwnerID)
	assert.Equal(t, 1, b.Property(4).Level)

	// Buying the same tile twice fails quietly.
	assert.False(t, e.PurchaseProperty(gameID, "p1", 4))

	require.True(t, e.EndTurn(gameID, "p1"))
	assert.Equal(t, "p2", e.games[gameID].turn.ActivePlayer())
}

func TestOutOfTurnCommandsRejected(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	assert.False(t, e.RollDice(gameID, "p2"), "p2 does not hold the turn")
	assert.False(t, e.EndTurn(gameID, "p1"), "cannot end before rolling")
	assert.False(t, e.RollDice("missing", "p1"))
	assert.False(t, e.PurchaseProperty(gameID, "p1", 1), "not standing there")
}

func TestRentFlowsToOwner(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	rollTo(t, e, gameID, "p1", 4)
	require.True(t, e.PurchaseProperty(gameID, "p1", 4))
	require.True(t, e.EndTurn(gameID, "p1"))

	rollTo(t, e, gameID, "p2", 4)
	p1 := player(e, gameID, "p1")
	p2 := player(e, gameID, "p2")
	assert.Equal(t, 4, p2.Tile)
	assert.Equal(t, 10000-1000+100, p1.Cash)
	assert.Equal(t, 10000-100, p2.Cash)

	// Landing on your own tile charges nothing.
	require.True(t, e.EndTurn(gameID, "p2"))
	rollTo(t, e, gameID, "p1", 12+4-4) // wrap back onto tile 4
	assert.Equal(t, 4, p1.Tile)
	assert.Equal(t, 10000-1000+100+2000, p1.Cash, "salary for the wrap, no rent")
}

func TestPassingStartPaysSalaryOnce(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	rollTo(t, e, gameID, "p1", 12)
	p1 := player(e, gameID, "p1")
	assert.Equal(t, 0, p1.Tile)
	assert.Equal(t, 12000, p1.Cash)
	assert.Equal(t, 1, p1.StartPasses)
}

func TestRentShortfallForcesBankruptcy(t *testing.T) {
	cfg := testConfig()
	cfg.StartingCash = 150
	b := testBoard(t, ringTypes(), 50, 5000)
	e, gameID := newTestGame(t, cfg, b)

	var gameOver []rules.Event
	e.Subscribe(gameID, func(ev rules.Event) {
		if ev.Type == rules.EventGameOver {
			gameOver = append(gameOver, ev)
		}
	})

	rollTo(t, e, gameID, "p1", 4)
	require.True(t, e.PurchaseProperty(gameID, "p1", 4))
	require.True(t, e.EndTurn(gameID, "p1"))

	// Rent is 5000 against 150 in cash: partial payment, then elimination.
	rollTo(t, e, gameID, "p2", 4)

	p1 := player(e, gameID, "p1")
	p2 := player(e, gameID, "p2")
	assert.Equal(t, ConditionBankrupt, p2.Condition)
	assert.Equal(t, 0, p2.Cash)
	assert.Equal(t, 150-50+150, p1.Cash, "p1 keeps whatever p2 could pay")

	gs := e.games[gameID]
	assert.Equal(t, StatusFinished, gs.status)
	assert.Equal(t, "p1", gs.winner)
	require.Len(t, gameOver, 1)
	assert.Equal(t, "p1", gameOver[0].PlayerID)

	// A finished game accepts no further commands.
	assert.False(t, e.RollDice(gameID, "p1"))
}

func TestBankruptcyReleasesEstate(t *testing.T) {
	cfg := testConfig()
	cfg.StartingCash = 1200
	b := testBoard(t, ringTypes(), 1000, 5000)
	e, gameID := newTestGame(t, cfg, b)

	rollTo(t, e, gameID, "p1", 1)
	require.True(t, e.PurchaseProperty(gameID, "p1", 1))
	require.True(t, e.EndTurn(gameID, "p1"))

	rollTo(t, e, gameID, "p2", 2)
	require.True(t, e.PurchaseProperty(gameID, "p2", 2))
	require.True(t, e.EndTurn(gameID, "p2"))

	// p1 lands on p2's tile and cannot pay.
	rollTo(t, e, gameID, "p1", 1)

	assert.Equal(t, ConditionBankrupt, player(e, gameID, "p1").Condition)
	prop := b.Property(1)
	assert.False(t, prop.Owned(), "bankrupt estate returns to the bank")
	assert.Equal(t, 0, prop.Level)
	assert.Equal(t, "p2", e.games[gameID].winner)
}

func TestBranchChoiceSuspendsAndResumes(t *testing.T) {
	types := []board.TileType{
		board.TileStart, board.TilePark, board.TilePark, board.TilePark,
		board.TilePark, board.TilePark, board.TilePark, board.TilePark,
		board.TilePark, board.TilePark,
	}
	tiles := make([]*board.Tile, len(types))
	for i, tt := range types {
		tiles[i] = &board.Tile{
			Index: i, Type: tt, Name: fmt.Sprintf("T%d", i),
			Next: []int{(i + 1) % len(types)},
		}
	}
	tiles[2].Next = []int{3, 8}
	b, err := board.New(tiles)
	require.NoError(t, err)

	e, gameID := newTestGame(t, testConfig(), b)

	require.True(t, e.SetForcedDiceValue(gameID, 4))
	require.True(t, e.RollDice(gameID, "p1"))

	gs := e.games[gameID]
	require.NotNil(t, gs.pendingMove)
	assert.Equal(t, rules.PhaseChoosingDirection, gs.turn.Phase())
	assert.Equal(t, []int{3, 8}, gs.pendingMove.Options)
	assert.Equal(t, 2, gs.pendingMove.StepsLeft)

	assert.False(t, e.ChooseMoveDirection(gameID, "p1", 5), "not an option")
	require.True(t, e.ChooseMoveDirection(gameID, "p1", 8))

	view, err := e.GameView(gameID)
	require.NoError(t, err)
	require.NotNil(t, view.CurrentAction)
	assert.Equal(t, []int{1, 2, 8, 9}, view.CurrentAction.Path)

	drain(e, gameID)
	assert.Equal(t, 9, player(e, gameID, "p1").Tile)
}

func TestTaxTileChargesShareOfCash(t *testing.T) {
	types := ringTypes()
	types[4] = board.TileTax
	b := testBoard(t, types, 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	rollTo(t, e, gameID, "p1", 4)
	assert.Equal(t, 9000, player(e, gameID, "p1").Cash, "10% of 10000")
}

func TestLoanLifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.Bank.LoanTermTurns = 2
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, cfg, b)

	// Loans are only granted at the bank tile.
	assert.False(t, e.TakeLoan(gameID, "p1", 1000))

	rollTo(t, e, gameID, "p1", 3)
	require.True(t, e.TakeLoan(gameID, "p1", 1000))
	p1 := player(e, gameID, "p1")
	assert.Equal(t, 11000, p1.Cash)
	require.True(t, e.EndTurn(gameID, "p1"))

	rollTo(t, e, gameID, "p2", 1)
	require.True(t, e.EndTurn(gameID, "p2"))

	// Second turn end settles the lump sum: 1000 plus 10% interest.
	rollTo(t, e, gameID, "p1", 1)
	cashBefore := p1.Cash
	require.True(t, e.EndTurn(gameID, "p1"))
	assert.Equal(t, cashBefore-1100, p1.Cash)
	assert.Empty(t, e.games[gameID].bank.Outstanding())
}

func TestLoanDefaultCascadesToBankruptcy(t *testing.T) {
	cfg := testConfig()
	cfg.StartingCash = 100
	cfg.Bank.LoanTermTurns = 1
	cfg.Bank.LoanCap = 5000
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, cfg, b)

	rollTo(t, e, gameID, "p1", 3)
	require.True(t, e.TakeLoan(gameID, "p1", 5000))
	// Spending the cash before the term ends guarantees the default.
	player(e, gameID, "p1").Cash = 100
	require.True(t, e.EndTurn(gameID, "p1"))
	drain(e, gameID)

	assert.Equal(t, ConditionBankrupt, player(e, gameID, "p1").Condition)
	assert.Equal(t, "p2", e.games[gameID].winner)
}

func TestSkipTurnServedThenReleased(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	gs := e.games[gameID]
	p2 := player(e, gameID, "p2")
	p2.Condition = ConditionInJail
	p2.SkipTurns = 1

	rollTo(t, e, gameID, "p1", 1)
	require.True(t, e.EndTurn(gameID, "p1"))

	// p2's only skip turn burns immediately; play returns to p1.
	assert.Equal(t, "p1", gs.turn.ActivePlayer())
	assert.Equal(t, ConditionNormal, p2.Condition)
	assert.Equal(t, 0, p2.SkipTurns)
}

func TestCardRobAndShield(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	p1 := player(e, gameID, "p1")
	p2 := player(e, gameID, "p2")
	rob := cards.MustNew(cards.TypeRob)
	shield := cards.MustNew(cards.TypeShield)
	p1.Hand = []cards.Card{rob}
	p2.Shielded = true
	_ = shield

	rollTo(t, e, gameID, "p1", 1)
	require.True(t, e.UseCard(gameID, "p1", rob.ID, UseCardOptions{TargetID: "p2"}))

	// The shield ate the card: no cash moved, both one-shots consumed.
	assert.Equal(t, 10000, p1.Cash)
	assert.Equal(t, 10000, p2.Cash)
	assert.False(t, p2.Shielded)
	assert.Empty(t, p1.Hand)

	rob2 := cards.MustNew(cards.TypeRob)
	p1.Hand = []cards.Card{rob2}
	require.True(t, e.UseCard(gameID, "p1", rob2.ID, UseCardOptions{TargetID: "p2"}))
	assert.Equal(t, 12000, p1.Cash)
	assert.Equal(t, 8000, p2.Cash)
}

func TestCardTurtleForcesNextRoll(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	turtle := cards.MustNew(cards.TypeTurtle)
	player(e, gameID, "p1").Hand = []cards.Card{turtle}

	rollTo(t, e, gameID, "p1", 2)
	require.True(t, e.UseCard(gameID, "p1", turtle.ID, UseCardOptions{TargetID: "p2"}))
	require.True(t, e.EndTurn(gameID, "p1"))

	require.True(t, e.RollDice(gameID, "p2"))
	drain(e, gameID)
	assert.Equal(t, 1, player(e, gameID, "p2").Tile)
	assert.Equal(t, 1, e.games[gameID].lastRoll.Total)
	assert.True(t, e.games[gameID].lastRoll.Forced)
}

func TestCardInsuranceCoversOneRent(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	rollTo(t, e, gameID, "p1", 4)
	require.True(t, e.PurchaseProperty(gameID, "p1", 4))
	insurance := cards.MustNew(cards.TypeInsurance)
	p2 := player(e, gameID, "p2")
	p2.Hand = []cards.Card{insurance}
	require.True(t, e.EndTurn(gameID, "p1"))

	require.True(t, e.SetForcedDiceValue(gameID, 4))
	require.True(t, e.RollDice(gameID, "p2"))
	// Insurance is armed before the landing resolves.
	p2.Insured = true
	drain(e, gameID)

	assert.Equal(t, 10000, p2.Cash, "insured landing costs nothing")
	assert.False(t, p2.Insured, "one-shot")
}

func TestCardTaxRedistributesEvenly(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	p1 := player(e, gameID, "p1")
	p2 := player(e, gameID, "p2")
	p1.Cash = 7000
	p2.Cash = 1001
	tax := cards.MustNew(cards.TypeTax)
	p1.Hand = []cards.Card{tax}

	rollTo(t, e, gameID, "p1", 1)
	require.True(t, e.UseCard(gameID, "p1", tax.ID, UseCardOptions{}))

	assert.Equal(t, 8001, p1.Cash+p2.Cash, "no money created or destroyed")
	assert.LessOrEqual(t, p1.Cash-p2.Cash, 1)
}

func TestCardBombSendsTargetToHospital(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	bomb := cards.MustNew(cards.TypeBomb)
	player(e, gameID, "p1").Hand = []cards.Card{bomb}

	rollTo(t, e, gameID, "p1", 1)
	require.True(t, e.UseCard(gameID, "p1", bomb.ID, UseCardOptions{TargetID: "p2"}))
	drain(e, gameID)

	p2 := player(e, gameID, "p2")
	assert.Equal(t, ConditionInHospital, p2.Condition)
	assert.Equal(t, 9, p2.Tile, "hospital tile")
	assert.Equal(t, 2, p2.SkipTurns)
}

func TestMortgageAndRedeemRoundTrip(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	rollTo(t, e, gameID, "p1", 4)
	require.True(t, e.PurchaseProperty(gameID, "p1", 4))
	p1 := player(e, gameID, "p1")

	require.True(t, e.MortgageProperty(gameID, "p1", 4))
	assert.Equal(t, 9500, p1.Cash, "half the value back")
	assert.True(t, b.Property(4).Mortgaged)

	require.True(t, e.RedeemProperty(gameID, "p1", 4))
	assert.Equal(t, 8900, p1.Cash, "redeem costs 500 plus 20% interest")
	assert.False(t, b.Property(4).Mortgaged)
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	rollTo(t, e, gameID, "p1", 4)
	require.True(t, e.PurchaseProperty(gameID, "p1", 4))
	require.True(t, e.EndTurn(gameID, "p1"))

	snap, err := e.Snapshot(gameID)
	require.NoError(t, err)

	sum1, err := snap.Checksum()
	require.NoError(t, err)
	sum2, err := snap.Checksum()
	require.NoError(t, err)
	assert.Equal(t, sum1, sum2, "checksum must be stable")

	data, err := snap.Encode()
	require.NoError(t, err)
	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)

	e2 := NewEngine(testConfig(), zap.NewNop())
	b2 := testBoard(t, ringTypes(), 1000, 100)
	restoredID, err := e2.RestoreGame(decoded, b2, 7)
	require.NoError(t, err)

	view, err := e2.GameView(restoredID)
	require.NoError(t, err)
	assert.Equal(t, "p2", view.ActivePlayer)
	assert.Equal(t, 9000, view.Players[0].Cash)
	assert.Equal(t, 4, view.Players[0].Tile)
	assert.Equal(t, "p1", b2.Property(4).OwnerID)

	// The restored game keeps playing.
	require.True(t, e2.SetForcedDiceValue(restoredID, 2))
	require.True(t, e2.RollDice(restoredID, "p2"))
}

func TestSnapshotRefusedMidMove(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)

	require.True(t, e.SetForcedDiceValue(gameID, 4))
	require.True(t, e.RollDice(gameID, "p1"))
	_, err := e.Snapshot(gameID)
	assert.Error(t, err, "actions in flight")
}

func TestAutoPlayRunsWholeGameToCompletion(t *testing.T) {
	b := board.Default()
	e := NewEngine(testConfig(), zap.NewNop())
	gameID, err := e.CreateGame(GameSpec{
		Seed:  99,
		Board: b,
		Players: []PlayerSpec{
			{ID: "bot1", Name: "Bot One", AI: true},
			{ID: "bot2", Name: "Bot Two", AI: true},
			{ID: "bot3", Name: "Bot Three", AI: true},
		},
	})
	require.NoError(t, err)

	for i := 0; i < 5000; i++ {
		if !e.AutoPlayTurn(gameID) {
			break
		}
		if e.games[gameID].status == StatusFinished {
			break
		}
	}

	gs := e.games[gameID]
	assert.Equal(t, StatusFinished, gs.status, "the round cap ends every game")
	assert.NotEmpty(t, gs.winner)
	for _, p := range gs.players {
		assert.GreaterOrEqual(t, p.Cash, 0, "cash never goes negative")
	}

	result, err := e.Result(gameID)
	require.NoError(t, err)
	assert.Equal(t, gs.winner, result.Winner)
	assert.Len(t, result.Standings, 3)
	assert.Greater(t, result.DiceRolls, 0)
}

func TestResultOnlyAfterFinish(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	e, gameID := newTestGame(t, testConfig(), b)
	_, err := e.Result(gameID)
	assert.Error(t, err)
}

func TestNewsEventHitsWholeTableOnce(t *testing.T) {
	types := ringTypes()
	types[4] = board.TileNews
	b := testBoard(t, types, 1000, 100)

	e := NewEngine(testConfig(), zap.NewNop())
	gameID, err := e.CreateGame(GameSpec{
		GameID: "g1",
		Seed:   42,
		Board:  b,
		Players: []PlayerSpec{
			{ID: "p1", Name: "Alice"},
			{ID: "p2", Name: "Bob"},
			{ID: "p3", Name: "Carol"},
		},
	})
	require.NoError(t, err)
	player(e, gameID, "p3").Condition = ConditionBankrupt

	before1 := player(e, gameID, "p1").Cash
	before2 := player(e, gameID, "p2").Cash
	before3 := player(e, gameID, "p3").Cash

	rollTo(t, e, gameID, "p1", 4)
	require.Equal(t, 4, player(e, gameID, "p1").Tile)

	p1, p2, p3 := player(e, gameID, "p1"), player(e, gameID, "p2"), player(e, gameID, "p3")
	delta1 := p1.Cash - before1
	delta2 := p2.Cash - before2
	assert.Equal(t, delta1, delta2, "a news draw applies the same amount to every active player")
	assert.Equal(t, p1.SkipTurns, p2.SkipTurns, "a news skip hits every active player alike")
	assert.True(t, delta1 != 0 || p1.SkipTurns > 0, "every news entry does something")

	assert.Equal(t, before3, p3.Cash, "bankrupt players are untouched by news")
	assert.Zero(t, p3.SkipTurns)
}

func TestFacilityStayRollSparesForcedValue(t *testing.T) {
	b := testBoard(t, ringTypes(), 1000, 100)
	b.Property(4).ResortEnabled = true
	e, gameID := newTestGame(t, testConfig(), b)

	rollTo(t, e, gameID, "p1", 4)
	require.True(t, e.PurchaseProperty(gameID, "p1", 4))
	require.True(t, e.SetFacility(gameID, "p1", 4, board.FacilityHotel))
	require.True(t, e.EndTurn(gameID, "p1"))

	// Bob rolls onto the hotel; a value forced before the stay-fee roll must
	// survive for Alice's next movement roll.
	require.True(t, e.SetForcedDiceValue(gameID, 4))
	require.True(t, e.RollDice(gameID, "p2"))
	require.True(t, e.SetForcedDiceValue(gameID, 6))
	drain(e, gameID)
	require.Equal(t, 4, player(e, gameID, "p2").Tile)
	assert.Equal(t, 6, e.games[gameID].dice.Forced(), "the stay-fee roll must not consume the override")
	require.True(t, e.EndTurn(gameID, "p2"))

	require.True(t, e.RollDice(gameID, "p1"))
	drain(e, gameID)
	assert.Equal(t, 10, player(e, gameID, "p1").Tile)
}
