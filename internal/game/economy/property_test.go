package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
)

// fakeWallet implements Wallet for tests.
type fakeWallet map[string]int

func (w fakeWallet) Cash(playerID string) int      { return w[playerID] }
func (w fakeWallet) Add(playerID string, amt int)  { w[playerID] += amt }
func (w fakeWallet) total() int {
	sum := 0
	for _, cash := range w {
		sum += cash
	}
	return sum
}

func testBoard(t *testing.T) *board.Board {
	t.Helper()
	tiles := []*board.Tile{
		{Index: 0, Type: board.TileStart, Name: "Start", Next: []int{1}},
		{Index: 1, Type: board.TileProperty, Name: "A", Next: []int{2}, Property: &board.Property{
			TileIndex: 1, BasePrice: 2000, BaseRent: 200, Region: board.RegionSuburb,
		}},
		{Index: 2, Type: board.TileProperty, Name: "B", Next: []int{0}, Property: &board.Property{
			TileIndex: 2, BasePrice: 3000, BaseRent: 300, Region: board.RegionResort, ResortEnabled: true,
		}},
	}
	b, err := board.New(tiles)
	require.NoError(t, err)
	return b
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RegionMultiplier[board.RegionResort] = 1.0
	cfg.LevelMultiplier = []float64{0, 1.0, 2.0, 3.0, 4.0, 5.0}
	cfg.UpgradeMultiplier = 0.5
	return cfg
}

func TestPurchaseFlow(t *testing.T) {
	w := fakeWallet{"p1": 5000}
	p := NewProperties(testBoard(t), w, testConfig())

	require.True(t, p.Purchase("p1", 1))
	assert.Equal(t, 3000, w.Cash("p1"))
	prop := p.board.Property(1)
	assert.Equal(t, "p1", prop.OwnerID)
	assert.Equal(t, 1, prop.Level)

	// Already owned, not a property, unaffordable.
	assert.False(t, p.Purchase("p2", 1))
	assert.False(t, p.Purchase("p1", 0))
	w["p3"] = 100
	assert.False(t, p.Purchase("p3", 2))
}

func TestUpgradeAndCosts(t *testing.T) {
	w := fakeWallet{"p1": 10000}
	p := NewProperties(testBoard(t), w, testConfig())
	require.True(t, p.Purchase("p1", 1)) // 2000, cash 8000

	require.True(t, p.Upgrade(1)) // level 1 -> 2 costs 2000*1*0.5 = 1000
	assert.Equal(t, 7000, w.Cash("p1"))
	assert.Equal(t, 2, p.board.Property(1).Level)

	// Value = price + upgrades paid.
	assert.Equal(t, 3000, p.Value(p.board.Property(1)))

	// Max level refuses further upgrades.
	prop := p.board.Property(1)
	prop.Level = 5
	assert.False(t, p.Upgrade(1))

	// Unowned tile refuses.
	assert.False(t, p.Upgrade(2))
}

func TestUpgradeFreeSkipsCharge(t *testing.T) {
	w := fakeWallet{"p1": 2000}
	p := NewProperties(testBoard(t), w, testConfig())
	require.True(t, p.Purchase("p1", 1))
	cash := w.Cash("p1")
	require.True(t, p.UpgradeFree(1))
	assert.Equal(t, cash, w.Cash("p1"))
	assert.Equal(t, 2, p.board.Property(1).Level)
}

func TestRentModel(t *testing.T) {
	w := fakeWallet{"p1": 10000, "p2": 500}
	p := NewProperties(testBoard(t), w, testConfig())
	require.True(t, p.Purchase("p1", 1))

	// level 1, suburb 1.0, level multiplier 1.0
	assert.Equal(t, 200, p.Rent(1))

	// Mortgage zeroes rent at any level.
	require.True(t, p.Mortgage(1))
	assert.Equal(t, 0, p.Rent(1))
	p.board.Property(1).Level = 4
	assert.Equal(t, 0, p.Rent(1))
	p.board.Property(1).Level = 1
	require.True(t, p.Redeem(1))
	assert.Equal(t, 200, p.Rent(1))

	// Unowned and non-property tiles have no rent.
	assert.Equal(t, 0, p.Rent(2))
	assert.Equal(t, 0, p.Rent(0))
}

func TestMortgageRedeemRoundTrip(t *testing.T) {
	w := fakeWallet{"p1": 5000}
	p := NewProperties(testBoard(t), w, testConfig())
	require.True(t, p.Purchase("p1", 1)) // cash 3000

	require.True(t, p.Mortgage(1)) // +1000 (value 2000 * 0.5)
	assert.Equal(t, 4000, w.Cash("p1"))
	assert.False(t, p.Mortgage(1)) // already mortgaged
	assert.False(t, p.Upgrade(1))  // blocked while mortgaged

	require.True(t, p.Redeem(1)) // -1200 (1000 * 1.2)
	assert.Equal(t, 2800, w.Cash("p1"))
	assert.False(t, p.Redeem(1)) // not mortgaged anymore
}

func TestRedeemUnaffordable(t *testing.T) {
	w := fakeWallet{"p1": 2000}
	p := NewProperties(testBoard(t), w, testConfig())
	require.True(t, p.Purchase("p1", 1))
	require.True(t, p.Mortgage(1))
	w["p1"] = 10
	assert.False(t, p.Redeem(1))
	assert.True(t, p.board.Property(1).Mortgaged)
}

func TestFacilityModel(t *testing.T) {
	w := fakeWallet{"p1": 10000}
	p := NewProperties(testBoard(t), w, testConfig())
	require.True(t, p.Purchase("p1", 2))

	// Facility only on resort-enabled tiles.
	assert.False(t, p.SetFacility(1, board.FacilityHotel))
	require.True(t, p.SetFacility(2, board.FacilityHotel))

	// Facility supersedes rent.
	assert.Equal(t, 0, p.Rent(2))

	fee, skip := p.FacilityFee(2, 6)
	assert.Equal(t, 6*p.cfg.HotelRatePerPip, fee)
	assert.Equal(t, 6, skip)

	require.True(t, p.SetFacility(2, board.FacilityMall))
	fee, skip = p.FacilityFee(2, 4)
	assert.Equal(t, 4*p.cfg.MallRatePerPip, fee)
	assert.Equal(t, 0, skip)

	require.True(t, p.SetFacility(2, board.FacilityPark))
	fee, skip = p.FacilityFee(2, 4)
	assert.Zero(t, fee)
	assert.Zero(t, skip)
}

func TestTransferConservesMoney(t *testing.T) {
	w := fakeWallet{"p1": 500, "p2": 3000}
	p := NewProperties(testBoard(t), w, testConfig())
	before := w.total()

	paid, ok := p.Transfer("p2", "p1", 200)
	assert.True(t, ok)
	assert.Equal(t, 200, paid)
	assert.Equal(t, before, w.total())

	// Partial payment drains the payer and reports failure.
	paid, ok = p.Transfer("p1", "p2", 9999)
	assert.False(t, ok)
	assert.Equal(t, 700, paid)
	assert.Equal(t, 0, w.Cash("p1"))
	assert.Equal(t, before, w.total())
}

func TestReleaseReturnsProperties(t *testing.T) {
	w := fakeWallet{"p1": 10000}
	p := NewProperties(testBoard(t), w, testConfig())
	require.True(t, p.Purchase("p1", 1))
	require.True(t, p.Purchase("p1", 2))
	require.True(t, p.SetFacility(2, board.FacilityMall))

	released := p.Release("p1")
	assert.Len(t, released, 2)
	for _, idx := range released {
		prop := p.board.Property(idx)
		assert.False(t, prop.Owned())
		assert.Zero(t, prop.Level)
		assert.Equal(t, board.FacilityNone, prop.Facility)
	}
}
