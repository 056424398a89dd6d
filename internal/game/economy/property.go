// Package economy implements the money-moving subsystems: the property
// economy (purchase, upgrade, mortgage, rent, facilities) and the bank's
// loan ledger. All operations report precondition failures as boolean
// returns and never raise; insolvency is signalled to the caller, which owns
// the bankruptcy cascade.
package economy

import (
	"math"

	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
)

// Wallet is the cash view the economy mutates. The game state implements it;
// no locking happens here because the engine serializes all access.
type Wallet interface {
	Cash(playerID string) int
	Add(playerID string, amount int)
}

// Config holds the tunable pricing model.
type Config struct {
	UpgradeMultiplier float64
	MortgageRate      float64
	RedeemInterest    float64
	MaxLevel          int
	RegionMultiplier  map[board.Region]float64
	LevelMultiplier   []float64 // indexed by level, entry 0 unused
	HotelRatePerPip   int
	MallRatePerPip    int
}

// DefaultConfig returns the standard pricing model.
func DefaultConfig() Config {
	return Config{
		UpgradeMultiplier: 0.6,
		MortgageRate:      0.5,
		RedeemInterest:    0.2,
		MaxLevel:          5,
		RegionMultiplier: map[board.Region]float64{
			board.RegionSuburb:   1.0,
			board.RegionCity:     1.2,
			board.RegionDowntown: 1.5,
			board.RegionResort:   1.3,
		},
		LevelMultiplier: []float64{0, 1.0, 1.8, 2.6, 3.5, 5.0},
		HotelRatePerPip: 250,
		MallRatePerPip:  150,
	}
}

// Properties drives every property-economy operation against one board.
type Properties struct {
	board  *board.Board
	wallet Wallet
	cfg    Config
}

// NewProperties wires the property economy to a board and a wallet.
func NewProperties(b *board.Board, wallet Wallet, cfg Config) *Properties {
	return &Properties{board: b, wallet: wallet, cfg: cfg}
}

func (p *Properties) regionMultiplier(r board.Region) float64 {
	if m, ok := p.cfg.RegionMultiplier[r]; ok {
		return m
	}
	return 1.0
}

func scale(amount int, factor float64) int {
	return int(math.Round(float64(amount) * factor))
}

// PurchasePrice returns what buying the property costs.
func (p *Properties) PurchasePrice(prop *board.Property) int {
	return scale(prop.BasePrice, p.regionMultiplier(prop.Region))
}

// UpgradeCost returns the cost of raising the property from its current
// level by one.
func (p *Properties) UpgradeCost(prop *board.Property) int {
	return scale(prop.BasePrice, float64(prop.Level)*p.cfg.UpgradeMultiplier)
}

// Value returns the property's current worth: the purchase price plus every
// upgrade paid so far. Used for mortgages and total-asset reporting.
func (p *Properties) Value(prop *board.Property) int {
	value := p.PurchasePrice(prop)
	for level := 1; level < prop.Level; level++ {
		value += scale(prop.BasePrice, float64(level)*p.cfg.UpgradeMultiplier)
	}
	return value
}

// MortgageValue returns what the bank pays out for mortgaging the property.
func (p *Properties) MortgageValue(prop *board.Property) int {
	return scale(p.Value(prop), p.cfg.MortgageRate)
}

// Purchase buys an unowned property tile for the player. Returns false when
// the tile is not an unowned property or the player cannot afford it.
func (p *Properties) Purchase(playerID string, tileIndex int) bool {
	prop := p.board.Property(tileIndex)
	if prop == nil || prop.Owned() {
		return false
	}
	price := p.PurchasePrice(prop)
	if p.wallet.Cash(playerID) < price {
		return false
	}
	p.wallet.Add(playerID, -price)
	prop.OwnerID = playerID
	prop.Level = 1
	return true
}

// Upgrade raises the property one level at the owner's expense. Returns
// false when unowned, mortgaged, already at max level, or unaffordable.
func (p *Properties) Upgrade(tileIndex int) bool {
	prop := p.upgradeable(tileIndex)
	if prop == nil {
		return false
	}
	cost := p.UpgradeCost(prop)
	if p.wallet.Cash(prop.OwnerID) < cost {
		return false
	}
	p.wallet.Add(prop.OwnerID, -cost)
	prop.Level++
	return true
}

// UpgradeFree raises the property one level without charging the owner.
// Backs the free-upgrade grant from tile events.
func (p *Properties) UpgradeFree(tileIndex int) bool {
	prop := p.upgradeable(tileIndex)
	if prop == nil {
		return false
	}
	prop.Level++
	return true
}

func (p *Properties) upgradeable(tileIndex int) *board.Property {
	prop := p.board.Property(tileIndex)
	if prop == nil || !prop.Owned() || prop.Mortgaged || prop.Level >= p.cfg.MaxLevel {
		return nil
	}
	return prop
}

// Mortgage pays the owner the mortgage value and flags the property.
func (p *Properties) Mortgage(tileIndex int) bool {
	prop := p.board.Property(tileIndex)
	if prop == nil || !prop.Owned() || prop.Mortgaged {
		return false
	}
	p.wallet.Add(prop.OwnerID, p.MortgageValue(prop))
	prop.Mortgaged = true
	return true
}

// Redeem clears the mortgage for the mortgage value plus interest.
func (p *Properties) Redeem(tileIndex int) bool {
	prop := p.board.Property(tileIndex)
	if prop == nil || !prop.Owned() || !prop.Mortgaged {
		return false
	}
	cost := scale(p.MortgageValue(prop), 1+p.cfg.RedeemInterest)
	if p.wallet.Cash(prop.OwnerID) < cost {
		return false
	}
	p.wallet.Add(prop.OwnerID, -cost)
	prop.Mortgaged = false
	return true
}

// Rent returns the rent due on the tile: zero when mortgaged, unowned,
// unimproved, or when an active facility supersedes the rent model.
func (p *Properties) Rent(tileIndex int) int {
	prop := p.board.Property(tileIndex)
	if prop == nil || !prop.Owned() || prop.Mortgaged || prop.Level == 0 {
		return 0
	}
	if prop.Facility != board.FacilityNone {
		return 0
	}
	level := prop.Level
	if level >= len(p.cfg.LevelMultiplier) {
		level = len(p.cfg.LevelMultiplier) - 1
	}
	return scale(prop.BaseRent, p.regionMultiplier(prop.Region)*p.cfg.LevelMultiplier[level])
}

// SetFacility assigns a facility on a resort-enabled property, replacing
// rent collection with the facility fee model.
func (p *Properties) SetFacility(tileIndex int, facility board.Facility) bool {
	prop := p.board.Property(tileIndex)
	if prop == nil || !prop.Owned() || prop.Mortgaged || !prop.ResortEnabled {
		return false
	}
	prop.Facility = facility
	return true
}

// FacilityFee returns the dice-rolled stay fee for the tile's facility and
// how many turns the occupant must skip. Park facilities charge nothing.
func (p *Properties) FacilityFee(tileIndex, roll int) (fee, skipTurns int) {
	prop := p.board.Property(tileIndex)
	if prop == nil || !prop.Owned() || prop.Mortgaged {
		return 0, 0
	}
	switch prop.Facility {
	case board.FacilityHotel:
		return roll * p.cfg.HotelRatePerPip, roll
	case board.FacilityMall:
		return roll * p.cfg.MallRatePerPip, 0
	default:
		return 0, 0
	}
}

// Transfer moves up to amount from one player to another. When the payer
// cannot cover the full amount the remaining cash is transferred and ok is
// false: partial payment is the bankruptcy trigger, not an error.
func (p *Properties) Transfer(fromID, toID string, amount int) (paid int, ok bool) {
	if amount <= 0 {
		return 0, true
	}
	cash := p.wallet.Cash(fromID)
	paid = amount
	ok = true
	if cash < amount {
		paid = cash
		ok = false
	}
	p.wallet.Add(fromID, -paid)
	p.wallet.Add(toID, paid)
	return paid, ok
}

// Release returns every property the player owns to the bank: unowned,
// level 0, no mortgage, no facility. Part of the bankruptcy cascade.
func (p *Properties) Release(playerID string) []int {
	var released []int
	for _, prop := range p.board.PropertiesOwnedBy(playerID) {
		prop.Reset()
		released = append(released, prop.TileIndex)
	}
	return released
}
