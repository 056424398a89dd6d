package board

import "fmt"

// TileType classifies what happens when a token stops on a tile.
type TileType int

const (
	TileStart TileType = iota
	TileProperty
	TileBank
	TileShop
	TileNews
	TileLottery
	TileHospital
	TilePrison
	TilePark
	TileTax
	TileChance
	TileFate
)

var tileTypeNames = map[TileType]string{
	TileStart:    "START",
	TileProperty: "PROPERTY",
	TileBank:     "BANK",
	TileShop:     "SHOP",
	TileNews:     "NEWS",
	TileLottery:  "LOTTERY",
	TileHospital: "HOSPITAL",
	TilePrison:   "PRISON",
	TilePark:     "PARK",
	TileTax:      "TAX",
	TileChance:   "CHANCE",
	TileFate:     "FATE",
}

func (t TileType) String() string {
	if name, ok := tileTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TILE_%d", int(t))
}

// Region groups properties for price and rent scaling.
type Region int

const (
	RegionSuburb Region = iota
	RegionCity
	RegionDowntown
	RegionResort
)

var regionNames = map[Region]string{
	RegionSuburb:   "SUBURB",
	RegionCity:     "CITY",
	RegionDowntown: "DOWNTOWN",
	RegionResort:   "RESORT",
}

func (r Region) String() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("REGION_%d", int(r))
}

// Facility replaces the standard rent model on resort-enabled properties.
type Facility int

const (
	FacilityNone Facility = iota
	FacilityPark
	FacilityHotel
	FacilityMall
)

var facilityNames = map[Facility]string{
	FacilityNone:  "NONE",
	FacilityPark:  "PARK",
	FacilityHotel: "HOTEL",
	FacilityMall:  "MALL",
}

func (f Facility) String() string {
	if name, ok := facilityNames[f]; ok {
		return name
	}
	return fmt.Sprintf("FACILITY_%d", int(f))
}

// Property holds the mutable economic state attached to a property tile.
// Topology is fixed once a board is built; Property fields change over a game.
type Property struct {
	TileIndex     int
	BasePrice     int
	BaseRent      int
	Region        Region
	Level         int
	OwnerID       string // empty = unowned
	Mortgaged     bool
	Facility      Facility
	ResortEnabled bool
}

// Owned reports whether any player currently owns the property.
func (p *Property) Owned() bool {
	return p.OwnerID != ""
}

// Reset returns the property to the unowned, unimproved state.
// Used when an owner goes bankrupt and the bank reclaims the deed.
func (p *Property) Reset() {
	p.Level = 0
	p.OwnerID = ""
	p.Mortgaged = false
	p.Facility = FacilityNone
}

// Tile is a single node of the board graph. Next holds the indices of the
// tiles a forward-moving token may step to; most tiles have exactly one
// successor, branch tiles have several.
type Tile struct {
	Index    int
	Type     TileType
	Name     string
	Next     []int
	Property *Property
}

// IsBranch reports whether the tile has more than one outgoing edge.
func (t *Tile) IsBranch() bool {
	return len(t.Next) > 1
}
