package board

// propertySpec is shorthand for building the default board.
type propertySpec struct {
	name   string
	price  int
	rent   int
	region Region
	resort bool
}

func propertyTile(index int, spec propertySpec) *Tile {
	return &Tile{
		Index: index,
		Type:  TileProperty,
		Name:  spec.name,
		Property: &Property{
			TileIndex:     index,
			BasePrice:     spec.price,
			BaseRent:      spec.rent,
			Region:        spec.region,
			ResortEnabled: spec.resort,
		},
	}
}

func plainTile(index int, tt TileType, name string) *Tile {
	return &Tile{Index: index, Type: tt, Name: name}
}

// Default builds the standard 30-tile board: a 28-tile ring with a two-tile
// shortcut leaving the ring at tile 7 and rejoining at tile 14. Tile 7 is the
// board's only branch tile.
func Default() *Board {
	tiles := []*Tile{
		plainTile(0, TileStart, "Start"),
		propertyTile(1, propertySpec{"Willow Lane", 1200, 120, RegionSuburb, false}),
		propertyTile(2, propertySpec{"Maple Court", 1400, 140, RegionSuburb, false}),
		plainTile(3, TileChance, "Chance"),
		propertyTile(4, propertySpec{"Orchard Road", 1600, 160, RegionSuburb, false}),
		plainTile(5, TileTax, "Tax Office"),
		propertyTile(6, propertySpec{"Harbor View", 2000, 200, RegionCity, false}),
		plainTile(7, TilePark, "Crossroads Park"), // branch tile
		propertyTile(8, propertySpec{"Market Street", 2200, 220, RegionCity, false}),
		plainTile(9, TileNews, "News Stand"),
		propertyTile(10, propertySpec{"Station Plaza", 2400, 240, RegionCity, false}),
		plainTile(11, TilePrison, "Jail"),
		propertyTile(12, propertySpec{"Riverside Walk", 2600, 260, RegionCity, false}),
		plainTile(13, TileShop, "Card Shop"),
		propertyTile(14, propertySpec{"Grand Avenue", 3000, 300, RegionDowntown, false}),
		plainTile(15, TileLottery, "Lottery Booth"),
		propertyTile(16, propertySpec{"Opera District", 3200, 320, RegionDowntown, false}),
		plainTile(17, TileFate, "Fate"),
		propertyTile(18, propertySpec{"Tower Square", 3400, 340, RegionDowntown, false}),
		plainTile(19, TileHospital, "Hospital"),
		propertyTile(20, propertySpec{"Skyline Heights", 3600, 360, RegionDowntown, false}),
		plainTile(21, TileBank, "Bank"),
		propertyTile(22, propertySpec{"Sunset Pier", 4000, 400, RegionResort, true}),
		plainTile(23, TileChance, "Chance"),
		propertyTile(24, propertySpec{"Coral Bay", 4200, 420, RegionResort, true}),
		plainTile(25, TileNews, "News Stand"),
		propertyTile(26, propertySpec{"Palm Springs", 4400, 440, RegionResort, true}),
		plainTile(27, TileLottery, "Lottery Booth"),
		// Shortcut: 7 -> 28 -> 29 -> 14.
		propertyTile(28, propertySpec{"Hillside Cabin", 1800, 180, RegionResort, true}),
		propertyTile(29, propertySpec{"Lakeside Lodge", 1800, 180, RegionResort, true}),
	}

	for i := 0; i < 28; i++ {
		tiles[i].Next = []int{(i + 1) % 28}
	}
	tiles[7].Next = []int{8, 28}
	tiles[28].Next = []int{29}
	tiles[29].Next = []int{14}

	b, err := New(tiles)
	if err != nil {
		// The default layout is fixed at compile time; a validation failure
		// here is a programming error.
		panic(err)
	}
	return b
}
