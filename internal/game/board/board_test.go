package board

import "testing"

func ringTiles(n int) []*Tile {
	tiles := make([]*Tile, n)
	for i := 0; i < n; i++ {
		tt := TileProperty
		var prop *Property
		if i == 0 {
			tt = TileStart
		} else {
			prop = &Property{TileIndex: i, BasePrice: 1000, BaseRent: 100, Region: RegionSuburb}
		}
		tiles[i] = &Tile{Index: i, Type: tt, Name: "t", Next: []int{(i + 1) % n}, Property: prop}
	}
	return tiles
}

func TestNewValidRing(t *testing.T) {
	b, err := New(ringTiles(8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Size() != 8 {
		t.Fatalf("expected size 8, got %d", b.Size())
	}
	if got := b.Successors(7); len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected tile 7 to link back to 0, got %v", got)
	}
}

func TestNewRejectsBadBoards(t *testing.T) {
	cases := []struct {
		name  string
		tiles func() []*Tile
	}{
		{"too small", func() []*Tile { return ringTiles(1) }},
		{"out of range edge", func() []*Tile {
			tiles := ringTiles(4)
			tiles[2].Next = []int{99}
			return tiles
		}},
		{"self edge", func() []*Tile {
			tiles := ringTiles(4)
			tiles[2].Next = []int{2}
			return tiles
		}},
		{"no start tile", func() []*Tile {
			tiles := ringTiles(4)
			tiles[0].Type = TilePark
			return tiles
		}},
		{"property without data", func() []*Tile {
			tiles := ringTiles(4)
			tiles[1].Property = nil
			return tiles
		}},
		{"unreachable tile", func() []*Tile {
			tiles := ringTiles(4)
			extra := &Tile{Index: 4, Type: TilePark, Name: "island", Next: []int{0}}
			return append(tiles, extra)
		}},
		{"index mismatch", func() []*Tile {
			tiles := ringTiles(4)
			tiles[3].Index = 9
			return tiles
		}},
	}

	for _, tc := range cases {
		if _, err := New(tc.tiles()); err == nil {
			t.Errorf("%s: expected validation error, got none", tc.name)
		}
	}
}

func TestDefaultBoard(t *testing.T) {
	b := Default()
	if b.Tile(0).Type != TileStart {
		t.Fatalf("expected tile 0 to be start, got %s", b.Tile(0).Type)
	}
	branch := b.Tile(7)
	if !branch.IsBranch() {
		t.Fatalf("expected tile 7 to be a branch tile")
	}
	if got := b.FirstTileOfType(TilePrison); got != 11 {
		t.Fatalf("expected jail at tile 11, got %d", got)
	}
	if got := b.FirstTileOfType(TileHospital); got != 19 {
		t.Fatalf("expected hospital at tile 19, got %d", got)
	}
	for _, tile := range b.Tiles() {
		if tile.Property != nil && tile.Property.Owned() {
			t.Fatalf("tile %d starts owned", tile.Index)
		}
	}
}

func TestRingDestinationWraps(t *testing.T) {
	b := Default()
	n := b.Size()
	if got := b.RingDestination(n-1, 2); got != 1 {
		t.Fatalf("forward wrap: expected 1, got %d", got)
	}
	if got := b.RingDestination(1, -3); got != n-2 {
		t.Fatalf("backward wrap: expected %d, got %d", n-2, got)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	layout := []byte(`[
		{"index":0,"type":"START","name":"Start","next":[1]},
		{"index":1,"type":"PROPERTY","name":"A","next":[2],"price":1000,"rent":100,"region":"SUBURB"},
		{"index":2,"type":"PARK","name":"Park","next":[0]}
	]`)
	b, err := Load(layout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prop := b.Property(1)
	if prop == nil || prop.BasePrice != 1000 || prop.Region != RegionSuburb {
		t.Fatalf("property data not loaded: %+v", prop)
	}
	if _, err := Load([]byte(`[{"index":0,"type":"BOGUS","name":"x","next":[]}]`)); err == nil {
		t.Fatal("expected error for unknown tile type")
	}
}

func TestPropertyReset(t *testing.T) {
	p := &Property{TileIndex: 1, Level: 3, OwnerID: "p1", Mortgaged: true, Facility: FacilityHotel}
	p.Reset()
	if p.Owned() || p.Level != 0 || p.Mortgaged || p.Facility != FacilityNone {
		t.Fatalf("reset left state behind: %+v", p)
	}
}
