package board

import "fmt"

// Board is the immutable tile graph a game is played on. Tile topology never
// changes after New; only the Property records attached to tiles mutate.
type Board struct {
	tiles []*Tile
}

// New validates the given tiles and assembles a board. The caller keeps no
// aliases: the board owns the slice. Validation failures are the only way a
// game refuses to start, so the errors are descriptive.
func New(tiles []*Tile) (*Board, error) {
	if len(tiles) < 2 {
		return nil, fmt.Errorf("board needs at least 2 tiles, got %d", len(tiles))
	}
	for i, tile := range tiles {
		if tile == nil {
			return nil, fmt.Errorf("tile %d is nil", i)
		}
		if tile.Index != i {
			return nil, fmt.Errorf("tile at position %d declares index %d", i, tile.Index)
		}
		for _, next := range tile.Next {
			if next < 0 || next >= len(tiles) {
				return nil, fmt.Errorf("tile %d links to out-of-range tile %d", i, next)
			}
			if next == i {
				return nil, fmt.Errorf("tile %d links to itself", i)
			}
		}
		if tile.Type == TileProperty && tile.Property == nil {
			return nil, fmt.Errorf("property tile %d has no property data", i)
		}
		if tile.Type != TileProperty && tile.Property != nil {
			return nil, fmt.Errorf("%s tile %d carries property data", tile.Type, i)
		}
		if tile.Property != nil && tile.Property.TileIndex != i {
			return nil, fmt.Errorf("property on tile %d declares tile index %d", i, tile.Property.TileIndex)
		}
	}
	if tiles[0].Type != TileStart {
		return nil, fmt.Errorf("tile 0 must be the start tile, got %s", tiles[0].Type)
	}

	b := &Board{tiles: tiles}
	if unreachable := b.unreachableFrom(0); len(unreachable) > 0 {
		return nil, fmt.Errorf("tiles unreachable from start: %v", unreachable)
	}
	return b, nil
}

// unreachableFrom walks the graph from the given tile and returns the indices
// of tiles no forward path reaches.
func (b *Board) unreachableFrom(start int) []int {
	seen := make([]bool, len(b.tiles))
	stack := []int{start}
	seen[start] = true
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range b.tiles[idx].Next {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	var missing []int
	for i, ok := range seen {
		if !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// Size returns the number of tiles.
func (b *Board) Size() int {
	return len(b.tiles)
}

// Tile returns the tile at the given index, or nil when out of range.
func (b *Board) Tile(index int) *Tile {
	if index < 0 || index >= len(b.tiles) {
		return nil
	}
	return b.tiles[index]
}

// Successors returns the outgoing edges of a tile. Out-of-range indices
// yield nil, which movement resolution treats as a dead end.
func (b *Board) Successors(index int) []int {
	tile := b.Tile(index)
	if tile == nil {
		return nil
	}
	return tile.Next
}

// Property returns the property data on a tile, or nil when the tile is not
// a property tile.
func (b *Board) Property(index int) *Property {
	tile := b.Tile(index)
	if tile == nil {
		return nil
	}
	return tile.Property
}

// Tiles returns the underlying tile slice. Callers must treat topology as
// read-only.
func (b *Board) Tiles() []*Tile {
	return b.tiles
}

// FirstTileOfType returns the index of the first tile with the given type,
// or -1 when the board has none. Used to locate the jail and hospital tiles.
func (b *Board) FirstTileOfType(tt TileType) int {
	for _, tile := range b.tiles {
		if tile.Type == tt {
			return tile.Index
		}
	}
	return -1
}

// PropertiesOwnedBy returns the property records currently owned by the
// given player.
func (b *Board) PropertiesOwnedBy(playerID string) []*Property {
	var owned []*Property
	for _, tile := range b.tiles {
		if tile.Property != nil && tile.Property.OwnerID == playerID {
			owned = append(owned, tile.Property)
		}
	}
	return owned
}

// RingDestination computes a wrap-around destination for relative moves that
// ignore the branch structure (event effects use ring arithmetic, never a
// branch choice).
func (b *Board) RingDestination(from, delta int) int {
	n := len(b.tiles)
	dest := (from + delta) % n
	if dest < 0 {
		dest += n
	}
	return dest
}
