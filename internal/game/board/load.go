package board

import (
	"encoding/json"
	"fmt"
	"os"
)

// tileJSON is the on-disk layout of a single tile.
type tileJSON struct {
	Index    int    `json:"index"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Next     []int  `json:"next"`
	Price    int    `json:"price,omitempty"`
	Rent     int    `json:"rent,omitempty"`
	Region   string `json:"region,omitempty"`
	Resort   bool   `json:"resort,omitempty"`
}

var tileTypesByName = map[string]TileType{
	"START":    TileStart,
	"PROPERTY": TileProperty,
	"BANK":     TileBank,
	"SHOP":     TileShop,
	"NEWS":     TileNews,
	"LOTTERY":  TileLottery,
	"HOSPITAL": TileHospital,
	"PRISON":   TilePrison,
	"PARK":     TilePark,
	"TAX":      TileTax,
	"CHANCE":   TileChance,
	"FATE":     TileFate,
}

var regionsByName = map[string]Region{
	"SUBURB":   RegionSuburb,
	"CITY":     RegionCity,
	"DOWNTOWN": RegionDowntown,
	"RESORT":   RegionResort,
}

// LoadFile reads a board layout from a JSON file and validates it the same
// way New does.
func LoadFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board file: %w", err)
	}
	return Load(data)
}

// Load parses a JSON board layout.
func Load(data []byte) (*Board, error) {
	var raw []tileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse board layout: %w", err)
	}

	tiles := make([]*Tile, 0, len(raw))
	for _, tj := range raw {
		tt, ok := tileTypesByName[tj.Type]
		if !ok {
			return nil, fmt.Errorf("tile %d: unknown tile type %q", tj.Index, tj.Type)
		}
		tile := &Tile{
			Index: tj.Index,
			Type:  tt,
			Name:  tj.Name,
			Next:  tj.Next,
		}
		if tt == TileProperty {
			region, ok := regionsByName[tj.Region]
			if !ok {
				return nil, fmt.Errorf("tile %d: unknown region %q", tj.Index, tj.Region)
			}
			tile.Property = &Property{
				TileIndex:     tj.Index,
				BasePrice:     tj.Price,
				BaseRent:      tj.Rent,
				Region:        region,
				ResortEnabled: tj.Resort,
			}
		}
		tiles = append(tiles, tile)
	}
	return New(tiles)
}
