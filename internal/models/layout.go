package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AisleCell is the sentinel label for a non-seat cell.
const AisleCell = "aisle"

// Grid is a room layout: ordered rows of cell labels. Rows may have different lengths.
type Grid [][]string

// ParseGrid decodes a JSON encoded layout. Empty or null input yields an empty grid.
func ParseGrid(raw []byte) (Grid, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Grid{}, nil
	}
	var g Grid
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if g == nil {
		g = Grid{}
	}
	return g, nil
}

// Cell returns the label at (row, col) and whether the coordinates are inside the grid.
func (g Grid) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(g) {
		return "", false
	}
	if col < 0 || col >= len(g[row]) {
		return "", false
	}
	return g[row][col], true
}

// SeatCount counts the non-aisle cells.
func (g Grid) SeatCount() int {
	n := 0
	for _, row := range g {
		for _, cell := range row {
			if cell != AisleCell {
				n++
			}
		}
	}
	return n
}

// Value implements driver.Valuer storing the grid as JSON text.
func (g Grid) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	b, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON/JSONB columns.
func (g *Grid) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*g = Grid{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported layout type %T", src)
	}
	parsed, err := ParseGrid(raw)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
