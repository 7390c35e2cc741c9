package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/study-seat-api/internal/models"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
)

// SeatRef is a validated, non-aisle cell of a layout.
type SeatRef struct {
	Row   int
	Col   int
	Label string
}

// RowKey is the canonical stored form of the row index.
func (s SeatRef) RowKey() string { return strconv.Itoa(s.Row) }

// ColKey is the canonical stored form of the column index.
func (s SeatRef) ColKey() string { return strconv.Itoa(s.Col) }

// ValidateSeat resolves string coordinates against the layout.
func ValidateSeat(layout models.Grid, row, col string) (SeatRef, error) {
	rowIdx, err := parseIndex(row)
	if err != nil {
		return SeatRef{}, appErrors.Clone(appErrors.ErrInvalidSeat, fmt.Sprintf("seat row %q is not a number", row))
	}
	colIdx, err := parseIndex(col)
	if err != nil {
		return SeatRef{}, appErrors.Clone(appErrors.ErrInvalidSeat, fmt.Sprintf("seat column %q is not a number", col))
	}

	label, ok := layout.Cell(rowIdx, colIdx)
	if !ok {
		return SeatRef{}, appErrors.Clone(appErrors.ErrInvalidSeat, fmt.Sprintf("seat %d-%d is outside the room layout", rowIdx, colIdx))
	}
	if label == models.AisleCell {
		return SeatRef{}, appErrors.Clone(appErrors.ErrInvalidSeat, fmt.Sprintf("seat %d-%d is an aisle", rowIdx, colIdx))
	}
	return SeatRef{Row: rowIdx, Col: colIdx, Label: label}, nil
}

func parseIndex(raw string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		return 0, fmt.Errorf("negative index %d", idx)
	}
	return idx, nil
}
