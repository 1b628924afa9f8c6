package model

import "fmt"

// Grid cells hold two stacked pods: a lower and an upper berth.
const (
	GridLevelLower = "L"
	GridLevelUpper = "U"
	GridLevels     = 2
)

// RowLabel converts a zero-based row index into spreadsheet-style letters:
// 0 -> A, 25 -> Z, 26 -> AA.
func RowLabel(row int) string {
	label := ""

	for row >= 0 {
		label = string(rune('A'+row%26)) + label
		row = row/26 - 1
	}

	return label
}

// GridCode builds the pod code for a grid cell and level, e.g. row 1,
// col 0, upper level -> "B01U". Column ordinals are 1-based and
// zero-padded to two digits.
func GridCode(row, col int, level string) string {
	return fmt.Sprintf("%s%02d%s", RowLabel(row), col+1, level)
}

// GridCodes enumerates every code of a numRows x numCols grid, lower level
// before upper within each cell, rows before columns.
func GridCodes(numRows, numCols int) []string {
	codes := make([]string, 0, numRows*numCols*GridLevels)

	for row := range numRows {
		for col := range numCols {
			codes = append(codes, GridCode(row, col, GridLevelLower), GridCode(row, col, GridLevelUpper))
		}
	}

	return codes
}
