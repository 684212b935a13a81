package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/gridkit/pkg/grid"
)

// RenderText renders a snapshot as a character cell grid, one rune per
// cell, using each widget's first letter. Empty cells render as dots.
// Overlapping widgets (possible mid-interaction) render as '#'.
//
//	CCCCCC OOOOOO
//	CCCCCC OOOOOO
//	...... ......
func RenderText(s grid.Snapshot, columns int) string {
	if columns < 1 {
		columns = 12
	}
	rows := 0
	for _, n := range s {
		rows = max(rows, n.Y+n.H)
	}

	cells := make([][]rune, rows)
	for y := range cells {
		cells[y] = make([]rune, columns)
		for x := range cells[y] {
			cells[y][x] = '.'
		}
	}

	ordered := s.Clone()
	ordered.SortForApply()
	for _, n := range ordered {
		mark := '?'
		if n.ID != "" {
			mark = []rune(n.ID)[0]
		}
		for y := n.Y; y < n.Y+n.H && y < rows; y++ {
			for x := n.X; x < n.X+n.W && x < columns; x++ {
				if cells[y][x] != '.' {
					cells[y][x] = '#'
					continue
				}
				cells[y][x] = mark
			}
		}
	}

	var buf bytes.Buffer
	for _, row := range cells {
		fmt.Fprintln(&buf, string(row))
	}
	return buf.String()
}
