// Package chart quantizes numeric series into block-glyph grids for terminal display.
package chart

import (
	"math"
	"strings"
)

// Levels are the glyphs for 0/8 through 8/8 of a cell's height.
var Levels = [...]string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

const (
	maxLevel = len(Levels) - 1
	Blank    = " "
	Full     = "█"
)

// Cell is one glyph with its foreground color.
type Cell struct {
	Glyph string
	Color string
}

// Grid is a glyph matrix; Grid[0] is the top row.
type Grid [][]Cell

// Width is the number of columns in the first row.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Lines returns the glyphs of each row without colors.
func (g Grid) Lines() []string {
	lines := make([]string, len(g))
	for i, row := range g {
		var sb strings.Builder
		for _, cell := range row {
			sb.WriteString(cell.Glyph)
		}
		lines[i] = sb.String()
	}
	return lines
}

func (g Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}

// Floats converts integer counts into a chartable series.
func Floats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// Render draws series as vertical bars, rows tall. Each data point is repeated
// max(1, columns/len(series)) times; neighbouring bars alternate between color
// and its shaded variant. An empty series renders rows x columns of blank cells.
func Render(series []float64, rows, columns int, color string) Grid {
	if rows < 1 || columns < 1 {
		return Grid{}
	}
	if len(series) == 0 {
		return blankGrid(rows, columns, color)
	}

	peak := peakOf(series)
	barWidth := max(1, columns/len(series))
	shaded := Shade(color)

	grid := make(Grid, rows)
	for i := range grid {
		grid[i] = make([]Cell, 0, barWidth*len(series))
	}

	for i, v := range series {
		barColor := color
		if i%2 == 1 {
			barColor = shaded
		}

		height := clampValue(v) / peak * float64(rows)
		for top := 0; top < rows; top++ {
			glyph := glyphAt(height, rows-1-top)
			for w := 0; w < barWidth; w++ {
				grid[top] = append(grid[top], Cell{Glyph: glyph, Color: barColor})
			}
		}
	}

	return grid
}

// Sparkline draws series into a single row of width cells. Column c samples
// series[floor(c/width*len)], so long series are downsampled and short ones stretched.
func Sparkline(series []float64, width int, color string) []Cell {
	if width < 1 {
		return []Cell{}
	}
	cells := make([]Cell, width)
	if len(series) == 0 {
		for i := range cells {
			cells[i] = Cell{Glyph: Blank, Color: color}
		}
		return cells
	}

	peak := peakOf(series)
	for col := range cells {
		idx := int(math.Floor(float64(col) / float64(width) * float64(len(series))))
		idx = min(idx, len(series)-1)
		cells[col] = Cell{
			Glyph: Levels[level(clampValue(series[idx])/peak)],
			Color: color,
		}
	}
	return cells
}

// glyphAt picks the glyph for row (0 = bottom) of a bar of the given height in rows.
func glyphAt(height float64, row int) string {
	full := int(math.Floor(height))
	switch {
	case row < full:
		return Full
	case row == full && height-float64(full) > 0:
		return Levels[level(height-float64(full))]
	default:
		return Blank
	}
}

// level maps a fraction in [0,1] to a glyph index, never past the full block.
func level(fraction float64) int {
	return min(int(math.Round(fraction*float64(maxLevel))), maxLevel)
}

func peakOf(series []float64) float64 {
	peak := 1.0
	for _, v := range series {
		peak = max(peak, clampValue(v))
	}
	return peak
}

func clampValue(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func blankGrid(rows, columns int, color string) Grid {
	grid := make(Grid, rows)
	for r := range grid {
		grid[r] = make([]Cell, columns)
		for c := range grid[r] {
			grid[r][c] = Cell{Glyph: Blank, Color: color}
		}
	}
	return grid
}
