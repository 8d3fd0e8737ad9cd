// Package render pretty-prints a Grid[Tile] or Grid[int] as a bordered
// ASCII box, grounded in original_source/src/Map.cpp's bordered Print
// overloads.
package render

import (
	"strconv"
	"strings"

	"github.com/kees-jan/swoq-bot/internal/grid"
	"github.com/kees-jan/swoq-bot/internal/offset"
	"github.com/kees-jan/swoq-bot/internal/tile"
)

// Tiles renders g as a bordered box, one character per cell, using each
// tile's own Char mapping.
func Tiles(g grid.Grid[tile.Tile]) string {
	chars := grid.Map(g, tile.Tile.Char)
	return box(chars)
}

func box(chars grid.Grid[byte]) string {
	var b strings.Builder
	width, height := chars.Width(), chars.Height()

	writeHorizontalBorder(&b, width)
	for y := 0; y < height; y++ {
		b.WriteByte('|')
		for x := 0; x < width; x++ {
			b.WriteByte(chars.At(offset.Offset{X: x, Y: y}))
		}
		b.WriteString("|\n")
	}
	writeHorizontalBorder(&b, width)

	return b.String()
}

func writeHorizontalBorder(b *strings.Builder, width int) {
	b.WriteByte('+')
	for x := 0; x < width; x++ {
		b.WriteByte('-')
	}
	b.WriteString("+\n")
}

// Ints renders a weight or distance grid as comma-separated rows, the way
// the original's Print(Vector2d<int>) does.
func Ints(g grid.Grid[int]) string {
	var b strings.Builder
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			b.WriteString(strconv.Itoa(g.At(offset.Offset{X: x, Y: y})))
			b.WriteString(", ")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
