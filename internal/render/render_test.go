package render

import (
	"strings"
	"testing"

	"github.com/kees-jan/swoq-bot/internal/grid"
	"github.com/kees-jan/swoq-bot/internal/tile"
)

func TestTilesDrawsABorderedBox(t *testing.T) {
	g := grid.NewFilled[tile.Tile](3, 2, tile.Wall)
	out := Tiles(g)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("len(lines) = %d, want 4 (top border, 2 rows, bottom border)", len(lines))
	}
	if lines[0] != "+---+" || lines[3] != "+---+" {
		t.Errorf("borders = %q / %q, want \"+---+\" both times", lines[0], lines[3])
	}
	for _, row := range lines[1:3] {
		if row != "|###|" {
			t.Errorf("row = %q, want \"|###|\"", row)
		}
	}
}

func TestIntsRendersCommaSeparatedRows(t *testing.T) {
	g := grid.NewFromData[int](2, 1, []int{1, 2})
	out := Ints(g)
	if out != "1, 2, \n" {
		t.Errorf("Ints() = %q, want %q", out, "1, 2, \n")
	}
}
