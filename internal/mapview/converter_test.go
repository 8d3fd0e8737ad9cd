package mapview

import (
	"testing"

	"github.com/kees-jan/swoq-bot/internal/offset"
)

func TestToMapCentersOnPlayer(t *testing.T) {
	c := New(offset.Offset{X: 10, Y: 10}, 2)
	center := offset.Offset{X: 2, Y: 2}
	if got := c.ToMap(center); got != (offset.Offset{X: 10, Y: 10}) {
		t.Errorf("ToMap(center) = %v, want player position", got)
	}
}

func TestToMapAndToViewRoundTrip(t *testing.T) {
	c := New(offset.Offset{X: 7, Y: 3}, 4)
	for _, v := range offset.InRectangle(offset.Offset{X: 9, Y: 9}) {
		m := c.ToMap(v)
		if back := c.ToView(m); back != v {
			t.Errorf("ToView(ToMap(%v)) = %v, want %v", v, back, v)
		}
	}
}
