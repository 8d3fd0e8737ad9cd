// Package grid implements Grid[T], the fixed-size row-major buffer that
// DungeonMap and PlayerMap embed. It is the Go translation of the
// original Vector2d<T> template.
package grid

import "github.com/kees-jan/swoq-bot/internal/offset"

// Grid is a fixed (width, height) row-major buffer of T.
type Grid[T any] struct {
	width, height int
	data          []T
}

// New allocates a width x height grid filled with the zero value of T.
func New[T any](width, height int) Grid[T] {
	return Grid[T]{width: width, height: height, data: make([]T, width*height)}
}

// NewFilled allocates a grid where every cell starts as value.
func NewFilled[T any](width, height int, value T) Grid[T] {
	g := New[T](width, height)
	for i := range g.data {
		g.data[i] = value
	}
	return g
}

// NewFromData wraps an existing row-major slice. Panics if the length does
// not match width*height.
func NewFromData[T any](width, height int, data []T) Grid[T] {
	if len(data) != width*height {
		panic("grid: data length does not match width*height")
	}
	return Grid[T]{width: width, height: height, data: data}
}

func (g Grid[T]) Width() int  { return g.width }
func (g Grid[T]) Height() int { return g.height }

// Size returns the grid's dimensions as an Offset.
func (g Grid[T]) Size() offset.Offset { return offset.Offset{X: g.width, Y: g.height} }

// IsInRange reports whether o addresses a cell inside the grid.
func (g Grid[T]) IsInRange(o offset.Offset) bool {
	return o.X >= 0 && o.X < g.width && o.Y >= 0 && o.Y < g.height
}

func (g Grid[T]) index(o offset.Offset) int {
	if !g.IsInRange(o) {
		panic("grid: offset out of range")
	}
	return o.Y*g.width + o.X
}

// At returns the value at o. Panics if o is out of range.
func (g Grid[T]) At(o offset.Offset) T { return g.data[g.index(o)] }

// Set writes the value at o. Panics if o is out of range.
func (g Grid[T]) Set(o offset.Offset, v T) { g.data[g.index(o)] = v }

// Data returns the backing row-major slice. Callers must not retain it
// across a mutation of g.
func (g Grid[T]) Data() []T { return g.data }

// Map applies f to every cell and returns a new grid of the mapped type.
func Map[T, U any](g Grid[T], f func(T) U) Grid[U] {
	out := make([]U, len(g.data))
	for i, v := range g.data {
		out[i] = f(v)
	}
	return NewFromData[U](g.width, g.height, out)
}

// Offsets returns every cell offset in row-major order.
func (g Grid[T]) Offsets() []offset.Offset {
	return offset.InRectangle(g.Size())
}

// Resized copies g's existing rows/columns into a new, larger grid and
// fills the remainder with fillValue. newSize must be >= g.Size() in both
// dimensions.
func Resized[T any](g Grid[T], newSize offset.Offset, fillValue T) Grid[T] {
	if newSize.X < g.width || newSize.Y < g.height {
		panic("grid: cannot shrink via Resized")
	}
	out := NewFilled[T](newSize.X, newSize.Y, fillValue)
	for y := 0; y < g.height; y++ {
		copy(out.data[y*newSize.X:y*newSize.X+g.width], g.data[y*g.width:(y+1)*g.width])
	}
	return out
}
