package domain

import "fmt"

// Dim is the extent of a battle map in tiles.
type Dim struct {
	W int `json:"w" yaml:"width"`
	H int `json:"h" yaml:"height"`
}

// Valid reports whether both extents are positive.
func (d Dim) Valid() bool {
	return d.W > 0 && d.H > 0
}

// Contains reports whether p lies in [0,W)x[0,H).
func (d Dim) Contains(p Position) bool {
	return p.X >= 0 && p.X < d.W && p.Y >= 0 && p.Y < d.H
}

// Index is the linear cell index y*W + x. The caller checks bounds.
func (d Dim) Index(p Position) int {
	return p.Y*d.W + p.X
}

// At is the inverse of Index.
func (d Dim) At(idx int) Position {
	return Position{X: idx % d.W, Y: idx / d.W}
}

// Cells is W*H.
func (d Dim) Cells() int {
	return d.W * d.H
}

// String prints WxH, e.g. 12x8.
func (d Dim) String() string {
	return fmt.Sprintf("%dx%d", d.W, d.H)
}

// Corner returns the bottom-right tile, the default unit destination.
func (d Dim) Corner() Position {
	return Position{X: d.W - 1, Y: d.H - 1}
}
