package valueobjects

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Position is a value object for a bubble's location in canvas
// coordinates. The store is authoritative for positions; the canvas
// library only holds them transiently during a drag.
type Position struct {
	vec r2.Vec
}

// NewPosition creates a position from canvas coordinates
func NewPosition(x, y float64) Position {
	return Position{vec: r2.Vec{X: x, Y: y}}
}

// X returns the horizontal coordinate
func (p Position) X() float64 {
	return p.vec.X
}

// Y returns the vertical coordinate
func (p Position) Y() float64 {
	return p.vec.Y
}

// Equals checks if two positions are identical
func (p Position) Equals(other Position) bool {
	return p.vec == other.vec
}

// Translate returns a position offset by (dx, dy)
func (p Position) Translate(dx, dy float64) Position {
	return Position{vec: r2.Add(p.vec, r2.Vec{X: dx, Y: dy})}
}

// DistanceTo returns the Euclidean distance to another position
func (p Position) DistanceTo(other Position) float64 {
	d := r2.Sub(p.vec, other.vec)
	return math.Hypot(d.X, d.Y)
}

// MarshalJSON implements json.Marshaler
func (p Position) MarshalJSON() ([]byte, error) {
	type pos struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	return json.Marshal(pos{X: p.vec.X, Y: p.vec.Y})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Position) UnmarshalJSON(data []byte) error {
	type pos struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	var v pos
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.vec = r2.Vec{X: v.X, Y: v.Y}
	return nil
}
