package valueobjects

import "math/rand"

// Position is a value object representing a node's 2D canvas coordinate
type Position struct {
	X float64 `json:"x" dynamodbav:"X"`
	Y float64 `json:"y" dynamodbav:"Y"`
}

// NewPosition creates a position from explicit coordinates
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// RandomPosition returns a fallback position for nodes that have never been
// placed. The spread matches the initial canvas viewport.
func RandomPosition(rng *rand.Rand) Position {
	return Position{
		X: rng.Float64() * 400,
		Y: rng.Float64() * 400,
	}
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}
