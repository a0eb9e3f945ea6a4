// Package geometry computes connection-handle placement for rendered
// bubbles. Handles sit at the midpoints of a bubble's box sides; the
// projector asks for the closest legal source/target pair so edges
// attach where the nodes actually face each other.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
)

// Side identifies one of the four cardinal handle positions
type Side string

const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// sideOrder fixes iteration order so tie-breaking is deterministic
var sideOrder = []Side{SideTop, SideRight, SideBottom, SideLeft}

// HandleID builds the renderer-facing handle identifier
func HandleID(id valueobjects.BubbleID, side Side) string {
	return id.String() + "-" + string(side)
}

// Box is a bubble's rendered bounding box. Position is the top-left
// corner, matching canvas coordinates.
type Box struct {
	Position valueobjects.Position
	Width    float64
	Height   float64
}

// HandlePoint returns the canvas point of the handle on the given side
func (b Box) HandlePoint(side Side) r2.Vec {
	x, y := b.Position.X(), b.Position.Y()
	switch side {
	case SideTop:
		return r2.Vec{X: x + b.Width/2, Y: y}
	case SideRight:
		return r2.Vec{X: x + b.Width, Y: y + b.Height/2}
	case SideBottom:
		return r2.Vec{X: x + b.Width/2, Y: y + b.Height}
	case SideLeft:
		return r2.Vec{X: x, Y: y + b.Height/2}
	}
	return r2.Vec{X: x, Y: y}
}

// Center returns the box's center point
func (b Box) Center() r2.Vec {
	return r2.Vec{X: b.Position.X() + b.Width/2, Y: b.Position.Y() + b.Height/2}
}

// SourceSides returns the sides a bubble of this kind can originate an
// edge from. File and system bubbles expose all four sides so their
// edges can reach a target in any direction; conversation bubbles only
// flow downward.
func SourceSides(kind entities.BubbleKind) []Side {
	switch kind {
	case entities.KindFileAttachment, entities.KindSystemPrompt:
		return []Side{SideTop, SideRight, SideBottom, SideLeft}
	default:
		return []Side{SideBottom}
	}
}

// TargetSides returns the sides a bubble of this kind can receive an
// edge on
func TargetSides(kind entities.BubbleKind) []Side {
	switch kind {
	case entities.KindFileAttachment, entities.KindSystemPrompt:
		// File and system bubbles never receive edges
		return nil
	default:
		return []Side{SideTop, SideRight, SideLeft}
	}
}

// ClosestHandlePair picks the source and target sides whose handle
// points are nearest across the two boxes. Candidates are walked in a
// fixed side order and only a strictly shorter distance replaces the
// current best, so equal layouts always resolve to the same pair.
func ClosestHandlePair(sourceKind entities.BubbleKind, sourceBox Box, targetKind entities.BubbleKind, targetBox Box) (Side, Side) {
	sourceSides := SourceSides(sourceKind)
	targetSides := TargetSides(targetKind)
	if len(sourceSides) == 0 || len(targetSides) == 0 {
		return SideBottom, SideTop
	}

	bestSource, bestTarget := sourceSides[0], targetSides[0]
	best := math.Inf(1)
	for _, s := range orderedSubset(sourceSides) {
		sp := sourceBox.HandlePoint(s)
		for _, t := range orderedSubset(targetSides) {
			d := distance(sp, targetBox.HandlePoint(t))
			if d < best {
				best = d
				bestSource, bestTarget = s, t
			}
		}
	}
	return bestSource, bestTarget
}

func distance(a, b r2.Vec) float64 {
	d := r2.Sub(a, b)
	return math.Hypot(d.X, d.Y)
}

// orderedSubset reorders sides into the canonical side order
func orderedSubset(sides []Side) []Side {
	if len(sides) <= 1 {
		return sides
	}
	out := make([]Side, 0, len(sides))
	for _, s := range sideOrder {
		for _, have := range sides {
			if s == have {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
