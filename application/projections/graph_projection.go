// Package projections derives renderer-ready views from the board
// aggregate. Projection is pure: it reads the board and the render
// options and never mutates either, so callers can project as often
// as they repaint.
package projections

import (
	"nodular/domain/core/aggregates"
	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
	"nodular/domain/geometry"
)

// Size is a rendered node's box dimensions
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderOptions controls how the board is projected
type RenderOptions struct {
	// ShowSystemEdges toggles the white edges from system bubbles to
	// their children. The underlying relationships are untouched when
	// hidden.
	ShowSystemEdges bool

	// PreviewLength truncates the lead message shown on a node
	PreviewLength int

	ContentSize Size
	SystemSize  Size
	FileSize    Size
}

// DefaultRenderOptions mirrors the canvas defaults
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		ShowSystemEdges: true,
		PreviewLength:   120,
		ContentSize:     Size{Width: 320, Height: 160},
		SystemSize:      Size{Width: 280, Height: 120},
		FileSize:        Size{Width: 200, Height: 80},
	}
}

// EdgeStyle is the renderer-facing appearance of an edge
type EdgeStyle struct {
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
	Animated    bool    `json:"animated"`
	Removable   bool    `json:"removable"`
}

// Edge colors by originating bubble
const (
	colorHuman  = "#3b82f6"
	colorModel  = "#10b981"
	colorSystem = "#ffffff"
)

const edgeStrokeWidth = 2

// Node is a renderable bubble
type Node struct {
	ID        string                `json:"id"`
	Kind      string                `json:"kind"`
	Title     string                `json:"title"`
	Position  valueobjects.Position `json:"position"`
	Size      Size                  `json:"size"`
	Collapsed bool                  `json:"collapsed"`
	Preview   string                `json:"preview,omitempty"`

	// File metadata, only set for file bubbles
	FileName string `json:"fileName,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Edge is a renderable connection with its resolved handles
type Edge struct {
	ID           string    `json:"id"`
	SourceID     string    `json:"source"`
	TargetID     string    `json:"target"`
	Kind         string    `json:"kind"`
	SourceHandle string    `json:"sourceHandle"`
	TargetHandle string    `json:"targetHandle"`
	Style        EdgeStyle `json:"style"`
}

// Stats summarizes the projected graph
type Stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
	Roots int `json:"roots"`
}

// Result is a complete renderable view of the board
type Result struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats Stats  `json:"stats"`
}

// Project derives the renderable graph from the board. Nodes come out
// in insertion order and edges in the board's derived-edge order, so
// two projections of the same board are identical.
func Project(board *aggregates.Board, opts RenderOptions) Result {
	bubbles := board.Bubbles()

	nodes := make([]Node, 0, len(bubbles))
	roots := 0
	for _, bubble := range bubbles {
		nodes = append(nodes, projectNode(bubble, opts))
		if bubble.Kind().IsContent() && bubble.ParentID() == nil {
			roots++
		}
	}

	edges := make([]Edge, 0)
	for _, e := range board.Edges() {
		source, err := board.Bubble(e.SourceID)
		if err != nil {
			continue
		}
		target, err := board.Bubble(e.TargetID)
		if err != nil {
			continue
		}
		if source.Kind() == entities.KindSystemPrompt && !opts.ShowSystemEdges {
			continue
		}
		edges = append(edges, projectEdge(e, source, target, opts))
	}

	return Result{
		Nodes: nodes,
		Edges: edges,
		Stats: Stats{Nodes: len(nodes), Edges: len(edges), Roots: roots},
	}
}

func projectNode(bubble *entities.Bubble, opts RenderOptions) Node {
	n := Node{
		ID:        bubble.ID().String(),
		Kind:      string(bubble.Kind()),
		Title:     bubble.Title(),
		Position:  bubble.Position(),
		Size:      nodeSize(bubble.Kind(), opts),
		Collapsed: bubble.Collapsed(),
	}

	if bubble.Kind() == entities.KindFileAttachment {
		if f := bubble.File(); f != nil {
			n.FileName = f.Name()
			n.MimeType = f.MIMEType()
		}
		return n
	}

	if lead, ok := bubble.Thread().Lead(); ok {
		n.Preview = truncate(lead.Text(), opts.PreviewLength)
	}
	return n
}

func projectEdge(e aggregates.Edge, source, target *entities.Bubble, opts RenderOptions) Edge {
	sourceSide, targetSide := geometry.ClosestHandlePair(
		source.Kind(), boxFor(source, opts),
		target.Kind(), boxFor(target, opts),
	)

	return Edge{
		ID:           e.ID,
		SourceID:     e.SourceID.String(),
		TargetID:     e.TargetID.String(),
		Kind:         string(e.Kind),
		SourceHandle: geometry.HandleID(e.SourceID, sourceSide),
		TargetHandle: geometry.HandleID(e.TargetID, targetSide),
		Style:        edgeStyle(source),
	}
}

// edgeStyle colors an edge after its originating bubble: blue for
// human prompts and files, green for model responses, white for
// system bubbles. File edges animate and are the only removable ones
// in the UI.
func edgeStyle(source *entities.Bubble) EdgeStyle {
	style := EdgeStyle{StrokeWidth: edgeStrokeWidth}
	switch source.Kind() {
	case entities.KindSystemPrompt:
		style.Color = colorSystem
	case entities.KindFileAttachment:
		style.Color = colorHuman
		style.Animated = true
		style.Removable = true
	case entities.KindResponse:
		style.Color = colorModel
	default:
		if source.LeadAuthor() == valueobjects.RoleModel {
			style.Color = colorModel
		} else {
			style.Color = colorHuman
		}
	}
	return style
}

func nodeSize(kind entities.BubbleKind, opts RenderOptions) Size {
	switch kind {
	case entities.KindSystemPrompt:
		return opts.SystemSize
	case entities.KindFileAttachment:
		return opts.FileSize
	default:
		return opts.ContentSize
	}
}

func boxFor(bubble *entities.Bubble, opts RenderOptions) geometry.Box {
	size := nodeSize(bubble.Kind(), opts)
	return geometry.Box{Position: bubble.Position(), Width: size.Width, Height: size.Height}
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
