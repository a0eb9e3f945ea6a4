// Package services hosts the application services that sit between
// the renderer and the board aggregate
package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"nodular/application/ports"
	"nodular/application/projections"
	"nodular/domain/core/aggregates"
	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
	pkgerrors "nodular/pkg/errors"
)

type gesturePhase int

const (
	phaseIdle gesturePhase = iota
	phaseConnecting
	phasePendingDisconnect
)

// InteractionController turns renderer gestures into board mutations.
// It is a small state machine: at most one gesture is in flight at a
// time, and a gesture either commits exactly one mutation or dissolves
// without touching the board. All methods are safe for concurrent use.
type InteractionController struct {
	mu sync.Mutex

	store    ports.BoardStore
	renderer ports.Renderer
	options  ports.RenderOptionsProvider
	logger   *zap.Logger

	phase         gesturePhase
	connectSource valueobjects.BubbleID
	hoverTarget   *valueobjects.BubbleID

	// Drag positions are visual only until DragStop commits them
	dragPositions map[string]valueobjects.Position

	pendingSource valueobjects.BubbleID
	pendingTarget valueobjects.BubbleID
}

// NewInteractionController creates a controller over the given board
// store
func NewInteractionController(store ports.BoardStore, renderer ports.Renderer, options ports.RenderOptionsProvider, logger *zap.Logger) *InteractionController {
	return &InteractionController{
		store:         store,
		renderer:      renderer,
		options:       options,
		logger:        logger,
		dragPositions: make(map[string]valueobjects.Position),
	}
}

// BeginConnection starts a connection gesture from the given bubble.
// Starting a new gesture cancels any gesture already in flight.
func (c *InteractionController) BeginConnection(ctx context.Context, sourceID valueobjects.BubbleID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.store.View(ctx, func(board *aggregates.Board) error {
		_, err := board.Bubble(sourceID)
		return err
	})
	if err != nil {
		return err
	}

	c.phase = phaseConnecting
	c.connectSource = sourceID
	c.hoverTarget = nil
	return nil
}

// HoverEnter records the bubble currently under the pointer
func (c *InteractionController) HoverEnter(targetID valueobjects.BubbleID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != phaseConnecting {
		return
	}
	c.hoverTarget = &targetID
}

// HoverLeave clears the hover target
func (c *InteractionController) HoverLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hoverTarget = nil
}

// IsConnectionLegal reports whether dropping on the current hover
// target would connect. Renderers use it for live edge feedback.
func (c *InteractionController) IsConnectionLegal(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != phaseConnecting || c.hoverTarget == nil {
		return false
	}
	legal := false
	_ = c.store.View(ctx, func(board *aggregates.Board) error {
		legal = board.CheckConnection(c.connectSource, *c.hoverTarget) == nil
		return nil
	})
	return legal
}

// EndConnection drops the gesture on the given target. An illegal or
// missing target dissolves the gesture silently; only a legal drop
// mutates the board. Returns whether a connection was made.
func (c *InteractionController) EndConnection(ctx context.Context, targetID valueobjects.BubbleID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != phaseConnecting {
		return false
	}
	sourceID := c.connectSource
	c.phase = phaseIdle
	c.hoverTarget = nil

	err := c.store.Update(ctx, func(board *aggregates.Board) error {
		return board.Connect(sourceID, targetID)
	})
	if err != nil {
		c.logger.Debug("connection gesture dissolved",
			zap.String("source_id", sourceID.String()),
			zap.String("target_id", targetID.String()),
			zap.Error(err))
		return false
	}

	c.notifyLocked(ctx)
	return true
}

// CancelConnection abandons the gesture without touching the board
func (c *InteractionController) CancelConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == phaseConnecting {
		c.phase = phaseIdle
		c.hoverTarget = nil
	}
}

// DragMove tracks a bubble's position mid-drag. The board is not
// touched; renderers read the visual position via DragPosition.
func (c *InteractionController) DragMove(bubbleID valueobjects.BubbleID, position valueobjects.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragPositions[bubbleID.String()] = position
}

// DragPosition returns the in-flight visual position, if dragging
func (c *InteractionController) DragPosition(bubbleID valueobjects.BubbleID) (valueobjects.Position, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, ok := c.dragPositions[bubbleID.String()]
	return pos, ok
}

// DragStop commits the final position in a single mutation
func (c *InteractionController) DragStop(ctx context.Context, bubbleID valueobjects.BubbleID, position valueobjects.Position) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.dragPositions, bubbleID.String())
	err := c.store.Update(ctx, func(board *aggregates.Board) error {
		return board.MoveBubble(bubbleID, position)
	})
	if err != nil {
		return err
	}
	c.notifyLocked(ctx)
	return nil
}

// RequestDisconnect begins removing an edge. Attachment edges are
// destructive to remove, so the request parks in a pending state and
// returns a confirmation-required error; conversation edges disconnect
// immediately.
func (c *InteractionController) RequestDisconnect(ctx context.Context, sourceID, targetID valueobjects.BubbleID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var isAttachment bool
	err := c.store.View(ctx, func(board *aggregates.Board) error {
		source, err := board.Bubble(sourceID)
		if err != nil {
			return err
		}
		isAttachment = source.Kind() == entities.KindFileAttachment
		return nil
	})
	if err != nil {
		return err
	}

	if isAttachment {
		c.phase = phasePendingDisconnect
		c.pendingSource = sourceID
		c.pendingTarget = targetID
		return pkgerrors.NewConfirmationRequiredError("disconnect file attachment")
	}
	return c.disconnectLocked(ctx, sourceID, targetID)
}

// ConfirmDisconnect commits the pending disconnect
func (c *InteractionController) ConfirmDisconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != phasePendingDisconnect {
		return pkgerrors.NewValidationError("no disconnect pending")
	}
	sourceID, targetID := c.pendingSource, c.pendingTarget
	c.phase = phaseIdle
	return c.disconnectLocked(ctx, sourceID, targetID)
}

// CancelDisconnect drops the pending disconnect without changes
func (c *InteractionController) CancelDisconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == phasePendingDisconnect {
		c.phase = phaseIdle
	}
}

func (c *InteractionController) disconnectLocked(ctx context.Context, sourceID, targetID valueobjects.BubbleID) error {
	err := c.store.Update(ctx, func(board *aggregates.Board) error {
		return board.Disconnect(sourceID, targetID)
	})
	if err != nil {
		return err
	}
	c.notifyLocked(ctx)
	return nil
}

// AddChild creates a content bubble below its parent, offset by the
// parent's rendered height plus the configured gap
func (c *InteractionController) AddChild(ctx context.Context, parentID valueobjects.BubbleID, kind entities.BubbleKind, title, text string) (valueobjects.BubbleID, error) {
	return c.addRelative(ctx, parentID, kind, title, text, func(parent valueobjects.Position, parentHeight float64, cfg childGaps) valueobjects.Position {
		return parent.Translate(0, parentHeight+cfg.vertical)
	})
}

// AddComposer creates an empty prompt bubble to the right of the
// bubble being replied to
func (c *InteractionController) AddComposer(ctx context.Context, parentID valueobjects.BubbleID) (valueobjects.BubbleID, error) {
	return c.addRelative(ctx, parentID, entities.KindPrompt, "", "", func(parent valueobjects.Position, parentHeight float64, cfg childGaps) valueobjects.Position {
		return parent.Translate(cfg.horizontal, 0)
	})
}

type childGaps struct {
	vertical   float64
	horizontal float64
}

func (c *InteractionController) addRelative(ctx context.Context, parentID valueobjects.BubbleID, kind entities.BubbleKind, title, text string, place func(valueobjects.Position, float64, childGaps) valueobjects.Position) (valueobjects.BubbleID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	opts := c.options.Current()
	var createdID valueobjects.BubbleID
	err := c.store.Update(ctx, func(board *aggregates.Board) error {
		parent, err := board.Bubble(parentID)
		if err != nil {
			return err
		}

		gaps := childGaps{
			vertical:   board.Config().ChildVerticalGap,
			horizontal: board.Config().ComposerHorizontalGap,
		}
		height := nodeHeight(parent.Kind(), opts)
		spec := aggregates.BubbleSpec{
			Kind:     kind,
			Title:    title,
			Position: place(parent.Position(), height, gaps),
			ParentID: &parentID,
		}
		if text != "" {
			msg, err := valueobjects.NewMessage(text, kind.AuthorRole(), time.Now())
			if err != nil {
				return err
			}
			spec.Messages = []valueobjects.Message{msg}
		}

		createdID, err = board.AddBubble(spec)
		return err
	})
	if err != nil {
		return valueobjects.BubbleID{}, err
	}
	c.notifyLocked(ctx)
	return createdID, nil
}

// NodeCallbacks binds the mutation surface handed to leaf node
// components. Every callback resolves its string id and goes through
// the controller, so components never touch the board directly.
func (c *InteractionController) NodeCallbacks(ctx context.Context) ports.NodeCallbacks {
	return ports.NodeCallbacks{
		OnRemove: func(id string) error {
			bid, err := valueobjects.NewBubbleIDFromString(id)
			if err != nil {
				return err
			}
			return c.Remove(ctx, bid)
		},
		OnToggleCollapse: func(id string) (bool, error) {
			bid, err := valueobjects.NewBubbleIDFromString(id)
			if err != nil {
				return false, err
			}
			return c.ToggleCollapse(ctx, bid)
		},
		OnAddChild: func(id string) (string, error) {
			bid, err := valueobjects.NewBubbleIDFromString(id)
			if err != nil {
				return "", err
			}
			childID, err := c.AddChild(ctx, bid, entities.KindPrompt, "", "")
			if err != nil {
				return "", err
			}
			return childID.String(), nil
		},
		OnUpdateContent: func(id string, leadText string) error {
			bid, err := valueobjects.NewBubbleIDFromString(id)
			if err != nil {
				return err
			}
			return c.UpdateContent(ctx, bid, aggregates.ContentPatch{LeadText: &leadText})
		},
	}
}

// FileDrop describes one dropped file
type FileDrop struct {
	Name       string
	MimeType   string
	ContentURL string
}

// DropFiles creates a file bubble per dropped file, cascading each a
// fixed offset from the drop point, and attaches them to the target
// when one is given. Files that fail to attach stay on the board as
// loose file bubbles.
func (c *InteractionController) DropFiles(ctx context.Context, at valueobjects.Position, targetID *valueobjects.BubbleID, files []FileDrop) ([]valueobjects.BubbleID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Resolve every ref before touching the board so a bad file in the
	// middle of the list cannot leave earlier drops behind
	refs := make([]*valueobjects.FileRef, 0, len(files))
	for _, f := range files {
		ref, err := valueobjects.NewFileRef(f.Name, f.MimeType, f.ContentURL)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	var created []valueobjects.BubbleID
	err := c.store.Update(ctx, func(board *aggregates.Board) error {
		cascade := board.Config().FileDropCascade
		for i, f := range files {
			offset := float64(i) * cascade
			id, err := board.AddBubble(aggregates.BubbleSpec{
				Kind:     entities.KindFileAttachment,
				Position: at.Translate(offset, offset),
				File:     refs[i],
			})
			if err != nil {
				for _, prior := range created {
					_ = board.RemoveBubble(prior)
				}
				created = nil
				return err
			}
			created = append(created, id)

			if targetID != nil {
				if err := board.Connect(id, *targetID); err != nil {
					c.logger.Debug("dropped file left unattached",
						zap.String("file", f.Name), zap.Error(err))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.notifyLocked(ctx)
	return created, nil
}

// Remove deletes a bubble through the controller
func (c *InteractionController) Remove(ctx context.Context, bubbleID valueobjects.BubbleID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.store.Update(ctx, func(board *aggregates.Board) error {
		return board.RemoveBubble(bubbleID)
	})
	if err != nil {
		return err
	}
	c.notifyLocked(ctx)
	return nil
}

// ToggleCollapse flips a bubble's collapsed state
func (c *InteractionController) ToggleCollapse(ctx context.Context, bubbleID valueobjects.BubbleID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var collapsed bool
	err := c.store.Update(ctx, func(board *aggregates.Board) error {
		var err error
		collapsed, err = board.ToggleCollapsed(bubbleID)
		return err
	})
	if err != nil {
		return false, err
	}
	c.notifyLocked(ctx)
	return collapsed, nil
}

// UpdateContent applies a content patch through the controller
func (c *InteractionController) UpdateContent(ctx context.Context, bubbleID valueobjects.BubbleID, patch aggregates.ContentPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.store.Update(ctx, func(board *aggregates.Board) error {
		return board.UpdateContent(bubbleID, patch)
	})
	if err != nil {
		return err
	}
	c.notifyLocked(ctx)
	return nil
}

// Project returns the current renderable view of the board
func (c *InteractionController) Project(ctx context.Context) (projections.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectLocked(ctx)
}

func (c *InteractionController) projectLocked(ctx context.Context) (projections.Result, error) {
	opts := c.options.Current()
	var result projections.Result
	err := c.store.View(ctx, func(board *aggregates.Board) error {
		result = projections.Project(board, opts)
		return nil
	})
	return result, err
}

func (c *InteractionController) notifyLocked(ctx context.Context) {
	if c.renderer == nil {
		return
	}
	result, err := c.projectLocked(ctx)
	if err != nil {
		c.logger.Warn("projection after mutation failed", zap.Error(err))
		return
	}
	c.renderer.GraphChanged(result)
}

func nodeHeight(kind entities.BubbleKind, opts projections.RenderOptions) float64 {
	switch kind {
	case entities.KindSystemPrompt:
		return opts.SystemSize.Height
	case entities.KindFileAttachment:
		return opts.FileSize.Height
	default:
		return opts.ContentSize.Height
	}
}
