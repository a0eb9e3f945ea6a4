package events

import (
	"time"

	"nodular/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

func newBase(boardID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: boardID,
		EventType:   eventType,
		Timestamp:   timestamp,
	}
}

// BubbleAdded is raised when a bubble is placed on the board
type BubbleAdded struct {
	BaseEvent
	BubbleID valueobjects.BubbleID  `json:"bubble_id"`
	Kind     string                 `json:"kind"`
	ParentID *valueobjects.BubbleID `json:"parent_id,omitempty"`
}

// NewBubbleAdded creates a BubbleAdded event
func NewBubbleAdded(boardID string, bubbleID valueobjects.BubbleID, kind string, parentID *valueobjects.BubbleID, timestamp time.Time) BubbleAdded {
	return BubbleAdded{
		BaseEvent: newBase(boardID, "board.bubble_added", timestamp),
		BubbleID:  bubbleID,
		Kind:      kind,
		ParentID:  parentID,
	}
}

// BubbleRemoved is raised when a bubble is removed, after relationship repair
type BubbleRemoved struct {
	BaseEvent
	BubbleID         valueobjects.BubbleID   `json:"bubble_id"`
	OrphanedChildren []valueobjects.BubbleID `json:"orphaned_children,omitempty"`
	DetachedFiles    []valueobjects.BubbleID `json:"detached_files,omitempty"`
}

// NewBubbleRemoved creates a BubbleRemoved event
func NewBubbleRemoved(boardID string, bubbleID valueobjects.BubbleID, orphaned, detached []valueobjects.BubbleID, timestamp time.Time) BubbleRemoved {
	return BubbleRemoved{
		BaseEvent:        newBase(boardID, "board.bubble_removed", timestamp),
		BubbleID:         bubbleID,
		OrphanedChildren: orphaned,
		DetachedFiles:    detached,
	}
}

// BubblesConnected is raised when a connection gesture succeeds
type BubblesConnected struct {
	BaseEvent
	SourceID valueobjects.BubbleID `json:"source_id"`
	TargetID valueobjects.BubbleID `json:"target_id"`
	EdgeKind string                `json:"edge_kind"`
}

// NewBubblesConnected creates a BubblesConnected event
func NewBubblesConnected(boardID string, sourceID, targetID valueobjects.BubbleID, edgeKind string, timestamp time.Time) BubblesConnected {
	return BubblesConnected{
		BaseEvent: newBase(boardID, "board.bubbles_connected", timestamp),
		SourceID:  sourceID,
		TargetID:  targetID,
		EdgeKind:  edgeKind,
	}
}

// BubblesDisconnected is raised when an edge is removed
type BubblesDisconnected struct {
	BaseEvent
	SourceID valueobjects.BubbleID `json:"source_id"`
	TargetID valueobjects.BubbleID `json:"target_id"`
}

// NewBubblesDisconnected creates a BubblesDisconnected event
func NewBubblesDisconnected(boardID string, sourceID, targetID valueobjects.BubbleID, timestamp time.Time) BubblesDisconnected {
	return BubblesDisconnected{
		BaseEvent: newBase(boardID, "board.bubbles_disconnected", timestamp),
		SourceID:  sourceID,
		TargetID:  targetID,
	}
}

// BubbleMoved is raised when a drag gesture commits a new position
type BubbleMoved struct {
	BaseEvent
	BubbleID    valueobjects.BubbleID `json:"bubble_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewBubbleMoved creates a BubbleMoved event
func NewBubbleMoved(boardID string, bubbleID valueobjects.BubbleID, oldPos, newPos valueobjects.Position, timestamp time.Time) BubbleMoved {
	return BubbleMoved{
		BaseEvent:   newBase(boardID, "board.bubble_moved", timestamp),
		BubbleID:    bubbleID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// BubbleContentUpdated is raised when a content patch is applied
type BubbleContentUpdated struct {
	BaseEvent
	BubbleID valueobjects.BubbleID `json:"bubble_id"`
}

// NewBubbleContentUpdated creates a BubbleContentUpdated event
func NewBubbleContentUpdated(boardID string, bubbleID valueobjects.BubbleID, timestamp time.Time) BubbleContentUpdated {
	return BubbleContentUpdated{
		BaseEvent: newBase(boardID, "board.bubble_content_updated", timestamp),
		BubbleID:  bubbleID,
	}
}

// BubbleCollapseToggled is raised when the display toggle flips
type BubbleCollapseToggled struct {
	BaseEvent
	BubbleID  valueobjects.BubbleID `json:"bubble_id"`
	Collapsed bool                  `json:"collapsed"`
}

// NewBubbleCollapseToggled creates a BubbleCollapseToggled event
func NewBubbleCollapseToggled(boardID string, bubbleID valueobjects.BubbleID, collapsed bool, timestamp time.Time) BubbleCollapseToggled {
	return BubbleCollapseToggled{
		BaseEvent: newBase(boardID, "board.bubble_collapse_toggled", timestamp),
		BubbleID:  bubbleID,
		Collapsed: collapsed,
	}
}
