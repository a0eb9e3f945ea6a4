package aggregates

import (
	"time"

	"github.com/google/uuid"

	"nodular/domain/config"
	"nodular/domain/core/entities"
	"nodular/domain/core/policy"
	"nodular/domain/core/validators"
	"nodular/domain/core/valueobjects"
	"nodular/domain/events"
	pkgerrors "nodular/pkg/errors"
)

// BoardID represents a unique board identifier
type BoardID string

// NewBoardID creates a new random BoardID
func NewBoardID() BoardID {
	return BoardID(uuid.New().String())
}

// String returns the string representation
func (id BoardID) String() string {
	return string(id)
}

// EdgeKind distinguishes the two relationship projections
type EdgeKind string

const (
	// EdgeConversation is derived from a bubble's parent link
	EdgeConversation EdgeKind = "conversation"

	// EdgeAttachment is derived from a file bubble's connectedTo link
	EdgeAttachment EdgeKind = "attachment"
)

// Edge is a derived connection between two bubbles. Edges are a
// projection of parent and attachment links, recomputed on demand;
// they are never stored, so they cannot drift from the relationships.
type Edge struct {
	ID       string
	SourceID valueobjects.BubbleID
	TargetID valueobjects.BubbleID
	Kind     EdgeKind
}

// Board is the aggregate root owning all bubbles and their
// relationships: the single source of truth the projector reads and
// the interaction layer mutates. Board state is ephemeral; a process
// restart starts from an empty (or seeded) board.
type Board struct {
	id        BoardID
	name      string
	bubbles   map[string]*entities.Bubble
	order     []valueobjects.BubbleID
	cfg       *config.DomainConfig
	validator *validators.BubbleValidator

	createdAt time.Time
	updatedAt time.Time

	events []events.DomainEvent
}

// BubbleSpec describes a bubble to add to the board
type BubbleSpec struct {
	Kind     entities.BubbleKind
	Title    string
	Position valueobjects.Position
	Messages []valueobjects.Message

	// Optional conversation-tree parent, set at creation for add-child
	// and composer flows
	ParentID *valueobjects.BubbleID

	// File-attachment payload, required for KindFileAttachment
	File *valueobjects.FileRef

	// System-only model configuration
	ModelID     valueobjects.ModelID
	Temperature float64
}

// NewBoard creates an empty board
func NewBoard(name string, cfg *config.DomainConfig) *Board {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	now := time.Now()
	return &Board{
		id:        NewBoardID(),
		name:      name,
		bubbles:   make(map[string]*entities.Bubble),
		cfg:       cfg,
		validator: validators.NewBubbleValidator(cfg),
		createdAt: now,
		updatedAt: now,
		events:    []events.DomainEvent{},
	}
}

// ID returns the board's unique identifier
func (b *Board) ID() BoardID {
	return b.id
}

// Name returns the board's name
func (b *Board) Name() string {
	return b.name
}

// Config returns the board's domain configuration
func (b *Board) Config() *config.DomainConfig {
	return b.cfg
}

// BubbleCount returns the number of bubbles on the board
func (b *Board) BubbleCount() int {
	return len(b.bubbles)
}

// HasBubble checks existence without an error
func (b *Board) HasBubble(id valueobjects.BubbleID) bool {
	_, ok := b.bubbles[id.String()]
	return ok
}

// Bubble retrieves a bubble by id
func (b *Board) Bubble(id valueobjects.BubbleID) (*entities.Bubble, error) {
	bubble, ok := b.bubbles[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("bubble").WithDetail("bubble_id", id.String())
	}
	return bubble, nil
}

// Bubbles returns all bubbles in insertion order
func (b *Board) Bubbles() []*entities.Bubble {
	out := make([]*entities.Bubble, 0, len(b.order))
	for _, id := range b.order {
		if bubble, ok := b.bubbles[id.String()]; ok {
			out = append(out, bubble)
		}
	}
	return out
}

// AddBubble inserts a new bubble built from the spec and returns its id
func (b *Board) AddBubble(spec BubbleSpec) (valueobjects.BubbleID, error) {
	if err := b.validator.ValidateSpec(spec.Kind, spec.Title, spec.Position); err != nil {
		return valueobjects.BubbleID{}, err
	}
	if len(b.bubbles) >= b.cfg.MaxBubblesPerBoard {
		return valueobjects.BubbleID{}, pkgerrors.NewValidationError("maximum bubbles reached").
			WithDetail("limit", b.cfg.MaxBubblesPerBoard)
	}

	// A declared parent must exist and must be able to head a
	// conversation edge; file bubbles never parent anything.
	if spec.ParentID != nil {
		parent, err := b.Bubble(*spec.ParentID)
		if err != nil {
			return valueobjects.BubbleID{}, err
		}
		if parent.Kind() == entities.KindFileAttachment {
			return valueobjects.BubbleID{}, pkgerrors.NewIllegalConnectionError(
				"a file bubble cannot parent a conversation bubble")
		}
	}

	bubble, err := b.buildBubble(spec)
	if err != nil {
		return valueobjects.BubbleID{}, err
	}

	if spec.ParentID != nil {
		if err := bubble.SetParent(*spec.ParentID); err != nil {
			return valueobjects.BubbleID{}, err
		}
	}

	b.bubbles[bubble.ID().String()] = bubble
	b.order = append(b.order, bubble.ID())
	b.touch()

	b.addEvent(events.NewBubbleAdded(b.id.String(), bubble.ID(), string(spec.Kind), spec.ParentID, b.updatedAt))
	return bubble.ID(), nil
}

func (b *Board) buildBubble(spec BubbleSpec) (*entities.Bubble, error) {
	switch spec.Kind {
	case entities.KindSystemPrompt:
		if len(spec.Messages) != 1 {
			return nil, pkgerrors.NewValidationError("a system bubble carries exactly one prompt message")
		}
		return entities.NewSystemBubbleWithConfig(spec.Title, spec.Position, spec.Messages[0], spec.ModelID, spec.Temperature, b.cfg)
	case entities.KindFileAttachment:
		return entities.NewFileBubble(spec.Position, spec.File)
	case entities.KindPrompt, entities.KindResponse:
		return entities.NewContentBubble(spec.Kind, spec.Title, spec.Position, valueobjects.NewThread(spec.Messages...))
	}
	return nil, pkgerrors.NewValidationError("unknown bubble kind").WithDetail("kind", string(spec.Kind))
}

// RemoveBubble deletes a bubble and repairs every relationship that
// pointed at it: children are orphaned (never cascade-deleted), file
// links are cleared on both sides, and the bubble's own file handle is
// released.
func (b *Board) RemoveBubble(id valueobjects.BubbleID) error {
	removed, err := b.Bubble(id)
	if err != nil {
		return err
	}

	var orphaned, detached []valueobjects.BubbleID
	for _, other := range b.Bubbles() {
		if other.ID().Equals(id) {
			continue
		}
		if p := other.ParentID(); p != nil && p.Equals(id) {
			other.ClearParent()
			orphaned = append(orphaned, other.ID())
		}
		if c := other.ConnectedToID(); c != nil && c.Equals(id) {
			other.DisconnectFile()
			detached = append(detached, other.ID())
		}
		if other.HasAttachedFile(id) {
			// The removed bubble was a file attached to this one
			_ = other.DetachFile(id)
		}
	}

	removed.ReleaseFile()

	delete(b.bubbles, id.String())
	for i, oid := range b.order {
		if oid.Equals(id) {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	b.touch()

	b.addEvent(events.NewBubbleRemoved(b.id.String(), id, orphaned, detached, b.updatedAt))
	return nil
}

// ContentPatch describes an update to a bubble's content. Nil fields
// are untouched; relationships are never affected.
type ContentPatch struct {
	Title         *string
	LeadText      *string
	AppendMessage *valueobjects.Message
	ModelID       *valueobjects.ModelID
	Temperature   *float64
}

// UpdateContent applies a content patch to a bubble. Preconditions are
// checked before anything is applied so a rejected patch leaves the
// bubble unchanged.
func (b *Board) UpdateContent(id valueobjects.BubbleID, patch ContentPatch) error {
	bubble, err := b.Bubble(id)
	if err != nil {
		return err
	}

	if patch.Title != nil {
		if err := b.validator.ValidateTitle(*patch.Title); err != nil {
			return err
		}
	}
	if patch.LeadText != nil {
		if bubble.Kind() == entities.KindFileAttachment {
			return pkgerrors.NewValidationError("file bubbles hold no messages")
		}
		if bubble.Thread().IsEmpty() {
			return pkgerrors.NewValidationError("bubble has no message to edit")
		}
		if err := b.validator.ValidateMessageText(*patch.LeadText); err != nil {
			return err
		}
	}
	if patch.AppendMessage != nil {
		if bubble.Kind() == entities.KindFileAttachment {
			return pkgerrors.NewValidationError("file bubbles hold no messages")
		}
		if bubble.Thread().Len() >= b.cfg.MaxMessagesPerBubble {
			return pkgerrors.NewValidationError("maximum messages reached").
				WithDetail("limit", b.cfg.MaxMessagesPerBubble)
		}
	}
	if (patch.ModelID != nil || patch.Temperature != nil) && bubble.Kind() != entities.KindSystemPrompt {
		return pkgerrors.NewValidationError("only system bubbles carry model configuration")
	}

	if patch.Title != nil {
		bubble.SetTitle(*patch.Title)
	}
	if patch.LeadText != nil {
		if err := bubble.ReplaceLeadText(*patch.LeadText); err != nil {
			return err
		}
	}
	if patch.AppendMessage != nil {
		if err := bubble.AppendMessageWithConfig(*patch.AppendMessage, b.cfg); err != nil {
			return err
		}
	}
	if patch.ModelID != nil {
		if err := bubble.SetModel(*patch.ModelID); err != nil {
			return err
		}
	}
	if patch.Temperature != nil {
		if err := bubble.SetTemperature(*patch.Temperature, b.cfg); err != nil {
			return err
		}
	}
	b.touch()

	b.addEvent(events.NewBubbleContentUpdated(b.id.String(), id, b.updatedAt))
	return nil
}

// MoveBubble commits a drag-stop position
func (b *Board) MoveBubble(id valueobjects.BubbleID, position valueobjects.Position) error {
	bubble, err := b.Bubble(id)
	if err != nil {
		return err
	}
	if err := b.validator.ValidatePosition(position); err != nil {
		return err
	}

	old := bubble.Position()
	if old.Equals(position) {
		return nil
	}
	bubble.MoveTo(position)
	b.touch()

	b.addEvent(events.NewBubbleMoved(b.id.String(), id, old, position, b.updatedAt))
	return nil
}

// ToggleCollapsed flips a bubble's display toggle
func (b *Board) ToggleCollapsed(id valueobjects.BubbleID) (bool, error) {
	bubble, err := b.Bubble(id)
	if err != nil {
		return false, err
	}

	collapsed := bubble.ToggleCollapsed()
	b.touch()

	b.addEvent(events.NewBubbleCollapseToggled(b.id.String(), id, collapsed, b.updatedAt))
	return collapsed, nil
}

// Connect creates the relationship behind a new edge. Legality is
// delegated to the connection policy; the forest guard then rejects
// any parent link that would close a cycle. A file source records the
// attachment on both sides; any other legal source becomes the
// target's parent.
func (b *Board) Connect(sourceID, targetID valueobjects.BubbleID) error {
	source, err := b.Bubble(sourceID)
	if err != nil {
		return err
	}
	target, err := b.Bubble(targetID)
	if err != nil {
		return err
	}

	if err := policy.Evaluate(source, target, b.policyEdges()); err != nil {
		return err
	}

	var edgeKind EdgeKind
	if source.Kind() == entities.KindFileAttachment {
		if err := source.ConnectFileTo(targetID); err != nil {
			return err
		}
		if err := target.AttachFileWithConfig(sourceID, b.cfg); err != nil {
			// Keep both sides consistent on failure
			source.DisconnectFile()
			return err
		}
		edgeKind = EdgeAttachment
	} else {
		if wouldCreateCycle(b.conversationEdges(), sourceID, targetID) {
			return pkgerrors.NewIllegalConnectionError("connection would create a cycle in the conversation tree")
		}
		if err := target.SetParent(sourceID); err != nil {
			return err
		}
		edgeKind = EdgeConversation
	}
	b.touch()

	b.addEvent(events.NewBubblesConnected(b.id.String(), sourceID, targetID, string(edgeKind), b.updatedAt))
	return nil
}

// CheckConnection reports whether Connect would succeed, without
// mutating anything. The returned error carries the refusal reason.
func (b *Board) CheckConnection(sourceID, targetID valueobjects.BubbleID) error {
	source, err := b.Bubble(sourceID)
	if err != nil {
		return err
	}
	target, err := b.Bubble(targetID)
	if err != nil {
		return err
	}
	if err := policy.Evaluate(source, target, b.policyEdges()); err != nil {
		return err
	}
	if source.Kind() != entities.KindFileAttachment &&
		wouldCreateCycle(b.conversationEdges(), sourceID, targetID) {
		return pkgerrors.NewIllegalConnectionError("connection would create a cycle in the conversation tree")
	}
	return nil
}

// Disconnect removes the relationship behind an existing edge. A
// second disconnect of the same pair reports NotFound and changes
// nothing.
func (b *Board) Disconnect(sourceID, targetID valueobjects.BubbleID) error {
	source, err := b.Bubble(sourceID)
	if err != nil {
		return err
	}
	target, err := b.Bubble(targetID)
	if err != nil {
		return err
	}

	switch {
	case source.Kind() == entities.KindFileAttachment &&
		source.ConnectedToID() != nil && source.ConnectedToID().Equals(targetID):
		source.DisconnectFile()
		_ = target.DetachFile(sourceID)

	case target.ParentID() != nil && target.ParentID().Equals(sourceID):
		target.ClearParent()

	default:
		return pkgerrors.NewNotFoundError("connection").
			WithDetail("source_id", sourceID.String()).
			WithDetail("target_id", targetID.String())
	}
	b.touch()

	b.addEvent(events.NewBubblesDisconnected(b.id.String(), sourceID, targetID, b.updatedAt))
	return nil
}

// Edges derives the full edge list from bubble relationships, in
// deterministic insertion order: conversation edges first, then
// attachment edges.
func (b *Board) Edges() []Edge {
	var out []Edge
	for _, bubble := range b.Bubbles() {
		if p := bubble.ParentID(); p != nil && b.HasBubble(*p) {
			out = append(out, Edge{
				ID:       edgeID(*p, bubble.ID()),
				SourceID: *p,
				TargetID: bubble.ID(),
				Kind:     EdgeConversation,
			})
		}
	}
	for _, bubble := range b.Bubbles() {
		if c := bubble.ConnectedToID(); c != nil && b.HasBubble(*c) {
			out = append(out, Edge{
				ID:       edgeID(bubble.ID(), *c),
				SourceID: bubble.ID(),
				TargetID: *c,
				Kind:     EdgeAttachment,
			})
		}
	}
	return out
}

// GetUncommittedEvents returns all uncommitted domain events
func (b *Board) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(b.events))
	copy(out, b.events)
	return out
}

// MarkEventsAsCommitted clears the uncommitted events
func (b *Board) MarkEventsAsCommitted() {
	b.events = []events.DomainEvent{}
}

// UpdatedAt returns when the board last changed
func (b *Board) UpdatedAt() time.Time {
	return b.updatedAt
}

func (b *Board) conversationEdges() []Edge {
	var out []Edge
	for _, e := range b.Edges() {
		if e.Kind == EdgeConversation {
			out = append(out, e)
		}
	}
	return out
}

func (b *Board) policyEdges() []policy.Edge {
	edges := b.Edges()
	out := make([]policy.Edge, 0, len(edges))
	for _, e := range edges {
		out = append(out, policy.Edge{SourceID: e.SourceID, TargetID: e.TargetID})
	}
	return out
}

func (b *Board) addEvent(event events.DomainEvent) {
	b.events = append(b.events, event)
}

func (b *Board) touch() {
	b.updatedAt = time.Now()
}

func edgeID(sourceID, targetID valueobjects.BubbleID) string {
	return "e-" + sourceID.String() + "-" + targetID.String()
}
