package entities

import (
	"time"

	"nodular/domain/config"
	"nodular/domain/core/valueobjects"
	pkgerrors "nodular/pkg/errors"
)

// BubbleKind is the closed set of bubble variants on the canvas.
// Call sites switch exhaustively on it; there is no catch-all kind.
type BubbleKind string

const (
	KindSystemPrompt   BubbleKind = "system"
	KindPrompt         BubbleKind = "prompt"
	KindResponse       BubbleKind = "response"
	KindFileAttachment BubbleKind = "file"
)

// Valid reports whether the kind is a known variant
func (k BubbleKind) Valid() bool {
	switch k {
	case KindSystemPrompt, KindPrompt, KindResponse, KindFileAttachment:
		return true
	}
	return false
}

// IsContent reports whether the kind carries a message thread
func (k BubbleKind) IsContent() bool {
	switch k {
	case KindPrompt, KindResponse:
		return true
	case KindSystemPrompt, KindFileAttachment:
		return false
	}
	return false
}

// AuthorRole returns the role that authors this kind's lead message
func (k BubbleKind) AuthorRole() valueobjects.Role {
	if k == KindResponse {
		return valueobjects.RoleModel
	}
	return valueobjects.RoleHuman
}

// Bubble is the unit of content on the canvas: a system prompt, a human
// prompt, a model response, or a file attachment. This is a rich domain
// model with encapsulated business logic.
type Bubble struct {
	id        valueobjects.BubbleID
	kind      BubbleKind
	title     string
	position  valueobjects.Position
	thread    valueobjects.Thread
	file      *valueobjects.FileRef
	collapsed bool

	// Conversation-tree back reference: the bubble this one was created
	// from, or continues.
	parentID *valueobjects.BubbleID

	// File-attachment links. attachedFileIDs is the content-bubble side
	// (a set, kept in attach order); connectedToID is the file side and
	// is singular.
	attachedFileIDs []valueobjects.BubbleID
	connectedToID   *valueobjects.BubbleID

	// System-only model configuration
	modelID     valueobjects.ModelID
	temperature float64

	createdAt time.Time
	updatedAt time.Time
}

// NewContentBubble creates a prompt or response bubble
func NewContentBubble(kind BubbleKind, title string, position valueobjects.Position, thread valueobjects.Thread) (*Bubble, error) {
	if !kind.IsContent() {
		return nil, pkgerrors.NewValidationError("content bubble kind must be prompt or response").
			WithDetail("kind", string(kind))
	}

	now := time.Now()
	return &Bubble{
		id:        valueobjects.NewBubbleID(),
		kind:      kind,
		title:     title,
		position:  position,
		thread:    thread,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// NewSystemBubble creates a system-prompt bubble. System bubbles carry
// model configuration and never have a parent.
func NewSystemBubble(title string, position valueobjects.Position, prompt valueobjects.Message, modelID valueobjects.ModelID, temperature float64) (*Bubble, error) {
	return NewSystemBubbleWithConfig(title, position, prompt, modelID, temperature, config.DefaultDomainConfig())
}

// NewSystemBubbleWithConfig creates a system-prompt bubble with configuration
func NewSystemBubbleWithConfig(title string, position valueobjects.Position, prompt valueobjects.Message, modelID valueobjects.ModelID, temperature float64, cfg *config.DomainConfig) (*Bubble, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if modelID == "" {
		modelID = valueobjects.DefaultModelID
	}

	now := time.Now()
	return &Bubble{
		id:          valueobjects.NewBubbleID(),
		kind:        KindSystemPrompt,
		title:       title,
		position:    position,
		thread:      valueobjects.NewThread(prompt),
		modelID:     modelID,
		temperature: cfg.ClampTemperature(temperature),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// NewFileBubble creates a file-attachment bubble. File bubbles hold no
// messages and start collapsed, matching how drops land on the canvas.
func NewFileBubble(position valueobjects.Position, file *valueobjects.FileRef) (*Bubble, error) {
	if file == nil {
		return nil, pkgerrors.NewValidationError("file bubble requires a file reference")
	}

	now := time.Now()
	return &Bubble{
		id:        valueobjects.NewBubbleID(),
		kind:      KindFileAttachment,
		title:     file.Name(),
		position:  position,
		file:      file,
		collapsed: true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBubble recreates a bubble with a preserved identity, for
// board seeding and tests
func ReconstructBubble(id valueobjects.BubbleID, kind BubbleKind, title string, position valueobjects.Position, thread valueobjects.Thread) (*Bubble, error) {
	if !kind.Valid() {
		return nil, pkgerrors.NewValidationError("unknown bubble kind").WithDetail("kind", string(kind))
	}

	now := time.Now()
	return &Bubble{
		id:        id,
		kind:      kind,
		title:     title,
		position:  position,
		thread:    thread,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ID returns the bubble's unique identifier
func (b *Bubble) ID() valueobjects.BubbleID {
	return b.id
}

// Kind returns the bubble variant
func (b *Bubble) Kind() BubbleKind {
	return b.kind
}

// Title returns the bubble title
func (b *Bubble) Title() string {
	return b.title
}

// Position returns the bubble's canvas position
func (b *Bubble) Position() valueobjects.Position {
	return b.position
}

// Thread returns the ordered message sequence
func (b *Bubble) Thread() valueobjects.Thread {
	return b.thread
}

// File returns the file reference for file-attachment bubbles, nil otherwise
func (b *Bubble) File() *valueobjects.FileRef {
	return b.file
}

// Collapsed returns the display toggle; it never affects topology
func (b *Bubble) Collapsed() bool {
	return b.collapsed
}

// ParentID returns the conversation-tree back reference, nil at a root
func (b *Bubble) ParentID() *valueobjects.BubbleID {
	return b.parentID
}

// ConnectedToID returns the prompt a file bubble feeds, nil when unattached
func (b *Bubble) ConnectedToID() *valueobjects.BubbleID {
	return b.connectedToID
}

// AttachedFileIDs returns the file bubbles attached as context, in
// attach order
func (b *Bubble) AttachedFileIDs() []valueobjects.BubbleID {
	out := make([]valueobjects.BubbleID, len(b.attachedFileIDs))
	copy(out, b.attachedFileIDs)
	return out
}

// HasAttachedFile reports whether the given file bubble is attached
func (b *Bubble) HasAttachedFile(fileID valueobjects.BubbleID) bool {
	for _, id := range b.attachedFileIDs {
		if id.Equals(fileID) {
			return true
		}
	}
	return false
}

// ModelID returns the system bubble's model selection
func (b *Bubble) ModelID() valueobjects.ModelID {
	return b.modelID
}

// Temperature returns the system bubble's sampling temperature
func (b *Bubble) Temperature() float64 {
	return b.temperature
}

// CreatedAt returns when the bubble was created
func (b *Bubble) CreatedAt() time.Time {
	return b.createdAt
}

// UpdatedAt returns when the bubble last changed
func (b *Bubble) UpdatedAt() time.Time {
	return b.updatedAt
}

// LeadAuthor returns the role that authored the bubble's first
// message. An empty response bubble reports the model role; any other
// empty bubble reports human, since it is a prompt the user has not
// typed into yet.
func (b *Bubble) LeadAuthor() valueobjects.Role {
	if b.thread.IsEmpty() && b.kind == KindResponse {
		return valueobjects.RoleModel
	}
	return b.thread.LeadAuthor()
}

// MoveTo sets the bubble position; called once per drag, on release
func (b *Bubble) MoveTo(position valueobjects.Position) {
	if position.Equals(b.position) {
		return
	}
	b.position = position
	b.updatedAt = time.Now()
}

// ToggleCollapsed flips the display toggle
func (b *Bubble) ToggleCollapsed() bool {
	b.collapsed = !b.collapsed
	b.updatedAt = time.Now()
	return b.collapsed
}

// SetParent records the conversation-tree back reference. System
// bubbles are roots and reject a parent; file bubbles use the
// attachment link instead.
func (b *Bubble) SetParent(parentID valueobjects.BubbleID) error {
	switch b.kind {
	case KindSystemPrompt:
		return pkgerrors.NewIllegalConnectionError("a system prompt bubble cannot have a parent")
	case KindFileAttachment:
		return pkgerrors.NewIllegalConnectionError("a file bubble links via attachment, not parent")
	case KindPrompt, KindResponse:
	}

	b.parentID = &parentID
	b.updatedAt = time.Now()
	return nil
}

// ClearParent orphans the bubble in the conversation tree
func (b *Bubble) ClearParent() {
	if b.parentID == nil {
		return
	}
	b.parentID = nil
	b.updatedAt = time.Now()
}

// AttachFile records a file bubble as context on a content bubble
func (b *Bubble) AttachFile(fileID valueobjects.BubbleID) error {
	return b.AttachFileWithConfig(fileID, config.DefaultDomainConfig())
}

// AttachFileWithConfig records a file attachment with configuration
func (b *Bubble) AttachFileWithConfig(fileID valueobjects.BubbleID, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if !b.kind.IsContent() {
		return pkgerrors.NewIllegalConnectionError("only content bubbles accept file attachments")
	}
	if b.HasAttachedFile(fileID) {
		return pkgerrors.NewDuplicateConnectionError(fileID.String(), b.id.String())
	}
	if len(b.attachedFileIDs) >= cfg.MaxAttachmentsPerBubble {
		return pkgerrors.NewValidationError("maximum attachments reached").
			WithDetail("limit", cfg.MaxAttachmentsPerBubble)
	}

	b.attachedFileIDs = append(b.attachedFileIDs, fileID)
	b.updatedAt = time.Now()
	return nil
}

// DetachFile removes a file attachment reference
func (b *Bubble) DetachFile(fileID valueobjects.BubbleID) error {
	for i, id := range b.attachedFileIDs {
		if id.Equals(fileID) {
			b.attachedFileIDs = append(b.attachedFileIDs[:i], b.attachedFileIDs[i+1:]...)
			b.updatedAt = time.Now()
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("attachment")
}

// ConnectFileTo records the single prompt this file bubble feeds
func (b *Bubble) ConnectFileTo(targetID valueobjects.BubbleID) error {
	if b.kind != KindFileAttachment {
		return pkgerrors.NewIllegalConnectionError("only file bubbles carry an attachment target")
	}
	if b.connectedToID != nil {
		return pkgerrors.NewIllegalConnectionError("file bubble is already attached").
			WithDetail("connected_to", b.connectedToID.String())
	}

	b.connectedToID = &targetID
	b.updatedAt = time.Now()
	return nil
}

// DisconnectFile clears the attachment target
func (b *Bubble) DisconnectFile() {
	if b.connectedToID == nil {
		return
	}
	b.connectedToID = nil
	b.updatedAt = time.Now()
}

// AppendMessage adds a message to the thread
func (b *Bubble) AppendMessage(m valueobjects.Message) error {
	return b.AppendMessageWithConfig(m, config.DefaultDomainConfig())
}

// AppendMessageWithConfig adds a message to the thread with configuration
func (b *Bubble) AppendMessageWithConfig(m valueobjects.Message, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if b.kind == KindFileAttachment {
		return pkgerrors.NewValidationError("file bubbles hold no messages")
	}
	if b.thread.Len() >= cfg.MaxMessagesPerBubble {
		return pkgerrors.NewValidationError("maximum messages reached").
			WithDetail("limit", cfg.MaxMessagesPerBubble)
	}

	b.thread = b.thread.Append(m)
	b.updatedAt = time.Now()
	return nil
}

// SetTitle replaces the bubble title
func (b *Bubble) SetTitle(title string) {
	b.title = title
	b.updatedAt = time.Now()
}

// ReplaceLeadText replaces the first message's text, the edit surface
// the composer exposes for existing bubbles
func (b *Bubble) ReplaceLeadText(text string) error {
	if b.kind == KindFileAttachment {
		return pkgerrors.NewValidationError("file bubbles hold no messages")
	}
	if b.thread.IsEmpty() {
		return pkgerrors.NewValidationError("bubble has no message to edit")
	}

	b.thread = b.thread.ReplaceLeadText(text)
	b.updatedAt = time.Now()
	return nil
}

// SetModel updates a system bubble's model selection
func (b *Bubble) SetModel(modelID valueobjects.ModelID) error {
	if b.kind != KindSystemPrompt {
		return pkgerrors.NewValidationError("only system bubbles carry model configuration")
	}
	b.modelID = modelID
	b.updatedAt = time.Now()
	return nil
}

// SetTemperature updates a system bubble's sampling temperature,
// clamped to the configured range rather than rejected
func (b *Bubble) SetTemperature(t float64, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if b.kind != KindSystemPrompt {
		return pkgerrors.NewValidationError("only system bubbles carry model configuration")
	}
	b.temperature = cfg.ClampTemperature(t)
	b.updatedAt = time.Now()
	return nil
}

// ReleaseFile revokes the file content handle on removal
func (b *Bubble) ReleaseFile() {
	if b.file != nil {
		b.file.Release()
	}
}
