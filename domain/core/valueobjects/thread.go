package valueobjects

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"nodular/domain/config"
	pkgerrors "nodular/pkg/errors"
)

// Role identifies who authored a message
type Role string

const (
	RoleHuman Role = "human"
	RoleModel Role = "ai"
)

// Valid reports whether the role is a known author role
func (r Role) Valid() bool {
	return r == RoleHuman || r == RoleModel
}

// Message is a single utterance within a bubble's thread
type Message struct {
	id        string
	text      string
	author    Role
	timestamp time.Time
}

// NewMessage creates a message with validation using default configuration
func NewMessage(text string, author Role, timestamp time.Time) (Message, error) {
	return NewMessageWithConfig(text, author, timestamp, config.DefaultDomainConfig())
}

// NewMessageWithConfig creates a message with validation and configuration
func NewMessageWithConfig(text string, author Role, timestamp time.Time, cfg *config.DomainConfig) (Message, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, pkgerrors.NewValidationError("message text cannot be empty")
	}
	if len(text) > cfg.MaxMessageLength {
		return Message{}, pkgerrors.NewValidationError("message text exceeds maximum length").
			WithDetail("max_length", cfg.MaxMessageLength)
	}
	if !author.Valid() {
		return Message{}, pkgerrors.NewValidationError("unknown message author role").
			WithDetail("role", string(author))
	}
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	return Message{
		id:        uuid.New().String(),
		text:      text,
		author:    author,
		timestamp: timestamp,
	}, nil
}

// ReconstructMessage recreates a message from stored data with a preserved id
func ReconstructMessage(id, text string, author Role, timestamp time.Time) Message {
	return Message{id: id, text: text, author: author, timestamp: timestamp}
}

// ID returns the message identifier
func (m Message) ID() string {
	return m.id
}

// Text returns the message text
func (m Message) Text() string {
	return m.text
}

// Author returns the authoring role
func (m Message) Author() Role {
	return m.author
}

// Timestamp returns when the message was authored
func (m Message) Timestamp() time.Time {
	return m.timestamp
}

// WithText returns a copy of the message with replaced text
func (m Message) WithText(text string) Message {
	m.text = text
	return m
}

// Thread is the ordered sequence of messages held by a content bubble
type Thread struct {
	messages []Message
}

// NewThread creates a thread from an ordered message sequence
func NewThread(messages ...Message) Thread {
	out := make([]Message, len(messages))
	copy(out, messages)
	return Thread{messages: out}
}

// Messages returns a copy of the message sequence
func (t Thread) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages in the thread
func (t Thread) Len() int {
	return len(t.messages)
}

// IsEmpty reports whether the thread has no messages
func (t Thread) IsEmpty() bool {
	return len(t.messages) == 0
}

// LeadAuthor returns the role that authored the first message. An empty
// thread reports the human role: empty content bubbles are prompts the
// user has not typed into yet.
func (t Thread) LeadAuthor() Role {
	if len(t.messages) == 0 {
		return RoleHuman
	}
	return t.messages[0].author
}

// Lead returns the first message, if any
func (t Thread) Lead() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[0], true
}

// Append returns a thread with the message appended
func (t Thread) Append(m Message) Thread {
	out := make([]Message, 0, len(t.messages)+1)
	out = append(out, t.messages...)
	out = append(out, m)
	return Thread{messages: out}
}

// ReplaceLeadText returns a thread whose first message carries the given
// text; appending a fresh message when the thread is empty is the
// caller's concern.
func (t Thread) ReplaceLeadText(text string) Thread {
	if len(t.messages) == 0 {
		return t
	}
	out := t.Messages()
	out[0] = out[0].WithText(text)
	return Thread{messages: out}
}
