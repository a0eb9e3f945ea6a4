package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// BubbleID is a value object representing a unique bubble identifier
// Value objects are immutable and have no identity beyond their value
type BubbleID struct {
	value string
}

// NewBubbleID creates a new random BubbleID
func NewBubbleID() BubbleID {
	return BubbleID{value: uuid.New().String()}
}

// NewBubbleIDFromString creates a BubbleID from an existing string
func NewBubbleIDFromString(id string) (BubbleID, error) {
	if id == "" {
		return BubbleID{}, errors.New("bubble ID cannot be empty")
	}
	return BubbleID{value: id}, nil
}

// String returns the string representation of the BubbleID
func (id BubbleID) String() string {
	return id.value
}

// Equals checks if two BubbleIDs are equal
func (id BubbleID) Equals(other BubbleID) bool {
	return id.value == other.value
}

// IsZero checks if the BubbleID is the zero value
func (id BubbleID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id BubbleID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *BubbleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("BubbleID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
