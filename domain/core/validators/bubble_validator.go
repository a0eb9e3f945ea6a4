package validators

import (
	"strings"

	"nodular/domain/config"
	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
	"nodular/pkg/errors"
)

// BubbleValidator validates bubble-related domain rules before they
// reach the aggregate
type BubbleValidator struct {
	titleMaxLength   int
	messageMaxLength int
	minTemperature   float64
	maxTemperature   float64
	minCoordinate    float64
	maxCoordinate    float64
}

// NewBubbleValidator creates a validator from the domain configuration
func NewBubbleValidator(cfg *config.DomainConfig) *BubbleValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &BubbleValidator{
		titleMaxLength:   cfg.MaxTitleLength,
		messageMaxLength: cfg.MaxMessageLength,
		minTemperature:   cfg.MinTemperature,
		maxTemperature:   cfg.MaxTemperature,
		minCoordinate:    cfg.MinCoordinate,
		maxCoordinate:    cfg.MaxCoordinate,
	}
}

// ValidateSpec validates a bubble spec as a whole
func (v *BubbleValidator) ValidateSpec(kind entities.BubbleKind, title string, position valueobjects.Position) error {
	if !kind.Valid() {
		return errors.NewValidationError("unknown bubble kind").WithDetail("kind", string(kind))
	}
	if err := v.ValidateTitle(title); err != nil {
		return err
	}
	return v.ValidatePosition(position)
}

// ValidateTitle validates a bubble title
func (v *BubbleValidator) ValidateTitle(title string) error {
	if len(strings.TrimSpace(title)) > v.titleMaxLength {
		return errors.NewValidationError("title too long").
			WithDetail("actual_length", len(title)).
			WithDetail("max_length", v.titleMaxLength)
	}
	return nil
}

// ValidateMessageText validates a message body
func (v *BubbleValidator) ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.NewValidationError("message text is required")
	}
	if len(text) > v.messageMaxLength {
		return errors.NewValidationError("message too long").
			WithDetail("actual_length", len(text)).
			WithDetail("max_length", v.messageMaxLength)
	}
	return nil
}

// ValidatePosition validates canvas coordinates
func (v *BubbleValidator) ValidatePosition(position valueobjects.Position) error {
	if position.X() < v.minCoordinate || position.X() > v.maxCoordinate {
		return errors.NewValidationError("x coordinate outside canvas bounds").
			WithDetail("x", position.X())
	}
	if position.Y() < v.minCoordinate || position.Y() > v.maxCoordinate {
		return errors.NewValidationError("y coordinate outside canvas bounds").
			WithDetail("y", position.Y())
	}
	return nil
}

// ValidateTemperature validates a sampling temperature
func (v *BubbleValidator) ValidateTemperature(t float64) error {
	if t < v.minTemperature || t > v.maxTemperature {
		return errors.NewValidationError("temperature out of range").
			WithDetail("temperature", t).
			WithDetail("min", v.minTemperature).
			WithDetail("max", v.maxTemperature)
	}
	return nil
}
