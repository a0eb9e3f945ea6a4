package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Board constraints
	MaxBubblesPerBoard      int
	MaxAttachmentsPerBubble int
	MaxMessagesPerBubble    int

	// Content constraints
	MaxTitleLength   int
	MaxMessageLength int

	// Model parameter bounds; temperatures outside the range are
	// clamped, not rejected
	MinTemperature float64
	MaxTemperature float64

	// Canvas bounds for bubble positions
	MinCoordinate float64
	MaxCoordinate float64

	// Child placement offsets, in canvas units
	ChildVerticalGap      float64
	ComposerHorizontalGap float64
	FileDropCascade       float64
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxBubblesPerBoard:      10000,
		MaxAttachmentsPerBubble: 50,
		MaxMessagesPerBubble:    500,

		MaxTitleLength:   200,
		MaxMessageLength: 50000,

		MinTemperature: 0.0,
		MaxTemperature: 2.0,

		MinCoordinate: -100000,
		MaxCoordinate: 100000,

		ChildVerticalGap:      100,
		ComposerHorizontalGap: 400,
		FileDropCascade:       20,
	}
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	cfg := DefaultDomainConfig()

	// More permissive for local experimentation
	cfg.MaxBubblesPerBoard = 100000
	cfg.MaxAttachmentsPerBubble = 500

	return cfg
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// ClampTemperature clamps a model temperature into the configured range
func (c *DomainConfig) ClampTemperature(t float64) float64 {
	if t < c.MinTemperature {
		return c.MinTemperature
	}
	if t > c.MaxTemperature {
		return c.MaxTemperature
	}
	return t
}
