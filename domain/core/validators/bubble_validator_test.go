package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"nodular/domain/config"
	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
	pkgerrors "nodular/pkg/errors"
)

func TestValidateSpec(t *testing.T) {
	v := NewBubbleValidator(nil)

	err := v.ValidateSpec(entities.KindPrompt, "a question", valueobjects.NewPosition(100, 100))
	assert.NoError(t, err)

	err = v.ValidateSpec(entities.BubbleKind("sticky"), "", valueobjects.NewPosition(0, 0))
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestValidateTitleLength(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	v := NewBubbleValidator(cfg)

	assert.NoError(t, v.ValidateTitle(""))
	assert.NoError(t, v.ValidateTitle(strings.Repeat("a", cfg.MaxTitleLength)))
	assert.True(t, pkgerrors.IsValidation(v.ValidateTitle(strings.Repeat("a", cfg.MaxTitleLength+1))))
}

func TestValidateMessageText(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	v := NewBubbleValidator(cfg)

	assert.NoError(t, v.ValidateMessageText("hello"))
	assert.True(t, pkgerrors.IsValidation(v.ValidateMessageText("   ")))
	assert.True(t, pkgerrors.IsValidation(v.ValidateMessageText(strings.Repeat("a", cfg.MaxMessageLength+1))))
}

func TestValidatePositionBounds(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	v := NewBubbleValidator(cfg)

	assert.NoError(t, v.ValidatePosition(valueobjects.NewPosition(cfg.MinCoordinate, cfg.MaxCoordinate)))
	assert.True(t, pkgerrors.IsValidation(v.ValidatePosition(valueobjects.NewPosition(cfg.MaxCoordinate+1, 0))))
	assert.True(t, pkgerrors.IsValidation(v.ValidatePosition(valueobjects.NewPosition(0, cfg.MinCoordinate-1))))
}

func TestValidateTemperature(t *testing.T) {
	v := NewBubbleValidator(nil)

	assert.NoError(t, v.ValidateTemperature(0.7))
	assert.True(t, pkgerrors.IsValidation(v.ValidateTemperature(2.5)))
	assert.True(t, pkgerrors.IsValidation(v.ValidateTemperature(-0.1)))
}
