package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
	pkgerrors "nodular/pkg/errors"
)

func newMessage(t *testing.T, text string, author valueobjects.Role) valueobjects.Message {
	t.Helper()
	msg, err := valueobjects.NewMessage(text, author, time.Now())
	require.NoError(t, err)
	return msg
}

func newBubble(t *testing.T, kind entities.BubbleKind, author valueobjects.Role) *entities.Bubble {
	t.Helper()
	pos := valueobjects.NewPosition(0, 0)

	switch kind {
	case entities.KindSystemPrompt:
		b, err := entities.NewSystemBubble("sys", pos, newMessage(t, "be brief", valueobjects.RoleHuman), valueobjects.DefaultModelID, 0.7)
		require.NoError(t, err)
		return b
	case entities.KindFileAttachment:
		ref, err := valueobjects.NewFileRef("notes.txt", "text/plain", "blob:notes")
		require.NoError(t, err)
		b, err := entities.NewFileBubble(pos, ref)
		require.NoError(t, err)
		return b
	default:
		b, err := entities.NewContentBubble(kind, "", pos, valueobjects.NewThread(newMessage(t, "hello", author)))
		require.NoError(t, err)
		return b
	}
}

func emptyPrompt(t *testing.T) *entities.Bubble {
	t.Helper()
	b, err := entities.NewContentBubble(entities.KindPrompt, "", valueobjects.NewPosition(0, 0), valueobjects.NewThread())
	require.NoError(t, err)
	return b
}

func TestEvaluateRuleMatrix(t *testing.T) {
	tests := []struct {
		name   string
		source func(*testing.T) *entities.Bubble
		target func(*testing.T) *entities.Bubble
		legal  bool
	}{
		{
			name:   "file to human prompt",
			source: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindFileAttachment, "") },
			target: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindPrompt, valueobjects.RoleHuman) },
			legal:  true,
		},
		{
			name:   "file to empty prompt counts as human",
			source: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindFileAttachment, "") },
			target: emptyPrompt,
			legal:  true,
		},
		{
			name:   "file to response",
			source: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindFileAttachment, "") },
			target: func(t *testing.T) *entities.Bubble {
				return newBubble(t, entities.KindResponse, valueobjects.RoleModel)
			},
			legal: false,
		},
		{
			name:   "file to system",
			source: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindFileAttachment, "") },
			target: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindSystemPrompt, "") },
			legal:  false,
		},
		{
			name:   "system to human prompt",
			source: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindSystemPrompt, "") },
			target: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindPrompt, valueobjects.RoleHuman) },
			legal:  true,
		},
		{
			name:   "system to response",
			source: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindSystemPrompt, "") },
			target: func(t *testing.T) *entities.Bubble {
				return newBubble(t, entities.KindResponse, valueobjects.RoleModel)
			},
			legal: false,
		},
		{
			name:   "system to file",
			source: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindSystemPrompt, "") },
			target: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindFileAttachment, "") },
			legal:  false,
		},
		{
			name:   "human prompt to response",
			source: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindPrompt, valueobjects.RoleHuman) },
			target: func(t *testing.T) *entities.Bubble {
				return newBubble(t, entities.KindResponse, valueobjects.RoleModel)
			},
			legal: true,
		},
		{
			name:   "model-authored prompt to response",
			source: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindPrompt, valueobjects.RoleModel) },
			target: func(t *testing.T) *entities.Bubble {
				return newBubble(t, entities.KindResponse, valueobjects.RoleModel)
			},
			legal: false,
		},
		{
			name: "response to human prompt",
			source: func(t *testing.T) *entities.Bubble {
				return newBubble(t, entities.KindResponse, valueobjects.RoleModel)
			},
			target: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindPrompt, valueobjects.RoleHuman) },
			legal:  true,
		},
		{
			name: "response to response",
			source: func(t *testing.T) *entities.Bubble {
				return newBubble(t, entities.KindResponse, valueobjects.RoleModel)
			},
			target: func(t *testing.T) *entities.Bubble {
				return newBubble(t, entities.KindResponse, valueobjects.RoleModel)
			},
			legal: false,
		},
		{
			name:   "prompt to prompt",
			source: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindPrompt, valueobjects.RoleHuman) },
			target: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindPrompt, valueobjects.RoleHuman) },
			legal:  false,
		},
		{
			name:   "prompt to file",
			source: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindPrompt, valueobjects.RoleHuman) },
			target: func(t *testing.T) *entities.Bubble { return newBubble(t, entities.KindFileAttachment, "") },
			legal:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := tt.source(t)
			target := tt.target(t)

			err := Evaluate(source, target, nil)
			if tt.legal {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.True(t, pkgerrors.IsIllegalConnection(err), "expected illegal connection, got %v", err)
			}
			assert.Equal(t, tt.legal, IsLegal(source, target, nil))
		})
	}
}

func TestEvaluateSelfLoop(t *testing.T) {
	b := newBubble(t, entities.KindPrompt, valueobjects.RoleHuman)

	err := Evaluate(b, b, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsIllegalConnection(err))
}

func TestEvaluateDuplicateEitherDirection(t *testing.T) {
	prompt := newBubble(t, entities.KindPrompt, valueobjects.RoleHuman)
	response := newBubble(t, entities.KindResponse, valueobjects.RoleModel)

	existing := []Edge{{SourceID: prompt.ID(), TargetID: response.ID()}}

	err := Evaluate(prompt, response, existing)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDuplicateConnection(err))

	// Reversed pair is just as much a duplicate
	err = Evaluate(response, prompt, existing)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDuplicateConnection(err))
}

func TestEvaluateNilBubbles(t *testing.T) {
	prompt := newBubble(t, entities.KindPrompt, valueobjects.RoleHuman)

	assert.Error(t, Evaluate(nil, prompt, nil))
	assert.Error(t, Evaluate(prompt, nil, nil))
}
