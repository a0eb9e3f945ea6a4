package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	pkgerrors "nodular/pkg/errors"
)

type stubCommand struct {
	validateErr error
}

func (c *stubCommand) Validate() error {
	return c.validateErr
}

func TestSendDispatchesToRegisteredHandler(t *testing.T) {
	b := NewCommandBus()
	handled := false
	require.NoError(t, b.Register(&stubCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		handled = true
		return nil
	})))

	require.NoError(t, b.Send(context.Background(), &stubCommand{}))
	assert.True(t, handled)
}

func TestSendRejectsInvalidCommand(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(&stubCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		t.Fatal("handler must not run for an invalid command")
		return nil
	})))

	err := b.Send(context.Background(), &stubCommand{validateErr: errors.New("bad payload")})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestRegisterRejectsDuplicateType(t *testing.T) {
	b := NewCommandBus()
	handler := CommandHandlerFunc(func(ctx context.Context, cmd Command) error { return nil })

	require.NoError(t, b.Register(&stubCommand{}, handler))
	err := b.Register(&stubCommand{}, handler)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "*bus.stubCommand")
}

func TestLoggingMiddlewareRecordsConcreteType(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := NewCommandBus()
	b.Use(LoggingMiddleware(zap.New(core)))
	require.NoError(t, b.Register(&stubCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		return nil
	})))

	require.NoError(t, b.Send(context.Background(), &stubCommand{}))

	entries := logs.FilterMessage("executing command").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "*bus.stubCommand", entries[0].ContextMap()["type"])
}
