package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct{ Value string }

func (pingCommand) Key() string { return "test.ping" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.other" }

func TestDispatchRoutesToRegisteredHandler(t *testing.T) {
	bus := NewInMemoryBus()
	err := RegisterHandler[pingCommand, string](bus, pingCommand{}.Key(),
		HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
			return "pong:" + cmd.Value, nil
		}))
	require.NoError(t, err)

	res, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{Value: "a"})
	require.NoError(t, err)
	assert.Equal(t, "pong:a", res)
}

func TestDispatchUnregisteredCommand(t *testing.T) {
	bus := NewInMemoryBus()
	_, err := bus.Dispatch(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestDuplicateRegistrationKeepsFirstHandler(t *testing.T) {
	bus := NewInMemoryBus()
	first := HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
		return "first", nil
	})
	second := HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
		return "second", nil
	})
	require.NoError(t, RegisterHandler[pingCommand, string](bus, pingCommand{}.Key(), first))

	err := RegisterHandler[pingCommand, string](bus, pingCommand{}.Key(), second)
	assert.ErrorIs(t, err, ErrDuplicateHandler)

	res, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{})
	require.NoError(t, err)
	assert.Equal(t, "first", res)
}

func TestDispatchNoFanOut(t *testing.T) {
	bus := NewInMemoryBus()
	var pingCalls, otherCalls int
	require.NoError(t, RegisterHandler[pingCommand, string](bus, pingCommand{}.Key(),
		HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
			pingCalls++
			return "", nil
		})))
	require.NoError(t, RegisterHandler[otherCommand, string](bus, otherCommand{}.Key(),
		HandlerFunc[otherCommand, string](func(ctx context.Context, cmd otherCommand) (string, error) {
			otherCalls++
			return "", nil
		})))

	_, err := bus.Dispatch(context.Background(), pingCommand{})
	require.NoError(t, err)
	assert.Equal(t, 1, pingCalls)
	assert.Equal(t, 0, otherCalls)
}

func TestDispatchPropagatesHandlerErrorUnchanged(t *testing.T) {
	bus := NewInMemoryBus()
	sentinel := errors.New("storage unavailable")
	require.NoError(t, RegisterHandler[pingCommand, string](bus, pingCommand{}.Key(),
		HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
			return "", sentinel
		})))

	_, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{})
	assert.ErrorIs(t, err, sentinel)
}

func TestDispatchResultTypeMismatch(t *testing.T) {
	bus := NewInMemoryBus()
	require.NoError(t, RegisterHandler[pingCommand, string](bus, pingCommand{}.Key(),
		HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
			return "pong", nil
		})))

	_, err := Dispatch[pingCommand, int](context.Background(), bus, pingCommand{})
	assert.ErrorIs(t, err, ErrResultType)
}

func TestDispatchNilBus(t *testing.T) {
	_, err := Dispatch[pingCommand, string](context.Background(), nil, pingCommand{})
	assert.ErrorIs(t, err, ErrNilBus)
}

func TestDispatchPassesContextThrough(t *testing.T) {
	bus := NewInMemoryBus()
	type ctxKey struct{}
	require.NoError(t, RegisterHandler[pingCommand, string](bus, pingCommand{}.Key(),
		HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
			v, _ := ctx.Value(ctxKey{}).(string)
			return v, ctx.Err()
		})))

	ctx := context.WithValue(context.Background(), ctxKey{}, "caller")
	res, err := Dispatch[pingCommand, string](ctx, bus, pingCommand{})
	require.NoError(t, err)
	assert.Equal(t, "caller", res)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Dispatch[pingCommand, string](cancelled, bus, pingCommand{})
	assert.ErrorIs(t, err, context.Canceled)
}
