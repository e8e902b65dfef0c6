package middleware

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortify/internal/app/commands"
	"shortify/internal/app/uow"
	domainreports "shortify/internal/domain/reports"
	domainshorts "shortify/internal/domain/shorts"
	domaintags "shortify/internal/domain/tags"
)

type publishCmd struct {
	Caption string `validate:"required"`
	IdemKey string
}

func (publishCmd) Key() string { return "test.publish" }

func (c publishCmd) IdempotencyKey() string { return c.IdemKey }

func (publishCmd) ResultPrototype() any { return new(string) }

type memStore struct {
	items map[string]IdempotencyRecord
}

func newMemStore() *memStore {
	return &memStore{items: map[string]IdempotencyRecord{}}
}

func (s *memStore) Get(_ context.Context, key string) (IdempotencyRecord, bool, error) {
	rec, ok := s.items[key]
	return rec, ok, nil
}

func (s *memStore) Save(_ context.Context, rec IdempotencyRecord) error {
	s.items[rec.Key] = rec
	return nil
}

type countingUnit struct {
	commits   int
	rollbacks int
}

func (u *countingUnit) Shorts() domainshorts.Repository   { return nil }
func (u *countingUnit) Tags() domaintags.Repository       { return nil }
func (u *countingUnit) Reports() domainreports.Repository { return nil }
func (u *countingUnit) Commit(context.Context) error      { u.commits++; return nil }
func (u *countingUnit) Rollback(context.Context) error    { u.rollbacks++; return nil }

type countingFactory struct {
	unit *countingUnit
}

func (f countingFactory) Begin(context.Context, uow.TxOptions) (uow.UnitOfWork, error) {
	return f.unit, nil
}

func newBus(t *testing.T, handler func(ctx context.Context, cmd publishCmd) (string, error)) *commands.InMemoryBus {
	t.Helper()
	bus := commands.NewInMemoryBus()
	require.NoError(t, commands.RegisterHandler(bus, publishCmd{}.Key(), commands.HandlerFunc[publishCmd, string](handler)))
	return bus
}

func TestValidationRejectsInvalidCommand(t *testing.T) {
	calls := 0
	bus := newBus(t, func(ctx context.Context, cmd publishCmd) (string, error) {
		calls++
		return "done", nil
	})
	chained := ChainCommands(bus, Validation(NewStructValidator()))

	_, err := chained.Dispatch(context.Background(), publishCmd{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, calls)

	result, err := commands.Dispatch[publishCmd, string](context.Background(), chained, publishCmd{Caption: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "done", result)
}

func TestIdempotencyReplaysStoredResult(t *testing.T) {
	calls := 0
	bus := newBus(t, func(ctx context.Context, cmd publishCmd) (string, error) {
		calls++
		return "done", nil
	})
	chained := ChainCommands(bus, Idempotency(newMemStore(), nil))

	cmd := publishCmd{Caption: "ok", IdemKey: "req-1"}
	first, err := commands.Dispatch[publishCmd, string](context.Background(), chained, cmd)
	require.NoError(t, err)

	second, err := commands.Dispatch[publishCmd, string](context.Background(), chained, cmd)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyDoesNotCacheFailures(t *testing.T) {
	sentinel := errors.New("caption rejected")
	calls := 0
	bus := newBus(t, func(ctx context.Context, cmd publishCmd) (string, error) {
		calls++
		return "", fmt.Errorf("publish: %w", sentinel)
	})
	chained := ChainCommands(bus, Idempotency(newMemStore(), nil))

	cmd := publishCmd{Caption: "ok", IdemKey: "req-1"}
	_, err := chained.Dispatch(context.Background(), cmd)
	require.ErrorIs(t, err, sentinel)

	// a retried failure re-executes, keeping the handler's error value
	// intact for errors.Is checks downstream
	_, err = chained.Dispatch(context.Background(), cmd)
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestIdempotencySkipsCommandsWithoutKey(t *testing.T) {
	calls := 0
	bus := newBus(t, func(ctx context.Context, cmd publishCmd) (string, error) {
		calls++
		return "done", nil
	})
	chained := ChainCommands(bus, Idempotency(newMemStore(), nil))

	cmd := publishCmd{Caption: "ok"}
	_, err := chained.Dispatch(context.Background(), cmd)
	require.NoError(t, err)
	_, err = chained.Dispatch(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTransactionCommitsOnSuccess(t *testing.T) {
	unit := &countingUnit{}
	bus := newBus(t, func(ctx context.Context, cmd publishCmd) (string, error) {
		fromCtx, ok := uow.FromContext(ctx)
		assert.True(t, ok)
		assert.Same(t, uow.UnitOfWork(unit), fromCtx)
		return "done", nil
	})
	chained := ChainCommands(bus, Transaction(countingFactory{unit: unit}, nil))

	_, err := chained.Dispatch(context.Background(), publishCmd{Caption: "ok"})
	require.NoError(t, err)
	assert.Equal(t, 1, unit.commits)
	assert.Zero(t, unit.rollbacks)
}

func TestTransactionRollsBackOnFailure(t *testing.T) {
	unit := &countingUnit{}
	bus := newBus(t, func(ctx context.Context, cmd publishCmd) (string, error) {
		return "", errors.New("boom")
	})
	chained := ChainCommands(bus, Transaction(countingFactory{unit: unit}, nil))

	_, err := chained.Dispatch(context.Background(), publishCmd{Caption: "ok"})
	require.Error(t, err)
	assert.Zero(t, unit.commits)
	assert.Equal(t, 1, unit.rollbacks)
}

func TestChainOrderOutermostFirst(t *testing.T) {
	var order []string
	tap := func(name string) CommandMiddleware {
		return func(next commands.Bus) commands.Bus {
			nextFn := wrapCommand(next)
			return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
				order = append(order, name)
				return nextFn(ctx, cmd)
			})
		}
	}
	bus := newBus(t, func(ctx context.Context, cmd publishCmd) (string, error) {
		return "done", nil
	})
	chained := ChainCommands(bus, tap("outer"), tap("inner"))

	_, err := chained.Dispatch(context.Background(), publishCmd{Caption: "ok"})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}
