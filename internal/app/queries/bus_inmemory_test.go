package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countQuery struct{ Bucket string }

func (countQuery) Key() string { return "test.count" }

type missingQuery struct{}

func (missingQuery) Key() string { return "test.missing" }

func TestAskRoutesToRegisteredHandler(t *testing.T) {
	bus := NewInMemoryBus()
	require.NoError(t, RegisterHandler[countQuery, int](bus, countQuery{}.Key(),
		HandlerFunc[countQuery, int](func(ctx context.Context, q countQuery) (int, error) {
			return len(q.Bucket), nil
		})))

	res, err := Ask[countQuery, int](context.Background(), bus, countQuery{Bucket: "abc"})
	require.NoError(t, err)
	assert.Equal(t, 3, res)
}

func TestAskUnregisteredQuery(t *testing.T) {
	bus := NewInMemoryBus()
	_, err := bus.Ask(context.Background(), missingQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestQueryDuplicateRegistrationKeepsFirstHandler(t *testing.T) {
	bus := NewInMemoryBus()
	require.NoError(t, RegisterHandler[countQuery, int](bus, countQuery{}.Key(),
		HandlerFunc[countQuery, int](func(ctx context.Context, q countQuery) (int, error) {
			return 1, nil
		})))

	err := RegisterHandler[countQuery, int](bus, countQuery{}.Key(),
		HandlerFunc[countQuery, int](func(ctx context.Context, q countQuery) (int, error) {
			return 2, nil
		}))
	assert.ErrorIs(t, err, ErrDuplicateHandler)

	res, err := Ask[countQuery, int](context.Background(), bus, countQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, res)
}

func TestAskPropagatesHandlerErrorUnchanged(t *testing.T) {
	bus := NewInMemoryBus()
	sentinel := errors.New("read model offline")
	require.NoError(t, RegisterHandler[countQuery, int](bus, countQuery{}.Key(),
		HandlerFunc[countQuery, int](func(ctx context.Context, q countQuery) (int, error) {
			return 0, sentinel
		})))

	_, err := Ask[countQuery, int](context.Background(), bus, countQuery{})
	assert.ErrorIs(t, err, sentinel)
}

func TestAskNilResultYieldsZeroValue(t *testing.T) {
	bus := NewInMemoryBus()
	require.NoError(t, bus.RegisterRaw(countQuery{}.Key(), func(ctx context.Context, q Query) (any, error) {
		return nil, nil
	}))

	res, err := Ask[countQuery, *int](context.Background(), bus, countQuery{})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestAskResultTypeMismatch(t *testing.T) {
	bus := NewInMemoryBus()
	require.NoError(t, RegisterHandler[countQuery, int](bus, countQuery{}.Key(),
		HandlerFunc[countQuery, int](func(ctx context.Context, q countQuery) (int, error) {
			return 7, nil
		})))

	_, err := Ask[countQuery, string](context.Background(), bus, countQuery{})
	assert.ErrorIs(t, err, ErrResultType)
}
