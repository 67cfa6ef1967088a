package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMalformedQuery = errors.New("malformed query")

type stubQuery struct {
	invalid bool
}

func (q stubQuery) Validate() error {
	if q.invalid {
		return errMalformedQuery
	}
	return nil
}

type otherQuery struct{}

func (otherQuery) Validate() error { return nil }

type capturedQuery struct {
	kind string
	took time.Duration
}

type stubObserver struct {
	observed []capturedQuery
}

func (o *stubObserver) ObserveQuery(kind string, took time.Duration) {
	o.observed = append(o.observed, capturedQuery{kind: kind, took: took})
}

func TestQueryBus_AskDispatchesAndReturnsResult(t *testing.T) {
	// Arrange
	bus := NewQueryBus()
	require.NoError(t, bus.Register(stubQuery{}, QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		return "forty-two", nil
	})))

	// Act
	result, err := bus.Ask(context.Background(), stubQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "forty-two", result)
}

func TestQueryBus_AskValidatesFirst(t *testing.T) {
	// Arrange
	bus := NewQueryBus()
	called := false
	require.NoError(t, bus.Register(stubQuery{}, QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		called = true
		return nil, nil
	})))

	// Act
	result, err := bus.Ask(context.Background(), stubQuery{invalid: true})

	// Assert: the original error stays reachable through the wrap
	require.Error(t, err)
	assert.ErrorIs(t, err, errMalformedQuery)
	assert.Nil(t, result)
	assert.False(t, called)
}

func TestQueryBus_AskWithoutHandler(t *testing.T) {
	// Arrange
	bus := NewQueryBus()

	// Act
	result, err := bus.Ask(context.Background(), stubQuery{})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
	assert.Nil(t, result)
}

func TestQueryBus_RejectsDuplicateRegistration(t *testing.T) {
	// Arrange
	bus := NewQueryBus()
	handler := QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) { return nil, nil })
	require.NoError(t, bus.Register(stubQuery{}, handler))

	// Act
	err := bus.Register(stubQuery{}, handler)

	// Assert
	require.Error(t, err)
	assert.NoError(t, bus.Register(otherQuery{}, handler))
}

func TestMetricsMiddleware_ObservesQueryKind(t *testing.T) {
	// Arrange
	observer := &stubObserver{}
	middleware := NewMetricsMiddleware(observer)
	handler := middleware.Wrap(QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		return 7, nil
	}))

	// Act
	result, err := handler.Handle(context.Background(), stubQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 7, result)
	require.Len(t, observer.observed, 1)
	assert.Equal(t, "stubQuery", observer.observed[0].kind)
	assert.GreaterOrEqual(t, observer.observed[0].took, time.Duration(0))
}

func TestMetricsMiddleware_ObservesFailuresToo(t *testing.T) {
	// Arrange
	observer := &stubObserver{}
	middleware := NewMetricsMiddleware(observer)
	handlerErr := errors.New("store unavailable")
	handler := middleware.Wrap(QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		return nil, handlerErr
	}))

	// Act
	_, err := handler.Handle(context.Background(), stubQuery{})

	// Assert
	assert.Same(t, handlerErr, err)
	assert.Len(t, observer.observed, 1)
}
