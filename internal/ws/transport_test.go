package ws

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostBreakerIgnoresGoneConnections(t *testing.T) {
	breaker := newPostBreaker()

	// Gone endpoints are normal operation; a burst of them must never
	// open the circuit.
	for i := 0; i < 20; i++ {
		_, err := breaker.Execute(func() (interface{}, error) {
			return nil, ErrConnectionGone
		})
		require.ErrorIs(t, err, ErrConnectionGone)
	}
	assert.Equal(t, gobreaker.StateClosed, breaker.State())
}

func TestPostBreakerOpensOnRepeatedFailures(t *testing.T) {
	breaker := newPostBreaker()
	transient := errors.New("endpoint unreachable")

	for i := 0; i < 10; i++ {
		_, err := breaker.Execute(func() (interface{}, error) {
			return nil, transient
		})
		if errors.Is(err, gobreaker.ErrOpenState) {
			break
		}
		require.ErrorIs(t, err, transient)
	}
	assert.Equal(t, gobreaker.StateOpen, breaker.State())

	_, err := breaker.Execute(func() (interface{}, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
