package order

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
)

// ErrDeclined is what the simulated submitter reports for an injected failure
var ErrDeclined = errors.New("order placement declined")

// Submitter places an order. It is the single point where a real network
// call can replace the simulation. Implementations must return ctx.Err()
// when the context ends first.
type Submitter interface {
	Place(ctx context.Context, order models.Order) error
}

// SubmitterFunc adapts a function to Submitter
type SubmitterFunc func(ctx context.Context, order models.Order) error

func (f SubmitterFunc) Place(ctx context.Context, order models.Order) error {
	return f(ctx, order)
}

// SimulatedSubmitter waits Delay and then fails with probability
// FailureRate.
type SimulatedSubmitter struct {
	Delay       time.Duration
	FailureRate float64

	mu   sync.Mutex
	rand *rand.Rand
}

func NewSimulatedSubmitter(delay time.Duration, failureRate float64) *SimulatedSubmitter {
	return &SimulatedSubmitter{
		Delay:       delay,
		FailureRate: failureRate,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *SimulatedSubmitter) Place(ctx context.Context, _ models.Order) error {
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if s.FailureRate <= 0 {
		return nil
	}
	s.mu.Lock()
	roll := s.rand.Float64()
	s.mu.Unlock()
	if roll < s.FailureRate {
		return ErrDeclined
	}
	return nil
}
