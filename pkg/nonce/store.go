package nonce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Limiter throttles repeated nonce requests per wallet.
// Implementations can use Redis, in-memory, or other backends.
// A cooldown of zero or less disables throttling
type Limiter interface {
	// Acquire claims the cooldown slot for address.
	// Returns ErrCoolingDown with the remaining wait if the slot is taken
	Acquire(ctx context.Context, address string) (time.Duration, error)
}

// Error definitions
var (
	ErrCoolingDown = errors.New("nonce requested too recently")
)

// NewToken returns a fresh single-use challenge token
func NewToken() string {
	return uuid.NewString()
}

// NopLimiter never throttles
type NopLimiter struct{}

func (NopLimiter) Acquire(context.Context, string) (time.Duration, error) {
	return 0, nil
}
