package trustee

import (
	"context"
	"time"

	"github.com/iov-one/trustee/errors"
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain.
type Context = context.Context

type contextKey int // local to the trustee module

const (
	contextKeyTime contextKey = iota
)

// WithBlockTime sets the block time for the execution context. The clock is
// provided by the host environment and is the only source of time the engine
// trusts. Client supplied timestamps are never used for quorum decisions.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyTime, t)
}

// BlockTime returns the current time as declared by the host for this
// execution. An error is returned if the context carries no clock, because
// time-lock decisions must never fall back to a guess.
func BlockTime(ctx Context) (time.Time, error) {
	val, ok := ctx.Value(contextKeyTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	return val, nil
}

// IsExpired returns true if given time is in the past as compared to the
// "now" as declared for the execution context. Expiration is inclusive,
// meaning that if current time is equal to the expiration time than this
// function returns true.
//
// This function panics if the context does not carry a clock. A missing clock
// is a host wiring failure that must not be interpreted silently.
func IsExpired(ctx Context, t UnixTime) bool {
	now, err := BlockTime(ctx)
	if err != nil {
		panic(err)
	}
	return t <= AsUnixTime(now)
}
