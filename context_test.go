package trustee

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/trustee/trusteetest/assert"
)

func TestBlockTime(t *testing.T) {
	now := time.Now().UTC()
	ctx := WithBlockTime(context.Background(), now)

	got, err := BlockTime(ctx)
	assert.Nil(t, err)
	assert.Equal(t, now, got)

	if _, err := BlockTime(context.Background()); err == nil {
		t.Fatal("an unset block time must error")
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	ctx := WithBlockTime(context.Background(), now)

	if IsExpired(ctx, AsUnixTime(now.Add(time.Minute))) {
		t.Fatal("future is not expired")
	}
	if !IsExpired(ctx, AsUnixTime(now.Add(-time.Minute))) {
		t.Fatal("past is expired")
	}
	// expiration is inclusive
	if !IsExpired(ctx, AsUnixTime(now)) {
		t.Fatal("now is expired")
	}
}

func TestIsExpiredRequiresBlockTime(t *testing.T) {
	assert.Panics(t, func() {
		IsExpired(context.Background(), AsUnixTime(time.Now()))
	})
}
