package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func TestStoreLimiter_MatchesWindowSemantics(t *testing.T) {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: "test", CleanUpInterval: time.Minute})
	l := NewStoreLimiter(store, limiter.Rate{Limit: 5, Period: time.Minute})

	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		ok, err := l.Admit(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "call %d should be admitted", i)
	}

	ok, err := l.Admit(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "6th call should be rejected")

	ok, err = l.Admit(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParseCustomRate(t *testing.T) {
	cases := map[string]limiter.Rate{
		"5-1m":   {Limit: 5, Period: time.Minute},
		"10-30s": {Limit: 10, Period: 30 * time.Second},
		"20-2h":  {Limit: 20, Period: 2 * time.Hour},
	}
	for in, want := range cases {
		got, err := ParseCustomRate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want.Limit, got.Limit, in)
		assert.Equal(t, want.Period, got.Period, in)
	}
}

func TestParseCustomRate_Invalid(t *testing.T) {
	for _, in := range []string{"", "5", "5-", "x-1m", "5-1d", "5-xm", "0-1m", "5-0s", "5-1m-2"} {
		_, err := ParseCustomRate(in)
		assert.Error(t, err, in)
	}
}
