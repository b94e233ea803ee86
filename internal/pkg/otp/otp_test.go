package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProducesSixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := New()
		require.NoError(t, err)
		require.Len(t, code, Length)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "code %q contains non-digit %q", code, c)
		}
	}
}

func TestNew_ZeroPadded(t *testing.T) {
	// Codes below 100000 must keep their leading zeros rather than shrinking.
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := New()
		require.NoError(t, err)
		assert.Len(t, code, Length)
		seen[code] = true
	}
	// 200 draws from a million-code space should not all collide.
	assert.Greater(t, len(seen), 1)
}

func TestExpiry_IsInTheFuture(t *testing.T) {
	now := time.Now().UnixMilli()
	exp := Expiry(5 * time.Minute)
	assert.GreaterOrEqual(t, exp, now+5*60*1000)
	assert.LessOrEqual(t, exp, time.Now().UnixMilli()+5*60*1000)
}
