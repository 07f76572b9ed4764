package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowUnderLimit(t *testing.T) {
	rl := New(5, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d", i)
	}
	assert.False(t, rl.Allow("1.2.3.4"), "sixth request exceeds the budget")
}

func TestClientsAreIndependent(t *testing.T) {
	rl := New(1, time.Minute)

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"), "a saturated client never affects others")
}

func TestIsRateLimited(t *testing.T) {
	rl := New(1, time.Minute)

	assert.False(t, rl.IsRateLimited("3.3.3.3"))
	assert.True(t, rl.IsRateLimited("3.3.3.3"))
}
