package dedupe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDeduper_FirstSeen(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDeduper(time.Minute)
	now := time.Unix(1000, 0)
	d.now = func() time.Time { return now }

	ok, err := d.FirstSeen(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = d.FirstSeen(ctx, 1)
	assert.False(t, ok)

	ok, _ = d.FirstSeen(ctx, 2)
	assert.True(t, ok)

	// TTLを過ぎたら忘れる
	now = now.Add(2 * time.Minute)
	ok, _ = d.FirstSeen(ctx, 1)
	assert.True(t, ok)
}
