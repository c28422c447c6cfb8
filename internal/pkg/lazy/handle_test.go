package lazy

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_InitOnce(t *testing.T) {
	calls := 0
	h := New(func(ctx context.Context) (string, error) {
		calls++
		return "client", nil
	})

	assert.False(t, h.Ready())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := h.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "client", v)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
	assert.True(t, h.Ready())
}

func TestHandle_FailedInitRetried(t *testing.T) {
	calls := 0
	h := New(func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("no credentials")
		}
		return 42, nil
	})

	_, err := h.Get(context.Background())
	require.Error(t, err)
	assert.False(t, h.Ready())

	v, err := h.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 2, calls)
}

func TestOf(t *testing.T) {
	h := Of("ready")
	v, err := h.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ready", v)
}
