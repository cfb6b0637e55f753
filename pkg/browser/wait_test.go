package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redscrape/pkg/config"
)

// fakeDriver serves scripted page heights.
type fakeDriver struct {
	heights []int64
	calls   int
	err     error
}

func (f *fakeDriver) Navigate(ctx context.Context, url string) error      { return nil }
func (f *fakeDriver) WaitVisible(ctx context.Context, sel string) error   { return nil }
func (f *fakeDriver) ScrollToBottom(ctx context.Context) error            { return nil }
func (f *fakeDriver) HTML(ctx context.Context) (string, error)            { return "", nil }
func (f *fakeDriver) Close() error                                        { return nil }

func (f *fakeDriver) PageHeight(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	h := f.heights[f.calls]
	if f.calls < len(f.heights)-1 {
		f.calls++
	}
	return h, nil
}

func TestHeightSettleGrowth(t *testing.T) {
	driver := &fakeDriver{heights: []int64{1000, 1000, 2400}}
	strategy := &HeightSettle{
		PollInterval: time.Millisecond,
		MaxWait:      time.Second,
	}

	height, grew, err := strategy.WaitForContent(context.Background(), driver, 1000)
	require.NoError(t, err)
	assert.True(t, grew)
	assert.Equal(t, int64(2400), height)
}

func TestHeightSettleTimeout(t *testing.T) {
	driver := &fakeDriver{heights: []int64{1000}}
	strategy := &HeightSettle{
		PollInterval: time.Millisecond,
		MaxWait:      20 * time.Millisecond,
	}

	height, grew, err := strategy.WaitForContent(context.Background(), driver, 1000)
	require.NoError(t, err)
	assert.False(t, grew)
	assert.Equal(t, int64(1000), height)
}

func TestHeightSettleDriverError(t *testing.T) {
	transportErr := errors.New("browser gone")
	driver := &fakeDriver{err: transportErr}
	strategy := &HeightSettle{
		PollInterval: time.Millisecond,
		MaxWait:      time.Second,
	}

	_, grew, err := strategy.WaitForContent(context.Background(), driver, 1000)
	assert.ErrorIs(t, err, transportErr)
	assert.False(t, grew)
}

func TestHeightSettleContextCancelled(t *testing.T) {
	driver := &fakeDriver{heights: []int64{1000}}
	strategy := &HeightSettle{
		PollInterval: 50 * time.Millisecond,
		MaxWait:      time.Minute,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := strategy.WaitForContent(ctx, driver, 1000)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRandomDelay(t *testing.T) {
	driver := &fakeDriver{heights: []int64{3000}}
	strategy := &RandomDelay{
		Min: time.Millisecond,
		Max: 5 * time.Millisecond,
	}

	start := time.Now()
	height, grew, err := strategy.WaitForContent(context.Background(), driver, 1000)
	require.NoError(t, err)
	assert.True(t, grew)
	assert.Equal(t, int64(3000), height)
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}

func TestRandomDelayNoGrowth(t *testing.T) {
	driver := &fakeDriver{heights: []int64{1000}}
	strategy := &RandomDelay{Min: time.Millisecond, Max: 2 * time.Millisecond}

	_, grew, err := strategy.WaitForContent(context.Background(), driver, 1000)
	require.NoError(t, err)
	assert.False(t, grew)
}

func TestNewWaitStrategy(t *testing.T) {
	settle := NewWaitStrategy(&config.ScrollConfig{
		WaitStrategy: config.WaitStrategyHeightSettle,
		PollInterval: 250 * time.Millisecond,
		MaxWait:      4 * time.Second,
	})
	assert.IsType(t, &HeightSettle{}, settle)

	random := NewWaitStrategy(&config.ScrollConfig{
		WaitStrategy: config.WaitStrategyRandomDelay,
		MinWait:      time.Second,
		MaxWait:      4 * time.Second,
	})
	assert.IsType(t, &RandomDelay{}, random)
}
