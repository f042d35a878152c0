package callfreq

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	c := New("test")
	require.Equal(t, "test", c.Name())
	require.EqualValues(t, 0, c.Count())
	require.Zero(t, c.Rate())
	require.Zero(t, c.AverageBusy())

	end := c.Measure()
	require.EqualValues(t, 0, c.Count(), "an invocation counts when it finishes")
	time.Sleep(time.Millisecond)
	end()
	require.EqualValues(t, 1, c.Count())
	require.GreaterOrEqual(t, c.AverageBusy(), time.Millisecond)

	time.Sleep(time.Millisecond)
	c.Measure()()
	require.EqualValues(t, 2, c.Count())
	require.Greater(t, c.Rate(), 0.0)
}

func TestCounterConcurrent(t *testing.T) {
	c := New("concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Measure()()
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1000, c.Count())
}
