package timex

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncer_OnlyLatestScheduleFires(t *testing.T) {
	var d Debouncer
	var fired atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 3; i++ {
		i := i
		d.Schedule(30*time.Millisecond, func() {
			fired.Add(1)
			last.Store(int32(i))
		})
	}

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, int32(3), last.Load())

	// no second callback sneaks in later
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(1), fired.Load())
}

func TestDebouncer_Cancel(t *testing.T) {
	var d Debouncer
	var fired atomic.Int32

	d.Schedule(20*time.Millisecond, func() { fired.Add(1) })
	d.Cancel()

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), fired.Load())

	// Cancel on an idle debouncer is a no-op
	d.Cancel()
}
