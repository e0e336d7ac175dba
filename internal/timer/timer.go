// Package timer is a coarse clock for I/O deadlines, where calling time.Now on every read
// isn't worth it.
package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Resolution is the frequency at which the clock is updated. It's precise enough for
// deadlines measured in seconds.
const Resolution = 500 * time.Millisecond

var (
	millis = new(atomic.Int64)
	start  sync.Once
)

// Now returns the current time, lagging behind by at most Resolution. The clock is started
// on the first call.
func Now() time.Time {
	start.Do(func() {
		millis.Store(time.Now().UnixMilli())

		go func() {
			for range time.Tick(Resolution) {
				millis.Store(time.Now().UnixMilli())
			}
		}()
	})

	return time.UnixMilli(millis.Load())
}
