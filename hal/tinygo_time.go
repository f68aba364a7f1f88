//go:build tinygo

package hal

import "time"

// tickerTime counts milliseconds off a runtime ticker. A slow consumer only
// ever sees the newest count.
type tickerTime struct {
	ch chan uint64
}

func newTickerTime() *tickerTime {
	t := &tickerTime{ch: make(chan uint64, 1)}
	go t.run()
	return t
}

func (t *tickerTime) run() {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	var seq uint64
	for range ticker.C {
		seq++
		select {
		case t.ch <- seq:
		default:
			// Replace the stale count.
			select {
			case <-t.ch:
			default:
			}
			select {
			case t.ch <- seq:
			default:
			}
		}
	}
}

func (t *tickerTime) Ticks() <-chan uint64 { return t.ch }
