package gefs

import "github.com/jonboulle/clockwork"

// clock supplies processing:datetime when the caller does not pass one.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for item builds. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
