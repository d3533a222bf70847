// Package testutil provides testing utilities for WaveScope.
package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks should be deferred at the start of tests that spawn goroutines
// (ticker schedulers, services that start the animation driver).
func VerifyNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, opts...)
}

// IgnoreFyneGoroutines returns goleak options for goroutines owned by the Fyne
// test driver: anything already running plus its animation runner.
func IgnoreFyneGoroutines() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreCurrent(),
		goleak.IgnoreTopFunction("fyne.io/fyne/v2/internal/animation.(*Runner).runAnimations"),
	}
}
