// Package persistence contains non-database secondary adapters.
package persistence

import (
	"time"

	"github.com/example/rota/internal/ports/secondary"
)

// SystemClock implements secondary.Clock with the real wall clock.
type SystemClock struct{}

// NewSystemClock returns a Clock backed by time.Now.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Ensure SystemClock implements the interface
var _ secondary.Clock = (*SystemClock)(nil)
