package hal

import "errors"

// Sentinel errors for hardware capability construction and reads.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, hal.ErrInvalidChannel) {
//	    // configuration error, fail fast
//	}
var (
	// ErrInvalidChannel is returned for a channel outside the supported
	// set (0-3). This is a configuration error, not a transient fault.
	ErrInvalidChannel = errors.New("hal: invalid ADC channel")

	// ErrHardwareUnavailable is returned when a real adapter cannot be
	// constructed (bus init failure, driver missing). The factories
	// absorb it by falling back to a mock.
	ErrHardwareUnavailable = errors.New("hal: hardware unavailable")
)
