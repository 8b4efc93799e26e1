package coach

import "errors"

// Sentinel errors for coach operations.
var (
	// ErrDisabled indicates the coach is disabled in config.
	ErrDisabled = errors.New("coach: disabled in configuration")

	// ErrNoAPIKey indicates no OpenAI API key is configured.
	ErrNoAPIKey = errors.New("coach: api key not configured")

	// ErrNoData indicates there are no readings to analyse.
	ErrNoData = errors.New("coach: no readings available for analysis")

	// ErrRequestFailed indicates the OpenAI API call failed.
	ErrRequestFailed = errors.New("coach: api request failed")
)
