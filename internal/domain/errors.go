package domain

import "errors"

var (
	// ErrNotFound is returned when upstream reports the resource as absent (404).
	ErrNotFound = errors.New("resource not found")

	// ErrUpstreamUnavailable wraps transport failures reaching the content API.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamStatus is returned for any upstream status other than 200 or 404.
	ErrUpstreamStatus = errors.New("unexpected upstream status")

	// ErrPartialAggregation is returned when one of the home fan-out calls fails.
	ErrPartialAggregation = errors.New("partial aggregation failure")

	// ErrClientFetch is the page-level failure. 404 and 500 are not told apart.
	ErrClientFetch = errors.New("failed to load")

	// ErrInvalidAddress is returned for malformed content addresses.
	ErrInvalidAddress = errors.New("invalid content address")
)
