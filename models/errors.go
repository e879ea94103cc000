package models

import "errors"

var (
	// ErrNotConfigured means no remote classifier credential or endpoint is set.
	ErrNotConfigured = errors.New("classifier is not configured")
	// ErrTransport covers network failures, timeouts and non-2xx replies.
	ErrTransport = errors.New("classifier transport failure")
	// ErrRateLimited is a transport failure caused by a quota or 429 reply.
	ErrRateLimited = errors.New("classifier rate limited")
	// ErrMalformedResponse means the reply envelope or payload is unusable.
	ErrMalformedResponse = errors.New("classifier response is malformed")
)
