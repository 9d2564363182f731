package domain

import "errors"

var (
	// ErrSessionExists reports an id collision on create. Practically
	// unreachable with UUID ids; propagated unchanged when it happens.
	ErrSessionExists = errors.New("session already exists")

	// ErrSessionNotFound is the domain-level "session required but absent"
	// error. The store itself reports absence as a nil result, not as this
	// error.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoCards rejects fortune generation on a session without cards.
	ErrNoCards = errors.New("no cards available")

	// ErrSchemaViolation marks an inference response that fails to parse
	// against its declared structured schema. Fatal for that call; no
	// partial salvage.
	ErrSchemaViolation = errors.New("response violates structured schema")

	// ErrStaleWrite reports a replace whose revision no longer matches the
	// stored document.
	ErrStaleWrite = errors.New("stale session write")

	// ErrUpstream wraps inference or store transport failures that are
	// logged at the boundary and rethrown verbatim.
	ErrUpstream = errors.New("upstream failure")
)
