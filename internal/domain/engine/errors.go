package engine

import "errors"

// ErrUnavailable covers every failure mode of the primary engine call:
// timeout, transport error, non-success status. Never surfaced to API
// callers; it only selects the fallback path.
var ErrUnavailable = errors.New("rule engine unavailable")
