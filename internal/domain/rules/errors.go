package rules

import "errors"

var (
	// ErrNotFound when a rule_id has no record.
	ErrNotFound = errors.New("rule not found")
	// ErrBatchNotFound when a staging batch does not exist.
	ErrBatchNotFound = errors.New("batch not found")
	// ErrInvalidIndex when an index falls outside [0, len) of a batch.
	ErrInvalidIndex = errors.New("invalid candidate index")
)
