package projects

import "errors"

var (
	// ErrNotFound when a project is absent or owned by someone else.
	ErrNotFound = errors.New("project not found")
	// ErrNotEvaluated when an operation needs an evaluation result first.
	ErrNotEvaluated = errors.New("project not evaluated yet")
)
