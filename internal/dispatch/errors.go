package dispatch

import "errors"

var (
	// ErrUnknownResource is recorded when a request path resolves to no action
	ErrUnknownResource = errors.New("unknown resource")

	// ErrNoDefaultAction is recorded when the empty path resolves to no action
	ErrNoDefaultAction = errors.New("no default action defined")

	// ErrInvalidCommand is recorded when a delegation command resolves to no action
	ErrInvalidCommand = errors.New("invalid action or component")

	// ErrNotNamespaced is recorded when Visit or Jump targets an action without a namespace
	ErrNotNamespaced = errors.New("action has no namespace")

	// ErrNotDispatchable is recorded when Visit or Jump targets an action without a dispatch entry point
	ErrNotDispatchable = errors.New("action does not support dispatching")

	// ErrUnknownDispatchType is returned when a configured dispatch type cannot be resolved
	ErrUnknownDispatchType = errors.New("unknown dispatch type")

	// ErrSetupComplete is returned when registration is attempted after setup finished
	ErrSetupComplete = errors.New("dispatcher setup already complete")
)
