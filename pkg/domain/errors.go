package domain

import "errors"

// ErrProjectNotFound is returned when the project file does not exist on disk.
var ErrProjectNotFound = errors.New("project file not found")

// ErrPrecondition is returned when a pipeline stage is invoked before the state it depends on exists.
var ErrPrecondition = errors.New("stage precondition not met")

// ErrIncompatibleSweep is returned when a sweep plan cannot support the requested excitation or export.
var ErrIncompatibleSweep = errors.New("sweep incompatible with configuration")

// ErrInvalidTopology is returned when a topology is missing or malformed.
var ErrInvalidTopology = errors.New("invalid topology")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrSessionClosed is returned when a desktop or design handle is used after release.
var ErrSessionClosed = errors.New("solver session closed")

// ErrNotFound is returned by solver adapters when a named setup, sweep, object or report does not exist.
var ErrNotFound = errors.New("object not found")
