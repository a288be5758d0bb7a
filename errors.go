package sparsegrid

import "errors"

var (
	// ErrAlreadyInitialized is the fatal raised when Initialize is called
	// more than once in a process.
	ErrAlreadyInitialized = errors.New("sparsegrid: registry already initialized")
	// ErrNotInitialized is the fatal raised when the registry singleton is
	// resolved before Initialize.
	ErrNotInitialized = errors.New("sparsegrid: registry not initialized")
	// ErrKindOutOfRange is the fatal raised when a kind id was not declared
	// before the registry was constructed.
	ErrKindOutOfRange = errors.New("sparsegrid: node kind not declared")
	// ErrKindMismatch is the fatal raised when a kind is accessed with a
	// child type other than the one it was declared for.
	ErrKindMismatch = errors.New("sparsegrid: node kind declared for a different child type")
)
