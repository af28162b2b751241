package neuron

import "errors"

var (
	// ErrUnknownKind indicates a type tag that names no update rule.
	ErrUnknownKind = errors.New("neuron: unknown type")

	// ErrArity indicates a negative arity or a vector whose length differs from it.
	ErrArity = errors.New("neuron: arity mismatch")

	// ErrMissingParam indicates a required parameter was not supplied.
	ErrMissingParam = errors.New("neuron: missing parameter")

	// ErrUnknownParam indicates a parameter the update rule does not take.
	ErrUnknownParam = errors.New("neuron: unknown parameter")

	// ErrMalformedParam indicates a parameter outside its valid domain.
	ErrMalformedParam = errors.New("neuron: malformed parameter")
)
