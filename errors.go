package puppet

import "errors"

var (
	// ErrInvalidMotion is returned when a motion clip is malformed or
	// fails the consistency check.
	ErrInvalidMotion = errors.New("invalid motion data")

	// ErrInvalidExpression is returned when an expression file is malformed.
	ErrInvalidExpression = errors.New("invalid expression data")

	// ErrInvalidScript is returned when a playback script cannot be parsed.
	ErrInvalidScript = errors.New("invalid playback script")

	// ErrUnknownName is returned when a motion or expression name has not
	// been registered on the Character.
	ErrUnknownName = errors.New("unknown name")
)
