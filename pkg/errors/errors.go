package errors

import "errors"

var (
	ErrNotReady     = errors.New("data module is not set up")
	ErrAlreadySetup = errors.New("data module is already set up")
	ErrUnknownNode  = errors.New("unknown node")
	ErrEmptyDataset = errors.New("dataset has no examples")
	ErrInvalidData  = errors.New("invalid data type")
)
