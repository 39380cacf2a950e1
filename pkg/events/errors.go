package events

import "errors"

var (
	ErrProducerClosed = errors.New("producer is closed")
	ErrEmptyKey       = errors.New("event key cannot be empty")
	ErrEmptyValue     = errors.New("event value cannot be empty")
)
