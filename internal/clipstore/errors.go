package clipstore

import "errors"

var (
	ErrFileNotFound    = errors.New("clipstore: file not found")
	ErrUnknownFormat   = errors.New("clipstore: unrecognized audio format")
	ErrTooManyChannels = errors.New("clipstore: more than 2 channels is unsupported")
	ErrOther           = errors.New("clipstore: import failed")
	ErrNotFound        = errors.New("clipstore: no stored clip with that key")
)
