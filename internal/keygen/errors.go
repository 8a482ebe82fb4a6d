package keygen

import "errors"

var (
	errOverflow  = errors.New("keygen: no remaining keys")
	errCollision = errors.New("keygen: key already in use")
	errNotFound  = errors.New("keygen: key not in use")
)
