package decode

import "errors"

var errUnknownFormat = errors.New("decode: stream did not match this decoder's format")
