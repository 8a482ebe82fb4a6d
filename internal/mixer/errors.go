package mixer

import "errors"

var errTrackNotFound = errors.New("mixer: no track with that key")
