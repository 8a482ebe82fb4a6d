package timeline

import "errors"

var (
	errJumpOutOfBounds = errors.New("timeline: jump precedes clip's in-source start")
	errOverlap         = errors.New("timeline: clip interval overlaps an existing clip")
	errClipNotFound    = errors.New("timeline: no clip with that key on this track")
	errTrackNotFound   = errors.New("timeline: no track with that key")
)
