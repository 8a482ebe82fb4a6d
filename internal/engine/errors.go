package engine

import stderrors "errors"

var (
	errAudioTrackNotFound   = stderrors.New("engine: audio track not found")
	errTimelineClipNotFound = stderrors.New("engine: timeline clip not found")
)
