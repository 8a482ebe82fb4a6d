package engine

import "daw-engine/internal/clipstore"

// StoredClipInfo is the controller-visible metadata for an imported
// clip: everything except the raw decoded samples.
type StoredClipInfo struct {
	Key        clipstore.Key
	Path       string
	SampleRate uint32
	Channels   int
	Length     int // frames per channel
}

// ImportClip decodes path (if not already imported) and returns its
// stored-clip key. A second import of the same canonical path returns
// the same key.
func (e *Engine) ImportClip(path string) (clipstore.Key, error) {
	k, err := e.clips.Import(path)
	if err != nil {
		return 0, err
	}
	if _, ok := e.storedPaths[k]; !ok {
		e.storedPaths[k] = path
	}
	return k, nil
}

// StoredClip returns metadata for the stored clip at k.
func (e *Engine) StoredClip(k clipstore.Key) (StoredClipInfo, error) {
	c, err := e.clips.Info(k)
	if err != nil {
		return StoredClipInfo{}, err
	}
	return StoredClipInfo{
		Key:        c.Key,
		Path:       e.storedPaths[k],
		SampleRate: c.SampleRate,
		Channels:   c.Channels,
		Length:     c.Len(),
	}, nil
}

// AllStoredClips returns every imported clip's key.
func (e *Engine) AllStoredClips() []clipstore.Key {
	return e.clips.All()
}
