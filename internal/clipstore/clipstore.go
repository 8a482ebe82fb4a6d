// Package clipstore decodes imported audio files fully into memory and
// deduplicates repeated imports of the same path, handing out shared,
// immutable stored clips.
package clipstore

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"daw-engine/internal/clipreader"
	"daw-engine/internal/clipstore/decode"
	"daw-engine/internal/errors"
	"daw-engine/internal/keygen"
)

// Key identifies a stored clip.
type Key = uint32

const waveformChunkSize = 1024

// Clip is an immutable, shared decoded audio clip. Once created it is
// never mutated; concurrent readers share it by pointer.
type Clip struct {
	Key            Key
	SampleRate     uint32
	Channels       int
	Frames         [][]float32 // one slice per channel, equal length
	WaveformMinMax []int16     // interleaved (min,max) pairs per chunk per channel
	refs           atomic.Int32
}

// Len returns the number of frames (samples per channel).
func (c *Clip) Len() int {
	if len(c.Frames) == 0 {
		return 0
	}
	return len(c.Frames[0])
}

// Store caches decoded clips keyed by canonical import path.
type Store struct {
	registry *decode.Registry

	mu      sync.RWMutex
	byPath  map[string]Key
	byKey   map[Key]*Clip
	keygen  *keygen.Generator[Key]
}

// New creates an empty store using the default WAV/FLAC decoder
// registry.
func New() *Store {
	return &Store{
		registry: decode.Default(),
		byPath:   make(map[string]Key),
		byKey:    make(map[Key]*Clip),
		keygen:   keygen.New[Key](),
	}
}

// Import decodes path if not already imported, returning its key. A
// second import of the same canonicalized path returns the same key
// without decoding again.
func (s *Store) Import(path string) (Key, error) {
	return s.importWith(path, s.keygen.Next)
}

// ReconstructImport decodes path exactly as Import does, but commits
// the result under the given key instead of allocating a new one, for
// restoring a snapshot taken before the clip was last deleted or
// before the store was rebuilt. Fails with Collision if key is already
// in use.
func (s *Store) ReconstructImport(path string, key Key) (Key, error) {
	return s.importWith(path, func() (Key, error) {
		if err := s.keygen.Reserve(key); err != nil {
			return 0, err
		}
		return key, nil
	})
}

func (s *Store) importWith(path string, allocate func() (Key, error)) (Key, error) {
	canon, err := filepath.Abs(path)
	if err != nil {
		canon = path
	}

	s.mu.RLock()
	if k, ok := s.byPath[canon]; ok {
		s.mu.RUnlock()
		return k, nil
	}
	s.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.New(ErrFileNotFound).
				Component("clipstore").
				Category(errors.CategoryImport).
				Context("path", path).
				Build()
		}
		return 0, errors.New(err).
			Component("clipstore").
			Category(errors.CategoryImport).
			Context("path", path).
			Build()
	}
	defer f.Close()

	dec, channels, sampleRate, ok := s.registry.Probe(f)
	if !ok {
		return 0, errors.New(ErrUnknownFormat).
			Component("clipstore").
			Category(errors.CategoryImport).
			Context("path", path).
			Build()
	}
	if channels > 2 {
		return 0, errors.New(ErrTooManyChannels).
			Component("clipstore").
			Category(errors.CategoryImport).
			Context("path", path).
			Context("channels", channels).
			Build()
	}

	frames, err := dec.Decode(f)
	if err != nil {
		return 0, errors.New(ErrOther).
			Component("clipstore").
			Category(errors.CategoryImport).
			Context("path", path).
			Context("cause", err.Error()).
			Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have imported the same path while we decoded.
	if k, ok := s.byPath[canon]; ok {
		return k, nil
	}

	k, err := allocate()
	if err != nil {
		return 0, err
	}

	clip := &Clip{
		Key:            k,
		SampleRate:     sampleRate,
		Channels:       channels,
		Frames:         frames,
		WaveformMinMax: computeWaveform(frames),
	}
	s.byPath[canon] = k
	s.byKey[k] = clip

	return k, nil
}

// Reader returns a fresh clip reader bound to the stored clip at k,
// resampling to engineSampleRate if the clip's native rate differs.
func (s *Store) Reader(k Key, engineSampleRate uint32, maxWindow int) (*clipreader.Reader, error) {
	s.mu.RLock()
	clip, ok := s.byKey[k]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(ErrNotFound).
			Component("clipstore").
			Category(errors.CategoryNotFound).
			Context("key", k).
			Build()
	}
	return clipreader.New(clip.Frames, clip.SampleRate, engineSampleRate, maxWindow), nil
}

// WaveformData returns the precomputed per-chunk (min,max) summary for
// the stored clip at k.
func (s *Store) WaveformData(k Key) ([]int16, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clip, ok := s.byKey[k]
	if !ok {
		return nil, errors.New(ErrNotFound).
			Component("clipstore").
			Category(errors.CategoryNotFound).
			Context("key", k).
			Build()
	}
	return clip.WaveformMinMax, nil
}

// Info returns the stored clip's metadata.
func (s *Store) Info(k Key) (*Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clip, ok := s.byKey[k]
	if !ok {
		return nil, errors.New(ErrNotFound).
			Component("clipstore").
			Category(errors.CategoryNotFound).
			Context("key", k).
			Build()
	}
	return clip, nil
}

// All returns every stored clip key currently in the store.
func (s *Store) All() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]Key, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	return keys
}

func computeWaveform(frames [][]float32) []int16 {
	if len(frames) == 0 || len(frames[0]) == 0 {
		return nil
	}
	n := len(frames[0])
	chunks := (n + waveformChunkSize - 1) / waveformChunkSize

	out := make([]int16, 0, chunks*len(frames)*2)
	for _, ch := range frames {
		for c := 0; c < chunks; c++ {
			start := c * waveformChunkSize
			end := start + waveformChunkSize
			if end > len(ch) {
				end = len(ch)
			}
			min, max := float32(0), float32(0)
			if start < end {
				min, max = ch[start], ch[start]
				for _, s := range ch[start:end] {
					if s < min {
						min = s
					}
					if s > max {
						max = s
					}
				}
			}
			out = append(out, floatToInt16(min), floatToInt16(max))
		}
	}
	return out
}

func floatToInt16(v float32) int16 {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}
