// Package timeline holds tracks of non-overlapping clips keyed by start
// time, and the playhead/BPM state shared with the processor.
package timeline

// Timestamp is abstract musical time in beat units: 1/1024 of a beat.
type Timestamp uint64

const beatUnitsPerBeat = 1024

// BPMCents is beats-per-minute times 100 (12000 == 120.00 BPM).
type BPMCents = uint16

// Beats constructs a Timestamp from a whole number of beats.
func Beats(n uint64) Timestamp {
	return Timestamp(n * beatUnitsPerBeat)
}

// OriginalSamples is a sample count at a clip's native sample rate.
type OriginalSamples = int

// ToSamples converts a Timestamp to a sample count at sampleRate given
// bpmCents (centi-beats-per-minute).
func (t Timestamp) ToSamples(sampleRate uint32, bpmCents BPMCents) OriginalSamples {
	// samples = beatUnits / beatUnitsPerBeat * 60 / bpm * sampleRate
	// rearranged to keep intermediate values integral as long as possible:
	// samples = beatUnits * sampleRate * 6000 / (beatUnitsPerBeat * bpmCents)
	numerator := uint64(t) * uint64(sampleRate) * 6000
	denominator := uint64(beatUnitsPerBeat) * uint64(bpmCents)
	if denominator == 0 {
		return 0
	}
	return int(numerator / denominator)
}

// FromSamples converts a sample count at sampleRate back to a Timestamp
// given bpmCents.
func FromSamples(samples OriginalSamples, sampleRate uint32, bpmCents BPMCents) Timestamp {
	if sampleRate == 0 {
		return 0
	}
	numerator := uint64(samples) * uint64(beatUnitsPerBeat) * uint64(bpmCents)
	denominator := uint64(sampleRate) * 6000
	if denominator == 0 {
		return 0
	}
	return Timestamp(numerator / denominator)
}
