// Package beat maps musical time (beats at a tempo) onto wall-clock seconds
// and evaluates beat-domain automation.
package beat

import (
	"errors"
	"fmt"
)

// ErrInvalidTempo is returned by validating constructors when beats per
// minute is not strictly positive.
var ErrInvalidTempo = errors.New("tempo must be positive")

// BeatTime is a position in musical time measured in beats. It is a distinct
// type from seconds so the two cannot be mixed up.
type BeatTime float64

// Beats returns the raw beat value.
func (b BeatTime) Beats() float64 {
	return float64(b)
}

// Tempo is a strictly positive beats-per-minute rate.
type Tempo struct {
	bpm float64
}

// NewTempo returns a Tempo for bpm. It panics if bpm is not positive: a
// non-positive tempo is a programming error. Use ParseTempo for untrusted
// input.
func NewTempo(bpm float64) Tempo {
	t, err := ParseTempo(bpm)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTempo validates bpm and returns a Tempo.
func ParseTempo(bpm float64) (Tempo, error) {
	if !(bpm > 0) {
		return Tempo{}, fmt.Errorf("%w: %v bpm", ErrInvalidTempo, bpm)
	}
	return Tempo{bpm: bpm}, nil
}

func (t Tempo) BeatsPerMinute() float64 {
	return t.bpm
}

// SecondsPerBeat is 60 / bpm.
func (t Tempo) SecondsPerBeat() float64 {
	return 60 / t.bpm
}

// SecondsForBeats converts a beat count to a duration in seconds.
func (t Tempo) SecondsForBeats(beats float64) float64 {
	return beats * 60 / t.bpm
}

// BeatsForSeconds converts a duration in seconds to a beat count.
func (t Tempo) BeatsForSeconds(seconds float64) float64 {
	return seconds * t.bpm / 60
}

// TimeModel is the affine mapping between beats and seconds:
//
//	seconds = WallTimeOffset + (beat - BeatOffset) * tempo.SecondsPerBeat()
type TimeModel struct {
	Tempo          Tempo
	BeatOffset     float64
	WallTimeOffset float64
	// EnableMIDI2Clock toggles MIDI 2.0 clock synchronisation downstream.
	// Evaluation does not read it.
	EnableMIDI2Clock bool
}

// NewTimeModel returns a model with zero offsets.
func NewTimeModel(tempo Tempo) TimeModel {
	return TimeModel{Tempo: tempo}
}

// Seconds converts a beat position to wall-clock seconds.
func (m TimeModel) Seconds(b BeatTime) float64 {
	return m.WallTimeOffset + m.Tempo.SecondsForBeats(b.Beats()-m.BeatOffset)
}

// Beat converts wall-clock seconds to a beat position. It is the inverse of
// Seconds.
func (m TimeModel) Beat(seconds float64) BeatTime {
	return BeatTime(m.Tempo.BeatsForSeconds(seconds-m.WallTimeOffset) + m.BeatOffset)
}
