// Package midifile converts Standard MIDI File controller automation to and
// from Midi2 automation timelines.
package midifile

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/ivlev/animkit/internal/beat"
)

const (
	// DefaultBPM is used when a file carries no tempo meta event.
	DefaultBPM = 120.0
	// Resolution is the ticks per quarter note of exported files.
	Resolution = 960
)

var (
	ErrUnmappedTarget = errors.New("target has no controller mapping")
	ErrTimeFormat     = errors.New("only metric time formats are supported")
)

// Entry binds a control change controller on one channel to a target. CC
// values 0..127 are scaled linearly onto [Min, Max].
type Entry struct {
	Controller uint8
	Channel    uint8
	Target     beat.Target
	Min, Max   float64
}

type Mapping []Entry

// DefaultMapping is the controller layout used by the CLI.
func DefaultMapping() Mapping {
	return Mapping{
		{Controller: 1, Target: beat.TargetOpacity, Min: 0, Max: 1},
		{Controller: 10, Target: beat.TargetPositionX, Min: 0, Max: 1},
		{Controller: 11, Target: beat.TargetPositionY, Min: 0, Max: 1},
		{Controller: 7, Target: beat.TargetScale, Min: 0, Max: 2},
		{Controller: 74, Target: beat.TargetRotation, Min: -math.Pi, Max: math.Pi},
		{Controller: 20, Target: beat.TargetColorR, Min: 0, Max: 1},
		{Controller: 21, Target: beat.TargetColorG, Min: 0, Max: 1},
		{Controller: 22, Target: beat.TargetColorB, Min: 0, Max: 1},
		{Controller: 23, Target: beat.TargetColorA, Min: 0, Max: 1},
	}
}

func (e Entry) value(cc uint8) float64 {
	return e.Min + (e.Max-e.Min)*float64(cc)/127
}

func (e Entry) controllerValue(v float64) uint8 {
	if e.Max == e.Min {
		return 0
	}
	q := math.Round((v - e.Min) / (e.Max - e.Min) * 127)
	return uint8(math.Max(0, math.Min(127, q)))
}

func (m Mapping) find(controller, channel uint8) int {
	for i, e := range m {
		if e.Controller == controller && e.Channel == channel {
			return i
		}
	}
	return -1
}

func (m Mapping) forTarget(t beat.Target) (Entry, bool) {
	for _, e := range m {
		if e.Target == t {
			return e, true
		}
	}
	return Entry{}, false
}

// Import reads a Standard MIDI File and turns every mapped control change
// into a linear keyframe. Tracks come out in mapping order; entries that saw
// no events are omitted.
func Import(r io.Reader, mapping Mapping) (beat.Midi2Timeline, error) {
	sm, err := smf.ReadFrom(r)
	if err != nil {
		return beat.Midi2Timeline{}, fmt.Errorf("read smf: %w", err)
	}
	ticks, ok := sm.TimeFormat.(smf.MetricTicks)
	if !ok || ticks == 0 {
		return beat.Midi2Timeline{}, ErrTimeFormat
	}
	resolution := float64(ticks)

	bpm := DefaultBPM
	if changes := sm.TempoChanges(); len(changes) > 0 && changes[0].BPM > 0 {
		bpm = changes[0].BPM
	}
	tempo, err := beat.ParseTempo(bpm)
	if err != nil {
		return beat.Midi2Timeline{}, err
	}

	events := make([][]beat.Keyframe, len(mapping))
	for _, track := range sm.Tracks {
		var abs uint64
		for _, ev := range track {
			abs += uint64(ev.Delta)

			var ch, ctl, val uint8
			if !midi.Message(ev.Message).GetControlChange(&ch, &ctl, &val) {
				continue
			}
			i := mapping.find(ctl, ch)
			if i < 0 {
				continue
			}
			events[i] = append(events[i], beat.Keyframe{
				Beat:  float64(abs) / resolution,
				Value: mapping[i].value(val),
			})
		}
	}

	var tracks []beat.AutomationTrack
	for i, kfs := range events {
		if len(kfs) == 0 {
			continue
		}
		tr := beat.NewAutomationTrack(mapping[i].Target, kfs...)
		tr.Channel = mapping[i].Channel
		tracks = append(tracks, tr)
	}
	return beat.NewMidi2Timeline(beat.NewTimeModel(tempo), tracks...), nil
}

// Export writes tl as a format 1 file: a tempo track followed by one
// controller track per automation track, sent on the mapped channel. Values
// are quantised to 7 bits.
func Export(w io.Writer, tl beat.Midi2Timeline, mapping Mapping) error {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(Resolution)

	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaMeter(4, 4))
	tempoTrack.Add(0, smf.MetaTempo(tl.TimeModel.Tempo.BeatsPerMinute()))
	tempoTrack.Close(0)
	if err := sm.Add(tempoTrack); err != nil {
		return fmt.Errorf("add tempo track: %w", err)
	}

	for _, at := range tl.Tracks() {
		entry, ok := mapping.forTarget(at.Target)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnmappedTarget, at.Target)
		}

		var track smf.Track
		var last uint32
		for _, kf := range at.Keyframes() {
			tick := uint32(math.Round(math.Max(0, kf.Beat) * Resolution))
			delta := uint32(0)
			if tick > last {
				delta = tick - last
				last = tick
			}
			track.Add(delta, midi.ControlChange(entry.Channel, entry.Controller, entry.controllerValue(kf.Value)))
		}
		track.Close(0)
		if err := sm.Add(track); err != nil {
			return fmt.Errorf("add %s track: %w", at.Target, err)
		}
	}

	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("write smf: %w", err)
	}
	return nil
}
