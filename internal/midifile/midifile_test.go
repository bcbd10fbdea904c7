package midifile

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/ivlev/animkit/internal/beat"
)

func writeSMF(t *testing.T, resolution uint16, tracks ...smf.Track) *bytes.Buffer {
	t.Helper()
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(resolution)
	for _, tr := range tracks {
		if err := sm.Add(tr); err != nil {
			t.Fatalf("add track: %v", err)
		}
	}
	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		t.Fatalf("write smf: %v", err)
	}
	return &buf
}

func TestImportScalesControllerValues(t *testing.T) {
	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(90))
	tempo.Close(0)

	var cc smf.Track
	cc.Add(0, midi.ControlChange(0, 7, 0))
	cc.Add(240, midi.NoteOn(0, 60, 100))
	cc.Add(0, midi.ControlChange(0, 99, 64))
	cc.Add(480, midi.ControlChange(0, 7, 127))
	cc.Add(0, midi.ControlChange(3, 7, 64))
	cc.Close(0)

	tl, err := Import(writeSMF(t, 480, tempo, cc), DefaultMapping())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if bpm := tl.TimeModel.Tempo.BeatsPerMinute(); math.Abs(bpm-90) > 0.01 {
		t.Errorf("tempo = %f, want 90", bpm)
	}

	tracks := tl.Tracks()
	if len(tracks) != 1 || tracks[0].Target != beat.TargetScale {
		t.Fatalf("expected a single scale track, got %+v", tracks)
	}
	kfs := tracks[0].Keyframes()
	if len(kfs) != 2 {
		t.Fatalf("expected 2 keyframes, got %d", len(kfs))
	}
	if kfs[0].Beat != 0 || kfs[0].Value != 0 {
		t.Errorf("first keyframe = %+v, want beat 0 value 0", kfs[0])
	}
	if kfs[1].Beat != 1.5 || kfs[1].Value != 2 {
		t.Errorf("second keyframe = %+v, want beat 1.5 value 2", kfs[1])
	}

	// Halfway between the keyframes at 90 bpm.
	s := tl.State(tl.TimeModel.Seconds(0.75))
	if s.Scale == nil || math.Abs(*s.Scale-1) > 1e-9 {
		t.Errorf("scale at beat 0.75 = %v, want 1", s.Scale)
	}
}

func TestImportDefaultsTempo(t *testing.T) {
	var cc smf.Track
	cc.Add(0, midi.ControlChange(0, 1, 127))
	cc.Close(0)

	tl, err := Import(writeSMF(t, 96, cc), DefaultMapping())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if bpm := tl.TimeModel.Tempo.BeatsPerMinute(); bpm != DefaultBPM {
		t.Errorf("tempo = %f, want %f", bpm, DefaultBPM)
	}
}

func TestImportRespectsChannels(t *testing.T) {
	mapping := Mapping{{Controller: 1, Channel: 2, Target: beat.TargetOpacity, Min: 0, Max: 1}}

	var cc smf.Track
	cc.Add(0, midi.ControlChange(0, 1, 127))
	cc.Add(96, midi.ControlChange(2, 1, 0))
	cc.Close(0)

	tl, err := Import(writeSMF(t, 96, cc), mapping)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	tracks := tl.Tracks()
	if len(tracks) != 1 || tracks[0].Channel != 2 {
		t.Fatalf("expected one track on channel 2, got %+v", tracks)
	}
	if kfs := tracks[0].Keyframes(); len(kfs) != 1 || kfs[0].Beat != 1 || kfs[0].Value != 0 {
		t.Errorf("unexpected keyframes %+v", kfs)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	model := beat.NewTimeModel(beat.NewTempo(120))
	in := beat.NewMidi2Timeline(model,
		beat.NewAutomationTrack(beat.TargetRotation, beat.Keyframe{Beat: 2, Value: 0}),
		beat.NewAutomationTrack(beat.TargetOpacity,
			beat.Keyframe{Beat: 0, Value: 0},
			beat.Keyframe{Beat: 4, Value: 1},
		),
	)

	var buf bytes.Buffer
	if err := Export(&buf, in, DefaultMapping()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out, err := Import(&buf, DefaultMapping())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if bpm := out.TimeModel.Tempo.BeatsPerMinute(); bpm != 120 {
		t.Errorf("tempo = %f, want 120", bpm)
	}

	tracks := out.Tracks()
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	// Mapping order puts opacity before rotation.
	if tracks[0].Target != beat.TargetOpacity || tracks[1].Target != beat.TargetRotation {
		t.Errorf("unexpected track order: %s, %s", tracks[0].Target, tracks[1].Target)
	}

	opacity := tracks[0].Keyframes()
	if len(opacity) != 2 || opacity[1].Beat != 4 || opacity[1].Value != 1 {
		t.Errorf("unexpected opacity keyframes %+v", opacity)
	}

	rotation := tracks[1].Keyframes()
	step := 2 * math.Pi / 127
	if len(rotation) != 1 || rotation[0].Beat != 2 || math.Abs(rotation[0].Value) > step {
		t.Errorf("rotation keyframe %+v should be within one step of 0", rotation)
	}
}

func TestExportUnmappedTarget(t *testing.T) {
	tl := beat.NewMidi2Timeline(beat.NewTimeModel(beat.NewTempo(100)),
		beat.NewAutomationTrack(beat.TargetColorR, beat.Keyframe{Beat: 0, Value: 1}),
	)
	mapping := Mapping{{Controller: 1, Target: beat.TargetOpacity, Max: 1}}

	if err := Export(&bytes.Buffer{}, tl, mapping); !errors.Is(err, ErrUnmappedTarget) {
		t.Errorf("expected ErrUnmappedTarget, got %v", err)
	}
}

func TestControllerValueClamps(t *testing.T) {
	e := Entry{Min: -1, Max: 1}
	tests := []struct {
		in   float64
		want uint8
	}{
		{-5, 0},
		{-1, 0},
		{1, 127},
		{9, 127},
	}
	for _, tt := range tests {
		if got := e.controllerValue(tt.in); got != tt.want {
			t.Errorf("controllerValue(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := (Entry{Min: 3, Max: 3}).controllerValue(3); got != 0 {
		t.Errorf("degenerate range should map to 0, got %d", got)
	}
}
