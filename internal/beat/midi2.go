package beat

import (
	"fmt"
	"math"

	"github.com/ivlev/animkit/internal/params"
)

// Target is the parameter channel a Midi2 automation track drives.
type Target uint8

const (
	TargetOpacity Target = iota
	TargetPositionX
	TargetPositionY
	TargetScale
	TargetRotation
	TargetColorR
	TargetColorG
	TargetColorB
	TargetColorA
)

var targetNames = [...]string{
	TargetOpacity:   "opacity",
	TargetPositionX: "positionX",
	TargetPositionY: "positionY",
	TargetScale:     "scale",
	TargetRotation:  "rotation",
	TargetColorR:    "colorR",
	TargetColorG:    "colorG",
	TargetColorB:    "colorB",
	TargetColorA:    "colorA",
}

// AllTargets lists every target in declaration order.
func AllTargets() []Target {
	out := make([]Target, len(targetNames))
	for i := range targetNames {
		out[i] = Target(i)
	}
	return out
}

func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return fmt.Sprintf("Target(%d)", uint8(t))
}

// ParseTarget maps a wire name back to its Target.
func ParseTarget(name string) (Target, error) {
	for i, n := range targetNames {
		if n == name {
			return Target(i), nil
		}
	}
	return 0, fmt.Errorf("unknown midi2 target %q", name)
}

// Apply writes v into the slot of s that t drives. Single-coordinate and
// single-channel targets start from the origin or opaque black when the slot
// is not yet set.
func (t Target) Apply(v float64, s *params.ParameterState) {
	switch t {
	case TargetOpacity:
		s.SetOpacity(v)
	case TargetPositionX:
		p := s.PositionOrZero()
		s.SetPosition(v, p.Y)
	case TargetPositionY:
		p := s.PositionOrZero()
		s.SetPosition(p.X, v)
	case TargetScale:
		s.SetScale(v)
	case TargetRotation:
		s.SetRotation(v)
	case TargetColorR:
		s.SetColor(s.ColorOr(params.OpaqueBlack).WithR(v))
	case TargetColorG:
		s.SetColor(s.ColorOr(params.OpaqueBlack).WithG(v))
	case TargetColorB:
		s.SetColor(s.ColorOr(params.OpaqueBlack).WithB(v))
	case TargetColorA:
		s.SetColor(s.ColorOr(params.OpaqueBlack).WithA(v))
	}
}

// AutomationTrack drives one target from a beat timeline. Channel is a
// grouping tag carried through serialization and ignored by evaluation.
type AutomationTrack struct {
	Channel  uint8
	Target   Target
	Timeline Timeline
}

// NewAutomationTrack builds a track on channel 0 from unsorted events.
func NewAutomationTrack(target Target, events ...Keyframe) AutomationTrack {
	return AutomationTrack{Target: target, Timeline: NewTimeline(events...)}
}

// Keyframes returns the track's sorted keyframes.
func (tr AutomationTrack) Keyframes() []Keyframe {
	return tr.Timeline.Keyframes()
}

// Value evaluates the track at b.
func (tr AutomationTrack) Value(b BeatTime) float64 {
	return tr.Timeline.Value(b)
}

// Midi2Timeline aggregates automation tracks under one time model.
type Midi2Timeline struct {
	TimeModel TimeModel
	tracks    []AutomationTrack
}

// NewMidi2Timeline copies tracks; their order decides which track wins when
// two drive the same slot.
func NewMidi2Timeline(model TimeModel, tracks ...AutomationTrack) Midi2Timeline {
	trs := make([]AutomationTrack, len(tracks))
	copy(trs, tracks)
	return Midi2Timeline{TimeModel: model, tracks: trs}
}

// Tracks returns a copy of the automation tracks in evaluation order.
func (m Midi2Timeline) Tracks() []AutomationTrack {
	out := make([]AutomationTrack, len(m.tracks))
	copy(out, m.tracks)
	return out
}

// StateAtBeat applies every track, in order, to an empty state.
func (m Midi2Timeline) StateAtBeat(b BeatTime) params.ParameterState {
	var s params.ParameterState
	for _, tr := range m.tracks {
		tr.Target.Apply(tr.Value(b), &s)
	}
	return s
}

// State evaluates the timeline at wall-clock seconds.
func (m Midi2Timeline) State(seconds float64) params.ParameterState {
	return m.StateAtBeat(m.TimeModel.Beat(seconds))
}

// Duration is the wall time of the latest keyframe beat across all tracks,
// or 0 when there are none.
func (m Midi2Timeline) Duration() float64 {
	maxBeat, found := math.Inf(-1), false
	for _, tr := range m.tracks {
		if b, ok := tr.Timeline.LastBeat(); ok {
			maxBeat = math.Max(maxBeat, b)
			found = true
		}
	}
	if !found {
		return 0
	}
	return m.TimeModel.Seconds(BeatTime(maxBeat))
}
