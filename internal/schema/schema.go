// Package schema is the flat wire representation of a single animation clip
// exchanged with the animation service.
package schema

// Keyframe is a wall-time keyframe. An empty Easing decodes as linear.
type Keyframe struct {
	Time   float64 `json:"time" yaml:"time"`
	Value  float64 `json:"value" yaml:"value"`
	Easing string  `json:"easing" yaml:"easing,omitempty"`
}

type Timeline struct {
	Keyframes []Keyframe `json:"keyframes" yaml:"keyframes"`
}

type Position struct {
	X Timeline `json:"x" yaml:"x"`
	Y Timeline `json:"y" yaml:"y"`
}

type Color struct {
	R *Timeline `json:"r,omitempty" yaml:"r,omitempty"`
	G *Timeline `json:"g,omitempty" yaml:"g,omitempty"`
	B *Timeline `json:"b,omitempty" yaml:"b,omitempty"`
	A *Timeline `json:"a,omitempty" yaml:"a,omitempty"`
}

// BeatKeyframe is a beat-domain keyframe.
type BeatKeyframe struct {
	Beat   float64 `json:"beat" yaml:"beat"`
	Value  float64 `json:"value" yaml:"value"`
	Easing string  `json:"easing" yaml:"easing,omitempty"`
}

type AutomationTrack struct {
	Channel   uint8          `json:"channel" yaml:"channel"`
	Target    string         `json:"target" yaml:"target"`
	Keyframes []BeatKeyframe `json:"keyframes" yaml:"keyframes"`
}

type TimeModel struct {
	BeatsPerMinute   float64 `json:"beatsPerMinute" yaml:"beatsPerMinute"`
	BeatOffset       float64 `json:"beatOffset" yaml:"beatOffset,omitempty"`
	WallTimeOffset   float64 `json:"wallTimeOffset" yaml:"wallTimeOffset,omitempty"`
	EnableMIDI2Clock bool    `json:"enableMIDI2Clock" yaml:"enableMIDI2Clock,omitempty"`
}

type Midi2Timeline struct {
	TimeModel TimeModel         `json:"timeModel" yaml:"timeModel"`
	Tracks    []AutomationTrack `json:"tracks" yaml:"tracks"`
}

// Animation is the wire form of one clip.
type Animation struct {
	Duration     float64        `json:"duration" yaml:"duration"`
	Opacity      *Timeline      `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Position     *Position      `json:"position,omitempty" yaml:"position,omitempty"`
	Scale        *Timeline      `json:"scale,omitempty" yaml:"scale,omitempty"`
	Rotation     *Timeline      `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Color        *Color         `json:"color,omitempty" yaml:"color,omitempty"`
	MidiTimeline *Midi2Timeline `json:"midiTimeline,omitempty" yaml:"midiTimeline,omitempty"`
}

// BulkEvaluationRequest asks for a timeline to be evaluated at many times.
type BulkEvaluationRequest struct {
	Timeline Timeline  `json:"timeline" yaml:"timeline"`
	Samples  []float64 `json:"samples" yaml:"samples"`
}

type EvaluationSample struct {
	T     float64 `json:"t" yaml:"t"`
	Value float64 `json:"value" yaml:"value"`
}
