package animation

import (
	"math"

	"github.com/ivlev/animkit/internal/beat"
	"github.com/ivlev/animkit/internal/params"
	"github.com/ivlev/animkit/internal/timeline"
)

// Clip is a primitive node holding up to one timeline per property and an
// optional Midi2 automation layer.
type Clip struct {
	duration float64
	midi     *beat.Midi2Timeline
	opacity  *timeline.Timeline
	position *timeline.PositionTimeline
	scale    *timeline.Timeline
	rotation *timeline.Timeline
	color    *timeline.ColorTimeline
}

// ClipOption sets one optional track on a Clip.
type ClipOption func(*Clip)

func WithOpacity(tl timeline.Timeline) ClipOption {
	return func(c *Clip) { c.opacity = &tl }
}

func WithPosition(p timeline.PositionTimeline) ClipOption {
	return func(c *Clip) { c.position = &p }
}

func WithScale(tl timeline.Timeline) ClipOption {
	return func(c *Clip) { c.scale = &tl }
}

func WithRotation(tl timeline.Timeline) ClipOption {
	return func(c *Clip) { c.rotation = &tl }
}

func WithColor(ct timeline.ColorTimeline) ClipOption {
	return func(c *Clip) { c.color = &ct }
}

// WithMidi attaches an automation layer. Explicit property tracks override
// it on the slots they share.
func WithMidi(m beat.Midi2Timeline) ClipOption {
	return func(c *Clip) { c.midi = &m }
}

// NewClip builds a clip. When a Midi2 layer is attached the duration is
// extended to cover it.
func NewClip(duration float64, opts ...ClipOption) Clip {
	c := Clip{duration: duration}
	for _, opt := range opts {
		opt(&c)
	}
	if c.midi != nil {
		c.duration = math.Max(c.duration, c.midi.Duration())
	}
	return c
}

func (Clip) Kind() Kind { return KindClip }
func (Clip) sealed()    {}

func (c Clip) Duration() float64 {
	return c.duration
}

// Opacity returns the opacity track, if any.
func (c Clip) Opacity() (timeline.Timeline, bool) { return deref(c.opacity) }

// Position returns the position track, if any.
func (c Clip) Position() (timeline.PositionTimeline, bool) { return deref(c.position) }

// Scale returns the scale track, if any.
func (c Clip) Scale() (timeline.Timeline, bool) { return deref(c.scale) }

// Rotation returns the rotation track, if any.
func (c Clip) Rotation() (timeline.Timeline, bool) { return deref(c.rotation) }

// Color returns the colour track, if any.
func (c Clip) Color() (timeline.ColorTimeline, bool) { return deref(c.color) }

// Midi returns the automation layer, if any.
func (c Clip) Midi() (beat.Midi2Timeline, bool) { return deref(c.midi) }

// State evaluates the clip at t, clamped to [0, Duration].
func (c Clip) State(t float64) params.ParameterState {
	t = clamp(t, 0, c.duration)

	var state params.ParameterState
	if c.midi != nil {
		state.Merge(c.midi.State(t))
	}
	if c.opacity != nil {
		state.SetOpacity(c.opacity.Value(t))
	}
	if c.position != nil {
		state.SetPosition(c.position.Value(t))
	}
	if c.scale != nil {
		state.SetScale(c.scale.Value(t))
	}
	if c.rotation != nil {
		state.SetRotation(c.rotation.Value(t))
	}
	if c.color != nil {
		rgba := state.ColorOr(params.OpaqueBlack)
		if c.color.R != nil {
			rgba.R = c.color.R.Value(t)
		}
		if c.color.G != nil {
			rgba.G = c.color.G.Value(t)
		}
		if c.color.B != nil {
			rgba.B = c.color.B.Value(t)
		}
		if c.color.A != nil {
			rgba.A = c.color.A.Value(t)
		}
		state.SetColor(rgba)
	}
	return state
}

// StateAtBeat evaluates the clip at the wall time model assigns to b.
func (c Clip) StateAtBeat(b beat.BeatTime, model beat.TimeModel) params.ParameterState {
	return c.State(model.Seconds(b))
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
