// Package params holds the animatable parameter snapshot produced by evaluation.
package params

import (
	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a colour with four independent channels, conventionally in [0, 1].
// Values are not clamped.
type RGBA struct {
	R float64 `json:"r" yaml:"r" msgpack:"r"`
	G float64 `json:"g" yaml:"g" msgpack:"g"`
	B float64 `json:"b" yaml:"b" msgpack:"b"`
	A float64 `json:"a" yaml:"a" msgpack:"a"`
}

// OpaqueBlack is the base colour used when a single channel is set on a
// state that has no colour yet.
var OpaqueBlack = RGBA{A: 1}

func (c RGBA) WithR(v float64) RGBA { c.R = v; return c }
func (c RGBA) WithG(v float64) RGBA { c.G = v; return c }
func (c RGBA) WithB(v float64) RGBA { c.B = v; return c }
func (c RGBA) WithA(v float64) RGBA { c.A = v; return c }

// Colorful drops alpha and returns the colour as a colorful.Color.
func (c RGBA) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Hex formats the colour channels (alpha ignored) as #rrggbb, clamping
// out-of-range channels.
func (c RGBA) Hex() string {
	return c.Colorful().Clamped().Hex()
}

// FromColorful builds an RGBA from a colorful.Color with the given alpha.
func FromColorful(c colorful.Color, alpha float64) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

// PositionState is a 2D position.
type PositionState struct {
	X float64 `json:"x" yaml:"x" msgpack:"x"`
	Y float64 `json:"y" yaml:"y" msgpack:"y"`
}

// ParameterState is a sparse snapshot of animatable properties. A nil slot
// means the evaluation did not specify it; it does not mean zero.
//
// Slots point at values that are never mutated after being stored, so
// states may be copied freely.
type ParameterState struct {
	Opacity  *float64       `json:"opacity,omitempty" yaml:"opacity,omitempty" msgpack:"opacity,omitempty"`
	Position *PositionState `json:"position,omitempty" yaml:"position,omitempty" msgpack:"position,omitempty"`
	Scale    *float64       `json:"scale,omitempty" yaml:"scale,omitempty" msgpack:"scale,omitempty"`
	Rotation *float64       `json:"rotation,omitempty" yaml:"rotation,omitempty" msgpack:"rotation,omitempty"`
	Color    *RGBA          `json:"color,omitempty" yaml:"color,omitempty" msgpack:"color,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Merge overlays every slot that other specifies onto s. Slots absent in
// other leave s untouched.
func (s *ParameterState) Merge(other ParameterState) {
	if other.Opacity != nil {
		s.Opacity = other.Opacity
	}
	if other.Position != nil {
		s.Position = other.Position
	}
	if other.Scale != nil {
		s.Scale = other.Scale
	}
	if other.Rotation != nil {
		s.Rotation = other.Rotation
	}
	if other.Color != nil {
		s.Color = other.Color
	}
}

// Merging returns a copy of s with other merged on top.
func (s ParameterState) Merging(other ParameterState) ParameterState {
	s.Merge(other)
	return s
}

// IsEmpty reports whether no slot is specified.
func (s ParameterState) IsEmpty() bool {
	return s.Opacity == nil && s.Position == nil && s.Scale == nil && s.Rotation == nil && s.Color == nil
}

// SetOpacity stores v in the opacity slot.
func (s *ParameterState) SetOpacity(v float64) { s.Opacity = Float(v) }

// SetScale stores v in the scale slot.
func (s *ParameterState) SetScale(v float64) { s.Scale = Float(v) }

// SetRotation stores v in the rotation slot.
func (s *ParameterState) SetRotation(v float64) { s.Rotation = Float(v) }

// SetPosition replaces the position slot.
func (s *ParameterState) SetPosition(x, y float64) {
	s.Position = &PositionState{X: x, Y: y}
}

// SetColor replaces the colour slot.
func (s *ParameterState) SetColor(c RGBA) {
	s.Color = &c
}

// PositionOrZero returns the current position, or the origin if unset.
func (s ParameterState) PositionOrZero() PositionState {
	if s.Position == nil {
		return PositionState{}
	}
	return *s.Position
}

// ColorOr returns the current colour, or base if unset.
func (s ParameterState) ColorOr(base RGBA) RGBA {
	if s.Color == nil {
		return base
	}
	return *s.Color
}

// Equal compares slot presence and values.
func (s ParameterState) Equal(o ParameterState) bool {
	return eqPtr(s.Opacity, o.Opacity) &&
		eqPtr(s.Scale, o.Scale) &&
		eqPtr(s.Rotation, o.Rotation) &&
		eqPtr(s.Position, o.Position) &&
		eqPtr(s.Color, o.Color)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
