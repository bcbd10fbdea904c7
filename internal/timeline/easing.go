package timeline

import (
	"fmt"

	"github.com/fogleman/ease"
)

// Easing selects the curve used to interpolate from one keyframe to the next.
// The zero value is Linear.
type Easing uint8

const (
	Linear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
)

var easingNames = [...]string{
	Linear:    "linear",
	EaseIn:    "easeIn",
	EaseOut:   "easeOut",
	EaseInOut: "easeInOut",
}

// Easings lists every supported curve in declaration order.
func Easings() []Easing {
	return []Easing{Linear, EaseIn, EaseOut, EaseInOut}
}

func (e Easing) String() string {
	if int(e) < len(easingNames) {
		return easingNames[e]
	}
	return fmt.Sprintf("Easing(%d)", uint8(e))
}

// ParseEasing maps a wire name back to its Easing.
func ParseEasing(name string) (Easing, error) {
	for i, n := range easingNames {
		if n == name {
			return Easing(i), nil
		}
	}
	return Linear, fmt.Errorf("unknown easing %q", name)
}

// Shape maps normalized progress to eased progress. The input is clamped to
// [0, 1] first so overshoot at segment boundaries never leaks out.
func (e Easing) Shape(t float64) float64 {
	t = clamp01(t)
	switch e {
	case EaseIn:
		return ease.InQuad(t)
	case EaseOut:
		return ease.OutQuad(t)
	case EaseInOut:
		return ease.InOutQuad(t)
	default:
		return ease.Linear(t)
	}
}

// Interpolate blends a towards b at progress t.
func (e Easing) Interpolate(a, b, t float64) float64 {
	return lerp(a, b, e.Shape(t))
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
