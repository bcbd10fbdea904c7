package timeline

import "sort"

// Keyframe anchors a value at a point in time (seconds). Its easing governs
// the segment that starts at this keyframe.
type Keyframe struct {
	Time   float64
	Value  float64
	Easing Easing
}

// Timeline is an ordered, clamped, piecewise-eased scalar function of time.
// It is immutable once built.
type Timeline struct {
	keyframes []Keyframe
}

// New builds a Timeline from keyframes in any order. The input slice is
// copied and stable-sorted by time, so keyframes sharing a time keep their
// relative order.
func New(keyframes ...Keyframe) Timeline {
	kfs := make([]Keyframe, len(keyframes))
	copy(kfs, keyframes)
	sort.SliceStable(kfs, func(i, j int) bool {
		return kfs[i].Time < kfs[j].Time
	})
	return Timeline{keyframes: kfs}
}

// Constant is a single-keyframe timeline holding v at every time.
func Constant(v float64) Timeline {
	return New(Keyframe{Value: v})
}

// Keyframes returns a copy of the sorted keyframes.
func (tl Timeline) Keyframes() []Keyframe {
	out := make([]Keyframe, len(tl.keyframes))
	copy(out, tl.keyframes)
	return out
}

// Len reports the number of keyframes.
func (tl Timeline) Len() int {
	return len(tl.keyframes)
}

// Span returns the times of the first and last keyframes. Both are zero for
// an empty timeline.
func (tl Timeline) Span() (start, end float64) {
	if len(tl.keyframes) == 0 {
		return 0, 0
	}
	return tl.keyframes[0].Time, tl.keyframes[len(tl.keyframes)-1].Time
}

// Value evaluates the timeline at t seconds.
func (tl Timeline) Value(t float64) float64 {
	kfs := tl.keyframes
	if len(kfs) == 0 {
		return 0
	}

	// Before first keyframe, use first keyframe
	if t <= kfs[0].Time {
		return kfs[0].Value
	}

	// After last keyframe, use last keyframe
	last := kfs[len(kfs)-1]
	if t >= last.Time {
		return last.Value
	}

	prev := kfs[0]
	for _, next := range kfs[1:] {
		if t <= next.Time {
			span := next.Time - prev.Time
			if span <= 0 {
				return next.Value
			}
			return prev.Easing.Interpolate(prev.Value, next.Value, (t-prev.Time)/span)
		}
		prev = next
	}
	return last.Value
}

// PositionTimeline animates a 2D position with independent x and y tracks.
type PositionTimeline struct {
	X Timeline
	Y Timeline
}

// Value evaluates both axes at t.
func (p PositionTimeline) Value(t float64) (x, y float64) {
	return p.X.Value(t), p.Y.Value(t)
}

// ColorTimeline holds up to four independent channel tracks. A nil channel
// is left untouched during evaluation.
type ColorTimeline struct {
	R *Timeline
	G *Timeline
	B *Timeline
	A *Timeline
}

// Channels returns the channel tracks in r, g, b, a order.
func (c ColorTimeline) Channels() [4]*Timeline {
	return [4]*Timeline{c.R, c.G, c.B, c.A}
}

// IsEmpty reports whether no channel track is set.
func (c ColorTimeline) IsEmpty() bool {
	return c.R == nil && c.G == nil && c.B == nil && c.A == nil
}

// Ptr returns a pointer to a copy of tl, for optional fields.
func Ptr(tl Timeline) *Timeline {
	return &tl
}
