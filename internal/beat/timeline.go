package beat

import (
	"sort"

	"github.com/ivlev/animkit/internal/timeline"
)

// Keyframe is a beat-domain keyframe.
type Keyframe struct {
	Beat   float64
	Value  float64
	Easing timeline.Easing
}

// Timeline is the beat-domain analogue of timeline.Timeline. It is sorted by
// beat at construction and immutable afterwards.
type Timeline struct {
	keyframes []Keyframe
}

// NewTimeline copies and stable-sorts keyframes by beat.
func NewTimeline(keyframes ...Keyframe) Timeline {
	kfs := make([]Keyframe, len(keyframes))
	copy(kfs, keyframes)
	sort.SliceStable(kfs, func(i, j int) bool {
		return kfs[i].Beat < kfs[j].Beat
	})
	return Timeline{keyframes: kfs}
}

// Keyframes returns a copy of the sorted keyframes.
func (tl Timeline) Keyframes() []Keyframe {
	out := make([]Keyframe, len(tl.keyframes))
	copy(out, tl.keyframes)
	return out
}

// Len reports the number of beat keyframes.
func (tl Timeline) Len() int {
	return len(tl.keyframes)
}

// LastBeat returns the beat of the final keyframe and false if the timeline
// is empty.
func (tl Timeline) LastBeat() (float64, bool) {
	if len(tl.keyframes) == 0 {
		return 0, false
	}
	return tl.keyframes[len(tl.keyframes)-1].Beat, true
}

// Value evaluates the timeline at beat b using the same clamp, segment and
// degenerate-span rules as timeline.Timeline.
func (tl Timeline) Value(b BeatTime) float64 {
	kfs := tl.keyframes
	if len(kfs) == 0 {
		return 0
	}
	at := b.Beats()
	if at <= kfs[0].Beat {
		return kfs[0].Value
	}
	last := kfs[len(kfs)-1]
	if at >= last.Beat {
		return last.Value
	}

	prev := kfs[0]
	for _, next := range kfs[1:] {
		if at <= next.Beat {
			span := next.Beat - prev.Beat
			if span <= 0 {
				return next.Value
			}
			return prev.Easing.Interpolate(prev.Value, next.Value, (at-prev.Beat)/span)
		}
		prev = next
	}
	return last.Value
}

// AsTimeline converts the beat timeline into a wall-time timeline under
// model, keeping values and easings.
func (tl Timeline) AsTimeline(model TimeModel) timeline.Timeline {
	kfs := make([]timeline.Keyframe, len(tl.keyframes))
	for i, kf := range tl.keyframes {
		kfs[i] = timeline.Keyframe{
			Time:   model.Seconds(BeatTime(kf.Beat)),
			Value:  kf.Value,
			Easing: kf.Easing,
		}
	}
	return timeline.New(kfs...)
}
