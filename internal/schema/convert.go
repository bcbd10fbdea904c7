package schema

import (
	"errors"
	"fmt"

	"github.com/ivlev/animkit/internal/animation"
	"github.com/ivlev/animkit/internal/beat"
	"github.com/ivlev/animkit/internal/timeline"
)

var (
	// ErrMissingAutomationTimeline is returned when a payload requires a
	// Midi2 timeline and the clip has none.
	ErrMissingAutomationTimeline = errors.New("missing required automation timeline")
	ErrUnknownEasing             = errors.New("unknown easing")
	ErrUnknownTarget             = errors.New("unknown automation target")
)

// ToSchema converts a clip node to its wire form. Groups and sequences are
// rejected with an error matching animation.ErrUnsupportedComposition.
func ToSchema(a animation.Animation) (Animation, error) {
	clip, err := animation.AsClip(a)
	if err != nil {
		return Animation{}, fmt.Errorf("schema: %w", err)
	}
	return FromClip(clip), nil
}

// FromClip converts a clip field for field.
func FromClip(clip animation.Clip) Animation {
	out := Animation{Duration: clip.Duration()}
	if tl, ok := clip.Opacity(); ok {
		out.Opacity = timelinePtr(tl)
	}
	if p, ok := clip.Position(); ok {
		out.Position = &Position{X: TimelineToSchema(p.X), Y: TimelineToSchema(p.Y)}
	}
	if tl, ok := clip.Scale(); ok {
		out.Scale = timelinePtr(tl)
	}
	if tl, ok := clip.Rotation(); ok {
		out.Rotation = timelinePtr(tl)
	}
	if c, ok := clip.Color(); ok {
		out.Color = &Color{
			R: optionalTimeline(c.R),
			G: optionalTimeline(c.G),
			B: optionalTimeline(c.B),
			A: optionalTimeline(c.A),
		}
	}
	if m, ok := clip.Midi(); ok {
		mt := Midi2ToSchema(m)
		out.MidiTimeline = &mt
	}
	return out
}

// MidiSchema extracts the automation payload of a clip node. A clip without
// one yields ErrMissingAutomationTimeline.
func MidiSchema(a animation.Animation) (Midi2Timeline, error) {
	clip, err := animation.AsClip(a)
	if err != nil {
		return Midi2Timeline{}, fmt.Errorf("schema: %w", err)
	}
	m, ok := clip.Midi()
	if !ok {
		return Midi2Timeline{}, fmt.Errorf("schema: %w", ErrMissingAutomationTimeline)
	}
	return Midi2ToSchema(m), nil
}

// FromSchema is the inverse of ToSchema.
func FromSchema(s Animation) (animation.Clip, error) {
	var opts []animation.ClipOption

	if s.Opacity != nil {
		tl, err := TimelineFromSchema(*s.Opacity)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("opacity: %w", err)
		}
		opts = append(opts, animation.WithOpacity(tl))
	}
	if s.Position != nil {
		x, err := TimelineFromSchema(s.Position.X)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("position.x: %w", err)
		}
		y, err := TimelineFromSchema(s.Position.Y)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("position.y: %w", err)
		}
		opts = append(opts, animation.WithPosition(timeline.PositionTimeline{X: x, Y: y}))
	}
	if s.Scale != nil {
		tl, err := TimelineFromSchema(*s.Scale)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("scale: %w", err)
		}
		opts = append(opts, animation.WithScale(tl))
	}
	if s.Rotation != nil {
		tl, err := TimelineFromSchema(*s.Rotation)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("rotation: %w", err)
		}
		opts = append(opts, animation.WithRotation(tl))
	}
	if s.Color != nil {
		var ct timeline.ColorTimeline
		channels := []struct {
			name string
			src  *Timeline
			dst  **timeline.Timeline
		}{
			{"r", s.Color.R, &ct.R},
			{"g", s.Color.G, &ct.G},
			{"b", s.Color.B, &ct.B},
			{"a", s.Color.A, &ct.A},
		}
		for _, ch := range channels {
			if ch.src == nil {
				continue
			}
			tl, err := TimelineFromSchema(*ch.src)
			if err != nil {
				return animation.Clip{}, fmt.Errorf("color.%s: %w", ch.name, err)
			}
			*ch.dst = timeline.Ptr(tl)
		}
		opts = append(opts, animation.WithColor(ct))
	}
	if s.MidiTimeline != nil {
		m, err := Midi2FromSchema(*s.MidiTimeline)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("midiTimeline: %w", err)
		}
		opts = append(opts, animation.WithMidi(m))
	}

	return animation.NewClip(s.Duration, opts...), nil
}

// TimelineToSchema converts a timeline keyframe for keyframe.
func TimelineToSchema(tl timeline.Timeline) Timeline {
	kfs := tl.Keyframes()
	out := Timeline{Keyframes: make([]Keyframe, len(kfs))}
	for i, kf := range kfs {
		out.Keyframes[i] = Keyframe{Time: kf.Time, Value: kf.Value, Easing: kf.Easing.String()}
	}
	return out
}

// TimelineFromSchema rebuilds a timeline, sorting keyframes by time.
func TimelineFromSchema(s Timeline) (timeline.Timeline, error) {
	kfs := make([]timeline.Keyframe, len(s.Keyframes))
	for i, kf := range s.Keyframes {
		e, err := parseEasing(kf.Easing)
		if err != nil {
			return timeline.Timeline{}, fmt.Errorf("keyframe %d: %w", i, err)
		}
		kfs[i] = timeline.Keyframe{Time: kf.Time, Value: kf.Value, Easing: e}
	}
	return timeline.New(kfs...), nil
}

// Midi2ToSchema converts an automation layer.
func Midi2ToSchema(m beat.Midi2Timeline) Midi2Timeline {
	out := Midi2Timeline{
		TimeModel: TimeModelToSchema(m.TimeModel),
		Tracks:    []AutomationTrack{},
	}
	for _, tr := range m.Tracks() {
		kfs := tr.Keyframes()
		st := AutomationTrack{
			Channel:   tr.Channel,
			Target:    tr.Target.String(),
			Keyframes: make([]BeatKeyframe, len(kfs)),
		}
		for i, kf := range kfs {
			st.Keyframes[i] = BeatKeyframe{Beat: kf.Beat, Value: kf.Value, Easing: kf.Easing.String()}
		}
		out.Tracks = append(out.Tracks, st)
	}
	return out
}

// Midi2FromSchema validates the tempo, targets and easings of an automation
// payload and rebuilds it.
func Midi2FromSchema(s Midi2Timeline) (beat.Midi2Timeline, error) {
	model, err := TimeModelFromSchema(s.TimeModel)
	if err != nil {
		return beat.Midi2Timeline{}, err
	}

	tracks := make([]beat.AutomationTrack, len(s.Tracks))
	for i, st := range s.Tracks {
		target, err := beat.ParseTarget(st.Target)
		if err != nil {
			return beat.Midi2Timeline{}, fmt.Errorf("track %d: %w: %q", i, ErrUnknownTarget, st.Target)
		}
		kfs := make([]beat.Keyframe, len(st.Keyframes))
		for j, kf := range st.Keyframes {
			e, err := parseEasing(kf.Easing)
			if err != nil {
				return beat.Midi2Timeline{}, fmt.Errorf("track %d keyframe %d: %w", i, j, err)
			}
			kfs[j] = beat.Keyframe{Beat: kf.Beat, Value: kf.Value, Easing: e}
		}
		tracks[i] = beat.AutomationTrack{
			Channel:  st.Channel,
			Target:   target,
			Timeline: beat.NewTimeline(kfs...),
		}
	}
	return beat.NewMidi2Timeline(model, tracks...), nil
}

func TimeModelToSchema(m beat.TimeModel) TimeModel {
	return TimeModel{
		BeatsPerMinute:   m.Tempo.BeatsPerMinute(),
		BeatOffset:       m.BeatOffset,
		WallTimeOffset:   m.WallTimeOffset,
		EnableMIDI2Clock: m.EnableMIDI2Clock,
	}
}

// TimeModelFromSchema returns an error wrapping beat.ErrInvalidTempo rather
// than panicking on a bad tempo.
func TimeModelFromSchema(s TimeModel) (beat.TimeModel, error) {
	tempo, err := beat.ParseTempo(s.BeatsPerMinute)
	if err != nil {
		return beat.TimeModel{}, fmt.Errorf("timeModel: %w", err)
	}
	return beat.TimeModel{
		Tempo:            tempo,
		BeatOffset:       s.BeatOffset,
		WallTimeOffset:   s.WallTimeOffset,
		EnableMIDI2Clock: s.EnableMIDI2Clock,
	}, nil
}

func parseEasing(name string) (timeline.Easing, error) {
	if name == "" {
		return timeline.Linear, nil
	}
	e, err := timeline.ParseEasing(name)
	if err != nil {
		return timeline.Linear, fmt.Errorf("%w: %q", ErrUnknownEasing, name)
	}
	return e, nil
}

func timelinePtr(tl timeline.Timeline) *Timeline {
	s := TimelineToSchema(tl)
	return &s
}

func optionalTimeline(tl *timeline.Timeline) *Timeline {
	if tl == nil {
		return nil
	}
	return timelinePtr(*tl)
}
