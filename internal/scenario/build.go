package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/ivlev/animkit/internal/animation"
	"github.com/ivlev/animkit/internal/beat"
	"github.com/ivlev/animkit/internal/params"
	"github.com/ivlev/animkit/internal/schema"
	"github.com/ivlev/animkit/internal/timeline"
)

var (
	ErrUnknownKind   = errors.New("unknown node kind")
	ErrInvalidNode   = errors.New("invalid node")
	ErrUnknownColour = errors.New("unknown colour")
)

// Build turns a document into an animation tree.
func Build(doc *Document) (animation.Animation, error) {
	return buildNode(doc.Root, doc.Tempo, "root")
}

func buildNode(n Node, tempo float64, path string) (animation.Animation, error) {
	switch strings.ToLower(n.Kind) {
	case "", "clip":
		if len(n.Children) > 0 {
			return nil, fmt.Errorf("%s: %w: clip cannot have children", path, ErrInvalidNode)
		}
		clip, err := buildClip(n, tempo)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return clip, nil
	case "group", "sequence":
		if n.hasClipFields() {
			return nil, fmt.Errorf("%s: %w: %s cannot carry property tracks", path, ErrInvalidNode, n.Kind)
		}
		children := make([]animation.Animation, len(n.Children))
		for i, c := range n.Children {
			child, err := buildNode(c, tempo, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		if strings.EqualFold(n.Kind, "group") {
			return animation.NewGroup(children...), nil
		}
		return animation.NewSequence(children...), nil
	default:
		return nil, fmt.Errorf("%s: %w: %q", path, ErrUnknownKind, n.Kind)
	}
}

func (n Node) hasClipFields() bool {
	return n.Duration != 0 || n.Opacity != nil || n.Position != nil || n.Scale != nil ||
		n.Rotation != nil || n.Color != nil || n.Midi != nil
}

func buildClip(n Node, tempo float64) (animation.Clip, error) {
	var opts []animation.ClipOption

	if n.Opacity != nil {
		tl, err := keyframes(*n.Opacity)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("opacity: %w", err)
		}
		opts = append(opts, animation.WithOpacity(tl))
	}
	if n.Position != nil {
		x, err := keyframes(n.Position.X)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("position.x: %w", err)
		}
		y, err := keyframes(n.Position.Y)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("position.y: %w", err)
		}
		opts = append(opts, animation.WithPosition(timeline.PositionTimeline{X: x, Y: y}))
	}
	if n.Scale != nil {
		tl, err := keyframes(*n.Scale)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("scale: %w", err)
		}
		opts = append(opts, animation.WithScale(tl))
	}
	if n.Rotation != nil {
		tl, err := keyframes(*n.Rotation)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("rotation: %w", err)
		}
		opts = append(opts, animation.WithRotation(tl))
	}
	if n.Color != nil {
		ct, err := buildColor(*n.Color)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("color: %w", err)
		}
		opts = append(opts, animation.WithColor(ct))
	}
	if n.Midi != nil {
		m, err := buildMidi(*n.Midi, tempo)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("midi: %w", err)
		}
		opts = append(opts, animation.WithMidi(m))
	}

	return animation.NewClip(n.Duration, opts...), nil
}

func keyframes(t Track) (timeline.Timeline, error) {
	return schema.TimelineFromSchema(schema.Timeline{Keyframes: t})
}

func buildColor(c Color) (timeline.ColorTimeline, error) {
	var ct timeline.ColorTimeline
	if c.Constant != "" {
		rgba, err := ParseColour(c.Constant)
		if err != nil {
			return ct, err
		}
		ct.R = timeline.Ptr(timeline.Constant(rgba.R))
		ct.G = timeline.Ptr(timeline.Constant(rgba.G))
		ct.B = timeline.Ptr(timeline.Constant(rgba.B))
		ct.A = timeline.Ptr(timeline.Constant(rgba.A))
	}

	channels := []struct {
		name string
		kfs  *Track
		dst  **timeline.Timeline
	}{
		{"r", c.R, &ct.R},
		{"g", c.G, &ct.G},
		{"b", c.B, &ct.B},
		{"a", c.A, &ct.A},
	}
	for _, ch := range channels {
		if ch.kfs == nil {
			continue
		}
		tl, err := keyframes(*ch.kfs)
		if err != nil {
			return ct, fmt.Errorf("%s: %w", ch.name, err)
		}
		*ch.dst = timeline.Ptr(tl)
	}
	return ct, nil
}

// ParseColour resolves an SVG colour name ("tomato") or a #rrggbb value to
// an opaque colour.
func ParseColour(s string) (params.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return params.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColour, s)
		}
		return params.FromColorful(c, 1), nil
	}
	named, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return params.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColour, s)
	}
	c, _ := colorful.MakeColor(named)
	return params.FromColorful(c, 1), nil
}

func buildMidi(m Midi, tempo float64) (beat.Midi2Timeline, error) {
	bpm := m.Tempo
	if bpm == 0 {
		bpm = tempo
	}
	return schema.Midi2FromSchema(schema.Midi2Timeline{
		TimeModel: schema.TimeModel{
			BeatsPerMinute:   bpm,
			BeatOffset:       m.BeatOffset,
			WallTimeOffset:   m.WallTimeOffset,
			EnableMIDI2Clock: m.Midi2Clock,
		},
		Tracks: m.Tracks,
	})
}

// FromAnimation describes a tree as a document. Building the result yields
// a tree that evaluates identically.
func FromAnimation(name string, a animation.Animation) *Document {
	return &Document{
		Version: CurrentVersion,
		Name:    name,
		Root:    nodeFrom(a),
	}
}

func nodeFrom(a animation.Animation) Node {
	clip, err := animation.AsClip(a)
	if err != nil {
		n := Node{Kind: a.Kind().String()}
		for _, c := range animation.Children(a) {
			n.Children = append(n.Children, nodeFrom(c))
		}
		return n
	}

	s := schema.FromClip(clip)
	n := Node{Kind: animation.KindClip.String(), Duration: s.Duration}
	n.Opacity = trackFrom(s.Opacity)
	if s.Position != nil {
		n.Position = &Position{X: s.Position.X.Keyframes, Y: s.Position.Y.Keyframes}
	}
	n.Scale = trackFrom(s.Scale)
	n.Rotation = trackFrom(s.Rotation)
	if s.Color != nil {
		n.Color = &Color{
			R: trackFrom(s.Color.R),
			G: trackFrom(s.Color.G),
			B: trackFrom(s.Color.B),
			A: trackFrom(s.Color.A),
		}
	}
	if m := s.MidiTimeline; m != nil {
		n.Midi = &Midi{
			Tempo:          m.TimeModel.BeatsPerMinute,
			BeatOffset:     m.TimeModel.BeatOffset,
			WallTimeOffset: m.TimeModel.WallTimeOffset,
			Midi2Clock:     m.TimeModel.EnableMIDI2Clock,
			Tracks:         m.Tracks,
		}
	}
	return n
}

// trackFrom keeps an empty timeline distinct from a missing one.
func trackFrom(tl *schema.Timeline) *Track {
	if tl == nil {
		return nil
	}
	t := Track(tl.Keyframes)
	if t == nil {
		t = Track{}
	}
	return &t
}
