package animation

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/ivlev/animkit/internal/beat"
	"github.com/ivlev/animkit/internal/params"
	"github.com/ivlev/animkit/internal/timeline"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func ramp(t0, v0, t1, v1 float64) timeline.Timeline {
	return timeline.New(
		timeline.Keyframe{Time: t0, Value: v0},
		timeline.Keyframe{Time: t1, Value: v1},
	)
}

func TestGroupMergesParameterStates(t *testing.T) {
	fadeIn := NewClip(1.0, WithOpacity(ramp(0, 0, 1, 1)))
	move := NewClip(1.0, WithPosition(timeline.PositionTimeline{
		X: ramp(0, 0, 1, 10),
		Y: ramp(0, 0, 1, 5),
	}))

	group := NewGroup(fadeIn, move)
	state := group.State(0.5)

	if state.Opacity == nil || !almostEqual(*state.Opacity, 0.5) {
		t.Errorf("opacity = %v, want 0.5", state.Opacity)
	}
	if state.Position == nil {
		t.Fatal("position should be set")
	}
	if !almostEqual(state.Position.X, 5) || !almostEqual(state.Position.Y, 2.5) {
		t.Errorf("position = %+v, want (5, 2.5)", *state.Position)
	}
}

func TestGroupLaterMemberWinsAndClampsPerMember(t *testing.T) {
	short := NewClip(1.0, WithOpacity(ramp(0, 0, 1, 1)), WithScale(timeline.Constant(3)))
	long := NewClip(2.0, WithOpacity(ramp(0, 5, 2, 6)))

	group := NewGroup(short, long)
	if got := group.Duration(); got != 2.0 {
		t.Errorf("group duration = %f, want 2.0", got)
	}

	state := group.State(1.5)
	if !almostEqual(*state.Opacity, 5.75) {
		t.Errorf("later member should win on opacity, got %f", *state.Opacity)
	}
	if state.Scale == nil || *state.Scale != 3 {
		t.Errorf("scale from the short member should survive, got %v", state.Scale)
	}

	reversed := NewGroup(long, short).State(1.5)
	if *reversed.Opacity != 1 {
		t.Errorf("short member clamped to its end should win when last, got %f", *reversed.Opacity)
	}
}

func TestEmptyCompositions(t *testing.T) {
	if d := NewGroup().Duration(); d != 0 {
		t.Errorf("empty group duration = %f", d)
	}
	if s := NewGroup().State(1); !s.IsEmpty() {
		t.Errorf("empty group state = %+v", s)
	}
	if d := NewSequence().Duration(); d != 0 {
		t.Errorf("empty sequence duration = %f", d)
	}
	if s := NewSequence().State(1); !s.IsEmpty() {
		t.Errorf("empty sequence state = %+v", s)
	}
}

func TestSequenceEvaluatesWithOffsets(t *testing.T) {
	fadeOut := NewClip(1.0, WithOpacity(ramp(0, 1, 1, 0)))
	scaleUp := NewClip(0.5, WithScale(ramp(0, 1, 0.5, 2)))

	seq := NewSequence(fadeOut, scaleUp)
	if !almostEqual(seq.Duration(), 1.5) {
		t.Errorf("duration = %f, want 1.5", seq.Duration())
	}

	midFade := seq.State(0.5)
	if midFade.Opacity == nil || !almostEqual(*midFade.Opacity, 0.5) {
		t.Errorf("opacity at 0.5 = %v, want 0.5", midFade.Opacity)
	}
	if midFade.Scale != nil {
		t.Errorf("scale should be absent at 0.5, got %f", *midFade.Scale)
	}

	midScale := seq.State(1.25)
	if midScale.Opacity != nil {
		t.Errorf("opacity should be absent at 1.25, got %f", *midScale.Opacity)
	}
	if midScale.Scale == nil || !almostEqual(*midScale.Scale, 1.5) {
		t.Errorf("scale at 1.25 = %v, want 1.5", midScale.Scale)
	}
}

func TestSequenceBoundaries(t *testing.T) {
	fadeOut := NewClip(1.0, WithOpacity(ramp(0, 1, 1, 0)))
	scaleUp := NewClip(0.5, WithScale(ramp(0, 1, 0.5, 2)))
	seq := NewSequence(fadeOut, scaleUp)

	tests := []struct {
		name  string
		t     float64
		index int
		local float64
	}{
		{"before start", -1, 0, 0},
		{"start", 0, 0, 0},
		{"exact boundary enters next child", 1.0, 1, 0},
		{"exact end holds last child", 1.5, 1, 0.5},
		{"past end holds last child", 9, 1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, local, ok := seq.Active(tt.t)
			if !ok {
				t.Fatal("expected an active child")
			}
			if i != tt.index || !almostEqual(local, tt.local) {
				t.Errorf("Active(%v) = (%d, %v), want (%d, %v)", tt.t, i, local, tt.index, tt.local)
			}
		})
	}

	end := seq.State(1.5)
	if end.Scale == nil || !almostEqual(*end.Scale, 2) || end.Opacity != nil {
		t.Errorf("state at end = %+v, want scale 2 only", end)
	}
}

func TestSequenceZeroDurationChildren(t *testing.T) {
	a := NewClip(1.0, WithOpacity(ramp(0, 1, 1, 0)))
	marker := NewClip(0, WithScale(timeline.Constant(5)))
	b := NewClip(1.0, WithRotation(ramp(0, 0, 1, 1)))

	seq := NewSequence(a, marker, b)
	if !almostEqual(seq.Duration(), 2.0) {
		t.Errorf("duration = %f, want 2", seq.Duration())
	}

	// Before the boundary the first child is active.
	if i, _, _ := seq.Active(0.999); i != 0 {
		t.Errorf("Active(0.999) = %d, want 0", i)
	}

	// At the boundary the zero-length marker is entered at local time 0.
	i, local, _ := seq.Active(1.0)
	if i != 1 || local != 0 {
		t.Errorf("Active(1.0) = (%d, %v), want (1, 0)", i, local)
	}
	if s := seq.State(1.0); s.Scale == nil || *s.Scale != 5 {
		t.Errorf("marker should be evaluated at the boundary, got %+v", s)
	}

	// A reached zero-length child is always entered, so it also owns every
	// later time.
	if i, _, _ := seq.Active(1.5); i != 1 {
		t.Errorf("Active(1.5) = %d, want 1", i)
	}

	leading := NewSequence(marker, a)
	if i, local, _ := leading.Active(0); i != 0 || local != 0 {
		t.Errorf("leading marker: Active(0) = (%d, %v), want (0, 0)", i, local)
	}

	trailing := NewSequence(a, marker)
	if i, _, _ := trailing.Active(0.5); i != 0 {
		t.Errorf("trailing marker: Active(0.5) = %d, want 0", i)
	}
	if i, _, _ := trailing.Active(1.0); i != 1 {
		t.Errorf("trailing marker: Active(1.0) = %d, want 1", i)
	}
	if i, _, _ := trailing.Active(3.0); i != 1 {
		t.Errorf("trailing marker: Active(3.0) = %d, want 1", i)
	}
}

func TestClipClampsTime(t *testing.T) {
	clip := NewClip(1.0, WithOpacity(ramp(0, 0, 2, 1)))
	if got := *clip.State(5).Opacity; !almostEqual(got, 0.5) {
		t.Errorf("state past duration should clamp to 1s, got %f", got)
	}
	if got := *clip.State(-3).Opacity; got != 0 {
		t.Errorf("state before 0 should clamp to 0, got %f", got)
	}
}

func TestClipExplicitTracksOverrideMidi(t *testing.T) {
	model := beat.NewTimeModel(beat.NewTempo(120))
	midi := beat.NewMidi2Timeline(model,
		beat.NewAutomationTrack(beat.TargetOpacity, beat.Keyframe{Beat: 0, Value: 0.9}),
		beat.NewAutomationTrack(beat.TargetColorR, beat.Keyframe{Beat: 0, Value: 0.7}),
		beat.NewAutomationTrack(beat.TargetRotation, beat.Keyframe{Beat: 0, Value: 1}, beat.Keyframe{Beat: 4, Value: 2}),
	)

	clip := NewClip(1.0,
		WithMidi(midi),
		WithOpacity(timeline.Constant(0.1)),
		WithColor(timeline.ColorTimeline{G: timeline.Ptr(timeline.Constant(0.4))}),
	)

	if d := clip.Duration(); d != 2.0 {
		t.Errorf("clip duration should extend to the midi duration, got %f", d)
	}

	s := clip.State(1.0)
	if *s.Opacity != 0.1 {
		t.Errorf("explicit opacity should override midi, got %f", *s.Opacity)
	}
	if want := (params.RGBA{R: 0.7, G: 0.4, A: 1}); s.Color == nil || *s.Color != want {
		t.Errorf("color = %+v, want %+v", s.Color, want)
	}
	if !almostEqual(*s.Rotation, 1.5) {
		t.Errorf("midi rotation at 1s = %f, want 1.5", *s.Rotation)
	}
	if s.Position != nil {
		t.Errorf("position should be absent, got %+v", s.Position)
	}
}

func TestClipDurationKeepsLongerExplicitDuration(t *testing.T) {
	midi := beat.NewMidi2Timeline(beat.NewTimeModel(beat.NewTempo(120)),
		beat.NewAutomationTrack(beat.TargetScale, beat.Keyframe{Beat: 4, Value: 1}))
	if d := NewClip(3.0, WithMidi(midi)).Duration(); d != 3.0 {
		t.Errorf("duration = %f, want 3", d)
	}
}

func TestClipColorDefaultsToOpaqueBlack(t *testing.T) {
	clip := NewClip(1, WithColor(timeline.ColorTimeline{B: timeline.Ptr(timeline.Constant(1))}))
	if c := clip.State(0).Color; c == nil || *c != (params.RGBA{B: 1, A: 1}) {
		t.Errorf("color = %+v, want blue on opaque black", c)
	}
}

func TestClipEvaluationUsingBeats(t *testing.T) {
	model := beat.NewTimeModel(beat.NewTempo(120))
	beats := beat.NewTimeline(
		beat.Keyframe{Beat: 0, Value: 0},
		beat.Keyframe{Beat: 4, Value: 1},
	)
	clip := NewClip(2.0,
		WithMidi(beat.NewMidi2Timeline(model, beat.AutomationTrack{Target: beat.TargetOpacity, Timeline: beats})),
		WithOpacity(beats.AsTimeline(model)),
	)

	s := clip.StateAtBeat(2, model)
	if s.Opacity == nil || !almostEqual(*s.Opacity, 0.5) {
		t.Errorf("opacity at beat 2 = %v, want 0.5", s.Opacity)
	}

	viaTree := StateAtBeat(NewSequence(clip), 2, model)
	if !viaTree.Equal(s) {
		t.Errorf("tree beat evaluation differs: %+v vs %+v", viaTree, s)
	}
}

func TestAsClip(t *testing.T) {
	clip := NewClip(1, WithScale(timeline.Constant(2)))

	got, err := AsClip(clip)
	if err != nil {
		t.Fatalf("AsClip(clip) failed: %v", err)
	}
	if got.Duration() != 1 {
		t.Errorf("unexpected clip %+v", got)
	}

	for _, composite := range []Animation{NewGroup(clip), NewSequence(clip), NewSequence()} {
		_, err := AsClip(composite)
		if !errors.Is(err, ErrUnsupportedComposition) {
			t.Errorf("AsClip(%s) error = %v, want ErrUnsupportedComposition", composite.Kind(), err)
		}
		var ce *CompositionError
		if !errors.As(err, &ce) || ce.Kind != composite.Kind() {
			t.Errorf("expected CompositionError for %s, got %v", composite.Kind(), err)
		}
	}
}

func TestNestedCompositionsRemainDeterministic(t *testing.T) {
	clip := NewClip(1.0, WithOpacity(ramp(0, 0, 1, 1)))
	nested := NewSequence(
		NewGroup(clip),
		NewGroup(NewClip(0.5, WithRotation(ramp(0, 0, 0.5, math.Pi)))),
	)

	first := nested.State(0.75)
	second := nested.State(0.75)
	if !first.Equal(second) {
		t.Errorf("repeated evaluation differs: %+v vs %+v", first, second)
	}

	var wg sync.WaitGroup
	results := make([]params.ParameterState, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = nested.State(1.2)
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		if !r.Equal(results[0]) {
			t.Errorf("concurrent evaluation %d differs: %+v", i, r)
		}
	}
}

func TestWalk(t *testing.T) {
	leaf := NewClip(1)
	tree := NewSequence(NewGroup(leaf, leaf), leaf)

	var kinds []Kind
	var depths []int
	Walk(tree, func(depth int, node Animation) {
		kinds = append(kinds, node.Kind())
		depths = append(depths, depth)
	})

	wantKinds := []Kind{KindSequence, KindGroup, KindClip, KindClip, KindClip}
	wantDepths := []int{0, 1, 2, 2, 1}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("visited %d nodes, want %d", len(kinds), len(wantKinds))
	}
	for i := range kinds {
		if kinds[i] != wantKinds[i] || depths[i] != wantDepths[i] {
			t.Errorf("node %d = %s@%d, want %s@%d", i, kinds[i], depths[i], wantKinds[i], wantDepths[i])
		}
	}
}

func TestTreeIsAValue(t *testing.T) {
	children := []Animation{NewClip(1), NewClip(2)}
	seq := NewSequence(children...)
	children[0] = NewClip(10)
	if d := seq.Duration(); d != 3 {
		t.Errorf("sequence shares caller's slice: duration %f", d)
	}
	got := seq.Children()
	got[1] = NewClip(100)
	if d := seq.Duration(); d != 3 {
		t.Errorf("sequence shares Children copy: duration %f", d)
	}
}
