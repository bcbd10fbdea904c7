// Package animation composes timelines into evaluable animation trees.
//
// An Animation is one of three node kinds: a Clip evaluates its own
// timelines, a Group overlays members that share a time origin, and a
// Sequence chains children one after another. Trees are immutable values;
// the same tree may be evaluated concurrently from any number of goroutines.
package animation

import (
	"errors"
	"fmt"

	"github.com/ivlev/animkit/internal/beat"
	"github.com/ivlev/animkit/internal/params"
)

// Kind names the variant of an Animation node.
type Kind uint8

const (
	KindClip Kind = iota
	KindGroup
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindClip:
		return "clip"
	case KindGroup:
		return "group"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Animation is the closed set {Clip, Group, Sequence}. The unexported method
// keeps other packages from adding variants.
type Animation interface {
	Kind() Kind
	// Duration is the node's length in seconds.
	Duration() float64
	// State evaluates the node at t seconds. It never fails.
	State(t float64) params.ParameterState

	sealed()
}

// ErrUnsupportedComposition reports that a group or sequence was passed where
// only a single clip can be represented.
var ErrUnsupportedComposition = errors.New("unsupported composition")

// CompositionError carries the kind of composite node that was rejected.
type CompositionError struct {
	Kind Kind
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("%s: %s nodes cannot be represented as a single clip", ErrUnsupportedComposition, e.Kind)
}

func (e *CompositionError) Is(target error) bool {
	return target == ErrUnsupportedComposition
}

// AsClip narrows a to its primitive clip. Groups and sequences are never
// flattened; they yield a *CompositionError.
func AsClip(a Animation) (Clip, error) {
	switch n := a.(type) {
	case Clip:
		return n, nil
	case *Clip:
		return *n, nil
	case Group, *Group, Sequence, *Sequence:
		return Clip{}, &CompositionError{Kind: a.Kind()}
	default:
		return Clip{}, fmt.Errorf("unknown animation node %T", a)
	}
}

// StateAtBeat converts b to seconds with model and evaluates a there.
func StateAtBeat(a Animation, b beat.BeatTime, model beat.TimeModel) params.ParameterState {
	return a.State(model.Seconds(b))
}

// Children returns the direct children of a composite node, or nil for a clip.
func Children(a Animation) []Animation {
	switch n := a.(type) {
	case Group:
		return n.Members()
	case *Group:
		return n.Members()
	case Sequence:
		return n.Children()
	case *Sequence:
		return n.Children()
	default:
		return nil
	}
}

// Walk visits a and its descendants depth-first, parents before children.
func Walk(a Animation, fn func(depth int, node Animation)) {
	walk(a, 0, fn)
}

func walk(a Animation, depth int, fn func(int, Animation)) {
	fn(depth, a)
	for _, c := range Children(a) {
		walk(c, depth+1, fn)
	}
}

func clamp(t, lo, hi float64) float64 {
	if t > hi {
		t = hi
	}
	if t < lo {
		t = lo
	}
	return t
}
