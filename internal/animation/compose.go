package animation

import (
	"math"

	"github.com/ivlev/animkit/internal/params"
)

// Group overlays its members on a shared time origin. Later members
// override earlier ones on the slots they both specify.
type Group struct {
	members []Animation
}

// NewGroup copies members into a new group.
func NewGroup(members ...Animation) Group {
	m := make([]Animation, len(members))
	copy(m, members)
	return Group{members: m}
}

func (Group) Kind() Kind { return KindGroup }
func (Group) sealed()    {}

// Members returns a copy of the member list.
func (g Group) Members() []Animation {
	out := make([]Animation, len(g.members))
	copy(out, g.members)
	return out
}

// Duration is the longest member duration, or 0 for an empty group.
func (g Group) Duration() float64 {
	d := 0.0
	for _, m := range g.members {
		d = math.Max(d, m.Duration())
	}
	return d
}

// State evaluates every member at t clamped to that member's duration and
// merges the results in list order.
func (g Group) State(t float64) params.ParameterState {
	var state params.ParameterState
	for _, m := range g.members {
		state.Merge(m.State(clamp(t, 0, m.Duration())))
	}
	return state
}

// Sequence plays its children back to back.
type Sequence struct {
	children []Animation
}

// NewSequence copies children into a new sequence.
func NewSequence(children ...Animation) Sequence {
	c := make([]Animation, len(children))
	copy(c, children)
	return Sequence{children: c}
}

func (Sequence) Kind() Kind { return KindSequence }
func (Sequence) sealed()    {}

// Children returns a copy of the child list.
func (s Sequence) Children() []Animation {
	out := make([]Animation, len(s.children))
	copy(out, s.children)
	return out
}

// Duration is the sum of child durations.
func (s Sequence) Duration() float64 {
	d := 0.0
	for _, c := range s.children {
		d += c.Duration()
	}
	return d
}

// Active returns the index of the child that owns time t and the local time
// to evaluate it at. A child is selected when t falls before its end, or
// when it has zero duration: a zero-length child reached by the walk is
// always entered at local time 0. Past the end, the last child is held at
// its full duration. ok is false only for an empty sequence.
func (s Sequence) Active(t float64) (index int, local float64, ok bool) {
	if len(s.children) == 0 {
		return 0, 0, false
	}

	elapsed := 0.0
	for i, c := range s.children {
		d := c.Duration()
		next := elapsed + d
		if t < next || d == 0 {
			return i, clamp(t-elapsed, 0, d), true
		}
		elapsed = next
	}

	last := len(s.children) - 1
	return last, s.children[last].Duration(), true
}

// State evaluates the active child at its local time.
func (s Sequence) State(t float64) params.ParameterState {
	i, local, ok := s.Active(t)
	if !ok {
		return params.ParameterState{}
	}
	return s.children[i].State(local)
}
