// Package sampler evaluates animation trees at fixed frame rates.
package sampler

import (
	"context"
	"log"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/animkit/internal/animation"
	"github.com/ivlev/animkit/internal/beat"
	"github.com/ivlev/animkit/internal/params"
)

// chunk is the number of frames one worker evaluates per task.
const chunk = 64

// Frame is the evaluated state of one sample. Unspecified slots fall back to
// opacity 1, the origin, scale 1, no rotation and opaque black.
type Frame struct {
	Index    int                  `json:"index" yaml:"index" msgpack:"index"`
	Time     float64              `json:"time" yaml:"time" msgpack:"time"`
	Opacity  float64              `json:"opacity" yaml:"opacity" msgpack:"opacity"`
	Position params.PositionState `json:"position" yaml:"position" msgpack:"position"`
	Scale    float64              `json:"scale" yaml:"scale" msgpack:"scale"`
	Rotation float64              `json:"rotation" yaml:"rotation" msgpack:"rotation"`
	Color    params.RGBA          `json:"color" yaml:"color" msgpack:"color"`
	Hex      string               `json:"hex" yaml:"hex" msgpack:"hex"`
}

// NewFrame flattens a parameter state.
func NewFrame(index int, t float64, s params.ParameterState) Frame {
	f := Frame{
		Index:    index,
		Time:     t,
		Opacity:  1,
		Position: s.PositionOrZero(),
		Scale:    1,
		Color:    s.ColorOr(params.OpaqueBlack),
	}
	if s.Opacity != nil {
		f.Opacity = *s.Opacity
	}
	if s.Scale != nil {
		f.Scale = *s.Scale
	}
	if s.Rotation != nil {
		f.Rotation = *s.Rotation
	}
	f.Hex = f.Color.Hex()
	return f
}

// FrameTimes returns floor(duration*fps)+1 sample times i/fps, the last
// clamped to duration. A non-positive duration or fps yields [0].
func FrameTimes(duration float64, fps int) []float64 {
	if duration <= 0 || fps <= 0 {
		return []float64{0}
	}
	n := int(math.Floor(duration*float64(fps)+gridEpsilon)) + 1
	times := make([]float64, n)
	for i := range times {
		times[i] = math.Min(float64(i)/float64(fps), duration)
	}
	return times
}

// gridEpsilon keeps products such as 0.29*100 from flooring one short.
const gridEpsilon = 1e-9

// Sampler fans evaluation out over a bounded number of goroutines.
type Sampler struct {
	Workers int
	// Logger receives progress lines when set.
	Logger *log.Logger
}

// Sample evaluates a at every time in times. Frames come back in input order.
func (s Sampler) Sample(ctx context.Context, a animation.Animation, times []float64) ([]Frame, error) {
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	s.logf("[*] Sampling %d frames of a %s (%.3fs) on %d workers", len(times), a.Kind(), a.Duration(), workers)

	frames := make([]Frame, len(times))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < len(times); start += chunk {
		if gctx.Err() != nil {
			break
		}
		start, end := start, min(start+chunk, len(times))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				frames[i] = NewFrame(i, times[i], a.State(times[i]))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logf("[!] Sampling aborted: %v", err)
		return nil, err
	}
	// The loop may stop scheduling without any task observing cancellation.
	if err := ctx.Err(); err != nil {
		s.logf("[!] Sampling aborted: %v", err)
		return nil, err
	}
	s.logf("[+] Sampled %d frames", len(frames))
	return frames, nil
}

// SampleBeats evaluates a at beat positions converted through model.
func (s Sampler) SampleBeats(ctx context.Context, a animation.Animation, model beat.TimeModel, beats []float64) ([]Frame, error) {
	times := make([]float64, len(beats))
	for i, b := range beats {
		times[i] = model.Seconds(beat.BeatTime(b))
	}
	return s.Sample(ctx, a, times)
}

func (s Sampler) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}
