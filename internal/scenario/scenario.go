// Package scenario reads and writes animation trees as YAML documents.
package scenario

import (
	"github.com/ivlev/animkit/internal/schema"
)

// CurrentVersion is written into every generated document.
const CurrentVersion = "1"

// Document is a complete animation scenario.
type Document struct {
	Version string `yaml:"version"`
	Name    string `yaml:"name,omitempty"`
	// Tempo is the default beats per minute for midi blocks that omit one.
	Tempo float64 `yaml:"tempo,omitempty"`
	Root  Node    `yaml:"root"`
}

// Track is a list of keyframes. A nil *Track means the property is not
// animated; an empty one is present and evaluates to 0.
type Track []schema.Keyframe

// Node is one animation node. Kind defaults to clip.
type Node struct {
	Kind     string    `yaml:"kind,omitempty"`
	Duration float64   `yaml:"duration,omitempty"`
	Opacity  *Track    `yaml:"opacity,omitempty"`
	Position *Position `yaml:"position,omitempty"`
	Scale    *Track    `yaml:"scale,omitempty"`
	Rotation *Track    `yaml:"rotation,omitempty"`
	Color    *Color    `yaml:"color,omitempty"`
	Midi     *Midi     `yaml:"midi,omitempty"`
	Children []Node    `yaml:"children,omitempty"`
}

type Position struct {
	X Track `yaml:"x"`
	Y Track `yaml:"y"`
}

// Color holds per-channel keyframes. Constant is a colour name or #rrggbb
// value that fills the channels it does not list explicitly.
type Color struct {
	Constant string `yaml:"constant,omitempty"`
	R        *Track `yaml:"r,omitempty"`
	G        *Track `yaml:"g,omitempty"`
	B        *Track `yaml:"b,omitempty"`
	A        *Track `yaml:"a,omitempty"`
}

// Midi is a beat-domain automation block.
type Midi struct {
	Tempo          float64                  `yaml:"tempo,omitempty"`
	BeatOffset     float64                  `yaml:"beatOffset,omitempty"`
	WallTimeOffset float64                  `yaml:"wallTimeOffset,omitempty"`
	Midi2Clock     bool                     `yaml:"midi2Clock,omitempty"`
	Tracks         []schema.AutomationTrack `yaml:"tracks"`
}
