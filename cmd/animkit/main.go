// Command animkit evaluates animation scenarios.
//
// Usage:
//
//	animkit [flags] <command> [args]
//
// Commands:
//
//	sample       - Sample a scenario into frames (json, yaml, msgpack)
//	inspect      - Print the animation tree of a scenario
//	convert      - Print the wire schema of a single-clip scenario
//	import-midi  - Build a scenario from MIDI controller automation
//	export-midi  - Write a clip's automation as a MIDI file
//	version      - Show version information
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ivlev/animkit/cmd/animkit/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
