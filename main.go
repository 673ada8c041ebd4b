// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"scope/cmd"
	"scope/pkg/build"
)

// main is the entry point of the oscilloscope.
//
// 1. Startup: validate the build information and parse the command line.
// 2. Run: the selected command owns PortAudio, the display and the
// transports for its lifetime.
// 3. Shutdown: an interrupt cancels the command context; commands release
// their resources before returning.
func main() {
	if err := build.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", build.GetBuildFlags().Name, err)
		os.Exit(1)
	}
}
