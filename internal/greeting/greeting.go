// Copyright 2026 wasmgreet authors
// Licensed under the MIT License

// Package greeting holds the two fixed messages this module emits and the
// logic for emitting them. The host script-evaluation call is modeled as an
// injected capability so the package can be exercised without a wasm host.
package greeting

import (
	"fmt"
	"io"
)

const (
	// Greeting is printed by the greeter's exported entry point.
	Greeting = "Hello, World from WebAssembly!"

	// StartupMessage is printed once at process start.
	StartupMessage = "Hello, World (startup)"

	// ConsoleScript is handed to the hosting environment for evaluation, so
	// the same greeting also shows up on the host's logging console.
	ConsoleScript = "console.log('" + Greeting + "');"
)

// Announce writes the greeting to w, then asks the host to evaluate
// ConsoleScript. eval is the host's script-evaluation capability; a nil eval
// means no host is attached and the script is not sent anywhere.
func Announce(w io.Writer, eval func(script string)) {
	fmt.Fprintln(w, Greeting)
	if eval != nil {
		eval(ConsoleScript)
	}
}

// ReportStartup writes the startup line to w.
func ReportStartup(w io.Writer) {
	fmt.Fprintln(w, StartupMessage)
}
