// Copyright 2026 wasmgreet authors
// Licensed under the MIT License

// greeter is the wasm guest. Build it with GOOS=wasip1 GOARCH=wasm; add
// -buildmode=c-shared to get a reactor whose announce export stays callable
// after load. On native targets the binary only prints the startup line.
package main

import (
	"os"

	"github.com/wasmgreet/wasmgreet/internal/greeting"
)

func main() {
	greeting.ReportStartup(os.Stdout)
}
