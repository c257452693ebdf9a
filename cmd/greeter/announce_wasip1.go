// Copyright 2026 wasmgreet authors
// Licensed under the MIT License

//go:build wasip1

package main

import (
	"os"
	"unsafe"

	"github.com/wasmgreet/wasmgreet/internal/greeting"
)

// announce is located and called by name from the hosting environment after
// the module has loaded. No arguments, no result.
//
//go:wasmexport announce
func announce() {
	greeting.Announce(os.Stdout, evalScript)
}

// Host-provided script evaluation. The host reads size bytes of script text
// at ptr in linear memory.
//
//go:wasmimport env eval_script
//go:noescape
func hostEvalScript(ptr unsafe.Pointer, size uint32)

func evalScript(script string) {
	if len(script) == 0 {
		return
	}
	hostEvalScript(unsafe.Pointer(unsafe.StringData(script)), uint32(len(script)))
}
