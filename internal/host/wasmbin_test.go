// Copyright 2026 wasmgreet authors
// Licensed under the MIT License

package host

// A tiny wasm binary emitter, just enough to assemble the guest modules the
// runner tests need without shelling out to a toolchain.

const (
	secType   = 1
	secImport = 2
	secFunc   = 3
	secMemory = 5
	secExport = 7
	secCode   = 10
	secData   = 11
)

var wasmHeader = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func section(id byte, payload []byte) []byte {
	return cat([]byte{id}, uleb(uint32(len(payload))), payload)
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

// reactorGuest builds a reactor-style module: it imports env.eval_script,
// exports _initialize (no-op) and announce, and announce hands script to the
// host out of a data segment.
func reactorGuest(script string) []byte {
	const scriptPtr = 8

	mod := cat(nil, wasmHeader)

	// types: 0 = (i32, i32) -> (), 1 = () -> ()
	mod = append(mod, section(secType, cat(
		uleb(2),
		[]byte{0x60, 0x02, 0x7f, 0x7f, 0x00},
		[]byte{0x60, 0x00, 0x00},
	))...)

	mod = append(mod, section(secImport, cat(
		uleb(1),
		name("env"), name("eval_script"), []byte{0x00}, uleb(0),
	))...)

	// announce and _initialize, both () -> ()
	mod = append(mod, section(secFunc, cat(uleb(2), uleb(1), uleb(1)))...)

	// one memory, min 1 page
	mod = append(mod, section(secMemory, cat(uleb(1), []byte{0x00, 0x01}))...)

	// function indexes are offset by the one import
	mod = append(mod, section(secExport, cat(
		uleb(3),
		name("announce"), []byte{0x00}, uleb(1),
		name("_initialize"), []byte{0x00}, uleb(2),
		name("memory"), []byte{0x02}, uleb(0),
	))...)

	announce := cat(
		uleb(0), // no locals
		[]byte{0x41}, sleb(scriptPtr), // i32.const
		[]byte{0x41}, sleb(int32(len(script))),
		[]byte{0x10}, uleb(0), // call eval_script
		[]byte{0x0b},
	)
	initialize := cat(uleb(0), []byte{0x0b})
	mod = append(mod, section(secCode, cat(
		uleb(2),
		uleb(uint32(len(announce))), announce,
		uleb(uint32(len(initialize))), initialize,
	))...)

	mod = append(mod, section(secData, cat(
		uleb(1),
		uleb(0), []byte{0x41}, sleb(scriptPtr), []byte{0x0b},
		name(script),
	))...)

	return mod
}

// commandGuest builds a command-style module whose _start calls
// wasi proc_exit with the given code.
func commandGuest(exitCode int32) []byte {
	mod := cat(nil, wasmHeader)

	// types: 0 = (i32) -> (), 1 = () -> ()
	mod = append(mod, section(secType, cat(
		uleb(2),
		[]byte{0x60, 0x01, 0x7f, 0x00},
		[]byte{0x60, 0x00, 0x00},
	))...)

	mod = append(mod, section(secImport, cat(
		uleb(1),
		name("wasi_snapshot_preview1"), name("proc_exit"), []byte{0x00}, uleb(0),
	))...)

	mod = append(mod, section(secFunc, cat(uleb(1), uleb(1)))...)

	mod = append(mod, section(secExport, cat(
		uleb(1),
		name("_start"), []byte{0x00}, uleb(1),
	))...)

	start := cat(
		uleb(0),
		[]byte{0x41}, sleb(exitCode),
		[]byte{0x10}, uleb(0),
		[]byte{0x0b},
	)
	mod = append(mod, section(secCode, cat(
		uleb(1),
		uleb(uint32(len(start))), start,
	))...)

	return mod
}

// emptyGuest is a valid module with no exports at all.
func emptyGuest() []byte {
	return cat(nil, wasmHeader)
}
