// Copyright 2026 wasmgreet authors
// Licensed under the MIT License

// Package host is a wazero-based hosting environment for the greeter module.
// It loads a compiled wasm module, services its env.eval_script import, and
// exposes the module's exported functions to the command line.
package host

import (
	"regexp"

	"github.com/rs/zerolog"
)

// Evaluator is the host's script-evaluation facility: it receives script text
// the guest asked the host to execute.
type Evaluator interface {
	Eval(script string)
}

// consoleLogRe matches the one script shape the guest is known to emit. The
// quoted payload is surfaced as a console line instead of raw script text.
var consoleLogRe = regexp.MustCompile(`^console\.log\('(.*)'\);?$`)

// Console models the hosting environment's logging console. Scripts of the
// form console.log('...'); are logged as console output; anything else is
// logged verbatim as an evaluation request. Every script is recorded in
// arrival order.
//
// Console is not safe for concurrent use; the guest instance that feeds it is
// single-goroutine anyway.
type Console struct {
	log     zerolog.Logger
	entries []string
}

func NewConsole(log zerolog.Logger) *Console {
	return &Console{log: log}
}

// Eval implements Evaluator.
func (c *Console) Eval(script string) {
	c.entries = append(c.entries, script)
	if m := consoleLogRe.FindStringSubmatch(script); m != nil {
		c.log.Info().Str("sink", "console").Msg(m[1])
		return
	}
	c.log.Info().Str("script", script).Msg("evaluate script")
}

// Evaluations returns a copy of every script received so far.
func (c *Console) Evaluations() []string {
	out := make([]string, len(c.entries))
	copy(out, c.entries)
	return out
}
