// Package vigil is the public entry point for the detection engine: a
// multi-pattern matcher and detection-option tree evaluator compiled
// once from a rule set and then scanned against packets at line rate,
// one worker thread per core.
//
// Basic usage:
//
//	cfg, err := vigil.Configure(ruleList, vigil.ThreadCount(8))
//	if err != nil {
//	  log.Fatal(err)
//	}
//	defer cfg.Shutdown()
//
//	events, err := cfg.ScanPacket(&vigil.Packet{Data: payload, ThreadID: 0})
package vigil

import (
	"sync/atomic"

	"github.com/coregx/vigil/compiler"
	"github.com/coregx/vigil/rules"
)

// Event is a recorded rule match.
type Event struct {
	GID uint32
	SID uint32
	Rev uint32
}

// Config is a compiled rule set, immutable and safe for concurrent use
// by any number of workers once Configure returns. Its resources are released via a reference-counted
// handoff: Shutdown retires the baseline reference; in-flight
// ScanPacket calls hold their own reference and the underlying
// automaton and tables are freed only once the last one drops.
type Config struct {
	compiled *compiler.Config
	threadCount int
	suspendCooldown int64

	refcount atomic.Int64
	retiring atomic.Bool
}

// Configure compiles ruleList into a ready-to-scan Config. Rule order is
// significant: it determines option-tree construction order and,
// transitively, MPM pattern insertion order.
func Configure(ruleList []rules.Rule, opts...Option) (*Config, error) {
	b := &configBuilder{threadCount: 1}
	for _, o := range opts {
		o(b)
	}

	compiled, err := compiler.Compile(ruleList, compiler.Options{
		ThreadCount: b.threadCount,
		Generics: b.generics,
	})
	if err != nil {
		return nil, err
	}

	c := &Config{compiled: compiled, threadCount: b.threadCount, suspendCooldown: b.suspendCooldown}
	c.refcount.Store(1)
	return c, nil
}

// ThreadCount returns the worker thread count this Config was compiled
// for; Packet.ThreadID passed to ScanPacket must stay within
// [0, ThreadCount).
func (c *Config) ThreadCount() int { return c.threadCount }

// Stats reports basic compiled-automaton sizing, useful for capacity
// planning and tests.
type Stats struct {
	PatternCount int
	StateCount int
	SizeofState int
}

// Stats returns sizing information about the compiled MPM automaton.
func (c *Config) Stats() Stats {
	return Stats{
		PatternCount: c.compiled.Automaton.PatternCount(),
		StateCount: c.compiled.Automaton.StateCount(),
		SizeofState: c.compiled.Automaton.SizeofState(),
	}
}

// acquire records that one more caller is using the compiled config.
// Always succeeds: a retiring config remains valid for work already in
// flight, it just has no baseline reference left once Shutdown has run.
func (c *Config) acquire() {
	c.refcount.Add(1)
}

// release drops one reference, freeing the underlying automaton and
// interning tables once the count reaches zero after retirement has
// begun.
func (c *Config) release() {
	if c.refcount.Add(-1) == 0 && c.retiring.Load() {
		c.compiled.Close()
	}
}

// Shutdown retires the config: it drops the baseline reference taken by
// Configure. Workers already inside ScanPacket finish normally; no new
// reference can meaningfully be acquired once Shutdown has run, since
// there is nothing left to point callers at.
func (c *Config) Shutdown() {
	c.retiring.Store(true)
	c.release()
}
