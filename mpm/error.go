package mpm

import (
	"errors"
	"fmt"
)

// Sentinel errors classify build-time failures. These are fatal to
// configuration load per ConfigError/BuildError taxonomy.
var (
	// ErrEmptyPattern indicates a zero-length pattern was added to a Store.
	ErrEmptyPattern = errors.New("mpm: empty pattern")

	// ErrTooManyStates indicates the pattern set would compile to more
	// states than maxStateCount allows.
	ErrTooManyStates = errors.New("mpm: too many automaton states")

	// ErrNoPatterns indicates Build was called on a Store with no patterns.
	ErrNoPatterns = errors.New("mpm: no patterns to build")

	// ErrAgentRequired indicates Build was called without an Agent, which
	// is required to resolve match lists into tree roots.
	ErrAgentRequired = errors.New("mpm: agent required to build automaton")
)

// maxStateCount caps the goto trie's size. Each state costs a full dense
// row, so the cap bounds the row table at roughly 1 GiB even at 4-byte
// cells.
const maxStateCount = 1 << 20

// BuildError wraps a build-time failure with the pattern index that
// triggered it (-1 when no single pattern is responsible).
type BuildError struct {
	PatternIndex int
	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.PatternIndex >= 0 {
		return fmt.Sprintf("mpm: build failed at pattern %d: %v", e.PatternIndex, e.Err)
	}
	return fmt.Sprintf("mpm: build failed: %v", e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *BuildError) Unwrap() error {
	return e.Err
}
