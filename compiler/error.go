package compiler

import (
	"fmt"

	"github.com/coregx/vigil/rules"
)

// ConfigError wraps a per-rule compilation failure: a malformed option,
// a missing anchor, or an unresolved generic predicate.
type ConfigError struct {
	Rule *rules.Rule
	Err error
}

func (e *ConfigError) Error() string {
	if e.Rule == nil {
		return fmt.Sprintf("compiler: config error: %v", e.Err)
	}
	return fmt.Sprintf("compiler: rule %d:%d: %v", e.Rule.GID, e.Rule.SID, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// BuildError wraps a failure from the underlying MPM automaton build.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string { return fmt.Sprintf("compiler: build error: %v", e.Err) }

func (e *BuildError) Unwrap() error { return e.Err }
