package corerx

import "fmt"

// Config tunes compilation limits. Every field has a zero-safe default
// (DefaultConfig), mirroring the teacher lineage's meta.Config knob struct,
// scaled down to what this engine's pure bytecode core actually has a dial
// for: no DFA state cache to bound, only a program-size budget and the
// parser's own per-pattern limits.
type Config struct {
	// MaxProgramSize bounds the number of bytecode instructions a single
	// compile may emit, guarding against a pattern author asking for a
	// multi-gigabyte program (e.g. a deeply nested {999}{999}).
	// Default: 100000
	MaxProgramSize int

	// MaxGroupNameLen bounds a `(?P<name>...)` group name, in code units.
	// Default: 32, per spec's fixed limit.
	MaxGroupNameLen int

	// MaxRepeatCount bounds a single {n,m} expansion.
	// Default: 1000
	MaxRepeatCount int

	// EnableOptimizer runs the peephole optimizer (greedy-loop collapse,
	// string folding, jump threading) after compilation. Disabling it never
	// changes a search/match/fullmatch result for any pattern and input —
	// spec's optimizer-neutrality invariant — it only costs throughput.
	// Default: true
	EnableOptimizer bool

	// EnablePrefilter builds the multi-literal Aho-Corasick automaton for
	// alternation-literal patterns (SPEC_FULL.md §2's prefilter component).
	// Default: true
	EnablePrefilter bool
}

// DefaultConfig returns the configuration Compile and MustCompile use.
func DefaultConfig() Config {
	return Config{
		MaxProgramSize:  100000,
		MaxGroupNameLen: 32,
		MaxRepeatCount:  1000,
		EnableOptimizer: true,
		EnablePrefilter: true,
	}
}

// ConfigError reports an invalid Config field passed to CompileWithConfig.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("corerx: invalid config: %s: %s", e.Field, e.Message)
}

func (c Config) validate() error {
	if c.MaxProgramSize <= 0 {
		return &ConfigError{Field: "MaxProgramSize", Message: "must be positive"}
	}
	if c.MaxGroupNameLen <= 0 {
		return &ConfigError{Field: "MaxGroupNameLen", Message: "must be positive"}
	}
	if c.MaxRepeatCount <= 0 {
		return &ConfigError{Field: "MaxRepeatCount", Message: "must be positive"}
	}
	return nil
}
