// Package corerx is the façade the CORE's three packages (syntax, optimize,
// vm) are built to serve: a Python-`re`-compatible, RE2-subset regular
// expression engine with linear-time matching guarantees.
//
// The façade itself holds no NFA or bytecode logic. Compile runs a pattern
// through syntax.Parse, optionally optimize.Program, and hands the result to
// vm.New; every subsequent search/match/fullmatch is the VM's three
// documented executors, and every result the façade returns is built
// straight from the register vector they hand back.
package corerx

import (
	"fmt"

	"github.com/corerx/corerx/optimize"
	"github.com/corerx/corerx/syntax"
	"github.com/corerx/corerx/vm"
)

// Regexp is a compiled regular expression. It is immutable after Compile
// returns and safe for concurrent use by multiple goroutines, matching
// spec.md §5's concurrency model: only per-call state lives in the VM's
// call frame, never in the Regexp itself.
type Regexp struct {
	source string
	prog   *syntax.Program
	engine *vm.VM
}

// Compile parses and compiles pattern, returning an error if it uses a
// construct outside the supported subset (spec.md §7's UnsupportedFeature /
// BadEscape / BadGroupName / BadRepetition error kinds).
func Compile(pattern string) (*Regexp, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is Compile, panicking on error. Intended for patterns fixed
// at program-init time.
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("corerx: Compile(%q): %v", pattern, err))
	}
	return re
}

// CompileWithConfig is Compile with the parser's group-name-length and
// repeat-count limits, and the optimizer/prefilter stages, overridden by
// config.
func CompileWithConfig(pattern string, config Config) (*Regexp, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	prog, err := syntax.ParseWithLimits(pattern, config.MaxGroupNameLen, config.MaxRepeatCount)
	if err != nil {
		return nil, err
	}
	if len(prog.Insts) > config.MaxProgramSize {
		return nil, &ConfigError{Field: "MaxProgramSize", Message: fmt.Sprintf("pattern %q compiled to %d instructions, exceeding the %d-instruction budget", pattern, len(prog.Insts), config.MaxProgramSize)}
	}

	if config.EnableOptimizer {
		prog = optimize.Program(prog)
	}

	return &Regexp{
		source: pattern,
		prog:   prog,
		engine: vm.NewWithOptions(prog, config.EnablePrefilter),
	}, nil
}

// String returns the source text the Regexp was compiled from.
func (re *Regexp) String() string {
	return re.source
}

// NumSubexp returns the number of capturing groups, not counting group 0
// (the whole match).
func (re *Regexp) NumSubexp() int {
	return re.prog.NumGroups - 1
}

// SubexpNames returns a slice the length of NumSubexp()+1, where index i
// holds the name of group i, or "" if group i is unnamed or is group 0.
func (re *Regexp) SubexpNames() []string {
	names := make([]string, re.prog.NumGroups)
	for name, idx := range re.prog.Named {
		if idx >= 0 && idx < len(names) {
			names[idx] = name
		}
	}
	return names
}

// Stats reports how many searches each VM layer handled: fast-path hits,
// Aho-Corasick prefilter hits (confirmed or not, plus IsMatch calls the
// prefilter ruled out), and general-simulator runs. It is
// telemetry only, per spec.md §5 carrying no behavioral weight.
func (re *Regexp) Stats() (fastPathHits, prefilterHits, simulatorRuns uint64) {
	return re.engine.Stats()
}

// Search runs an unanchored leftmost-first search for the first match
// starting at or after the rune index start, Python re.search's contract.
func (re *Regexp) Search(s string, start int) *Match {
	return re.fromRegs(s, re.engine.Find(s, start))
}

// MatchAt anchors the search to exactly the rune index start, Python
// re.match's contract.
func (re *Regexp) MatchAt(s string, start int) *Match {
	return re.fromRegs(s, re.engine.MatchAt(s, start))
}

// FullMatchAt anchors to start and additionally requires the match to
// consume every rune through the rune index end, Python re.fullmatch's
// contract (including its pos/endpos parameters).
func (re *Regexp) FullMatchAt(s string, start, end int) *Match {
	return re.fromRegs(s, re.engine.FullMatchAt(s, start, end))
}

func (re *Regexp) fromRegs(s string, regs []int) *Match {
	if regs == nil {
		return nil
	}
	return &Match{re: re, text: s, regs: regs}
}

// MatchString reports whether s contains any match of re. It is cheaper than
// Search(s, 0) != nil whenever re has a literal prefilter: engine.IsMatch can
// rule out a match with the Aho-Corasick automaton alone, with no simulator
// run at all.
func (re *Regexp) MatchString(s string) bool {
	return re.engine.IsMatch(s)
}

// Match reports whether b contains any match of re.
func (re *Regexp) Match(b []byte) bool {
	return re.MatchString(string(b))
}
