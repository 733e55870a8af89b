// Package syntax parses a pattern string into a Thompson-NFA bytecode
// Program. The parser (Parse) and the Program/Inst types it produces are the
// data-model half of the engine's core: everything downstream (optimize,
// prefix, vm) operates on the Program this package hands back, never on the
// pattern text again.
package syntax

import (
	"fmt"

	"github.com/corerx/corerx/charset"
)

// Op identifies an instruction's opcode. Every Inst carries exactly the
// fields its Op needs; unused fields are zero.
type Op uint8

const (
	OpChar             Op = iota // match one rune == Rune
	OpString                     // match the literal run Str
	OpAnyNL                      // match any rune, including '\n'
	OpAnyNoNL                    // match any rune except '\n'
	OpSet                        // match membership in Set (see Negated)
	OpSave                       // store the input index into register Slot
	OpSplit                      // branch: PrimaryPC first, then SecondaryPC
	OpJump                       // unconditional jump to PC
	OpMatch                      // accept
	OpAnchorStart                // absolute start of input
	OpAnchorEnd                  // absolute end of input
	OpAnchorLineStart            // start of input or just after '\n'
	OpAnchorLineEnd              // end of input or just before '\n'
	OpWordBoundary               // ASCII word/non-word transition
	OpNotWordBoundary            // complement of OpWordBoundary
	OpGreedyLoop                 // optimizer-only: disjoint X* collapsed to one instruction
)

func (op Op) String() string {
	switch op {
	case OpChar:
		return "char"
	case OpString:
		return "string"
	case OpAnyNL:
		return "any_nl"
	case OpAnyNoNL:
		return "any_no_nl"
	case OpSet:
		return "set"
	case OpSave:
		return "save"
	case OpSplit:
		return "split"
	case OpJump:
		return "jump"
	case OpMatch:
		return "match"
	case OpAnchorStart:
		return "anchor_start"
	case OpAnchorEnd:
		return "anchor_end"
	case OpAnchorLineStart:
		return "anchor_line_start"
	case OpAnchorLineEnd:
		return "anchor_line_end"
	case OpWordBoundary:
		return "word_boundary"
	case OpNotWordBoundary:
		return "not_word_boundary"
	case OpGreedyLoop:
		return "greedy_loop"
	default:
		return fmt.Sprintf("op(%d)", op)
	}
}

// Inst is a single bytecode instruction. It is a tagged union in spirit:
// only the fields relevant to Op are meaningful for any given instruction.
type Inst struct {
	Op Op

	Rune            rune // OpChar
	Str             string
	Set             *charset.Charset // OpSet, OpGreedyLoop
	Negated         bool             // OpSet
	CaseInsensitive bool             // OpChar, OpString, OpSet, OpGreedyLoop

	// PrimaryPC/SecondaryPC: OpSplit's two epsilon targets (Primary tried
	// first — this is what encodes greedy-vs-lazy). OpJump uses PrimaryPC
	// as its sole target. OpGreedyLoop uses PrimaryPC as its exit target.
	PrimaryPC   uint32
	SecondaryPC uint32

	Slot int // OpSave
}

func (i Inst) String() string {
	switch i.Op {
	case OpChar:
		return fmt.Sprintf("char %q ci=%v", i.Rune, i.CaseInsensitive)
	case OpString:
		return fmt.Sprintf("string %q ci=%v", i.Str, i.CaseInsensitive)
	case OpSet:
		return fmt.Sprintf("set negated=%v ci=%v", i.Negated, i.CaseInsensitive)
	case OpSave:
		return fmt.Sprintf("save %d", i.Slot)
	case OpSplit:
		return fmt.Sprintf("split %d, %d", i.PrimaryPC, i.SecondaryPC)
	case OpJump:
		return fmt.Sprintf("jump %d", i.PrimaryPC)
	case OpGreedyLoop:
		return fmt.Sprintf("greedy_loop -> exit %d ci=%v", i.PrimaryPC, i.CaseInsensitive)
	default:
		return i.Op.String()
	}
}

// Program is the immutable compiled-bytecode half of a compiled pattern: an
// instruction array addressed by program counter, plus the metadata the
// parser collected about capture groups and case sensitivity.
type Program struct {
	Insts []Inst

	// NumGroups counts group 0 (the whole match) plus every user capture
	// group, so a fully unparenthesized pattern has NumGroups == 1.
	NumGroups int

	// Named maps a `(?P<name>...)` group name to its group index.
	Named map[string]int

	// HasCaseInsensitive is true if any instruction in the program is
	// case-insensitive. The VM and its fast paths do not read it; they
	// check the CaseInsensitive flag of each instruction instead.
	HasCaseInsensitive bool

	// Source is the original pattern text, kept for Regexp.String() and
	// error messages further up the stack.
	Source string

	// AltLiterals holds the literal run the parser found at the head of
	// each branch of the top-level alternation, in branch order and with
	// duplicates kept, if every branch
	// happened to start with one. It is nil whenever that shape doesn't
	// hold. This is cache for the prefilter package, never a source of
	// truth: the VM matches correctly whether or not AltLiterals is set.
	AltLiterals []string
}

// RegisterCount returns the length of the flat register vector a VM
// invocation needs for this program: 2 slots per group (start/end) plus one
// trailing slot for lastindex.
func (p *Program) RegisterCount() int {
	return 2*p.NumGroups + 1
}

// LastIndexSlot returns the index of the register vector's lastindex slot.
func (p *Program) LastIndexSlot() int {
	return 2 * p.NumGroups
}
