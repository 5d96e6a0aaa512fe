package reconstruct

import (
	"atf2ael/emitter"
	"atf2ael/internal/position"
	"atf2ael/ir"
)

// pendingDecl tracks a run of ADD_LOCAL/ADD_GLOBAL names not yet
// flushed to output (§4.5.5).
type pendingDecl struct {
	names   []string
	isLocal bool
}

// pendingFunct tracks a BEGIN_FUNCT/ADD_ARG... run not yet committed
// to a `defun name(...)` header (§4.5.6).
type pendingFunct struct {
	name            string
	params          []string
	headerCommitted bool
	bodyDepth       int // NUM_LOCAL depth of the function's own top-level
	// scope, once its enter has been seen; 0 means "not seen yet"

	hdrPos position.Position // BEGIN_FUNCT's line (§6.2's arg1=line)
}

// State is the reconstructor's working state (§3.4), threaded through
// every handler. It owns the Expr value stack, performs a strictly-
// forward, never-mutating scan over the source ir.Program, and drives
// an emitter.Emitter for output.
type State struct {
	prog *ir.Program
	pos  int

	out    *emitter.Emitter
	indent int

	stack []*Expr

	decl                *pendingDecl
	fn                  *pendingFunct
	pendingInitDeclName string // set by preprocess's inline-initializer
	// carve-out; consumed by the ASSIGN statement flush to print
	// "decl x = ...;" instead of a bare "x = ...;"

	anonDepth    []int  // NUM_LOCAL depths of currently-open scope braces
	anonRendered []bool // whether each open scope in anonDepth printed its own brace

	allowScopeBlocks  bool // -AllowScopeBlocks: render a standalone {} block as such
	pendingOwnedScope bool // set by consumeBody just before opening a header-owned body

	errs position.ErrorList
}

func newState(prog *ir.Program, out *emitter.Emitter) *State {
	return &State{prog: prog, out: out}
}

func (s *State) push(e *Expr) { s.stack = append(s.stack, e) }

func (s *State) pop() *Expr {
	if len(s.stack) == 0 {
		return nil
	}
	e := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return e
}

func (s *State) popN(n int) []*Expr {
	if n > len(s.stack) {
		n = len(s.stack)
	}
	out := make([]*Expr, n)
	copy(out, s.stack[len(s.stack)-n:])
	s.stack = s.stack[:len(s.stack)-n]
	return out
}

// at returns the instruction at s.pos+offset, or a zero-value
// instruction with Op -1 if out of range (never matches anything).
func (s *State) at(offset int) ir.Instruction {
	i := s.pos + offset
	if i < 0 || i >= len(s.prog.Instructions) {
		return ir.Instruction{Op: -1}
	}
	return s.prog.Instructions[i]
}

func (s *State) cur() ir.Instruction { return s.at(0) }

func (s *State) eof() bool { return s.pos >= len(s.prog.Instructions) }

// advance consumes n instructions.
func (s *State) advance(n int) { s.pos += n }

func (s *State) writeIndent() {
	for i := 0; i < s.indent; i++ {
		s.out.EmitText("    ")
	}
}

// writeIndentUnlessStrict is writeIndent, except in strict-pos mode
// where a preceding EmitAt call has already forward-filled the cursor
// to the IR's own recorded column: padding again with the fixed
// 4-space indent would double it.
func (s *State) writeIndentUnlessStrict() {
	if s.out.Strict() {
		return
	}
	s.writeIndent()
}

func (s *State) fail(format string, args ...interface{}) {
	s.errs.Add(position.Zero, ErrUnhandledInstruction, format, args...)
}
