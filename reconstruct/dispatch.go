package reconstruct

import (
	"io"

	"atf2ael/emitter"
	"atf2ael/ir"
)

// Reconstruct turns prog back into AEL source text, writing it to w.
// strict selects the emitter's strict positional mode (§4.1).
// allowScopeBlocks controls whether a standalone `{ ... }` block not
// owned by an if/loop/switch header (§6.3's -AllowScopeBlocks) is
// rendered as a braced block or flattened into its surrounding scope.
// It returns a non-nil error (an *position.ErrorList under the hood)
// if any instruction could not be handled.
func Reconstruct(prog *ir.Program, w io.Writer, strict, allowScopeBlocks bool) error {
	s := newState(prog, emitter.New(w, strict))
	s.allowScopeBlocks = allowScopeBlocks
	s.runTopLevel()
	if err := s.out.Flush(); err != nil {
		s.errs.Add(s.errs.Errors[0].Pos, ErrUnhandledInstruction, "flush: %v", err)
	}
	if s.errs.HasErrors() {
		return &s.errs
	}
	return nil
}

// runTopLevel drives the top-level scan (§4.5): function definitions
// and top-level declarations/statements, in source order.
func (s *State) runTopLevel() {
	for !s.eof() {
		if s.step() {
			continue
		}
		if s.decl != nil {
			s.flushDecl()
			continue
		}
		s.fail("unhandled instruction op=%d at top level", s.cur().Op)
		s.advance(1)
	}
	if s.decl != nil {
		s.flushDecl()
	}
}

// step tries the seven handler families in the fixed order of §4.5:
// preprocess (always runs first, not itself a match), then function,
// decl, scope, load, flow, expr. The first handler that claims the
// current instruction wins.
func (s *State) step() bool {
	if s.eof() {
		return false
	}
	s.preprocess()
	if s.eof() {
		return false
	}
	in := s.cur()
	if s.tryFunction(in) {
		return true
	}
	return s.doStatement()
}

// doStatement is step() minus the function-definition handler: used
// both by step() itself and by every nested-body driver (if/loop/
// switch bodies never contain a nested defun).
func (s *State) doStatement() bool {
	if s.eof() {
		return false
	}
	in := s.cur()
	if s.tryDecl(in) {
		return true
	}
	if s.tryScope(in) {
		return true
	}
	if s.tryLoad(in) {
		return true
	}
	if s.tryFlow(in) {
		return true
	}
	if s.tryExpr(in) {
		return true
	}
	return false
}

// preprocess performs the bookkeeping steps that run ahead of every
// dispatch (§4.5.5, §4.5.6): flushing a pending declaration group once
// the run of ADD_LOCAL/ADD_GLOBAL ends, and committing a pending
// defun header once the run of ADD_ARG ends.
func (s *State) preprocess() {
	if s.fn != nil && !s.fn.headerCommitted && s.cur().Op != ir.OpAddArg {
		s.commitFunctHeader()
	}
	if s.decl != nil && len(s.decl.names) > 0 {
		in := s.cur()
		isDeclOp := in.Op == ir.OpAddLocal || in.Op == ir.OpAddGlobal
		if !isDeclOp {
			last := s.decl.names[len(s.decl.names)-1]
			if in.Op == ir.OpLoadVar && in.Str == last {
				held := s.decl.names[:len(s.decl.names)-1]
				if len(held) > 0 {
					s.emitDeclLine(held, s.decl.isLocal)
				}
				s.pendingInitDeclName = last
				s.decl = nil
			} else {
				s.flushDecl()
			}
		}
	}
}

// consumeBody renders the single statement or braced block following
// a control-flow header (§4.5.3), mirroring parser.parseStatement's
// single-call shape: a braced block is delimited by a NUM_LOCAL enter/
// exit pair and may contain any number of statements; an unbraced body
// is exactly one.
func (s *State) consumeBody() {
	if s.cur().Op == ir.OpNumLocal {
		depthBefore := len(s.anonDepth)
		s.pendingOwnedScope = true
		s.tryScope(s.cur())
		for len(s.anonDepth) > depthBefore {
			if !s.doStatement() {
				break
			}
		}
		return
	}
	s.out.EmitText("\n")
	s.indent++
	s.doStatement()
	s.indent--
}

// parseBoundedExpr drives doStatement repeatedly until the Expr stack
// has grown by exactly one relative to its length when called AND stop
// reports true for the instruction now at the cursor. A nested
// occurrence of the same boundary shape (e.g. a ternary nested inside
// a ternary's then-clause) is fully consumed by a recursive invocation
// of this same recognizer triggered from within doStatement's
// dispatch, so a remaining boundary match at this level can only
// belong to this call's own template.
//
// stop takes no argument and reads the cursor itself (via s.cur/s.at)
// rather than a fixed (op, arg1) pair, because one caller — the
// while/do/for condition boundary — cannot be recognized by shape
// alone: a condition ending in a real `!` emits the identical
// GENERIC(SubNot) the loop template itself appends as its own test,
// and only a further peek (is LOOP_EXIT next?) tells them apart.
func (s *State) parseBoundedExpr(stop func() bool) *Expr {
	baseline := len(s.stack)
	for {
		if len(s.stack) == baseline+1 && stop() {
			break
		}
		if !s.doStatement() {
			break
		}
	}
	return s.pop()
}

// stopAtGeneric builds a parseBoundedExpr boundary predicate matching
// a bare OpGeneric sentinel with the given sub-opcode — used by every
// boundary except the while/do/for condition, where shape alone is not
// enough (see parseBoundedExpr's doc comment).
func (s *State) stopAtGeneric(sub int32) func() bool {
	return func() bool {
		return s.cur().Op == ir.OpGeneric && s.cur().Arg1 == sub
	}
}
