package reconstruct

import (
	"strings"

	"atf2ael/ir"
)

// tryDecl accumulates a run of ADD_LOCAL/ADD_GLOBAL instructions into
// a pending declaration group (§4.5.5). The group is flushed, with the
// inline-initializer carve-out, by preprocess once the run ends.
func (s *State) tryDecl(in ir.Instruction) bool {
	var isLocal bool
	switch in.Op {
	case ir.OpAddLocal:
		isLocal = true
	case ir.OpAddGlobal:
		isLocal = false
	default:
		return false
	}
	if s.decl != nil && s.decl.isLocal != isLocal {
		s.flushDecl()
	}
	if s.decl == nil {
		s.decl = &pendingDecl{isLocal: isLocal}
	}
	s.decl.names = append(s.decl.names, in.Str)
	s.advance(1)
	return true
}

func (s *State) flushDecl() {
	if s.decl == nil || len(s.decl.names) == 0 {
		s.decl = nil
		return
	}
	s.emitDeclLine(s.decl.names, s.decl.isLocal)
	s.decl = nil
}

func (s *State) emitDeclLine(names []string, isLocal bool) {
	s.writeIndent()
	s.out.EmitText("decl " + strings.Join(names, ", ") + ";\n")
	_ = isLocal // local-vs-global is decided by lexical depth alone in the
	// source dialect; both spellings are "decl"
}

// tryScope handles NUM_LOCAL (scope-enter/exit pair) and DROP_LOCAL
// (trailing local-count bookkeeping, never rendered). A NUM_LOCAL
// value that matches the innermost currently-open scope's own value
// is its matching exit; any other value (always one deeper) is a
// fresh enter (§4.4.5 — enterScope/exitScope emit the same depth
// value for a scope's open and close).
func (s *State) tryScope(in ir.Instruction) bool {
	switch in.Op {
	case ir.OpNumLocal:
		d := int(in.Arg1)
		if len(s.anonDepth) > 0 && s.anonDepth[len(s.anonDepth)-1] == d {
			return s.scopeExit(d)
		}
		return s.scopeEnter(d)
	case ir.OpDropLocal:
		s.advance(1)
		return true
	}
	return false
}

func (s *State) scopeEnter(d int) bool {
	s.advance(1)
	owned := s.pendingOwnedScope
	s.pendingOwnedScope = false

	if s.fn != nil && s.fn.bodyDepth == 0 {
		// The function's own top-level scope: its opening brace was
		// already printed by the defun header commit.
		s.fn.bodyDepth = d
		s.anonDepth = append(s.anonDepth, d)
		s.anonRendered = append(s.anonRendered, true)
		return true
	}

	// A standalone `{ ... }` block not owned by an if/loop/switch
	// header only gets its own brace when -AllowScopeBlocks is set;
	// otherwise it is flattened into its surrounding scope (§6.3).
	render := owned || s.allowScopeBlocks
	if render {
		s.out.EmitText(" {\n")
		s.indent++
	}
	s.anonDepth = append(s.anonDepth, d)
	s.anonRendered = append(s.anonRendered, render)
	return true
}

func (s *State) scopeExit(d int) bool {
	s.advance(1)
	s.anonDepth = s.anonDepth[:len(s.anonDepth)-1]
	rendered := s.anonRendered[len(s.anonRendered)-1]
	s.anonRendered = s.anonRendered[:len(s.anonRendered)-1]

	if s.fn != nil && s.fn.bodyDepth == d {
		s.fn.bodyDepth = 0
		s.flushEmptyListQuirk()
		return true // closing brace printed by the DEFINE_FUNCT handler
	}
	if rendered {
		s.indent--
		s.writeIndent()
		s.out.EmitText("}\n")
	}
	return true
}

// flushEmptyListQuirk recognizes the `a = {};` dialect quirk (§4.4.7):
// a bare Var left on the stack by the suppressed-ASSIGN special case,
// sitting directly before the function's LOAD_NULL;RETURN;
// DEFINE_FUNCT epilogue (with an optional DROP_LOCAL in between).
func (s *State) flushEmptyListQuirk() {
	if len(s.stack) == 0 {
		return
	}
	top := s.stack[len(s.stack)-1]
	if top.Kind != ExprVar {
		return
	}
	k := 0
	if s.at(k).Op == ir.OpDropLocal {
		k++
	}
	if s.at(k).Op == ir.OpLoadNull &&
		s.at(k+1).Op == ir.OpGeneric && s.at(k+1).Arg1 == int32(ir.SubReturn) &&
		s.at(k+2).Op == ir.OpDefineFunct {
		s.pop()
		s.writeIndent()
		s.out.EmitText(top.Name + " = {};\n")
	}
}
