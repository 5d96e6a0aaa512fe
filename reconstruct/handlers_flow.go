package reconstruct

import (
	"bytes"
	"strconv"

	"atf2ael/emitter"
	"atf2ael/internal/position"
	"atf2ael/ir"
)

// tryFlow recognizes every fixed multi-instruction control-flow
// template (§4.5.3): short-circuit chains, if/ternary, while/do-while/
// for, switch, and break/continue. Each recognized template is
// consumed in full — including its own epilogue — before control
// returns to the caller, so none of its interior markers ever reach
// tryExpr.
func (s *State) tryFlow(in ir.Instruction) bool {
	switch {
	case in.Op == ir.OpLoadTrue:
		return s.tryBreakContinue()
	case in.Op == ir.OpAddLabel:
		return s.tryChain()
	case in.Op == ir.OpGeneric && in.Arg1 == ir.SubCondTest:
		if s.at(2).Op == ir.OpAddLabel {
			s.doTernary()
		} else {
			s.doIf(position.Position{Line: int(in.Arg2), Col: int(in.Arg3)})
		}
		return true
	case in.Op == ir.OpBeginLoop:
		if s.at(2).Op == ir.OpSetLabel {
			s.doLoop()
		} else {
			s.doSwitch()
		}
		return true
	case in.Op == ir.OpGeneric && in.Arg1 == ir.SubListEnter:
		// List-literal nesting marker: no stack effect, BUILD_LIST alone
		// rebuilds the list.
		s.advance(1)
		return true
	}
	return false
}

// tryBreakContinue recognizes `break;`/`continue;` (§4.4.5): both
// share LOAD_TRUE with the loop/switch's own repeat and exit
// epilogues, which the while/do/for/switch handlers consume directly
// rather than through doStatement — so any LOAD_TRUE reaching here is
// a user statement, distinguished from the other by which of
// LOOP_EXIT/LOOP_AGAIN follows immediately.
func (s *State) tryBreakContinue() bool {
	if s.at(1).Op == ir.OpLoopExit && s.at(2).Op == ir.OpBranchTrue && s.at(3).Op != ir.OpLoopAgain {
		s.writeIndent()
		s.out.EmitText("break;\n")
		s.advance(3)
		return true
	}
	if s.at(1).Op == ir.OpLoopAgain && s.at(2).Op == ir.OpBranchTrue && s.at(3).Op != ir.OpLoopExit {
		s.writeIndent()
		s.out.EmitText("continue;\n")
		s.advance(3)
		return true
	}
	return false
}

// tryChain recognizes one flat `a || b || c ...` or `a && b && c ...`
// run (§4.4.3/§4.5.3's chain template). The left operand is already on
// the stack by the time this is reached — it was pushed by ordinary
// dispatch before the chain's first AddLabel, the same way an if's
// condition precedes its SubCondTest marker. Combines left-
// associatively into nested BinOp nodes.
func (s *State) tryChain() bool {
	if s.at(1).Op != ir.OpGeneric {
		return false
	}
	mark := s.at(1).Arg1
	if mark != ir.SubChainMarkOr && mark != ir.SubChainMarkAnd {
		return false
	}
	withTest := mark == ir.SubChainMarkAnd
	op := int32(ir.SubOr)
	if withTest {
		op = ir.SubAnd
	}

	result := s.pop()
	for {
		s.advance(1) // AddLabel
		s.advance(1) // mark (open)
		s.advance(1) // SubChainBody
		if withTest {
			s.advance(1) // SubNot
		}
		s.advance(1) // BranchTrue(endLabel)
		s.advance(1) // SubStmtEnd (sentinel, not a real statement end)
		s.advance(1) // mark (open, repeated)

		rhs := s.parseBoundedExpr(s.stopAtGeneric(mark))
		s.advance(1) // mark (close)

		result = &Expr{Kind: ExprBinOp, Op: op, Lhs: result, Rhs: rhs}

		if s.cur().Op == ir.OpAddLabel && s.at(1).Op == ir.OpGeneric && s.at(1).Arg1 == mark {
			continue
		}
		break
	}
	s.advance(1) // SetLabel(endLabel)
	s.push(result)
	return true
}

// doIf renders `if (cond) then [else else-body]` (§4.4.5). The
// condition is already on the stack when this is entered. condPos is
// the SubCondTest marker's own position (§4.5.4), anchoring the
// emitter's strict-mode cursor at the "if" header.
func (s *State) doIf(condPos position.Position) {
	cond := s.pop()
	s.advance(1) // SubCondTest
	s.advance(1) // AddLabel
	s.advance(1) // SubNot (template's own negation, not part of cond)
	s.advance(1) // BranchTrue(elseLabel)

	s.out.EmitAt(condPos.Line, condPos.Col)
	s.writeIndentUnlessStrict()
	s.out.EmitText("if (" + renderExpr(cond, 0) + ")")
	s.consumeBody()

	if s.cur().Op == ir.OpLoadTrue {
		elsePos := position.Position{Line: int(s.at(1).Arg2), Col: int(s.at(1).Arg3)}
		s.advance(1) // LoadTrue
		s.advance(1) // BranchTrue(endLabel)
		s.advance(1) // SetLabel(elseLabel)
		s.out.EmitAt(elsePos.Line, elsePos.Col)
		s.writeIndentUnlessStrict()
		s.out.EmitText("else")
		s.consumeBody()
		s.advance(1) // SetLabel(endLabel)
		return
	}
	s.advance(1) // SetLabel(elseLabel), no else present
}

// doTernary renders `cond ? then : else` (§4.4.4's 14-instruction
// template). The condition is already on the stack when this is
// entered.
func (s *State) doTernary() {
	cond := s.pop()
	s.advance(1) // SubCondTest
	s.advance(1) // AddLabel
	s.advance(1) // AddLabel
	s.advance(1) // SubNot
	s.advance(1) // BranchTrue(falseLabel)
	s.advance(1) // SubThenMark

	then := s.parseBoundedExpr(s.stopAtGeneric(ir.SubEndThen))
	s.advance(1) // SubEndThen
	s.advance(1) // LoadTrue
	s.advance(1) // BranchTrue(endLabel)
	s.advance(1) // SetLabel(falseLabel)

	els := s.parseBoundedExpr(s.stopAtGeneric(ir.SubEndElse))
	s.advance(1) // SubEndElse
	s.advance(1) // SetLabel(endLabel)

	s.push(&Expr{Kind: ExprTernary, Cond: cond, Then: then, Else: els})
}

// doLoop handles the shared BEGIN_LOOP;LOOP_AGAIN;SET_LABEL prefix of
// while, do-while and for (§4.4.5), then dispatches on the raw-peek
// heuristic that tells a do-while's body-first shape from a
// cond-first while/for shape.
func (s *State) doLoop() {
	s.advance(1) // BeginLoop
	s.advance(1) // LoopAgain
	s.advance(1) // SetLabel(condLabel/startLabel)

	if s.condIsDoWhileShape() {
		s.doDoWhile()
		return
	}
	s.doWhileOrFor()
}

// condIsDoWhileShape scans forward, without consuming, from right
// after SET_LABEL(condLabel): if a NUM_LOCAL, STMT_END or BEGIN_LOOP
// appears before the fixed GENERIC(SubNot);LOOP_EXIT;BRANCH_TRUE
// triple, the body comes first (do-while); otherwise the condition
// comes first (while/for). Ambiguous only when a do-while's body is
// exactly `;`, `break;`, `continue;` or `return ...;` alone, since none
// of those three opcodes appear in such a body either — documented in
// DESIGN.md.
func (s *State) condIsDoWhileShape() bool {
	for k := 0; ; k++ {
		in := s.at(k)
		switch in.Op {
		case ir.OpNumLocal, ir.OpStmtEnd, ir.OpBeginLoop:
			return true
		case -1:
			return false
		case ir.OpGeneric:
			if in.Arg1 == ir.SubNot && s.at(k+1).Op == ir.OpLoopExit {
				return false
			}
		}
	}
}

func (s *State) doDoWhile() {
	s.writeIndent()
	s.out.EmitText("do")
	s.consumeBody()

	cond := s.parseBoundedExpr(func() bool {
		return s.cur().Op == ir.OpGeneric && s.cur().Arg1 == ir.SubNot && s.at(1).Op == ir.OpLoopExit
	})
	// SubNot carries the closing `while` keyword's own position (§4.4.5's
	// parseDoWhile interleaves it here), captured before it's consumed.
	whilePos := position.Position{Line: int(s.cur().Arg2), Col: int(s.cur().Arg3)}
	s.advance(1) // SubNot (template's own)
	s.advance(1) // LoopExit
	s.advance(1) // BranchTrue(endLabel)
	s.advance(1) // LoadTrue
	s.advance(1) // LoopAgain
	s.advance(1) // BranchTrue(condLabel)
	s.advance(1) // LoopExit
	s.advance(1) // SetLabel(endLabel)
	s.advance(1) // EndLoop

	s.out.EmitAt(whilePos.Line, whilePos.Col)
	s.writeIndentUnlessStrict()
	s.out.EmitText("while (" + renderExpr(cond, 0) + ");\n")
}

// doWhileOrFor renders a while or for loop. Which of the two it is
// cannot be known until the body has been fully consumed: a for's
// incr-label follows the body, a while's repeat-epilogue does not
// (§4.4.5). The body is therefore rendered into a scratch buffer first
// and spliced into the correct header once that's known.
func (s *State) doWhileOrFor() {
	cond := s.parseLoopCond()
	// SubNot always carries the "while"/"for" keyword's own position
	// (§4.4.5: emitted unconditionally, even on the omitted-cond path),
	// captured here before it's consumed.
	keywordPos := position.Position{Line: int(s.cur().Arg2), Col: int(s.cur().Arg3)}
	s.advance(1) // SubNot (template's own, or absorbs the omitted-cond path)
	s.advance(1) // LoopExit
	s.advance(1) // BranchTrue(endLabel)

	body := s.captureBody()

	if s.cur().Op == ir.OpSetLabel {
		s.advance(1) // SetLabel(incrLabel)
		incr := s.parseOptionalIncr()
		s.advance(1) // LoadTrue
		s.advance(1) // LoopAgain
		s.advance(1) // BranchTrue(startLabel)
		s.advance(1) // LoopExit
		s.advance(1) // SetLabel(endLabel)
		s.advance(1) // EndLoop

		condText, incrText := "", ""
		if cond != nil {
			condText = renderExpr(cond, 0)
		}
		if incr != nil {
			incrText = renderExpr(incr, 0)
		}
		s.out.EmitAt(keywordPos.Line, keywordPos.Col)
		s.writeIndentUnlessStrict()
		s.out.EmitText("for (; " + condText + "; " + incrText + ")")
		s.out.EmitText(body)
		return
	}

	s.advance(1) // LoadTrue
	s.advance(1) // LoopAgain
	s.advance(1) // BranchTrue(condLabel)
	s.advance(1) // LoopExit
	s.advance(1) // SetLabel(endLabel)
	s.advance(1) // EndLoop

	s.out.EmitAt(keywordPos.Line, keywordPos.Col)
	s.writeIndentUnlessStrict()
	s.out.EmitText("while (" + renderExpr(cond, 0) + ")")
	s.out.EmitText(body)
}

// parseLoopCond reads a while/for condition. A for loop may omit its
// condition entirely, in which case the parser emits a bare LOAD_TRUE
// placeholder (§4.4.5) rather than any real expression; a while's
// condition is never omitted, so this placeholder can only occur here.
func (s *State) parseLoopCond() *Expr {
	if s.cur().Op == ir.OpLoadTrue {
		s.advance(1)
		return nil
	}
	return s.parseBoundedExpr(func() bool {
		return s.cur().Op == ir.OpGeneric && s.cur().Arg1 == ir.SubNot && s.at(1).Op == ir.OpLoopExit
	})
}

// parseOptionalIncr reads a for loop's incr clause, which may be
// empty.
func (s *State) parseOptionalIncr() *Expr {
	if s.cur().Op == ir.OpLoadTrue {
		return nil
	}
	return s.parseBoundedExpr(func() bool { return s.cur().Op == ir.OpLoadTrue })
}

// captureBody runs consumeBody with output redirected to a scratch
// buffer and returns what it wrote, leaving s.indent as consumeBody
// left it. Used only to defer the while-vs-for header decision.
func (s *State) captureBody() string {
	var buf bytes.Buffer
	saved := s.out
	s.out = emitter.New(&buf, false)
	s.consumeBody()
	if err := s.out.Flush(); err != nil {
		s.fail("flush: %v", err)
	}
	s.out = saved
	return buf.String()
}

// doSwitch renders the BRANCH_TABLE-based switch skeleton (§4.4.5).
// The subject expression is already on the stack when this is
// entered, since it's parsed by ordinary dispatch before BEGIN_LOOP.
func (s *State) doSwitch() {
	cond := s.pop()
	s.advance(1) // BeginLoop
	s.advance(1) // LoopAgain

	s.writeIndent()
	s.out.EmitText("switch (" + renderExpr(cond, 0) + ") {\n")
	s.indent++

	for !s.isSwitchEpilogueStart() {
		switch {
		case s.cur().Op == ir.OpAddCase:
			v := s.cur().Arg1
			s.advance(1) // AddCase
			s.advance(1) // SetLabel(caseLabel)
			s.writeIndent()
			s.out.EmitText("case " + strconv.FormatInt(int64(v), 10) + ":\n")
		case s.cur().Op == ir.OpSetLoopDefault:
			s.advance(1)
			s.writeIndent()
			s.out.EmitText("default:\n")
		default:
			if !s.doStatement() {
				s.fail("unhandled instruction inside switch body, op=%d", s.cur().Op)
				s.advance(1)
			}
		}
	}

	s.indent--
	s.writeIndent()
	s.out.EmitText("}\n")

	s.advance(1) // LoadTrue
	s.advance(1) // LoopExit
	s.advance(1) // BranchTrue(endLabel)
	s.advance(1) // LoopAgain
	s.advance(1) // SetLabel(tableLabel)
	s.advance(1) // BranchTable
	s.advance(1) // LoopExit
	s.advance(1) // SetLabel(endLabel)
	s.advance(1) // EndLoop
}

// isSwitchEpilogueStart recognizes LOAD_TRUE;LOOP_EXIT;BRANCH_TRUE;
// LOOP_AGAIN — the switch's own fallthrough into its dispatch-table
// epilogue, identical in its first three instructions to a user
// `break;` and disambiguated solely by the fourth (§4.4.5). A `break;`
// that happens to be the switch's literal final statement is
// indistinguishable from this and is therefore swallowed rather than
// printed — harmless, since both exit the switch at the same point.
func (s *State) isSwitchEpilogueStart() bool {
	return s.cur().Op == ir.OpLoadTrue && s.at(1).Op == ir.OpLoopExit &&
		s.at(2).Op == ir.OpBranchTrue && s.at(3).Op == ir.OpLoopAgain
}
