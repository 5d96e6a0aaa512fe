package reconstruct

import (
	"atf2ael/internal/position"
	"atf2ael/ir"
)

// binaryArity2 lists OpGeneric sub-opcodes that combine two stack
// operands into a BinOp node when their arity field reads 2 (§4.5.4's
// operator alphabet — excludes SubAdd/SubSub, which are overloaded
// with the arity-1 IncDec shape; tryGenericExpr matches their arity-1
// and arity-2 forms in separate cases).
var binaryArity2 = map[int32]bool{
	ir.SubEq: true, ir.SubNe: true, ir.SubGe: true, ir.SubLe: true,
	ir.SubGt: true, ir.SubLt: true, ir.SubMul: true, ir.SubMod: true,
	ir.SubDiv: true, ir.SubAssign: true, ir.SubAnd: true, ir.SubOr: true,
	ir.SubBitAnd: true, ir.SubBitXor: true, ir.SubBitOr: true,
	ir.SubShl: true, ir.SubShr: true, ir.SubComma: true, ir.SubPow: true,
}

// tryExpr handles the textual expression-operator sub-opcodes of
// OpGeneric, OP_STMT_END (statement flush), and OP_BUILD_LIST.
// Control-flow template markers sharing OpGeneric's opcode space are
// always consumed by tryFlow before an instruction reaches here.
func (s *State) tryExpr(in ir.Instruction) bool {
	switch in.Op {
	case ir.OpStmtEnd:
		s.flushStmt(position.Position{Line: int(in.Arg2), Col: int(in.Arg3)})
		s.advance(1)
		return true
	case ir.OpBuildList:
		n := int(in.Arg1)
		items := s.popN(n)
		s.push(&Expr{Kind: ExprList, Items: items})
		s.advance(1)
		return true
	case ir.OpGeneric:
		return s.tryGenericExpr(in)
	}
	return false
}

func (s *State) tryGenericExpr(in ir.Instruction) bool {
	sub := in.Arg1
	arity := 0
	if in.HasArg4 {
		arity = int(in.Arg4)
	}
	opPos := position.Position{Line: int(in.Arg2), Col: int(in.Arg3)}

	switch {
	case (sub == ir.SubAdd || sub == ir.SubSub) && arity == 1:
		// `x++` / `x--` (§4.4.1 level 14, §4.4.1 level 13 prefix form):
		// the IR does not distinguish prefix from postfix, so this
		// always renders as postfix (see DESIGN.md).
		operand := s.pop()
		s.push(&Expr{Kind: ExprIncDec, Lhs: operand, IsInc: sub == ir.SubAdd,
			OpPos: opPos, HasOpPos: true})
		s.advance(1)
		return true

	case (sub == ir.SubNot || sub == ir.SubNeg) && arity == 1:
		operand := s.pop()
		s.push(&Expr{Kind: ExprUnOp, Op: sub, Rhs: operand, OpPos: opPos, HasOpPos: true})
		s.advance(1)
		return true

	case (binaryArity2[sub] || sub == ir.SubAdd || sub == ir.SubSub) && arity == 2:
		rhs := s.pop()
		lhs := s.pop()
		s.push(&Expr{Kind: ExprBinOp, Op: sub, Lhs: lhs, Rhs: rhs, OpPos: opPos, HasOpPos: true})
		s.advance(1)
		return true

	case sub == ir.SubCallOrMod:
		args := s.popN(arity)
		callee := s.pop()
		s.push(&Expr{Kind: ExprCall, Callee: callee, Items: args,
			LParenPos: opPos, HasLParenPos: true})
		s.advance(1)
		return true

	case sub == ir.SubIndex:
		idx := s.pop()
		lhs := s.pop()
		s.push(&Expr{Kind: ExprIndex, Lhs: lhs, Rhs: idx})
		s.advance(1)
		return true

	case sub == ir.SubReturn:
		// `return expr;`. A RETURN directly before DEFINE_FUNCT is the
		// function's implicit LOAD_NULL;RETURN epilogue and prints nothing.
		val := s.pop()
		s.advance(1)
		if s.cur().Op == ir.OpDefineFunct {
			return true
		}
		s.writeIndent()
		s.out.EmitText("return " + renderExpr(val, 0) + ";\n")
		return true
	}
	return false
}

// flushStmt pops the completed expression at the top of the stack and
// renders it as a statement (§4.5.2). A pending inline-initializer
// carve-out (§4.5.5) reroutes an assignment whose LHS is the just-
// declared name into "decl name = rhs;" instead of a bare assignment.
func (s *State) flushStmt(pos position.Position) {
	e := s.pop()
	if e == nil {
		return
	}
	s.out.EmitAt(pos.Line, pos.Col)
	if s.pendingInitDeclName != "" && e.Kind == ExprBinOp && e.Op == ir.SubAssign &&
		e.Lhs != nil && e.Lhs.Kind == ExprVar && e.Lhs.Name == s.pendingInitDeclName {
		s.writeIndentUnlessStrict()
		s.out.EmitText("decl " + e.Lhs.Name + " = " + renderExpr(e.Rhs, 0) + ";\n")
		s.pendingInitDeclName = ""
		return
	}
	s.writeIndentUnlessStrict()
	s.out.EmitText(renderExpr(e, 0) + ";\n")
}
