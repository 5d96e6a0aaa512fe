package reconstruct

import "atf2ael/ir"

// tryLoad handles every instruction that pushes a fresh Expr leaf onto
// the value stack without consuming any other stack entries (§4.5.2's
// "load" family).
func (s *State) tryLoad(in ir.Instruction) bool {
	switch in.Op {
	case ir.OpLoadInt:
		s.push(&Expr{Kind: ExprInt, IntVal: int64(in.Arg1)})
	case ir.OpLoadReal:
		s.push(&Expr{Kind: ExprReal, RealVal: in.Num})
	case ir.OpLoadImag:
		s.push(&Expr{Kind: ExprImag, RealVal: in.Num})
	case ir.OpLoadStr:
		s.push(&Expr{Kind: ExprStr, StrVal: in.Str})
	case ir.OpLoadBool:
		s.push(&Expr{Kind: ExprBool, BoolVal: in.Arg1 != 0})
	case ir.OpLoadNull:
		s.push(&Expr{Kind: ExprNull})
	case ir.OpLoadVar:
		s.push(&Expr{Kind: ExprVar, Name: in.Str})
	default:
		return false
	}
	s.advance(1)
	return true
}
