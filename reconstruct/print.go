package reconstruct

import (
	"strconv"
	"strings"
)

// renderExpr renders e as source text, parenthesizing defensively per
// the rules of §4.5.4. parentPrec is the precedence of the enclosing
// context (0 for a statement-level expression).
func renderExpr(e *Expr, parentPrec int) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ExprInt:
		return renderInt(e.IntVal)
	case ExprReal:
		return formatReal(e.RealVal)
	case ExprImag:
		return formatImag(e.RealVal)
	case ExprStr:
		return quoteString(e.StrVal)
	case ExprBool:
		if e.BoolVal {
			return "TRUE"
		}
		return "FALSE"
	case ExprNull:
		return "null"
	case ExprVar:
		name := e.Name
		if e.Flags&FlagAddrOf != 0 {
			name = "&" + name
		}
		return name
	case ExprList:
		parts := make([]string, len(e.Items))
		for i, it := range e.Items {
			parts[i] = renderExpr(it, 0)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case ExprBinOp:
		return renderBinOp(e, parentPrec)
	case ExprUnOp:
		return renderUnOp(e, parentPrec)
	case ExprCall:
		parts := make([]string, len(e.Items))
		for i, a := range e.Items {
			parts[i] = renderExpr(a, 0)
		}
		return renderExpr(e.Callee, precedence[3]) + "(" + strings.Join(parts, ", ") + ")"
	case ExprIndex:
		return renderExpr(e.Lhs, precedence[3]) + "[" + renderExpr(e.Rhs, 0) + "]"
	case ExprIncDec:
		op := "++"
		if !e.IsInc {
			op = "--"
		}
		inner := renderExpr(e.Lhs, precedence[3])
		if e.IsPrefix {
			return op + inner
		}
		return inner + op
	case ExprTernary:
		s := renderExpr(e.Cond, 1) + " ? " + renderExpr(e.Then, 0) + " : " + renderExpr(e.Else, 0)
		if parentPrec > 0 {
			return "(" + s + ")"
		}
		return s
	}
	return ""
}

func renderInt(v int64) string { return strconv.FormatInt(v, 10) }

// renderBinOp applies the parenthesization rules of §4.5.4: a strictly
// lower-precedence child is wrapped; a same-precedence right child of a
// commutative, left-printed operator is forced into parens to preserve
// the IR's actual tree shape; '**' forces parens on a same-precedence
// left child since it is right-associative; assignment/comma
// parenthesize whenever nested under any non-statement context.
func renderBinOp(e *Expr, parentPrec int) string {
	prec := precedence[e.Op]
	opText, ok := operatorText[e.Op]
	if !ok {
		opText = "?"
	}

	// Attempt unit recovery for `lit * c`.
	if e.Op == 12 {
		if lit, ok := literalMultiplier(e); ok {
			if unit, ok := recoverUnit(lit.value); ok {
				s := renderExpr(lit.litExpr, prec) + " " + unit
				return wrapIfNeeded(s, e, parentPrec, false)
			}
		}
	}

	lhsPrec := childPrec(e.Lhs)
	rhsPrec := childPrec(e.Rhs)

	lhsParen := lhsPrec < prec
	rhsParen := rhsPrec < prec

	if rightAssoc[e.Op] {
		if e.Op == 43 && lhsPrec == prec {
			lhsParen = true
		}
	} else if commutative[e.Op] && rhsPrec == prec {
		rhsParen = true
	}

	lhsText := renderExpr(e.Lhs, prec)
	rhsText := renderExpr(e.Rhs, prec)
	if lhsParen {
		lhsText = "(" + lhsText + ")"
	}
	if rhsParen {
		rhsText = "(" + rhsText + ")"
	}

	s := lhsText + " " + opText + " " + rhsText
	return wrapIfNeeded(s, e, parentPrec, e.Op == 16 || e.Op == 47)
}

func wrapIfNeeded(s string, e *Expr, parentPrec int, isAssignOrComma bool) string {
	if isAssignOrComma && parentPrec > 0 {
		return "(" + s + ")"
	}
	prec := precedence[e.Op]
	if prec < parentPrec {
		return "(" + s + ")"
	}
	return s
}

func childPrec(e *Expr) int {
	if e == nil {
		return 99
	}
	switch e.Kind {
	case ExprBinOp:
		return precedence[e.Op]
	case ExprUnOp:
		return precedence[e.Op]
	case ExprTernary:
		return 1
	default:
		return 99
	}
}

type litMul struct {
	litExpr *Expr
	value   float64
}

// literalMultiplier recognizes `lit * c` with a numeric-literal LHS,
// for the unit-recovery rule (§4.5.4) — never for a variable LHS.
func literalMultiplier(e *Expr) (litMul, bool) {
	if e.Rhs == nil {
		return litMul{}, false
	}
	if e.Rhs.Kind != ExprReal && e.Rhs.Kind != ExprInt {
		return litMul{}, false
	}
	if e.Lhs == nil || (e.Lhs.Kind != ExprInt && e.Lhs.Kind != ExprReal) {
		return litMul{}, false
	}
	var c float64
	if e.Rhs.Kind == ExprReal {
		c = e.Rhs.RealVal
	} else {
		c = float64(e.Rhs.IntVal)
	}
	return litMul{litExpr: e.Lhs, value: c}, true
}

func renderUnOp(e *Expr, parentPrec int) string {
	opText := operatorText[e.Op]
	childText := renderExpr(e.Rhs, precedence[e.Op])
	if childPrec(e.Rhs) < precedence[e.Op] {
		childText = "(" + childText + ")"
	}
	s := opText + childText
	if precedence[e.Op] < parentPrec {
		return "(" + s + ")"
	}
	return s
}
