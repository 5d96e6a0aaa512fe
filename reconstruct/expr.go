// Package reconstruct turns an ir.Program back into AEL source text
// (spec.md §4.5). It is the mirror image of package parser: where the
// parser walks tokens and emits IR, the reconstructor walks IR and
// emits tokens, recognizing the same fixed multi-instruction templates
// the parser produces.
package reconstruct

import "atf2ael/internal/position"

// ExprKind tags the variant held by an Expr (spec.md §3.3).
type ExprKind int

const (
	ExprInt ExprKind = iota
	ExprReal
	ExprImag
	ExprStr
	ExprBool
	ExprNull
	ExprVar
	ExprList
	ExprBinOp
	ExprUnOp
	ExprCall
	ExprIndex
	ExprIncDec
	ExprTernary
)

// Expr flag bits (§3.3).
const (
	FlagLValueDup = 1 << iota
	FlagAddrOf
)

// Expr is the reconstructor's working-stack node. Only the fields
// relevant to Kind are populated; the rest are zero.
type Expr struct {
	Kind ExprKind

	IntVal  int64
	RealVal float64
	StrVal  string
	BoolVal bool

	Name string

	Items []*Expr // List items, Call args, Index indices

	Op       int32 // sub-opcode for BinOp/UnOp
	Lhs, Rhs *Expr

	Callee *Expr

	IsPrefix bool
	IsInc    bool

	Cond, Then, Else *Expr

	Flags int

	OpPos, LParenPos, ClosePos position.Position
	HasOpPos, HasLParenPos, HasClosePos bool
}

// operatorText maps a BinOp/UnOp sub-opcode to its source spelling
// (§4.5.4).
var operatorText = map[int32]string{
	10: "+", 11: "-", 12: "*", 13: "%", 14: "/", 43: "**",
	4: "==", 5: "!=", 6: ">=", 7: "<=", 8: ">", 9: "<",
	18: "&&", 19: "||",
	25: "&", 26: "^", 27: "|",
	29: "<<", 30: ">>",
	3:  "!",
	15: "-",
	16: "=",
	47: ",",
}

// precedence maps the same sub-opcodes to the numeric precedence table
// used for parenthesization (§4.5.4). Higher binds tighter.
var precedence = map[int32]int{
	16: 0, 47: 0,
	19: 1,
	18: 2,
	27: 3,
	26: 4,
	25: 5,
	4: 6, 5: 6,
	6: 7, 7: 7, 8: 7, 9: 7,
	29: 8, 30: 8,
	10: 9, 11: 9,
	12: 10, 13: 10, 14: 10,
	3: 11, 15: 11,
	43: 12,
}

// rightAssoc marks operators that associate right-to-left: assignment
// and exponentiation.
var rightAssoc = map[int32]bool{16: true, 43: true}

// commutative marks operators for which the parenthesization rule
// forces parens on a same-precedence right child to preserve tree
// shape (§4.5.4).
var commutative = map[int32]bool{10: true, 12: true, 18: true, 19: true, 25: true, 26: true, 27: true}
