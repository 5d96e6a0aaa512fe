package parser

import (
	"strings"

	"atf2ael/ir"
	"atf2ael/lexer"
)

func (g *Generator) parseTopLevelStatement() {
	if g.atKeyword("defun") {
		g.parseFunctionDef()
		return
	}
	g.parseStatement()
}

func (g *Generator) parseStatement() {
	switch {
	case g.atKeyword("decl"):
		g.parseDecl()
	case g.cur.Type == lexer.TokenLBrace:
		g.parseBlock()
	case g.atKeyword("if"):
		g.parseIf()
	case g.atKeyword("while"):
		g.parseWhile()
	case g.atKeyword("do"):
		g.parseDoWhile()
	case g.atKeyword("for"):
		g.parseFor()
	case g.atKeyword("switch"):
		g.parseSwitch()
	case g.atKeyword("break"):
		g.parseBreak()
	case g.atKeyword("continue"):
		g.parseContinue()
	case g.atKeyword("return"):
		g.parseReturn()
	case g.cur.Type == lexer.TokenSemi:
		g.advance() // empty statement
	default:
		g.parseExprStatement()
	}
}

// enterScope increments the lexical depth and emits the entry
// NUM_LOCAL marker (§4.4.5).
func (g *Generator) enterScope() {
	g.depth++
	g.localsAtDepth = append(g.localsAtDepth, 0)
	g.emitNumLocal(g.depth)
}

// exitScope emits the exit NUM_LOCAL marker and, if any locals were
// declared in this scope, a DROP_LOCAL for that count.
func (g *Generator) exitScope() {
	n := g.localsAtDepth[len(g.localsAtDepth)-1]
	g.localsAtDepth = g.localsAtDepth[:len(g.localsAtDepth)-1]
	g.emitNumLocal(g.depth)
	g.depth--
	if n > 0 {
		g.emitDropLocal(n)
	}
}

func (g *Generator) parseBlock() {
	g.expect(lexer.TokenLBrace)
	g.enterScope()
	for g.cur.Type != lexer.TokenRBrace && g.cur.Type != lexer.TokenEOF {
		g.parseStatement()
	}
	g.expect(lexer.TokenRBrace)
	g.exitScope()
}

// parseDecl handles `decl a, b = expr, c;` (§4.4.5): an ADD_LOCAL or
// ADD_GLOBAL per name (local vs global decided by current lexical
// depth), each optionally followed by an inline initializer.
func (g *Generator) parseDecl() {
	g.expectKeyword("decl")
	for {
		name := g.cur.Literal
		g.expect(lexer.TokenIdentifier)

		if g.depth > 0 {
			g.emitStr(ir.OpAddLocal, name)
			g.localsAtDepth[len(g.localsAtDepth)-1]++
		} else {
			g.emitStr(ir.OpAddGlobal, name)
		}

		if g.cur.Type == lexer.TokenAssign {
			pos := g.cur.Pos
			g.advance()
			g.emitStr(ir.OpLoadVar, name)
			g.parseExpr()
			g.emitSub(ir.SubAssign, pos, 2)
			g.emitStmtEnd(pos)
		}

		if g.cur.Type != lexer.TokenComma {
			break
		}
		g.advance()
	}
	g.expect(lexer.TokenSemi)
}

// parseExprStatement handles a bare expression statement, including
// the `a = {};` empty-list quirk (§4.4.7).
func (g *Generator) parseExprStatement() {
	if g.cur.Type == lexer.TokenIdentifier && g.peek.Type == lexer.TokenAssign {
		name := g.cur.Literal
		g.advance() // identifier
		assignPos := g.cur.Pos
		g.advance() // '='

		if g.cur.Type == lexer.TokenLBrace && g.peek.Type == lexer.TokenRBrace {
			closePos := g.peek.Pos
			g.advance() // '{'
			g.advance() // '}'
			g.expect(lexer.TokenSemi)
			g.emitStr(ir.OpLoadVar, name)
			g.emptyListOverride = &closePos
			return
		}

		g.emitStr(ir.OpLoadVar, name)
		g.parseAssign() // RHS; right-assoc handles any further '=' chaining
		g.emitSub(ir.SubAssign, assignPos, 2)
		pos := g.cur.Pos
		g.expect(lexer.TokenSemi)
		g.emitStmtEnd(pos)
		return
	}

	pos := g.cur.Pos
	g.parseExpr()
	g.expect(lexer.TokenSemi)
	g.emitStmtEnd(pos)
}

// parseIf handles `if (cond) then [else else-body]` (§4.4.5,
// §4.5.3's "If header" template row).
func (g *Generator) parseIf() {
	g.expectKeyword("if")
	g.expect(lexer.TokenLParen)
	condPos := g.cur.Pos
	g.parseExpr()
	g.expect(lexer.TokenRParen)

	elseLabel := g.newLabel()
	g.emitSub(ir.SubCondTest, condPos, 0)
	g.emitBare(ir.OpAddLabel)
	g.emitSub(ir.SubNot, condPos, 1)
	g.emitLabelPos(ir.OpBranchTrue, elseLabel, condPos)

	g.parseStatement()

	if g.atKeyword("else") {
		endLabel := g.newLabel()
		elsePos := g.cur.Pos
		g.emitBare(ir.OpLoadTrue)
		g.emitLabelPos(ir.OpBranchTrue, endLabel, elsePos)
		g.emitLabel(ir.OpSetLabel, elseLabel)
		g.advance() // 'else'
		g.parseStatement()
		g.emitLabel(ir.OpSetLabel, endLabel)
	} else {
		g.emitLabel(ir.OpSetLabel, elseLabel)
	}
}

// parseWhile emits the template of §4.4.5: `BEGIN_LOOP; LOOP_AGAIN;
// SET_LABEL cond; <cond>; OP=3(test); LOOP_EXIT; BRANCH_TRUE end;
// <body>; LOAD_TRUE; LOOP_AGAIN; BRANCH_TRUE cond; LOOP_EXIT;
// SET_LABEL end; END_LOOP`.
func (g *Generator) parseWhile() {
	keywordPos := g.expectKeyword("while")
	g.expect(lexer.TokenLParen)

	condLabel := g.newLabel()
	endLabel := g.newLabel()
	g.breakLabels = append(g.breakLabels, endLabel)
	g.continueLabels = append(g.continueLabels, condLabel)

	g.emitBare(ir.OpBeginLoop)
	g.emitBare(ir.OpLoopAgain)
	g.emitLabel(ir.OpSetLabel, condLabel)
	g.parseExpr()
	g.expect(lexer.TokenRParen)
	g.emitSub(ir.SubNot, keywordPos, 1)
	g.emitBare(ir.OpLoopExit)
	g.emitLabelPos(ir.OpBranchTrue, endLabel, keywordPos)

	g.parseStatement()

	g.emitBare(ir.OpLoadTrue)
	g.emitBare(ir.OpLoopAgain)
	g.emitLabelPos(ir.OpBranchTrue, condLabel, keywordPos)
	g.emitBare(ir.OpLoopExit)
	g.emitLabel(ir.OpSetLabel, endLabel)
	g.emitBare(ir.OpEndLoop)

	g.breakLabels = g.breakLabels[:len(g.breakLabels)-1]
	g.continueLabels = g.continueLabels[:len(g.continueLabels)-1]
}

// parseDoWhile handles `do body while (cond);`, interleaving the
// `while` keyword's position as the branch anchor (§4.4.5).
func (g *Generator) parseDoWhile() {
	g.expectKeyword("do")

	condLabel := g.newLabel()
	endLabel := g.newLabel()
	g.breakLabels = append(g.breakLabels, endLabel)
	g.continueLabels = append(g.continueLabels, condLabel)

	g.emitBare(ir.OpBeginLoop)
	g.emitBare(ir.OpLoopAgain)
	g.emitLabel(ir.OpSetLabel, condLabel)

	g.parseStatement()

	whilePos := g.expectKeyword("while")
	g.expect(lexer.TokenLParen)
	g.parseExpr()
	g.expect(lexer.TokenRParen)
	g.expect(lexer.TokenSemi)

	g.emitSub(ir.SubNot, whilePos, 1)
	g.emitBare(ir.OpLoopExit)
	g.emitLabelPos(ir.OpBranchTrue, endLabel, whilePos)
	g.emitBare(ir.OpLoadTrue)
	g.emitBare(ir.OpLoopAgain)
	g.emitLabelPos(ir.OpBranchTrue, condLabel, whilePos)
	g.emitBare(ir.OpLoopExit)
	g.emitLabel(ir.OpSetLabel, endLabel)
	g.emitBare(ir.OpEndLoop)

	g.breakLabels = g.breakLabels[:len(g.breakLabels)-1]
	g.continueLabels = g.continueLabels[:len(g.continueLabels)-1]
}

// parseFor handles `for(init; cond; incr) body` using four labels
// (start/exit/alt-exit/incr), per §4.4.5.
func (g *Generator) parseFor() {
	keywordPos := g.expectKeyword("for")
	g.expect(lexer.TokenLParen)

	if g.cur.Type != lexer.TokenSemi {
		pos := g.cur.Pos
		g.parseExpr()
		g.emitStmtEnd(pos)
	}
	g.expect(lexer.TokenSemi)

	startLabel := g.newLabel()
	incrLabel := g.newLabel()
	endLabel := g.newLabel()
	g.breakLabels = append(g.breakLabels, endLabel)
	g.continueLabels = append(g.continueLabels, incrLabel)

	g.emitBare(ir.OpBeginLoop)
	g.emitBare(ir.OpLoopAgain)
	g.emitLabel(ir.OpSetLabel, startLabel)
	if g.cur.Type != lexer.TokenSemi {
		g.parseExpr()
	} else {
		g.emitBare(ir.OpLoadTrue)
	}
	g.expect(lexer.TokenSemi)
	g.emitSub(ir.SubNot, keywordPos, 1)
	g.emitBare(ir.OpLoopExit)
	g.emitLabelPos(ir.OpBranchTrue, endLabel, keywordPos)

	// The incr clause sits between the parens, lexically before the
	// body, but its IR must be emitted after the body at incrLabel
	// (§4.4.5). Since this generator emits directly rather than
	// building an AST, the incr tokens are captured here and replayed
	// through a throwaway sub-generator once the body has been
	// emitted, rather than deferring a parsed-but-unemitted subtree.
	var incrToks []lexer.Token
	if g.cur.Type != lexer.TokenRParen {
		incrToks = g.captureTokensUntil(lexer.TokenRParen)
	}
	g.expect(lexer.TokenRParen)

	g.parseStatement()

	g.emitLabel(ir.OpSetLabel, incrLabel)
	if len(incrToks) > 0 {
		g.replayExpr(incrToks)
	}
	g.emitBare(ir.OpLoadTrue)
	g.emitBare(ir.OpLoopAgain)
	g.emitLabelPos(ir.OpBranchTrue, startLabel, keywordPos)
	g.emitBare(ir.OpLoopExit)
	g.emitLabel(ir.OpSetLabel, endLabel)
	g.emitBare(ir.OpEndLoop)

	g.breakLabels = g.breakLabels[:len(g.breakLabels)-1]
	g.continueLabels = g.continueLabels[:len(g.continueLabels)-1]
}

// captureTokensUntil advances past cur, collecting tokens, until cur's
// type matches stop (stop itself is left unconsumed). Used only for
// the for-loop incr clause, whose tokens must be replayed after the
// body rather than emitted in source order.
func (g *Generator) captureTokensUntil(stop lexer.TokenType) []lexer.Token {
	var toks []lexer.Token
	for g.cur.Type != stop && g.cur.Type != lexer.TokenEOF {
		toks = append(toks, g.cur)
		g.advance()
	}
	return toks
}

// tokensToText reconstructs a textual expression from captured tokens
// well enough for the lexer to re-tokenize it identically: string
// literals are re-quoted, everything else uses its literal spelling,
// joined with spaces so no two tokens accidentally fuse.
func tokensToText(toks []lexer.Token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 {
			b.WriteByte(' ')
		}
		if t.Type == lexer.TokenString {
			b.WriteByte('"')
			b.WriteString(t.Literal)
			b.WriteByte('"')
		} else {
			b.WriteString(t.Literal)
		}
	}
	return b.String()
}

// replayExpr re-parses captured incr-clause tokens through a throwaway
// sub-generator and splices the resulting instructions in at the
// current emission point. The sub-generator's label counter is seeded
// from g's so a chain operator (&&/||) or ternary inside the incr
// clause can't collide with labels already allocated in the enclosing
// generator.
func (g *Generator) replayExpr(toks []lexer.Token) {
	sub := New(tokensToText(toks), "<for-incr>")
	sub.labelSeq = g.labelSeq
	sub.parseExpr()
	g.prog.Instructions = append(g.prog.Instructions, sub.prog.Instructions...)
	g.labelSeq = sub.labelSeq
	g.errs.Errors = append(g.errs.Errors, sub.errs.Errors...)
}

func (g *Generator) parseBreak() {
	pos := g.expectKeyword("break")
	g.expect(lexer.TokenSemi)
	if len(g.breakLabels) == 0 {
		g.errs.Add(pos, ErrBreakOutsideLoop, "break outside loop or switch")
		return
	}
	target := g.breakLabels[len(g.breakLabels)-1]
	g.emitBare(ir.OpLoadTrue)
	g.emitBare(ir.OpLoopExit)
	g.emitLabelPos(ir.OpBranchTrue, target, pos)
}

func (g *Generator) parseContinue() {
	pos := g.expectKeyword("continue")
	g.expect(lexer.TokenSemi)
	if len(g.continueLabels) == 0 {
		g.errs.Add(pos, ErrContinueOutsideLoop, "continue outside loop")
		return
	}
	target := g.continueLabels[len(g.continueLabels)-1]
	g.emitBare(ir.OpLoadTrue)
	g.emitBare(ir.OpLoopAgain)
	g.emitLabelPos(ir.OpBranchTrue, target, pos)
}

// parseReturn handles `return [expr];`.
func (g *Generator) parseReturn() {
	g.expectKeyword("return")
	if g.cur.Type == lexer.TokenSemi {
		g.emitBare(ir.OpLoadNull)
	} else {
		g.parseExpr()
	}
	pos := g.cur.Pos
	g.expect(lexer.TokenSemi)
	g.emitSub(ir.SubReturn, pos, 1)
}

// parseSwitch emits the `BRANCH_TABLE`-based loop skeleton of
// §4.4.5/§4.5.3.
func (g *Generator) parseSwitch() {
	keywordPos := g.expectKeyword("switch")
	g.expect(lexer.TokenLParen)
	g.parseExpr()
	g.expect(lexer.TokenRParen)

	tableLabel := g.newLabel()
	endLabel := g.newLabel()
	g.breakLabels = append(g.breakLabels, endLabel)

	g.emitBare(ir.OpBeginLoop)
	g.emitBare(ir.OpLoopAgain)

	g.expect(lexer.TokenLBrace)
	for g.cur.Type != lexer.TokenRBrace && g.cur.Type != lexer.TokenEOF {
		switch {
		case g.atKeyword("case"):
			g.advance()
			v := int32(g.cur.IntVal)
			g.expect(lexer.TokenInt)
			g.expect(lexer.TokenColon)
			caseLabel := g.newLabel()
			g.emitInt(ir.OpAddCase, v)
			g.emitLabel(ir.OpSetLabel, caseLabel)
		case g.atKeyword("default"):
			g.advance()
			g.expect(lexer.TokenColon)
			g.emitBare(ir.OpSetLoopDefault)
		default:
			g.parseStatement()
		}
	}
	g.expect(lexer.TokenRBrace)

	g.emitBare(ir.OpLoadTrue)
	g.emitBare(ir.OpLoopExit)
	g.emitLabelPos(ir.OpBranchTrue, endLabel, keywordPos)
	g.emitBare(ir.OpLoopAgain)
	g.emitLabel(ir.OpSetLabel, tableLabel)
	g.emitPos(ir.OpBranchTable, keywordPos)
	g.emitBare(ir.OpLoopExit)
	g.emitLabel(ir.OpSetLabel, endLabel)
	g.emitBare(ir.OpEndLoop)

	g.breakLabels = g.breakLabels[:len(g.breakLabels)-1]
}

// parseFunctionDef handles `defun name(p1,...,pn) { body }`
// (§4.4.6).
func (g *Generator) parseFunctionDef() {
	hdrPos := g.expectKeyword("defun")
	name := g.cur.Literal
	g.expect(lexer.TokenIdentifier)
	g.expect(lexer.TokenLParen)

	g.emitStrPos(ir.OpBeginFunct, name, hdrPos)

	for g.cur.Type != lexer.TokenRParen {
		pname := g.cur.Literal
		g.expect(lexer.TokenIdentifier)
		g.emitStr(ir.OpAddArg, pname)
		if g.cur.Type == lexer.TokenComma {
			g.advance()
		}
	}
	g.expect(lexer.TokenRParen)

	g.expect(lexer.TokenLBrace)
	g.enterScope()
	g.emptyListOverride = nil
	for g.cur.Type != lexer.TokenRBrace && g.cur.Type != lexer.TokenEOF {
		g.parseStatement()
	}
	endPos := g.cur.Pos
	g.expect(lexer.TokenRBrace)
	g.exitScope()

	g.emitBare(ir.OpLoadNull)
	g.emitSub(ir.SubReturn, endPos, 1)

	if g.emptyListOverride != nil {
		endPos = *g.emptyListOverride
		g.emptyListOverride = nil
	}
	g.emitPos(ir.OpDefineFunct, endPos)
}
