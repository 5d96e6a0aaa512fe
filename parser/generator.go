// Package parser is the recursive-descent IR generator (spec.md
// §4.4). It is grounded on the teacher's parser/parser.go in shape
// only — a token-cursor-driven descent that emits into an in-memory
// program — since the teacher's own parser.go is specific to ARM
// assembly (macro expansion, symbol relocation) and has no AEL
// grammar to adapt; see DESIGN.md for why that file was replaced
// rather than generalized.
package parser

import (
	"atf2ael/internal/position"
	"atf2ael/ir"
	"atf2ael/lexer"
)

// Generator walks a token stream and emits an ir.Program. It keeps
// the "previous consumed token" and "lookahead token" positions in an
// explicit cache (posCache) rather than in lexer-owned global state,
// per spec.md §9's note on the reference's LexerPositionCache.
type Generator struct {
	lex *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token

	posCache posCache

	prog  ir.Program
	depth int

	labelSeq int

	breakLabels    []int
	continueLabels []int

	// List-literal nesting marker bookkeeping (§4.4.7): whether a
	// list has already been opened at each nesting depth since the
	// innermost enclosing container started. listDepth starts at 1
	// (the top-level expression context itself counts toward the
	// depth the reference compiler measures); see DESIGN.md for why.
	listDepth    int
	listMarkedAt map[int]bool

	// localsAtDepth[i] counts ADD_LOCAL declarations emitted since
	// the i-th currently-open block/function scope began, so the
	// matching NUM_LOCAL exit can be followed by the right DROP_LOCAL
	// count (§4.4.5).
	localsAtDepth []int

	// emptyListOverride holds the position of a `{}` literal's
	// closing brace when the statement just parsed was the `a = {};`
	// quirk (§4.4.7): the enclosing function's DEFINE_FUNCT position
	// is overridden to this instead of the natural end-of-body
	// position. Cleared once consumed by the function epilogue.
	emptyListOverride *position.Position

	errs position.ErrorList
}

// posCache mirrors the reference's last-token/lookahead-token
// position bookkeeping, owned here instead of in global state.
type posCache struct {
	lastConsumed position.Position
	lookahead    position.Position
}

// New creates a Generator over src and primes the first two tokens.
func New(src, filename string) *Generator {
	g := &Generator{
		lex:          lexer.New(src, filename),
		listMarkedAt: make(map[int]bool),
		listDepth:    1,
	}
	g.cur = g.lex.NextToken()
	g.peek = g.lex.NextToken()
	g.posCache.lookahead = g.peek.Pos
	return g
}

func (g *Generator) Errors() *position.ErrorList { return &g.errs }

// advance consumes cur, shifting peek into it and pulling a fresh
// lookahead. posCache.lastConsumed is updated to the position of the
// token that was just current (§9: a peek must not silently move the
// "current position" a caller still needs).
func (g *Generator) advance() {
	g.posCache.lastConsumed = g.cur.Pos
	g.cur = g.peek
	g.peek = g.lex.NextToken()
	g.posCache.lookahead = g.peek.Pos
}

func (g *Generator) errorf(format string, args ...interface{}) {
	g.errs.Add(g.cur.Pos, ErrUnexpectedToken, format, args...)
}

func (g *Generator) expect(tt lexer.TokenType) position.Position {
	pos := g.cur.Pos
	if g.cur.Type != tt {
		g.errorf("expected %s, got %s", tt, g.cur.Type)
		return pos
	}
	g.advance()
	return pos
}

func (g *Generator) atKeyword(word string) bool {
	return g.cur.Type == lexer.TokenKeyword && g.cur.Literal == word
}

func (g *Generator) expectKeyword(word string) position.Position {
	pos := g.cur.Pos
	if !g.atKeyword(word) {
		g.errorf("expected keyword %q, got %s", word, g.cur.Type)
		return pos
	}
	g.advance()
	return pos
}

// newLabel allocates a synthetic label id. Label identity in the IR
// is established purely by which BRANCH_TRUE/SET_LABEL instructions
// share the same arg1 value (§9: ADD_LABEL's own arg1 is not
// identity-bearing), so any monotonically increasing counter works.
func (g *Generator) newLabel() int {
	g.labelSeq++
	return g.labelSeq
}

// Parse consumes the whole token stream and returns the generated
// program, plus an error if any diagnostics were recorded.
func Parse(src, filename string) (*ir.Program, error) {
	g := New(src, filename)
	g.parseProgram()
	if g.errs.HasErrors() {
		return &g.prog, &g.errs
	}
	return &g.prog, nil
}

func (g *Generator) parseProgram() {
	for g.cur.Type != lexer.TokenEOF {
		g.parseTopLevelStatement()
	}
}
