package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabExpansionAdvancesColumn(t *testing.T) {
	l := New("\tfoo", "t.ael")
	tok := l.NextToken()
	require.Equal(t, TokenIdentifier, tok.Type)
	assert.Equal(t, 5, tok.Pos.Col)
}

func TestLineCommentSkipped(t *testing.T) {
	l := New("// comment\nfoo", "t.ael")
	tok := l.NextToken()
	assert.Equal(t, TokenIdentifier, tok.Type)
	assert.Equal(t, "foo", tok.Literal)
	assert.Equal(t, 2, tok.Pos.Line)
}

func TestBlockCommentSkipped(t *testing.T) {
	l := New("/* a\nb */foo", "t.ael")
	tok := l.NextToken()
	assert.Equal(t, TokenIdentifier, tok.Type)
	assert.Equal(t, "foo", tok.Literal)
}

func TestStringEscapesPreservedVerbatim(t *testing.T) {
	l := New(`"a\"b"`, "t.ael")
	tok := l.NextToken()
	require.Equal(t, TokenString, tok.Type)
	assert.Equal(t, `a\"b`, tok.Literal)
}

func TestStringLineContinuationYieldsNoBytes(t *testing.T) {
	l := New("\"a\\\nb\"", "t.ael")
	tok := l.NextToken()
	require.Equal(t, TokenString, tok.Type)
	assert.Equal(t, "ab", tok.Literal)
}

func TestStringTruncatedAt510Bytes(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	l := New(`"`+string(long)+`"`, "t.ael")
	tok := l.NextToken()
	require.Equal(t, TokenString, tok.Type)
	assert.Len(t, tok.Literal, maxStringBytes)
}

func TestIntegerOverflowReclassifiedAsReal(t *testing.T) {
	l := New("99999999999", "t.ael")
	tok := l.NextToken()
	assert.Equal(t, TokenReal, tok.Type)
}

func TestImaginarySuffix(t *testing.T) {
	l := New("3.5i", "t.ael")
	tok := l.NextToken()
	require.Equal(t, TokenImag, tok.Type)
	assert.InDelta(t, 3.5, tok.NumVal, 1e-12)
}

func TestKeywordsCaseSensitive(t *testing.T) {
	l := New("TRUE FALSE null NULL decl", "t.ael")
	types := []TokenType{TokenBool, TokenBool, TokenNull, TokenNull, TokenKeyword}
	for _, want := range types {
		tok := l.NextToken()
		assert.Equal(t, want, tok.Type)
	}
}

func TestMultiCharOperators(t *testing.T) {
	l := New("== != <= >= && || << >> ** ++ -- += -= *= /= %=", "t.ael")
	want := []TokenType{
		TokenEq, TokenNe, TokenLe, TokenGe, TokenAndAnd, TokenOrOr,
		TokenShl, TokenShr, TokenPow, TokenIncr, TokenDecr,
		TokenPlusEq, TokenMinusEq, TokenStarEq, TokenSlashEq, TokenPercentEq,
	}
	for _, w := range want {
		tok := l.NextToken()
		assert.Equal(t, w, tok.Type)
	}
}

func TestPeekThenNextAreConsistent(t *testing.T) {
	l := New("abc def", "t.ael")
	peeked := l.PeekToken()
	next := l.NextToken()
	assert.Equal(t, peeked, next)
	second := l.NextToken()
	assert.Equal(t, "def", second.Literal)
}
