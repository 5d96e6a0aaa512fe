package irtext

import (
	"bytes"
	"strings"
	"testing"

	"atf2ael/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripBasic(t *testing.T) {
	var prog ir.Program
	prog.SourcePath = "foo.ael"
	prog.Append(ir.Instruction{Op: ir.OpLoadInt, Arg1: 42, HasArg1: true, Arg2: 3, HasArg2: true, Arg3: 7, HasArg3: true})
	// The stored value carries the lexer's preserved backslash escapes
	// verbatim (a bare unescaped '"' would terminate the field early).
	prog.Append(ir.Instruction{Op: ir.OpLoadStr, Str: `hello \"world\"`, HasStr: true})
	prog.Append(ir.Instruction{Op: ir.OpLoadReal, Num: 3.5, NumKind: ir.NumReal})
	prog.Append(ir.Instruction{Op: ir.OpGeneric, Arg1: ir.SubAdd, HasArg1: true, Depth: 2, HasDepth: true})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &prog))

	got, err := Parse(&buf, "out.ir")
	require.NoError(t, err)
	require.Equal(t, prog.Len(), got.Len())
	assert.Equal(t, "foo.ael", got.SourcePath)

	for i := 0; i < prog.Len(); i++ {
		assert.Equal(t, prog.At(i), got.At(i), "instruction %d mismatch", i)
	}
}

func TestParseQuotedStringWithEscapedQuote(t *testing.T) {
	// The string's stored value already contains a literal `\"` (escaped
	// quote) preserved verbatim by the lexer; the closing quote must be
	// the first one preceded by an even number of backslashes.
	src := `[0000] OP=  4 str="a\"b"  # LOAD_STR`
	prog, err := Parse(strings.NewReader(src), "t.ir")
	require.NoError(t, err)
	require.Equal(t, 1, prog.Len())
	assert.Equal(t, `a\"b`, prog.At(0).Str)
}

func TestParseHashInsideStringIsNotAComment(t *testing.T) {
	src := `[0000] OP=  4 str="a # b"  # LOAD_STR`
	prog, err := Parse(strings.NewReader(src), "t.ir")
	require.NoError(t, err)
	require.Equal(t, 1, prog.Len())
	assert.Equal(t, "a # b", prog.At(0).Str)
}

func TestParseDepthAnnotationAttachesToPrecedingInstruction(t *testing.T) {
	src := "[0000] OP=  0  # STMT_END\n    # DEPTH=3\n[0001] OP=  0  # STMT_END\n"
	prog, err := Parse(strings.NewReader(src), "t.ir")
	require.NoError(t, err)
	require.Equal(t, 2, prog.Len())
	assert.True(t, prog.At(0).HasDepth)
	assert.Equal(t, 3, prog.At(0).Depth)
	assert.False(t, prog.At(1).HasDepth)
}

func TestParseSourceHeaderOnlyRecognizedEarly(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# Source: real.ael\n")
	for i := 0; i < maxHeaderLines+5; i++ {
		sb.WriteString("[0000] OP=  0  # STMT_END\n")
	}
	sb.WriteString("# Source: late.ael\n")
	prog, err := Parse(strings.NewReader(sb.String()), "t.ir")
	require.NoError(t, err)
	assert.Equal(t, "real.ael", prog.SourcePath)
}

func TestParseLoadRealComment(t *testing.T) {
	src := `[0000] OP=  8  # LOAD_REAL val=2.5`
	prog, err := Parse(strings.NewReader(src), "t.ir")
	require.NoError(t, err)
	require.Equal(t, 1, prog.Len())
	assert.Equal(t, ir.NumReal, prog.At(0).NumKind)
	assert.InDelta(t, 2.5, prog.At(0).Num, 1e-12)
}

func TestParseMissingOpIsError(t *testing.T) {
	src := `[0000] arg1=1  # nothing`
	_, err := Parse(strings.NewReader(src), "t.ir")
	assert.Error(t, err)
}
