package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atf2ael/ir"
)

func ops(prog *ir.Program) []int {
	out := make([]int, len(prog.Instructions))
	for i, in := range prog.Instructions {
		out[i] = in.Op
	}
	return out
}

func subs(prog *ir.Program) []int {
	var out []int
	for _, in := range prog.Instructions {
		if in.Op == ir.OpGeneric {
			out = append(out, int(in.Arg1))
		}
	}
	return out
}

func TestSimpleIfEmitsHeaderTemplate(t *testing.T) {
	src := `if (a == 1) { b = 2; }`
	prog, err := Parse(src, "s1.ael")
	require.NoError(t, err)

	// Header: LOAD_VAR a, LOAD_INT 1, OP=48(EQ), OP=48(CondTest), ADD_LABEL,
	// OP=48(NOT), BRANCH_TRUE.
	o := ops(prog)
	assert.Contains(t, o, ir.OpAddLabel)
	assert.Contains(t, o, ir.OpBranchTrue)
	assert.Contains(t, o, ir.OpSetLabel)

	s := subs(prog)
	assert.Contains(t, s, ir.SubEq)
	assert.Contains(t, s, ir.SubCondTest)
	assert.Contains(t, s, ir.SubNot)
}

func TestShortCircuitAndSharesSingleEndLabel(t *testing.T) {
	src := `c = (a && b && d);`
	prog, err := Parse(src, "s3.ael")
	require.NoError(t, err)

	var setLabelArgs []int32
	for _, in := range prog.Instructions {
		if in.Op == ir.OpSetLabel {
			setLabelArgs = append(setLabelArgs, in.Arg1)
		}
	}
	// A 3-operand && chain still shares exactly one end label, not one
	// per '&&'.
	require.Len(t, setLabelArgs, 1)

	s := subs(prog)
	assert.Contains(t, s, ir.SubChainMarkAnd)
	assert.Contains(t, s, ir.SubChainBody)
}

func TestNestedListLiteralMarkers(t *testing.T) {
	src := `a = { { 1, 2 }, { 3, 4 } };`
	prog, err := Parse(src, "s4.ael")
	require.NoError(t, err)

	var enterCount int
	var buildLists []int32
	for _, in := range prog.Instructions {
		if in.Op == ir.OpGeneric && in.Arg1 == ir.SubListEnter {
			enterCount++
		}
		if in.Op == ir.OpBuildList {
			buildLists = append(buildLists, in.Arg1)
		}
	}
	// Two markers before the first inner list, one before the second.
	assert.Equal(t, 3, enterCount)
	// Two inner BUILD_LIST(2) plus the outer BUILD_LIST(2).
	assert.Equal(t, []int32{2, 2, 2}, buildLists)
}

func TestUnitLiteralEquivalentToExplicitMultiplier(t *testing.T) {
	unitProg, err := Parse(`W = 5 um;`, "s5a.ael")
	require.NoError(t, err)
	litProg, err := Parse(`W = 5 * 1e-6;`, "s5b.ael")
	require.NoError(t, err)

	assert.Equal(t, ops(unitProg), ops(litProg))

	var unitVal, litVal float64
	for _, in := range unitProg.Instructions {
		if in.Op == ir.OpLoadReal {
			unitVal = in.Num
		}
	}
	for _, in := range litProg.Instructions {
		if in.Op == ir.OpLoadReal {
			litVal = in.Num
		}
	}
	assert.Equal(t, litVal, unitVal)
}

func TestForLoopIncrEmittedAfterBody(t *testing.T) {
	src := `for (i = 0; i < 10; i = i + 1) { x = i; }`
	prog, err := Parse(src, "for.ael")
	require.NoError(t, err)

	var bodyIdx, incrIdx, firstIncrAssign int = -1, -1, -1
	for i, in := range prog.Instructions {
		if in.Op == ir.OpLoadVar && in.Str == "x" && bodyIdx == -1 {
			bodyIdx = i
		}
		if in.Op == ir.OpGeneric && in.Arg1 == ir.SubAssign && bodyIdx != -1 && firstIncrAssign == -1 {
			firstIncrAssign = i
		}
		_ = incrIdx
	}
	require.NotEqual(t, -1, bodyIdx)
	require.NotEqual(t, -1, firstIncrAssign)
	assert.Greater(t, firstIncrAssign, bodyIdx, "incr clause's ASSIGN must be emitted after the body")
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	_, err := Parse(`break;`, "bad.ael")
	require.Error(t, err)
}

func TestEmptyListAssignmentSuppressesAssignAndStmtEnd(t *testing.T) {
	src := `defun f() { a = {}; }`
	prog, err := Parse(src, "empty.ael")
	require.NoError(t, err)

	for _, in := range prog.Instructions {
		assert.False(t, in.Op == ir.OpGeneric && in.Arg1 == ir.SubAssign,
			"empty-list assignment must not emit ASSIGN")
		assert.False(t, in.Op == ir.OpStmtEnd,
			"empty-list assignment must not emit STMT_END")
	}
}
