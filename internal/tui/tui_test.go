package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atf2ael/ir"
)

func TestMnemonicKnownAndUnknownOpcodes(t *testing.T) {
	assert.Equal(t, "LOAD_INT", mnemonic(ir.OpLoadInt))
	assert.Equal(t, "OP<999>", mnemonic(999))
}

func TestOperandTextIncludesPresentFieldsOnly(t *testing.T) {
	in := ir.Instruction{Op: ir.OpLoadVar, Str: "x", HasStr: true}
	assert.Equal(t, `str="x"`, operandText(in))

	in2 := ir.Instruction{Op: ir.OpGeneric, Arg1: 9, HasArg1: true, Arg4: 2, HasArg4: true}
	assert.Contains(t, operandText(in2), "arg1=9")
	assert.Contains(t, operandText(in2), "arg4=2")
}

func sampleProgram() *ir.Program {
	return &ir.Program{Instructions: []ir.Instruction{
		{Op: ir.OpLoadVar, Str: "a", HasStr: true},
		{Op: ir.OpLoadInt, Arg1: 1, HasArg1: true},
		{Op: ir.OpGeneric, Arg1: ir.SubAssign, HasArg1: true, Arg4: 2, HasArg4: true},
		{Op: ir.OpStmtEnd},
		{Op: ir.OpLoadNull},
		{Op: ir.OpGeneric, Arg1: ir.SubReturn, HasArg1: true, Arg4: 1, HasArg4: true},
	}}
}

func TestNewBrowserBuildsOneListItemPerInstruction(t *testing.T) {
	b, err := NewBrowser(sampleProgram())
	require.NoError(t, err)
	assert.Equal(t, len(sampleProgram().Instructions), b.InstructionList.GetItemCount())
}

func TestSyncPreviewClampsWithinBounds(t *testing.T) {
	b, err := NewBrowser(sampleProgram())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		b.syncPreview(0)
		b.syncPreview(len(b.prog.Instructions))
		b.syncPreview(-1)
	})
}
