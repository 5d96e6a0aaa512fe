package parser

import (
	"atf2ael/internal/position"
	"atf2ael/ir"
)

func (g *Generator) emit(in ir.Instruction) { g.prog.Append(in) }

func (g *Generator) emitBare(op int) { g.emit(ir.Instruction{Op: op}) }

func (g *Generator) emitPos(op int, pos position.Position) {
	g.emit(ir.Instruction{
		Op: op,
		Arg2: int32(pos.Line), HasArg2: true,
		Arg3: int32(pos.Col), HasArg3: true,
	})
}

// emitSub emits OpGeneric (OP=48) with the given sub-opcode, position,
// and (when > 0) arity field — the shape every expression operator
// and control-flow template marker shares (§4.5.4, §4.5.3).
func (g *Generator) emitSub(sub int, pos position.Position, arity int) {
	in := ir.Instruction{
		Op:   ir.OpGeneric,
		Arg1: int32(sub), HasArg1: true,
		Arg2: int32(pos.Line), HasArg2: true,
		Arg3: int32(pos.Col), HasArg3: true,
	}
	if arity > 0 {
		in.Arg4, in.HasArg4 = int32(arity), true
	}
	g.emit(in)
}

func (g *Generator) emitSubBare(sub int) {
	g.emit(ir.Instruction{Op: ir.OpGeneric, Arg1: int32(sub), HasArg1: true})
}

func (g *Generator) emitStr(op int, str string) {
	g.emit(ir.Instruction{Op: op, Str: str, HasStr: true})
}

// emitStrPos is emitStr plus a line number in arg1 — BEGIN_FUNCT's shape
// per §6.2 ("arg1=line, str").
func (g *Generator) emitStrPos(op int, str string, pos position.Position) {
	g.emit(ir.Instruction{
		Op: op, Str: str, HasStr: true,
		Arg1: int32(pos.Line), HasArg1: true,
	})
}

func (g *Generator) emitInt(op int, v int32) {
	g.emit(ir.Instruction{Op: op, Arg1: v, HasArg1: true})
}

func (g *Generator) emitLabel(op int, label int) {
	g.emit(ir.Instruction{Op: op, Arg1: int32(label), HasArg1: true})
}

func (g *Generator) emitLabelPos(op int, label int, pos position.Position) {
	g.emit(ir.Instruction{
		Op:   op,
		Arg1: int32(label), HasArg1: true,
		Arg2: int32(pos.Line), HasArg2: true,
		Arg3: int32(pos.Col), HasArg3: true,
	})
}

func (g *Generator) emitStmtEnd(pos position.Position) { g.emitPos(ir.OpStmtEnd, pos) }

func (g *Generator) emitNumLocal(depth int) { g.emitInt(ir.OpNumLocal, int32(depth)) }

func (g *Generator) emitDropLocal(n int) { g.emitInt(ir.OpDropLocal, int32(n)) }
