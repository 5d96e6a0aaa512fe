package reconstruct

import (
	"strings"

	"atf2ael/internal/position"
	"atf2ael/ir"
)

// tryFunction handles BEGIN_FUNCT/ADD_ARG/DEFINE_FUNCT (§4.5.6). Only
// tried at the top level: the dialect has no nested function
// definitions.
func (s *State) tryFunction(in ir.Instruction) bool {
	switch in.Op {
	case ir.OpBeginFunct:
		s.fn = &pendingFunct{name: in.Str, hdrPos: position.Position{Line: int(in.Arg1)}}
		s.advance(1)
		return true
	case ir.OpAddArg:
		if s.fn != nil {
			s.fn.params = append(s.fn.params, in.Str)
		}
		s.advance(1)
		return true
	case ir.OpDefineFunct:
		s.advance(1)
		s.out.EmitAt(int(in.Arg2), int(in.Arg3))
		s.indent--
		s.writeIndentUnlessStrict()
		s.out.EmitText("}\n")
		s.fn = nil
		return true
	}
	return false
}

// commitFunctHeader writes `defun name(p1, ...) {` once the run of
// ADD_ARG instructions following a BEGIN_FUNCT ends (§4.5.6) — the
// first non-ADD_ARG instruction is always the function body's own
// NUM_LOCAL enter, whose brace this header already supplies.
func (s *State) commitFunctHeader() {
	s.fn.headerCommitted = true
	s.out.EmitAt(s.fn.hdrPos.Line, s.fn.hdrPos.Col)
	s.writeIndentUnlessStrict()
	s.out.EmitText("defun " + s.fn.name + "(" + strings.Join(s.fn.params, ", ") + ") {\n")
	s.indent++
}
