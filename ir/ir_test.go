package ir

import "testing"

func TestUnwrapLine(t *testing.T) {
	cases := []struct {
		in   int32
		want int32
	}{
		{0, 0},
		{100, 100},
		{-1, 65535},
		{-32768, 32768},
		{-32769, -32769}, // outside the documented wrap range: left alone
	}
	for _, c := range cases {
		if got := UnwrapLine(c.in); got != c.want {
			t.Errorf("UnwrapLine(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestInstructionPos(t *testing.T) {
	in := Instruction{Op: OpStmtEnd, Arg2: -1, HasArg2: true, Arg3: 4, HasArg3: true}
	line, col, ok := in.Pos()
	if !ok || line != 65535 || col != 4 {
		t.Fatalf("Pos() = (%d,%d,%v), want (65535,4,true)", line, col, ok)
	}

	none := Instruction{Op: OpLoadInt, Arg1: 1, HasArg1: true}
	if _, _, ok := none.Pos(); ok {
		t.Fatalf("expected no position on bare LOAD_INT")
	}
}

func TestProgramSlice(t *testing.T) {
	var p Program
	for i := 0; i < 5; i++ {
		p.Append(Instruction{Op: OpStmtEnd, Arg1: int32(i), HasArg1: true})
	}
	s := p.Slice(2, 100)
	if len(s) != 3 || s[0].Arg1 != 2 {
		t.Fatalf("Slice(2,100) = %+v", s)
	}
	if s := p.Slice(10, 20); s != nil {
		t.Fatalf("out of range slice should be nil, got %+v", s)
	}
}
