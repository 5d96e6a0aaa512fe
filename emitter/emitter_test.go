package emitter

import (
	"bytes"
	"testing"
)

func TestEmitAtForward(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf, true)
	e.EmitText("abc")
	e.EmitAt(0, 6)
	e.EmitText("x")
	if err := e.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "abc   x"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if e.LastFailReason() != FailNone {
		t.Fatalf("expected no fail reason, got %v", e.LastFailReason())
	}
}

func TestEmitAtBackwardIsSilent(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf, true)
	e.EmitText("hello\nworld")
	before := buf.String()
	e.EmitAt(0, 0) // behind current line 1
	if e.LastFailReason() != FailBackwardLine {
		t.Fatalf("expected FailBackwardLine, got %v", e.LastFailReason())
	}
	if buf.String() != before {
		t.Fatalf("backward EmitAt must not write anything")
	}

	e.EmitAt(1, 0) // same line, behind current col
	if e.LastFailReason() != FailBackwardCol {
		t.Fatalf("expected FailBackwardCol, got %v", e.LastFailReason())
	}
}

func TestNonStrictEmitAtIsNoop(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf, false)
	e.EmitText("a")
	e.EmitAt(5, 5)
	e.EmitText("b")
	_ = e.Flush()
	if buf.String() != "ab" {
		t.Fatalf("non-strict EmitAt should never pad, got %q", buf.String())
	}
}

func TestMonotonicCursor(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf, true)
	lines := []string{"one", "\n", "two", "\n\n", "three"}
	prevLine, prevCol := e.Line(), e.Col()
	for _, s := range lines {
		e.EmitText(s)
		if e.Line() < prevLine || (e.Line() == prevLine && e.Col() < prevCol) {
			t.Fatalf("cursor moved backward: (%d,%d) -> (%d,%d)", prevLine, prevCol, e.Line(), e.Col())
		}
		prevLine, prevCol = e.Line(), e.Col()
	}
}
