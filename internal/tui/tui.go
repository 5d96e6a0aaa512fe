// Package tui implements an optional terminal browser over a loaded
// ir.Program: a scrollable instruction list on the left, annotated with
// mnemonic and operands, and a reconstructed-source preview on the
// right. It is read-only presentation over the same ir.Program and
// reconstruct packages the batch driver uses — it never reimplements
// reconstruction logic, only displays it, the way the teacher's TUI is
// presentation over a live vm.VM rather than its own execution engine.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"atf2ael/ir"
	"atf2ael/reconstruct"
)

var mnemonics = map[int]string{
	ir.OpStmtEnd:        "STMT_END",
	ir.OpLoadInt:        "LOAD_INT",
	ir.OpLoadStr:        "LOAD_STR",
	ir.OpLoadBool:       "LOAD_BOOL",
	ir.OpLoadTrue:       "LOAD_TRUE",
	ir.OpLoadReal:       "LOAD_REAL",
	ir.OpLoadImag:       "LOAD_IMAG",
	ir.OpLoadNull:       "LOAD_NULL",
	ir.OpLoadVar:        "LOAD_VAR",
	ir.OpAddLocal:       "ADD_LOCAL",
	ir.OpBeginFunct:     "BEGIN_FUNCT",
	ir.OpDefineFunct:    "DEFINE_FUNCT",
	ir.OpBranchTrue:     "BRANCH_TRUE",
	ir.OpBeginLoop:      "BEGIN_LOOP",
	ir.OpEndLoop:        "END_LOOP",
	ir.OpLoopAgain:      "LOOP_AGAIN",
	ir.OpLoopExit:       "LOOP_EXIT",
	ir.OpAddCase:        "ADD_CASE",
	ir.OpBranchTable:    "BRANCH_TABLE",
	ir.OpSetLabel:       "SET_LABEL",
	ir.OpAddLabel:       "ADD_LABEL",
	ir.OpAddGlobal:      "ADD_GLOBAL",
	ir.OpAddArg:         "ADD_ARG",
	ir.OpBuildList:      "BUILD_LIST",
	ir.OpGeneric:        "OP",
	ir.OpNumLocal:       "NUM_LOCAL",
	ir.OpSetLoopDefault: "SET_LOOP_DEFAULT",
	ir.OpDropLocal:      "DROP_LOCAL",
}

func mnemonic(op int) string {
	if m, ok := mnemonics[op]; ok {
		return m
	}
	return fmt.Sprintf("OP<%d>", op)
}

func operandText(in ir.Instruction) string {
	var parts []string
	if in.HasArg1 {
		parts = append(parts, fmt.Sprintf("arg1=%d", in.Arg1))
	}
	if in.HasArg2 {
		parts = append(parts, fmt.Sprintf("arg2=%d", in.Arg2))
	}
	if in.HasArg3 {
		parts = append(parts, fmt.Sprintf("arg3=%d", in.Arg3))
	}
	if in.HasArg4 {
		parts = append(parts, fmt.Sprintf("arg4=%d", in.Arg4))
	}
	if in.HasStr {
		parts = append(parts, fmt.Sprintf("str=%q", in.Str))
	}
	if in.NumKind != ir.NumNone {
		parts = append(parts, fmt.Sprintf("num=%g", in.Num))
	}
	return strings.Join(parts, " ")
}

// Browser is the TUI's top-level widget tree.
type Browser struct {
	App  *tview.Application
	prog *ir.Program

	InstructionList *tview.List
	PreviewView     *tview.TextView

	previewLines []string
}

// NewBrowser reconstructs prog once up front (read-only tooling never
// mutates it) and builds the two-pane layout.
func NewBrowser(prog *ir.Program) (*Browser, error) {
	var buf strings.Builder
	if err := reconstruct.Reconstruct(prog, &buf, false, true); err != nil {
		// A browser over a partially-reconstructible program still has
		// value: show what was produced plus the diagnostic, rather than
		// refusing to open at all.
		buf.WriteString("\n# reconstruction incomplete: " + err.Error() + "\n")
	}

	b := &Browser{
		App:          tview.NewApplication(),
		prog:         prog,
		previewLines: strings.Split(buf.String(), "\n"),
	}
	b.build()
	return b, nil
}

func (b *Browser) build() {
	b.InstructionList = tview.NewList().ShowSecondaryText(false)
	b.InstructionList.SetBorder(true).SetTitle(" Instructions ")

	for i, in := range b.prog.Instructions {
		label := fmt.Sprintf("[%04X] %-12s %s", i, mnemonic(in.Op), operandText(in))
		b.InstructionList.AddItem(label, "", 0, nil)
	}

	b.PreviewView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.PreviewView.SetBorder(true).SetTitle(" Reconstructed source ")
	b.PreviewView.SetText(strings.Join(b.previewLines, "\n"))

	b.InstructionList.SetChangedFunc(func(index int, _, _ string, _ rune) {
		b.syncPreview(index)
	})

	layout := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(b.InstructionList, 0, 1, true).
		AddItem(b.PreviewView, 0, 2, false)

	b.App.SetRoot(layout, true)
	b.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Key() == tcell.KeyEscape {
			b.App.Stop()
			return nil
		}
		return event
	})
}

// syncPreview scrolls the preview pane to the line approximately
// corresponding to the selected instruction: the reconstructor doesn't
// retain a per-instruction output line map, so this counts STMT_END-like
// boundaries (OpStmtEnd, OpDefineFunct, OpSetLabel) up to index and uses
// that count as a line offset into the preview. This is an
// approximation, not an exact crosswalk — documented in DESIGN.md — but
// keeps the preview moving in the same direction and roughly the same
// pace as the selected instruction, which is enough for a browsing aid.
func (b *Browser) syncPreview(index int) {
	boundary := 0
	for i := 0; i < index && i < len(b.prog.Instructions); i++ {
		switch b.prog.Instructions[i].Op {
		case ir.OpStmtEnd, ir.OpDefineFunct, ir.OpSetLabel:
			boundary++
		}
	}
	line := boundary
	if line >= len(b.previewLines) {
		line = len(b.previewLines) - 1
	}
	if line < 0 {
		line = 0
	}
	b.PreviewView.ScrollTo(line, 0)
}

// Run starts the TUI event loop; it blocks until the user quits.
func (b *Browser) Run() error {
	return b.App.Run()
}
