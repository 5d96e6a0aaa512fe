// Package irtext implements the line-oriented IR log format (spec.md
// §4.2 and §6.1): a sequence of "[addr] OP=n ..." instruction lines,
// each optionally followed by an indented "# DEPTH=n" annotation line,
// preceded by an optional "# Source: <path>" header. It is the
// boundary every other package crosses: the parser writes it, the
// reconstructor reads it.
package irtext

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"atf2ael/internal/position"
	"atf2ael/ir"
)

// maxHeaderLines bounds how far into the stream a "# Source:" header is
// recognized, per §6.1.
const maxHeaderLines = 50

// Parse reads an IR text log from r. filename is used only for error
// positions. Parse always returns the instructions it could recover,
// even alongside a non-nil error: a caller that wants strict behavior
// should check the error itself.
func Parse(r io.Reader, filename string) (*ir.Program, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var prog ir.Program
	var errs position.ErrorList
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "# Source:") {
			if lineNo <= maxHeaderLines && prog.SourcePath == "" {
				prog.SourcePath = strings.TrimSpace(strings.TrimPrefix(trimmed, "# Source:"))
			}
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			if depth, ok := parseDepthLine(trimmed); ok {
				if len(prog.Instructions) == 0 {
					errs.Add(position.Position{Filename: filename, Line: lineNo}, ErrMalformed,
						"DEPTH annotation with no preceding instruction")
					continue
				}
				last := &prog.Instructions[len(prog.Instructions)-1]
				last.Depth = depth
				last.HasDepth = true
			}
			continue
		}

		if !strings.HasPrefix(trimmed, "[") {
			// Unrecognized line shape; ignore rather than fail the whole
			// conversion, matching the driver's tolerant-IR-log stance (§7).
			continue
		}

		inst, err := parseInstLine(trimmed, filename, lineNo)
		if err != nil {
			errs.AddError(err)
			continue
		}
		prog.Append(inst)
	}
	if err := scanner.Err(); err != nil {
		return &prog, err
	}
	if errs.HasErrors() {
		return &prog, &errs
	}
	return &prog, nil
}

func parseDepthLine(s string) (int, bool) {
	const prefix = "# DEPTH="
	if !strings.HasPrefix(s, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s[len(prefix):]))
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseInstLine(s, filename string, lineNo int) (ir.Instruction, *position.Error) {
	pos := position.Position{Filename: filename, Line: lineNo}

	rb := strings.IndexByte(s, ']')
	if rb < 0 {
		return ir.Instruction{}, position.NewError(pos, ErrMalformed, "missing closing ']' in address prefix")
	}
	rest := strings.TrimSpace(s[rb+1:])

	body, tail := splitBodyAndComment(rest)
	toks, tokErr := tokenizeFields(body, pos)
	if tokErr != nil {
		return ir.Instruction{}, tokErr
	}

	var inst ir.Instruction
	sawOp := false
	for _, tok := range toks {
		key, val, ok := splitKV(tok)
		if !ok {
			continue
		}
		switch key {
		case "OP":
			n, err := strconv.Atoi(val)
			if err != nil {
				return ir.Instruction{}, position.NewError(pos, ErrMalformed, "bad OP value %q", val)
			}
			inst.Op = n
			sawOp = true
		case "arg1":
			v, err := strconv.Atoi(val)
			if err != nil {
				return ir.Instruction{}, position.NewError(pos, ErrMalformed, "bad arg1 value %q", val)
			}
			inst.Arg1, inst.HasArg1 = int32(v), true
		case "arg2":
			v, err := strconv.Atoi(val)
			if err != nil {
				return ir.Instruction{}, position.NewError(pos, ErrMalformed, "bad arg2 value %q", val)
			}
			inst.Arg2, inst.HasArg2 = int32(v), true
		case "arg3":
			v, err := strconv.Atoi(val)
			if err != nil {
				return ir.Instruction{}, position.NewError(pos, ErrMalformed, "bad arg3 value %q", val)
			}
			inst.Arg3, inst.HasArg3 = int32(v), true
		case "a4":
			v, err := strconv.Atoi(val)
			if err != nil {
				return ir.Instruction{}, position.NewError(pos, ErrMalformed, "bad a4 value %q", val)
			}
			inst.Arg4, inst.HasArg4 = int32(v), true
		case "str":
			str, err := unquote(val)
			if err != nil {
				return ir.Instruction{}, position.NewError(pos, ErrUnterminatedString, "%v", err)
			}
			inst.Str, inst.HasStr = str, true
		default:
			// Unknown field: forward-compatible, ignored rather than fatal.
		}
	}
	if !sawOp {
		return ir.Instruction{}, position.NewError(pos, ErrMissingField, "instruction line missing OP=")
	}

	if tail != "" {
		if v, kind, ok := parseNumComment(tail); ok {
			inst.Num, inst.NumKind = v, kind
		}
	}

	return inst, nil
}

// splitBodyAndComment splits rest (the part of a line after "[addr]")
// into the field body and the trailing "# ..." comment, honoring the
// quoted-string even-backslash-run rule so a '#' inside a str="..."
// value is never mistaken for the comment marker.
func splitBodyAndComment(s string) (body, comment string) {
	inQuote := false
	backslashRun := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			if !inQuote {
				inQuote = true
			} else if backslashRun%2 == 0 {
				inQuote = false
			}
			backslashRun = 0
		case c == '\\':
			backslashRun++
		case c == '#' && !inQuote:
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
		default:
			backslashRun = 0
		}
	}
	return strings.TrimSpace(s), ""
}

// tokenizeFields splits body into "key=value" tokens, treating a
// str="..." value (which may contain whitespace) as a single token.
func tokenizeFields(body string, pos position.Position) ([]string, *position.Error) {
	var toks []string
	i, n := 0, len(body)
	for i < n {
		for i < n && isSpace(body[i]) {
			i++
		}
		if i >= n {
			break
		}
		eq := strings.IndexByte(body[i:], '=')
		if eq < 0 {
			return nil, position.NewError(pos, ErrMalformed, "field without '=' near %q", body[i:])
		}
		key := body[i : i+eq]
		valStart := i + eq + 1
		// A fixed-width field like "OP=%3d" pads the value with spaces;
		// skip them so the token's value is the bare field content.
		for valStart < n && isSpace(body[valStart]) {
			valStart++
		}
		if valStart < n && body[valStart] == '"' {
			k := valStart + 1
			backslashRun := 0
			closed := false
			for k < n {
				c := body[k]
				if c == '\\' {
					backslashRun++
					k++
					continue
				}
				if c == '"' && backslashRun%2 == 0 {
					k++
					closed = true
					break
				}
				backslashRun = 0
				k++
			}
			if !closed {
				return nil, position.NewError(pos, ErrUnterminatedString, "unterminated quoted string in %q", body[i:])
			}
			toks = append(toks, key+"="+body[valStart:k])
			i = k
		} else {
			k := valStart
			for k < n && !isSpace(body[k]) {
				k++
			}
			toks = append(toks, key+"="+body[valStart:k])
			i = k
		}
	}
	return toks, nil
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func splitKV(tok string) (key, val string, ok bool) {
	eq := strings.IndexByte(tok, '=')
	if eq < 0 {
		return "", "", false
	}
	return tok[:eq], tok[eq+1:], true
}

// unquote strips the surrounding quotes from a str="..." value without
// interpreting the bytes inside: the codec preserves backslash escapes
// verbatim rather than re-escaping them (§4.2), so the inner bytes are
// returned exactly as written.
func unquote(val string) (string, error) {
	if len(val) < 2 || val[0] != '"' {
		return "", fmt.Errorf("not a quoted string: %q", val)
	}
	backslashRun := 0
	for i := 1; i < len(val); i++ {
		c := val[i]
		if c == '\\' {
			backslashRun++
			continue
		}
		if c == '"' && backslashRun%2 == 0 {
			return val[1:i], nil
		}
		backslashRun = 0
	}
	return "", fmt.Errorf("unterminated string %q", val)
}

// parseNumComment extracts the "val=" payload of a "# ... LOAD_REAL
// val=3.5" or "# ... LOAD_IMAG val=3.5" trailing comment (§4.2: the
// only place a LOAD_REAL/LOAD_IMAG's double payload is carried).
func parseNumComment(tail string) (float64, ir.NumKind, bool) {
	const realKey, imagKey = "LOAD_REAL val=", "LOAD_IMAG val="

	key, kind := realKey, ir.NumReal
	idx := strings.Index(tail, realKey)
	if idx < 0 {
		key, kind = imagKey, ir.NumImag
		idx = strings.Index(tail, imagKey)
	}
	if idx < 0 {
		return 0, ir.NumNone, false
	}
	rest := tail[idx+len(key):]
	end := 0
	for end < len(rest) && !isSpace(rest[end]) {
		end++
	}
	v, err := strconv.ParseFloat(rest[:end], 64)
	if err != nil {
		return 0, ir.NumNone, false
	}
	return v, kind, true
}
