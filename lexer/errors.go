package lexer

import "atf2ael/internal/position"

// Error kinds the lexer can raise. Most lexical quirks (integer
// overflow reclassified as real, string truncation past 510 bytes)
// are not errors — only genuinely malformed input is.
const (
	ErrUnterminatedString position.Kind = iota
	ErrUnterminatedComment
	ErrUnknownChar
)
