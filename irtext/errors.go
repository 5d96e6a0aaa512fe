package irtext

import "atf2ael/internal/position"

// ErrorKind values for the IR text codec (§7.2: "IR parse failure").
const (
	ErrMalformed position.Kind = iota
	ErrMissingField
	ErrUnterminatedString
)
