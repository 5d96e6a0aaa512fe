package reconstruct

import "atf2ael/internal/position"

// Error kinds raised while reconstructing source from IR (§4.5).
const (
	ErrUnhandledInstruction position.Kind = iota
	ErrTemplateMismatch
	ErrStackUnderflow
)
