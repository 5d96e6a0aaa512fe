package parser

import "atf2ael/internal/position"

// Error kinds raised while generating IR from AEL source (§4.4).
const (
	ErrUnexpectedToken position.Kind = iota
	ErrExpectedExpression
	ErrBreakOutsideLoop
	ErrContinueOutsideLoop
)
