package reconstruct

import (
	"strconv"
	"strings"

	"atf2ael/units"
)

// formatReal chooses the shortest of %*.g / %*.e across precisions 1..17
// that round-trips exactly through ParseFloat, then normalizes the
// exponent (no leading '+', no leading zeros) and ensures the literal
// can never be re-lexed as an integer (§4.5.4).
func formatReal(v float64) string {
	best := ""
	for prec := 1; prec <= 17; prec++ {
		for _, verb := range []byte{'g', 'e'} {
			s := strconv.FormatFloat(v, verb, prec, 64)
			if parsed, err := strconv.ParseFloat(s, 64); err == nil && parsed == v {
				if best == "" || len(s) < len(best) {
					best = s
				}
			}
		}
		if best != "" {
			break
		}
	}
	if best == "" {
		best = strconv.FormatFloat(v, 'g', -1, 64)
	}
	best = normalizeExponent(best)
	if !strings.ContainsAny(best, ".eE") {
		best += "."
	}
	return best
}

// formatImag appends the imaginary suffix to a real-formatted magnitude.
func formatImag(v float64) string { return formatReal(v) + "i" }

// normalizeExponent strips a leading '+' and leading zeros from the
// exponent portion of a formatted float, e.g. "1e+06" -> "1e6",
// "1e-06" -> "1e-6".
func normalizeExponent(s string) string {
	i := strings.IndexAny(s, "eE")
	if i < 0 {
		return s
	}
	mantissa, exp := s[:i+1], s[i+1:]
	neg := false
	if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
		neg = exp[0] == '-'
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		return mantissa + "-" + exp
	}
	return mantissa + exp
}

// quoteString re-quotes a stored string value. The lexer preserves
// backslash escapes verbatim in the stored value, so this is a literal
// wrap in double quotes with no re-escaping, matching §4.2's IR-text
// rule applied symmetrically to source text.
func quoteString(s string) string { return `"` + s + `"` }

// recoverUnit checks whether c exactly equals a recognized unit
// multiplier, for the `lit * c` -> `lit unit` recovery rule (§4.5.4).
// Only ever applied when the multiplied value came from a numeric
// literal, never a variable (a variable name directly followed by a
// unit name would re-lex as a different identifier/unit-product pair).
func recoverUnit(c float64) (string, bool) {
	return units.FindByMultiplier(c)
}
