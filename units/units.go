// Package units holds the recognized EDA unit-multiplier table used both
// by the parser (implicit unit multiplication, §4.4.2) and the
// reconstructor (unit recovery when printing a literal*multiplier product
// back out as "5 um", §4.5.4). It is process-wide and read-only (§5).
package units

// Multipliers maps a recognized unit suffix to its numeric multiplier.
var Multipliers = map[string]float64{
	"um":   1e-6,
	"mm":   1e-3,
	"mil":  25.4e-6,
	"nm":   1e-9,
	"cm":   1e-2,
	"m":    1e-3,
	"Hz":   1,
	"kHz":  1e3,
	"MHz":  1e6,
	"GHz":  1e9,
	"THz":  1e12,
	"F":    1,
	"pF":   1e-12,
	"nF":   1e-9,
	"uF":   1e-6,
	"mF":   1e-3,
	"ohm":  1,
	"kohm": 1e3,
	"Mohm": 1e6,
	"H":    1,
	"pH":   1e-12,
	"nH":   1e-9,
	"uH":   1e-6,
	"mH":   1e-3,
	"s":    1,
	"ms":   1e-3,
	"us":   1e-6,
	"ns":   1e-9,
	"ps":   1e-12,
}

// Lookup returns the multiplier for name and whether it is recognized.
func Lookup(name string) (float64, bool) {
	v, ok := Multipliers[name]
	return v, ok
}

// FindByMultiplier returns a unit name whose multiplier exactly equals c,
// used by the reconstructor's unit-recovery rule (§4.5.4). Iteration order
// over a Go map is unspecified, so for multipliers shared by more than one
// unit (e.g. 1 is shared by Hz, F, ohm, H, s) the result is deterministic
// only in that it always returns the same name for a given multiplier
// value within one process, via the fixed preference order below.
func FindByMultiplier(c float64) (string, bool) {
	for _, name := range preferenceOrder {
		if m, ok := Multipliers[name]; ok && m == c {
			return name, true
		}
	}
	return "", false
}

// preferenceOrder fixes the tie-break among units that share a
// multiplier: among those of 1 (Hz, F, ohm, H, s) Hz is the most common
// in source, so it is preferred; the length units come before the
// capacitance, inductance and time units they share 1e-9, 1e-6 and 1e-3
// with, so 1e-6 prints as "um".
var preferenceOrder = []string{
	"Hz", "F", "ohm", "H", "s",
	"um", "mm", "mil", "nm", "cm", "m",
	"kHz", "MHz", "GHz", "THz",
	"pF", "nF", "uF", "mF",
	"kohm", "Mohm",
	"pH", "nH", "uH", "mH",
	"ms", "us", "ns", "ps",
}
