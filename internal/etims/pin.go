package etims

import "unicode"

// CleanupKRAPIN fixes the common OCR misreads in a KRA PIN. The canonical
// shape is 1 letter + 9 digits + 1 letter (11 chars): the letter 'O' in
// the interior digit block is a misread '0', and a 12-char artifact with a
// duplicated leading letter reduces to 11 by dropping the second letter.
// Correct input passes through unchanged, so the pass is idempotent.
func CleanupKRAPIN(pin string) string {
	if pin == "" {
		return pin
	}

	// PO... -> P0... (O misread in the second position of a 12-char read)
	if len(pin) == 12 && isLetter(pin[0]) && pin[1] == 'O' {
		pin = pin[:1] + "0" + pin[2:]
	}

	// O -> 0 across the interior digit positions
	if len(pin) >= 11 {
		b := []byte(pin)
		for i := 1; i < len(b)-1; i++ {
			if b[i] == 'O' {
				b[i] = '0'
			}
		}
		pin = string(b)
	}

	// 12 chars with two leading letters: drop the duplicated second letter
	if len(pin) == 12 && isLetter(pin[0]) && isLetter(pin[1]) {
		pin = pin[:1] + pin[2:]
	}

	return pin
}

// ValidateKRAPIN reports whether a PIN has the valid 11-character
// alphanumeric format. Format correctness only; there is no checksum to
// verify semantically.
func ValidateKRAPIN(pin string) bool {
	if len(pin) != 11 {
		return false
	}
	for _, r := range pin {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
