package normalize

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCannotStandardize marks a phone number whose canonical form cannot
// be derived. Callers treat it as "cannot standardize", not as a hard
// validation failure on its own.
var ErrCannotStandardize = errors.New("cannot standardize phone number")

// CleanPhone strips every non-digit character, preserving a single
// leading '+'.
func CleanPhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if i == 0 && r == '+' {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NationalNumber reduces a cleaned phone number to its national
// significant digits under Swedish dialing rules: "+46" drops the
// country code, a "00" international prefix drops four digits (the
// prefix plus a two-digit country code), a single leading zero drops
// the trunk prefix, anything else is taken as already national.
func NationalNumber(cleaned string) string {
	switch {
	case strings.HasPrefix(cleaned, "+46"):
		return cleaned[3:]
	case strings.HasPrefix(cleaned, "00"):
		if len(cleaned) < 4 {
			return ""
		}
		return cleaned[4:]
	case strings.HasPrefix(cleaned, "0"):
		return cleaned[1:]
	default:
		return cleaned
	}
}

// StandardizePhone renders a Swedish number in the standard form
// "+46 (0)XXX XXX XX X". The national significant number must reduce to
// exactly 9 digits; any other digit count yields ErrCannotStandardize,
// never a malformed string.
func StandardizePhone(phone string) (string, error) {
	national := NationalNumber(CleanPhone(phone))
	if len(national) != 9 {
		return "", fmt.Errorf("%w: national significant number has %d digits, want 9", ErrCannotStandardize, len(national))
	}
	for _, r := range national {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: non-digit in %q", ErrCannotStandardize, national)
		}
	}
	return fmt.Sprintf("+46 (0)%s %s %s %s",
		national[:3], national[3:6], national[6:8], national[8:]), nil
}

// countryCodeLength infers how many digits of an international number
// belong to the country code. Only prefixes the source data actually
// carries are distinguished: 1-digit codes for 1 and 7, 3-digit codes for
// 380 and 381, 2 digits otherwise.
func countryCodeLength(digits string) int {
	if digits == "" {
		return 0
	}
	switch digits[0] {
	case '1', '7':
		return 1
	}
	if strings.HasPrefix(digits, "380") || strings.HasPrefix(digits, "381") {
		return 3
	}
	return 2
}

// InternationalPhone renders any supported number as "+cc(area)XXX XX XX".
// A leading zero marks a domestic number (country code 46); a leading '+'
// uses the country-code table above. The subscriber part is fixed at the
// last 7 digits, so the area code is whatever sits between country code
// and subscriber and must be 1-4 digits. Any other shape fails with
// ErrCannotStandardize.
func InternationalPhone(phone string) (string, error) {
	cleaned := CleanPhone(phone)

	var cc, national string
	switch {
	case strings.HasPrefix(cleaned, "0046"):
		cc = "46"
		national = cleaned[4:]
	case strings.HasPrefix(cleaned, "0") && !strings.HasPrefix(cleaned, "00"):
		cc = "46"
		national = cleaned[1:]
	case strings.HasPrefix(cleaned, "+"):
		digits := cleaned[1:]
		n := countryCodeLength(digits)
		if n == 0 || len(digits) <= n {
			return "", fmt.Errorf("%w: %q", ErrCannotStandardize, phone)
		}
		cc = digits[:n]
		national = digits[n:]
	default:
		return "", fmt.Errorf("%w: %q", ErrCannotStandardize, phone)
	}

	areaLen := len(national) - 7
	if areaLen < 1 || areaLen > 4 {
		return "", fmt.Errorf("%w: %q has no 1-4 digit area code before the 7 subscriber digits", ErrCannotStandardize, phone)
	}
	area, rest := national[:areaLen], national[areaLen:]
	return fmt.Sprintf("+%s(%s)%s %s %s", cc, area, rest[:3], rest[3:5], rest[5:]), nil
}
