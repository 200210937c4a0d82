package validate

import "strings"

// VerifyCheckDigit verifies the Luhn-style check digit of a personnummer.
// The ten significant digits are taken after stripping hyphens; every
// digit at an even zero-based position is doubled and the digit sum of
// each product accumulated, the check digit being (10 - total mod 10)
// mod 10. The function is total: any non-digit or wrong-length input
// returns false, it never panics.
func VerifyCheckDigit(personnummer string) bool {
	digits := strings.ReplaceAll(personnummer, "-", "")
	if len(digits) != 10 {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 0 {
			doubled := d * 2
			sum += doubled/10 + doubled%10
		} else {
			sum += d
		}
	}

	last := digits[9]
	if last < '0' || last > '9' {
		return false
	}
	return (10-sum%10)%10 == int(last-'0')
}
