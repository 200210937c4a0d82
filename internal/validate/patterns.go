package validate

import "regexp"

// Format shapes shared by the record validators. These are permissive
// helpers consumed by higher-level checks, not verdicts on their own.
var (
	// personnummerPattern is the short form YYMMDD-XXXX used throughout
	// the source data.
	personnummerPattern = regexp.MustCompile(`^\d{6}-\d{4}$`)

	// accountNumberPattern is the fixed routing prefix, four uppercase
	// letters and fourteen digits (24 characters in total).
	accountNumberPattern = regexp.MustCompile(`^SE8902[A-Z]{4}\d{14}$`)

	// phonePattern is the persisted international form: country code,
	// 1-4 digit area code in parentheses, seven subscriber digits.
	phonePattern = regexp.MustCompile(`^\+46\s*\(\d{1,4}\)\s*\d{3}\s*\d{2}\s*\d{2}$`)

	// addressPattern is the composite "street, postal city" shape.
	addressPattern = regexp.MustCompile(`^[^,]+, \d{5} [^,]+$`)

	// postalCodePattern matches the five postal digits that must open
	// the post-comma segment of an address.
	postalCodePattern = regexp.MustCompile(`^\d{5}\b`)
)

// MatchPersonnummer reports whether s has the YYMMDD-XXXX shape.
func MatchPersonnummer(s string) bool { return personnummerPattern.MatchString(s) }

// MatchAccountNumber reports whether s is a well-formed account number.
func MatchAccountNumber(s string) bool {
	return len(s) == 24 && accountNumberPattern.MatchString(s)
}

// MatchPhone reports whether s is in the persisted international form.
func MatchPhone(s string) bool { return phonePattern.MatchString(s) }

// MatchAddress reports whether s has the composite address shape.
func MatchAddress(s string) bool { return addressPattern.MatchString(s) }
