package normalize

import (
	"regexp"
	"strings"
)

// addressPattern is the single accepted decomposition:
// "street, 5-digit-postal city".
var addressPattern = regexp.MustCompile(`^([^,]+),\s*(\d{5})\s+(.+)$`)

// SplitAddress breaks a composite address into street, postal code and
// city. It fails deterministically (ok=false, empty parts) when the shape
// does not match instead of guessing at a decomposition.
func SplitAddress(address string) (street, postalCode, city string, ok bool) {
	m := addressPattern.FindStringSubmatch(strings.TrimSpace(address))
	if m == nil {
		return "", "", "", false
	}
	return strings.TrimSpace(m[1]), m[2], strings.TrimSpace(m[3]), true
}
