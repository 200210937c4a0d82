package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/lucyvers/bankflow/internal/config"
	"github.com/lucyvers/bankflow/internal/domain"
	"github.com/lucyvers/bankflow/internal/normalize"
)

const (
	minCustomerAge = 15
	maxCustomerAge = 120
	adultAge       = 18
)

var guardianPattern = regexp.MustCompile(`^Name: [^,]+, Relation: ([^,]+), Personnummer: \d{6}-\d{4}$`)

var guardianRelations = map[string]struct{}{
	"parent":         {},
	"guardian":       {},
	"mother":         {},
	"father":         {},
	"förälder":       {},
	"vårdnadshavare": {},
}

// CustomerValidator applies every customer rule to a row and collects
// all violations. Checks never short-circuit: a row with a bad
// personnummer and a bad phone reports both reasons.
type CustomerValidator struct {
	cfg *config.Config
	now func() time.Time
}

func NewCustomerValidator(cfg *config.Config) *CustomerValidator {
	return &CustomerValidator{cfg: cfg, now: time.Now}
}

// Validate evaluates a single parsed customer row. The returned verdict
// is keyed by personnummer so violations can be grouped per identity.
func (v *CustomerValidator) Validate(line int, row domain.CustomerRow) domain.Verdict {
	verdict := domain.Verdict{Line: line, Key: row.Personnummer}

	verdict.Reasons = append(verdict.Reasons, v.checkPersonnummer(row)...)
	verdict.Reasons = append(verdict.Reasons, v.checkAddress(row)...)

	if row.Country == "" {
		verdict.Reasons = append(verdict.Reasons, ReasonMissingCountry)
	}
	if _, err := normalize.StandardizePhone(row.Phone); err != nil {
		verdict.Reasons = append(verdict.Reasons, ReasonInvalidPhone)
	}
	if !MatchAccountNumber(row.BankAccount) {
		verdict.Reasons = append(verdict.Reasons, ReasonInvalidAccountNumber)
	}

	return verdict
}

func (v *CustomerValidator) checkPersonnummer(row domain.CustomerRow) []string {
	if !MatchPersonnummer(row.Personnummer) {
		return []string{ReasonInvalidPersonnummerFormat}
	}

	var reasons []string
	if !VerifyCheckDigit(row.Personnummer) {
		reasons = append(reasons, ReasonInvalidCheckDigit)
	}

	birth, ok := v.birthDate(row.Personnummer)
	if !ok {
		return append(reasons, ReasonInvalidBirthDate)
	}

	age := yearsBetween(birth, v.now())
	if age < minCustomerAge || age > maxCustomerAge {
		reasons = append(reasons, ReasonAgeOutOfRange)
	}
	if age < adultAge {
		reasons = append(reasons, v.checkGuardian(row.GuardianInfo)...)
	}
	return reasons
}

// birthDate derives the birth date from the six leading digits. Two-digit
// years at or below the pivot year belong to the 2000s, the rest to the
// 1900s. Calendar-impossible dates such as month 13 fail.
func (v *CustomerValidator) birthDate(personnummer string) (time.Time, bool) {
	yy := int(personnummer[0]-'0')*10 + int(personnummer[1]-'0')
	month := int(personnummer[2]-'0')*10 + int(personnummer[3]-'0')
	day := int(personnummer[4]-'0')*10 + int(personnummer[5]-'0')

	year := 1900 + yy
	if yy <= v.cfg.PivotYear%100 {
		year = 2000 + yy
	}

	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	birth := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if birth.Day() != day || int(birth.Month()) != month {
		return time.Time{}, false
	}
	return birth, true
}

func (v *CustomerValidator) checkGuardian(info string) []string {
	if strings.TrimSpace(info) == "" {
		return []string{ReasonMissingGuardianInfo}
	}
	m := guardianPattern.FindStringSubmatch(strings.TrimSpace(info))
	if m == nil {
		return []string{ReasonInvalidGuardianInfo}
	}
	relation := strings.ToLower(strings.TrimSpace(m[1]))
	if _, ok := guardianRelations[relation]; !ok {
		return []string{ReasonInvalidGuardianInfo}
	}
	return nil
}

func (v *CustomerValidator) checkAddress(row domain.CustomerRow) []string {
	if !strings.Contains(row.Address, ",") {
		return []string{ReasonAddressMissingComma}
	}
	var reasons []string
	rest := strings.TrimSpace(row.Address[strings.Index(row.Address, ",")+1:])
	postal := postalCodePattern.FindString(rest)
	if postal == "" {
		reasons = append(reasons, ReasonMissingPostalCode)
	}
	city := strings.TrimSpace(strings.TrimPrefix(rest, postal))
	if city == "" {
		reasons = append(reasons, ReasonMissingCity)
	}
	return reasons
}

func yearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(to) {
		years--
	}
	return years
}
