package validate

import "testing"

func TestVerifyCheckDigit(t *testing.T) {
	tests := []struct {
		personnummer string
		want         bool
	}{
		{"811228-9874", true},
		{"811228-9873", false},
		{"8112289874", true},
		{"101228-1232", true},
		{"101228-1233", false},
		{"811228-987", false},
		{"811228-98745", false},
		{"81122X-9874", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.personnummer, func(t *testing.T) {
			if got := VerifyCheckDigit(tt.personnummer); got != tt.want {
				t.Errorf("VerifyCheckDigit(%q) = %v, want %v", tt.personnummer, got, tt.want)
			}
		})
	}
}

func TestVerifyCheckDigit_NeverPanics(t *testing.T) {
	inputs := []string{"----------", "àèìòù-9874", "         1", "1234567890123"}
	for _, in := range inputs {
		if VerifyCheckDigit(in) {
			t.Errorf("VerifyCheckDigit(%q) = true, want false", in)
		}
	}
}

func TestMatchPatterns(t *testing.T) {
	if !MatchPersonnummer("811228-9874") {
		t.Error("expected 811228-9874 to match the personnummer shape")
	}
	if MatchPersonnummer("8112289874") {
		t.Error("expected 8112289874 not to match without a hyphen")
	}
	if !MatchAccountNumber("SE8902ABCD12345678901234") {
		t.Error("expected well-formed account number to match")
	}
	if MatchAccountNumber("SE8902abcd12345678901234") {
		t.Error("expected lowercase bank letters to be rejected")
	}
	if MatchAccountNumber("SE8902ABCD1234567890123") {
		t.Error("expected 23-character account number to be rejected")
	}
	if !MatchPhone("+46(8)123 45 67") {
		t.Error("expected international form to match")
	}
	if !MatchAddress("Storgatan 1, 12345 Stockholm") {
		t.Error("expected composite address to match")
	}
	if MatchAddress("Storgatan 1 12345 Stockholm") {
		t.Error("expected address without a comma to be rejected")
	}
}
