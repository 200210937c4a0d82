package normalize

import (
	"errors"
	"regexp"
	"testing"
)

func TestCleanPhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+46 (0)701 234 56 78", "+4607012345678"},
		{"070-123 45 67", "0701234567"},
		{"08-123 45 67", "081234567"},
		{"+abc123", "+123"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CleanPhone(tt.input); got != tt.want {
				t.Errorf("CleanPhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStandardizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "local format",
			input: "070-123 45 67",
			want:  "+46 (0)701 234 56 7",
		},
		{
			name:  "international prefix",
			input: "+46 70 123 45 67",
			want:  "+46 (0)701 234 56 7",
		},
		{
			name:  "double zero prefix",
			input: "0046 70 123 45 67",
			want:  "+46 (0)701 234 56 7",
		},
		{
			name:  "foreign double zero prefix drops four digits",
			input: "0045 70 123 45 67",
			want:  "+46 (0)701 234 56 7",
		},
		{
			name:    "bare double zero prefix",
			input:   "00",
			wantErr: true,
		},
		{
			name:    "too few digits",
			input:   "08-123 45 67",
			wantErr: true,
		},
		{
			name:    "too many digits",
			input:   "070-123 45 678 90",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StandardizePhone(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("StandardizePhone(%q) = %q, want error", tt.input, got)
				}
				if !errors.Is(err, ErrCannotStandardize) {
					t.Errorf("StandardizePhone(%q) error = %v, want ErrCannotStandardize", tt.input, err)
				}
				if got != "" {
					t.Errorf("StandardizePhone(%q) returned %q alongside an error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("StandardizePhone(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("StandardizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStandardizePhone_FixedShape(t *testing.T) {
	// Every successful canonicalization lands on the one fixed shape;
	// inputs that reduce to any other digit count never produce a
	// malformed string.
	shape := regexp.MustCompile(`^\+46 \(0\)\d{3} \d{3} \d{2} \d$`)
	inputs := []string{"070-123 45 67", "0701234567", "+46701234567", "0046 701 234 567"}
	for _, in := range inputs {
		got, err := StandardizePhone(in)
		if err != nil {
			t.Fatalf("StandardizePhone(%q) unexpected error: %v", in, err)
		}
		if !shape.MatchString(got) {
			t.Errorf("StandardizePhone(%q) = %q, does not match the standard shape", in, got)
		}
	}
}

func TestInternationalPhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "domestic stockholm",
			input: "08-123 45 67",
			want:  "+46(8)123 45 67",
		},
		{
			name:  "domestic with long area code",
			input: "0470-123 45 67",
			want:  "+46(470)123 45 67",
		},
		{
			name:  "swedish international prefix",
			input: "+46 8 123 45 67",
			want:  "+46(8)123 45 67",
		},
		{
			name:  "one digit country code",
			input: "+1 555 123 4567",
			want:  "+1(555)123 45 67",
		},
		{
			name:  "three digit country code",
			input: "+380 44 123 45 67",
			want:  "+380(44)123 45 67",
		},
		{
			name:  "two digit country code",
			input: "+44 20 1234 567",
			want:  "+44(20)123 45 67",
		},
		{
			name:    "bare digits are not standardizable",
			input:   "123456",
			wantErr: true,
		},
		{
			name:    "area code too long",
			input:   "+46 12345 123 45 67",
			wantErr: true,
		},
		{
			name:    "too short for subscriber digits",
			input:   "+46 12",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InternationalPhone(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("InternationalPhone(%q) = %q, want error", tt.input, got)
				}
				if !errors.Is(err, ErrCannotStandardize) {
					t.Errorf("InternationalPhone(%q) error = %v, want ErrCannotStandardize", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("InternationalPhone(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("InternationalPhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTransactionType(t *testing.T) {
	tests := []struct {
		token   string
		want    string
		wantErr bool
	}{
		{token: "incoming", want: "debit"},
		{token: "outgoing", want: "credit"},
		{token: "debit", want: "debit"},
		{token: "credit", want: "credit"},
		{token: " Incoming ", want: "debit"},
		{token: "wire", wantErr: true},
		{token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := TransactionType(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("TransactionType(%q) = %q, want error", tt.token, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("TransactionType(%q) unexpected error: %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("TransactionType(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}
