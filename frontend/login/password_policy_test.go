package login

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePasswordPolicy(t *testing.T) {
	cases := []struct {
		name    string
		pwd     string
		missing []string
	}{
		{name: "valid mixed", pwd: "Uat-Tracker-2025"},
		{name: "valid unicode symbol", pwd: "Sign0ff£Month"},
		{name: "letters only", pwd: "abcdefghijklmn", missing: []string{"upper case", "digit", "symbol"}},
		{name: "missing symbol", pwd: "Abcdefghijk12", missing: []string{"symbol"}},
		{name: "missing upper", pwd: "abcdefghij1!x", missing: []string{"upper case"}},
		{name: "short", pwd: "A1!bc", missing: []string{"at least 12 characters"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePasswordPolicy(tc.pwd)
			if len(tc.missing) == 0 {
				if err != nil {
					t.Fatalf("expected valid password, got error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrPasswordPolicy) {
				t.Fatalf("expected ErrPasswordPolicy, got %v", err)
			}
			if !strings.Contains(err.Error(), "password must") {
				t.Fatalf("expected readable message, got %v", err)
			}
			for _, m := range tc.missing {
				if !strings.Contains(err.Error(), m) {
					t.Fatalf("expected %q in %v", m, err)
				}
			}
		})
	}
}

func TestValidatePasswordPolicyCountsRunes(t *testing.T) {
	// Eleven runes, more than twelve bytes.
	if err := ValidatePasswordPolicy("Ünïcödé1!ab"); err == nil {
		t.Fatalf("expected length error for 11 runes")
	}
}
