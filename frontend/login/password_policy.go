package login

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MinPasswordLength = 12

var ErrPasswordPolicy = errors.New("password does not meet policy")

// ValidatePasswordPolicy requires MinPasswordLength characters including an
// upper case letter, a lower case letter, a digit and a symbol. The error
// names every missing requirement.
func ValidatePasswordPolicy(password string) error {
	var missing []string
	if utf8.RuneCountInString(password) < MinPasswordLength {
		missing = append(missing, fmt.Sprintf("at least %d characters", MinPasswordLength))
	}

	classes := []struct {
		name string
		test func(rune) bool
	}{
		{"an upper case letter", unicode.IsUpper},
		{"a lower case letter", unicode.IsLower},
		{"a digit", unicode.IsDigit},
		{"a symbol", func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) }},
	}
	for _, c := range classes {
		if strings.IndexFunc(password, c.test) < 0 {
			missing = append(missing, c.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: password must have %s", ErrPasswordPolicy, strings.Join(missing, ", "))
	}
	return nil
}
