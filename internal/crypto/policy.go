package crypto

import (
	"strings"
	"unicode"
)

const (
	// PolicySymbols is the punctuation set that satisfies the symbol rule.
	PolicySymbols = `!@#$%^&*(),.?":{}|<>`

	MinPasswordLength = 8
)

// Rule is one password strength requirement.
type Rule struct {
	Name    string
	Message string
	check   func(string) bool
}

// Passwords are checked against every rule, in this order.
var passwordRules = []Rule{
	{
		Name:    "min_length",
		Message: "password must be at least 8 characters",
		check:   func(p string) bool { return len([]rune(p)) >= MinPasswordLength },
	},
	{
		Name:    "uppercase",
		Message: "password must contain at least one uppercase letter",
		check:   containsFunc(unicode.IsUpper),
	},
	{
		Name:    "lowercase",
		Message: "password must contain at least one lowercase letter",
		check:   containsFunc(unicode.IsLower),
	},
	{
		Name:    "digit",
		Message: "password must contain at least one number",
		check:   containsFunc(func(r rune) bool { return r >= '0' && r <= '9' }),
	},
	{
		Name:    "symbol",
		Message: "password must contain at least one special character",
		check:   func(p string) bool { return strings.ContainsAny(p, PolicySymbols) },
	},
}

// CheckPassword evaluates every rule independently and returns the violated
// ones in policy order. An empty result means the password is acceptable.
func CheckPassword(password string) []Rule {
	var violated []Rule
	for _, r := range passwordRules {
		if !r.check(password) {
			violated = append(violated, r)
		}
	}
	return violated
}

func containsFunc(f func(rune) bool) func(string) bool {
	return func(s string) bool {
		return strings.IndexFunc(s, f) >= 0
	}
}
