// Package validation checks what students and admins type into the bot.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultCountryPrefix is the dialling code assumed for local numbers.
const DefaultCountryPrefix = "998"

const (
	MinAge = 5
	MaxAge = 100
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-ZА-Яа-яЁёЎўҚқҒғҲҳ\s\-'‘’ʻʼ]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9\s\-()]{9,15}$`)
	nonDig  = regexp.MustCompile(`\D`)
)

// ValidateAge accepts a base-10 integer between MinAge and MaxAge.
func ValidateAge(text string) bool {
	age, err := strconv.Atoi(strings.TrimSpace(text))
	return err == nil && age >= MinAge && age <= MaxAge
}

// ValidateName accepts at least two words made of letters, hyphens and
// apostrophes.
func ValidateName(text string) bool {
	name := strings.TrimSpace(text)
	if utf8.RuneCountInString(name) < 2 || !nameRe.MatchString(name) {
		return false
	}
	return len(strings.Fields(name)) >= 2
}

// ValidatePhone accepts an optional "+" followed by 9-15 digits, spaces,
// hyphens or parentheses.
func ValidatePhone(text string) bool {
	return phoneRe.MatchString(strings.TrimSpace(text))
}

// NormalizePhone rewrites a number to "+<prefix><digits>" when it can tell
// how. Anything else is returned unchanged.
func NormalizePhone(text, prefix string) string {
	if prefix == "" {
		prefix = DefaultCountryPrefix
	}
	digits := nonDig.ReplaceAllString(text, "")
	switch {
	case digits == "":
		return text
	case strings.HasPrefix(digits, prefix):
		return "+" + digits
	case len(digits) == 9:
		return "+" + prefix + digits
	}
	return text
}
