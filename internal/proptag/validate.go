// Package proptag implements property key/value validation and positional
// tag color assignment. It is pure logic over Store-free inputs so it is
// usable from both the façade and the storage layer's own tests.
package proptag

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/taskgraph-dev/tg/internal/apperr"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)

var reservedKeys = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"list_id":    true,
}

const maxPropertyValueLen = 2000

var scriptPatterns = []string{
	"<script>", "javascript:", "onload=", "onerror=", "onclick=", "onmouseover=",
}

// allowedTags is the HTML safelist; any other tag in the value is rejected.
var allowedTags = map[string]bool{
	"b": true, "i": true, "u": true, "em": true, "strong": true, "br": true, "p": true,
}

var htmlTagPattern = regexp.MustCompile(`</?\s*([a-zA-Z][a-zA-Z0-9]*)\b[^>]*>`)

// ValidateKey enforces the allowed character class and reserved-key rule.
func ValidateKey(key string) error {
	if key == "" || !keyPattern.MatchString(key) {
		return apperr.New(apperr.InvalidArgument, "property key %q must match [A-Za-z0-9_.:-]+", key)
	}
	if reservedKeys[strings.ToLower(key)] {
		return apperr.New(apperr.InvalidArgument, "property key %q is reserved", key)
	}
	return nil
}

// ValidateValue enforces the length bound and the script/HTML safelist.
func ValidateValue(value string) error {
	if len(value) > maxPropertyValueLen {
		return apperr.New(apperr.InvalidArgument, "property value exceeds %d characters", maxPropertyValueLen)
	}
	lower := strings.ToLower(value)
	for _, pat := range scriptPatterns {
		if strings.Contains(lower, pat) {
			return apperr.New(apperr.InvalidArgument, "property value contains disallowed script pattern %q", pat)
		}
	}
	for _, m := range htmlTagPattern.FindAllStringSubmatch(value, -1) {
		tag := strings.ToLower(m[1])
		if !allowedTags[tag] {
			return apperr.New(apperr.InvalidArgument, "property value contains disallowed HTML tag <%s>", tag)
		}
	}
	return nil
}

// ValidateListKey rejects list keys that contain no letter, so a numeric
// string can never be mistaken for a list's numeric ID.
func ValidateListKey(key string) error {
	for _, r := range key {
		if unicode.IsLetter(r) {
			return nil
		}
	}
	return apperr.New(apperr.InvalidArgument, "list key %q must contain at least one letter", key)
}

// Validate runs both key and value checks.
func Validate(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return ValidateValue(value)
}
