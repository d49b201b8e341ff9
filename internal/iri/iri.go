// Package iri validates IRIs and mutation input shapes before any SPARQL
// algebra is built, so no unvalidated string ever reaches the serializer.
package iri

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// disallowed mirrors the SPARQL/Turtle IRIREF exclusion set: control
// characters and the handful of ASCII punctuation marks that would let an
// IRI escape its own angle brackets.
func disallowed(r rune) bool {
	switch r {
	case '<', '>', '"', '{', '}', '|', '\\', '^', '`':
		return true
	}
	return r <= 0x20
}

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)
var urnPattern = regexp.MustCompile(`^urn:([A-Za-z0-9][A-Za-z0-9-]{0,31}):(.+)$`)

// urnNSSPattern allows the URN-permitted character set for the
// namespace-specific string: letters, digits, and the reserved/other
// characters RFC 8141 permits unescaped.
var urnNSSPattern = regexp.MustCompile(`^[A-Za-z0-9()+,\-.:=@;$_!*'%/?#]+$`)

// Error carries the {key?, value?, reason} validation failure contract.
type Error struct {
	Key    string
	Value  string
	Reason string
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("invalid value for %q: %s", e.Key, e.Reason)
	}
	return e.Reason
}

func newError(key, value, reason string) *Error {
	return &Error{Key: key, Value: value, Reason: reason}
}

// ValidateIRI reports whether s is a valid IRI per spec: non-empty, free of
// the disallowed character set, carrying a recognized scheme, and obeying
// that scheme's authority-form rules.
func ValidateIRI(s string) error {
	if strings.TrimSpace(s) == "" {
		return newError("", s, "IRI is empty or all whitespace")
	}
	for _, r := range s {
		if disallowed(r) {
			return newError("", s, fmt.Sprintf("IRI contains illegal character %q", r))
		}
	}

	loc := schemePattern.FindStringIndex(s)
	if loc == nil {
		return newError("", s, "IRI has no valid scheme (expected [A-Za-z][A-Za-z0-9+.-]*:)")
	}
	scheme := strings.ToLower(s[:loc[1]-1])

	switch scheme {
	case "urn":
		if !urnPattern.MatchString(s) {
			return newError("", s, "urn: IRI must match urn:<nid>:<nss>")
		}
		m := urnPattern.FindStringSubmatch(s)
		nss := m[2]
		if !urnNSSPattern.MatchString(nss) {
			return newError("", s, "urn: namespace-specific string contains disallowed characters")
		}
		return nil
	case "file":
		if !strings.HasPrefix(s, "file:///") {
			return newError("", s, "file: IRI must be of the form file:///...")
		}
		return nil
	case "http", "https":
		u, err := url.Parse(s)
		if err != nil {
			return newError("", s, fmt.Sprintf("http(s): IRI failed to parse as a URL: %v", err))
		}
		if u.Host == "" {
			return newError("", s, "http(s): IRI must carry a non-empty host")
		}
		return nil
	default:
		if strings.Contains(s[loc[1]:], "//") {
			return newError("", s, fmt.Sprintf("scheme %q may not use the authority (//) form", scheme))
		}
		return nil
	}
}

// maxInputDepth bounds the recursive walk over mutation input objects so a
// value containing a cycle (or pathological nesting) can't hang validation.
const maxInputDepth = 64

// ValidateMutationInput walks a decoded GraphQL input object (as produced by
// the AST walker: map[string]any / []any / string / float64 / int64 / bool / nil)
// and validates every key whose name case-insensitively contains "id" and
// whose value is a string as an IRI. It never mutates input.
func ValidateMutationInput(input map[string]any) error {
	if input == nil {
		return newError("", "", "mutation input must be a non-null object")
	}
	return validateObject(input, 0)
}

func validateObject(obj map[string]any, depth int) error {
	if depth > maxInputDepth {
		return newError("", "", "mutation input nesting exceeds the supported depth")
	}
	for key, val := range obj {
		if err := validateValue(key, val, depth); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(key string, val any, depth int) error {
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		if isIDLikeKey(key) {
			if err := ValidateIRI(v); err != nil {
				ve, _ := err.(*Error)
				reason := err.Error()
				if ve != nil {
					reason = ve.Reason
				}
				return newError(key, v, reason)
			}
		}
		return nil
	case bool, int, int64, float64:
		return nil
	case []any:
		for _, elem := range v {
			if err := validateValue(key, elem, depth+1); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		if depth+1 > maxInputDepth {
			return newError(key, "", "mutation input nesting exceeds the supported depth")
		}
		return validateObject(v, depth+1)
	default:
		return newError(key, fmt.Sprintf("%v", val), "unsupported value kind in mutation input (function-like or date-like values are rejected)")
	}
}

// isIDLikeKey reports whether a field name case-insensitively contains "id",
// per spec.md's reserved-key contract for id and <name>Id fields.
func isIDLikeKey(key string) bool {
	lower := strings.Map(unicode.ToLower, key)
	return strings.Contains(lower, "id")
}
