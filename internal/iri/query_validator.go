package iri

import (
	"regexp"
	"strings"
)

// DefaultMaxQueryLength is the bound the query validator enforces when
// ValidateSparqlQuery is given a maxLength of 0 or less. The Client always
// passes 0; Config has no option for a different bound.
const DefaultMaxQueryLength = 64 * 1024

var forbiddenVerbs = []string{"DROP", "CREATE", "LOAD", "CLEAR", "DELETE", "INSERT", "UPDATE"}

var leadingKeyword = regexp.MustCompile(`(?is)^\s*(SELECT|CONSTRUCT)\b`)

// ValidateSparqlQuery is a coarse safety net for user-supplied SPARQL query
// text, not a SPARQL parser. It applies only to queries (C5's output);
// mutations are never validated this way because algebra construction makes
// them safe by construction (see internal/sparqlgen).
//
// The forbidden-verb check is a case-insensitive substring match, so a
// SELECT whose string literal happens to contain the word "DROP" is
// rejected too. This is the source's documented, intentionally overcautious
// behavior and is preserved rather than "fixed".
func ValidateSparqlQuery(query string, maxLength int) error {
	if maxLength <= 0 {
		maxLength = DefaultMaxQueryLength
	}
	if len(query) > maxLength {
		return newError("", "", "query exceeds the configured maximum length")
	}

	upper := strings.ToUpper(query)
	for _, verb := range forbiddenVerbs {
		if strings.Contains(upper, verb) {
			return newError("", "", "query contains forbidden verb "+verb)
		}
	}

	if !leadingKeyword.MatchString(query) {
		return newError("", "", "query must start with SELECT or CONSTRUCT")
	}
	if !strings.Contains(upper, "WHERE") {
		return newError("", "", "query must contain a WHERE clause")
	}

	if !balancedBraces(query) {
		return newError("", "", "query has unbalanced braces")
	}

	return nil
}

func balancedBraces(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth < 0 {
			return false
		}
	}
	return depth == 0
}
