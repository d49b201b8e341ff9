// Package uuidutil mints skolemized SPARQL subject IRIs.
package uuidutil

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Scheme is the IRI scheme used for skolemized create subjects.
// Blank nodes are never used for create subjects so that they survive
// round-trips through triple stores that don't preserve blank node identity.
const Scheme = "urn:uuid:"

// NewSubjectIRI mints a fresh skolemized subject of the form urn:uuid:<v4>.
// The underlying UUID source is crypto/rand backed (google/uuid's default
// generator), so concurrent mints across goroutines remain distinct.
func NewSubjectIRI() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("mint subject iri: %w", err)
	}
	return Scheme + id.String(), nil
}

// ParseString parses common UUID string formats and returns a normalized
// lower-case UUID.
func ParseString(raw string) (uuid.UUID, string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid UUID value")
	}
	return parsed, strings.ToLower(parsed.String()), nil
}

// IsSkolemizedIRI reports whether an IRI has the urn:uuid: form this
// compiler mints for auto-generated create subjects.
func IsSkolemizedIRI(iri string) bool {
	if !strings.HasPrefix(iri, Scheme) {
		return false
	}
	_, _, err := ParseString(strings.TrimPrefix(iri, Scheme))
	return err == nil
}
