// Package sparqlgen serializes the algebra subset (internal/algebra) into
// wire-ready SPARQL 1.1 text: triple-pattern blocks (the SELECT wrapper
// around a query's patterns is assembled by internal/client), and updates
// rendered as INSERT DATA / DELETE...WHERE /
// DELETE...INSERT...WHERE. Every term is escaped here, following this
// project's earlier convention of keeping literal/identifier quoting in one
// small, heavily tested place (see sqlutil.QuoteString in the SQL-era
// codebase this was adapted from).
package sparqlgen

import (
	"fmt"
	"strings"

	"graphqlsparql/internal/algebra"
	"graphqlsparql/internal/rdf"
)

// EscapeLiteral escapes the characters SPARQL's string literal grammar
// requires escaping inside a double-quoted literal.
func EscapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Term renders a single RDF term in SPARQL syntax: <iri>, a quoted and typed
// literal, or a ?variable.
func Term(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.NamedNode:
		return "<" + v.IRI + ">"
	case rdf.Variable:
		return "?" + v.Name
	case rdf.Literal:
		if v.Datatype == "" || v.Datatype == rdf.XSDString {
			return fmt.Sprintf("\"%s\"", EscapeLiteral(v.Lexical))
		}
		return fmt.Sprintf("\"%s\"^^<%s>", EscapeLiteral(v.Lexical), v.Datatype)
	default:
		return ""
	}
}

// Pattern renders a single triple pattern, terminated with " .".
func Pattern(p algebra.Pattern) string {
	return fmt.Sprintf("%s %s %s .", Term(p.Subject), Term(p.Predicate), Term(p.Object))
}

// Patterns renders a block of triple patterns joined by newlines.
func Patterns(patterns []algebra.Pattern) string {
	lines := make([]string, len(patterns))
	for i, p := range patterns {
		lines[i] = Pattern(p)
	}
	return strings.Join(lines, "\n")
}

// DeleteInsert renders a single SPARQL 1.1 Update operation, choosing the
// textual form that matches which clauses are populated.
func DeleteInsert(d algebra.DeleteInsert) (string, error) {
	if !d.WellFormed() {
		return "", fmt.Errorf("update is not well-formed: every delete/insert variable must also appear in where")
	}

	switch {
	case len(d.Delete) == 0 && len(d.Where) == 0:
		if len(d.Insert) == 0 {
			return "", fmt.Errorf("update has no delete, insert, or where clauses")
		}
		return fmt.Sprintf("INSERT DATA {\n%s\n}", Patterns(d.Insert)), nil
	case len(d.Insert) == 0:
		return fmt.Sprintf("DELETE {\n%s\n}\nWHERE {\n%s\n}", Patterns(d.Delete), Patterns(d.Where)), nil
	default:
		return fmt.Sprintf("DELETE {\n%s\n}\nINSERT {\n%s\n}\nWHERE {\n%s\n}", Patterns(d.Delete), Patterns(d.Insert), Patterns(d.Where)), nil
	}
}

// CompositeUpdate renders a sequence of updates, joined by ";\n" per SPARQL
// 1.1's update-request grammar.
func CompositeUpdate(c algebra.CompositeUpdate) (string, error) {
	parts := make([]string, 0, len(c.Updates))
	for _, u := range c.Updates {
		di, ok := u.(algebra.DeleteInsert)
		if !ok {
			return "", fmt.Errorf("unsupported update node %T", u)
		}
		text, err := DeleteInsert(di)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ";\n"), nil
}
