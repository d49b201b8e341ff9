// Package shaper implements the result shaper (spec.md's C8): it turns a
// flat SPARQL JSON Results Format binding set into the nested GraphQL-shaped
// value a query response returns, applying the singularization map the
// query compiler produced (spec.md §4.5/§4.6) and materializing RDF terms
// into native-feeling Go values.
package shaper

import (
	"strconv"

	"graphqlsparql/internal/rdf"
	"graphqlsparql/internal/sparqlclient"
)

// SingularizeMap maps the plural field name a list-producing selection used
// (as exposed in GraphQL) to the singular binding variable name the SPARQL
// query actually bound, so "products" rows can be regrouped from a flat
// binding set keyed by "product".
type SingularizeMap map[string]string

// Shape converts a flat SPARQL binding set into one row per distinct value
// of groupVar (normally the root selection's subject variable), with each
// row holding the other bound variables materialized into native values.
// Bindings in which groupVar is unbound are skipped rather than producing
// null rows.
func Shape(bindings *sparqlclient.Bindings, groupVar string) []map[string]any {
	if bindings == nil {
		return nil
	}

	order := []string{}
	rows := map[string]map[string]any{}

	for _, binding := range bindings.Results.Bindings {
		key, ok := binding[groupVar]
		if !ok {
			continue
		}
		groupKey := key.Value
		row, seen := rows[groupKey]
		if !seen {
			row = map[string]any{}
			rows[groupKey] = row
			order = append(order, groupKey)
		}
		for name, term := range binding {
			row[name] = MaterializeTerm(term)
		}
	}

	out := make([]map[string]any, 0, len(order))
	for _, key := range order {
		out = append(out, rows[key])
	}
	return out
}

// ShapeSingle shapes a point-lookup result: a BGP compiled against a
// constant subject IRI rather than a bound variable has no subject binding
// to group rows by. It materializes the first result row (if any) into a
// single object and returns it as a zero- or one-element slice so callers
// and the result cache can treat it uniformly with Shape's list output.
// Any further rows (for example from a predicate with several values) are
// discarded.
func ShapeSingle(bindings *sparqlclient.Bindings) []map[string]any {
	if bindings == nil || len(bindings.Results.Bindings) == 0 {
		return nil
	}
	binding := bindings.Results.Bindings[0]
	row := make(map[string]any, len(binding))
	for name, term := range binding {
		row[name] = MaterializeTerm(term)
	}
	return []map[string]any{row}
}

// MaterializeTerm converts a single SPARQL JSON binding term into a native
// Go value: a URI becomes its IRI string, a typed literal is coerced for
// the XSD datatypes this shaper recognizes, and anything else (an
// unrecognized datatype, a plain or language-tagged literal, a blank node)
// is returned as its raw lexical form.
func MaterializeTerm(b sparqlclient.Binding) any {
	switch b.Type {
	case "uri":
		return b.Value
	case "bnode":
		return b.Value
	case "literal", "typed-literal":
		switch b.Datatype {
		case rdf.XSDInteger:
			if n, err := strconv.ParseInt(b.Value, 10, 64); err == nil {
				return n
			}
		case rdf.XSDDouble, rdf.XSDDecimal:
			if f, err := strconv.ParseFloat(b.Value, 64); err == nil {
				return f
			}
		case rdf.XSDBoolean:
			if v, err := strconv.ParseBool(b.Value); err == nil {
				return v
			}
		}
		return b.Value
	default:
		return b.Value
	}
}

// ApplySingularization renames each row's binding-variable keys back to the
// GraphQL field names the selection used, per plural/singular mapping.
func ApplySingularization(rows []map[string]any, singular SingularizeMap) []map[string]any {
	if len(singular) == 0 {
		return rows
	}
	reverse := make(map[string]string, len(singular))
	for graphqlName, bindingVar := range singular {
		reverse[bindingVar] = graphqlName
	}

	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		renamed := make(map[string]any, len(row))
		for k, v := range row {
			if graphqlName, ok := reverse[k]; ok {
				renamed[graphqlName] = v
				continue
			}
			renamed[k] = v
		}
		out[i] = renamed
	}
	return out
}
