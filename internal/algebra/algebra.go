// Package algebra defines the SPARQL algebra subset the compiler emits:
// triple patterns, basic graph patterns, and the update operations
// (INSERT DATA / DELETE-INSERT-WHERE / DELETE-WHERE) mutations compile to.
//
// An algebra tree is immutable once built and is consumed exactly once by
// the serializer (internal/sparqlgen).
package algebra

import "graphqlsparql/internal/rdf"

// Pattern is a single triple pattern. Graph is optional; when empty the
// pattern applies to the default graph.
type Pattern struct {
	Subject   rdf.Term
	Predicate rdf.Term
	Object    rdf.Term
	Graph     string
}

// BGP is a basic graph pattern: a conjunction of triple patterns.
type BGP struct {
	Patterns []Pattern
}

// Update is implemented by the update-shaped algebra nodes
// (DeleteInsert, CompositeUpdate) so a CompositeUpdate can hold either.
type Update interface {
	isUpdate()
}

// DeleteInsert is the unified SPARQL 1.1 update node. Exactly one of the
// three textual forms is chosen by the serializer based on which of
// Delete/Insert/Where are present (see internal/sparqlgen):
//
//	Delete empty, Where empty  -> INSERT DATA { Insert }
//	Insert empty                -> DELETE { Delete } WHERE { Where }
//	otherwise                   -> DELETE { Delete } INSERT { Insert } WHERE { Where }
type DeleteInsert struct {
	Delete []Pattern
	Insert []Pattern
	Where  []Pattern
}

func (DeleteInsert) isUpdate() {}

// CompositeUpdate sequences updates, serialized separated by ';'.
type CompositeUpdate struct {
	Updates []Update
}

func (CompositeUpdate) isUpdate() {}

// InsertData builds the algebraic form of INSERT DATA { patterns }.
func InsertData(patterns []Pattern) CompositeUpdate {
	return CompositeUpdate{Updates: []Update{
		DeleteInsert{Insert: patterns},
	}}
}

// DeleteInsertWhere builds the algebraic form of
// DELETE { delete } INSERT { insert } WHERE { where }.
func DeleteInsertWhere(del, ins, where []Pattern) CompositeUpdate {
	return CompositeUpdate{Updates: []Update{
		DeleteInsert{Delete: del, Insert: ins, Where: where},
	}}
}

// DeleteWhere builds the algebraic form of DELETE { delete } WHERE { where },
// used for the update form that only removes bound triples.
func DeleteWhere(del, where []Pattern) CompositeUpdate {
	return CompositeUpdate{Updates: []Update{
		DeleteInsert{Delete: del, Where: where},
	}}
}

// VariablesIn collects the distinct variable names referenced by a slice of
// patterns, used to check the invariant that every variable in a
// DeleteInsert's delete/insert clause also appears in its where clause.
func VariablesIn(patterns []Pattern) map[string]bool {
	out := map[string]bool{}
	addIfVar := func(t rdf.Term) {
		if v, ok := t.(rdf.Variable); ok {
			out[v.Name] = true
		}
	}
	for _, p := range patterns {
		addIfVar(p.Subject)
		addIfVar(p.Predicate)
		addIfVar(p.Object)
	}
	return out
}

// WellFormed checks the invariant from spec.md §3: every variable
// referenced in delete or insert must also appear in where.
func (d DeleteInsert) WellFormed() bool {
	whereVars := VariablesIn(d.Where)
	for name := range VariablesIn(d.Delete) {
		if !whereVars[name] {
			return false
		}
	}
	for name := range VariablesIn(d.Insert) {
		if !whereVars[name] {
			return false
		}
	}
	return true
}
