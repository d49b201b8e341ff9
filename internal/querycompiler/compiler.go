// Package querycompiler defines the query compiler contract (spec.md's
// C5): translating a selected GraphQL query field into SPARQL algebra.
// Unlike the mutation compiler, this is explicitly a pluggable contract —
// a caller with richer GraphQL schema knowledge (nested relationships,
// pagination, filtering) is expected to supply their own Compiler. This
// package ships one reference implementation, FlatCompiler, that handles
// the flat case spec.md's examples exercise directly: a single root field
// selecting scalar and to-one relationship properties with no nested
// sub-selections.
package querycompiler

import (
	"unicode"

	"github.com/graphql-go/graphql/language/ast"

	"graphqlsparql/internal/algebra"
	"graphqlsparql/internal/graphqlerr"
	"graphqlsparql/internal/jsonld"
	"graphqlsparql/internal/rdf"
	"graphqlsparql/internal/shaper"
)

// Plan is everything the serializer and result shaper need to execute and
// shape a compiled query.
type Plan struct {
	BGP        algebra.BGP
	GroupVar   string
	Singular   shaper.SingularizeMap
	IsList     bool
}

// Compiler is the query compiler contract: compile a single selected root
// field (plus any arguments already extracted from it) into algebra.
type Compiler interface {
	Compile(field *ast.Field, ctx *jsonld.Context) (*Plan, error)
}

// FlatCompiler is the reference Compiler: it supports a root field
// selecting only scalar and to-one relationship leaf fields, with no
// nested sub-selections, fragments, or arguments besides "id".
type FlatCompiler struct{}

// Compile implements Compiler.
func (FlatCompiler) Compile(field *ast.Field, ctx *jsonld.Context) (*Plan, error) {
	if field == nil || field.Name == nil {
		return nil, graphqlerr.New(graphqlerr.CodeValidation, "query root field is missing")
	}

	typeName := capitalize(singularize(field.Name.Value))
	typeIRI, err := ctx.TypeIRI(typeName)
	if err != nil {
		return nil, graphqlerr.Wrap(graphqlerr.CodeContext, err, "could not resolve a type for root field %q", field.Name.Value)
	}

	var idArg string
	hasID := false
	for _, arg := range field.Arguments {
		if arg.Name != nil && arg.Name.Value == "id" {
			if sv, ok := arg.Value.(*ast.StringValue); ok {
				idArg = sv.Value
				hasID = true
			} else {
				return nil, graphqlerr.New(graphqlerr.CodeValidation, "id argument must be a string literal")
			}
		}
	}

	subjectVar := rdf.Variable{Name: "s"}
	var subject rdf.Term = subjectVar
	if hasID {
		subject = rdf.NewNamedNode(ctx.ExpandIRI(idArg))
	}

	patterns := []algebra.Pattern{
		{Subject: subject, Predicate: rdf.NewNamedNode(rdf.RDFType), Object: rdf.NewNamedNode(typeIRI)},
	}

	if field.SelectionSet == nil {
		return nil, graphqlerr.New(graphqlerr.CodeUnsupportedFeat, "root field %q must select at least one leaf field", field.Name.Value)
	}

	for _, sel := range field.SelectionSet.Selections {
		leaf, ok := sel.(*ast.Field)
		if !ok || leaf == nil || leaf.Name == nil {
			return nil, graphqlerr.New(graphqlerr.CodeUnsupportedFeat, "FlatCompiler does not support fragments")
		}
		if leaf.SelectionSet != nil {
			return nil, graphqlerr.New(graphqlerr.CodeUnsupportedFeat, "FlatCompiler does not support nested selections; supply a Compiler that does")
		}
		if leaf.Name.Value == "id" {
			continue
		}
		predIRI, err := ctx.PredicateIRI(leaf.Name.Value)
		if err != nil {
			return nil, graphqlerr.Wrap(graphqlerr.CodeContext, err, "could not resolve a predicate for field %q", leaf.Name.Value)
		}
		bindingName := leaf.Name.Value
		if leaf.Alias != nil && leaf.Alias.Value != "" {
			bindingName = leaf.Alias.Value
		}
		patterns = append(patterns, algebra.Pattern{
			Subject:   subject,
			Predicate: rdf.NewNamedNode(predIRI),
			Object:    rdf.Variable{Name: bindingName},
		})
	}

	groupVar := ""
	if !hasID {
		groupVar = subjectVar.Name
	}

	return &Plan{
		BGP:      algebra.BGP{Patterns: patterns},
		GroupVar: groupVar,
		IsList:   !hasID,
	}, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// singularize is a minimal best-effort English depluralizer; it only needs
// to handle the common "s" suffix case since the JSON-LD context is the
// ultimate source of truth for type names (TypeIRI falls back to @vocab
// when this guess doesn't match a configured term).
func singularize(name string) string {
	if len(name) > 1 && name[len(name)-1] == 's' {
		return name[:len(name)-1]
	}
	return name
}
