// Package mutation implements the mutation compiler (spec.md's hardest
// subsystem): it turns a classified GraphQL mutation root field into a
// SPARQL algebra update. It runs the state progression Parsed ->
// OperationIdentified -> InputValidated -> AlgebraBuilt, where each stage is
// simply the next function called in sequence by Compile — there is no
// explicit state value carried between calls, since each stage either
// returns an algebra tree or a terminal error.
package mutation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"graphqlsparql/internal/algebra"
	"graphqlsparql/internal/gqlast"
	"graphqlsparql/internal/iri"
	"graphqlsparql/internal/jsonld"
	"graphqlsparql/internal/rdf"
	"graphqlsparql/internal/uuidutil"
)

// Error is the mutation compiler's error type; Code matches one of the
// taxonomy values spec.md §7 assigns to mutation failures.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func validationErr(format string, args ...any) *Error {
	return &Error{Code: "VALIDATION_ERROR", Message: fmt.Sprintf(format, args...)}
}

func mutationErr(format string, args ...any) *Error {
	return &Error{Code: "MUTATION_ERROR", Message: fmt.Sprintf(format, args...)}
}

// Result is everything the serializer and the top-level client need: the
// compiled update, the subject IRI (minted for creates; the id argument as
// given for updates and deletes), and the name of the GraphQL type the
// mutation targeted.
type Result struct {
	Update     algebra.CompositeUpdate
	SubjectIRI string
	TypeName   string
	Operation  gqlast.OperationKind
}

// reservedInputKey is the input-object key spec.md reserves for the root
// field's "id" argument; it can never appear as a plain field inside input.
const reservedInputKey = "id"

// Compile compiles a classified root field into an algebra update. ctx is
// the resolved JSON-LD context the field's type and property names are
// resolved against.
func Compile(ctx *jsonld.Context, rf *gqlast.RootField) (*Result, error) {
	switch rf.Kind {
	case gqlast.OperationCreate:
		return compileCreate(ctx, rf)
	case gqlast.OperationUpdate:
		return compileUpdate(ctx, rf)
	case gqlast.OperationDelete:
		return compileDelete(ctx, rf)
	default:
		return nil, &Error{Code: "UNSUPPORTED_OPERATION", Message: fmt.Sprintf("root field %q is not a recognized create/update/delete mutation", rf.Name)}
	}
}

func compileCreate(ctx *jsonld.Context, rf *gqlast.RootField) (*Result, error) {
	if !rf.HasInput {
		return nil, validationErr("createX mutations require an input argument")
	}
	if err := iri.ValidateMutationInput(rf.Input); err != nil {
		return nil, validationErr("%v", err)
	}
	if _, ok := rf.Input[reservedInputKey]; ok {
		return nil, validationErr("input must not set reserved key %q; identity is assigned by the server", reservedInputKey)
	}

	typeIRI, err := ctx.TypeIRI(rf.TypeName)
	if err != nil {
		return nil, &Error{Code: "CONTEXT_ERROR", Message: err.Error()}
	}

	subject, err := uuidutil.NewSubjectIRI()
	if err != nil {
		return nil, mutationErr("%v", err)
	}
	subjectNode := rdf.NewNamedNode(subject)

	var insert []algebra.Pattern
	insert = append(insert, algebra.Pattern{
		Subject:   subjectNode,
		Predicate: rdf.NewNamedNode(rdf.RDFType),
		Object:    rdf.NewNamedNode(typeIRI),
	})

	for _, key := range sortedKeys(rf.Input) {
		value := rf.Input[key]
		if value == nil {
			continue
		}
		fieldName, isRel := relationshipName(ctx, key)
		predIRI, err := ctx.PredicateIRI(fieldName)
		if err != nil {
			return nil, &Error{Code: "CONTEXT_ERROR", Message: err.Error()}
		}
		predNode := rdf.NewNamedNode(predIRI)

		if isRel {
			objects, err := relationshipObjects(value)
			if err != nil {
				return nil, validationErr("field %q: %v", key, err)
			}
			for _, obj := range objects {
				objNode := rdf.NewNamedNode(ctx.ExpandIRI(obj))
				insert = append(insert, algebra.Pattern{Subject: subjectNode, Predicate: predNode, Object: objNode})
				if inverseIRI, ok := ctx.InverseOf(fieldName); ok {
					insert = append(insert, algebra.Pattern{
						Subject:   objNode,
						Predicate: rdf.NewNamedNode(inverseIRI),
						Object:    subjectNode,
					})
				}
			}
			continue
		}

		lit, err := literalFor(ctx, fieldName, value)
		if err != nil {
			return nil, validationErr("field %q: %v", key, err)
		}
		insert = append(insert, algebra.Pattern{Subject: subjectNode, Predicate: predNode, Object: lit})
	}

	update := algebra.InsertData(insert)
	return &Result{Update: update, SubjectIRI: subject, TypeName: rf.TypeName, Operation: gqlast.OperationCreate}, nil
}

func compileUpdate(ctx *jsonld.Context, rf *gqlast.RootField) (*Result, error) {
	if !rf.HasID {
		return nil, validationErr("updateX mutations require an id argument")
	}
	if err := iri.ValidateIRI(rf.ID); err != nil {
		return nil, validationErr("id argument: %v", err)
	}
	if !rf.HasInput || len(rf.Input) == 0 {
		return nil, validationErr("updateX mutations require a non-empty input argument")
	}
	if _, ok := rf.Input[reservedInputKey]; ok {
		return nil, validationErr("input must not set reserved key %q", reservedInputKey)
	}

	subjectNode := rdf.NewNamedNode(ctx.ExpandIRI(rf.ID))

	var updates []algebra.Update
	for _, key := range sortedKeys(rf.Input) {
		value := rf.Input[key]
		fieldName, isRel := relationshipName(ctx, key)
		predIRI, err := ctx.PredicateIRI(fieldName)
		if err != nil {
			return nil, &Error{Code: "CONTEXT_ERROR", Message: err.Error()}
		}
		predNode := rdf.NewNamedNode(predIRI)
		oldVar := rdf.Variable{Name: "old_" + fieldName}

		wherePattern := algebra.Pattern{Subject: subjectNode, Predicate: predNode, Object: oldVar}
		deletePattern := wherePattern

		if value == nil {
			// Field present with a null value: remove it, insert nothing.
			updates = append(updates, algebra.DeleteInsert{
				Delete: []algebra.Pattern{deletePattern},
				Where:  []algebra.Pattern{wherePattern},
			})
			continue
		}

		var insertObj rdf.Term
		if isRel {
			objects, err := relationshipObjects(value)
			if err != nil {
				return nil, validationErr("field %q: %v", key, err)
			}
			if len(objects) != 1 {
				return nil, mutationErr("field %q: update of a relationship accepts exactly one target IRI", key)
			}
			insertObj = rdf.NewNamedNode(ctx.ExpandIRI(objects[0]))
		} else {
			lit, err := literalFor(ctx, fieldName, value)
			if err != nil {
				return nil, validationErr("field %q: %v", key, err)
			}
			insertObj = lit
		}

		// Intentionally does not touch inverse links: spec.md §9 documents
		// this as a known asymmetry with create, not a bug to silently fix.
		updates = append(updates, algebra.DeleteInsert{
			Delete: []algebra.Pattern{deletePattern},
			Insert: []algebra.Pattern{{Subject: subjectNode, Predicate: predNode, Object: insertObj}},
			Where:  []algebra.Pattern{wherePattern},
		})
	}

	return &Result{
		Update:     algebra.CompositeUpdate{Updates: updates},
		SubjectIRI: rf.ID,
		TypeName:   rf.TypeName,
		Operation:  gqlast.OperationUpdate,
	}, nil
}

func compileDelete(ctx *jsonld.Context, rf *gqlast.RootField) (*Result, error) {
	if !rf.HasID {
		return nil, validationErr("deleteX mutations require an id argument")
	}
	if err := iri.ValidateIRI(rf.ID); err != nil {
		return nil, validationErr("id argument: %v", err)
	}

	subjectNode := rdf.NewNamedNode(ctx.ExpandIRI(rf.ID))
	p := rdf.Variable{Name: "p"}
	o := rdf.Variable{Name: "o"}
	pattern := algebra.Pattern{Subject: subjectNode, Predicate: p, Object: o}

	// Intentionally removes only the subject's own triples, not triples in
	// which it is the object (inverse links): see spec.md §9.
	update := algebra.DeleteWhere([]algebra.Pattern{pattern}, []algebra.Pattern{pattern})
	return &Result{Update: update, SubjectIRI: rf.ID, TypeName: rf.TypeName, Operation: gqlast.OperationDelete}, nil
}

// relationshipName strips a "<name>Id" suffix convention down to the base
// relationship name used for context lookups, reporting whether the field
// should be treated as an object-valued relationship at all.
func relationshipName(ctx *jsonld.Context, key string) (string, bool) {
	if ctx.IsRelationship(key) {
		return key, true
	}
	if strings.HasSuffix(key, "Id") && key != "Id" {
		// The "<name>Id" suffix is itself the relationship convention, even
		// without an explicit @type: @id marker on the base name.
		return lowerFirst(strings.TrimSuffix(key, "Id")), true
	}
	return key, false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// relationshipObjects normalizes a relationship field's value (a single IRI
// string or a list of IRI strings) and validates each as an IRI.
func relationshipObjects(value any) ([]string, error) {
	var raw []any
	switch v := value.(type) {
	case string:
		raw = []any{v}
	case []any:
		raw = v
	default:
		return nil, fmt.Errorf("expected an IRI string or list of IRI strings, got %T", value)
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("relationship values must be strings, got %T", item)
		}
		if err := iri.ValidateIRI(s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// literalFor builds a typed RDF literal for a scalar field value, preferring
// the context's declared datatype and falling back to a Go-type inference.
func literalFor(ctx *jsonld.Context, fieldName string, value any) (rdf.Literal, error) {
	datatype := ""
	if def, ok := ctx.Terms[fieldName]; ok && def.Type != "" && def.Type != "@id" {
		datatype = def.Type
	}

	switch v := value.(type) {
	case string:
		if datatype == "" {
			datatype = rdf.XSDString
		}
		return rdf.Literal{Lexical: v, Datatype: datatype}, nil
	case bool:
		if datatype == "" {
			datatype = rdf.XSDBoolean
		}
		return rdf.Literal{Lexical: strconv.FormatBool(v), Datatype: datatype}, nil
	case float64:
		if datatype == "" {
			datatype = rdf.XSDDouble
		}
		return rdf.Literal{Lexical: strconv.FormatFloat(v, 'f', -1, 64), Datatype: datatype}, nil
	case int64:
		if datatype == "" {
			datatype = rdf.XSDInteger
		}
		return rdf.Literal{Lexical: strconv.FormatInt(v, 10), Datatype: datatype}, nil
	case int:
		if datatype == "" {
			datatype = rdf.XSDInteger
		}
		return rdf.Literal{Lexical: strconv.Itoa(v), Datatype: datatype}, nil
	default:
		return rdf.Literal{}, fmt.Errorf("unsupported scalar value type %T", value)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
