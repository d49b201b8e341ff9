// Package gqlast walks a parsed GraphQL document once to locate the single
// operation under compilation and pull out the pieces the mutation
// compiler and query compiler contract need: operation kind, the root
// field's "id" argument, and its "input" object argument.
//
// The walker never evaluates GraphQL variables — spec.md treats a mutation
// referencing a $variable as an unsupported, fail-fast case, so a document
// using VariableDefinitions is rejected rather than partially handled.
package gqlast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
)

// OperationKind is the mutation kind derived from the root field's name
// prefix, per spec.md §4.1.
type OperationKind int

const (
	// OperationUnknown means the root field name didn't match a known
	// create/update/delete prefix.
	OperationUnknown OperationKind = iota
	OperationCreate
	OperationUpdate
	OperationDelete
	// OperationQuery marks a query (non-mutation) operation, handled by
	// the query compiler contract rather than internal/mutation.
	OperationQuery
)

func (k OperationKind) String() string {
	switch k {
	case OperationCreate:
		return "create"
	case OperationUpdate:
		return "update"
	case OperationDelete:
		return "delete"
	case OperationQuery:
		return "query"
	default:
		return "unknown"
	}
}

// RootField is the single top-level field under compilation: its name, the
// derived operation kind, the object-name fragment remaining after the
// create/update/delete prefix is stripped, and its raw arguments.
type RootField struct {
	Name      string
	Kind      OperationKind
	TypeName  string
	ID        string
	HasID     bool
	Input     map[string]any
	HasInput  bool
	Field     *ast.Field
}

// Error reports a walk failure; spec.md classifies these as VALIDATION_ERROR.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return e.Reason }

// Parse parses a single GraphQL operation document and returns its root
// field ready for compilation. It fails fast when the document defines
// GraphQL variables, more than one operation, or more than one root field —
// spec.md scopes the compiler to single-root-field operations.
func Parse(query string) (*RootField, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &Error{Reason: "query document is empty"}
	}

	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{
			Body: []byte(query),
			Name: "operation",
		}),
	})
	if err != nil {
		return nil, &Error{Reason: fmt.Sprintf("parse error: %v", err)}
	}

	op, err := soleOperation(doc)
	if err != nil {
		return nil, err
	}

	if len(op.VariableDefinitions) > 0 {
		return nil, &Error{Reason: "GraphQL variables are not supported in mutation input substitution"}
	}

	if op.SelectionSet == nil || len(op.SelectionSet.Selections) != 1 {
		return nil, &Error{Reason: "operation must select exactly one root field"}
	}

	field, ok := op.SelectionSet.Selections[0].(*ast.Field)
	if !ok || field == nil || field.Name == nil {
		return nil, &Error{Reason: "root selection must be a field"}
	}

	rf := &RootField{Name: field.Name.Value, Field: field}
	rf.Kind, rf.TypeName = classify(rf.Name, string(op.Operation))

	for _, arg := range field.Arguments {
		if arg.Name == nil {
			continue
		}
		switch arg.Name.Value {
		case "id":
			s, isVar, err := stringValue(arg.Value)
			if err != nil {
				return nil, err
			}
			if isVar {
				return nil, &Error{Reason: "the id argument cannot reference a GraphQL variable"}
			}
			rf.ID = s
			rf.HasID = true
		case "input":
			obj, isVar, err := objectValue(arg.Value)
			if err != nil {
				return nil, err
			}
			if isVar {
				return nil, &Error{Reason: "the input argument cannot reference a GraphQL variable"}
			}
			rf.Input = obj
			rf.HasInput = true
		}
	}

	return rf, nil
}

func soleOperation(doc *ast.Document) (*ast.OperationDefinition, error) {
	var ops []*ast.OperationDefinition
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok && op != nil {
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		return nil, &Error{Reason: "document contains no operation"}
	}
	if len(ops) > 1 {
		return nil, &Error{Reason: "document must contain exactly one operation"}
	}
	return ops[0], nil
}

// classify derives the operation kind and the trailing type-name fragment
// of the root field name, e.g. "createProduct" -> (OperationCreate, "Product").
func classify(fieldName, gqlOperationType string) (OperationKind, string) {
	if gqlOperationType != "mutation" {
		return OperationQuery, ""
	}
	switch {
	case strings.HasPrefix(fieldName, "create"):
		return OperationCreate, strings.TrimPrefix(fieldName, "create")
	case strings.HasPrefix(fieldName, "update"):
		return OperationUpdate, strings.TrimPrefix(fieldName, "update")
	case strings.HasPrefix(fieldName, "delete"):
		return OperationDelete, strings.TrimPrefix(fieldName, "delete")
	default:
		return OperationUnknown, ""
	}
}

// valueToInterface converts a GraphQL AST value node into a plain Go value
// (string, float64, int64, bool, nil, []any, map[string]any). It reports
// whether the value is an unresolved $variable reference.
func valueToInterface(v ast.Value) (any, bool, error) {
	if v == nil {
		return nil, false, nil
	}
	switch n := v.(type) {
	case *ast.Variable:
		return nil, true, nil
	case *ast.StringValue:
		return n.Value, false, nil
	case *ast.IntValue:
		i, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, false, &Error{Reason: fmt.Sprintf("invalid integer literal %q", n.Value)}
		}
		return i, false, nil
	case *ast.FloatValue:
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, false, &Error{Reason: fmt.Sprintf("invalid float literal %q", n.Value)}
		}
		return f, false, nil
	case *ast.BooleanValue:
		return n.Value, false, nil
	case *ast.EnumValue:
		return n.Value, false, nil
	case *ast.NullValue:
		return nil, false, nil
	case *ast.ListValue:
		out := make([]any, 0, len(n.Values))
		for _, item := range n.Values {
			val, isVar, err := valueToInterface(item)
			if err != nil {
				return nil, false, err
			}
			if isVar {
				return nil, true, nil
			}
			out = append(out, val)
		}
		return out, false, nil
	case *ast.ObjectValue:
		out, isVar, err := objectValue(n)
		return out, isVar, err
	default:
		return nil, false, &Error{Reason: fmt.Sprintf("unsupported GraphQL value node %T", v)}
	}
}

func objectValue(v ast.Value) (map[string]any, bool, error) {
	obj, ok := v.(*ast.ObjectValue)
	if !ok {
		return nil, false, &Error{Reason: "expected an object value"}
	}
	out := map[string]any{}
	for _, f := range obj.Fields {
		if f.Name == nil {
			continue
		}
		val, isVar, err := valueToInterface(f.Value)
		if err != nil {
			return nil, false, err
		}
		if isVar {
			return nil, true, nil
		}
		out[f.Name.Value] = val
	}
	return out, false, nil
}

func stringValue(v ast.Value) (string, bool, error) {
	val, isVar, err := valueToInterface(v)
	if err != nil {
		return "", false, err
	}
	if isVar {
		return "", true, nil
	}
	s, ok := val.(string)
	if !ok {
		return "", false, &Error{Reason: "expected a string value"}
	}
	return s, false, nil
}
