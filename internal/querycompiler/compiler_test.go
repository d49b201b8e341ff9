package querycompiler

import (
	"testing"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphqlsparql/internal/jsonld"
)

func parseRootField(t *testing.T, query string) *ast.Field {
	t.Helper()
	doc, err := parser.Parse(parser.ParseParams{Source: source.NewSource(&source.Source{Body: []byte(query)})})
	require.NoError(t, err)
	op := doc.Definitions[0].(*ast.OperationDefinition)
	return op.SelectionSet.Selections[0].(*ast.Field)
}

func testContext(t *testing.T) *jsonld.Context {
	t.Helper()
	ctx, err := jsonld.Normalize(map[string]any{
		"@base":   "http://example.org",
		"Product": "http://schema.org/Product",
		"name":    "http://schema.org/name",
		"price":   "http://schema.org/price",
	})
	require.NoError(t, err)
	return ctx
}

func TestFlatCompiler_ListQuery(t *testing.T) {
	field := parseRootField(t, `query { products { name price } }`)
	ctx := testContext(t)
	plan, err := FlatCompiler{}.Compile(field, ctx)
	require.NoError(t, err)
	assert.True(t, plan.IsList)
	assert.Equal(t, "s", plan.GroupVar)
	assert.Len(t, plan.BGP.Patterns, 3)
}

func TestFlatCompiler_PointLookupByID(t *testing.T) {
	field := parseRootField(t, `query { product(id: "http://example.org/p1") { name } }`)
	ctx := testContext(t)
	plan, err := FlatCompiler{}.Compile(field, ctx)
	require.NoError(t, err)
	assert.False(t, plan.IsList)
	assert.Empty(t, plan.GroupVar)
}

func TestFlatCompiler_RejectsNestedSelections(t *testing.T) {
	field := parseRootField(t, `query { products { name reviews { body } } }`)
	ctx := testContext(t)
	_, err := FlatCompiler{}.Compile(field, ctx)
	assert.Error(t, err)
}

func TestFlatCompiler_UnknownTypeIsContextError(t *testing.T) {
	field := parseRootField(t, `query { widgets { name } }`)
	ctx, err := jsonld.Normalize(map[string]any{"name": "http://schema.org/name"})
	require.NoError(t, err)
	_, err = FlatCompiler{}.Compile(field, ctx)
	assert.Error(t, err)
}
