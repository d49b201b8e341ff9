package gqlast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CreateMutation(t *testing.T) {
	q := `mutation { createProduct(input: {name: "Widget", price: 9.99, inStock: true}) }`
	rf, err := Parse(q)
	require.NoError(t, err)
	assert.Equal(t, OperationCreate, rf.Kind)
	assert.Equal(t, "Product", rf.TypeName)
	require.True(t, rf.HasInput)
	assert.Equal(t, "Widget", rf.Input["name"])
	assert.Equal(t, true, rf.Input["inStock"])
	assert.Equal(t, float64(9.99), rf.Input["price"])
}

func TestParse_IntLiteralYieldsInt64(t *testing.T) {
	q := `mutation { updateProduct(id: "http://example.org/p1", input: {quantity: 12}) }`
	rf, err := Parse(q)
	require.NoError(t, err)
	assert.Equal(t, int64(12), rf.Input["quantity"])
}

func TestParse_UpdateMutationWithID(t *testing.T) {
	q := `mutation { updateProduct(id: "http://example.org/p1", input: {price: 12}) }`
	rf, err := Parse(q)
	require.NoError(t, err)
	assert.Equal(t, OperationUpdate, rf.Kind)
	assert.Equal(t, "http://example.org/p1", rf.ID)
	assert.True(t, rf.HasID)
}

func TestParse_DeleteMutation(t *testing.T) {
	q := `mutation { deleteProduct(id: "http://example.org/p1") }`
	rf, err := Parse(q)
	require.NoError(t, err)
	assert.Equal(t, OperationDelete, rf.Kind)
	assert.False(t, rf.HasInput)
}

func TestParse_QueryOperation(t *testing.T) {
	q := `query { product(id: "http://example.org/p1") }`
	rf, err := Parse(q)
	require.NoError(t, err)
	assert.Equal(t, OperationQuery, rf.Kind)
}

func TestParse_RejectsVariables(t *testing.T) {
	q := `mutation($name: String) { createProduct(input: {name: $name}) }`
	_, err := Parse(q)
	assert.Error(t, err)
}

func TestParse_RejectsMultipleRootFields(t *testing.T) {
	q := `mutation { createProduct(input: {name: "A"}) createProduct(input: {name: "B"}) }`
	_, err := Parse(q)
	assert.Error(t, err)
}

func TestParse_RejectsEmptyDocument(t *testing.T) {
	_, err := Parse("   ")
	assert.Error(t, err)
}

func TestParse_ListValue(t *testing.T) {
	q := `mutation { createProduct(input: {reviewIds: ["http://example.org/r1", "http://example.org/r2"]}) }`
	rf, err := Parse(q)
	require.NoError(t, err)
	list, ok := rf.Input["reviewIds"].([]any)
	require.True(t, ok)
	assert.Len(t, list, 2)
}
