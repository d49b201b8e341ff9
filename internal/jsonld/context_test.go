package jsonld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRaw() map[string]any {
	return map[string]any{
		"@base":  "http://example.org",
		"@vocab": "http://example.org/vocab/",
		"name":   "http://schema.org/name",
		"age": map[string]any{
			"@id":   "http://schema.org/age",
			"@type": "http://www.w3.org/2001/XMLSchema#integer",
		},
		"product": map[string]any{
			"@id":   "http://schema.org/product",
			"@type": "@id",
		},
		"reviews": map[string]any{
			"@id":        "http://schema.org/reviews",
			"@type":      "@id",
			"@container": "@set",
		},
	}
}

func TestNormalize_BareAndStructuredTerms(t *testing.T) {
	ctx, err := Normalize(sampleRaw())
	require.NoError(t, err)
	assert.Equal(t, "http://example.org", ctx.Base)
	assert.Equal(t, "http://example.org/vocab/", ctx.Vocab)
	assert.Equal(t, "http://schema.org/name", ctx.Terms["name"].ID)
	assert.True(t, ctx.Terms["product"].IsRelationship())
	assert.Equal(t, "@set", ctx.Terms["reviews"].Container)
}

func TestNormalize_RejectsMissingAtID(t *testing.T) {
	raw := map[string]any{"bad": map[string]any{"@type": "@id"}}
	_, err := Normalize(raw)
	assert.Error(t, err)
}

func TestPredicateIRI(t *testing.T) {
	ctx, err := Normalize(sampleRaw())
	require.NoError(t, err)
	iri, err := ctx.PredicateIRI("name")
	require.NoError(t, err)
	assert.Equal(t, "http://schema.org/name", iri)
}

func TestPredicateIRI_MissingTerm(t *testing.T) {
	ctx, _ := Normalize(sampleRaw())
	_, err := ctx.PredicateIRI("unknownField")
	require.Error(t, err)
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "unknownField", ce.Name)
}

func TestTypeIRI_ExactThenCapitalizedThenVocab(t *testing.T) {
	raw := sampleRaw()
	raw["Person"] = "http://schema.org/Person"
	ctx, err := Normalize(raw)
	require.NoError(t, err)

	iri, err := ctx.TypeIRI("Person")
	require.NoError(t, err)
	assert.Equal(t, "http://schema.org/Person", iri)

	iri, err = ctx.TypeIRI("person")
	require.NoError(t, err)
	assert.Equal(t, "http://schema.org/Person", iri)

	iri, err = ctx.TypeIRI("widget")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/vocab/widget", iri)
}

func TestTypeIRI_NoMappingNoVocab(t *testing.T) {
	ctx, err := Normalize(map[string]any{})
	require.NoError(t, err)
	_, err = ctx.TypeIRI("Unknown")
	assert.Error(t, err)
}

func TestExpandIRI_AbsoluteURLsReturnedVerbatim(t *testing.T) {
	ctx, _ := Normalize(sampleRaw())
	assert.Equal(t, "https://example.com/x", ctx.ExpandIRI("https://example.com/x"))
}

func TestExpandIRI_BaseConcatenationEvenForCURIELikeValues(t *testing.T) {
	// Documented quirk: a value containing a colon (CURIE-shaped) is still
	// concatenated onto @base rather than resolved against a prefix map.
	ctx, _ := Normalize(sampleRaw())
	assert.Equal(t, "http://example.org/ex:user1", ctx.ExpandIRI("ex:user1"))
}

func TestExpandIRI_NoBaseReturnsValueAsIs(t *testing.T) {
	ctx, err := Normalize(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "ex:user1", ctx.ExpandIRI("ex:user1"))
}

func TestIsRelationship_ExplicitMarker(t *testing.T) {
	ctx, _ := Normalize(sampleRaw())
	assert.True(t, ctx.IsRelationship("product"))
	assert.False(t, ctx.IsRelationship("name"))
}

func TestIsRelationship_HeuristicFallback(t *testing.T) {
	ctx, err := Normalize(map[string]any{})
	require.NoError(t, err)
	assert.True(t, ctx.IsRelationship("author"))
	assert.False(t, ctx.IsRelationship("title"))
}

func TestInverseOf_BidirectionalPair(t *testing.T) {
	ctx, _ := Normalize(sampleRaw())
	iri, ok := ctx.InverseOf("product")
	require.True(t, ok)
	assert.Equal(t, "http://schema.org/reviews", iri)
}

func TestInverseOf_NoInverseConfigured(t *testing.T) {
	ctx, err := Normalize(map[string]any{"name": "http://schema.org/name"})
	require.NoError(t, err)
	_, ok := ctx.InverseOf("name")
	assert.False(t, ok)
}

func TestTypeIRI_ResolvesCURIEAgainstAnotherContextTerm(t *testing.T) {
	// spec.md §8 S1's worked context: "User": "ex:User" must expand against
	// the "ex" prefix term, not fall through to ExpandIRI's @base-concat
	// quirk (which would wrongly yield "http://example.org/ex:User").
	ctx, err := Normalize(map[string]any{
		"@base": "http://example.org/",
		"ex":    "http://example.org/",
		"User":  "ex:User",
		"age": map[string]any{
			"@id":   "ex:age",
			"@type": "http://www.w3.org/2001/XMLSchema#integer",
		},
	})
	require.NoError(t, err)

	typeIRI, err := ctx.TypeIRI("User")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/User", typeIRI)

	predIRI, err := ctx.PredicateIRI("age")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/age", predIRI)
}

func TestPredicateIRI_UnresolvableCURIEPrefixFallsBackToExpandIRI(t *testing.T) {
	// No "ex" term defined: falls back to the documented @base-concat quirk
	// rather than erroring.
	ctx, err := Normalize(map[string]any{
		"@base": "http://example.org",
		"name":  map[string]any{"@id": "ex:name"},
	})
	require.NoError(t, err)
	iri, err := ctx.PredicateIRI("name")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/ex:name", iri)
}
