package iri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIRI_Valid(t *testing.T) {
	cases := []string{
		"http://example.org/user1",
		"https://example.org/path?x=1#frag",
		"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
		"file:///etc/hosts",
		"mailto:a@b.com",
	}
	for _, c := range cases {
		assert.NoError(t, ValidateIRI(c), c)
	}
}

func TestValidateIRI_Invalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"not a scheme at all",
		"http://",
		"urn:bad nss with spaces",
		"file://missing-triple-slash",
		"mailto://has-authority-but-shouldnt",
		"ex:evil> } ; DROP ALL ; INSERT { <x",
		"has\ttab:inside",
	}
	for _, c := range cases {
		assert.Error(t, ValidateIRI(c), c)
	}
}

func TestValidateIRI_DisallowedCharacters(t *testing.T) {
	for _, r := range []string{"<", ">", "\"", "{", "}", "|", "\\", "^", "`"} {
		bad := "http://example.org/" + r
		assert.Error(t, ValidateIRI(bad), bad)
	}
}

func TestValidateMutationInput_ValidatesIDLikeKeys(t *testing.T) {
	input := map[string]any{
		"id":        "ex:user1",
		"name":      "Alice",
		"productId": "ex:p1",
	}
	assert.NoError(t, ValidateMutationInput(input))
}

func TestValidateMutationInput_RejectsBadIRI(t *testing.T) {
	input := map[string]any{
		"id": "ex:evil> } ; DROP ALL ; INSERT { <x",
	}
	err := ValidateMutationInput(input)
	require.Error(t, err)
	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Key)
}

func TestValidateMutationInput_ArrayElementsValidated(t *testing.T) {
	input := map[string]any{
		"reviewIds": []any{"ex:r1", "not<valid"},
	}
	assert.Error(t, ValidateMutationInput(input))
}

func TestValidateMutationInput_RejectsNilInput(t *testing.T) {
	assert.Error(t, ValidateMutationInput(nil))
}

func TestValidateMutationInput_RejectsUnsupportedValueKind(t *testing.T) {
	input := map[string]any{
		"weird": func() {},
	}
	assert.Error(t, ValidateMutationInput(input))
}

func TestValidateMutationInput_NeverMutatesInput(t *testing.T) {
	input := map[string]any{"name": "Alice", "id": "ex:user1"}
	snapshot := map[string]any{"name": "Alice", "id": "ex:user1"}
	_ = ValidateMutationInput(input)
	assert.Equal(t, snapshot, input)
}
