package sparqlclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphqlsparql/internal/graphqlerr"
)

func TestQuery_DecodesBindings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/sparql-query", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "SELECT ?s WHERE { ?s ?p ?o }", string(body))
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = w.Write([]byte(`{"head":{"vars":["s"]},"results":{"bindings":[{"s":{"type":"uri","value":"http://x/1"}}]}}`))
	}))
	defer srv.Close()

	client := New(Options{QueryEndpointURL: srv.URL, UpdateEndpointURL: srv.URL, Timeout: time.Second, RetryAttempts: 0})
	bindings, err := client.Query(context.Background(), "SELECT ?s WHERE { ?s ?p ?o }")
	require.NoError(t, err)
	require.Len(t, bindings.Results.Bindings, 1)
	assert.Equal(t, "http://x/1", bindings.Results.Bindings[0]["s"].Value)
}

func TestUpdate_Succeeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/sparql-update", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "INSERT DATA { <urn:uuid:1> a <http://x/T> }", string(body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(Options{QueryEndpointURL: srv.URL, UpdateEndpointURL: srv.URL, Timeout: time.Second, RetryAttempts: 0})
	err := client.Update(context.Background(), "INSERT DATA { <urn:uuid:1> a <http://x/T> }")
	assert.NoError(t, err)
}

func TestQuery_NonTransient4xxIsNotRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("malformed query"))
	}))
	defer srv.Close()

	client := New(Options{QueryEndpointURL: srv.URL, UpdateEndpointURL: srv.URL, Timeout: time.Second, RetryAttempts: 2, RetryDelay: time.Millisecond})
	_, err := client.Query(context.Background(), "SELECT ?s WHERE { ?s ?p ?o }")
	require.Error(t, err)
	var ge *graphqlerr.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, graphqlerr.HTTPCode(400), ge.Code)
	assert.Equal(t, 1, attempts)
}

func TestQuery_InvalidJSONIsInvalidResponseFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := New(Options{QueryEndpointURL: srv.URL, UpdateEndpointURL: srv.URL, Timeout: time.Second})
	_, err := client.Query(context.Background(), "SELECT ?s WHERE { ?s ?p ?o }")
	require.Error(t, err)
	var ge *graphqlerr.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, graphqlerr.CodeInvalidResponse, ge.Code)
}

func TestQuery_TimeoutClassifiedAsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	client := New(Options{QueryEndpointURL: srv.URL, UpdateEndpointURL: srv.URL, Timeout: 10 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := client.Query(ctx, "SELECT ?s WHERE { ?s ?p ?o }")
	require.Error(t, err)
	var ge *graphqlerr.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, graphqlerr.CodeTimeout, ge.Code)
}
