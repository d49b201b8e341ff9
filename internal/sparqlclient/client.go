// Package sparqlclient is the endpoint driver (spec.md's C7): it executes
// compiled SPARQL text against a query or update endpoint over HTTP and
// classifies failures into the compiler's error taxonomy. It is the only
// component in this compiler that suspends the cooperative single-threaded
// flow, since it is the one component that performs real network I/O.
package sparqlclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"graphqlsparql/internal/clientlog"
	"graphqlsparql/internal/graphqlerr"
)

// Bindings is the decoded SPARQL 1.1 JSON Results Format body.
type Bindings struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]Binding `json:"bindings"`
	} `json:"results"`
}

// Binding is a single RDF term as the SPARQL JSON Results Format encodes
// it: a "type" (uri, literal, bnode) plus "value" and optional "datatype".
type Binding struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// Driver abstracts SPARQL query/update execution so callers (and tests) can
// swap in a fake without standing up an HTTP server, mirroring this
// project's earlier QueryExecutor/StandardExecutor split.
type Driver interface {
	Query(ctx context.Context, sparql string) (*Bindings, error)
	Update(ctx context.Context, sparql string) error
}

// HTTPClient is the standard Driver implementation: a SPARQL 1.1 Protocol
// client over HTTP, retrying transient failures with exponential backoff.
type HTTPClient struct {
	queryEndpoint  string
	updateEndpoint string
	http           *retryablehttp.Client
	timeout        time.Duration
	logger         clientlog.Logger
}

// Options configures a new HTTPClient.
type Options struct {
	QueryEndpointURL  string
	UpdateEndpointURL string
	Timeout           time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	Logger            clientlog.Logger
}

// New builds an HTTPClient from Options.
func New(opts Options) *HTTPClient {
	logger := opts.Logger
	if logger == nil {
		logger = clientlog.NopLogger{}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryAttempts
	retryClient.RetryWaitMin = opts.RetryDelay
	retryClient.RetryWaitMax = opts.RetryDelay * 4
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = opts.Timeout
	// Retry only transient failures: an attempt that timed out, or a 5xx.
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			var netErr net.Error
			return errors.As(err, &netErr) && netErr.Timeout(), nil
		}
		return resp.StatusCode >= 500, nil
	}

	return &HTTPClient{
		queryEndpoint:  opts.QueryEndpointURL,
		updateEndpoint: opts.UpdateEndpointURL,
		http:           retryClient,
		timeout:        opts.Timeout,
		logger:         logger,
	}
}

// Query executes a SPARQL SELECT query against the query endpoint and
// decodes the SPARQL 1.1 JSON Results Format response.
func (c *HTTPClient) Query(ctx context.Context, sparql string) (*Bindings, error) {
	body, err := c.execute(ctx, c.queryEndpoint, sparql, "application/sparql-query", "application/sparql-results+json")
	if err != nil {
		return nil, err
	}

	var bindings Bindings
	if err := json.Unmarshal(body, &bindings); err != nil {
		return nil, graphqlerr.Wrap(graphqlerr.CodeInvalidResponse, err, "endpoint response is not valid SPARQL JSON Results Format")
	}
	return &bindings, nil
}

// Update executes a SPARQL 1.1 Update request against the update endpoint.
func (c *HTTPClient) Update(ctx context.Context, sparql string) error {
	_, err := c.execute(ctx, c.updateEndpoint, sparql, "application/sparql-update", "")
	return err
}

func (c *HTTPClient) execute(ctx context.Context, endpoint, body, contentType, accept string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, graphqlerr.Wrap(graphqlerr.CodeEndpoint, err, "failed to build endpoint request")
	}
	req.Header.Set("Content-Type", contentType)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	c.logger.Debug("executing sparql request", "endpoint", endpoint, "content-type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, graphqlerr.Wrap(graphqlerr.CodeTimeout, err, "request to %s timed out", endpoint)
		}
		return nil, graphqlerr.Wrap(graphqlerr.CodeEndpoint, err, "request to %s failed", endpoint)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, graphqlerr.Wrap(graphqlerr.CodeEndpoint, err, "failed to read response from %s", endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, graphqlerr.New(graphqlerr.HTTPCode(resp.StatusCode), "endpoint %s returned status %d: %s", endpoint, resp.StatusCode, truncate(respBody, 256))
	}

	return respBody, nil
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
