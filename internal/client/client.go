// Package client assembles the compiler's components (C1-C8) behind one
// entry point: Query compiles and executes a read, Mutate compiles and
// executes a create/update/delete. Both return the {data, errors} envelope
// spec.md's external interface section describes.
package client

import (
	"context"
	"strconv"
	"time"

	"graphqlsparql/internal/algebra"
	"graphqlsparql/internal/cache"
	"graphqlsparql/internal/clientlog"
	"graphqlsparql/internal/config"
	"graphqlsparql/internal/gqlast"
	"graphqlsparql/internal/graphqlerr"
	"graphqlsparql/internal/iri"
	"graphqlsparql/internal/jsonld"
	"graphqlsparql/internal/mutation"
	"graphqlsparql/internal/querycompiler"
	"graphqlsparql/internal/shaper"
	"graphqlsparql/internal/sparqlclient"
	"graphqlsparql/internal/sparqlgen"
)

// Envelope is the top-level {data, errors} response shape every operation
// returns, regardless of whether it succeeded.
type Envelope struct {
	Data   map[string]any      `json:"data,omitempty"`
	Errors []*graphqlerr.Error `json:"errors,omitempty"`
}

// MutationResult is the "mutate" success payload spec.md's external
// interface describes: success plus optional operation-specific details
// (the subject IRI under "id": minted for create, the id argument for
// update and delete).
type MutationResult struct {
	Success bool           `json:"success"`
	Details map[string]any `json:"details,omitempty"`
}

// Client is the compiler's single entry point. Build one with New.
type Client struct {
	ctx           *jsonld.Context
	driver        sparqlclient.Driver
	cache         *cache.Cache[string, []map[string]any]
	logger        clientlog.Logger
	cfg           config.Config
	queryCompiler querycompiler.Compiler
}

// New builds a Client from Config and a resolved JSON-LD context. The
// endpoint driver is built internally unless overridden via WithDriver.
func New(cfg config.Config, jsonldContext *jsonld.Context, opts ...Option) (*Client, error) {
	result := config.Validate(cfg)
	if !result.Valid() {
		return nil, graphqlerr.New(graphqlerr.CodeValidation, "invalid configuration: %v", result.Errors)
	}

	c := &Client{
		ctx:           jsonldContext,
		cfg:           cfg,
		logger:        clientlog.NopLogger{},
		queryCompiler: querycompiler.FlatCompiler{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if cfg.CacheEnabled {
		ch, err := cache.New[string, []map[string]any](cfg.CacheMaxEntries, time.Duration(cfg.CacheTTLMS)*time.Millisecond)
		if err != nil {
			return nil, graphqlerr.Wrap(graphqlerr.CodeValidation, err, "failed to build result cache")
		}
		c.cache = ch
	}

	if c.driver == nil {
		c.driver = sparqlclient.New(sparqlclient.Options{
			QueryEndpointURL:  cfg.QueryEndpointURL,
			UpdateEndpointURL: cfg.UpdateEndpointURL,
			Timeout:           time.Duration(cfg.TimeoutMS) * time.Millisecond,
			RetryAttempts:     cfg.RetryAttempts,
			RetryDelay:        time.Duration(cfg.RetryDelayMS) * time.Millisecond,
			Logger:            c.logger,
		})
	}

	return c, nil
}

// Option customizes a Client built with New.
type Option func(*Client)

// WithDriver overrides the endpoint driver, primarily for tests.
func WithDriver(d sparqlclient.Driver) Option {
	return func(c *Client) { c.driver = d }
}

// WithLogger overrides the Client's logger.
func WithLogger(l clientlog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithQueryCompiler overrides the query compiler contract implementation.
func WithQueryCompiler(qc querycompiler.Compiler) Option {
	return func(c *Client) { c.queryCompiler = qc }
}

// Query compiles and executes a GraphQL read operation, returning the
// shaped result envelope.
func (c *Client) Query(ctx context.Context, graphqlQuery string) Envelope {
	rf, err := gqlast.Parse(graphqlQuery)
	if err != nil {
		return errEnvelope(graphqlerr.Wrap(graphqlerr.CodeValidation, err, "failed to parse query"))
	}
	if rf.Kind != gqlast.OperationQuery {
		return errEnvelope(graphqlerr.New(graphqlerr.CodeUnsupportedOp, "Query does not accept mutation operations"))
	}

	plan, err := c.queryCompiler.Compile(rf.Field, c.ctx)
	if err != nil {
		return errEnvelope(err)
	}

	sparql, err := compileSelect(plan.BGP, c.cfg.MaxResults)
	if err != nil {
		return errEnvelope(graphqlerr.Wrap(graphqlerr.CodeConversion, err, "failed to serialize query"))
	}

	if c.cfg.ValidateQuery {
		if err := iri.ValidateSparqlQuery(sparql, 0); err != nil {
			return errEnvelope(graphqlerr.Wrap(graphqlerr.CodeValidation, err, "generated query failed validation"))
		}
	}

	if c.cache != nil {
		if rows, ok := c.cache.Get(sparql); ok {
			c.logger.Debug("cache hit", "field", rf.Name)
			return dataEnvelope(rf.Name, rows, plan.IsList)
		}
	}

	bindings, err := c.driver.Query(ctx, sparql)
	if err != nil {
		return errEnvelope(err)
	}

	var rows []map[string]any
	if plan.IsList {
		rows = shaper.Shape(bindings, plan.GroupVar)
		rows = shaper.ApplySingularization(rows, plan.Singular)
	} else {
		// A point lookup's BGP subject is a constant, not a bound variable,
		// so there is no groupVar to group rows by: shape the single joined
		// row directly instead.
		rows = shaper.ShapeSingle(bindings)
	}

	if c.cache != nil {
		c.cache.Set(sparql, rows)
	}

	return dataEnvelope(rf.Name, rows, plan.IsList)
}

// Mutate compiles and executes a GraphQL create/update/delete operation.
func (c *Client) Mutate(ctx context.Context, graphqlMutation string) Envelope {
	rf, err := gqlast.Parse(graphqlMutation)
	if err != nil {
		return errEnvelope(graphqlerr.Wrap(graphqlerr.CodeValidation, err, "failed to parse mutation"))
	}

	result, err := mutation.Compile(c.ctx, rf)
	if err != nil {
		return errEnvelope(toGraphqlErr(err))
	}

	sparql, err := sparqlgen.CompositeUpdate(result.Update)
	if err != nil {
		return errEnvelope(graphqlerr.Wrap(graphqlerr.CodeConversion, err, "failed to serialize mutation"))
	}

	if err := c.driver.Update(ctx, sparql); err != nil {
		return errEnvelope(err)
	}

	details := map[string]any{}
	if result.SubjectIRI != "" {
		details["id"] = result.SubjectIRI
	}

	return Envelope{Data: map[string]any{
		rf.Name: MutationResult{Success: true, Details: details},
	}}
}

func compileSelect(bgp algebra.BGP, limit int) (string, error) {
	sparqlBody := sparqlgen.Patterns(bgp.Patterns)
	vars := algebra.VariablesIn(bgp.Patterns)
	varList := ""
	for name := range vars {
		varList += "?" + name + " "
	}
	if varList == "" {
		varList = "*"
	}
	limitClause := ""
	if limit > 0 {
		limitClause = "\nLIMIT " + strconv.Itoa(limit)
	}
	return "SELECT " + varList + "WHERE {\n" + sparqlBody + "\n}" + limitClause, nil
}

func errEnvelope(err error) Envelope {
	return Envelope{Errors: []*graphqlerr.Error{toGraphqlErr(err)}}
}

// dataEnvelope wraps shaped rows under fieldName, honoring the query
// compiler's IsList verdict: a list query surfaces its rows as-is, while a
// point lookup collapses to a single object (or null when no row matched).
func dataEnvelope(fieldName string, rows []map[string]any, isList bool) Envelope {
	if isList {
		return Envelope{Data: map[string]any{fieldName: rows}}
	}
	if len(rows) == 0 {
		return Envelope{Data: map[string]any{fieldName: nil}}
	}
	return Envelope{Data: map[string]any{fieldName: rows[0]}}
}

func toGraphqlErr(err error) *graphqlerr.Error {
	if ge, ok := err.(*graphqlerr.Error); ok {
		return ge
	}
	if me, ok := err.(*mutation.Error); ok {
		return graphqlerr.New(graphqlerr.Code(me.Code), "%s", me.Message)
	}
	return graphqlerr.Wrap(graphqlerr.CodeValidation, err, "%v", err)
}
