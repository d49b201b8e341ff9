// Command graphqlsparql-demo is a one-shot CLI around the Client: load
// configuration and a JSON-LD context, compile and execute a single
// GraphQL query or mutation against a SPARQL endpoint, and print the
// resulting envelope as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"graphqlsparql/internal/client"
	"graphqlsparql/internal/clientlog"
	"graphqlsparql/internal/config"
	"graphqlsparql/internal/gqlast"
	"graphqlsparql/internal/jsonld"
)

var (
	// Version is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
	Commit  = "none"
)

// cleanupStack runs registered cleanup functions in LIFO order, the same
// shutdown idiom this project's earlier server command used.
type cleanupStack struct {
	items []cleanupItem
}

type cleanupItem struct {
	name string
	fn   func(context.Context) error
}

func (s *cleanupStack) push(name string, fn func(context.Context) error) {
	s.items = append(s.items, cleanupItem{name: name, fn: fn})
}

func (s *cleanupStack) run(ctx context.Context, logger clientlog.Logger) {
	for i := len(s.items) - 1; i >= 0; i-- {
		item := s.items[i]
		logger.Debug("shutting down " + item.name)
		if err := item.fn(ctx); err != nil {
			logger.Warn("cleanup error", "component", item.name, "error", err.Error())
		}
	}
}

func main() {
	if err := run(); err != nil {
		slog.Error("demo error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	pflag.Bool("version", false, "Print version and exit")
	contextPath := pflag.String("context", "", "Path to a JSON-LD context document")
	execute := pflag.String("execute", "", "GraphQL query or mutation document to compile and run")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if showVersion, _ := pflag.CommandLine.GetBool("version"); showVersion {
		fmt.Printf("graphqlsparql-demo %s (%s)\n", Version, Commit)
		return nil
	}

	validationResult := config.Validate(*cfg)
	for _, warn := range validationResult.Warnings {
		slog.Warn("configuration warning", slog.String("message", warn))
	}
	if !validationResult.Valid() {
		for _, e := range validationResult.Errors {
			slog.Error("configuration error", slog.String("message", e))
		}
		return fmt.Errorf("configuration validation failed")
	}

	if *contextPath == "" {
		return fmt.Errorf("-context is required")
	}
	if *execute == "" {
		return fmt.Errorf("-execute is required")
	}

	logFormat := "text"
	logLevel := "info"
	if cfg.Debug {
		logLevel = "debug"
	}
	logger := clientlog.NewSlogLogger(logLevel, logFormat)

	var cleanup cleanupStack
	cleanupCtx := context.Background()
	defer cleanup.run(cleanupCtx, logger)

	jsonldContext, err := jsonld.LoadFromFile(*contextPath)
	if err != nil {
		return fmt.Errorf("failed to load JSON-LD context: %w", err)
	}

	c, err := client.New(*cfg, jsonldContext, client.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to build client: %w", err)
	}
	cleanup.push("client", func(context.Context) error { return nil })

	rf, err := gqlast.Parse(*execute)
	if err != nil {
		return fmt.Errorf("failed to parse GraphQL document: %w", err)
	}

	ctx := context.Background()
	var env client.Envelope
	if rf.Kind == gqlast.OperationQuery {
		env = c.Query(ctx, *execute)
	} else {
		env = c.Mutate(ctx, *execute)
	}

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(out))

	if len(env.Errors) > 0 {
		return fmt.Errorf("operation completed with %d error(s)", len(env.Errors))
	}
	return nil
}
