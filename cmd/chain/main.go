package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/physaikat/langchain/cache"
	"github.com/physaikat/langchain/loader"
	"github.com/physaikat/langchain/observability"
	"github.com/physaikat/langchain/runnables"
)

// setFlags collects repeated -set key=value pairs into the invocation's
// configurable mapping. Values parse as JSON when possible, falling back to
// plain strings.
type setFlags map[string]any

func (s setFlags) String() string {
	pairs := make([]string, 0, len(s))
	for k, v := range s {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(pairs, ",")
}

func (s setFlags) Set(value string) error {
	key, raw, found := strings.Cut(value, "=")
	if !found || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		parsed = raw
	}
	s[key] = parsed
	return nil
}

func main() {
	overrides := setFlags{}
	var (
		chainFile = flag.String("chain", "", "Path to chain YAML file (required)")
		input     = flag.String("input", "", "Input to feed the chain (required)")
		inputJSON = flag.Bool("json", false, "Parse -input as a JSON document")
		session   = flag.String("session", "", "Session identifier for history-aware chains")
		cacheDir  = flag.String("cache", "", "Directory for cached model responses (empty disables caching)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Var(overrides, "set", "Configurable override as key=value (repeatable)")
	flag.Parse()

	if *chainFile == "" || *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: chain -chain <file> -input <text> [-set key=value]...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := builtinModels()

	var responses *cache.Cache
	if *cacheDir != "" {
		responses = cache.NewCache(cache.NewFileStore(*cacheDir))
		if err := responses.Bootstrap(ctx); err != nil {
			log.Fatalf("Failed to open response cache: %v", err)
		}
		if err := cache.WrapRegistry(registry, responses); err != nil {
			log.Fatalf("Failed to enable response cache: %v", err)
		}
	}

	chain, err := loader.New(registry).ParseFile(*chainFile)
	if err != nil {
		log.Fatalf("Failed to load chain: %v", err)
	}

	if *session != "" {
		overrides["session_id"] = *session
	}

	cfg := runnables.WithConfigurable(overrides)
	cfg.Observer = "slog"

	var in any = *input
	if *inputJSON {
		if err := json.Unmarshal([]byte(*input), &in); err != nil {
			log.Fatalf("Failed to parse -input as JSON: %v", err)
		}
	}

	out, err := chain.Invoke(ctx, in, cfg)
	if responses != nil {
		// Persist fresh generations even when the run itself failed.
		if flushErr := responses.Flush(context.Background()); flushErr != nil {
			log.Printf("Failed to flush response cache: %v", flushErr)
		}
	}
	if err != nil {
		log.Fatalf("Chain run failed: %v", err)
	}

	switch v := out.(type) {
	case string:
		fmt.Println(v)
	default:
		encoded, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Printf("%v\n", v)
			return
		}
		fmt.Println(string(encoded))
	}
}
