// Command jsonld expands, compacts, or flattens JSON-LD documents.
//
//	jsonld [flags] expand  [input.jsonld]
//	jsonld [flags] compact [input.jsonld]
//	jsonld [flags] flatten [input.jsonld]
//
// Input comes from the named file or stdin; the result goes to stdout.
// Remote contexts are fetched over HTTP with caching and retries.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/loader"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/processor"
	"github.com/c360/jsonld/syntax"
)

func main() {
	cfg := parseFlags()

	if cfg.showHelp {
		flag.Usage()
		os.Exit(0)
	}

	logger := setupLogging(cfg.logLevel, cfg.logFormat)

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: jsonld [flags] <expand|compact|flatten> [input]")
		os.Exit(2)
	}
	operation := flag.Arg(0)

	doc, err := readInput(flag.Arg(1))
	if err != nil {
		logger.Error("reading input failed", "error", err)
		os.Exit(1)
	}

	p := processor.New(loader.NewHTTPLoader(loader.WithLogger(logger)),
		processor.WithLogger(logger))
	opts := processor.DefaultOptions()
	opts.Base = cfg.base
	opts.Ordered = cfg.ordered
	opts.CompactArrays = cfg.compactArrays
	if cfg.mode == "1.0" {
		opts.ProcessingMode = syntax.ModeJSONLD10
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
	defer cancel()

	output, err := run(ctx, p, operation, doc, cfg, opts)
	if err != nil {
		logger.Error("processing failed", "operation", operation, "error", err)
		os.Exit(1)
	}

	text, err := document.MarshalString(output)
	if err != nil {
		logger.Error("serializing result failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(text)
}

func run(ctx context.Context, p *processor.Processor, operation string,
	doc document.Value, cfg *cliConfig, opts processor.Options) (document.Value, error) {

	switch operation {
	case "expand":
		elements, err := p.Expand(ctx, doc, opts)
		if err != nil {
			return nil, err
		}
		return object.ToJSON(elements), nil

	case "compact":
		ctxValue, err := readContext(cfg.contextPath)
		if err != nil {
			return nil, err
		}
		return p.Compact(ctx, doc, ctxValue, opts)

	case "flatten":
		var ctxValue document.Value
		if cfg.contextPath != "" {
			var err error
			ctxValue, err = readContext(cfg.contextPath)
			if err != nil {
				return nil, err
			}
		}
		return p.Flatten(ctx, doc, ctxValue, opts)

	default:
		return nil, fmt.Errorf("unknown operation %q", operation)
	}
}

func readInput(path string) (document.Value, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return document.Parse(data)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return document.Parse(data)
}

func readContext(path string) (document.Value, error) {
	if path == "" {
		return nil, fmt.Errorf("compact requires -context")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return document.Parse(data)
}

type cliConfig struct {
	contextPath   string
	base          string
	mode          string
	ordered       bool
	compactArrays bool
	timeout       time.Duration
	logLevel      string
	logFormat     string
	showHelp      bool
}

func parseFlags() *cliConfig {
	cfg := &cliConfig{}

	flag.StringVar(&cfg.contextPath, "context",
		getEnv("JSONLD_CONTEXT", ""),
		"Path to the context document for compact/flatten (env: JSONLD_CONTEXT)")

	flag.StringVar(&cfg.base, "base",
		getEnv("JSONLD_BASE", ""),
		"Base IRI for resolving relative IRIs (env: JSONLD_BASE)")

	flag.StringVar(&cfg.mode, "mode",
		getEnv("JSONLD_MODE", "1.1"),
		"Processing mode: 1.0 or 1.1 (env: JSONLD_MODE)")

	flag.BoolVar(&cfg.ordered, "ordered", false,
		"Process object members in lexicographic order")

	flag.BoolVar(&cfg.compactArrays, "compact-arrays", true,
		"Collapse single-element arrays during compaction")

	flag.DurationVar(&cfg.timeout, "timeout", 30*time.Second,
		"Overall processing timeout, including remote context fetches")

	flag.StringVar(&cfg.logLevel, "log-level",
		getEnv("JSONLD_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: JSONLD_LOG_LEVEL)")

	flag.StringVar(&cfg.logFormat, "log-format",
		getEnv("JSONLD_LOG_FORMAT", "text"),
		"Log format: json, text (env: JSONLD_LOG_FORMAT)")

	flag.BoolVar(&cfg.showHelp, "help", false, "Show usage")

	flag.Parse()
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
