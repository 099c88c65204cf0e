package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/metric"
	"github.com/c360/jsonld/pkg/cache"
	"github.com/c360/jsonld/pkg/retry"
)

const (
	acceptHeader    = "application/ld+json, application/json;q=0.9, */*;q=0.1"
	contextLinkRel  = "http://www.w3.org/ns/json-ld#context"
	maxResponseSize = 10 << 20 // 10 MiB
)

// HTTPLoader loads remote documents over HTTP with JSON-LD content
// negotiation, an LRU cache for fetched documents, and retry for
// transient failures.
type HTTPLoader struct {
	client   *http.Client
	cache    cache.Cache[*Document]
	retryCfg retry.Config
	metrics  *metric.Metrics
	logger   *slog.Logger
}

// HTTPOption configures an HTTPLoader.
type HTTPOption func(*HTTPLoader)

// WithHTTPClient sets the HTTP client. The default client uses a 30s
// timeout.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(l *HTTPLoader) { l.client = client }
}

// WithCache sets the document cache. The default caches 100 documents;
// pass nil to disable caching.
func WithCache(c cache.Cache[*Document]) HTTPOption {
	return func(l *HTTPLoader) { l.cache = c }
}

// WithRetry sets the retry configuration for transient failures.
func WithRetry(cfg retry.Config) HTTPOption {
	return func(l *HTTPLoader) { l.retryCfg = cfg }
}

// WithMetrics enables remote load instrumentation.
func WithMetrics(m *metric.Metrics) HTTPOption {
	return func(l *HTTPLoader) { l.metrics = m }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(l *HTTPLoader) { l.logger = logger }
}

// NewHTTPLoader creates an HTTP loader with default client, cache, and
// retry configuration.
func NewHTTPLoader(opts ...HTTPOption) *HTTPLoader {
	defaultCache, _ := cache.NewLRU[*Document](100)
	l := &HTTPLoader{
		client:   &http.Client{Timeout: 30 * time.Second},
		cache:    defaultCache,
		retryCfg: retry.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches the document at iri. Responses served as application/json
// (or any non-JSON-LD +json type) have their context link header
// extracted; application/ld+json responses ignore context links per the
// JSON-LD processing model.
func (l *HTTPLoader) Load(ctx context.Context, iri string) (*Document, error) {
	if !strings.HasPrefix(iri, "http://") && !strings.HasPrefix(iri, "https://") {
		return nil, errors.WrapLoading(fmt.Errorf("%w: unsupported scheme", errors.ErrInvalidIRI), iri)
	}

	if l.cache != nil {
		if doc, ok := l.cache.Get(iri); ok {
			return doc, nil
		}
	}

	doc, err := retry.DoWithResult(ctx, l.retryCfg, func() (*Document, error) {
		return l.fetch(ctx, iri)
	})
	l.metrics.ObserveRemoteLoad(err)
	if err != nil {
		return nil, errors.WrapLoading(err, iri)
	}

	if l.cache != nil {
		l.cache.Set(iri, doc)
	}
	l.logger.DebugContext(ctx, "loaded remote document",
		"iri", iri, "resolved", doc.DocumentURL, "contextLink", doc.ContextURL)
	return doc, nil
}

func (l *HTTPLoader) fetch(ctx context.Context, iri string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iri, nil)
	if err != nil {
		return nil, retry.NonRetryable(err)
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.NonRetryable(err)
		}
		return nil, err
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, retry.NonRetryable(fmt.Errorf("%w: %v", errors.ErrUnsupportedMedia, err))
	}
	isJSONLD := mediaType == "application/ld+json"
	if !isJSONLD && mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json") {
		return nil, retry.NonRetryable(fmt.Errorf("%w: %s", errors.ErrUnsupportedMedia, mediaType))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}
	content, err := document.Parse(body)
	if err != nil {
		return nil, retry.NonRetryable(fmt.Errorf("parsing response: %w", err))
	}

	doc := &Document{
		Content:     content,
		DocumentURL: resp.Request.URL.String(),
	}

	if !isJSONLD {
		contextURL, err := contextLink(resp.Header.Values("Link"))
		if err != nil {
			return nil, retry.NonRetryable(err)
		}
		doc.ContextURL = contextURL
	}
	return doc, nil
}

// contextLink extracts the JSON-LD context link target from Link headers.
// More than one context link is an error.
func contextLink(headers []string) (string, error) {
	var found []string
	for _, header := range headers {
		for _, link := range strings.Split(header, ",") {
			parts := strings.Split(link, ";")
			if len(parts) < 2 {
				continue
			}
			target := strings.TrimSpace(parts[0])
			if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
				continue
			}
			for _, param := range parts[1:] {
				key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
				if !ok || strings.TrimSpace(key) != "rel" {
					continue
				}
				if strings.Trim(strings.TrimSpace(value), `"`) == contextLinkRel {
					found = append(found, strings.Trim(target, "<>"))
				}
			}
		}
	}
	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		return "", errors.New(errors.MultipleContextLinkHeaders, "",
			"%d context link headers", len(found))
	}
}
