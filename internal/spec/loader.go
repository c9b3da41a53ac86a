package spec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"
	yamljson "github.com/invopop/yaml"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError         ErrorCode = "InputError"
	NetworkError       ErrorCode = "NetworkError"
	ParseError         ErrorCode = "ParseError"
	UnsupportedVersion ErrorCode = "UnsupportedVersion"
)

// SpecError is returned for every failure to obtain a usable document.
// Location carries the URL or file path that was requested.
type SpecError struct {
	Code     ErrorCode
	Message  string
	Location string
	Cause    error
}

func (e *SpecError) Error() string {
	if e.Location == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Location)
}

func (e *SpecError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
	Client      *http.Client
	Logger      logrus.FieldLogger
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }
func WithHTTPClient(c *http.Client) Option { return func(s *Settings) { s.Client = c } }
func WithLogger(l logrus.FieldLogger) Option { return func(s *Settings) { s.Logger = l } }

// Load retrieves and parses a document. input may be a filesystem path or an
// http/https URL; file:// URLs are rejected.
func Load(ctx context.Context, input string, opts ...Option) (*Document, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &SpecError{Code: InputError, Message: "spec: input is empty"}
	}

	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.Logger == nil {
		settings.Logger = logrus.StandardLogger()
	}

	var raw []byte
	u, uerr := url.Parse(input)
	if uerr == nil && u.Scheme != "" && u.Host != "" {
		scheme := strings.ToLower(u.Scheme)
		if scheme == "file" {
			return nil, &SpecError{Code: InputError, Message: "spec: file:// URLs are not supported, pass a path", Location: input}
		}
		if scheme != "http" && scheme != "https" {
			return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("spec: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
		}
		b, err := fetchWithRetry(ctx, input, settings)
		if err != nil {
			return nil, &SpecError{Code: NetworkError, Message: fmt.Sprintf("fetch spec: %v", err), Location: input, Cause: err}
		}
		raw = b
	} else {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
		}
		b, err := os.ReadFile(abs)
		if err != nil {
			return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("read spec: %v", err), Location: input, Cause: err}
		}
		raw = b
	}

	doc, err := Parse(raw)
	if err != nil {
		var se *SpecError
		if errors.As(err, &se) {
			se.Location = input
			return nil, se
		}
		return nil, &SpecError{Code: ParseError, Message: err.Error(), Location: input, Cause: err}
	}
	settings.Logger.WithFields(logrus.Fields{
		"url":     input,
		"dialect": doc.Dialect.String(),
		"paths":   len(doc.Paths),
		"schemas": len(doc.Schemas),
	}).Debug("loaded spec")
	return doc, nil
}

// Parse decodes YAML or JSON bytes of either dialect into the normalized view.
func Parse(data []byte) (*Document, error) {
	version, err := detectSpecVersion(data)
	if err != nil {
		code := ParseError
		if errors.Is(err, errUnknownVersion) {
			code = UnsupportedVersion
		}
		return nil, &SpecError{Code: code, Message: err.Error(), Cause: err}
	}
	order, err := BuildKeyOrder(data)
	if err != nil {
		return nil, &SpecError{Code: ParseError, Message: err.Error(), Cause: err}
	}
	data, err = quoteVersion(data)
	if err != nil {
		return nil, &SpecError{Code: ParseError, Message: err.Error(), Cause: err}
	}
	jsonData, err := yamljson.YAMLToJSON(data)
	if err != nil {
		return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("parse spec: %v", err), Cause: err}
	}

	switch version {
	case OpenAPI3:
		var doc openapi3.T
		if err := json.Unmarshal(jsonData, &doc); err != nil {
			return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("decode openapi 3 document: %v", err), Cause: err}
		}
		return FromOpenAPI3(&doc, order), nil
	default:
		var doc openapi2.T
		if err := json.Unmarshal(jsonData, &doc); err != nil {
			return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("decode swagger 2 document: %v", err), Cause: err}
		}
		return FromSwagger2(&doc, order), nil
	}
}

var errUnknownVersion = errors.New("spec: missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")

// detectSpecVersion reports the dialect declared at the document root.
func detectSpecVersion(data []byte) (Dialect, error) {
	// Raw node text keeps "2.0" and "3.0" intact when they are unquoted.
	var root map[string]yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return 0, fmt.Errorf("parse spec: %w", err)
	}
	if v, ok := root["openapi"]; ok && strings.HasPrefix(strings.TrimSpace(v.Value), "3.") {
		return OpenAPI3, nil
	}
	if v, ok := root["swagger"]; ok && strings.HasPrefix(strings.TrimSpace(v.Value), "2") {
		return Swagger2, nil
	}
	return 0, errUnknownVersion
}

// quoteVersion retags an unquoted root "swagger" or "openapi" value as a
// string. YAML reads "swagger: 2.0" as a float, which the typed decoders
// reject. data is returned unchanged when nothing needs retagging.
func quoteVersion(data []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse spec: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return data, nil
	}
	changed := false
	m := root.Content[0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		if key.Value != "swagger" && key.Value != "openapi" {
			continue
		}
		if val.Kind == yaml.ScalarNode && val.Tag != "!!str" {
			val.Tag = "!!str"
			val.Style = yaml.DoubleQuotedStyle
			changed = true
		}
	}
	if !changed {
		return data, nil
	}
	out, err := yaml.Marshal(&root)
	if err != nil {
		return nil, fmt.Errorf("parse spec: %w", err)
	}
	return out, nil
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := settings.Client
	if client == nil {
		client = &http.Client{Timeout: settings.HTTPTimeout}
	}
	var lastErr error
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		body, retry, err := fetchOnce(ctx, client, rawURL)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		settings.Logger.WithFields(logrus.Fields{
			"url":     rawURL,
			"attempt": i + 1,
			"backoff": backoff,
		}).WithError(err).Debug("retrying spec fetch")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, lastErr
}

// fetchOnce performs a single GET. The boolean reports whether the failure is
// transient.
func fetchOnce(ctx context.Context, client *http.Client, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.8")
	injectTraceparent(ctx, req)
	resp, err := client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 300 {
		body, err := io.ReadAll(resp.Body)
		return body, err != nil, err
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("transient http error %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return nil, false, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

// injectTraceparent propagates the caller's span, if any, to the spec server.
func injectTraceparent(ctx context.Context, req *http.Request) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return
	}
	req.Header.Set("Traceparent", fmt.Sprintf("00-%s-%s-01", sc.TraceID().String(), sc.SpanID().String()))
}
