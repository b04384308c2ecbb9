package document

import (
    "context"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "os"
    "path/filepath"
    "strings"
    "time"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
    InputError      ErrorCode = "InputError"
    NetworkError    ErrorCode = "NetworkError"
    ParseError      ErrorCode = "ParseError"
    ValidationError ErrorCode = "ValidationError"
)

// LoadError is a structured error with the offending location and, where
// known, a dotted path into the document (e.g. "users.create.fields[0]").
type LoadError struct {
    Code     ErrorCode
    Message  string
    Location string // file path or URL
    Path     string
    Cause    error
}

func (e *LoadError) Error() string { return e.Message }
func (e *LoadError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
    // HTTPTimeout bounds each HTTP request.
    HTTPTimeout time.Duration
    // MaxRetries for transient HTTP failures (>=500, 429, or network errors).
    MaxRetries int
    // BackoffBase is the base delay for exponential backoff.
    BackoffBase time.Duration
    // SkipValidation disables the structural checks run after parsing.
    SkipValidation bool
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

func WithHTTPTimeout(d time.Duration) Option  { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option            { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }
func WithSkipValidation(skip bool) Option    { return func(s *Settings) { s.SkipValidation = skip } }

// Load reads a coreapi-style document (JSON or YAML) from a filesystem path or
// an http/https URL, parses it and validates its structure.
func Load(ctx context.Context, input string, opts ...Option) (*Document, error) {
    if strings.TrimSpace(input) == "" {
        return nil, &LoadError{Code: InputError, Message: "document: input is empty"}
    }

    settings := DefaultSettings()
    for _, opt := range opts {
        opt(&settings)
    }

    raw, location, err := readInput(ctx, input, settings)
    if err != nil {
        return nil, err
    }
    return decode(raw, location, settings)
}

// LoadBytes parses and validates an in-memory document.
func LoadBytes(data []byte, opts ...Option) (*Document, error) {
    settings := DefaultSettings()
    for _, opt := range opts {
        opt(&settings)
    }
    return decode(data, "", settings)
}

func decode(raw []byte, location string, settings Settings) (*Document, error) {
    doc, err := Parse(raw)
    if err != nil {
        var le *LoadError
        if errors.As(err, &le) {
            le.Location = location
            return nil, le
        }
        return nil, &LoadError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
    }
    if !settings.SkipValidation {
        if err := Validate(doc); err != nil {
            le := &LoadError{Code: ValidationError, Message: fmt.Sprintf("document: %v", err), Location: location, Cause: err}
            var ve *FieldPathError
            if errors.As(err, &ve) {
                le.Path = ve.Path
            }
            return nil, le
        }
    }
    return doc, nil
}

func readInput(ctx context.Context, input string, settings Settings) ([]byte, string, error) {
    // Classify input as URL or file path.
    u, uerr := url.Parse(input)
    isURL := uerr == nil && u.Scheme != "" && u.Host != ""

    if isURL {
        scheme := strings.ToLower(u.Scheme)
        if scheme == "file" {
            return nil, input, &LoadError{Code: InputError, Message: "document: file:// URLs are blocked, pass a path instead", Location: input}
        }
        if scheme != "http" && scheme != "https" {
            return nil, input, &LoadError{Code: InputError, Message: fmt.Sprintf("document: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
        }
        raw, err := fetchWithRetry(ctx, input, settings)
        if err != nil {
            return nil, input, &LoadError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
        }
        return raw, input, nil
    }

    abs, err := filepath.Abs(input)
    if err != nil {
        return nil, input, &LoadError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
    }
    raw, err := os.ReadFile(abs)
    if err != nil {
        return nil, abs, &LoadError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
    }
    return raw, abs, nil
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
    client := &http.Client{Timeout: settings.HTTPTimeout}
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

// fetchOnce performs one GET; retry reports whether the failure is transient.
func fetchOnce(ctx context.Context, client *http.Client, rawURL string) ([]byte, bool, error) {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
    if err != nil {
        return nil, false, err
    }
    resp, err := client.Do(req)
    if err != nil {
        return nil, ctx.Err() == nil, err
    }
    defer resp.Body.Close()
    if resp.StatusCode < 300 {
        body, err := io.ReadAll(resp.Body)
        return body, false, err
    }
    if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
        return nil, true, fmt.Errorf("transient http error %d", resp.StatusCode)
    }
    body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
    return nil, false, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
