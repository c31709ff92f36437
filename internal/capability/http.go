package capability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// ErrNotAllowed is returned when a URL or command is outside the allowlist.
var ErrNotAllowed = errors.New("not allowed")

const maxResponseBody = 32 << 20

type FetchRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

type FetchResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// HTTP performs requests on behalf of the frontend, limited to the
// configured URL patterns.
type HTTP struct {
	allow   []string
	timeout time.Duration
	client  *http.Client

	patterns []urlPattern
}

func NewHTTP(allow []string, timeout time.Duration) *HTTP {
	return &HTTP{allow: allow, timeout: timeout}
}

func (h *HTTP) Name() string { return "http" }

func (h *HTTP) setup() error {
	h.patterns = h.patterns[:0]
	for _, raw := range h.allow {
		p, err := parsePattern(raw)
		if err != nil {
			return err
		}
		h.patterns = append(h.patterns, p)
	}
	if h.timeout <= 0 {
		return errors.New("http timeout must be positive")
	}
	h.client = &http.Client{Timeout: h.timeout}
	return nil
}

// urlPattern is kept as plain strings: url.Parse rejects wildcard ports.
type urlPattern struct {
	scheme string
	host   string
	path   string
}

func parsePattern(raw string) (urlPattern, error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" || rest == "" {
		return urlPattern{}, fmt.Errorf("allow pattern %q: scheme and host are required", raw)
	}
	host, p, _ := strings.Cut(rest, "/")
	if host == "" {
		return urlPattern{}, fmt.Errorf("allow pattern %q: empty host", raw)
	}
	if _, err := path.Match(host, ""); err != nil {
		return urlPattern{}, fmt.Errorf("allow pattern %q: %w", raw, err)
	}
	return urlPattern{scheme: strings.ToLower(scheme), host: strings.ToLower(host), path: "/" + p}, nil
}

func (p urlPattern) match(u *url.URL) bool {
	if p.scheme != u.Scheme {
		return false
	}
	host := strings.ToLower(u.Host)
	ok, _ := path.Match(p.host, host)
	if !ok && u.Port() == "" {
		// "localhost:*" also covers the default port
		ok, _ = path.Match(p.host, host+":")
	}
	return ok && p.matchPath(u.Path)
}

func (p urlPattern) matchPath(reqPath string) bool {
	if reqPath == "" {
		reqPath = "/"
	}
	if strings.HasSuffix(p.path, "*") {
		return strings.HasPrefix(reqPath, strings.TrimSuffix(p.path, "*"))
	}
	return reqPath == p.path
}

// Allowed reports whether raw matches one of the allow patterns.
func (h *HTTP) Allowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	for _, p := range h.patterns {
		if p.match(u) {
			return true
		}
	}
	return false
}

func (h *HTTP) Fetch(req FetchRequest) (FetchResponse, error) {
	return h.FetchContext(context.Background(), req)
}

func (h *HTTP) FetchContext(ctx context.Context, req FetchRequest) (FetchResponse, error) {
	if !h.Allowed(req.URL) {
		return FetchResponse{}, fmt.Errorf("fetch %s: %w", req.URL, ErrNotAllowed)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if req.Body != "" {
		body = bytes.NewBufferString(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), req.URL, body)
	if err != nil {
		return FetchResponse{}, fmt.Errorf("build request: %w", err)
	}
	for k, v := range req.Headers {
		hreq.Header.Set(k, v)
	}
	resp, err := h.client.Do(hreq)
	if err != nil {
		return FetchResponse{}, fmt.Errorf("fetch %s: %w", req.URL, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return FetchResponse{}, fmt.Errorf("read response: %w", err)
	}
	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return FetchResponse{Status: resp.StatusCode, Headers: headers, Body: string(data)}, nil
}
