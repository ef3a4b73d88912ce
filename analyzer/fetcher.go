package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "SEOAnalyzer/1.0"

// ErrInvalidURL is returned for input that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid url")

// Page is the fetched snapshot every extractor reads from.
type Page struct {
	RequestedURL  string
	FinalURL      *url.URL
	StatusCode    int
	RedirectChain []string
	Body          []byte
}

// Fetcher issues the page GET and the image HEAD probes.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewFetcher builds a Fetcher. A nil client gets a pooled transport with a
// fixed 15 second timeout.
func NewFetcher(client *http.Client, userAgent string, logger *zap.Logger) *Fetcher {
	if client == nil {
		transport := &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
		client = &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, userAgent: userAgent, logger: logger}
}

// ParseTarget validates raw input as an absolute http or https URL.
func ParseTarget(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

// Fetch performs the single GET for the page and records each redirect hop.
func (f *Fetcher) Fetch(ctx context.Context, raw string) (*Page, error) {
	u, err := ParseTarget(raw)
	if err != nil {
		return nil, err
	}
	target := u.String()

	chain := []string{target}
	client := *f.client
	inner := f.client.CheckRedirect
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if inner != nil {
			if err := inner(req, via); err != nil {
				return err
			}
		} else if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		chain = append(chain, req.URL.String())
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	f.logger.Debug("page fetched",
		zap.String("url", target),
		zap.String("final_url", resp.Request.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Int("redirects", len(chain)-1),
		zap.Int("bytes", buf.Len()),
	)

	return &Page{
		RequestedURL:  target,
		FinalURL:      resp.Request.URL,
		StatusCode:    resp.StatusCode,
		RedirectChain: chain,
		Body:          buf.Bytes(),
	}, nil
}

// ProbeSize sends a HEAD request and reads Content-Length. The boolean is
// false when the header is missing or unparseable. Redirects are not followed.
func (f *Fetcher) ProbeSize(ctx context.Context, imageURL string) (int64, bool, error) {
	client := *f.client
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
	if err != nil {
		return 0, false, fmt.Errorf("build head request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("probe %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	header := resp.Header.Get("Content-Length")
	if header == "" {
		if resp.ContentLength > 0 {
			return resp.ContentLength, true, nil
		}
		return 0, false, nil
	}
	size, err := strconv.ParseInt(header, 10, 64)
	if err != nil || size < 0 {
		f.logger.Debug("unparseable content-length", zap.String("url", imageURL), zap.String("value", header))
		return 0, false, nil
	}
	return size, true, nil
}
