package provider

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0"

	maxBodySize = 10 * 1024 * 1024
)

// NewHTTPClient returns the client shared by all adapters. It has no overall
// timeout; each call is bounded by the orchestrator's context deadline.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

// upstream performs single requests on behalf of a named adapter and maps
// failures onto the adapter error taxonomy.
type upstream struct {
	name      string
	client    *http.Client
	userAgent string
}

func newUpstream(name string, client *http.Client, userAgent string) upstream {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return upstream{name: name, client: client, userAgent: userAgent}
}

// do sends req once and returns the body of a 2xx response.
func (u upstream) do(req *http.Request) ([]byte, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", u.userAgent)
	}
	if req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, &TransportError{Provider: u.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &TransportError{Provider: u.name, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &TransportError{Provider: u.name, Err: err}
	}
	return body, nil
}

func (u upstream) decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &ParseError{Provider: u.name, Err: err}
	}
	return nil
}

func (u upstream) parseHTML(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Provider: u.name, Err: err}
	}
	return doc, nil
}

func (u upstream) malformed(err error) error {
	return &ParseError{Provider: u.name, Err: err}
}
