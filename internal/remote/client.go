package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/rdf"
)

// Accept headers sent by Fetch and Select.
const (
	AcceptRDF     = "application/xml, application/rdf+xml"
	AcceptResults = "application/sparql-results+xml, application/sparql-results+json;q=0.9"
)

// maxGetURL is the longest request URL sent as GET; longer queries are
// sent as a POST form.
const maxGetURL = 2048

// Timeouts bounds network calls.
type Timeouts struct {
	// Connect bounds dialing. Select also sends it to the service.
	Connect time.Duration
	// Read bounds each read of a Fetch response.
	Read time.Duration
}

// DefaultTimeouts returns a 5 second connect and 30 second read timeout.
func DefaultTimeouts() Timeouts {
	return Timeouts{Connect: 5 * time.Second, Read: 30 * time.Second}
}

// Option configures a Client.
type Option func(*Client)

// WithTimeouts overrides the default timeouts.
func WithTimeouts(t Timeouts) Option {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client performs rdfkit's HTTP requests.
type Client struct {
	timeouts    Timeouts
	logger      *slog.Logger
	fetchClient *http.Client
	queryClient *http.Client
	userAgent   string
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeouts:  DefaultTimeouts(),
		logger:    slog.Default(),
		userAgent: "rdfkit/" + rdf.ToolVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fetchClient = &http.Client{Transport: newTransport(c.timeouts.Connect, c.timeouts.Read)}
	c.queryClient = &http.Client{Transport: newTransport(c.timeouts.Connect, 0)}
	return c
}

// Timeouts returns the configured timeouts.
func (c *Client) Timeouts() Timeouts {
	return c.timeouts
}

// Close releases idle connections.
func (c *Client) Close() {
	c.fetchClient.CloseIdleConnections()
	c.queryClient.CloseIdleConnections()
}

// Response is an open HTTP response body. It must be closed.
type Response struct {
	Body        io.ReadCloser
	ContentType string
	StatusCode  int
}

// Close releases the response body.
func (r *Response) Close() error {
	if r == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// Fetch GETs rawURL for import. The Accept header asks for RDF/XML; extra
// headers are applied after it in key order, so they replace any header
// of the same name.
func (c *Client) Fetch(ctx context.Context, rawURL string, extraHeaders map[string]string) (*Response, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, graph.NewError(graph.ErrCodeIO, "could not build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", AcceptRDF)
	keys := make([]string, 0, len(extraHeaders))
	for k := range extraHeaders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		req.Header.Set(k, extraHeaders[k])
	}

	resp, err := c.do(c.fetchClient, req, u.Hostname())
	if err != nil {
		return nil, err
	}
	resp.Body = &hostBody{ReadCloser: resp.Body, host: u.Hostname()}
	return resp, nil
}

// Select sends a SPARQL query to endpoint. The connect timeout is sent as
// the timeout parameter in milliseconds.
func (c *Client) Select(ctx context.Context, endpoint, query string) (*Response, error) {
	u, err := parseURL(endpoint)
	if err != nil {
		return nil, err
	}

	params := u.Query()
	params.Set("query", query)
	params.Set("timeout", strconv.FormatInt(c.timeouts.Connect.Milliseconds(), 10))

	var req *http.Request
	get := *u
	get.RawQuery = params.Encode()
	if len(get.String()) <= maxGetURL {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, get.String(), nil)
	} else {
		form := url.Values{"query": {query}, "timeout": {params.Get("timeout")}}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, graph.NewError(graph.ErrCodeIO, "could not build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", AcceptResults)

	return c.do(c.queryClient, req, u.Hostname())
}

func (c *Client) do(hc *http.Client, req *http.Request, host string) (*Response, error) {
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Debug("remote request failed", "method", req.Method, "host", host, "error", err)
		return nil, networkError(host, err)
	}
	c.logger.Debug("remote request",
		"method", req.Method,
		"host", host,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, handleError(host, resp)
	}
	return &Response{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, graph.NewError(graph.ErrCodeIO, fmt.Sprintf("invalid URL %q", rawURL), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, graph.NewError(graph.ErrCodeIO, fmt.Sprintf("unsupported URL scheme %q", u.Scheme), nil)
	}
	if u.Hostname() == "" {
		return nil, graph.NewError(graph.ErrCodeIO, fmt.Sprintf("URL %q has no host", rawURL), nil)
	}
	return u, nil
}

// newTransport builds a transport whose dials are bounded by connect and,
// when read is positive, whose connections fail any read that stalls
// longer than read.
func newTransport(connect, read time.Duration) *http.Transport {
	dialer := &net.Dialer{Timeout: connect}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = http.ProxyFromEnvironment
	t.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil || read <= 0 {
			return conn, err
		}
		return &deadlineConn{Conn: conn, read: read}, nil
	}
	t.TLSHandshakeTimeout = connect
	if read > 0 {
		t.ResponseHeaderTimeout = read
	}
	return t
}

// deadlineConn pushes the read deadline forward before every Read.
type deadlineConn struct {
	net.Conn
	read time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.read)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

// hostBody maps transport failures while reading a Fetch body onto
// NETWORK_ERROR.
type hostBody struct {
	io.ReadCloser
	host string
}

func (b *hostBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF {
		return n, networkError(b.host, err)
	}
	return n, err
}
