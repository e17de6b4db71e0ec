// Package client is a typed HTTP client for the Mídias Digitais admin API.
//
// Every call goes through Client.Request, which normalizes headers, sends
// the session cookie, applies the optional timeout together with the
// caller's context, and turns every failure into a *Error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// DefaultBaseURL is used when Options.BaseURL is empty.
const DefaultBaseURL = "http://localhost:8080/api"

type Options struct {
	// BaseURL is the API root every path is appended to, e.g. "https://host/api".
	BaseURL string
	// Timeout aborts any request that takes longer. Zero disables it.
	Timeout time.Duration
	// HTTPClient is copied; a cookie jar is added when it has none.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is safe for concurrent use.
type Client struct {
	base    string
	timeout time.Duration
	hc      *http.Client
	log     *slog.Logger

	People  *People
	Lines   *Lines
	Systems *Systems
	Media   *MediaResource
	Users   *Users
	Reports *Reports
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", base)
	}
	hc := &http.Client{}
	if opts.HTTPClient != nil {
		cp := *opts.HTTPClient
		hc = &cp
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := &Client{base: base, timeout: opts.Timeout, hc: hc, log: log}
	c.People = &People{c: c}
	c.Lines = &Lines{c: c}
	c.Systems = &Systems{c: c}
	c.Media = &MediaResource{c: c}
	c.Users = &Users{c: c}
	c.Reports = &Reports{c: c}
	return c, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.base }

// RequestOptions describes one call. Body, when non-nil, is sent as JSON:
// []byte, json.RawMessage and string are sent verbatim, anything else is
// marshaled.
type RequestOptions struct {
	Method string
	Header http.Header
	Query  url.Values
	Body   any
}

// Result is a successful response. Body is the decoded JSON value, or the
// raw text when the payload was not JSON, or nil when there was none.
type Result struct {
	Status int
	Body   any
	Raw    []byte
	URL    string
}

// Empty reports whether the response carried no payload (204/205 or empty body).
func (r *Result) Empty() bool { return len(r.Raw) == 0 }

// Decode unmarshals the raw payload into dst. An empty payload leaves dst untouched.
func (r *Result) Decode(dst any) error {
	if r.Empty() || dst == nil {
		return nil
	}
	if err := json.Unmarshal(r.Raw, dst); err != nil {
		return &Error{Message: "Resposta inválida do servidor", Status: r.Status, Body: r.Body, URL: r.URL, Err: err}
	}
	return nil
}

// Request performs one HTTP call against the API. It never retries.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (*Result, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.base + path
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	payload, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &Error{Message: err.Error(), URL: target, Err: err}
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug("api request failed", "method", method, "url", target, "err", err)
		return nil, transportError(ctx, target, err)
	}
	defer resp.Body.Close()
	c.log.Debug("api request", "method", method, "url", target, "status", resp.StatusCode, "dur_ms", time.Since(start).Milliseconds())

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusResetContent {
		return &Result{Status: resp.StatusCode, URL: target}, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, target, err)
	}
	parsed := parseBody(raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Message: errorMessage(resp, parsed, raw),
			Status:  resp.StatusCode,
			Body:    parsed,
			URL:     target,
		}
	}
	return &Result{Status: resp.StatusCode, Body: parsed, Raw: raw, URL: target}, nil
}

// do is the typed helper used by the resource modules.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	opts := RequestOptions{Method: method}
	if in != nil {
		opts.Body = in
	}
	res, err := c.Request(ctx, path, opts)
	if err != nil {
		return err
	}
	return res.Decode(out)
}

func encodeBody(v any) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return out, nil
	}
}

func parseBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func errorMessage(resp *http.Response, parsed any, raw []byte) string {
	if _, ok := parsed.(map[string]any); ok {
		var eb ErrorBody
		if json.Unmarshal(raw, &eb) == nil {
			if msg, ok := eb.Text(); ok {
				return msg
			}
		}
	}
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		return msgHTTPFallback
	}
	return reason
}

func transportError(ctx context.Context, target string, err error) *Error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Message: msgCancelled, URL: target, Err: errors.Join(ctxErr, err)}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Message: msgCancelled, URL: target, Err: err}
	}
	msg := err.Error()
	if msg == "" {
		msg = msgNetwork
	}
	return &Error{Message: msg, URL: target, Err: err}
}
