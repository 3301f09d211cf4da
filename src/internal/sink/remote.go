// FILE: elklog/src/internal/sink/remote.go
package sink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"elklog/src/internal/core"
	"elklog/src/internal/format"
	"elklog/src/internal/version"

	"github.com/google/uuid"
	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
)

// RemoteSinkOptions configures delivery to the HTTP log store.
type RemoteSinkOptions struct {
	URL      string
	Index    string
	Timeout  time.Duration
	MinLevel core.Level
}

// DeliveryError reports a record the log store did not accept: either a
// transport failure or a response other than 200.
type DeliveryError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Reason is the short cause used to annotate fallback records.
func (e *DeliveryError) Reason() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// RemoteSink posts each record as one JSON object to {url}/{index}.
// One attempt per record, no retries.
type RemoteSink struct {
	threshold
	opts      RemoteSinkOptions
	endpoint  string
	client    *fasthttp.Client
	formatter *format.JSONFormatter
	logger    *log.Logger

	// Set when the URL can never be reached, every write falls back
	unusable error

	// Statistics
	stats *counters
}

// NewRemoteSink creates a new remote sink.
func NewRemoteSink(opts RemoteSinkOptions, logger *log.Logger, formatter *format.JSONFormatter) (*RemoteSink, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("remote sink URL cannot be empty")
	}
	if opts.Index == "" {
		opts.Index = core.DefaultIndex
	}
	if opts.Timeout <= 0 {
		opts.Timeout = core.DefaultTimeoutMS * time.Millisecond
	}

	r := &RemoteSink{
		threshold: threshold{min: opts.MinLevel},
		opts:      opts,
		endpoint:  strings.TrimRight(opts.URL, "/") + "/" + strings.TrimLeft(opts.Index, "/"),
		formatter: formatter,
		logger:    logger,
		stats:     newCounters(),
	}

	if err := checkEndpoint(opts.URL); err != nil {
		r.unusable = err
		logger.Warn("msg", "Remote sink URL is unusable, records will fall back to file",
			"component", "remote_sink",
			"url", opts.URL,
			"error", err)
	}

	r.client = &fasthttp.Client{
		MaxConnsPerHost:               10,
		MaxIdleConnDuration:           10 * time.Second,
		ReadTimeout:                   opts.Timeout,
		WriteTimeout:                  opts.Timeout,
		DisableHeaderNamesNormalizing: true,
	}

	return r, nil
}

// checkEndpoint accepts absolute http(s) URLs with a host.
func checkEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: %s", raw)
	}
	return nil
}

func (r *RemoteSink) Name() string {
	return "remote"
}

// Endpoint returns the full URL records are posted to.
func (r *RemoteSink) Endpoint() string {
	return r.endpoint
}

// Write posts rec and succeeds only on HTTP 200. Every failure is a
// *DeliveryError.
func (r *RemoteSink) Write(ctx context.Context, rec core.LogRecord) error {
	err := r.send(ctx, rec)
	r.stats.record(err)
	return err
}

func (r *RemoteSink) send(ctx context.Context, rec core.LogRecord) error {
	if r.unusable != nil {
		return &DeliveryError{Endpoint: r.endpoint, Err: r.unusable}
	}

	body, err := r.formatter.Marshal(rec)
	if err != nil {
		return &DeliveryError{Endpoint: r.endpoint, Err: fmt.Errorf("failed to format record: %w", err)}
	}

	timeout := r.opts.Timeout
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return &DeliveryError{Endpoint: r.endpoint, Err: err}
		}
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); remaining < timeout {
				timeout = remaining
			}
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.SetBody(body)

	if err := r.client.DoTimeout(req, resp, timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			err = fmt.Errorf("timeout after %s: %w", timeout, err)
		}
		return &DeliveryError{Endpoint: r.endpoint, Err: err}
	}

	if status := resp.StatusCode(); status != http.StatusOK {
		r.logger.Debug("msg", "Log store rejected record",
			"component", "remote_sink",
			"status_code", status,
			"response", string(resp.Body()))
		return &DeliveryError{Endpoint: r.endpoint, StatusCode: status}
	}

	return nil
}

func (r *RemoteSink) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

func (r *RemoteSink) GetStats() SinkStats {
	return r.stats.stats("remote", map[string]any{
		"endpoint": r.endpoint,
		"timeout":  r.opts.Timeout.String(),
	})
}
