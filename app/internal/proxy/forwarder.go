package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/closetly/edge-gateway/app/domain/entities"
	"github.com/closetly/edge-gateway/app/internal/routing"
)

// DefaultUpstreamTimeout bounds the whole upstream exchange when no
// timeout is configured.
const DefaultUpstreamTimeout = 30 * time.Second

// Forwarder streams requests to upstream services and their responses
// back to the original caller. It holds no per-request state and is safe
// for concurrent use.
type Forwarder struct {
	client  *http.Client
	timeout time.Duration
}

// NewForwarder creates a Forwarder with the given upstream timeout.
func NewForwarder(timeout time.Duration) *Forwarder {
	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}
	return &Forwarder{
		client: &http.Client{
			// Redirects from the upstream are passed through verbatim, not followed.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout: timeout,
	}
}

// Forward proxies the inbound request to the rule's upstream. The request
// body is streamed to the upstream and the response body is streamed back;
// neither is buffered in full. The returned outcome carries the status code
// sent to the caller and the failure classification, if any.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, rule entities.RouteRule) entities.RouteOutcome {
	// Deriving from the inbound context aborts the upstream call when the
	// client disconnects.
	ctx, cancel := context.WithTimeout(r.Context(), f.timeout)
	defer cancel()

	// The rewrite works on the escaped form so percent-encoded separators
	// in the remainder (e.g. object keys like a%2Fb) survive the strip.
	target := "http://" + rule.UpstreamAddr() + routing.RewritePath(r.URL.EscapedPath(), rule)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, r.Body)
	if err != nil {
		return f.fail(w, rule, err)
	}

	req.Header = r.Header.Clone()
	// Carrying the inbound length over keeps a known-length body known-length
	// on the wire instead of degrading to chunked encoding, which
	// S3-compatible upstreams reject for object uploads.
	req.ContentLength = r.ContentLength
	// The caller's authority is preserved; replacing it with the internal
	// service name breaks link generation and CORS checks on the upstream.
	req.Host = r.Host
	req.Header.Set("X-Forwarded-Host", r.Host)
	req.Header.Set("X-Forwarded-Proto", requestScheme(r))

	resp, err := f.client.Do(req)
	if err != nil {
		return f.fail(w, rule, err)
	}
	defer resp.Body.Close()

	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	if _, err := flushingCopy(w, resp.Body); err != nil {
		// The status line is already on the wire; all we can do is stop.
		log.Printf("Error streaming response from %s: %v", rule.UpstreamAddr(), err)
	}

	return entities.RouteOutcome{StatusCode: resp.StatusCode}
}

// fail converts an upstream transport failure into a gateway response:
// 504 when the upstream timed out, 502 for everything else. The body is a
// one-line plain-text diagnostic with the underlying error.
func (f *Forwarder) fail(w http.ResponseWriter, rule entities.RouteRule, err error) entities.RouteOutcome {
	log.Printf("Upstream %s failed: %v", rule.UpstreamAddr(), err)

	if errors.Is(err, context.DeadlineExceeded) {
		http.Error(w, fmt.Sprintf("Gateway timeout: %v", err), http.StatusGatewayTimeout)
		return entities.RouteOutcome{
			StatusCode:    http.StatusGatewayTimeout,
			UpstreamError: true,
			Timeout:       true,
		}
	}

	http.Error(w, fmt.Sprintf("Bad gateway: %v", err), http.StatusBadGateway)
	return entities.RouteOutcome{
		StatusCode:    http.StatusBadGateway,
		UpstreamError: true,
	}
}

// flushingCopy relays the response body chunk by chunk, flushing after
// each write so incremental upstream output (e.g. the AI worker streaming
// tokens) reaches the caller without waiting for the write buffer to fill.
func flushingCopy(dst http.ResponseWriter, src io.Reader) (int64, error) {
	flusher, _ := dst.(http.Flusher)
	buf := make([]byte, 32*1024)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			wn, writeErr := dst.Write(buf[:n])
			written += int64(wn)
			if flusher != nil {
				flusher.Flush()
			}
			if writeErr != nil {
				return written, writeErr
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			return written, readErr
		}
	}
}

func copyHeader(dst, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
