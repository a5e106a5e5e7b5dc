package proxy

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/rs/zerolog/log"

	"ssoproxy/grant"
	"ssoproxy/internal/config"
	"ssoproxy/internal/metrics"
)

// Forwarder proxies authenticated requests to the origin the Router selects,
// injecting the caller's identity headers on the way out. It makes exactly
// one forwarding attempt per inbound request and keeps no per-request state
// past the request's completion.
//
// WebSocket and other Connection-Upgrade requests travel the same path: the
// underlying reverse proxy forwards the handshake and then streams both
// directions until either side closes. Requests must have passed the auth
// gate before reaching the Forwarder.
type Forwarder struct {
	router *Router
	proxy  *httputil.ReverseProxy
	m      *metrics.Metrics
}

func NewForwarder(router *Router, cfg config.ProxyConfig, m *metrics.Metrics) *Forwarder {
	// No client-level timeout: upgraded and streaming connections may live
	// indefinitely. Plain HTTP calls are bounded by the response-header
	// deadline instead.
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.GetRequestTimeout(),
	}

	f := &Forwarder{router: router, m: m}
	f.proxy = &httputil.ReverseProxy{
		Rewrite:       f.rewrite,
		ErrorHandler:  f.handleError,
		Transport:     transport,
		FlushInterval: -1, // flush as data arrives; upstreams stream
	}
	return f
}

func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.proxy.ServeHTTP(&trackingResponseWriter{ResponseWriter: w}, r)
}

func (f *Forwarder) rewrite(pr *httputil.ProxyRequest) {
	decision := f.router.Classify(pr.In.URL.Path)
	pr.SetURL(decision.Target)
	pr.Out.URL.Path = decision.UpstreamPath
	pr.Out.URL.RawPath = ""
	pr.SetXForwarded()

	g := grant.FromContext(pr.In.Context())
	InjectIdentity(pr.Out.Header, g)

	f.m.ProxiedRequests.WithLabelValues(string(decision.Origin)).Inc()

	event := log.Debug().
		Str("method", pr.In.Method).
		Str("path", pr.In.URL.Path).
		Str("origin", string(decision.Origin)).
		Str("upstreamPath", decision.UpstreamPath)
	if g != nil && g.Claims.Identified() {
		event = event.
			Str("displayName", pr.Out.Header.Get(HeaderDisplayName)).
			Str("email", pr.Out.Header.Get(HeaderEmail)).
			Str("egroups", pr.Out.Header.Get(HeaderRoles)).
			Str("id", pr.Out.Header.Get(HeaderID))
	}
	event.Msg("forwarding request")
}

// handleError converts an upstream transport failure into a diagnostic 500
// for this caller only; the process and all other in-flight requests are
// unaffected. Once the response has started streaming the connection is
// already compromised, so the handler does nothing further.
func (f *Forwarder) handleError(w http.ResponseWriter, r *http.Request, err error) {
	f.m.UpstreamErrors.Inc()
	log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("upstream request failed")

	if tw, ok := w.(*trackingResponseWriter); ok && tw.wroteHeader {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "upstream request failed: %v", err)
}

// trackingResponseWriter records whether a response has started, so the
// error handler never attempts an invalid double-write.
type trackingResponseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *trackingResponseWriter) WriteHeader(statusCode int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *trackingResponseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer's Flush
// and Hijack, which the reverse proxy needs for streaming and upgrades.
func (w *trackingResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
