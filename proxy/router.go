package proxy

import (
	"net/url"
	"strings"

	"ssoproxy/internal/config"
	apperrors "ssoproxy/internal/errors"
)

// Origin identifies which upstream a request is bound for.
type Origin string

const (
	OriginAPI    Origin = "api"
	OriginClient Origin = "client"
)

// Decision is the per-request routing outcome: which origin to hit and the
// rewritten upstream path. It is derived for every request, never stored.
type Decision struct {
	Origin       Origin
	UpstreamPath string
	Target       *url.URL
}

// Router classifies inbound paths as API- or client-bound. API traffic has
// the configured prefix stripped before forwarding; client traffic keeps its
// path unchanged. The API origin is optional: without it everything,
// API-prefixed paths included, goes to the client origin.
type Router struct {
	apiPrefix string
	api       *url.URL
	client    *url.URL
}

func NewRouter(cfg config.ProxyConfig) (*Router, error) {
	clientURL := cfg.GetClientOriginURL()
	if clientURL == "" {
		return nil, apperrors.Wrapf(apperrors.ErrConfigurationMissing, "client origin URL")
	}
	client, err := url.Parse(clientURL)
	if err != nil {
		return nil, apperrors.Wrapf(err, "parsing client origin URL %q", clientURL)
	}

	router := &Router{
		apiPrefix: strings.TrimSuffix(cfg.GetAPIPrefix(), "/"),
		client:    client,
	}

	if apiURL := cfg.GetAPIOriginURL(); apiURL != "" {
		api, err := url.Parse(apiURL)
		if err != nil {
			return nil, apperrors.Wrapf(err, "parsing API origin URL %q", apiURL)
		}
		router.api = api
	}

	return router, nil
}

// Classify resolves the upstream for requestPath. Prefix matching is
// segment-aware: "/apiary" is client traffic even with an "/api" prefix
// configured. A path that is exactly the prefix normalizes to "/", since an
// empty path is invalid in an HTTP request line.
func (rt *Router) Classify(requestPath string) Decision {
	if rt.api != nil && rt.apiPrefix != "" {
		if requestPath == rt.apiPrefix || strings.HasPrefix(requestPath, rt.apiPrefix+"/") {
			upstreamPath := strings.TrimPrefix(requestPath, rt.apiPrefix)
			if upstreamPath == "" {
				upstreamPath = "/"
			}
			return Decision{Origin: OriginAPI, UpstreamPath: upstreamPath, Target: rt.api}
		}
	}
	return Decision{Origin: OriginClient, UpstreamPath: requestPath, Target: rt.client}
}
