package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the proxy
type Metrics struct {
	AuthChallenges  prometheus.Counter
	AuthRejections  prometheus.Counter
	SessionsCreated prometheus.Counter
	SessionsEnded   prometheus.Counter
	ProxiedRequests *prometheus.CounterVec
	UpstreamErrors  prometheus.Counter
}

// New creates and registers all metrics on reg. Tests pass a fresh registry
// so parallel packages never collide on registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AuthChallenges: factory.NewCounter(prometheus.CounterOpts{
			Name: "ssoproxy_auth_challenges_total",
			Help: "Requests redirected into the provider authorization flow",
		}),
		AuthRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "ssoproxy_auth_rejections_total",
			Help: "Requests rejected with an authentication failure status",
		}),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ssoproxy_sessions_created_total",
			Help: "Sessions created after a successful code exchange",
		}),
		SessionsEnded: factory.NewCounter(prometheus.CounterOpts{
			Name: "ssoproxy_sessions_ended_total",
			Help: "Sessions destroyed through the logout endpoint",
		}),
		ProxiedRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ssoproxy_proxied_requests_total",
			Help: "Requests forwarded upstream, labelled by origin",
		}, []string{"origin"}),
		UpstreamErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "ssoproxy_upstream_errors_total",
			Help: "Transport failures reaching an upstream origin",
		}),
	}
}

// Handler serves the metrics endpoint for the standalone metrics listener.
func Handler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}
