package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"ssoproxy/idp"
	"ssoproxy/internal/config"
	"ssoproxy/internal/metrics"
	"ssoproxy/server/authflowrepo"
	"ssoproxy/sessions"
)

type Server struct {
	env      string // Environment (e.g., "development", "production")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	idp      idp.Client
	sessions sessions.Repo
	pending  authflowrepo.Repo
	upstream http.Handler // the claim-injecting forwarder
	metrics  *metrics.Metrics
}

func New(cfg config.Config, idpClient idp.Client, sessionRepo sessions.Repo, pendingRepo authflowrepo.Repo, upstream http.Handler, m *metrics.Metrics) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		idp:      idpClient,
		sessions: sessionRepo,
		pending:  pendingRepo,
		upstream: upstream,
		metrics:  m,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "development" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
