// Package server is the browser-facing layer: route registration, the
// per-browser state binding, and the HTML views for catalog, checkout,
// account, and admin screens.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/chronoluxe/rental-frontend/backend"
	"github.com/chronoluxe/rental-frontend/cart"
	"github.com/chronoluxe/rental-frontend/checkout"
	"github.com/chronoluxe/rental-frontend/internal/config"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	fileServer http.Handler
	config     config.Config
	backend    *backend.Client
	browsers   *browserRegistry
	nowTime    func() time.Time // nowTime function (injectable for testing)
}

// Option defines a function type to modify the Server instance.
type Option func(*Server)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// WithStoreFactory overrides how per-browser storage is built (tests use
// in-memory stores).
func WithStoreFactory(factory StoreFactory) Option {
	return func(s *Server) {
		s.browsers = newBrowserRegistry(factory)
	}
}

func New(config config.Config, backendClient *backend.Client, options ...Option) (*Server, error) {
	if backendClient == nil {
		return nil, fmt.Errorf("[Server New] backend client is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		backend:  backendClient,
		browsers: newBrowserRegistry(fileStoreFactory(config.GetDataFolder())),
		nowTime:  time.Now,
	}
	s.env = config.GetEnv()
	s.fileServer = FileServerHandler()
	for _, opt := range options {
		opt(s)
	}
	s.browsers.processorFor = func(browserCart *cart.Cart) (*checkout.Processor, error) {
		return checkout.NewProcessor(backendClient, backendClient, checkout.WithCart(browserCart))
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
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
	if s.env != "DEV" {
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
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
