package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/catalog-api/docs"
	"github.com/rogerio-castellano/catalog-api/internal/http/handlers"
	mw "github.com/rogerio-castellano/catalog-api/internal/http/middleware"
	rl "github.com/rogerio-castellano/catalog-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/catalog-api/internal/logger"
)

// Options configures the cross-cutting middleware of the router.
type Options struct {
	Logger        *logger.Logger
	Verifier      mw.TokenVerifier
	Visitors      *rl.Visitors // nil disables rate limiting
	AllowedOrigin string
	Development   bool
}

func NewRouter(s *handlers.Server, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.RequestLogger(log.With("component", "http")))
	// The limiter keys on the peer address, so it must run before RealIP
	// rewrites RemoteAddr from client-supplied headers.
	if opts.Visitors != nil {
		r.Use(mw.RateLimitMiddleware(opts.Visitors))
	}
	r.Use(chimw.RealIP)
	r.Use(mw.Recoverer(log, opts.Development))
	r.Use(mw.CORSMiddleware(opts.AllowedOrigin))

	// Set before Route so sub-routers inherit them.
	r.NotFound(s.NotFoundHandler)
	r.MethodNotAllowed(s.NotFoundHandler)

	authenticated := mw.AuthMiddleware(opts.Verifier)

	r.Get("/", s.IndexHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.LoginHandler)
		r.With(authenticated).Get("/verify", s.VerifyHandler)
	})

	r.Route("/products", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", s.GetProductsHandler)
		r.Post("/", s.CreateProductHandler)
		r.Get("/{id}", s.GetProductHandler)
		r.Put("/{id}", s.UpdateProductHandler)
		r.Delete("/{id}", s.DeleteProductHandler)
	})

	return r
}
