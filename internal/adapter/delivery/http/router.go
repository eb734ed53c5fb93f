// Package http provides the HTTP delivery layer of the nhood services.
// It decodes and validates request bodies, calls the entry use cases and maps
// their results onto status codes and response bodies.
package http

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/nhood/internal/entity"
	"github.com/vadimbarashkov/nhood/pkg/middleware/recoverer"

	pkgmiddleware "github.com/vadimbarashkov/nhood/pkg/middleware"
)

// ServiceInfo is reported by the root endpoint as "<name>:<version>".
type ServiceInfo struct {
	Name    string
	Version string
}

type routerOptions struct {
	docsFile    string
	metrics     http.Handler
	middlewares []pkgmiddleware.Middleware
	mounts      []func(r chi.Router, validate *validator.Validate)
}

type RouterOption func(*routerOptions)

// WithDataURLs serves the data url entries under /urls.
func WithDataURLs(uc entryUseCase[entity.DataURL]) RouterOption {
	return func(o *routerOptions) {
		o.mounts = append(o.mounts, func(r chi.Router, validate *validator.Validate) {
			mountEntries(r, &entryHandler[entity.DataURL, dataURLRequest, dataURLResponse]{
				resource:   "urls",
				useCase:    uc,
				validate:   validate,
				idOf:       func(e *entity.DataURL) int64 { return e.ID },
				toResponse: toDataURLResponse,
			})
		})
	}
}

// WithLocations serves the location entries under /locations.
func WithLocations(uc entryUseCase[entity.Location]) RouterOption {
	return func(o *routerOptions) {
		o.mounts = append(o.mounts, func(r chi.Router, validate *validator.Validate) {
			mountEntries(r, &entryHandler[entity.Location, locationRequest, locationResponse]{
				resource:   "locations",
				useCase:    uc,
				validate:   validate,
				idOf:       func(e *entity.Location) int64 { return e.ID },
				toResponse: toLocationResponse,
			})
		})
	}
}

// WithDocs serves the OpenAPI document at path through Swagger UI.
func WithDocs(path string) RouterOption {
	return func(o *routerOptions) {
		o.docsFile = path
	}
}

// WithMetrics exposes h at /metrics.
func WithMetrics(h http.Handler) RouterOption {
	return func(o *routerOptions) {
		o.metrics = h
	}
}

// WithMiddlewares appends mw to the router stack after request logging.
func WithMiddlewares(mw ...pkgmiddleware.Middleware) RouterOption {
	return func(o *routerOptions) {
		o.middlewares = append(o.middlewares, mw...)
	}
}

// NewRouter initializes and returns a new Chi router configured with middleware and the given resources.
func NewRouter(logger *httplog.Logger, info ServiceInfo, opts ...RouterOption) *chi.Mux {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))
	for _, mw := range o.middlewares {
		r.Use(mw)
	}

	r.Get("/", handleRoot(info))
	r.Get("/ping", handlePing)

	if o.metrics != nil {
		r.Handle("/metrics", o.metrics)
	}

	if o.docsFile != "" {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/docs/swagger.yml"),
		))

		r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, o.docsFile)
		})
	}

	validate := newValidate()
	for _, mount := range o.mounts {
		mount(r, validate)
	}

	return r
}

func mountEntries[E any, Req entryRequest[E], Resp any](r chi.Router, h *entryHandler[E, Req, Resp]) {
	r.Route("/"+h.resource, func(r chi.Router) {
		r.Get("/", h.findAll)
		r.Post("/", h.create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.findByID)
			r.Put("/", h.modify)
			r.Delete("/", h.delete)
		})
	})
}

// newValidate reports violated fields by their json names.
func newValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}
