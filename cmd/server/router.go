package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/booklib-api/internal/api"
	apiMiddleware "github.com/phrazzld/booklib-api/internal/api/middleware"
)

// setupRouter builds the router with the /v1 catalog routes and /health.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger(app.logger))
	r.Use(middleware.Recoverer)

	bookHandler := api.NewBookHandler(app.bookService, app.logger)
	authorHandler := api.NewAuthorHandler(app.authorService, app.logger)

	r.Route("/v1", func(r chi.Router) {
		if app.config.RateLimit.Enabled {
			limiter := apiMiddleware.NewWriteRateLimiter(
				app.config.RateLimit.RequestsPerSecond,
				app.config.RateLimit.Burst,
				app.logger,
			)
			r.Use(limiter.Handler)
		}

		r.Route("/books", func(r chi.Router) {
			r.Get("/list", bookHandler.ListBooks)
			r.Get("/search", bookHandler.SearchBooks)
			r.Post("/", bookHandler.CreateBook)
			r.Get("/{id}", bookHandler.GetBook)
			r.Patch("/{id}", bookHandler.UpdateBook)
			r.Delete("/{id}", bookHandler.DeleteBook)
		})

		r.Route("/authors", func(r chi.Router) {
			r.Get("/list", authorHandler.ListAuthors)
			r.Get("/search", authorHandler.SearchAuthors)
			r.Post("/", authorHandler.CreateAuthor)
			r.Get("/{id}", authorHandler.GetAuthor)
			r.Patch("/{id}", authorHandler.UpdateAuthor)
			r.Delete("/{id}", authorHandler.DeleteAuthor)
		})
	})

	var pinger api.Pinger
	if app.db != nil {
		pinger = app.db
	}
	r.Get("/health", api.NewHealthHandler(pinger, app.bookQueue.Len))

	return r
}
