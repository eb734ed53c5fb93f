package recoverer

import (
	"log/slog"
	"net/http"

	"github.com/vadimbarashkov/nhood/pkg/middleware"
)

// New recovers from panics in next, logs them and answers 500 with an empty body.
func New(logger *slog.Logger) middleware.Middleware {
	const op = "middleware.recoverer.New"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error(
						"something went wrong, panic occurred",
						slog.Group(op,
							slog.Any("err", err),
							slog.String("method", r.Method),
							slog.String("path", r.URL.Path),
						),
					)

					w.WriteHeader(http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
