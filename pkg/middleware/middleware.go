// Package middleware holds the HTTP middleware shared by the nhood services.
package middleware

import "net/http"

type Middleware func(next http.Handler) http.Handler
