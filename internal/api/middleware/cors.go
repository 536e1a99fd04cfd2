package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
}

// CORS allows the local frontends plus frontendURL. In development every
// origin is accepted. Requests without an Origin header pass untouched.
func CORS(frontendURL string, development bool) echo.MiddlewareFunc {
	return echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOriginFunc:  originAllowed(frontendURL, development),
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	})
}

func originAllowed(frontendURL string, development bool) func(string) (bool, error) {
	allowed := make(map[string]struct{}, len(defaultOrigins)+1)
	for _, o := range defaultOrigins {
		allowed[o] = struct{}{}
	}
	if frontendURL != "" {
		allowed[frontendURL] = struct{}{}
	}
	return func(origin string) (bool, error) {
		if development {
			return true, nil
		}
		_, ok := allowed[origin]
		return ok, nil
	}
}
