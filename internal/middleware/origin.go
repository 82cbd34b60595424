package middleware

import (
	"net/http"
	"slices"
)

// OriginCheck возвращает middleware, пропускающее запросы только с разрешённых
// источников. Проверка действует лишь в боевом окружении; запросы без
// заголовка Origin (например, серверные) пропускаются всегда.
func OriginCheck(allowedOrigins []string, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !production || len(allowedOrigins) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin != "" && !slices.Contains(allowedOrigins, origin) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
