package http

import (
	"net/http"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

const authRealm = `Basic realm="aldjiday-gestion", charset="UTF-8"`

// basicAuth пропускает запрос только с учётными данными администратора из настроек.
func basicAuth(shopUC usecase.ShopUC, logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, pass, ok := r.BasicAuth()
			if !ok || shopUC.Authenticate(id, pass) != nil {
				logger.Warnf("%d %s %s: unauthorized", http.StatusUnauthorized, r.Method, r.URL.Path)
				w.Header().Set("WWW-Authenticate", authRealm)
				WriteError(w, e.ErrInvalidCredentials)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger пишет метод, путь, статус и длительность каждого запроса.
func requestLogger(logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debugf("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
