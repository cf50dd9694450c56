package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"activity-signup-service/internal/service"
)

// activityNameParam возвращает название занятия из пути в раскодированном виде.
// chi берёт параметры из RawPath, если он задан, поэтому раскодируем только в этом случае.
func activityNameParam(r *http.Request) string {
	name := chi.URLParam(r, "activity_name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// ValidateEmailQuery проверяет наличие query-параметра email.
// Формат email не проверяется, пустое значение допустимо.
func ValidateEmailQuery(query url.Values) (string, error) {
	if !query.Has("email") {
		return "", service.ErrUnprocessable("email query parameter is required")
	}
	return query.Get("email"), nil
}
