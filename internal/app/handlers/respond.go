package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linemk/agri-market/internal/clients/marketplace"
	"github.com/linemk/agri-market/internal/domain/models"
	"github.com/linemk/agri-market/internal/service"
)

func writeJSON(w http.ResponseWriter, logger *slog.Logger, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError отображает ошибку сервиса в HTTP-статус.
// Цепочка op наружу не уходит: клиент видит только текст самой ошибки.
func writeError(w http.ResponseWriter, err error) {
	var (
		transitionErr *models.InvalidTransitionError
		validationErr *service.ValidationError
		apiErr        *marketplace.APIError
	)
	switch {
	case errors.As(err, &transitionErr):
		http.Error(w, transitionErr.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrInvalidTransition):
		http.Error(w, models.ErrInvalidTransition.Error(), http.StatusConflict)
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrValidation):
		http.Error(w, service.ErrValidation.Error(), http.StatusBadRequest)
	case errors.Is(err, marketplace.ErrBadRequest) && errors.As(err, &apiErr) && apiErr.Detail != "":
		// upstream отклонил данные, например заказ на неактивное объявление
		http.Error(w, apiErr.Detail, http.StatusBadRequest)
	case errors.Is(err, marketplace.ErrBadRequest):
		http.Error(w, "bad request", http.StatusBadRequest)
	case errors.Is(err, marketplace.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, marketplace.ErrUnauthorized):
		// сессию уже удалил хук клиента
		http.Error(w, "session expired", http.StatusUnauthorized)
	case errors.Is(err, marketplace.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "upstream error", http.StatusBadGateway)
	}
}

// idParam читает положительный числовой параметр пути.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryID читает необязательный числовой query-параметр; 0, если его нет.
func queryID(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
