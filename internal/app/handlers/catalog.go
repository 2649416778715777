package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/agri-market/internal/domain/models"
	"github.com/linemk/agri-market/internal/service"
)

// CategoriesHandler обрабатывает GET /api/catalog/categories.
func CategoriesHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CategoriesHandler"
		logger := log.With(slog.String("op", op))

		list, err := catalog.Categories(r.Context())
		if err != nil {
			logger.Error("failed to list categories", slog.Any("error", err))
			writeError(w, err)
			return
		}
		if list == nil {
			list = []models.Category{}
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// WasteTypesHandler обрабатывает GET /api/catalog/waste-types[?category=N].
func WasteTypesHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.WasteTypesHandler"
		logger := log.With(slog.String("op", op))

		category, ok := queryID(r, "category")
		if !ok {
			http.Error(w, "invalid category", http.StatusBadRequest)
			return
		}

		list, err := catalog.WasteTypes(r.Context(), category)
		if err != nil {
			logger.Error("failed to list waste types", slog.Any("error", err))
			writeError(w, err)
			return
		}
		if list == nil {
			list = []models.WasteType{}
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// WasteTypeHandler обрабатывает GET /api/catalog/waste-types/{id}.
func WasteTypeHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.WasteTypeHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid waste type id", http.StatusBadRequest)
			return
		}

		wt, err := catalog.WasteType(r.Context(), id)
		if err != nil {
			logger.Error("failed to get waste type", slog.Int64("id", id), slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, wt)
	}
}

// DocumentsHandler обрабатывает GET /api/catalog/documents[?waste_type=N].
func DocumentsHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DocumentsHandler"
		logger := log.With(slog.String("op", op))

		wasteType, ok := queryID(r, "waste_type")
		if !ok {
			http.Error(w, "invalid waste_type", http.StatusBadRequest)
			return
		}

		docs, err := catalog.Documents(r.Context(), wasteType)
		if err != nil {
			logger.Error("failed to list documents", slog.Any("error", err))
			writeError(w, err)
			return
		}
		if docs == nil {
			docs = []models.ResourceDocument{}
		}
		writeJSON(w, logger, http.StatusOK, docs)
	}
}
