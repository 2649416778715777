package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/linemk/agri-market/internal/domain/models"
	"github.com/linemk/agri-market/internal/service"
)

// ListingsHandler обрабатывает GET /api/listings.
// Query: mine, active, country, search, waste_type.
func ListingsHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListingsHandler"
		logger := log.With(slog.String("op", op))

		q := r.URL.Query()
		wasteType, ok := queryID(r, "waste_type")
		if !ok {
			http.Error(w, "invalid waste_type", http.StatusBadRequest)
			return
		}
		f := service.ListingFilter{
			Mine:      q.Get("mine") == "true",
			Active:    q.Get("active") == "true",
			Country:   strings.TrimSpace(q.Get("country")),
			Search:    strings.TrimSpace(q.Get("search")),
			WasteType: wasteType,
		}

		list, err := catalog.Listings(r.Context(), f)
		if err != nil {
			logger.Error("failed to list listings", slog.Any("error", err))
			writeError(w, err)
			return
		}
		if list == nil {
			list = []*models.Listing{}
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// ListingHandler обрабатывает GET /api/listings/{id}.
func ListingHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListingHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid listing id", http.StatusBadRequest)
			return
		}

		l, err := catalog.Listing(r.Context(), id)
		if err != nil {
			logger.Error("failed to get listing", slog.Int64("listingID", id), slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, l)
	}
}

// ListingReviewsHandler обрабатывает GET /api/listings/{id}/reviews.
func ListingReviewsHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListingReviewsHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid listing id", http.StatusBadRequest)
			return
		}

		sum, err := catalog.ListingReviews(r.Context(), id)
		if err != nil {
			logger.Error("failed to list reviews", slog.Int64("listingID", id), slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, sum)
	}
}

// CreateReviewHandler обрабатывает POST /api/reviews.
func CreateReviewHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateReviewHandler"
		logger := log.With(slog.String("op", op))

		var req service.CreateReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		review, err := catalog.CreateReview(r.Context(), req)
		if err != nil {
			logger.Error("failed to create review", slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, review)
	}
}

// CreateListingHandler обрабатывает POST /api/listings.
func CreateListingHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateListingHandler"
		logger := log.With(slog.String("op", op))

		var req models.ListingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		l, err := catalog.CreateListing(r.Context(), req)
		if err != nil {
			logger.Error("failed to create listing", slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, l)
	}
}

// UpdateListingHandler обрабатывает PATCH /api/listings/{id}.
func UpdateListingHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateListingHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid listing id", http.StatusBadRequest)
			return
		}

		var patch models.ListingPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		l, err := catalog.UpdateListing(r.Context(), id, patch)
		if err != nil {
			logger.Error("failed to update listing", slog.Int64("listingID", id), slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, l)
	}
}

// DeleteListingHandler обрабатывает DELETE /api/listings/{id}.
func DeleteListingHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteListingHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid listing id", http.StatusBadRequest)
			return
		}

		if err := catalog.DeleteListing(r.Context(), id); err != nil {
			logger.Error("failed to delete listing", slog.Int64("listingID", id), slog.Any("error", err))
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// UserReviewsHandler обрабатывает GET /api/users/{id}/reviews.
func UserReviewsHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UserReviewsHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}

		sum, err := catalog.UserReviews(r.Context(), id)
		if err != nil {
			logger.Error("failed to list user reviews", slog.Int64("userID", id), slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, sum)
	}
}
