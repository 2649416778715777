package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linemk/agri-market/internal/storage"
)

// UnresolvedReporter отдаёт сводку по связям, которые не удалось восстановить.
type UnresolvedReporter interface {
	Summary(ctx context.Context) ([]storage.UnresolvedCount, error)
}

// UnresolvedReportHandler обрабатывает GET /api/reports/unresolved.
func UnresolvedReportHandler(log *slog.Logger, reporter UnresolvedReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UnresolvedReportHandler"
		logger := log.With(slog.String("op", op))

		rows, err := reporter.Summary(r.Context())
		if err != nil {
			logger.Error("failed to build report", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []storage.UnresolvedCount{}
		}
		writeJSON(w, logger, http.StatusOK, rows)
	}
}
