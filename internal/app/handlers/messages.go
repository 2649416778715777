package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/agri-market/internal/domain/models"
	"github.com/linemk/agri-market/internal/service"
)

// MessagesHandler обрабатывает GET /api/messages.
func MessagesHandler(log *slog.Logger, messages service.MessageService) http.HandlerFunc {
	return messagesList(log, "handlers.MessagesHandler", messages.MyMessages)
}

// UnreadMessagesHandler обрабатывает GET /api/messages/unread.
func UnreadMessagesHandler(log *slog.Logger, messages service.MessageService) http.HandlerFunc {
	return messagesList(log, "handlers.UnreadMessagesHandler", messages.Unread)
}

func messagesList(log *slog.Logger, op string, fetch func(context.Context) ([]*models.Message, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", op))

		list, err := fetch(r.Context())
		if err != nil {
			logger.Error("failed to list messages", slog.Any("error", err))
			writeError(w, err)
			return
		}
		if list == nil {
			list = []*models.Message{}
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// ThreadsHandler обрабатывает GET /api/messages/threads.
func ThreadsHandler(log *slog.Logger, messages service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ThreadsHandler"
		logger := log.With(slog.String("op", op))

		threads, err := messages.Threads(r.Context())
		if err != nil {
			logger.Error("failed to build threads", slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, threads)
	}
}

// SendMessageHandler обрабатывает POST /api/messages.
func SendMessageHandler(log *slog.Logger, messages service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SendMessageHandler"
		logger := log.With(slog.String("op", op))

		var req models.SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		m, err := messages.Send(r.Context(), req)
		if err != nil {
			logger.Error("failed to send message", slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, m)
	}
}

// MarkReadHandler обрабатывает POST /api/messages/{id}/read.
func MarkReadHandler(log *slog.Logger, messages service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MarkReadHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid message id", http.StatusBadRequest)
			return
		}

		m, err := messages.MarkAsRead(r.Context(), id)
		if err != nil {
			logger.Error("failed to mark message as read", slog.Int64("messageID", id), slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, m)
	}
}
