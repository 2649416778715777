package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/linemk/agri-market/internal/domain/models"
	"github.com/linemk/agri-market/internal/normalize"
)

type MessageAPI interface {
	SendMessage(ctx context.Context, req models.SendMessageRequest) (*models.Message, error)
	MyMessages(ctx context.Context) ([]*models.Message, error)
	UnreadMessages(ctx context.Context) ([]*models.Message, error)
	MarkMessageRead(ctx context.Context, id int64) (*models.Message, error)
	Me(ctx context.Context) (*models.UserProfile, error)
}

// Thread - переписка с одним собеседником (по одному объявлению).
type Thread struct {
	Participant *models.UserProfile `json:"participant"`
	Listing     *models.Listing     `json:"listing,omitempty"`
	LastMessage *models.Message     `json:"last_message"`
	Messages    []*models.Message   `json:"messages"`
	Unread      int                 `json:"unread"`
}

type MessageService interface {
	Send(ctx context.Context, req models.SendMessageRequest) (*models.Message, error)
	MyMessages(ctx context.Context) ([]*models.Message, error)
	Unread(ctx context.Context) ([]*models.Message, error)
	MarkAsRead(ctx context.Context, id int64) (*models.Message, error)
	Threads(ctx context.Context) ([]*Thread, error)
}

type messageService struct {
	log *slog.Logger
	api MessageAPI
}

func NewMessageService(log *slog.Logger, api MessageAPI) MessageService {
	return &messageService{log: log, api: api}
}

func (s *messageService) Send(ctx context.Context, req models.SendMessageRequest) (*models.Message, error) {
	const op = "service.MessageService.Send"
	logger := s.log.With(slog.String("op", op), slog.Int64("receiver", req.Receiver))

	req.Subject = strings.TrimSpace(req.Subject)
	req.Content = strings.TrimSpace(req.Content)
	if err := validateStruct(req); err != nil {
		logger.Warn("invalid message", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m, err := s.api.SendMessage(ctx, req)
	if err != nil {
		logger.Error("failed to send message", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to send message: %w", op, err)
	}

	logger.Info("message sent", slog.Int64("messageID", m.ID))
	out, _ := normalize.Message(m)
	return out, nil
}

func (s *messageService) MyMessages(ctx context.Context) ([]*models.Message, error) {
	const op = "service.MessageService.MyMessages"
	return s.list(ctx, op, s.api.MyMessages)
}

func (s *messageService) Unread(ctx context.Context) ([]*models.Message, error) {
	const op = "service.MessageService.Unread"
	return s.list(ctx, op, s.api.UnreadMessages)
}

func (s *messageService) list(ctx context.Context, op string, fetch func(context.Context) ([]*models.Message, error)) ([]*models.Message, error) {
	raw, err := fetch(ctx)
	if err != nil {
		s.log.Error("failed to list messages", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list messages: %w", op, err)
	}
	return normalize.Messages(raw), nil
}

func (s *messageService) MarkAsRead(ctx context.Context, id int64) (*models.Message, error) {
	const op = "service.MessageService.MarkAsRead"

	m, err := s.api.MarkMessageRead(ctx, id)
	if err != nil {
		s.log.Error("failed to mark message as read", slog.String("op", op), slog.Int64("messageID", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to mark message as read: %w", op, err)
	}
	out, _ := normalize.Message(m)
	return out, nil
}

// Threads группирует сообщения текущего пользователя по собеседнику
// и объявлению, свежие переписки первыми.
func (s *messageService) Threads(ctx context.Context) ([]*Thread, error) {
	const op = "service.MessageService.Threads"
	logger := s.log.With(slog.String("op", op))

	me, err := s.api.Me(ctx)
	if err != nil {
		logger.Error("failed to get current user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get current user: %w", op, err)
	}

	msgs, err := s.MyMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return GroupThreads(me.ID, msgs), nil
}

type threadKey struct {
	participant int64
	listing     int64
}

// GroupThreads - чистая часть Threads. Сообщения должны быть нормализованы.
func GroupThreads(me int64, msgs []*models.Message) []*Thread {
	byKey := make(map[threadKey]*Thread)
	var order []*Thread

	for _, m := range msgs {
		other := m.SenderDetails
		incoming := true
		if m.SenderDetails != nil && m.SenderDetails.ID == me {
			other = m.ReceiverDetails
			incoming = false
		}

		key := threadKey{}
		if other != nil {
			key.participant = other.ID
		}
		if id, ok := m.Listing.ID(); ok {
			key.listing = id
		}

		t, ok := byKey[key]
		if !ok {
			t = &Thread{Participant: other, Listing: m.ListingDetails}
			byKey[key] = t
			order = append(order, t)
		}
		t.Messages = append(t.Messages, m)
		if t.LastMessage == nil || m.CreatedAt.After(t.LastMessage.CreatedAt) {
			t.LastMessage = m
		}
		if incoming && !m.Read {
			t.Unread++
		}
		if t.Listing == nil && m.ListingDetails != nil {
			t.Listing = m.ListingDetails
		}
	}

	for _, t := range order {
		sort.SliceStable(t.Messages, func(i, j int) bool {
			return t.Messages[i].CreatedAt.Before(t.Messages[j].CreatedAt)
		})
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].LastMessage.CreatedAt.After(order[j].LastMessage.CreatedAt)
	})
	if order == nil {
		order = []*Thread{}
	}
	return order
}
