package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// OrderStatus - каноническое (нижний регистр) состояние заказа.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusRejected  OrderStatus = "rejected"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// AllStatuses перечисляет статусы в порядке жизненного цикла.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusAccepted,
	StatusRejected,
	StatusShipped,
	StatusDelivered,
	StatusCompleted,
	StatusCancelled,
}

// allowedTransitions - переходы, доступные продавцу.
// rejected и cancelled возвращаются в pending: заказ можно подать повторно.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:  {StatusShipped, StatusCancelled},
	StatusRejected:  {StatusPending},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {StatusPending},
}

var statusLabels = map[OrderStatus]string{
	StatusPending:   "En attente",
	StatusAccepted:  "Acceptée",
	StatusRejected:  "Refusée",
	StatusShipped:   "Expédiée",
	StatusDelivered: "Livrée",
	StatusCompleted: "Terminée",
	StatusCancelled: "Annulée",
}

// ParseOrderStatus приводит строку от API к каноническому статусу.
// Нераспознанное значение (в том числе пустое) считается pending.
func ParseOrderStatus(s string) OrderStatus {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := allowedTransitions[st]; ok {
		return st
	}
	return StatusPending
}

// IsValidStatus сообщает, является ли строка одним из семи статусов (без учёта регистра).
func IsValidStatus(s string) bool {
	_, ok := allowedTransitions[OrderStatus(strings.ToLower(strings.TrimSpace(s)))]
	return ok
}

// AllowedTransitions возвращает копию списка допустимых следующих статусов.
func AllowedTransitions(current OrderStatus) []OrderStatus {
	next := allowedTransitions[ParseOrderStatus(string(current))]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition проверяет, разрешён ли переход from -> to.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range allowedTransitions[ParseOrderStatus(string(from))] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition возвращает *InvalidTransitionError, если переход запрещён.
func ValidateTransition(from, to OrderStatus) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Label - подпись статуса для интерфейса.
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Wire - форма статуса, которую принимает upstream (верхний регистр).
func (s OrderStatus) Wire() string {
	return strings.ToUpper(string(s))
}

func (s OrderStatus) String() string {
	return string(s)
}

// UnmarshalJSON нормализует статус прямо на границе API,
// дальше по коду встречается только каноническая форма.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode order status: %w", err)
	}
	if raw == nil {
		*s = StatusPending
		return nil
	}
	*s = ParseOrderStatus(*raw)
	return nil
}

var ErrInvalidTransition = errors.New("invalid status transition")

// InvalidTransitionError - переход отклонён на клиенте, запрос в API не отправлялся.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
