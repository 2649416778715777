package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/agri-market/internal/domain/models"
)

// TransitionStorage - журнал смен статуса, выполненных через шлюз.
type TransitionStorage interface {
	// Record добавляет запись о переходе и возвращает её id.
	Record(ctx context.Context, t *models.StatusTransition) (int64, error)
	// ListByOrder возвращает переходы заказа, новые первыми.
	ListByOrder(ctx context.Context, orderID int64) ([]*models.StatusTransition, error)
}

type transitionRepository struct {
	db *sql.DB
}

func NewTransitionRepository(db *sql.DB) TransitionStorage {
	return &transitionRepository{db: db}
}

func (r *transitionRepository) Record(ctx context.Context, t *models.StatusTransition) (int64, error) {
	query := `INSERT INTO status_transitions (order_id, from_status, to_status, notes, created_at)
	          VALUES ($1, $2, $3, $4, NOW()) RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query, t.OrderID, string(t.From), string(t.To), t.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to record status transition: %w", err)
	}
	return id, nil
}

func (r *transitionRepository) ListByOrder(ctx context.Context, orderID int64) ([]*models.StatusTransition, error) {
	query := `
		SELECT id, order_id, from_status, to_status, notes, created_at
		FROM status_transitions
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status transitions: %w", err)
	}
	defer rows.Close()

	transitions := make([]*models.StatusTransition, 0)
	for rows.Next() {
		t := &models.StatusTransition{}
		var from, to string
		if err := rows.Scan(&t.ID, &t.OrderID, &from, &to, &t.Notes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status transition: %w", err)
		}
		t.From = models.ParseOrderStatus(from)
		t.To = models.ParseOrderStatus(to)
		transitions = append(transitions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transitions, nil
}
