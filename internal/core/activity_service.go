package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityKind tags an audit entry with the kind of change it records.
type ActivityKind string

const (
	ActivityAdded   ActivityKind = "added"
	ActivityRemoved ActivityKind = "removed"
	ActivityUpdated ActivityKind = "updated"
)

// ActivityEntry is one row of the append-only audit log.
type ActivityEntry struct {
	ID         int          `json:"id"`
	Kind       ActivityKind `json:"kind"`
	EntityType string       `json:"entity_type"`
	EntityID   int          `json:"entity_id"`
	EntityName string       `json:"entity_name"`
	Actor      string       `json:"actor"`
	Quantity   *int         `json:"quantity,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// ActivityInput is the payload for Log.
type ActivityInput struct {
	Kind       ActivityKind
	EntityType string // "product", "order", "customer"
	EntityID   int
	EntityName string
	Actor      string
	Quantity   *int // set for stock movements
}

// ActivityService is the append-only audit sink. Log is fire-and-forget from
// the fulfillment core's perspective: callers may ignore the returned error.
type ActivityService interface {
	Log(ctx context.Context, in ActivityInput) error
	Recent(ctx context.Context, limit int) ([]ActivityEntry, error)
}

type activityService struct {
	pool *pgxpool.Pool
}

func NewActivityService(pool *pgxpool.Pool) ActivityService {
	return &activityService{pool: pool}
}

func (s *activityService) Log(ctx context.Context, in ActivityInput) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO activity_log (kind, entity_type, entity_id, entity_name, actor, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, in.Kind, in.EntityType, in.EntityID, in.EntityName, in.Actor, in.Quantity)
	if err != nil {
		return fmt.Errorf("failed to write activity entry: %w", err)
	}
	return nil
}

func (s *activityService) Recent(ctx context.Context, limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, entity_type, entity_id, entity_name, actor, quantity, created_at
		FROM activity_log
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity log: %w", err)
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.EntityType, &e.EntityID, &e.EntityName,
			&e.Actor, &e.Quantity, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
