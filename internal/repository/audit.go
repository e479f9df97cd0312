package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type InsertAuditLogParams struct {
	EntityType string
	EntityID   string
	ActorID    *uuid.UUID
	Action     string
	PrevState  *string
	NextState  *string
	Metadata   []byte
}

func (r *Repository) InsertAuditLog(ctx context.Context, arg InsertAuditLogParams) (int64, error) {
	query := `
		INSERT INTO audit_log (entity_type, entity_id, actor_id, action, prev_state, next_state, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, arg.EntityType, arg.EntityID, arg.ActorID, arg.Action,
		arg.PrevState, arg.NextState, arg.Metadata).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert audit log: %w", err)
	}
	return id, nil
}
