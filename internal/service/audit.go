package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ayo6706/remittance-core/internal/repository"
	"github.com/google/uuid"
)

// AuditWriter is the single query AuditService needs.
type AuditWriter interface {
	InsertAuditLog(ctx context.Context, arg repository.InsertAuditLogParams) (int64, error)
}

// AuditService writes immutable audit trail entries.
type AuditService struct{}

func NewAuditService() *AuditService {
	return &AuditService{}
}

// Write stores a single immutable audit record through q, which is normally
// the transaction that made the change.
func (s *AuditService) Write(ctx context.Context, q AuditWriter, entityType, entityID string, actorID *uuid.UUID, action string, prevState, nextState any) error {
	prev, err := stateParam(prevState)
	if err != nil {
		return fmt.Errorf("encode previous state: %w", err)
	}
	next, err := stateParam(nextState)
	if err != nil {
		return fmt.Errorf("encode next state: %w", err)
	}

	if _, err := q.InsertAuditLog(ctx, repository.InsertAuditLogParams{
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Action:     action,
		PrevState:  prev,
		NextState:  next,
	}); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ParseActor returns nil for callers whose id is not a UUID.
func ParseActor(userID string) *uuid.UUID {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil
	}
	return &id
}

func stateParam(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	s := string(b)
	return &s, nil
}
