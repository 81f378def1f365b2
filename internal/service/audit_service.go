package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/brfrastenen/brfweb/internal/repository"
	"gorm.io/datatypes"
)

// AuditService records admin actions. Audit failures are logged and
// swallowed: the action itself has already happened.
type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Record(ctx context.Context, actorUID, action, entityID string, details map[string]any) {
	var payload datatypes.JSON
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			log.Printf("ERROR [service.Audit] marshaling details for %s: %v", action, err)
		} else {
			payload = datatypes.JSON(data)
		}
	}

	entry := &domain.AuditEntry{
		ActorUID: actorUID,
		Action:   action,
		EntityID: entityID,
		Details:  payload,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("ERROR [service.Audit] recording %s: %v", action, err)
	}
}

func (s *AuditService) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return s.repo.ListRecent(ctx, limit)
}
