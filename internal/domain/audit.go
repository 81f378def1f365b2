package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditEntry records one admin action. Entries are append-only.
type AuditEntry struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ActorUID  string         `json:"actorUid" gorm:"not null;index"`
	Action    string         `json:"action" gorm:"not null"`
	EntityID  string         `json:"entityId"`
	Details   datatypes.JSON `json:"details"`
	CreatedAt time.Time      `json:"createdAt"`
}
