package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an append-only record of a mutation: who changed what, and the
// state of the eligible fields before and after. Rows are only ever inserted,
// inside the same transaction as the mutation they describe.
type AuditLog struct {
	Id         uint   `json:"id" gorm:"primaryKey"`
	ActorEmail string `json:"actorEmail" gorm:"size:255;not null"`
	ActorRole  string `json:"actorRole" gorm:"size:20;not null"`
	Action     string `json:"action" gorm:"size:50;not null;index"`
	EntityType string `json:"entityType" gorm:"size:50;not null"`
	EntityId   string `json:"entityId" gorm:"size:36;not null;index"`

	// Snapshots of the fields eligible for change (status, queue, assignedTo,
	// firstRespondedAt), taken before and after the update.
	Before datatypes.JSON `json:"before" gorm:"type:jsonb"`
	After  datatypes.JSON `json:"after" gorm:"type:jsonb"`

	IP        string `json:"ip" gorm:"size:64"`
	UserAgent string `json:"userAgent" gorm:"size:255"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}
