package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PropertyEventCreated  = "CREATED"
	PropertyEventUpdated  = "UPDATED"
	PropertyEventArchived = "ARCHIVED"
)

// PropertyEvent is the audit trail written alongside every property change.
type PropertyEvent struct {
	ID          uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	PropertyID  uuid.UUID      `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	EventType   string         `gorm:"column:event_type;type:varchar(20);not null" json:"event_type"`
	EventData   datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	ActorUserID *uuid.UUID     `gorm:"column:actor_user_id;type:uuid" json:"actor_user_id"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (PropertyEvent) TableName() string {
	return "PropertyEvents"
}

func (e *PropertyEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
