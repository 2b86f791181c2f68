package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListingPurpose is the transaction type a property is offered for.
type ListingPurpose string

const (
	ListingPurposeSale ListingPurpose = "SALE"
	ListingPurposeRent ListingPurpose = "RENT"
)

const (
	PropertyStatusActive   = "active"
	PropertyStatusArchived = "archived"
)

// PropertyType is a named kind of property ("House", "Apartment").
type PropertyType struct {
	ID   uuid.UUID `gorm:"column:property_type_id;type:uuid;primaryKey" json:"property_type_id"`
	Name string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
}

func (PropertyType) TableName() string {
	return "PropertyTypes"
}

func (t *PropertyType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Project is a multi-unit development that properties may belong to.
type Project struct {
	ID        uuid.UUID `gorm:"column:project_id;type:uuid;primaryKey" json:"project_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Developer string    `gorm:"column:developer" json:"developer"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Project) TableName() string {
	return "Projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Property is a listing offered for sale or rent.
type Property struct {
	ID             uuid.UUID      `gorm:"column:property_id;type:uuid;primaryKey" json:"property_id"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    string         `gorm:"column:description" json:"description"`
	Purpose        ListingPurpose `gorm:"column:purpose;type:varchar(10);not null" json:"purpose"`
	Price          Price          `gorm:"column:price;type:decimal(14,2)" json:"price"`
	PropertyTypeID *uuid.UUID     `gorm:"column:property_type_id;type:uuid" json:"property_type_id"`
	PropertyType   *PropertyType  `gorm:"foreignKey:PropertyTypeID;references:ID" json:"property_type"`
	ProjectID      *uuid.UUID     `gorm:"column:project_id;type:uuid" json:"project_id"`
	Project        *Project       `gorm:"foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	AgentID        *uuid.UUID     `gorm:"column:agent_id;type:uuid" json:"agent_id"`
	Status         string         `gorm:"column:status;type:varchar(20);default:'active'" json:"status"`
	City           string         `gorm:"column:city" json:"city"`
	Address        string         `gorm:"column:address" json:"address"`
	Bedrooms       int            `gorm:"column:bedrooms" json:"bedrooms"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (Property) TableName() string {
	return "Properties"
}

// BeforeCreate sets property_id if not already set (DBs without default uuid).
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TypeName returns the property type name, or false when the property has none.
func (p *Property) TypeName() (string, bool) {
	if p.PropertyType == nil || p.PropertyType.Name == "" {
		return "", false
	}
	return p.PropertyType.Name, true
}

// Style derives NORMAL or PROJECT from the project reference.
func (p *Property) Style() PropertyStyle {
	if p.ProjectID != nil {
		return StyleProject
	}
	return StyleNormal
}
