package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PreferencePurpose is the transaction type a user is looking for.
type PreferencePurpose string

const (
	PreferencePurposeBuy  PreferencePurpose = "BUY"
	PreferencePurposeRent PreferencePurpose = "RENT"
	PreferencePurposeBoth PreferencePurpose = "BOTH"
)

// PreferenceType is the kind of property a user is looking for.
type PreferenceType string

const (
	PreferenceTypeHouse     PreferenceType = "HOUSE"
	PreferenceTypeApartment PreferenceType = "APARTMENT"
	PreferenceTypeBoth      PreferenceType = "BOTH"
)

// PropertyStyle tells whether a property belongs to a development project.
// StyleAny (empty) places no constraint.
type PropertyStyle string

const (
	StyleNormal  PropertyStyle = "NORMAL"
	StyleProject PropertyStyle = "PROJECT"
	StyleAny     PropertyStyle = ""
)

// UserPreference is a user's saved search, one row per user.
type UserPreference struct {
	ID            uuid.UUID         `gorm:"column:preference_id;type:uuid;primaryKey" json:"preference_id"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	Purpose       PreferencePurpose `gorm:"column:purpose;type:varchar(10);not null;default:'BOTH'" json:"purpose"`
	PropertyType  PreferenceType    `gorm:"column:property_type;type:varchar(12);not null;default:'BOTH'" json:"property_type"`
	PropertyStyle PropertyStyle     `gorm:"column:property_style;type:varchar(10)" json:"property_style"`
	MinPrice      *float64          `gorm:"column:min_price;type:decimal(14,2)" json:"min_price"`
	MaxPrice      *float64          `gorm:"column:max_price;type:decimal(14,2)" json:"max_price"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func (UserPreference) TableName() string {
	return "UserPreferences"
}

// BeforeCreate sets preference_id if not already set.
func (p *UserPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PriceBounds returns the effective range; a missing bound is 0 or +Inf.
func (p *UserPreference) PriceBounds() (min, max float64) {
	min, max = 0, math.Inf(1)
	if p.MinPrice != nil {
		min = *p.MinPrice
	}
	if p.MaxPrice != nil {
		max = *p.MaxPrice
	}
	return min, max
}

// InvertedBounds reports minPrice > maxPrice, which no listing can satisfy.
func (p *UserPreference) InvertedBounds() bool {
	min, max := p.PriceBounds()
	return min > max
}
