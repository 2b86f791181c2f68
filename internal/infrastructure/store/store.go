// Package store provides the preference and listing stores the services read from.
package store

import (
	"context"
	"errors"

	"estate-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceStore loads and saves user preferences.
// GetPreference returns nil, nil when the user has not saved one.
type PreferenceStore interface {
	GetPreference(ctx context.Context, userID uuid.UUID) (*domain.UserPreference, error)
	UpsertPreference(ctx context.Context, pref *domain.UserPreference) error
}

// ListingFilter narrows ListListings. Zero values apply no constraint.
type ListingFilter struct {
	Status   string
	Purpose  domain.ListingPurpose
	TypeName string
	MinPrice *float64
	MaxPrice *float64
	AgentID  *uuid.UUID
	Limit    int
	Offset   int
}

// ListingStore loads candidate properties.
type ListingStore interface {
	ListListings(ctx context.Context, filter ListingFilter) ([]domain.Property, error)
}

// GormStore implements PreferenceStore and ListingStore on a GORM connection.
type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) GetPreference(ctx context.Context, userID uuid.UUID) (*domain.UserPreference, error) {
	var pref domain.UserPreference
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (s *GormStore) UpsertPreference(ctx context.Context, pref *domain.UserPreference) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"purpose", "property_type", "property_style", "min_price", "max_price", "updated_at"}),
	}).Create(pref).Error
}

// ListListings returns properties newest first, ties broken by id so pages are stable.
func (s *GormStore) ListListings(ctx context.Context, f ListingFilter) ([]domain.Property, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Property{}).Preload("PropertyType").Preload("Project")
	if f.Status != "" {
		q = q.Where(`"Properties".status = ?`, f.Status)
	}
	if f.Purpose != "" {
		q = q.Where(`"Properties".purpose = ?`, f.Purpose)
	}
	if f.TypeName != "" {
		q = q.Joins(`JOIN "PropertyTypes" ON "PropertyTypes".property_type_id = "Properties".property_type_id`).
			Where(`"PropertyTypes".name = ?`, f.TypeName)
	}
	// NULL prices compare as 0, same as the match engine.
	if f.MinPrice != nil {
		q = q.Where(`COALESCE("Properties".price, 0) >= ?`, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where(`COALESCE("Properties".price, 0) <= ?`, *f.MaxPrice)
	}
	if f.AgentID != nil {
		q = q.Where(`"Properties".agent_id = ?`, *f.AgentID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var props []domain.Property
	if err := q.Order(`"Properties".created_at DESC`).Order(`"Properties".property_id ASC`).Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}
