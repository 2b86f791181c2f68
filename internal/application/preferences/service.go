package preferences

import (
	"context"
	"errors"

	"estate-backend/internal/domain"
	"estate-backend/internal/infrastructure/store"
	"estate-backend/internal/pkg/validation"

	"github.com/google/uuid"
)

var (
	ErrMissingUser        = errors.New("User not found in session")
	ErrPreferenceNotFound = errors.New("Preference not found")
	ErrInvalidPriceRange  = errors.New("min_price must be less than or equal to max_price")
)

// ValidationError wraps input problems so handlers can answer 400.
type ValidationError struct{ Err error }

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

type Service struct {
	Store store.PreferenceStore
}

// SavePreferenceInput is the request body for PUT /api/preferences.
// Enum fields accept any case; empty purpose and type mean BOTH, empty style means no constraint.
type SavePreferenceInput struct {
	Purpose       string   `json:"purpose"`
	PropertyType  string   `json:"property_type"`
	PropertyStyle string   `json:"property_style"`
	MinPrice      *float64 `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice      *float64 `json:"max_price" validate:"omitempty,gte=0"`
}

func (s *Service) GetPreference(ctx context.Context, userID uuid.UUID) (*domain.UserPreference, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	pref, err := s.Store.GetPreference(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, ErrPreferenceNotFound
	}
	return pref, nil
}

// SavePreference validates in and replaces the user's preference.
func (s *Service) SavePreference(ctx context.Context, userID uuid.UUID, in SavePreferenceInput) (*domain.UserPreference, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	pref, err := build(userID, in)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	if err := s.Store.UpsertPreference(ctx, pref); err != nil {
		return nil, err
	}
	return s.GetPreference(ctx, userID)
}

func build(userID uuid.UUID, in SavePreferenceInput) (*domain.UserPreference, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	purpose, err := domain.ParsePreferencePurpose(in.Purpose)
	if err != nil {
		return nil, err
	}
	ptype, err := domain.ParsePreferenceType(in.PropertyType)
	if err != nil {
		return nil, err
	}
	style, err := domain.ParsePropertyStyle(in.PropertyStyle)
	if err != nil {
		return nil, err
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return nil, ErrInvalidPriceRange
	}
	return &domain.UserPreference{
		UserID:        userID,
		Purpose:       purpose,
		PropertyType:  ptype,
		PropertyStyle: style,
		MinPrice:      in.MinPrice,
		MaxPrice:      in.MaxPrice,
	}, nil
}
