package properties

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"estate-backend/internal/domain"
	"estate-backend/internal/infrastructure/store"
	"estate-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	Listings store.ListingStore
}

type CreatePropertyInput struct {
	Title        string
	Description  string
	Purpose      domain.ListingPurpose
	Price        *float64
	PropertyType string // type name, e.g. "House"; empty leaves the property untyped
	ProjectID    *uuid.UUID
	AgentID      *uuid.UUID
	City         string
	Address      string
	Bedrooms     int
}

// CreateProperty inserts a property and its CREATED event in one transaction.
func (s *Service) CreateProperty(ctx context.Context, in CreatePropertyInput) (*domain.Property, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrMissingTitle
	}
	purpose, err := domain.ParseListingPurpose(string(in.Purpose))
	if err != nil {
		return nil, err
	}
	prop := &domain.Property{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Purpose:     purpose,
		ProjectID:   in.ProjectID,
		AgentID:     in.AgentID,
		Status:      domain.PropertyStatusActive,
		City:        in.City,
		Address:     in.Address,
		Bedrooms:    in.Bedrooms,
	}
	if in.Price != nil {
		if math.IsNaN(*in.Price) || math.IsInf(*in.Price, 0) || *in.Price < 0 {
			return nil, ErrInvalidPrice
		}
		prop.Price = domain.NewPrice(*in.Price)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.PropertyType != "" {
			var pt domain.PropertyType
			if err := tx.Where("name = ?", in.PropertyType).First(&pt).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPropertyTypeNotFound
				}
				return err
			}
			prop.PropertyTypeID = &pt.ID
		}
		if in.ProjectID != nil {
			var project domain.Project
			if err := tx.Where("project_id = ?", *in.ProjectID).First(&project).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProjectNotFound
				}
				return err
			}
		}
		if err := tx.Create(prop).Error; err != nil {
			return fmt.Errorf("Failed to create property: %w", err)
		}
		return recordEvent(tx, prop.ID, domain.PropertyEventCreated, in.AgentID, map[string]interface{}{
			"price":   prop.Price,
			"purpose": prop.Purpose,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetProperty(ctx, prop.ID)
}

func (s *Service) GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var prop domain.Property
	err := s.DB.WithContext(ctx).Preload("PropertyType").Preload("Project").
		Where("property_id = ?", id).First(&prop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &prop, nil
}

func (s *Service) ListProperties(ctx context.Context, filter store.ListingFilter) ([]domain.Property, error) {
	props, err := s.Listings.ListListings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch properties: %w", err)
	}
	return props, nil
}

func (s *Service) ListPropertyTypes(ctx context.Context) ([]domain.PropertyType, error) {
	var types []domain.PropertyType
	if err := s.DB.WithContext(ctx).Order("name").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// ArchiveProperty closes an active property. Agents may only archive their own; admins any.
func (s *Service) ArchiveProperty(ctx context.Context, id, actorID uuid.UUID, actorRole string) (*domain.Property, error) {
	var prop domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", id).First(&prop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if prop.Status != domain.PropertyStatusActive {
		return nil, ErrNotActive
	}
	if !canManage(&prop, actorID, actorRole) {
		return nil, ErrUnauthorized
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&prop).Update("status", domain.PropertyStatusArchived).Error; err != nil {
			return err
		}
		return recordEvent(tx, prop.ID, domain.PropertyEventArchived, &actorID, map[string]interface{}{
			"previous_status": domain.PropertyStatusActive,
			"actor_role":      actorRole,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetProperty(ctx, id)
}

// UpdatePropertyInput carries the editable fields; nil leaves a field unchanged.
type UpdatePropertyInput struct {
	Title        *string
	Purpose      *domain.ListingPurpose
	Price        *float64
	PropertyType *string
}

// UpdateProperty edits an active property and records the changed fields as an UPDATED event.
// Agents may only edit their own properties; admins any.
func (s *Service) UpdateProperty(ctx context.Context, id, actorID uuid.UUID, actorRole string, in UpdatePropertyInput) (*domain.Property, error) {
	var prop domain.Property
	if err := s.DB.WithContext(ctx).Preload("PropertyType").Where("property_id = ?", id).First(&prop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if prop.Status != domain.PropertyStatusActive {
		return nil, ErrNotActive
	}
	if !canManage(&prop, actorID, actorRole) {
		return nil, ErrUnauthorized
	}

	updates := map[string]interface{}{}
	eventData := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrMissingTitle
		}
		if title != prop.Title {
			updates["title"] = title
			eventData["title"] = title
		}
	}
	if in.Purpose != nil {
		purpose, err := domain.ParseListingPurpose(string(*in.Purpose))
		if err != nil {
			return nil, err
		}
		if purpose != prop.Purpose {
			updates["purpose"] = purpose
			eventData["purpose"] = purpose
		}
	}
	if in.Price != nil {
		price := *in.Price
		if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			return nil, ErrInvalidPrice
		}
		if prop.Price.Malformed() || price != prop.Price.Float() {
			updates["price"] = domain.NewPrice(price)
			eventData["price"] = price
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.PropertyType != nil {
			current, _ := prop.TypeName()
			if *in.PropertyType != current {
				var pt domain.PropertyType
				if err := tx.Where("name = ?", *in.PropertyType).First(&pt).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrPropertyTypeNotFound
					}
					return err
				}
				updates["property_type_id"] = pt.ID
				eventData["property_type"] = pt.Name
			}
		}
		if len(updates) == 0 {
			return ErrNoChanges
		}
		if err := tx.Model(&prop).Updates(updates).Error; err != nil {
			return err
		}
		return recordEvent(tx, prop.ID, domain.PropertyEventUpdated, &actorID, eventData)
	})
	if err != nil {
		return nil, err
	}
	return s.GetProperty(ctx, id)
}

// Events returns the audit trail of a property, oldest first. Only the owning
// agent or an admin may read it.
func (s *Service) Events(ctx context.Context, id, actorID uuid.UUID, actorRole string) ([]domain.PropertyEvent, error) {
	var prop domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", id).First(&prop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if !canManage(&prop, actorID, actorRole) {
		return nil, ErrUnauthorized
	}
	var events []domain.PropertyEvent
	if err := s.DB.WithContext(ctx).Where("property_id = ?", id).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func canManage(prop *domain.Property, actorID uuid.UUID, actorRole string) bool {
	if actorRole == constants.Admin {
		return true
	}
	return prop.AgentID != nil && *prop.AgentID == actorID
}

type CreateProjectInput struct {
	Name      string
	Developer string
}

// CreateProject registers a multi-unit development that properties can then reference.
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrMissingProjectName
	}
	project := &domain.Project{Name: name, Developer: strings.TrimSpace(in.Developer)}
	if err := s.DB.WithContext(ctx).Create(project).Error; err != nil {
		return nil, fmt.Errorf("Failed to create project: %w", err)
	}
	return project, nil
}

func (s *Service) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := s.DB.WithContext(ctx).Order("name").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func recordEvent(tx *gorm.DB, propertyID uuid.UUID, eventType string, actor *uuid.UUID, data map[string]interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := tx.Create(&domain.PropertyEvent{
		PropertyID:  propertyID,
		EventType:   eventType,
		EventData:   datatypes.JSON(b),
		ActorUserID: actor,
	}).Error; err != nil {
		return fmt.Errorf("Failed to create property event: %w", err)
	}
	return nil
}
