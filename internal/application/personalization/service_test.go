package personalization

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"estate-backend/internal/application/matching"
	"estate-backend/internal/domain"
	"estate-backend/internal/infrastructure/database"
	"estate-backend/internal/infrastructure/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePreferences struct {
	pref *domain.UserPreference
	err  error
}

func (f *fakePreferences) GetPreference(context.Context, uuid.UUID) (*domain.UserPreference, error) {
	return f.pref, f.err
}

func (f *fakePreferences) UpsertPreference(context.Context, *domain.UserPreference) error {
	return nil
}

type fakeListings struct {
	props []domain.Property
	err   error

	mu      sync.Mutex
	filters []store.ListingFilter
}

func (f *fakeListings) ListListings(_ context.Context, filter store.ListingFilter) ([]domain.Property, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	return f.props, f.err
}

func candidates() []domain.Property {
	house := &domain.PropertyType{Name: "House"}
	return []domain.Property{
		{ID: uuid.New(), Purpose: domain.ListingPurposeSale, Price: domain.NewPrice(150000), PropertyType: house},
		{ID: uuid.New(), Purpose: domain.ListingPurposeRent, Price: domain.NewPrice(1200), PropertyType: house},
		{ID: uuid.New(), Purpose: domain.ListingPurposeSale, Price: domain.NewPrice(90000)},
	}
}

func TestPersonalize_MatchesPreference(t *testing.T) {
	props := candidates()
	listings := &fakeListings{props: props}
	svc := &Service{
		Preferences:    &fakePreferences{pref: &domain.UserPreference{Purpose: domain.PreferencePurposeBuy, PropertyType: domain.PreferenceTypeHouse}},
		Listings:       listings,
		CandidateLimit: 50,
	}

	feed, err := svc.Personalize(context.Background(), uuid.New(), false)
	require.NoError(t, err)
	assert.True(t, feed.Personalized)
	assert.Empty(t, feed.Fallback)
	require.Len(t, feed.Properties, 1)
	assert.Equal(t, props[0].ID, feed.Properties[0].ID)
	assert.Nil(t, feed.Skipped)
	require.Len(t, listings.filters, 1)
	f := listings.filters[0]
	assert.Equal(t, domain.PropertyStatusActive, f.Status)
	assert.Equal(t, 50, f.Limit)
	assert.Equal(t, domain.ListingPurposeSale, f.Purpose)
	assert.Equal(t, "House", f.TypeName)
}

func TestPersonalize_Explain(t *testing.T) {
	props := candidates()
	listings := &fakeListings{props: props}
	svc := &Service{
		Preferences: &fakePreferences{pref: &domain.UserPreference{Purpose: domain.PreferencePurposeBuy, PropertyType: domain.PreferenceTypeHouse}},
		Listings:    listings,
	}

	feed, err := svc.Personalize(context.Background(), uuid.New(), true)
	require.NoError(t, err)
	require.Len(t, feed.Skipped, 2)
	assert.Equal(t, props[1].ID, feed.Skipped[0].PropertyID)
	assert.Equal(t, []matching.Reason{matching.ReasonPurpose}, feed.Skipped[0].Reasons)
	assert.Equal(t, []matching.Reason{matching.ReasonMissingType}, feed.Skipped[1].Reasons)
	assert.Len(t, listings.filters, 2)
}

func TestPersonalize_NoPreferenceFallbackAll(t *testing.T) {
	props := candidates()
	svc := &Service{Preferences: &fakePreferences{}, Listings: &fakeListings{props: props}}

	feed, err := svc.Personalize(context.Background(), uuid.New(), true)
	require.NoError(t, err)
	assert.False(t, feed.Personalized)
	assert.Equal(t, FallbackAll, feed.Fallback)
	assert.Equal(t, props, feed.Properties)
	assert.Nil(t, feed.Skipped)
}

func TestPersonalize_NoPreferenceFallbackEmpty(t *testing.T) {
	listings := &fakeListings{props: candidates()}
	svc := &Service{Preferences: &fakePreferences{}, Listings: listings, Fallback: FallbackEmpty}

	feed, err := svc.Personalize(context.Background(), uuid.New(), false)
	require.NoError(t, err)
	assert.False(t, feed.Personalized)
	assert.Equal(t, FallbackEmpty, feed.Fallback)
	assert.NotNil(t, feed.Properties)
	assert.Empty(t, feed.Properties)
	assert.Empty(t, listings.filters)
}

func TestPersonalize_InvertedBoundsReturnsEmpty(t *testing.T) {
	lo, hi := 500000.0, 1000.0
	svc := &Service{
		Preferences: &fakePreferences{pref: &domain.UserPreference{Purpose: domain.PreferencePurposeBoth, PropertyType: domain.PreferenceTypeBoth, MinPrice: &lo, MaxPrice: &hi}},
		Listings:    &fakeListings{props: candidates()},
	}

	feed, err := svc.Personalize(context.Background(), uuid.New(), false)
	require.NoError(t, err)
	assert.True(t, feed.Personalized)
	assert.Empty(t, feed.Properties)
}

func TestPersonalize_StoreErrors(t *testing.T) {
	boom := errors.New("db down")

	svc := &Service{Preferences: &fakePreferences{err: boom}, Listings: &fakeListings{}}
	_, err := svc.Personalize(context.Background(), uuid.New(), false)
	assert.ErrorIs(t, err, boom)

	svc = &Service{Preferences: &fakePreferences{}, Listings: &fakeListings{err: boom}}
	_, err = svc.Personalize(context.Background(), uuid.New(), false)
	assert.ErrorIs(t, err, boom)
}

func TestPersonalize_MissingUser(t *testing.T) {
	svc := &Service{Preferences: &fakePreferences{}, Listings: &fakeListings{}}
	_, err := svc.Personalize(context.Background(), uuid.Nil, false)
	assert.Equal(t, ErrMissingUser, err)
}

func TestCandidateFilter(t *testing.T) {
	lo, hi := 100.0, 900.0
	f := CandidateFilter(&domain.UserPreference{
		Purpose:      domain.PreferencePurposeRent,
		PropertyType: domain.PreferenceTypeApartment,
		MinPrice:     &lo,
		MaxPrice:     &hi,
	}, 10)
	assert.Equal(t, domain.ListingPurposeRent, f.Purpose)
	assert.Equal(t, "Apartment", f.TypeName)
	assert.Equal(t, &lo, f.MinPrice)
	assert.Equal(t, &hi, f.MaxPrice)
	assert.Equal(t, 10, f.Limit)

	f = CandidateFilter(&domain.UserPreference{Purpose: domain.PreferencePurposeBoth, PropertyType: "VILLA"}, 10)
	assert.Empty(t, f.Purpose)
	assert.Empty(t, f.TypeName)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
}

func TestPersonalize_OlderMatchSurvivesCandidateLimit(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedPropertyTypes(context.Background(), db))
	var house domain.PropertyType
	require.NoError(t, db.Where("name = ?", "House").First(&house).Error)

	base := time.Now().Add(-time.Hour)
	sale := domain.Property{Title: "Old sale", Purpose: domain.ListingPurposeSale, Price: domain.NewPrice(200000),
		PropertyTypeID: &house.ID, Status: domain.PropertyStatusActive, CreatedAt: base}
	rent := domain.Property{Title: "New rent", Purpose: domain.ListingPurposeRent, Price: domain.NewPrice(1500),
		PropertyTypeID: &house.ID, Status: domain.PropertyStatusActive, CreatedAt: base.Add(time.Minute)}
	require.NoError(t, db.Create(&sale).Error)
	require.NoError(t, db.Create(&rent).Error)

	gs := &store.GormStore{DB: db}
	userID := uuid.New()
	require.NoError(t, gs.UpsertPreference(context.Background(), &domain.UserPreference{
		UserID:       userID,
		Purpose:      domain.PreferencePurposeBuy,
		PropertyType: domain.PreferenceTypeHouse,
	}))

	svc := &Service{Preferences: gs, Listings: gs, CandidateLimit: 1}
	feed, err := svc.Personalize(context.Background(), userID, false)
	require.NoError(t, err)
	require.Len(t, feed.Properties, 1)
	assert.Equal(t, sale.ID, feed.Properties[0].ID)
}
