package matching

import (
	"testing"

	"estate-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	houseType     = &domain.PropertyType{ID: uuid.New(), Name: "House"}
	apartmentType = &domain.PropertyType{ID: uuid.New(), Name: "Apartment"}
)

func f(v float64) *float64 { return &v }

func listing(purpose domain.ListingPurpose, pt *domain.PropertyType, price float64, project *uuid.UUID) domain.Property {
	return domain.Property{
		ID:           uuid.New(),
		Purpose:      purpose,
		PropertyType: pt,
		Price:        domain.NewPrice(price),
		ProjectID:    project,
	}
}

func openPref() *domain.UserPreference {
	return &domain.UserPreference{
		Purpose:      domain.PreferencePurposeBoth,
		PropertyType: domain.PreferenceTypeBoth,
	}
}

func ids(props []domain.Property) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func TestMatch_NoPreference(t *testing.T) {
	listings := []domain.Property{listing(domain.ListingPurposeSale, houseType, 1, nil)}
	res, ok := Match(nil, listings)
	assert.False(t, ok)
	assert.Nil(t, res.Matched)
	assert.Nil(t, res.Skipped)
}

func TestMatch_PurposeBuyOnlySale(t *testing.T) {
	pref := openPref()
	pref.Purpose = domain.PreferencePurposeBuy
	sale := listing(domain.ListingPurposeSale, nil, 0, nil)
	rent := listing(domain.ListingPurposeRent, houseType, 10, nil)

	res, ok := Match(pref, []domain.Property{sale, rent})
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{sale.ID}, ids(res.Matched))
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, []Reason{ReasonPurpose}, res.Skipped[0].Reasons)
}

func TestMatch_PurposeRent(t *testing.T) {
	pref := openPref()
	pref.Purpose = domain.PreferencePurposeRent
	sale := listing(domain.ListingPurposeSale, houseType, 10, nil)
	rent := listing(domain.ListingPurposeRent, houseType, 10, nil)

	res, _ := Match(pref, []domain.Property{sale, rent})
	assert.Equal(t, []uuid.UUID{rent.ID}, ids(res.Matched))
}

func TestMatch_TypeWildcard(t *testing.T) {
	pref := openPref()
	props := []domain.Property{
		listing(domain.ListingPurposeSale, houseType, 1, nil),
		listing(domain.ListingPurposeSale, apartmentType, 1, nil),
		listing(domain.ListingPurposeSale, &domain.PropertyType{Name: "Villa"}, 1, nil),
		listing(domain.ListingPurposeSale, nil, 1, nil),
	}
	res, _ := Match(pref, props)
	assert.Len(t, res.Matched, 4)
	assert.Empty(t, res.Skipped)
}

func TestMatch_TypeExactAndMissing(t *testing.T) {
	pref := openPref()
	pref.PropertyType = domain.PreferenceTypeApartment
	apt := listing(domain.ListingPurposeRent, apartmentType, 1, nil)
	lower := listing(domain.ListingPurposeRent, &domain.PropertyType{Name: "apartment"}, 1, nil)
	none := listing(domain.ListingPurposeRent, nil, 1, nil)

	res, _ := Match(pref, []domain.Property{apt, lower, none})
	assert.Equal(t, []uuid.UUID{apt.ID}, ids(res.Matched))
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, []Reason{ReasonPropertyType}, res.Skipped[0].Reasons)
	assert.Equal(t, []Reason{ReasonMissingType}, res.Skipped[1].Reasons)
}

func TestMatch_PriceInclusive(t *testing.T) {
	pref := openPref()
	pref.MinPrice = f(100000)
	pref.MaxPrice = f(300000)
	atMin := listing(domain.ListingPurposeSale, houseType, 100000, nil)
	atMax := listing(domain.ListingPurposeSale, houseType, 300000, nil)
	below := listing(domain.ListingPurposeSale, houseType, 99999, nil)
	above := listing(domain.ListingPurposeSale, houseType, 300001, nil)

	res, _ := Match(pref, []domain.Property{atMin, below, atMax, above})
	assert.Equal(t, []uuid.UUID{atMin.ID, atMax.ID}, ids(res.Matched))
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, []Reason{ReasonPriceBelowMin}, res.Skipped[0].Reasons)
	assert.Equal(t, []Reason{ReasonPriceAboveMax}, res.Skipped[1].Reasons)
}

func TestMatch_MissingBoundsPassEverything(t *testing.T) {
	pref := openPref()
	props := []domain.Property{
		listing(domain.ListingPurposeSale, houseType, 0, nil),
		listing(domain.ListingPurposeSale, houseType, 1e12, nil),
		{ID: uuid.New(), Purpose: domain.ListingPurposeSale},
	}
	res, _ := Match(pref, props)
	assert.Len(t, res.Matched, 3)
}

func TestMatch_MalformedPriceCoercesToZero(t *testing.T) {
	pref := openPref()
	pref.MinPrice = f(1)
	bad := domain.Property{ID: uuid.New(), Purpose: domain.ListingPurposeSale, Price: domain.ParsePrice("call us")}
	res, ok := Match(pref, []domain.Property{bad})
	require.True(t, ok)
	assert.Empty(t, res.Matched)
	assert.Equal(t, []Reason{ReasonPriceBelowMin}, res.Skipped[0].Reasons)

	pref.MinPrice = nil
	pref.MaxPrice = f(0)
	res, _ = Match(pref, []domain.Property{bad})
	assert.Len(t, res.Matched, 1)
}

func TestMatch_InvertedBoundsMatchNothing(t *testing.T) {
	pref := openPref()
	pref.MinPrice = f(500)
	pref.MaxPrice = f(100)
	props := []domain.Property{
		listing(domain.ListingPurposeSale, houseType, 300, nil),
		listing(domain.ListingPurposeSale, houseType, 500, nil),
	}
	res, ok := Match(pref, props)
	require.True(t, ok)
	assert.Empty(t, res.Matched)
	for _, s := range res.Skipped {
		assert.Contains(t, s.Reasons, ReasonPriceRangeVoid)
	}
}

func TestMatch_StyleExclusivity(t *testing.T) {
	projectID := uuid.New()
	inProject := listing(domain.ListingPurposeSale, houseType, 1, &projectID)
	standalone := listing(domain.ListingPurposeSale, houseType, 1, nil)
	props := []domain.Property{inProject, standalone}

	pref := openPref()
	pref.PropertyStyle = domain.StyleNormal
	res, _ := Match(pref, props)
	assert.Equal(t, []uuid.UUID{standalone.ID}, ids(res.Matched))
	assert.Equal(t, []Reason{ReasonStyleNormal}, res.Skipped[0].Reasons)

	pref.PropertyStyle = domain.StyleProject
	res, _ = Match(pref, props)
	assert.Equal(t, []uuid.UUID{inProject.ID}, ids(res.Matched))
	assert.Equal(t, []Reason{ReasonStyleProject}, res.Skipped[0].Reasons)

	pref.PropertyStyle = domain.StyleAny
	res, _ = Match(pref, props)
	assert.Len(t, res.Matched, 2)
}

func TestMatch_PreservesOrder(t *testing.T) {
	pref := openPref()
	pref.Purpose = domain.PreferencePurposeRent
	a := listing(domain.ListingPurposeRent, houseType, 1, nil)
	b := listing(domain.ListingPurposeSale, houseType, 1, nil)
	c := listing(domain.ListingPurposeRent, houseType, 1, nil)

	res, _ := Match(pref, []domain.Property{a, b, c})
	assert.Equal(t, []uuid.UUID{a.ID, c.ID}, ids(res.Matched))
}

func TestMatch_EmptyPreferenceFieldsActAsBoth(t *testing.T) {
	pref := &domain.UserPreference{}
	res, ok := Match(pref, []domain.Property{
		listing(domain.ListingPurposeRent, nil, 1, nil),
		listing(domain.ListingPurposeSale, apartmentType, 1, nil),
	})
	require.True(t, ok)
	assert.Len(t, res.Matched, 2)
}

func TestMatch_EmptyCandidates(t *testing.T) {
	res, ok := Match(openPref(), nil)
	require.True(t, ok)
	assert.NotNil(t, res.Matched)
	assert.Empty(t, res.Matched)
}

func TestMatch_EndToEnd(t *testing.T) {
	seven := uuid.New()
	pref := &domain.UserPreference{
		Purpose:       domain.PreferencePurposeBuy,
		PropertyType:  domain.PreferenceTypeHouse,
		PropertyStyle: domain.StyleProject,
		MinPrice:      f(100000),
		MaxPrice:      f(300000),
	}
	first := listing(domain.ListingPurposeSale, houseType, 150000, &seven)
	props := []domain.Property{
		first,
		listing(domain.ListingPurposeRent, houseType, 150000, &seven),
		listing(domain.ListingPurposeSale, houseType, 150000, nil),
		listing(domain.ListingPurposeSale, apartmentType, 150000, &seven),
	}
	res, ok := Match(pref, props)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{first.ID}, ids(res.Matched))
	require.Len(t, res.Skipped, 3)
	assert.Equal(t, []Reason{ReasonPurpose}, res.Skipped[0].Reasons)
	assert.Equal(t, []Reason{ReasonStyleProject}, res.Skipped[1].Reasons)
	assert.Equal(t, []Reason{ReasonPropertyType}, res.Skipped[2].Reasons)
}

func TestExplain_CollectsAllReasons(t *testing.T) {
	pref := &domain.UserPreference{
		Purpose:       domain.PreferencePurposeBuy,
		PropertyType:  domain.PreferenceTypeHouse,
		PropertyStyle: domain.StyleProject,
		MaxPrice:      f(10),
	}
	l := listing(domain.ListingPurposeRent, nil, 50, nil)
	assert.Equal(t, []Reason{ReasonPriceAboveMax, ReasonPurpose, ReasonMissingType, ReasonStyleProject}, Explain(pref, &l))
}
