// Package matching filters candidate properties against a user's saved preference.
//
// The engine performs no I/O and never fails on malformed listings. Missing
// prices compare as 0 and a listing with no property type fails any concrete
// type constraint. An empty purpose or type on the preference is treated as BOTH.
package matching

import (
	"estate-backend/internal/domain"

	"github.com/google/uuid"
)

// Reason names the criterion a listing failed.
type Reason string

const (
	ReasonPriceBelowMin  Reason = "price_below_min"
	ReasonPriceAboveMax  Reason = "price_above_max"
	ReasonPriceRangeVoid Reason = "price_range_unsatisfiable"
	ReasonPurpose        Reason = "purpose_mismatch"
	ReasonPropertyType   Reason = "property_type_mismatch"
	ReasonMissingType    Reason = "property_type_missing"
	ReasonStyleProject   Reason = "not_in_project"
	ReasonStyleNormal    Reason = "in_project"
)

// Skip records why a listing was left out.
type Skip struct {
	PropertyID uuid.UUID `json:"property_id"`
	Reasons    []Reason  `json:"reasons"`
}

// Result is the outcome of one evaluation. Matched keeps input order.
type Result struct {
	Matched []domain.Property `json:"matched"`
	Skipped []Skip            `json:"skipped"`
}

// Match returns the listings satisfying every active criterion of pref.
// ok is false when pref is nil: no personalization is available and no listing is inspected.
func Match(pref *domain.UserPreference, listings []domain.Property) (Result, bool) {
	if pref == nil {
		return Result{}, false
	}
	res := Result{
		Matched: make([]domain.Property, 0, len(listings)),
		Skipped: []Skip{},
	}
	for i := range listings {
		reasons := Explain(pref, &listings[i])
		if len(reasons) == 0 {
			res.Matched = append(res.Matched, listings[i])
			continue
		}
		res.Skipped = append(res.Skipped, Skip{PropertyID: listings[i].ID, Reasons: reasons})
	}
	return res, true
}

// Explain evaluates a single listing and returns every failed criterion.
// An empty result means the listing matches.
func Explain(pref *domain.UserPreference, listing *domain.Property) []Reason {
	var reasons []Reason
	if r, ok := checkPrice(pref, listing); !ok {
		reasons = append(reasons, r)
	}
	if r, ok := checkPurpose(pref, listing); !ok {
		reasons = append(reasons, r)
	}
	if r, ok := checkType(pref, listing); !ok {
		reasons = append(reasons, r)
	}
	if r, ok := checkStyle(pref, listing); !ok {
		reasons = append(reasons, r)
	}
	return reasons
}

func checkPrice(pref *domain.UserPreference, listing *domain.Property) (Reason, bool) {
	min, max := pref.PriceBounds()
	if min > max {
		return ReasonPriceRangeVoid, false
	}
	price := listing.Price.Float()
	if price < min {
		return ReasonPriceBelowMin, false
	}
	if price > max {
		return ReasonPriceAboveMax, false
	}
	return "", true
}

func checkPurpose(pref *domain.UserPreference, listing *domain.Property) (Reason, bool) {
	if pref.Purpose == domain.PreferencePurposeBoth || pref.Purpose == "" {
		return "", true
	}
	want, ok := domain.ListingPurposeFor(pref.Purpose)
	if !ok || listing.Purpose != want {
		return ReasonPurpose, false
	}
	return "", true
}

func checkType(pref *domain.UserPreference, listing *domain.Property) (Reason, bool) {
	if pref.PropertyType == domain.PreferenceTypeBoth || pref.PropertyType == "" {
		return "", true
	}
	name, has := listing.TypeName()
	if !has {
		return ReasonMissingType, false
	}
	want, ok := domain.TypeNameFor(pref.PropertyType)
	if !ok || name != want {
		return ReasonPropertyType, false
	}
	return "", true
}

func checkStyle(pref *domain.UserPreference, listing *domain.Property) (Reason, bool) {
	switch pref.PropertyStyle {
	case domain.StyleProject:
		if listing.ProjectID == nil {
			return ReasonStyleProject, false
		}
	case domain.StyleNormal:
		if listing.ProjectID != nil {
			return ReasonStyleNormal, false
		}
	}
	return "", true
}
