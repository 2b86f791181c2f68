package domain

import (
	"errors"
	"strings"
)

var (
	ErrUnknownPurpose       = errors.New("Unknown purpose")
	ErrUnknownPropertyType  = errors.New("Unknown property type")
	ErrUnknownPropertyStyle = errors.New("Unknown property style")
)

// purposeVocabulary and typeVocabulary are the only place the preference and
// listing vocabularies are related. BOTH is a wildcard and has no row.
var purposeVocabulary = []struct {
	pref    PreferencePurpose
	listing ListingPurpose
}{
	{PreferencePurposeBuy, ListingPurposeSale},
	{PreferencePurposeRent, ListingPurposeRent},
}

var typeVocabulary = []struct {
	pref PreferenceType
	name string
}{
	{PreferenceTypeHouse, "House"},
	{PreferenceTypeApartment, "Apartment"},
}

// ListingPurposeFor maps BUY to SALE and RENT to RENT. ok is false for BOTH and unknown values.
func ListingPurposeFor(p PreferencePurpose) (ListingPurpose, bool) {
	for _, row := range purposeVocabulary {
		if row.pref == p {
			return row.listing, true
		}
	}
	return "", false
}

// PreferencePurposeFor is the inverse of ListingPurposeFor.
func PreferencePurposeFor(l ListingPurpose) (PreferencePurpose, bool) {
	for _, row := range purposeVocabulary {
		if row.listing == l {
			return row.pref, true
		}
	}
	return "", false
}

// TypeNameFor maps HOUSE to "House" and APARTMENT to "Apartment". ok is false for BOTH and unknown values.
func TypeNameFor(t PreferenceType) (string, bool) {
	for _, row := range typeVocabulary {
		if row.pref == t {
			return row.name, true
		}
	}
	return "", false
}

// PreferenceTypeFor looks up a property type name exactly (case-sensitive).
func PreferenceTypeFor(name string) (PreferenceType, bool) {
	for _, row := range typeVocabulary {
		if row.name == name {
			return row.pref, true
		}
	}
	return "", false
}

// TypeNames returns the known property type names in table order.
func TypeNames() []string {
	names := make([]string, 0, len(typeVocabulary))
	for _, row := range typeVocabulary {
		names = append(names, row.name)
	}
	return names
}

// ParsePreferencePurpose accepts any case. Empty input means BOTH.
func ParsePreferencePurpose(s string) (PreferencePurpose, error) {
	switch p := PreferencePurpose(strings.ToUpper(strings.TrimSpace(s))); p {
	case "":
		return PreferencePurposeBoth, nil
	case PreferencePurposeBuy, PreferencePurposeRent, PreferencePurposeBoth:
		return p, nil
	}
	return "", ErrUnknownPurpose
}

// ParsePreferenceType accepts any case. Empty input means BOTH.
func ParsePreferenceType(s string) (PreferenceType, error) {
	switch t := PreferenceType(strings.ToUpper(strings.TrimSpace(s))); t {
	case "":
		return PreferenceTypeBoth, nil
	case PreferenceTypeHouse, PreferenceTypeApartment, PreferenceTypeBoth:
		return t, nil
	}
	return "", ErrUnknownPropertyType
}

// ParsePropertyStyle accepts any case. Empty and BOTH mean no constraint.
func ParsePropertyStyle(s string) (PropertyStyle, error) {
	switch st := PropertyStyle(strings.ToUpper(strings.TrimSpace(s))); st {
	case "", "BOTH":
		return StyleAny, nil
	case StyleNormal, StyleProject:
		return st, nil
	}
	return "", ErrUnknownPropertyStyle
}

// ParseListingPurpose accepts any case.
func ParseListingPurpose(s string) (ListingPurpose, error) {
	switch p := ListingPurpose(strings.ToUpper(strings.TrimSpace(s))); p {
	case ListingPurposeSale, ListingPurposeRent:
		return p, nil
	}
	return "", ErrUnknownPurpose
}
