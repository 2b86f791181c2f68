package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is a listing price as it arrives from storage or a request body.
// Null, non-numeric and non-finite values are kept as invalid and compare as 0.
type Price struct {
	Amount float64
	Valid  bool
}

// NewPrice returns a valid Price for v.
func NewPrice(v float64) Price {
	return Price{Amount: v, Valid: true}
}

// ParsePrice parses a numeric string. Unparseable input yields an invalid Price.
func ParsePrice(s string) Price {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Price{}
	}
	return Price{Amount: f, Valid: true}
}

// Float returns the comparable value of p. Invalid, NaN and infinite prices coerce to 0.
func (p Price) Float() float64 {
	if !p.Valid || math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) {
		return 0
	}
	return p.Amount
}

// Malformed reports whether the stored value had to be coerced.
func (p Price) Malformed() bool {
	return !p.Valid || math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0)
}

// MarshalJSON writes null for malformed prices so clients never see NaN.
func (p Price) MarshalJSON() ([]byte, error) {
	if p.Malformed() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(p.Amount, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null. Anything else becomes an invalid Price.
func (p *Price) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*p = Price{}
		return nil
	}
	switch v := raw.(type) {
	case float64:
		*p = NewPrice(v)
	case string:
		*p = ParsePrice(v)
	default:
		*p = Price{}
	}
	return nil
}

// Scan implements sql.Scanner.
func (p *Price) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = Price{}
	case float64:
		*p = NewPrice(v)
	case float32:
		*p = NewPrice(float64(v))
	case int64:
		*p = NewPrice(float64(v))
	case []byte:
		*p = ParsePrice(string(v))
	case string:
		*p = ParsePrice(v)
	default:
		return fmt.Errorf("unsupported type for Price: %T", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (p Price) Value() (driver.Value, error) {
	if p.Malformed() {
		return nil, nil
	}
	return p.Amount, nil
}
