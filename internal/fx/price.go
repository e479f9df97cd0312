package fx

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Price is an optional numeric field as entered by an administrator. It keeps
// the raw text so that a missing value, JSON null and "" all read as absent,
// while "5800" and 5800 both read as the same number.
type Price string

// PriceOf builds a present Price from a number.
func PriceOf(v float64) Price {
	return Price(strconv.FormatFloat(v, 'f', -1, 64))
}

// Present reports whether the field was set at all.
func (p Price) Present() bool {
	return p != ""
}

// Float coerces the price to a number. Non-numeric and non-finite values
// report false.
func (p Price) Float() (float64, bool) {
	if !p.Present() {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(p)), 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

// Ptr returns the raw text or nil when absent. Used for nullable columns.
func (p Price) Ptr() *string {
	if !p.Present() {
		return nil
	}
	s := string(p)
	return &s
}

// PriceFromPtr is the inverse of Ptr.
func PriceFromPtr(s *string) Price {
	if s == nil {
		return ""
	}
	return Price(*s)
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Present() {
		return []byte("null"), nil
	}
	if v, ok := p.Float(); ok {
		return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
	}
	return json.Marshal(string(p))
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	}
	*p = Price(data)
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
