package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// customPriceLabel is the only non-numeric price accepted on the wire
const customPriceLabel = "Custom"

// Price is either a numeric amount or the literal "Custom" for quote-based tiers.
type Price struct {
	Amount float64
	Custom bool
}

// Amount returns a numeric price.
func Amount(v float64) Price {
	return Price{Amount: v}
}

// CustomPrice returns the quote-based "Custom" price.
func CustomPrice() Price {
	return Price{Custom: true}
}

// String renders the price the way it is shown on a pricing card.
func (p Price) String() string {
	if p.Custom {
		return customPriceLabel
	}
	return strconv.FormatFloat(p.Amount, 'f', -1, 64)
}

// MarshalJSON encodes numeric prices as JSON numbers and custom prices as "Custom".
func (p Price) MarshalJSON() ([]byte, error) {
	if p.Custom {
		return json.Marshal(customPriceLabel)
	}
	return json.Marshal(p.Amount)
}

// UnmarshalJSON accepts a JSON number, a numeric string, or "Custom".
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == customPriceLabel {
			*p = CustomPrice()
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("price must be a number or %q, got %q", customPriceLabel, s)
		}
		*p = Amount(v)
		return p.Validate()
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("price must be a number or %q: %w", customPriceLabel, err)
	}
	*p = Amount(v)
	return p.Validate()
}

// Validate rejects negative and non-finite amounts.
func (p Price) Validate() error {
	if p.Custom {
		return nil
	}
	if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) {
		return fmt.Errorf("price must be a finite number, got %v", p.Amount)
	}
	if p.Amount < 0 {
		return fmt.Errorf("price must not be negative, got %v", p.Amount)
	}
	return nil
}
