// File: product-service/internal/domain/product.go
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrValidation is the single error kind raised for malformed input or
// invalid state preconditions at the entity level. Every validation failure
// wraps it, so callers can match with errors.Is and map it to a 400.
var ErrValidation = errors.New("data validation error")

var validate = validator.New()

// Product represents one catalog item.
// Price is an exact decimal; monetary values never pass through float64.
type Product struct {
	ID          *int64 `validate:"omitempty,gt=0"` // nil until persisted, assigned by the store on create
	Name        string `validate:"required"`
	Description string
	Price       decimal.Decimal
	Available   bool
	Category    Category
}

// String renders the diagnostic representation, e.g. <Product Fedora id=[None]>.
func (p *Product) String() string {
	id := "None"
	if p.ID != nil {
		id = strconv.FormatInt(*p.ID, 10)
	}
	return fmt.Sprintf("<Product %s id=[%s]>", p.Name, id)
}

// Serialize produces the external mapping for a Product. The price is the
// exact decimal text and the category is the enum member's name.
func (p *Product) Serialize() map[string]any {
	var id any
	if p.ID != nil {
		id = *p.ID
	}
	return map[string]any{
		"id":          id,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.String(),
		"available":   p.Available,
		"category":    p.Category.String(),
	}
}

// Deserialize populates the Product's fields from an external mapping and
// returns the mutated receiver so calls can be chained after construction.
// The id is never taken from the payload; it is persistence-assigned.
//
// name, price and available are required; description defaults to "" and
// category defaults to UNKNOWN. Callers decoding JSON bodies should use
// json.Decoder.UseNumber so prices arrive as json.Number, not float64.
func (p *Product) Deserialize(data map[string]any) (*Product, error) {
	raw, ok := data["name"]
	if !ok {
		return nil, missingKeyError("name")
	}
	name, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: Invalid type for string [name]: %v", ErrValidation, raw)
	}
	p.Name = name

	p.Description = ""
	if raw, ok := data["description"]; ok {
		desc, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: Invalid type for string [description]: %v", ErrValidation, raw)
		}
		p.Description = desc
	}

	raw, ok = data["price"]
	if !ok {
		return nil, missingKeyError("price")
	}
	price, err := ParsePrice(raw)
	if err != nil {
		return nil, err
	}
	p.Price = price

	raw, ok = data["available"]
	if !ok {
		return nil, missingKeyError("available")
	}
	available, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("%w: Invalid type for boolean [available]: %v", ErrValidation, raw)
	}
	p.Available = available

	p.Category = CategoryUnknown
	if raw, ok := data["category"]; ok {
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: Invalid attribute: %v", ErrValidation, raw)
		}
		category, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		p.Category = category
	}

	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: body of request contained bad or no data: %v", ErrValidation, err)
	}
	return p, nil
}

// ParsePrice normalizes a numeric or string-encoded price into an exact
// decimal. The HTTP layer always supplies string query-parameter values, so
// string and native inputs must normalize identically.
func ParsePrice(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case string:
		price, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: Invalid type for decimal [price]: %v", ErrValidation, v)
		}
		return price, nil
	case json.Number:
		price, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: Invalid type for decimal [price]: %v", ErrValidation, v)
		}
		return price, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: Invalid type for decimal [price]: %v", ErrValidation, raw)
	}
}

func missingKeyError(key string) error {
	return fmt.Errorf("%w: body of request contained bad or no data: missing key '%s'", ErrValidation, key)
}
