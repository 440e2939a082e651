package models

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Price is an exact decimal amount. It is written as a bare JSON number,
// a DynamoDB number and a SQL numeric (text on SQLite), never as a float.
type Price struct {
	decimal.Decimal
}

// NewPrice wraps d.
func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

// Prices must fit a DynamoDB number: at most 38 significant digits and a
// magnitude between 1e-130 and 1e126.
const (
	MaxPriceDigits   = 38
	MinPriceExponent = -130
	MaxPriceExponent = 125
)

// ParsePrice parses a decimal literal such as "19.99".
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if err := checkRange(d); err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return Price{Decimal: d}, nil
}

// checkRange inspects the exponent and coefficient digits without rescaling.
func checkRange(d decimal.Decimal) error {
	digits := strings.TrimLeft(d.Coefficient().String(), "-")
	if significant := len(strings.TrimRight(digits, "0")); significant > MaxPriceDigits {
		return fmt.Errorf("%d significant digits exceed %d", significant, MaxPriceDigits)
	}
	exp := int64(d.Exponent())
	if exp < MinPriceExponent || exp+int64(len(digits))-1 > MaxPriceExponent {
		return fmt.Errorf("exponent %d out of range", d.Exponent())
	}
	return nil
}

// MustParsePrice is ParsePrice for literals known to be valid.
func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// MarshalJSON writes the decimal as an unquoted number literal.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

// UnmarshalJSON accepts both quoted and unquoted numbers.
func (p *Price) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	d, err := decimal.NewFromString(strings.Trim(string(data), `"`))
	if err != nil {
		return fmt.Errorf("invalid price %s: %w", data, err)
	}
	p.Decimal = d
	return nil
}

// MarshalDynamoDBAttributeValue stores the price as a DynamoDB number.
func (p Price) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: p.Decimal.String()}, nil
}

// UnmarshalDynamoDBAttributeValue reads a number (or a numeric string) attribute.
func (p *Price) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	case *types.AttributeValueMemberNULL:
		return nil
	default:
		return fmt.Errorf("unsupported attribute type %T for price", av)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid price attribute %q: %w", raw, err)
	}
	p.Decimal = d
	return nil
}

// GormDBDataType keeps prices exact per dialect. SQLite has no exact
// decimal column type so the literal is stored as text.
func (Price) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "numeric"
	default:
		return "text"
	}
}
