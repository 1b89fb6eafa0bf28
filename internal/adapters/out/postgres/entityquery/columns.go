package entityquery

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"bookstore/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ColumnType decides how filter values are converted before they reach SQL.
type ColumnType int

const (
	Text ColumnType = iota
	Integer
	Decimal
	UUID
)

// Column maps a public entity property to a table column.
type Column struct {
	Name string
	Type ColumnType
}

// Columns is the whitelist of filterable and sortable properties of an entity,
// keyed by property name.
type Columns map[string]Column

func (c Columns) lookup(property string) (Column, error) {
	col, ok := c[property]
	if !ok {
		return Column{}, errs.NewCommandError(errs.KindValidationFailed,
			fmt.Sprintf("unknown property %q", property))
	}
	return col, nil
}

// convert coerces a filter value decoded from JSON or passed by Go callers into
// the column's type. A nil value is kept as nil.
func (col Column) convert(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch col.Type {
	case Text:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return fmt.Sprint(value), nil
	case Integer:
		return toInt(value)
	case Decimal:
		return toDecimal(value)
	case UUID:
		return toUUID(value)
	default:
		return value, nil
	}
}

func toInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, invalidValue(value, "an integer")
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, invalidValue(value, "an integer")
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, invalidValue(value, "an integer")
		}
		return n, nil
	default:
		return nil, invalidValue(value, "an integer")
	}
}

func toDecimal(value any) (any, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case json.Number:
		return parseDecimal(v.String())
	case string:
		return parseDecimal(v)
	default:
		return nil, invalidValue(value, "a number")
	}
}

func parseDecimal(s string) (any, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, invalidValue(s, "a number")
	}
	return d, nil
}

func toUUID(value any) (any, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case fmt.Stringer:
		return parseUUID(v.String())
	case string:
		return parseUUID(v)
	default:
		return nil, invalidValue(value, "a UUID")
	}
}

func parseUUID(s string) (any, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, invalidValue(s, "a UUID")
	}
	return id, nil
}

func invalidValue(value any, want string) error {
	return errs.NewCommandError(errs.KindValidationFailed,
		fmt.Sprintf("filter value %v is not %s", value, want))
}
