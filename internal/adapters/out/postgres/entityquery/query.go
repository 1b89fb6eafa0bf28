package entityquery

import (
	"fmt"
	"strings"

	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplyFilters adds one WHERE condition per filter to db. All conditions are
// combined with AND.
func ApplyFilters(db *gorm.DB, columns Columns, filters []ports.Filter) (*gorm.DB, error) {
	for _, f := range filters {
		expr, err := filterExpression(columns, f)
		if err != nil {
			return nil, err
		}
		db = db.Where(expr)
	}
	return db, nil
}

// ApplyRead adds filters, ordering and paging to db. When paging without an
// explicit order, rows are ordered by tiebreaker so pages are stable.
func ApplyRead(db *gorm.DB, columns Columns, params ports.ReadParameters, tiebreaker string) (*gorm.DB, error) {
	db, err := ApplyFilters(db, columns, params.Filters)
	if err != nil {
		return nil, err
	}

	for _, o := range params.OrderBy {
		col, err := columns.lookup(o.Property)
		if err != nil {
			return nil, err
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: col.Name}, Desc: o.Descending})
	}
	if len(params.OrderBy) == 0 && (params.Skip > 0 || params.Top > 0) {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: tiebreaker}})
	}

	if params.Skip > 0 {
		db = db.Offset(params.Skip)
	}
	if params.Top > 0 {
		db = db.Limit(params.Top)
	}
	return db, nil
}

func filterExpression(columns Columns, f ports.Filter) (clause.Expression, error) {
	if err := f.Validate(); err != nil {
		return nil, errs.NewCommandErrorWithCause(errs.KindValidationFailed, err.Error(), err)
	}
	col, err := columns.lookup(f.Property)
	if err != nil {
		return nil, err
	}
	column := clause.Column{Name: col.Name}

	if f.Operation == ports.OpIn {
		values, ok := f.Value.([]any)
		if !ok {
			return nil, errs.NewCommandError(errs.KindValidationFailed,
				fmt.Sprintf("filter %q with operation in needs a list value", f.Property))
		}
		converted := make([]any, 0, len(values))
		for _, v := range values {
			c, err := col.convert(v)
			if err != nil {
				return nil, err
			}
			converted = append(converted, c)
		}
		return clause.IN{Column: column, Values: converted}, nil
	}

	if f.Operation == ports.OpContains || f.Operation == ports.OpStartsWith {
		s, ok := f.Value.(string)
		if !ok || col.Type != Text {
			return nil, errs.NewCommandError(errs.KindValidationFailed,
				fmt.Sprintf("filter %q with operation %s needs a text property and value", f.Property, f.Operation))
		}
		pattern := escapeLike(s) + "%"
		if f.Operation == ports.OpContains {
			pattern = "%" + pattern
		}
		return clause.Like{Column: column, Value: pattern}, nil
	}

	value, err := col.convert(f.Value)
	if err != nil {
		return nil, err
	}

	switch f.Operation {
	case ports.OpEqual:
		return clause.Eq{Column: column, Value: value}, nil
	case ports.OpNotEqual:
		return clause.Neq{Column: column, Value: value}, nil
	case ports.OpLess:
		return clause.Lt{Column: column, Value: value}, nil
	case ports.OpLessEqual:
		return clause.Lte{Column: column, Value: value}, nil
	case ports.OpGreater:
		return clause.Gt{Column: column, Value: value}, nil
	case ports.OpGreaterEqual:
		return clause.Gte{Column: column, Value: value}, nil
	default:
		return nil, errs.NewCommandError(errs.KindValidationFailed,
			fmt.Sprintf("unsupported filter operation %q", f.Operation))
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
