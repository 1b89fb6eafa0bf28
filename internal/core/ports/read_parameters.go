// Package ports defines the contracts between the command-processing core and
// the infrastructure that stores entities. Adapters implement these interfaces;
// the core depends on nothing else.
package ports

import (
	"fmt"

	"bookstore/internal/pkg/errs"
)

// FilterOperation is the comparison a Filter applies to an entity property.
type FilterOperation string

const (
	OpEqual        FilterOperation = "equal"
	OpNotEqual     FilterOperation = "notequal"
	OpLess         FilterOperation = "less"
	OpLessEqual    FilterOperation = "lessequal"
	OpGreater      FilterOperation = "greater"
	OpGreaterEqual FilterOperation = "greaterequal"
	OpContains     FilterOperation = "contains"
	OpStartsWith   FilterOperation = "startswith"
	OpIn           FilterOperation = "in"
)

// Valid reports whether op is one of the supported operations.
func (op FilterOperation) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual,
		OpContains, OpStartsWith, OpIn:
		return true
	default:
		return false
	}
}

// Filter restricts a read to entities whose Property compares to Value.
// Property names are the entity's public property names, for example "Title".
type Filter struct {
	Property  string          `json:"Property"`
	Operation FilterOperation `json:"Operation"`
	Value     any             `json:"Value"`
}

// Validate checks the shape of the filter. Whether the property exists is
// decided by the repository that owns it.
func (f Filter) Validate() error {
	if f.Property == "" {
		return errs.NewValueIsRequiredError("filter property")
	}
	if !f.Operation.Valid() {
		return errs.NewValueIsInvalidErrorWithCause("filter operation",
			fmt.Errorf("unsupported operation %q", f.Operation))
	}
	return nil
}

// OrderBy sorts read results by one property.
type OrderBy struct {
	Property   string `json:"Property"`
	Descending bool   `json:"Descending"`
}

// ReadParameters is what a repository needs to answer a read: all filters are
// combined with AND, ordering is applied in sequence, then Skip and Top page the
// result. Top == 0 means no limit.
type ReadParameters struct {
	Filters []Filter
	OrderBy []OrderBy
	Skip    int
	Top     int
}
