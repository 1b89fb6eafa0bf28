package kernel

import (
	"fmt"
	"regexp"
	"strings"

	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

// ErrDataSourceIsNotConstructed is returned when a DataSource was not built by ParseDataSource or NewDataSource.
var ErrDataSourceIsNotConstructed = errs.NewValueIsRequiredError("DataSource must be created via ParseDataSource or NewDataSource")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DataSource names the logical entity a command targets, in the form
// "<Module>.<Entity>", for example "Bookstore.Book".
type DataSource struct {
	module string
	entity string
	guard  guard.ConstructorGuard
}

// ParseDataSource parses a "<Module>.<Entity>" name. Both parts must be
// identifiers: letters, digits and underscores, not starting with a digit.
func ParseDataSource(name string) (DataSource, error) {
	module, entity, ok := strings.Cut(name, ".")
	if !ok {
		return DataSource{}, errs.NewValueIsInvalidErrorWithCause("data source",
			fmt.Errorf("%q is not in the <Module>.<Entity> form", name))
	}
	return NewDataSource(module, entity)
}

// NewDataSource builds a data source name from its module and entity parts.
func NewDataSource(module, entity string) (DataSource, error) {
	if !identifierPattern.MatchString(module) {
		return DataSource{}, errs.NewValueIsInvalidErrorWithCause("data source module",
			fmt.Errorf("%q is not a valid identifier", module))
	}
	if !identifierPattern.MatchString(entity) {
		return DataSource{}, errs.NewValueIsInvalidErrorWithCause("data source entity",
			fmt.Errorf("%q is not a valid identifier", entity))
	}
	return DataSource{module: module, entity: entity, guard: guard.NewConstructorGuard()}, nil
}

// MustParseDataSource is ParseDataSource for names known at compile time.
func MustParseDataSource(name string) DataSource {
	ds, err := ParseDataSource(name)
	if err != nil {
		panic(err)
	}
	return ds
}

func (d DataSource) Module() string {
	return d.module
}

func (d DataSource) Entity() string {
	return d.entity
}

func (d DataSource) String() string {
	return d.module + "." + d.entity
}

func (d DataSource) Validate() error {
	return d.guard.Validate(ErrDataSourceIsNotConstructed)
}

func (d DataSource) IsEqual(other DataSource) bool {
	return d.module == other.module && d.entity == other.entity
}
