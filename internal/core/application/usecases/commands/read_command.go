package commands

import (
	"errors"
	"slices"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

var ErrReadCommandIsNotConstructed = errors.New("ReadCommand must be created via NewReadCommand constructor")

// ReadCommand asks for the records of a data source that match its filters.
// By default it returns records only; WithTotalCount adds the number of all
// matching records regardless of paging, WithoutRecords turns it into a count.
//
// Example:
//
//	cmd, err := commands.NewReadCommand(bookstore.BookDataSource,
//	    commands.WithFilter(ports.Filter{Property: "Title", Operation: ports.OpContains, Value: "Go"}),
//	    commands.WithOrderBy(ports.OrderBy{Property: "Title"}),
//	    commands.WithPaging(0, 20),
//	    commands.WithTotalCount(),
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid read: %w", err)
//	}
//	results, err := engine.Execute(ctx, uow, cmd)
type ReadCommand struct { //nolint:recvcheck //using for validation
	dataSource        kernel.DataSource
	filters           []ports.Filter
	orderBy           []ports.OrderBy
	skip              int
	top               int
	includeTotalCount bool
	readRecords       bool

	guard guard.ConstructorGuard
}

// ReadOption configures a ReadCommand.
type ReadOption func(*ReadCommand) error

// WithFilter adds filters; all filters of a command apply together.
func WithFilter(filters ...ports.Filter) ReadOption {
	return func(c *ReadCommand) error {
		var err error
		for _, f := range filters {
			err = errors.Join(err, f.Validate())
		}
		if err != nil {
			return err
		}
		c.filters = append(c.filters, filters...)
		return nil
	}
}

// WithOrderBy adds sort keys, applied in the given order.
func WithOrderBy(orderBy ...ports.OrderBy) ReadOption {
	return func(c *ReadCommand) error {
		for _, o := range orderBy {
			if o.Property == "" {
				return errs.NewValueIsRequiredError("order by property")
			}
		}
		c.orderBy = append(c.orderBy, orderBy...)
		return nil
	}
}

// WithPaging skips the first skip records and returns at most top records.
// top == 0 means no limit.
func WithPaging(skip, top int) ReadOption {
	return func(c *ReadCommand) error {
		if skip < 0 {
			return errs.NewValueIsOutOfRangeError("skip", skip, 0, "unbounded")
		}
		if top < 0 {
			return errs.NewValueIsOutOfRangeError("top", top, 0, "unbounded")
		}
		c.skip = skip
		c.top = top
		return nil
	}
}

// WithTotalCount requests the number of all records matching the filters.
func WithTotalCount() ReadOption {
	return func(c *ReadCommand) error {
		c.includeTotalCount = true
		return nil
	}
}

// WithoutRecords makes the command a count-only read.
func WithoutRecords() ReadOption {
	return func(c *ReadCommand) error {
		c.readRecords = false
		c.includeTotalCount = true
		return nil
	}
}

// NewReadCommand creates a read of ds configured by opts. All option errors are
// reported together.
func NewReadCommand(ds kernel.DataSource, opts ...ReadOption) (ReadCommand, error) {
	cmd := ReadCommand{
		readRecords: true,
		guard:       guard.NewConstructorGuard(),
	}

	err := cmd.setDataSource(ds)
	for _, opt := range opts {
		err = errors.Join(err, opt(&cmd))
	}
	if err != nil {
		return ReadCommand{}, err
	}

	return cmd, nil
}

func (c ReadCommand) Validate() error {
	return c.guard.Validate(ErrReadCommandIsNotConstructed)
}

func (c ReadCommand) Type() CommandType {
	return TypeRead
}

func (c ReadCommand) DataSource() kernel.DataSource {
	return c.dataSource
}

func (c ReadCommand) Filters() []ports.Filter {
	return slices.Clone(c.filters)
}

func (c ReadCommand) OrderBy() []ports.OrderBy {
	return slices.Clone(c.orderBy)
}

func (c ReadCommand) Skip() int {
	return c.skip
}

func (c ReadCommand) Top() int {
	return c.top
}

func (c ReadCommand) IncludeTotalCount() bool {
	return c.includeTotalCount
}

func (c ReadCommand) ReadRecords() bool {
	return c.readRecords
}

// Parameters returns the repository read parameters described by the command.
func (c ReadCommand) Parameters() ports.ReadParameters {
	return ports.ReadParameters{
		Filters: c.Filters(),
		OrderBy: c.OrderBy(),
		Skip:    c.skip,
		Top:     c.top,
	}
}

func (c ReadCommand) isCommand() {}

func (c *ReadCommand) setDataSource(ds kernel.DataSource) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	c.dataSource = ds
	return nil
}
