package commands_test

import (
	"testing"

	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/domain/model/bookstore"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadCommand_Defaults(t *testing.T) {
	cmd, err := commands.NewReadCommand(bookstore.BookDataSource)
	require.NoError(t, err)

	assert.Equal(t, commands.TypeRead, cmd.Type())
	assert.True(t, cmd.DataSource().IsEqual(bookstore.BookDataSource))
	assert.True(t, cmd.ReadRecords())
	assert.False(t, cmd.IncludeTotalCount())
	assert.Empty(t, cmd.Filters())
	assert.Zero(t, cmd.Skip())
	assert.Zero(t, cmd.Top())
	require.NoError(t, cmd.Validate())
}

func TestNewReadCommand_WithOptions(t *testing.T) {
	filter := ports.Filter{Property: "Title", Operation: ports.OpContains, Value: "Go"}
	order := ports.OrderBy{Property: "Title", Descending: true}

	cmd, err := commands.NewReadCommand(bookstore.BookDataSource,
		commands.WithFilter(filter),
		commands.WithOrderBy(order),
		commands.WithPaging(10, 5),
		commands.WithTotalCount(),
	)
	require.NoError(t, err)

	assert.Equal(t, ports.ReadParameters{
		Filters: []ports.Filter{filter},
		OrderBy: []ports.OrderBy{order},
		Skip:    10,
		Top:     5,
	}, cmd.Parameters())
	assert.True(t, cmd.IncludeTotalCount())
}

func TestNewReadCommand_WithoutRecordsIsCountOnly(t *testing.T) {
	cmd, err := commands.NewReadCommand(bookstore.PersonDataSource, commands.WithoutRecords())
	require.NoError(t, err)

	assert.False(t, cmd.ReadRecords())
	assert.True(t, cmd.IncludeTotalCount())
}

func TestNewReadCommand_InvalidInput(t *testing.T) {
	testCases := []struct {
		name    string
		ds      kernel.DataSource
		opts    []commands.ReadOption
		wantErr error
	}{
		{"zero data source", kernel.DataSource{}, nil, errs.ErrValueIsRequired},
		{"negative skip", bookstore.BookDataSource, []commands.ReadOption{commands.WithPaging(-1, 0)}, errs.ErrValueIsOutOfRange},
		{"negative top", bookstore.BookDataSource, []commands.ReadOption{commands.WithPaging(0, -1)}, errs.ErrValueIsOutOfRange},
		{"filter without property", bookstore.BookDataSource, []commands.ReadOption{
			commands.WithFilter(ports.Filter{Operation: ports.OpEqual, Value: 1}),
		}, errs.ErrValueIsRequired},
		{"unknown filter operation", bookstore.BookDataSource, []commands.ReadOption{
			commands.WithFilter(ports.Filter{Property: "Title", Operation: "like", Value: "x"}),
		}, errs.ErrValueIsInvalid},
		{"order by without property", bookstore.BookDataSource, []commands.ReadOption{
			commands.WithOrderBy(ports.OrderBy{}),
		}, errs.ErrValueIsRequired},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := commands.NewReadCommand(tc.ds, tc.opts...)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestReadCommand_ZeroValueFailsValidation(t *testing.T) {
	var cmd commands.ReadCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrReadCommandIsNotConstructed)
}

func TestReadCommand_AccessorsReturnCopies(t *testing.T) {
	cmd, err := commands.NewReadCommand(bookstore.BookDataSource,
		commands.WithFilter(ports.Filter{Property: "Code", Operation: ports.OpEqual, Value: "A"}))
	require.NoError(t, err)

	filters := cmd.Filters()
	filters[0].Value = "B"

	assert.Equal(t, "A", cmd.Filters()[0].Value)
}
