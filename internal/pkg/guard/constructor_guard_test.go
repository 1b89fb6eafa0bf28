package guard_test

import (
	"errors"
	"testing"

	"bookstore/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("creates_properly_constructed_guard", func(t *testing.T) {
		// When
		g := guard.NewConstructorGuard()

		// Then
		require.NoError(t, g.Validate(errors.New("test object not constructed")))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expectedError := errors.New("command not constructed")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
	})
}

// TestConstructorGuard_EmbeddedInCommand shows the guard used the way commands use it:
// a value copied from a constructed command stays valid, a literal does not.
func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	errNotConstructed := errors.New("ExampleCommand must be created via newExampleCommand")

	type exampleCommand struct {
		dataSource string
		guard      guard.ConstructorGuard
	}

	newExampleCommand := func(dataSource string) (exampleCommand, error) {
		if dataSource == "" {
			return exampleCommand{}, errors.New("data source is required")
		}
		return exampleCommand{dataSource: dataSource, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_command_and_its_copy_are_valid", func(t *testing.T) {
		cmd, err := newExampleCommand("Bookstore.Book")
		require.NoError(t, err)

		copied := cmd
		require.NoError(t, copied.guard.Validate(errNotConstructed))
		assert.Equal(t, "Bookstore.Book", copied.dataSource)
	})

	t.Run("literal_command_is_rejected", func(t *testing.T) {
		cmd := exampleCommand{dataSource: "Bookstore.Book"}
		require.ErrorIs(t, cmd.guard.Validate(errNotConstructed), errNotConstructed)
	})

	t.Run("failed_constructor_returns_zero_value", func(t *testing.T) {
		cmd, err := newExampleCommand("")
		require.Error(t, err)
		require.Error(t, cmd.guard.Validate(errNotConstructed))
	})
}
