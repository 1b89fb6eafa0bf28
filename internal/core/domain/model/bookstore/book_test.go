package bookstore_test

import (
	"strings"
	"testing"

	"bookstore/internal/core/domain/model/bookstore"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook(t *testing.T) {
	t.Run("valid title", func(t *testing.T) {
		// When
		book, err := bookstore.NewBook("  NewBook ")

		// Then
		require.NoError(t, err)
		require.NoError(t, book.Validate())
		require.NoError(t, book.ID().Validate())
		assert.Equal(t, "NewBook", book.Title())
		assert.Empty(t, book.Code())
		assert.Zero(t, book.NumberOfPages())
		assert.True(t, book.Price().Equal(decimal.Zero))
		assert.Nil(t, book.AuthorID())
	})

	t.Run("title is required", func(t *testing.T) {
		_, err := bookstore.NewBook("   ")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("title length is bounded", func(t *testing.T) {
		_, err := bookstore.NewBook(strings.Repeat("x", bookstore.MaxTitleLength+1))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("each book gets its own identifier", func(t *testing.T) {
		b1, err := bookstore.NewBook("A")
		require.NoError(t, err)
		b2, err := bookstore.NewBook("B")
		require.NoError(t, err)

		assert.False(t, b1.ID().IsEqual(b2.ID()))
	})
}

func TestRestoreBook(t *testing.T) {
	id := kernel.NewUUID()
	author := kernel.NewUUID()

	t.Run("all fields restored", func(t *testing.T) {
		book, err := bookstore.RestoreBook(id, "B-1", "Title", 320, decimal.RequireFromString("19.90"), &author)

		require.NoError(t, err)
		assert.True(t, id.IsEqual(book.ID()))
		assert.Equal(t, "B-1", book.Code())
		assert.Equal(t, 320, book.NumberOfPages())
		assert.Equal(t, "19.9", book.Price().String())
		require.NotNil(t, book.AuthorID())
		assert.True(t, author.IsEqual(*book.AuthorID()))
	})

	t.Run("every violated rule is reported", func(t *testing.T) {
		_, err := bookstore.RestoreBook(kernel.UUID{}, "CODE-TOO-LONG", "", -1, decimal.NewFromInt(-5), &kernel.UUID{})

		require.Error(t, err)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, errs.KindValidationFailed, errs.KindOf(err))
	})
}

func TestBook_AuthorIDIsCopied(t *testing.T) {
	author := kernel.NewUUID()
	book, err := bookstore.RestoreBook(kernel.NewUUID(), "", "Title", 0, decimal.Zero, &author)
	require.NoError(t, err)

	got := book.AuthorID()
	*got = kernel.NewUUID()

	assert.True(t, author.IsEqual(*book.AuthorID()))
}

func TestBook_Describe(t *testing.T) {
	book, err := bookstore.NewBook("Title")
	require.NoError(t, err)
	author := kernel.NewUUID()

	t.Run("valid details are applied", func(t *testing.T) {
		require.NoError(t, book.Describe("C1", 100, decimal.NewFromInt(10), &author))
		assert.Equal(t, "C1", book.Code())
		assert.Equal(t, 100, book.NumberOfPages())
	})

	t.Run("invalid details leave the book unchanged", func(t *testing.T) {
		err := book.Describe("C2", -1, decimal.NewFromInt(10), nil)

		require.Error(t, err)
		assert.Equal(t, "C1", book.Code())
		assert.Equal(t, 100, book.NumberOfPages())
		assert.NotNil(t, book.AuthorID())
	})
}

func TestBook_Clone(t *testing.T) {
	author := kernel.NewUUID()
	book, err := bookstore.RestoreBook(kernel.NewUUID(), "C1", "Title", 10, decimal.NewFromInt(5), &author)
	require.NoError(t, err)

	clone, ok := book.Clone().(*bookstore.Book)
	require.True(t, ok)
	require.NotSame(t, book, clone)
	assert.Equal(t, book, clone)
	require.NoError(t, clone.Validate())

	require.NoError(t, book.Describe("C2", 20, decimal.NewFromInt(7), nil))

	assert.Equal(t, "C1", clone.Code())
	assert.Equal(t, 10, clone.NumberOfPages())
	assert.True(t, decimal.NewFromInt(5).Equal(clone.Price()))
	require.NotNil(t, clone.AuthorID())
	assert.True(t, author.IsEqual(*clone.AuthorID()))
}

func TestBook_Validate(t *testing.T) {
	var nilBook *bookstore.Book
	assert.Equal(t, bookstore.ErrBookIsNotConstructed, nilBook.Validate())
	assert.Equal(t, bookstore.ErrBookIsNotConstructed, (&bookstore.Book{}).Validate())
}
