package bookstore

import (
	"errors"
	"strings"
	"unicode/utf8"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrBookIsNotConstructed is returned when a Book was not created through
	// NewBook or RestoreBook.
	ErrBookIsNotConstructed = errors.New("Book must be created via NewBook constructor")
)

// Book is a title sold by the bookstore.
//
// Book follows these invariants:
//   - Must have a valid unique identifier
//   - Title is required and at most MaxTitleLength characters
//   - Code is optional and at most MaxCodeLength characters
//   - NumberOfPages and Price are never negative
type Book struct {
	id            kernel.UUID
	code          string
	title         string
	numberOfPages int
	price         decimal.Decimal
	authorID      *kernel.UUID

	isConstructed bool
}

// NewBook creates a book with a freshly generated identifier.
//
// Example:
//
//	book, err := bookstore.NewBook("NewBook")
//	if err != nil {
//	    return fmt.Errorf("invalid book: %w", err)
//	}
//	cmd, err := commands.NewSaveCommand(bookstore.BookDataSource,
//	    commands.Insert(book))
func NewBook(title string) (*Book, error) {
	book := &Book{
		id:            kernel.NewUUID(),
		price:         decimal.Zero,
		isConstructed: true,
	}

	if err := book.setTitle(title); err != nil {
		return nil, err
	}

	return book, nil
}

// RestoreBook rebuilds a book from persisted or client supplied state,
// validating every field.
func RestoreBook(
	id kernel.UUID,
	code string,
	title string,
	numberOfPages int,
	price decimal.Decimal,
	authorID *kernel.UUID,
) (*Book, error) {
	book := &Book{isConstructed: true}

	if err := errors.Join(
		book.setID(id),
		book.setCode(code),
		book.setTitle(title),
		book.setNumberOfPages(numberOfPages),
		book.setPrice(price),
		book.setAuthor(authorID),
	); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate ensures the Book was created through a constructor.
func (b *Book) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBookIsNotConstructed
	}
	return nil
}

// Clone returns a copy of the book that shares no state with it.
func (b *Book) Clone() kernel.Entity {
	if b == nil {
		return b
	}
	c := *b
	c.authorID = b.AuthorID()
	return &c
}

func (b *Book) ID() kernel.UUID {
	return b.id
}

func (b *Book) Code() string {
	return b.code
}

func (b *Book) Title() string {
	return b.title
}

func (b *Book) NumberOfPages() int {
	return b.numberOfPages
}

func (b *Book) Price() decimal.Decimal {
	return b.price
}

// AuthorID returns the author's identifier, or nil when the book has no author.
func (b *Book) AuthorID() *kernel.UUID {
	if b.authorID == nil {
		return nil
	}
	id := *b.authorID
	return &id
}

// Describe sets the optional details of the book in one step, so a failed
// update leaves the book unchanged.
func (b *Book) Describe(code string, numberOfPages int, price decimal.Decimal, authorID *kernel.UUID) error {
	draft := *b
	if err := errors.Join(
		draft.setCode(code),
		draft.setNumberOfPages(numberOfPages),
		draft.setPrice(price),
		draft.setAuthor(authorID),
	); err != nil {
		return err
	}
	*b = draft
	return nil
}

func (b *Book) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Book) setCode(code string) error {
	code = strings.TrimSpace(code)
	if utf8.RuneCountInString(code) > MaxCodeLength {
		return errs.NewValueIsOutOfRangeError("code length", utf8.RuneCountInString(code), 0, MaxCodeLength)
	}
	b.code = code
	return nil
}

func (b *Book) setTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return errs.NewValueIsOutOfRangeError("title length", utf8.RuneCountInString(title), 1, MaxTitleLength)
	}
	b.title = title
	return nil
}

func (b *Book) setNumberOfPages(pages int) error {
	if pages < 0 {
		return errs.NewValueIsOutOfRangeError("number of pages", pages, 0, "unbounded")
	}
	b.numberOfPages = pages
	return nil
}

func (b *Book) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsOutOfRangeError("price", price.String(), 0, "unbounded")
	}
	b.price = price
	return nil
}

func (b *Book) setAuthor(authorID *kernel.UUID) error {
	if authorID == nil {
		b.authorID = nil
		return nil
	}
	if err := authorID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("author", err)
	}
	id := *authorID
	b.authorID = &id
	return nil
}
