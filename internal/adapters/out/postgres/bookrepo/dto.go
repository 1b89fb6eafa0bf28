// Package bookrepo persists Bookstore.Book entities with gorm.
package bookrepo

import (
	"bookstore/internal/adapters/out/postgres/entityquery"
	"bookstore/internal/core/domain/model/bookstore"
	"bookstore/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TableName is the table holding books.
const TableName = "bookstore_book"

// BookDTO is the row of a book. An empty code is stored as NULL so the unique
// index only applies to books that have a code.
type BookDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code          *string         `gorm:"size:10;uniqueIndex"`
	Title         string          `gorm:"size:256;not null"`
	NumberOfPages int             `gorm:"not null"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	AuthorID      *uuid.UUID      `gorm:"type:uuid;index"`
}

func (BookDTO) TableName() string {
	return TableName
}

// Columns lists the book properties that can be filtered and sorted.
var Columns = entityquery.Columns{
	"ID":            {Name: "id", Type: entityquery.UUID},
	"Code":          {Name: "code", Type: entityquery.Text},
	"Title":         {Name: "title", Type: entityquery.Text},
	"NumberOfPages": {Name: "number_of_pages", Type: entityquery.Integer},
	"Price":         {Name: "price", Type: entityquery.Decimal},
	"AuthorID":      {Name: "author_id", Type: entityquery.UUID},
}

func fromDomain(book *bookstore.Book) BookDTO {
	var code *string
	if c := book.Code(); c != "" {
		code = &c
	}

	var authorID *uuid.UUID
	if id := book.AuthorID(); id != nil {
		raw := id.Bytes()
		authorID = &raw
	}

	return BookDTO{
		ID:            book.ID().Bytes(),
		Code:          code,
		Title:         book.Title(),
		NumberOfPages: book.NumberOfPages(),
		Price:         book.Price(),
		AuthorID:      authorID,
	}
}

func toDomain(dto BookDTO) (*bookstore.Book, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var authorID *kernel.UUID
	if dto.AuthorID != nil {
		aID, authorErr := kernel.UUIDFromBytes((*dto.AuthorID)[:])
		if authorErr != nil {
			return nil, authorErr
		}
		authorID = &aID
	}

	var code string
	if dto.Code != nil {
		code = *dto.Code
	}

	return bookstore.RestoreBook(id, code, dto.Title, dto.NumberOfPages, dto.Price, authorID)
}
