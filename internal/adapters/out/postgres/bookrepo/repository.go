package bookrepo

import (
	"context"

	"bookstore/internal/adapters/out/postgres/entityquery"
	"bookstore/internal/core/domain/model/bookstore"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"

	"gorm.io/gorm"
)

// GormBookRepository implements ports.EntityRepository for Bookstore.Book. It
// runs on whatever *gorm.DB it was created with, normally the transaction of a
// unit of work.
type GormBookRepository struct {
	db *gorm.DB
}

func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

func (r *GormBookRepository) DataSource() kernel.DataSource {
	return bookstore.BookDataSource
}

func (r *GormBookRepository) Read(ctx context.Context, params ports.ReadParameters) ([]kernel.Entity, error) {
	query, err := entityquery.ApplyRead(r.db.WithContext(ctx).Model(&BookDTO{}), Columns, params, "id")
	if err != nil {
		return nil, err
	}

	var dtos []BookDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, entityquery.TranslateError(bookstore.BookDataSource, err)
	}

	books := make([]kernel.Entity, 0, len(dtos))
	for _, dto := range dtos {
		book, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

func (r *GormBookRepository) Count(ctx context.Context, filters []ports.Filter) (int64, error) {
	query, err := entityquery.ApplyFilters(r.db.WithContext(ctx).Model(&BookDTO{}), Columns, filters)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, entityquery.TranslateError(bookstore.BookDataSource, err)
	}
	return count, nil
}

func (r *GormBookRepository) Insert(ctx context.Context, entities []kernel.Entity) error {
	dtos, err := r.toDTOs(entities)
	if err != nil || len(dtos) == 0 {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return entityquery.TranslateError(bookstore.BookDataSource, err)
	}
	return nil
}

// Update overwrites every column of each book, including cleared optional ones.
func (r *GormBookRepository) Update(ctx context.Context, entities []kernel.Entity) error {
	dtos, err := r.toDTOs(entities)
	if err != nil {
		return err
	}

	for i, dto := range dtos {
		result := r.db.WithContext(ctx).Model(&BookDTO{}).
			Where("id = ?", dto.ID).
			Select("*").
			Updates(&dto)
		if result.Error != nil {
			return entityquery.TranslateError(bookstore.BookDataSource, result.Error)
		}
		if result.RowsAffected == 0 {
			return entityquery.NotFoundError(bookstore.BookDataSource, entities[i].ID())
		}
	}
	return nil
}

func (r *GormBookRepository) Delete(ctx context.Context, entities []kernel.Entity) error {
	dtos, err := r.toDTOs(entities)
	if err != nil {
		return err
	}

	for i, dto := range dtos {
		result := r.db.WithContext(ctx).Delete(&BookDTO{}, "id = ?", dto.ID)
		if result.Error != nil {
			return entityquery.TranslateError(bookstore.BookDataSource, result.Error)
		}
		if result.RowsAffected == 0 {
			return entityquery.NotFoundError(bookstore.BookDataSource, entities[i].ID())
		}
	}
	return nil
}

func (r *GormBookRepository) toDTOs(entities []kernel.Entity) ([]BookDTO, error) {
	dtos := make([]BookDTO, 0, len(entities))
	for _, e := range entities {
		book, ok := e.(*bookstore.Book)
		if !ok {
			return nil, entityquery.ForeignEntityError(bookstore.BookDataSource, e)
		}
		if err := book.Validate(); err != nil {
			return nil, err
		}
		dtos = append(dtos, fromDomain(book))
	}
	return dtos, nil
}
