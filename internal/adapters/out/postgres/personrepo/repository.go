package personrepo

import (
	"context"

	"bookstore/internal/adapters/out/postgres/entityquery"
	"bookstore/internal/core/domain/model/bookstore"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"

	"gorm.io/gorm"
)

// GormPersonRepository implements ports.EntityRepository for Bookstore.Person.
// Deleting a person that books still reference fails with a conflict.
type GormPersonRepository struct {
	db *gorm.DB
}

func NewGormPersonRepository(db *gorm.DB) *GormPersonRepository {
	return &GormPersonRepository{db: db}
}

func (r *GormPersonRepository) DataSource() kernel.DataSource {
	return bookstore.PersonDataSource
}

func (r *GormPersonRepository) Read(ctx context.Context, params ports.ReadParameters) ([]kernel.Entity, error) {
	query, err := entityquery.ApplyRead(r.db.WithContext(ctx).Model(&PersonDTO{}), Columns, params, "id")
	if err != nil {
		return nil, err
	}

	var dtos []PersonDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, entityquery.TranslateError(bookstore.PersonDataSource, err)
	}

	people := make([]kernel.Entity, 0, len(dtos))
	for _, dto := range dtos {
		person, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		people = append(people, person)
	}
	return people, nil
}

func (r *GormPersonRepository) Count(ctx context.Context, filters []ports.Filter) (int64, error) {
	query, err := entityquery.ApplyFilters(r.db.WithContext(ctx).Model(&PersonDTO{}), Columns, filters)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, entityquery.TranslateError(bookstore.PersonDataSource, err)
	}
	return count, nil
}

func (r *GormPersonRepository) Insert(ctx context.Context, entities []kernel.Entity) error {
	dtos, err := r.toDTOs(entities)
	if err != nil || len(dtos) == 0 {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return entityquery.TranslateError(bookstore.PersonDataSource, err)
	}
	return nil
}

func (r *GormPersonRepository) Update(ctx context.Context, entities []kernel.Entity) error {
	dtos, err := r.toDTOs(entities)
	if err != nil {
		return err
	}

	for i, dto := range dtos {
		result := r.db.WithContext(ctx).Model(&PersonDTO{}).Where("id = ?", dto.ID).Update("name", dto.Name)
		if result.Error != nil {
			return entityquery.TranslateError(bookstore.PersonDataSource, result.Error)
		}
		if result.RowsAffected == 0 {
			return entityquery.NotFoundError(bookstore.PersonDataSource, entities[i].ID())
		}
	}
	return nil
}

func (r *GormPersonRepository) Delete(ctx context.Context, entities []kernel.Entity) error {
	dtos, err := r.toDTOs(entities)
	if err != nil {
		return err
	}

	for i, dto := range dtos {
		result := r.db.WithContext(ctx).Delete(&PersonDTO{}, "id = ?", dto.ID)
		if result.Error != nil {
			return entityquery.TranslateError(bookstore.PersonDataSource, result.Error)
		}
		if result.RowsAffected == 0 {
			return entityquery.NotFoundError(bookstore.PersonDataSource, entities[i].ID())
		}
	}
	return nil
}

func (r *GormPersonRepository) toDTOs(entities []kernel.Entity) ([]PersonDTO, error) {
	dtos := make([]PersonDTO, 0, len(entities))
	for _, e := range entities {
		person, ok := e.(*bookstore.Person)
		if !ok {
			return nil, entityquery.ForeignEntityError(bookstore.PersonDataSource, e)
		}
		if err := person.Validate(); err != nil {
			return nil, err
		}
		dtos = append(dtos, fromDomain(person))
	}
	return dtos, nil
}
