// Package personrepo persists Bookstore.Person entities with gorm.
package personrepo

import (
	"bookstore/internal/adapters/out/postgres/entityquery"
	"bookstore/internal/core/domain/model/bookstore"
	"bookstore/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

const TableName = "bookstore_person"

type PersonDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:256;not null"`
}

func (PersonDTO) TableName() string {
	return TableName
}

var Columns = entityquery.Columns{
	"ID":   {Name: "id", Type: entityquery.UUID},
	"Name": {Name: "name", Type: entityquery.Text},
}

func fromDomain(person *bookstore.Person) PersonDTO {
	return PersonDTO{
		ID:   person.ID().Bytes(),
		Name: person.Name(),
	}
}

func toDomain(dto PersonDTO) (*bookstore.Person, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return bookstore.RestorePerson(id, dto.Name)
}
