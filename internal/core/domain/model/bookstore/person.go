package bookstore

import (
	"errors"
	"strings"
	"unicode/utf8"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
)

var (
	// ErrPersonIsNotConstructed is returned when a Person was not created through
	// NewPerson or RestorePerson.
	ErrPersonIsNotConstructed = errors.New("Person must be created via NewPerson constructor")
)

// Person is an author that books can reference.
type Person struct {
	id   kernel.UUID
	name string

	isConstructed bool
}

// NewPerson creates a person with a freshly generated identifier.
func NewPerson(name string) (*Person, error) {
	return RestorePerson(kernel.NewUUID(), name)
}

// RestorePerson rebuilds a person from persisted or client supplied state.
func RestorePerson(id kernel.UUID, name string) (*Person, error) {
	person := &Person{isConstructed: true}

	if err := errors.Join(
		person.setID(id),
		person.setName(name),
	); err != nil {
		return nil, err
	}

	return person, nil
}

func (p *Person) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPersonIsNotConstructed
	}
	return nil
}

func (p *Person) Clone() kernel.Entity {
	if p == nil {
		return p
	}
	c := *p
	return &c
}

func (p *Person) ID() kernel.UUID {
	return p.id
}

func (p *Person) Name() string {
	return p.name
}

func (p *Person) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Person) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errs.NewValueIsOutOfRangeError("name length", utf8.RuneCountInString(name), 1, MaxNameLength)
	}
	p.name = name
	return nil
}
