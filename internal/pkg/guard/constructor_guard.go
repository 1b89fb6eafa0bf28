// Package guard provides the ConstructorGuard used by commands, queries and
// entities to tell values built through their constructor apart from zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when the
// caller passes a nil validation error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as created through its designated constructor.
// Embed it in a struct, set it with NewConstructorGuard inside the constructor
// and check it from the struct's Validate method:
//
//	var ErrReadCommandIsNotConstructed = errors.New("ReadCommand must be created via NewReadCommand")
//
//	type ReadCommand struct {
//	    dataSource kernel.DataSource
//	    guard      guard.ConstructorGuard
//	}
//
//	func (c ReadCommand) Validate() error {
//	    return c.guard.Validate(ErrReadCommandIsNotConstructed)
//	}
//
// A zero-value struct carries a zero-value guard and fails validation.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that reports the owning value as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
