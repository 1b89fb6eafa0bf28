// Package errs provides standardized error types for the bookstore host.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes two families of errors:
//   - Value errors (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError,
//     ObjectNotFoundError) raised by entities, commands and repositories
//   - CommandError, the structured failure carried by a command result, tagged
//     with one of the Kind values
//
// Each value error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// KindOf maps any error onto a Kind, so request handlers only ever switch over
// the closed set of kinds when choosing a response status.
package errs
