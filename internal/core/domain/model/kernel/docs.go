// Package kernel provides the domain primitives shared by every data source of
// the host: identifiers, data source names, the Entity contract and the
// authenticated principal carried through a request.
//
// The package includes:
//   - UUID: a value object for entity identifiers
//   - DataSource: the namespaced "<Module>.<Entity>" name commands are addressed to
//   - Entity: the contract every persisted record type satisfies
//   - Principal: the already-authenticated user attached to a context.Context
//
// All values are immutable after construction and safe for concurrent use.
package kernel
