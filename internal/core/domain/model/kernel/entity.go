package kernel

// Entity is a single record managed by a data source. Concrete entity types live
// in their module package (for example bookstore.Book) and are passed through
// commands and repositories behind this interface.
type Entity interface {
	ID() UUID
	Validate() error
	// Clone returns an independent copy. Changes to either copy never show
	// through the other.
	Clone() Entity
}
