package store

// ReadStoreInterface is the query-side storage the order projection
// writes to and the order query handler reads from.
type ReadStoreInterface interface {
	Set(collection, id string, data any)
	Get(collection, id string) (any, bool)
	GetAll(collection string) []any
	Delete(collection, id string)
	Update(collection, id string, updateFn func(current any) any) bool
}
