// Package storage provides the namespaced snapshot persistence used by the
// stores. Each store serializes its whole durable state under one namespace
// with an integer schema version; data persisted under an older version is
// treated as absent on load, never an error.
package storage

// Adapter loads and saves one JSON snapshot per namespace.
type Adapter interface {
	// Load unmarshals the snapshot stored under namespace into out and
	// reports whether a snapshot with a matching version was found.
	Load(namespace string, version int, out any) (bool, error)
	// Save marshals value and stores it under namespace with the given
	// version, replacing any previous snapshot.
	Save(namespace string, version int, value any) error
}
