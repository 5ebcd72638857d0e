// Package celestial implements the spatial memory capability: CRUD-style
// storage of emotion clouds and resonant nodes keyed by id.
//
// # Concurrency Model
//
// Unlike the stateless HAL capabilities, the celestial store is shared
// mutable state. MemoryStore guards both id maps with a single mutex so that
// exactly one operation is active at a time: a concurrent store and remove
// can never corrupt the mappings, and a retrieve can never observe a
// half-applied mutation. List operations return snapshots, not live views,
// so callers iterate safely while other callers mutate.
package celestial

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an operation on an id the store has no entry for.
	ErrNotFound = errors.New("celestial entity not found")

	// ErrDuplicateID reports a store of an id that already exists. Entries
	// are never silently overwritten; use an update operation instead.
	ErrDuplicateID = errors.New("celestial id already exists")
)

// Cloud is an emotion cloud: a spatial representation of an emotional state.
type Cloud struct {
	ID        string
	Position  [3]float32
	Color     [4]uint8
	Intensity float32
	Shape     string
}

// Node is a resonant node: a conceptual point linked to emotion clouds,
// carrying an opaque reference to more detailed memory data.
type Node struct {
	ID              string
	Position        [3]float32
	RelatedCloudIDs []string
	MemoryRef       string
}

// Store is the spatial memory capability. All mutating operations are atomic
// with respect to the store; errors are returned, never raised as faults.
type Store interface {
	StoreCloud(cloud Cloud) error
	Cloud(id string) (Cloud, error)
	Clouds() []Cloud
	UpdateCloud(cloud Cloud) error
	RemoveCloud(id string) error

	StoreNode(node Node) error
	Node(id string) (Node, error)
	Nodes() []Node
	UpdateNode(node Node) error
	RemoveNode(id string) error
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

func duplicate(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrDuplicateID, kind, id)
}
