package celestial

import "sync"

// MemoryStore is the in-process reference implementation of Store. See the
// package documentation for the concurrency model.
type MemoryStore struct {
	mu     sync.Mutex
	clouds map[string]Cloud
	nodes  map[string]Node
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clouds: make(map[string]Cloud),
		nodes:  make(map[string]Node),
	}
}

// copyCloud detaches a cloud from the store's internal state. Cloud has no
// reference-typed fields, so a value copy suffices; kept as a function so
// that adding one later has a single place to handle it.
func copyCloud(c Cloud) Cloud {
	return c
}

func copyNode(n Node) Node {
	n.RelatedCloudIDs = append([]string(nil), n.RelatedCloudIDs...)
	return n
}

// StoreCloud adds a new cloud. It fails with ErrDuplicateID if the id is
// already present.
func (s *MemoryStore) StoreCloud(cloud Cloud) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clouds[cloud.ID]; exists {
		return duplicate("cloud", cloud.ID)
	}
	s.clouds[cloud.ID] = copyCloud(cloud)
	return nil
}

// Cloud retrieves a cloud by id.
func (s *MemoryStore) Cloud(id string) (Cloud, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cloud, ok := s.clouds[id]
	if !ok {
		return Cloud{}, notFound("cloud", id)
	}
	return copyCloud(cloud), nil
}

// Clouds returns a snapshot of all stored clouds.
func (s *MemoryStore) Clouds() []Cloud {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Cloud, 0, len(s.clouds))
	for _, cloud := range s.clouds {
		out = append(out, copyCloud(cloud))
	}
	return out
}

// UpdateCloud replaces an existing cloud. It fails with ErrNotFound if the
// id is absent.
func (s *MemoryStore) UpdateCloud(cloud Cloud) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clouds[cloud.ID]; !exists {
		return notFound("cloud", cloud.ID)
	}
	s.clouds[cloud.ID] = copyCloud(cloud)
	return nil
}

// RemoveCloud deletes a cloud by id.
func (s *MemoryStore) RemoveCloud(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clouds[id]; !exists {
		return notFound("cloud", id)
	}
	delete(s.clouds, id)
	return nil
}

// StoreNode adds a new node. It fails with ErrDuplicateID if the id is
// already present.
func (s *MemoryStore) StoreNode(node Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[node.ID]; exists {
		return duplicate("node", node.ID)
	}
	s.nodes[node.ID] = copyNode(node)
	return nil
}

// Node retrieves a node by id.
func (s *MemoryStore) Node(id string) (Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[id]
	if !ok {
		return Node{}, notFound("node", id)
	}
	return copyNode(node), nil
}

// Nodes returns a snapshot of all stored nodes.
func (s *MemoryStore) Nodes() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Node, 0, len(s.nodes))
	for _, node := range s.nodes {
		out = append(out, copyNode(node))
	}
	return out
}

// UpdateNode replaces an existing node. It fails with ErrNotFound if the id
// is absent.
func (s *MemoryStore) UpdateNode(node Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[node.ID]; !exists {
		return notFound("node", node.ID)
	}
	s.nodes[node.ID] = copyNode(node)
	return nil
}

// RemoveNode deletes a node by id.
func (s *MemoryStore) RemoveNode(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[id]; !exists {
		return notFound("node", id)
	}
	delete(s.nodes, id)
	return nil
}
