package persistent

// Persistent Hash Array Mapped Trie (HAMT) implementation
// Provides efficient immutable map operations

const (
	hamtBits = 5
	hamtSize = 1 << hamtBits // 32
	hamtMask = hamtSize - 1
)

// Key is any comparable value able to hash itself.
type Key interface {
	comparable
	Hash() uint32
}

// Map is an immutable hash map. The zero value is not usable; start from Empty.
type Map[K Key, V any] struct {
	root  *hamtNode[K, V]
	count int
}

// hamtNode is a node in the HAMT
type hamtNode[K Key, V any] struct {
	bitmap uint32 // which indices are populated
	nodes  []any  // hamtEntry or *hamtNode
}

// hamtEntry holds a key-value pair
type hamtEntry[K Key, V any] struct {
	hash  uint32
	key   K
	value V
}

// Empty returns an empty persistent map
func Empty[K Key, V any]() *Map[K, V] {
	return &Map[K, V]{}
}

// Len returns the number of entries
func (m *Map[K, V]) Len() int {
	return m.count
}

// Get returns the value for a key
func (m *Map[K, V]) Get(key K) (V, bool) {
	if m.root == nil {
		var zero V
		return zero, false
	}
	return m.root.get(key.Hash(), key, 0)
}

// Contains checks if a key exists
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Put returns a new map with the key-value pair added/updated
func (m *Map[K, V]) Put(key K, value V) *Map[K, V] {
	hash := key.Hash()
	root := m.root
	if root == nil {
		root = &hamtNode[K, V]{}
	}
	newRoot, added := root.put(hash, key, value, 0)

	newCount := m.count
	if added {
		newCount++
	}
	return &Map[K, V]{root: newRoot, count: newCount}
}

// Remove returns a new map with the key removed
func (m *Map[K, V]) Remove(key K) *Map[K, V] {
	if m.root == nil {
		return m
	}
	newRoot, removed := m.root.remove(key.Hash(), key, 0)
	if !removed {
		return m
	}
	return &Map[K, V]{root: newRoot, count: m.count - 1}
}

// Keys returns all keys as a slice, in no particular order
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.count)
	if m.root != nil {
		m.root.collectKeys(&keys)
	}
	return keys
}

// --- hamtNode methods ---

func (n *hamtNode[K, V]) get(hash uint32, key K, shift uint) (V, bool) {
	var zero V
	if shift >= 32 {
		// Collision bucket search
		for _, node := range n.nodes {
			if entry, ok := node.(hamtEntry[K, V]); ok && entry.key == key {
				return entry.value, true
			}
		}
		return zero, false
	}

	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx
	if n.bitmap&bit == 0 {
		return zero, false
	}

	pos := popcount(n.bitmap & (bit - 1))
	switch v := n.nodes[pos].(type) {
	case hamtEntry[K, V]:
		if v.hash == hash && v.key == key {
			return v.value, true
		}
		return zero, false
	case *hamtNode[K, V]:
		return v.get(hash, key, shift+hamtBits)
	}
	return zero, false
}

func (n *hamtNode[K, V]) clone() *hamtNode[K, V] {
	newNode := &hamtNode[K, V]{
		bitmap: n.bitmap,
		nodes:  make([]any, len(n.nodes)),
	}
	copy(newNode.nodes, n.nodes)
	return newNode
}

func (n *hamtNode[K, V]) put(hash uint32, key K, value V, shift uint) (*hamtNode[K, V], bool) {
	// If we exhausted the hash bits, we store multiple entries in a collision bucket.
	if shift >= 32 {
		newNode := n.clone()
		for i, node := range newNode.nodes {
			if entry, ok := node.(hamtEntry[K, V]); ok && entry.key == key {
				newNode.nodes[i] = hamtEntry[K, V]{hash: hash, key: key, value: value}
				return newNode, false
			}
		}
		newNode.nodes = append(newNode.nodes, hamtEntry[K, V]{hash: hash, key: key, value: value})
		return newNode, true
	}

	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx
	newNode := n.clone()

	if n.bitmap&bit == 0 {
		newNode.bitmap |= bit
		pos := popcount(newNode.bitmap & (bit - 1))
		newNode.nodes = append(newNode.nodes, nil)
		copy(newNode.nodes[pos+1:], newNode.nodes[pos:])
		newNode.nodes[pos] = hamtEntry[K, V]{hash: hash, key: key, value: value}
		return newNode, true
	}

	pos := popcount(n.bitmap & (bit - 1))
	switch v := newNode.nodes[pos].(type) {
	case hamtEntry[K, V]:
		if v.hash == hash && v.key == key {
			newNode.nodes[pos] = hamtEntry[K, V]{hash: hash, key: key, value: value}
			return newNode, false
		}
		// Collision - create child node and push both entries down
		child := &hamtNode[K, V]{}
		child, _ = child.put(v.hash, v.key, v.value, shift+hamtBits)
		child, _ = child.put(hash, key, value, shift+hamtBits)
		newNode.nodes[pos] = child
		return newNode, true
	case *hamtNode[K, V]:
		newChild, added := v.put(hash, key, value, shift+hamtBits)
		newNode.nodes[pos] = newChild
		return newNode, added
	}
	return newNode, false
}

func (n *hamtNode[K, V]) remove(hash uint32, key K, shift uint) (*hamtNode[K, V], bool) {
	if shift >= 32 {
		for i, node := range n.nodes {
			if entry, ok := node.(hamtEntry[K, V]); ok && entry.key == key {
				newNode := &hamtNode[K, V]{
					bitmap: n.bitmap,
					nodes:  make([]any, 0, len(n.nodes)-1),
				}
				newNode.nodes = append(newNode.nodes, n.nodes[:i]...)
				newNode.nodes = append(newNode.nodes, n.nodes[i+1:]...)
				return newNode, true
			}
		}
		return n, false
	}

	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx
	if n.bitmap&bit == 0 {
		return n, false
	}

	pos := popcount(n.bitmap & (bit - 1))
	switch v := n.nodes[pos].(type) {
	case hamtEntry[K, V]:
		if v.hash != hash || v.key != key {
			return n, false
		}
		return n.without(pos, bit), true

	case *hamtNode[K, V]:
		newChild, removed := v.remove(hash, key, shift+hamtBits)
		if !removed {
			return n, false
		}
		if len(newChild.nodes) == 0 {
			return n.without(pos, bit), true
		}
		newNode := n.clone()
		// Pull a lone entry up so lookups stay shallow.
		if entry, ok := newChild.nodes[0].(hamtEntry[K, V]); ok && len(newChild.nodes) == 1 && shift+hamtBits < 32 {
			newNode.nodes[pos] = entry
		} else {
			newNode.nodes[pos] = newChild
		}
		return newNode, true
	}
	return n, false
}

func (n *hamtNode[K, V]) without(pos int, bit uint32) *hamtNode[K, V] {
	newNode := &hamtNode[K, V]{
		bitmap: n.bitmap &^ bit,
		nodes:  make([]any, 0, len(n.nodes)-1),
	}
	newNode.nodes = append(newNode.nodes, n.nodes[:pos]...)
	newNode.nodes = append(newNode.nodes, n.nodes[pos+1:]...)
	return newNode
}

func (n *hamtNode[K, V]) collectKeys(keys *[]K) {
	for _, node := range n.nodes {
		switch v := node.(type) {
		case hamtEntry[K, V]:
			*keys = append(*keys, v.key)
		case *hamtNode[K, V]:
			v.collectKeys(keys)
		}
	}
}

// popcount counts set bits
func popcount(x uint32) int {
	x = x - ((x >> 1) & 0x55555555)
	x = (x & 0x33333333) + ((x >> 2) & 0x33333333)
	x = (x + (x >> 4)) & 0x0f0f0f0f
	x = x + (x >> 8)
	x = x + (x >> 16)
	return int(x & 0x3f)
}
