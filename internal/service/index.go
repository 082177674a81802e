package service

// index is a map that remembers insertion order
type index[K comparable, V any] struct {
	items map[K]V
	order []K
}

func newIndex[K comparable, V any]() *index[K, V] {
	return &index[K, V]{items: make(map[K]V)}
}

func (ix *index[K, V]) get(k K) (V, bool) {
	v, ok := ix.items[k]
	return v, ok
}

func (ix *index[K, V]) has(k K) bool {
	_, ok := ix.items[k]
	return ok
}

// put inserts or replaces; a replaced key keeps its original position
func (ix *index[K, V]) put(k K, v V) {
	if _, ok := ix.items[k]; !ok {
		ix.order = append(ix.order, k)
	}
	ix.items[k] = v
}

func (ix *index[K, V]) remove(k K) bool {
	if _, ok := ix.items[k]; !ok {
		return false
	}
	delete(ix.items, k)
	for i, key := range ix.order {
		if key == k {
			ix.order = append(ix.order[:i], ix.order[i+1:]...)
			break
		}
	}
	return true
}

func (ix *index[K, V]) len() int {
	return len(ix.order)
}

// values returns the entries in insertion order
func (ix *index[K, V]) values() []V {
	out := make([]V, 0, len(ix.order))
	for _, k := range ix.order {
		out = append(out, ix.items[k])
	}
	return out
}

// clone returns a shallow copy usable as a rollback point
func (ix *index[K, V]) clone() *index[K, V] {
	c := &index[K, V]{
		items: make(map[K]V, len(ix.items)),
		order: make([]K, len(ix.order)),
	}
	for k, v := range ix.items {
		c.items[k] = v
	}
	copy(c.order, ix.order)
	return c
}
