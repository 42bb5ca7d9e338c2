package freshcache

import "container/list"

// lru tracks key recency for the optional size bound.
// The front of the list is the most recently used key.
type lru struct {
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

func newLRU(capacity int) *lru {
	return &lru{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

// touch marks key as most recently used
func (l *lru) touch(key string) {
	if el, ok := l.items[key]; ok {
		l.order.MoveToFront(el)
	}
}

// add records key and returns the least recently used key when the
// capacity is exceeded
func (l *lru) add(key string) (string, bool) {
	if el, ok := l.items[key]; ok {
		l.order.MoveToFront(el)
		return "", false
	}
	l.items[key] = l.order.PushFront(key)

	if l.order.Len() <= l.capacity {
		return "", false
	}
	oldest := l.order.Back()
	evicted := oldest.Value.(string)
	l.order.Remove(oldest)
	delete(l.items, evicted)
	return evicted, true
}
