package queue

// Queue is a FIFO of items. ArrayQueue is the only backend shipped here, but
// System accepts any implementation through NewSystemWith.
type Queue[E any] interface {
	Enqueue(item E)
	Dequeue() (E, bool)
	Front() (E, bool)
	IsEmpty() bool
	Size() int
}

type ArrayQueue[E any] struct {
	items []E
}

func NewQueue[E any]() *ArrayQueue[E] { return &ArrayQueue[E]{} }

func (q *ArrayQueue[E]) Enqueue(item E) {
	q.items = append(q.items, item)
}

func (q *ArrayQueue[E]) Dequeue() (E, bool) {
	var zero E
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return item, true
}

func (q *ArrayQueue[E]) Front() (E, bool) {
	if len(q.items) == 0 {
		var zero E
		return zero, false
	}
	return q.items[0], true
}

func (q *ArrayQueue[E]) IsEmpty() bool { return len(q.items) == 0 }

func (q *ArrayQueue[E]) Size() int { return len(q.items) }

// Each calls fn for every item from front to rear.
func (q *ArrayQueue[E]) Each(fn func(E)) {
	for _, it := range q.items {
		fn(it)
	}
}
