package queue

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidQueueOperation is returned when a caller breaks the System contract:
// operating on an inactive or empty current queue, focusing an inactive queue,
// deactivating a non-empty queue or addressing a queue that does not exist.
var ErrInvalidQueueOperation = errors.New("invalid queue operation")

type slot[E any] struct {
	queue  Queue[E]
	active bool
}

// System is a growable sequence of FIFO queues addressed by index. Queues can be
// activated and deactivated but never removed. Queue commands (Enqueue, Dequeue,
// Front, IsEmpty) apply to the current queue, which is always an active one.
// Inactive queues are always empty.
//
// A System is not safe for concurrent use.
type System[E any] struct {
	slots    []slot[E]
	newQueue func() Queue[E]
	current  int
	elements int
}

// NewSystem returns a System with n active ArrayQueues and room for 2n before
// the backing storage has to grow. It panics if n < 1.
func NewSystem[E any](n int) *System[E] {
	return NewSystemWith(n, func() Queue[E] { return NewQueue[E]() })
}

// NewSystemWith is NewSystem with a custom queue backend.
func NewSystemWith[E any](n int, newQueue func() Queue[E]) *System[E] {
	if n < 1 {
		panic(fmt.Sprintf("queue: system needs at least one active queue, got %d", n))
	}
	s := &System[E]{
		slots:    make([]slot[E], n, 2*n),
		newQueue: newQueue,
	}
	for i := range s.slots {
		s.slots[i] = slot[E]{queue: newQueue(), active: true}
	}
	return s
}

func (s *System[E]) currentSlot(op string) (*slot[E], error) {
	sl := &s.slots[s.current]
	if !sl.active {
		return nil, errors.Wrapf(ErrInvalidQueueOperation, "cannot %s in a deactivated queue", op)
	}
	return sl, nil
}

func (s *System[E]) Enqueue(e E) error {
	sl, err := s.currentSlot("enqueue")
	if err != nil {
		return err
	}
	sl.queue.Enqueue(e)
	s.elements++
	return nil
}

func (s *System[E]) Dequeue() error {
	sl, err := s.currentSlot("dequeue")
	if err != nil {
		return err
	}
	if _, ok := sl.queue.Dequeue(); !ok {
		return errors.Wrap(ErrInvalidQueueOperation, "cannot dequeue from an empty queue")
	}
	s.elements--
	return nil
}

func (s *System[E]) Front() (E, error) {
	var zero E
	sl, err := s.currentSlot("get front element")
	if err != nil {
		return zero, err
	}
	e, ok := sl.queue.Front()
	if !ok {
		return zero, errors.Wrap(ErrInvalidQueueOperation, "cannot get front element from an empty queue")
	}
	return e, nil
}

func (s *System[E]) IsEmpty() (bool, error) {
	sl, err := s.currentSlot("check if empty")
	if err != nil {
		return false, err
	}
	return sl.queue.IsEmpty(), nil
}

// Create appends a new inactive queue, doubling the backing storage when full.
func (s *System[E]) Create() {
	if len(s.slots) == cap(s.slots) {
		s.grow()
	}
	s.slots = append(s.slots, slot[E]{queue: s.newQueue()})
}

func (s *System[E]) grow() {
	grown := make([]slot[E], len(s.slots), 2*cap(s.slots))
	copy(grown, s.slots)
	s.slots = grown
}

func (s *System[E]) valid(i int) bool { return i >= 0 && i < len(s.slots) }

func (s *System[E]) IsActivated(i int) bool {
	return s.valid(i) && s.slots[i].active
}

func (s *System[E]) Activate(i int) {
	if s.valid(i) {
		s.slots[i].active = true
	}
}

// Deactivate makes queue i inactive. If it was the current queue, the lowest
// indexed active queue becomes current. The last active queue cannot be
// deactivated.
func (s *System[E]) Deactivate(i int) error {
	if !s.valid(i) {
		return errors.Wrapf(ErrInvalidQueueOperation, "no queue with index %d", i)
	}
	if !s.slots[i].queue.IsEmpty() {
		return errors.Wrap(ErrInvalidQueueOperation, "trying to deactivate a non empty queue")
	}
	if !s.slots[i].active {
		return nil
	}
	if s.HowManyActiveQueues() == 1 {
		return errors.Wrap(ErrInvalidQueueOperation, "trying to deactivate the last active queue")
	}
	s.slots[i].active = false
	if s.current == i {
		for j := range s.slots {
			if s.slots[j].active {
				s.current = j
				break
			}
		}
	}
	return nil
}

func (s *System[E]) Focus(i int) error {
	if !s.IsActivated(i) {
		return errors.Wrapf(ErrInvalidQueueOperation, "cannot focus into deactivated queue %d", i)
	}
	s.current = i
	return nil
}

func (s *System[E]) Current() int { return s.current }

// FocusMin makes the active queue with the fewest elements current, the lowest
// index winning ties, and returns its size.
func (s *System[E]) FocusMin() int {
	return s.focusBy(func(size, best int) bool { return size < best })
}

// FocusMax makes the active queue with the most elements current, the lowest
// index winning ties, and returns its size.
func (s *System[E]) FocusMax() int {
	return s.focusBy(func(size, best int) bool { return size > best })
}

func (s *System[E]) focusBy(better func(size, best int) bool) int {
	idx := -1
	best := 0
	for i, sl := range s.slots {
		if !sl.active {
			continue
		}
		if size := sl.queue.Size(); idx < 0 || better(size, best) {
			idx, best = i, size
		}
	}
	if idx < 0 {
		return -1
	}
	s.current = idx
	return best
}

func (s *System[E]) HowManyQueues() int { return len(s.slots) }

func (s *System[E]) HowManyActiveQueues() int {
	n := 0
	for _, sl := range s.slots {
		if sl.active {
			n++
		}
	}
	return n
}

// Size is the number of elements across all queues.
func (s *System[E]) Size() int { return s.elements }

// QueueSize is the number of elements in queue i, or 0 for an unknown index.
func (s *System[E]) QueueSize(i int) int {
	if !s.valid(i) {
		return 0
	}
	return s.slots[i].queue.Size()
}

func (s *System[E]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total number of elements in queue system %d\n", s.elements)
	fmt.Fprintf(&b, "Current queue %d\n", s.current)
	for _, sl := range s.slots {
		b.WriteString(formatQueue(sl.queue))
		if sl.active {
			b.WriteString("     active\n")
		} else {
			b.WriteString(" not active\n")
		}
	}
	return b.String()
}

func formatQueue[E any](q Queue[E]) string {
	it, ok := q.(interface{ Each(func(E)) })
	if !ok {
		return fmt.Sprintf("<%d elements>", q.Size())
	}
	parts := make([]string, 0, q.Size())
	it.Each(func(e E) { parts = append(parts, fmt.Sprint(e)) })
	return "<" + strings.Join(parts, " ") + ">"
}
