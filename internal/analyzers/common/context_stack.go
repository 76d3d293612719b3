package common

// ContextStack is a generic LIFO stack for tracking nested constructs while
// a visitor walks a syntax tree, such as the enclosing case expressions of
// a node or the functions currently open.
type ContextStack[T any] struct {
	items []T
}

// NewContextStack creates a new empty [ContextStack].
func NewContextStack[T any]() *ContextStack[T] {
	return &ContextStack[T]{}
}

// Push adds an element to the top of the stack.
func (s *ContextStack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes and returns the top element. Returns the zero value and false
// if the stack is empty.
func (s *ContextStack[T]) Pop() (T, bool) {
	if len(s.items) == 0 {
		var zero T

		return zero, false
	}

	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]

	return top, true
}

// Current returns the top element without removing it. Returns the zero
// value and false if the stack is empty.
func (s *ContextStack[T]) Current() (T, bool) {
	if len(s.items) == 0 {
		var zero T

		return zero, false
	}

	return s.items[len(s.items)-1], true
}

// Depth returns the number of elements on the stack.
func (s *ContextStack[T]) Depth() int {
	return len(s.items)
}

// Reset empties the stack, keeping its storage.
func (s *ContextStack[T]) Reset() {
	clear(s.items)
	s.items = s.items[:0]
}
