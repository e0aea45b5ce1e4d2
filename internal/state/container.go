// Package state holds shared values behind an owned container with explicit
// change notification.
package state

import "sync"

type Container[T any] struct {
	mu        sync.RWMutex
	value     T
	nextID    int
	listeners map[int]func(T)
}

func New[T any](initial T) *Container[T] {
	return &Container[T]{value: initial, listeners: make(map[int]func(T))}
}

func (c *Container[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set stores v and calls every listener with it, outside the lock.
func (c *Container[T]) Set(v T) {
	c.mu.Lock()
	c.value = v
	listeners := make([]func(T), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(v)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (c *Container[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.listeners, id)
		})
	}
}
