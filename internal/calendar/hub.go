package calendar

import "sync"

// subscriber is one registered change callback.
type subscriber struct {
	id     int
	origin string
	fn     func()
}

// notifyHub fans a key's change notification out to in-process subscribers.
// The writer's own origin is skipped. Callbacks run on their own goroutines
// so a slow subscriber cannot block the writer.
type notifyHub struct {
	mu   sync.Mutex
	next int
	subs map[string][]subscriber
}

func newNotifyHub() *notifyHub {
	return &notifyHub{subs: make(map[string][]subscriber)}
}

func (h *notifyHub) subscribe(key, origin string, fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	id := h.next
	h.subs[key] = append(h.subs[key], subscriber{id: id, origin: origin, fn: fn})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		list := h.subs[key]
		for i, sub := range list {
			if sub.id == id {
				h.subs[key] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

func (h *notifyHub) notify(key, writerOrigin string) {
	h.mu.Lock()
	list := make([]subscriber, len(h.subs[key]))
	copy(list, h.subs[key])
	h.mu.Unlock()

	for _, sub := range list {
		if sub.origin == writerOrigin {
			continue
		}
		go sub.fn()
	}
}
