package events

import "sync"

// Hub fans events out to SSE subscribers. A subscriber bound to a session
// sees that session's events plus broadcasts; an unbound one sees all.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]string

	done      chan struct{}
	closeOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[chan string]string),
		done:    make(chan struct{}),
	}
}

// Done is closed by Close. Streams select on it to end before the server
// waits for them.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Close ends every stream. It is safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Hub) Subscribe(session string) chan string {
	ch := make(chan string, 10)
	h.mu.Lock()
	h.clients[ch] = session
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

// Publish delivers evt to subscribers of session. An empty session broadcasts.
func (h *Hub) Publish(session, evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch, sub := range h.clients {
		if session != "" && sub != "" && sub != session {
			continue
		}
		select {
		case ch <- evt:
		default:
			// drop if slow
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
