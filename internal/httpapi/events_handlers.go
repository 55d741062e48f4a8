package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"jobboard-engine/internal/events"
)

// keepAlive is how often an idle stream gets a comment line so proxies
// do not close it.
const keepAlive = 25 * time.Second

type EventsHandler struct {
	Hub *events.Hub
}

// ServeSSE streams events for ?session= (all events when omitted). Each
// frame is named after the event type and carries the JSON envelope.
func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id := sessionID(r)
	ch := h.Hub.Subscribe(id)
	defer h.Hub.Unsubscribe(ch)

	fmt.Fprint(w, "retry: 3000\n\n")
	writeFrame(w, events.MakeEvent(RequestIDFrom(r.Context()), id, events.TypePing, nil))
	flusher.Flush()

	tick := time.NewTicker(keepAlive)
	defer tick.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.Hub.Done():
			return
		case <-tick.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case msg := <-ch:
			writeFrame(w, msg)
			flusher.Flush()
		}
	}
}

func writeFrame(w io.Writer, msg string) {
	name := "message"
	if e, err := events.Decode(msg); err == nil && e.Type != "" {
		name = e.Type
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, msg)
}
