package notify

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
)

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub is a Sink that broadcasts events to any number of SSE subscribers.
// A slow subscriber drops events rather than blocking the game loops.
type Hub struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan []byte]struct{})}
}

func (h *Hub) Emit(event string, payload any) {
	data, err := json.Marshal(envelope{Event: event, Data: payload})
	if nil != err {
		log.Warn("unable to marshal notification", "event", event, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub <- data:
		default:
		}
	}
}

// Subscribe registers a new subscriber channel. The caller must Unsubscribe
// when done.
func (h *Hub) Subscribe() chan []byte {
	sub := make(chan []byte, 64)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[sub] = struct{}{}
	return sub
}

func (h *Hub) Unsubscribe(sub chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, sub)
}

// ServeHTTP streams events to one client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-sub:
			if _, err := w.Write([]byte("data: ")); nil != err {
				return
			}
			if _, err := w.Write(data); nil != err {
				return
			}
			if _, err := w.Write([]byte("\n\n")); nil != err {
				return
			}
			flusher.Flush()
		}
	}
}
