package server

import (
	"sync"
	"time"
	"unicode/utf8"
)

// Message is one raw sensor payload kept for debugging.
type Message struct {
	Timestamp string `json:"timestamp"`
	Topic     string `json:"topic"`
	Payload   string `json:"payload"`
	IsJSON    bool   `json:"is_json"`
}

// Ring keeps the most recent messages, oldest dropped first.
type Ring struct {
	mu   sync.Mutex
	max  int
	msgs []Message
}

func NewRing(max int) *Ring {
	return &Ring{max: max}
}

// Record stores one raw payload with a receive timestamp.
func (r *Ring) Record(topic string, payload []byte) {
	m := Message{
		Timestamp: time.Now().Format("2006-01-02 15:04:05.000"),
		Topic:     topic,
		Payload:   string(payload),
		IsJSON:    looksLikeJSON(payload),
	}
	if !utf8.ValidString(m.Payload) {
		m.Payload = "<binary payload>"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
	if len(r.msgs) > r.max {
		r.msgs = r.msgs[len(r.msgs)-r.max:]
	}
}

func (r *Ring) Recent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.msgs))
	copy(out, r.msgs)
	return out
}

func looksLikeJSON(p []byte) bool {
	for _, b := range p {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}
