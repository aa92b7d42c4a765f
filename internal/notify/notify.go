// Package notify carries game events out to whatever is watching: the web
// frontend over SSE in production, a recorder in tests.
package notify

// Event names on the wire.
const (
	EventCountdown    = "countdown"
	EventPlayMusic    = "play_music"
	EventChart        = "chart_event"
	EventTargetActive = "target_active"
	EventNoteResult   = "note_result"
)

// Sink accepts named notification events. Implementations must not block the
// caller for long; emission happens outside every registry lock.
type Sink interface {
	Emit(event string, payload any)
}
